// Package cleanup provides the process-lifetime cleanup chain used by the
// sort engine to unlink temporary runs and by cmd/sort to remove the copies
// it makes of inputs that -o would overwrite. It generalizes the teacher's src/util/atexit.go: a
// LIFO list of registered functions, run once each, either on a normal exit
// path or just before re-raising a terminating signal.
package cleanup

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mu        sync.Mutex
	fns       []func()
	installed bool
)

// Register adds fn to the cleanup chain. Registered functions run in the
// reverse of their registration order, each at most once.
func Register(fn func()) {
	if fn == nil {
		panic("cleanup: Register called with nil func")
	}
	once := &sync.Once{}
	mu.Lock()
	fns = append(fns, func() { once.Do(fn) })
	mu.Unlock()
}

// Run executes every registered cleanup function, most recently registered
// first. Safe to call more than once; each function still only fires once.
func Run() {
	mu.Lock()
	snapshot := make([]func(), len(fns))
	copy(snapshot, fns)
	mu.Unlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		snapshot[i]()
	}
}

// Exit runs the cleanup chain and then terminates the process with code.
// Callers must use this instead of os.Exit so that temp files and sensitive
// state are always cleaned up, mirroring the teacher's util.Exit.
func Exit(code int) {
	Run()
	os.Exit(code)
}

// InstallSignalGuard arranges for INT/TERM/HUP/PIPE to run the cleanup chain and
// then re-deliver the original signal to this process, so the caller's shell
// observes the conventional 128+signum exit status rather than whatever this
// process would otherwise have returned. Idempotent: calling it more than
// once has no additional effect.
func InstallSignalGuard() {
	mu.Lock()
	if installed {
		mu.Unlock()
		return
	}
	installed = true
	mu.Unlock()

	c := make(chan os.Signal, 4)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGPIPE)
	go func() {
		for sig := range c {
			Run()
			signal.Stop(c)
			proc, err := os.FindProcess(os.Getpid())
			if err == nil {
				_ = proc.Signal(sig)
			}
			sysSig, ok := sig.(syscall.Signal)
			if !ok {
				os.Exit(1)
			}
			os.Exit(128 + int(sysSig))
		}
	}()
}
