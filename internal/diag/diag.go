// Package diag renders the one-line stderr diagnostics shared by the three
// command binaries: "progName: message". The rendering is terse on purpose
// (spec.md's Non-goals explicitly exclude byte-for-byte reproduction of
// historical diagnostic strings and all --help/--version surfaces), but the
// plumbing underneath is a real structured logger rather than a bare
// fmt.Fprintln, following perkeep.org's use of go.uber.org/zap.
package diag

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

func sugared() *zap.SugaredLogger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.TimeKey = ""
		cfg.EncoderConfig.LevelKey = ""
		cfg.OutputPaths = []string{"stderr"}
		built, err := cfg.Build()
		if err != nil {
			// Logger construction failure is not worth dying over: every
			// diagnostic call below would otherwise lose its message.
			logger = zap.NewNop().Sugar()
			return
		}
		logger = built.Sugar()
	})
	return logger
}

// Errorf prints "<prog>: <message>" to stderr, in the style of the original
// tools' error() calls, but routed through the structured logger above.
func Errorf(prog, format string, args ...any) {
	sugared().Error(prog + ": " + fmt.Sprintf(format, args...))
}

// TryHelp prints the conventional "Try '<prog> --help' for more
// information." trailer used for Usage errors. The --help output itself is
// out of scope; this line is emitted as plain text since it is not a
// diagnostic to be structured.
func TryHelp(prog string) {
	fmt.Fprintf(os.Stderr, "Try '%s --help' for more information.\n", prog)
}
