package isaac

import (
	"errors"
	"io"
	"os"
	"unsafe"
)

// ErrUnused is returned by Read when the source was constructed with an
// estimated byte count of zero, matching gnulib's randread_new(name, 0)
// "hard bound of zero" contract: such a source must never be read from.
var ErrUnused = errors.New("isaac: source declared unused (zero estimated bytes)")

// EOFHandler is invoked when an external byte stream hits EOF or an error
// before satisfying a Read. If it returns nil, Read retries the underlying
// stream (the handler is expected to have repaired it, e.g. by reopening).
// Any other return value is propagated to the caller. The default handler
// (used when none is installed) always returns the original error.
type EOFHandler func(err error) error

// Source is a pull-style byte generator: either an external io.Reader (the
// name "-" conventionally means process stdin, resolved by the caller) or
// gnulib's internal ISAAC generator seeded from OS entropy. It mirrors
// gl/lib/randread.c's randread_source.
type Source struct {
	stream     io.Reader
	closer     io.Closer
	handler    EOFHandler
	state      State
	residue    [Bytes]byte
	buffered   int // bytes of residue still unread, stored at the tail
	unused     bool
}

// NewExternalSource builds a Source that pulls bytes from r. If r also
// implements io.Closer, Free() closes it.
func NewExternalSource(r io.Reader, estimatedBytes int) *Source {
	s := &Source{stream: r, unused: estimatedBytes == 0}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// NewInternalSource builds a Source backed by the ISAAC PRNG, seeded from OS
// entropy (plus PID/UID/clock defense-in-depth, see SeedFromOS).
func NewInternalSource(estimatedBytes int) (*Source, error) {
	s := &Source{unused: estimatedBytes == 0}
	if err := s.state.SeedFromOS(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetHandler installs a custom EOF/error handler for external sources.
func (s *Source) SetHandler(h EOFHandler) {
	s.handler = h
}

// Read fills out completely, blocking as needed. For an external stream it
// retries through the handler on short reads until satisfied or the handler
// gives up. For the internal PRNG it serves from the residue buffer,
// refilling via ISAAC as needed, with a direct-refill fast path when out is
// word-aligned and large enough to skip the residue copy entirely.
func (s *Source) Read(out []byte) error {
	if s.unused {
		return ErrUnused
	}
	if s.stream != nil {
		return s.readExternal(out)
	}
	s.readInternal(out)
	return nil
}

func (s *Source) readExternal(out []byte) error {
	for len(out) > 0 {
		n, err := io.ReadFull(s.stream, out)
		out = out[n:]
		if len(out) == 0 {
			return nil
		}
		handle := s.handler
		if handle == nil {
			handle = func(e error) error { return e }
		}
		if herr := handle(err); herr != nil {
			return herr
		}
	}
	return nil
}

func (s *Source) readInternal(out []byte) {
	if s.buffered > 0 {
		n := s.buffered
		if n > len(out) {
			n = len(out)
		}
		copy(out, s.residue[Bytes-s.buffered:Bytes-s.buffered+n])
		s.buffered -= n
		out = out[n:]
	}
	if len(out) == 0 {
		return
	}

	if isWordAligned(out) {
		for len(out) >= Bytes {
			dst := (*[Words]uint32)(unsafe.Pointer(&out[0]))
			s.state.Refill(dst)
			out = out[Bytes:]
		}
	}
	if len(out) == 0 {
		return
	}

	for len(out) > 0 {
		var words [Words]uint32
		s.state.Refill(&words)
		copy(s.residue[:], (*[Bytes]byte)(unsafe.Pointer(&words))[:])
		s.buffered = Bytes
		n := len(out)
		if n > Bytes {
			n = Bytes
		}
		copy(out, s.residue[Bytes-s.buffered:Bytes-s.buffered+n])
		s.buffered -= n
		out = out[n:]
	}
}

func isWordAligned(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&b[0]))%4 == 0
}

// Free wipes any internal PRNG state and closes the underlying stream if it
// implements io.Closer.
func (s *Source) Free() error {
	s.state.Wipe()
	for i := range s.residue {
		s.residue[i] = 0
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Stdin is the conventional name resolved to os.Stdin by callers that accept
// a "-" source name, matching the original tools' treatment of "-".
var Stdin io.Reader = os.Stdin
