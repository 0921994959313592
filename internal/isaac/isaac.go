// Package isaac implements Bob Jenkins's ISAAC pseudorandom generator and a
// pull-style byte source built on top of it, matching gnulib's
// gl/lib/rand-isaac.c and gl/lib/randread.c bit-for-bit. Reproducibility of
// the generator across releases (given the same seed material) is a
// requirement carried over from the original: shuf/sort --random-source and
// factor's internal shuffling both depend on it.
package isaac

import (
	"crypto/rand"
	"io"
	"os"
	"time"
	"unsafe"

	"golang.org/x/crypto/blake2b"
)

const (
	// Words is the number of 32-bit words in the ISAAC state array.
	Words = 256
	// Bytes is the size in bytes of one full ISAAC refill / residue buffer.
	Bytes = Words * 4
)

// State is the ISAAC generator state: a 256-word main array, an 8-word
// seeding vector, and three scalar registers.
type State struct {
	mm  [Words]uint32
	iv  [8]uint32
	a   uint32
	b   uint32
	c   uint32
	ptr int // write cursor into mm during the seeding phase, byte-addressed
}

var initialIV = [8]uint32{
	0x1367df5a, 0x95d90059, 0xc3163e4b, 0x0f421ad8,
	0xd92a4a78, 0xa51a3c49, 0xc4efea1b, 0x30609119,
}

// SeedStart zeros mm, installs the fixed initial vector, and zeros a, b, c.
func (s *State) SeedStart() {
	*s = State{iv: initialIV}
}

// SeedData XORs buf into the state's mm array, byte by byte, running the
// ISAAC mix every time a full Bytes-sized chunk has been folded in.
func (s *State) SeedData(buf []byte) {
	mmBytes := (*[Bytes]byte)(unsafe.Pointer(&s.mm))
	avail := Bytes - s.ptr
	for len(buf) > avail {
		for i := 0; i < avail; i++ {
			mmBytes[s.ptr+i] ^= buf[i]
		}
		buf = buf[avail:]
		s.mix()
		s.ptr = 0
		avail = Bytes
	}
	for i := 0; i < len(buf); i++ {
		mmBytes[s.ptr+i] ^= buf[i]
	}
	s.ptr += len(buf)
}

// SeedFinish ends the seeding phase: two final mixes, then resets c.
func (s *State) SeedFinish() {
	s.mix()
	s.mix()
	s.c = 0
}

// mix runs one ISAAC initialization pass, folding s.mm as seed material into
// the iv scramble and back into mm, per Bob Jenkins's published algorithm.
func (s *State) mix() {
	a, b, c, d := s.iv[0], s.iv[1], s.iv[2], s.iv[3]
	e, f, g, h := s.iv[4], s.iv[5], s.iv[6], s.iv[7]

	for i := 0; i < Words; i += 8 {
		a += s.mm[i]
		b += s.mm[i+1]
		c += s.mm[i+2]
		d += s.mm[i+3]
		e += s.mm[i+4]
		f += s.mm[i+5]
		g += s.mm[i+6]
		h += s.mm[i+7]

		a ^= b << 11
		d += a
		b += c
		b ^= c >> 2
		e += b
		c += d
		c ^= d << 8
		f += c
		d += e
		d ^= e >> 16
		g += d
		e += f
		e ^= f << 10
		h += e
		f += g
		f ^= g >> 4
		a += f
		g += h
		g ^= h << 8
		b += g
		h += a
		h ^= a >> 9
		c += h
		a += b

		s.mm[i] = a
		s.mm[i+1] = b
		s.mm[i+2] = c
		s.mm[i+3] = d
		s.mm[i+4] = e
		s.mm[i+5] = f
		s.mm[i+6] = g
		s.mm[i+7] = h
	}

	s.iv[0], s.iv[1], s.iv[2], s.iv[3] = a, b, c, d
	s.iv[4], s.iv[5], s.iv[6], s.iv[7] = e, f, g, h
}

func ind(mm *[Words]uint32, x uint32) uint32 {
	return mm[(x/4)&(Words-1)]
}

// Refill runs one ISAAC round, writing Words fresh output words to r.
func (s *State) Refill(r *[Words]uint32) {
	a, b := s.a, s.b+(func() uint32 { s.c++; return s.c }())
	mm := &s.mm

	step := func(mix uint32, m int, off int) (uint32, uint32) {
		a = (a ^ mix) + mm[m+off]
		x := mm[m]
		y := ind(mm, x) + a + b
		mm[m] = y
		rv := ind(mm, y>>8) + x
		b = rv
		return a, rv
	}

	i, ri := 0, 0
	half := Words / 2
	for i < half {
		_, r[ri] = step(a<<13, i, half)
		_, r[ri+1] = step(a>>6, i+1, half)
		_, r[ri+2] = step(a<<2, i+2, half)
		_, r[ri+3] = step(a>>16, i+3, half)
		i += 4
		ri += 4
	}
	for i < Words {
		_, r[ri] = step(a<<13, i, -half)
		_, r[ri+1] = step(a>>6, i+1, -half)
		_, r[ri+2] = step(a<<2, i+2, -half)
		_, r[ri+3] = step(a>>16, i+3, -half)
		i += 4
		ri += 4
	}

	s.a, s.b = a, b
}

// Wipe zeroizes the state in a way the compiler cannot optimize away, ahead
// of discarding it, per spec.md §4.L4's zeroization requirement.
func (s *State) Wipe() {
	for i := range s.mm {
		s.mm[i] = 0
	}
	for i := range s.iv {
		s.iv[i] = 0
	}
	s.a, s.b, s.c, s.ptr = 0, 0, 0, 0
}

// SeedFromOS seeds s using the OS entropy interface (crypto/rand) as primary
// material, folding in PID, PPID, UID and a high-resolution timestamp
// as defense-in-depth the way gnulib's isaac_seed does (spec.md §9 asks this
// be preserved even though the OS source is primary). The PID/UID/clock
// bytes are additionally run through BLAKE2b-256 before being XORed in, so
// their low entropy doesn't dilute the OS randomness with a predictable
// byte pattern.
func (s *State) SeedFromOS() error {
	s.SeedStart()

	nonce := make([]byte, Bytes)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	s.SeedData(nonce)

	aux := auxSeedMaterial()
	digest := blake2b.Sum256(aux)
	s.SeedData(digest[:])

	s.SeedFinish()
	return nil
}

func auxSeedMaterial() []byte {
	buf := make([]byte, 0, 32)
	appendInt := func(v int64) {
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(v>>(8*i)))
		}
	}
	appendInt(int64(os.Getpid()))
	appendInt(int64(os.Getppid()))
	appendInt(int64(os.Getuid()))
	appendInt(int64(time.Now().UnixNano()))
	return buf
}
