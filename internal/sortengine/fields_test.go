package sortengine

import "testing"

// TestKeyEndAnchorsOnPrecedingFieldEnd pins limfield's shipped (non-
// POSIX_UNSPECIFIED) behavior: an explicit end-character offset anchors on
// the end of the field *before* the named end field, not the start of the
// named field, and is clipped only by the line length. Values below are
// GNU sort's own "sort -k1,2.$c" output on "ab cd ef" for c=1..6 (end
// offsets 3,4,5,6,7,8 -- end_of_field(1)=2 plus c, never the first non-blank
// byte of field 2 (offset 3) plus c, and never clamped to field 2's own end
// at 5).
func TestKeyEndAnchorsOnPrecedingFieldEnd(t *testing.T) {
	line := []byte("ab cd ef")
	bounds := splitFieldsWhitespace(line)

	for c, want := range map[int]int{1: 3, 2: 4, 3: 5, 4: 6, 5: 7, 6: 8} {
		k := KeySpec{StartField: 0, HasEndField: true, EndField: 1, EndChar: c}
		if got := keyEnd(line, bounds, k); got != want {
			t.Fatalf("keyEnd with EndChar=%d: got %d, want %d", c, got, want)
		}
	}
}

func TestKeyEndWithoutExplicitCharStopsAtNamedFieldEnd(t *testing.T) {
	line := []byte("ab cd ef")
	bounds := splitFieldsWhitespace(line)

	k := KeySpec{StartField: 0, HasEndField: true, EndField: 1, EndChar: 0}
	if got := keyEnd(line, bounds, k); got != 5 {
		t.Fatalf("keyEnd with no EndChar: got %d, want 5", got)
	}
}
