package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"
)

// Fingerprint is the structural identity of a problem: the initial fact set
// together with the goal conjunction. Construction order does not matter.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// ParseFingerprint decodes the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("decode fingerprint: %w", err)
	}
	if len(b) != len(f) {
		return f, fmt.Errorf("decode fingerprint: want %d bytes, got %d", len(f), len(b))
	}
	copy(f[:], b)
	return f, nil
}

func (f Fingerprint) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Fingerprint) UnmarshalText(b []byte) error {
	parsed, err := ParseFingerprint(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Identify computes the fingerprint of an initial state and goal.
func Identify(init []Fact, goal Goal) Fingerprint {
	h := sha256.New()
	var buf []byte
	for _, f := range canonical(init) {
		buf = appendFact(buf[:0], f)
		h.Write(buf)
	}
	// separates the init section from the goal section
	h.Write([]byte{0xff})
	for _, f := range canonical(goal.Literals) {
		buf = appendFact(buf[:0], f)
		h.Write(buf)
	}
	var out Fingerprint
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint is Identify over the problem's own init and goal.
func (p *Problem) Fingerprint() Fingerprint { return Identify(p.Init, p.Goal) }

func canonical(facts []Fact) []Fact {
	out := slices.Clone(facts)
	slices.SortFunc(out, Fact.Compare)
	return slices.Compact(out)
}

func appendFact(b []byte, f Fact) []byte {
	b = binary.AppendUvarint(b, uint64(len(f.Pred)))
	b = append(b, f.Pred...)
	b = append(b, f.Arity)
	for _, a := range f.Terms() {
		b = append(b, byte(a.Kind))
		b = binary.AppendVarint(b, int64(a.Index))
		b = binary.AppendVarint(b, int64(a.Loc.Row))
		b = binary.AppendVarint(b, int64(a.Loc.Col))
	}
	return b
}
