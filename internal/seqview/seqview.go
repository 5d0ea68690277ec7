// Package seqview provides a read-only, random-access view over a symbol
// sequence for the alignment kernel. The kernel never copies or mutates a
// sequence; it only asks for its length and indexes into it.
package seqview

// View is the read-only surface the kernel requires of a sequence: its
// length and symbol access by position. Implementations need not be
// backed by a byte slice, but Bytes provides the common case.
type View interface {
	Len() int
	At(i int) byte
}

// Bytes is a zero-copy View over a byte slice.
type Bytes []byte

func (b Bytes) Len() int      { return len(b) }
func (b Bytes) At(i int) byte { return b[i] }

// Of wraps s as a View without copying.
func Of(s []byte) Bytes { return Bytes(s) }

// OfString wraps a copy of s's bytes as a View. The conversion from string
// to []byte copies; the resulting View is safe to share across concurrent
// reads.
func OfString(s string) Bytes { return Bytes(s) }
