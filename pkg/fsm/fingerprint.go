package fsm

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"
	"unicode/utf8"
)

// sampleLimit bounds the runes sampled when fingerprinting a classifier that
// cannot describe itself.
const sampleLimit = 0x10000

// Fingerprint identifies the behavior of the machine: the table cells, its
// initial, sink, accepting and error states, and the classifier's column for
// every symbol. Machines with equal fingerprints give equal verdicts, so the
// fingerprint is part of every verdict cache key.
//
// CharClasses are hashed from their lookup tables. Other classifiers are
// sampled over the Basic Multilingual Plane plus utf8.RuneError.
func (m *Machine) Fingerprint() string {
	return m.fingerprint
}

func fingerprint(t *Table, c Classifier) string {
	h := sha256.New()
	t.writeShape(h)

	switch cc := c.(type) {
	case *CharClasses:
		cc.writeClasses(h)
	default:
		buf := make([]byte, 0, 4*(sampleLimit+1))
		for r := rune(0); r < sampleLimit; r++ {
			buf = binary.BigEndian.AppendUint32(buf, uint32(c.Classify(r)))
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(c.Classify(utf8.RuneError)))
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (t *Table) writeShape(h hash.Hash) {
	var buf []byte
	putString := func(s string) {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	putInt := func(n int) {
		buf = binary.BigEndian.AppendUint64(buf, uint64(int64(n)))
	}
	putFlags := func(set []bool) {
		for _, b := range set {
			if b {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}

	putInt(len(t.states))
	for _, s := range t.states {
		putString(s)
	}
	putInt(len(t.columns))
	for _, c := range t.columns {
		putString(c)
	}
	putInt(int(t.initial))
	putInt(int(t.sink))
	putFlags(t.accepting)
	putFlags(t.errors)
	for _, next := range t.cells {
		putInt(int(next))
	}
	h.Write(buf)
}

func (c *CharClasses) writeClasses(h hash.Hash) {
	buf := []byte("classes")
	for _, col := range c.ascii {
		buf = binary.BigEndian.AppendUint32(buf, uint32(col))
	}
	runes := make([]rune, 0, len(c.extra))
	for r := range c.extra {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for _, r := range runes {
		buf = binary.BigEndian.AppendUint32(buf, uint32(r))
		buf = binary.BigEndian.AppendUint32(buf, uint32(c.extra[r]))
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(c.fallback))
	h.Write(buf)
}
