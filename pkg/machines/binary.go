package machines

import (
	"github.com/aretw0/tabula/pkg/dsl"
	"github.com/aretw0/tabula/pkg/fsm"
)

// BinaryName is the registry name of the binary-number machine.
const BinaryName = "binary"

// Binary states.
const (
	BinStart  fsm.State = iota // nothing read yet
	BinDigits                  // one or more binary digits
	BinDead                    // absorbing error state
)

// Binary columns. Out-of-range decimal digits get a column of their own
// so that the table alone decides what happens to them.
const (
	BinBit     fsm.Column = iota // '0' or '1'
	BinNonBit                    // '2' to '9'
	BinOther                     // anything else
)

func binaryBuilder() *dsl.Builder {
	b := dsl.New(BinaryName).
		Describe("One or more binary digits, e.g. 101.").
		Columns("bit", "non_bit", "other").
		Class("bit", "01").
		Class("non_bit", "23456789").
		Default("other")

	b.Add("start").Initial().On("bit", "digits").Otherwise("dead")
	b.Add("digits").Accepting().On("bit", "digits").Otherwise("dead")
	b.Add("dead").Sink()
	return b
}

// BinaryDefinition returns the table of the binary-number machine.
func BinaryDefinition() fsm.Definition {
	return binaryBuilder().Definition()
}

// ClassifyBinary maps a symbol to its binary column.
func ClassifyBinary(r rune) fsm.Column {
	switch {
	case r == '0' || r == '1':
		return BinBit
	case r >= '2' && r <= '9':
		return BinNonBit
	default:
		return BinOther
	}
}

// Binary validates binary numbers.
var Binary = fsm.NewMachine(
	fsm.MustCompile(BinaryDefinition()),
	fsm.ClassifierFunc(ClassifyBinary),
)
