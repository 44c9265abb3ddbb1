package machines

import "github.com/aretw0/tabula/pkg/fsm"

// ExpressionName is the registry name of the expression machine.
const ExpressionName = "expression"

// Expression states.
const (
	ExprStart    fsm.State = iota // nothing read yet
	ExprNumber                    // just saw a digit
	ExprOperator                  // just saw an operator, expecting a digit
	ExprBadSign                   // input opened with an operator
	ExprDead                      // absorbing error state
)

// Expression columns.
const (
	ExprDigit fsm.Column = iota
	ExprPlus
	ExprMinus
	ExprOther
)

// ExpressionDefinition returns the table of the expression machine.
//
// Both ExprNumber and ExprOperator accept, so an input ending right after an
// operator ("3+") is valid. This is kept on purpose to reproduce the reference
// verdicts, even though such input is not a complete expression.
func ExpressionDefinition() fsm.Definition {
	return fsm.Definition{
		Name:        ExpressionName,
		Description: "Digits separated by single '+' or '-' operators, e.g. 3+2-1.",
		States:      []string{"start", "number", "operator", "bad_sign", "dead"},
		Columns:     []string{"digit", "plus", "minus", "other"},
		Initial:     "start",
		Sink:        "dead",
		Errors:      []string{"bad_sign"},
		Accepting:   []string{"number", "operator"},
		Transitions: map[string]map[string]string{
			"start":    {"digit": "number", "plus": "bad_sign", "minus": "bad_sign", "other": "dead"},
			"number":   {"digit": "number", "plus": "operator", "minus": "operator", "other": "dead"},
			"operator": {"digit": "number", "plus": "dead", "minus": "dead", "other": "dead"},
			"bad_sign": {"digit": "dead", "plus": "dead", "minus": "dead", "other": "dead"},
			"dead":     {"digit": "dead", "plus": "dead", "minus": "dead", "other": "dead"},
		},
		Classes: map[string]string{"digit": "0123456789", "plus": "+", "minus": "-"},
		Default: "other",
	}
}

// ClassifyExpression maps a symbol to its expression column.
func ClassifyExpression(r rune) fsm.Column {
	switch {
	case r >= '0' && r <= '9':
		return ExprDigit
	case r == '+':
		return ExprPlus
	case r == '-':
		return ExprMinus
	default:
		return ExprOther
	}
}

// Expression validates arithmetic expressions.
var Expression = fsm.NewMachine(
	fsm.MustCompile(ExpressionDefinition()),
	fsm.ClassifierFunc(ClassifyExpression),
)
