/*
Package tabula validates input strings with table-driven finite state machines.

A machine is a total transition table (state × symbol class → state), a
classifier mapping each symbol to its class, an initial state, a set of
accepting states and a set of error states. Validation folds the input over
the table from the initial state and accepts iff the final state is
accepting. Error states absorb: once a run reaches the sink it stops reading.

# Built-in machines

Two machines ship with the module:

  - binary: non-empty strings of the digits 0 and 1.
  - expression: non-negative integers joined by binary + and -, e.g. "3+2-1".
    A trailing operator is accepted ("3+"), a leading or doubled one is not.

# Usage

The helpers answer the two built-in questions directly:

	tabula.IsBinaryNumber("101")     // true
	tabula.IsValidExpression("3++2") // false

The Engine serves any number of machines, built-in or loaded from definition
files, and reports the final state alongside the verdict:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tabula"
	)

	func main() {
		// Built-ins plus every definition in ./machines
		eng, err := tabula.Open("./machines")
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Validate(context.Background(), "binary", "1011")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Verdict(), res.Final)
	}

# Definition files

A definition is a YAML (or JSON) document, usually the frontmatter of a
Markdown file whose body describes the machine:

	---
	states: [start, digits, dead]
	columns: [octal, other]
	initial: start
	sink: dead
	accepting: [digits]
	classes:
	  octal: "01234567"
	default: other
	transitions:
	  start:  {octal: digits, other: dead}
	  digits: {octal: digits, other: dead}
	  dead:   {octal: dead, other: dead}
	---
	Octal literals.

Tables are checked when they are compiled: every cell must be filled, error
states must never be accepting nor lead back out, and the sink must absorb.
All problems are reported at once.
*/
package tabula
