/*
Package dsl provides a Go DSL for programmatically constructing transition tables.

It allows developers to declare a machine with a fluent builder instead of
writing the state -> column -> state mapping by hand. Rows may use Otherwise to
fill every column not set explicitly, and Sink marks an absorbing error state,
so a builder never needs to repeat a target once per column.

Example usage:

	package main

	import (
		"fmt"

		"github.com/aretw0/tabula/pkg/dsl"
	)

	func main() {
		b := dsl.New("ident").
			Columns("letter", "digit", "other").
			Class("letter", "abcdefghijklmnopqrstuvwxyz_").
			Class("digit", "0123456789").
			Default("other")

		b.Add("start").Initial().On("letter", "word").Otherwise("dead")
		b.Add("word").Accepting().On("letter", "word").On("digit", "word").Otherwise("dead")
		b.Add("dead").Sink()

		m, err := b.Build()
		if err != nil {
			panic(err)
		}
		fmt.Println(m.Validate("x_1")) // true
	}

The builder performs no validation of its own: Build hands the definition to
fsm.Compile, which reports every problem at once.
*/
package dsl
