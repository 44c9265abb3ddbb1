package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula/pkg/fsm"
)

func TestBuilder_Identifier(t *testing.T) {
	// 1. Build the table using DSL
	b := New("ident").
		Columns("letter", "digit", "other").
		Class("letter", "abcdefghijklmnopqrstuvwxyz").
		Class("letter", "_").
		Class("digit", "0123456789").
		Default("other")

	b.Add("start").Initial().
		On("letter", "word").
		Otherwise("dead")

	b.Add("word").Accepting().
		On("letter", "word").
		On("digit", "word").
		Otherwise("dead").
		Add("dead").Sink()

	// 2. Verify the generated definition
	def := b.Definition()
	assert.Equal(t, []string{"start", "word", "dead"}, def.States)
	assert.Equal(t, "start", def.Initial)
	assert.Equal(t, "dead", def.Sink)
	assert.Empty(t, def.Errors, "the sink is carried by Sink, not Errors")
	assert.Equal(t, []string{"word"}, def.Accepting)
	assert.Equal(t, map[string]string{"letter": "word", "digit": "dead", "other": "dead"}, def.Transitions["start"])
	assert.Equal(t, map[string]string{"letter": "dead", "digit": "dead", "other": "dead"}, def.Transitions["dead"])
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz_", def.Classes["letter"])

	// 3. Compile
	m, err := b.Build()
	require.NoError(t, err)

	assert.True(t, m.Validate("x_1"))
	assert.True(t, m.Validate("_"))
	assert.False(t, m.Validate("1x"))
	assert.False(t, m.Validate(""))
	assert.Equal(t, fsm.State(2), m.Table().Sink())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("g")
	first := b.Add("a").Initial()
	again := b.Add("a")

	assert.Same(t, first, again)
	assert.Equal(t, []string{"a"}, b.Definition().States)
}

func TestBuilder_ErrorStates(t *testing.T) {
	b := New("signs").Columns("plus", "other").Class("plus", "+").Default("other")
	b.Add("start").Initial().On("plus", "seen").Otherwise("bad")
	b.Add("seen").Accepting().On("plus", "seen").Otherwise("bad")
	b.Add("bad").Error().Otherwise("dead")
	b.Add("dead").Sink()

	def := b.Definition()
	assert.Equal(t, []string{"bad"}, def.Errors)

	m, err := b.Build()
	require.NoError(t, err)
	assert.True(t, m.Validate("++"))

	bad, _ := m.Table().StateByName("bad")
	assert.True(t, m.Table().IsError(bad))
	assert.NotEqual(t, bad, m.Table().Sink())
}

func TestBuilder_BuildReportsDefinitionErrors(t *testing.T) {
	b := New("broken").Columns("a", "b").Default("b")
	b.Add("start").Initial().On("a", "start") // column b missing
	b.Add("dead").Sink()

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrInvalidTable)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), `column "b": missing transition`)

	assert.Panics(t, func() { b.MustBuild() })
}
