package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tabula/pkg/fsm"
)

func TestCharClasses(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	cc, err := fsm.NewCharClasses(table, map[string]string{
		"digit": "0123456789٣",
		"plus":  "+",
		"minus": "-−",
	}, "other")
	require.NoError(t, err)

	col := func(name string) fsm.Column {
		c, ok := table.ColumnByName(name)
		require.True(t, ok)
		return c
	}

	assert.Equal(t, col("digit"), cc.Classify('7'))
	assert.Equal(t, col("digit"), cc.Classify('٣'))
	assert.Equal(t, col("plus"), cc.Classify('+'))
	assert.Equal(t, col("minus"), cc.Classify('−'))
	assert.Equal(t, col("other"), cc.Classify('a'))
	assert.Equal(t, col("other"), cc.Classify(' '))
	assert.Equal(t, col("other"), cc.Classify('€'))
	assert.Equal(t, col("other"), cc.Classify(-1))
}

func TestCharClasses_Rejections(t *testing.T) {
	table, err := fsm.Compile(signDefinition())
	require.NoError(t, err)

	t.Run("Missing Default", func(t *testing.T) {
		_, err := fsm.NewCharClasses(table, map[string]string{"digit": "0"}, "")
		assert.ErrorIs(t, err, fsm.ErrInvalidTable)
	})

	t.Run("Unknown Default", func(t *testing.T) {
		_, err := fsm.NewCharClasses(table, nil, "letters")
		assert.ErrorContains(t, err, "default column is not declared")
	})

	t.Run("Unknown Column", func(t *testing.T) {
		_, err := fsm.NewCharClasses(table, map[string]string{"star": "*"}, "other")
		assert.ErrorContains(t, err, "class given for an undeclared column")
	})

	t.Run("Overlapping Classes", func(t *testing.T) {
		_, err := fsm.NewCharClasses(table, map[string]string{"plus": "+", "minus": "-+"}, "other")
		assert.ErrorContains(t, err, "already belongs to column")
	})
}

func TestClassifierFunc(t *testing.T) {
	f := fsm.ClassifierFunc(func(r rune) fsm.Column {
		if r == 'a' {
			return 1
		}
		return 0
	})
	assert.Equal(t, fsm.Column(1), f.Classify('a'))
	assert.Equal(t, fsm.Column(0), f.Classify('b'))
}
