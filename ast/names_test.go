package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameGeneratorMonotonicPerCategory(t *testing.T) {
	var g NameGenerator
	assert.Equal(t, "func_0", g.Next("func"))
	assert.Equal(t, "func_1", g.Next("func"))
	assert.Equal(t, "block_0", g.Next("block"))
}

func TestGeneratedIdentifierHasEmptyRaw(t *testing.T) {
	var g NameGenerator
	id := g.GeneratedIdentifier("global")
	assert.Equal(t, "global_0", id.Value)
	assert.Equal(t, "", id.Raw)
}
