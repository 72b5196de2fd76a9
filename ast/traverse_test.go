package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraverseVisitsNestedInstructions(t *testing.T) {
	add := NewInstr("add", "i32", nil, nil)
	body := []Instruction{add}
	fn := NewFunc(NewIdentifier("main", "$main"), NewSignature(nil, nil, nil), nil, body)
	mod := NewModule(nil, []ModuleField{fn})

	var seen []Kind
	Traverse(mod, Visitors{
		KInstr: func(p *Path) { seen = append(seen, p.Node().Kind()) },
	})
	assert.Equal(t, []Kind{KInstr}, seen)
}

func TestTraverseRemoveExcisesFromFuncBody(t *testing.T) {
	first := NewInstr("nop", "", nil, nil)
	second := NewInstr("nop", "", nil, nil)
	fn := NewFunc(nil, NewSignature(nil, nil, nil), nil, []Instruction{first, second})

	Traverse(fn, Visitors{
		KInstr: func(p *Path) { p.Remove() },
	})
	assert.Empty(t, fn.Body)
}

func TestTraverseDescendsIntoBlockInstruction(t *testing.T) {
	inner := NewInstr("nop", "", nil, nil)
	block := NewBlockInstruction(nil, "", []Instruction{inner})
	fn := NewFunc(nil, NewSignature(nil, nil, nil), nil, []Instruction{block})

	count := 0
	Traverse(fn, Visitors{
		KInstr: func(p *Path) { count++ },
	})
	assert.Equal(t, 1, count)
}

func TestTraverseNilRootIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Traverse(nil, Visitors{}) })
}
