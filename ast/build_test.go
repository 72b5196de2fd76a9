package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInstrPanicsOnStructuredIDs(t *testing.T) {
	for _, id := range []string{"block", "if", "loop"} {
		assert.Panics(t, func() { NewInstr(id, "", nil, nil) }, id)
	}
}

func TestNewInstrBuildsPlainInstr(t *testing.T) {
	instr := NewInstr("add", "i32", nil, nil)
	assert.Equal(t, "add", instr.ID)
	assert.Equal(t, "i32", instr.Object)
	assert.Equal(t, KInstr, instr.Kind())
}

func TestNewBlockInstructionFields(t *testing.T) {
	label := NewIdentifier("loop_body", "$loop_body")
	block := NewBlockInstruction(label, "i32", []Instruction{NewInstr("nop", "", nil, nil)})
	assert.Same(t, label, block.Label)
	assert.Equal(t, "i32", block.Result)
	assert.Len(t, block.Instr, 1)
	assert.Equal(t, KBlockInstruction, block.Kind())
}

func TestNewGlobalTypeMutability(t *testing.T) {
	gt := NewGlobalType("i32", Var)
	assert.Equal(t, Var, gt.Mutability)
	assert.Equal(t, KGlobalType, gt.Kind())
}

func TestNewModuleExportDescr(t *testing.T) {
	idx := NewIndexLiteral(3)
	exp := NewModuleExport("run", ExportFunc, idx)
	assert.Equal(t, "run", exp.Name)
	assert.Equal(t, ExportFunc, exp.Descr.ExportType)
	assert.Same(t, idx, exp.Descr.ID)
}

func TestBaseNodeLocationRoundTrip(t *testing.T) {
	id := NewIdentifier("x", "$x")
	assert.Nil(t, id.Location())
	id.SetLoc(Loc{Start: Position{Line: 1, Col: 1}, End: Position{Line: 1, Col: 2}})
	require := id.Location()
	assert.NotNil(t, require)
	assert.Equal(t, 1, require.Start.Line)
}
