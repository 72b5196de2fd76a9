package ast

// Instr is a plain instruction: everything except the structured
// (block/loop/if) and call forms, which get their own dedicated kinds.
// Object carries the value-type prefix of a dotted opcode ("i32" in
// "i32.add"), empty for opcodes with no type prefix (e.g. "get_local").
// NamedArgs holds `key=value` arguments (offset=, align=) collected
// ahead of positional Args, per the opcode's named-argument grammar.
type Instr struct {
	BaseNode
	ID        string
	Object    string
	Args      []Expression
	NamedArgs map[string]*NumberLiteral
}

func (*Instr) Kind() Kind      { return KInstr }
func (*Instr) isInstruction() {}

// BlockInstruction is `(block $label (result t)? instr*)` or its flat
// form `block $label (result t)? instr* end`.
type BlockInstruction struct {
	BaseNode
	Label  *Identifier
	Result string
	Instr  []Instruction
}

func (*BlockInstruction) Kind() Kind      { return KBlockInstruction }
func (*BlockInstruction) isInstruction() {}

// LoopInstruction mirrors BlockInstruction; the only semantic difference
// is what a branch targeting it does (jump to the top instead of past
// the end), which lives in the interpreter, not the AST.
type LoopInstruction struct {
	BaseNode
	Label  *Identifier
	Result string
	Instr  []Instruction
}

func (*LoopInstruction) Kind() Kind      { return KLoopInstruction }
func (*LoopInstruction) isInstruction() {}

// IfInstruction is `(if $label (result t)? test* (then c*) (else a*)?)`
// or the flat `test* if $label (result t)? c* (else a*)? end`. Test
// holds the (possibly empty, when the flat form pre-pushed its
// condition) condition instructions.
type IfInstruction struct {
	BaseNode
	Label       *Identifier
	Result      string
	Test        []Instruction
	Consequent  []Instruction
	Alternate   []Instruction
}

func (*IfInstruction) Kind() Kind      { return KIfInstruction }
func (*IfInstruction) isInstruction() {}

// CallInstruction is `(call $f arg*)` or `call $f`: an Index into the
// function namespace plus, in folded form, its argument expressions.
type CallInstruction struct {
	BaseNode
	Index     Index
	InstrArgs []Instruction
}

func (*CallInstruction) Kind() Kind      { return KCallInstruction }
func (*CallInstruction) isInstruction() {}

// CallIndirectInstruction is `(call_indirect (type $t) arg*)`: the
// callee signature (by reference and/or inline params/results) plus the
// argument expressions and, implicitly, a table-index operand consumed
// last from the value stack.
type CallIndirectInstruction struct {
	BaseNode
	Signature *Signature
	InstrArgs []Instruction
}

func (*CallIndirectInstruction) Kind() Kind      { return KCallIndirectInstr }
func (*CallIndirectInstruction) isInstruction() {}

// TypeInstruction is a module-level `(type $t (func (param ...) (result ...)))`
// field that names a reusable function signature.
type TypeInstruction struct {
	BaseNode
	ID        *Identifier
	Signature *Signature
}

func (*TypeInstruction) Kind() Kind      { return KTypeInstruction }
func (*TypeInstruction) isModuleField() {}
