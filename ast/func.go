package ast

// Param is one function parameter or local declaration: an optional
// name and its value type.
type Param struct {
	ID      *Identifier
	Valtype string
}

// Signature is a function type: an ordered parameter list and an
// ordered result list. TypeIndex, when non-nil, is a `(type $t)`
// reference; a Func or CallIndirectInstruction may carry both a
// TypeIndex and an inline Params/Results list (the inline list exists
// purely to give parameters names — the type itself is authoritative).
type Signature struct {
	BaseNode
	TypeIndex Index
	Params    []Param
	Results   []string
}

func (*Signature) Kind() Kind { return KSignature }

// Func is a `(func ...)` module field: a name, its signature, local
// declarations beyond its parameters, and its instruction sequence.
type Func struct {
	BaseNode
	ID        *Identifier
	Signature *Signature
	Locals    []Param
	Body      []Instruction
}

func (*Func) Kind() Kind      { return KFunc }
func (*Func) isModuleField() {}
