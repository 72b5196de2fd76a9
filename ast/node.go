package ast

// Kind discriminates the concrete Node variant, the tag traverse() keys
// its visitor callbacks on.
type Kind string

const (
	KProgram              Kind = "Program"
	KModule               Kind = "Module"
	KBinaryModule         Kind = "BinaryModule"
	KQuoteModule          Kind = "QuoteModule"
	KFunc                 Kind = "Func"
	KFuncImportDescr      Kind = "FuncImportDescr"
	KSignature            Kind = "Signature"
	KInstr                Kind = "Instr"
	KBlockInstruction     Kind = "BlockInstruction"
	KLoopInstruction      Kind = "LoopInstruction"
	KIfInstruction        Kind = "IfInstruction"
	KCallInstruction      Kind = "CallInstruction"
	KCallIndirectInstr    Kind = "CallIndirectInstruction"
	KTypeInstruction      Kind = "TypeInstruction"
	KModuleImport         Kind = "ModuleImport"
	KModuleExport         Kind = "ModuleExport"
	KMemory               Kind = "Memory"
	KTable                Kind = "Table"
	KGlobal               Kind = "Global"
	KData                 Kind = "Data"
	KElem                 Kind = "Elem"
	KStart                Kind = "Start"
	KIdentifier           Kind = "Identifier"
	KNumberLiteral        Kind = "NumberLiteral"
	KValtypeLiteral       Kind = "ValtypeLiteral"
	KStringLiteral        Kind = "StringLiteral"
	KIndexLiteral         Kind = "IndexLiteral"
	KMemIndexLiteral      Kind = "MemIndexLiteral"
	KLimit                Kind = "Limit"
	KGlobalType           Kind = "GlobalType"
	KByteArray            Kind = "ByteArray"
	KLeadingComment       Kind = "LeadingComment"
	KBlockComment         Kind = "BlockComment"
)

// Node is implemented by every AST node. Kind identifies the concrete
// variant; Location returns the node's source range, or nil if the
// producing parser call had none available.
type Node interface {
	Kind() Kind
	Location() *Loc
	SetLoc(l Loc)
}

// BaseNode carries the fields common to every node and is embedded by
// each concrete type; it supplies Location/SetLoc so variants only need
// to implement Kind().
type BaseNode struct {
	Loc *Loc
}

func (b *BaseNode) Location() *Loc { return b.Loc }
func (b *BaseNode) SetLoc(l Loc)   { b.Loc = &l }

// ModuleField is implemented by every node kind valid inside
// Module.Fields: Func, TypeInstruction, ModuleImport, ModuleExport,
// Memory, Table, Global, Data, Elem, Start.
type ModuleField interface {
	Node
	isModuleField()
}

// Instruction is implemented by every node kind valid inside a Func body
// or a structured instruction's nested instruction sequences: Instr,
// BlockInstruction, LoopInstruction, IfInstruction, CallInstruction,
// CallIndirectInstruction, plus the operand leaves Identifier and
// NumberLiteral that appear in Instr.Args.
type Instruction interface {
	Node
	isInstruction()
}

// Index resolves a function/global/memory/table/type slot, either by
// symbolic name (Identifier) or numeric position (IndexLiteral).
type Index interface {
	Node
	isIndex()
}

// Expression is a folded instruction usable as an operand: any
// Instruction produces a value when evaluated, so the operand set for
// Instr.Args is the Instruction set restricted to value-producing forms.
// The interpreter, not the type system, rejects a control-flow node
// where a control-flow node makes no sense as an operand.
type Expression = Instruction
