package ast

// structuredInstructionIDs names the plain-instruction ids that MUST
// instead produce a BlockInstruction, LoopInstruction, or IfInstruction.
// NewInstr panics (an AssertionError in the producer, per the design's
// "constructors enforce structural invariants at build time") if asked
// to build one of these as a plain Instr.
var structuredInstructionIDs = map[string]bool{
	"block": true,
	"if":    true,
	"loop":  true,
}

// NewInstr builds a plain Instr node. It panics if id names a structured
// instruction — those must be built with NewBlockInstruction,
// NewLoopInstruction, or NewIfInstruction instead.
func NewInstr(id, object string, args []Expression, namedArgs map[string]*NumberLiteral) *Instr {
	if structuredInstructionIDs[id] {
		panic("ast: " + id + " must be built as a structured instruction, not a plain Instr")
	}
	return &Instr{ID: id, Object: object, Args: args, NamedArgs: namedArgs}
}

func NewProgram(body []Node) *Program { return &Program{Body: body} }

func NewModule(id *Identifier, fields []ModuleField) *Module {
	return &Module{ID: id, Fields: fields}
}

func NewBinaryModule(id *Identifier, blob []string) *BinaryModule {
	return &BinaryModule{ID: id, Blob: blob}
}

func NewQuoteModule(id *Identifier, str []string) *QuoteModule {
	return &QuoteModule{ID: id, String: str}
}

func NewFunc(id *Identifier, sig *Signature, locals []Param, body []Instruction) *Func {
	return &Func{ID: id, Signature: sig, Locals: locals, Body: body}
}

func NewSignature(typeIndex Index, params []Param, results []string) *Signature {
	return &Signature{TypeIndex: typeIndex, Params: params, Results: results}
}

func NewBlockInstruction(label *Identifier, result string, body []Instruction) *BlockInstruction {
	return &BlockInstruction{Label: label, Result: result, Instr: body}
}

func NewLoopInstruction(label *Identifier, result string, body []Instruction) *LoopInstruction {
	return &LoopInstruction{Label: label, Result: result, Instr: body}
}

func NewIfInstruction(label *Identifier, result string, test, consequent, alternate []Instruction) *IfInstruction {
	return &IfInstruction{Label: label, Result: result, Test: test, Consequent: consequent, Alternate: alternate}
}

func NewCallInstruction(index Index, args []Instruction) *CallInstruction {
	return &CallInstruction{Index: index, InstrArgs: args}
}

func NewCallIndirectInstruction(sig *Signature, args []Instruction) *CallIndirectInstruction {
	return &CallIndirectInstruction{Signature: sig, InstrArgs: args}
}

func NewTypeInstruction(id *Identifier, sig *Signature) *TypeInstruction {
	return &TypeInstruction{ID: id, Signature: sig}
}

func NewModuleImport(module, name string, descr ImportDescr) *ModuleImport {
	return &ModuleImport{Module: module, Name: name, Descr: descr}
}

func NewModuleExport(name string, exportType ExportType, id Index) *ModuleExport {
	return &ModuleExport{Name: name, Descr: ExportDescr{ExportType: exportType, ID: id}}
}

func NewMemory(id *Identifier, limits *Limit) *Memory {
	return &Memory{ID: id, Limits: limits}
}

func NewTable(id *Identifier, elementType string, limits *Limit, elemIndices []Index) *Table {
	return &Table{ID: id, ElementType: elementType, Limits: limits, ElemIndices: elemIndices}
}

func NewGlobal(id *Identifier, gt *GlobalType, init []Instruction) *Global {
	return &Global{ID: id, GlobalType: gt, Init: init}
}

func NewData(memIndex Index, offset Instruction, init *ByteArray) *Data {
	return &Data{MemoryIndex: memIndex, Offset: offset, Init: init}
}

func NewElem(tableIndex Index, offset []Instruction, funcs []Index) *Elem {
	return &Elem{TableIndex: tableIndex, Offset: offset, Funcs: funcs}
}

func NewStart(index Index) *Start { return &Start{Index: index} }

func NewIdentifier(value, raw string) *Identifier { return &Identifier{Value: value, Raw: raw} }

func NewNumberLiteral(raw, typ string, value float64) *NumberLiteral {
	return &NumberLiteral{Raw: raw, Type: typ, Value: value}
}

func NewValtypeLiteral(name string) *ValtypeLiteral { return &ValtypeLiteral{Name: name} }

func NewStringLiteral(value string) *StringLiteral { return &StringLiteral{Value: value} }

func NewIndexLiteral(value uint32) *IndexLiteral { return &IndexLiteral{Value: value} }

func NewMemIndexLiteral(value uint32) *MemIndexLiteral { return &MemIndexLiteral{Value: value} }

func NewLimit(min uint32, max *uint32) *Limit { return &Limit{Min: min, Max: max} }

func NewGlobalType(valtype string, mutability Mutability) *GlobalType {
	return &GlobalType{Valtype: valtype, Mutability: mutability}
}

func NewByteArray(values []byte) *ByteArray { return &ByteArray{Values: values} }

func NewLeadingComment(value string) *LeadingComment { return &LeadingComment{Value: value} }

func NewBlockComment(value string) *BlockComment { return &BlockComment{Value: value} }

func NewFuncImportDescr(id *Identifier, sig *Signature) *FuncImportDescr {
	return &FuncImportDescr{ID: id, Signature: sig}
}
