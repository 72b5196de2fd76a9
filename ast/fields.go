package ast

// ImportDescr is implemented by the four things an import can bind to:
// a function signature, a global type, a memory, or a table.
type ImportDescr interface {
	Node
	isImportDescr()
}

// FuncImportDescr is the descriptor of an imported function: an
// optional local name and its signature.
type FuncImportDescr struct {
	BaseNode
	ID        *Identifier
	Signature *Signature
}

func (*FuncImportDescr) Kind() Kind    { return KFuncImportDescr }
func (*FuncImportDescr) isImportDescr() {}

// ModuleImport is a `(import "module" "name" (kind ...))` field.
type ModuleImport struct {
	BaseNode
	Module string
	Name   string
	Descr  ImportDescr
}

func (*ModuleImport) Kind() Kind      { return KModuleImport }
func (*ModuleImport) isModuleField() {}

// ExportType names which namespace a ModuleExport's Index resolves in.
type ExportType string

const (
	ExportFunc   ExportType = "Func"
	ExportGlobal ExportType = "Global"
	ExportMemory ExportType = "Memory"
	ExportTable  ExportType = "Table"
)

// ExportDescr pairs an export kind with the Index it resolves.
type ExportDescr struct {
	ExportType ExportType
	ID         Index
}

// ModuleExport is a `(export "name" (kind $id))` field, whether written
// explicitly or synthesized from a shorthand `(export "name")` sugar
// found while parsing a func/memory/table/global field.
type ModuleExport struct {
	BaseNode
	Name  string
	Descr ExportDescr
}

func (*ModuleExport) Kind() Kind      { return KModuleExport }
func (*ModuleExport) isModuleField() {}

// Memory is a `(memory ...)` field or import descriptor.
type Memory struct {
	BaseNode
	ID     *Identifier
	Limits *Limit
}

func (*Memory) Kind() Kind      { return KMemory }
func (*Memory) isModuleField() {}
func (*Memory) isImportDescr() {}

// Table is a `(table ...)` field or import descriptor. ElemIndices
// collects the shorthand `(table $t (elem $a $b ...))` inline element
// segment, nil when absent.
type Table struct {
	BaseNode
	ID           *Identifier
	ElementType  string
	Limits       *Limit
	ElemIndices  []Index
}

func (*Table) Kind() Kind      { return KTable }
func (*Table) isModuleField() {}
func (*Table) isImportDescr() {}

// Global is a `(global ...)` field: a type, a name, and its
// initializer expression sequence. A global declared with inline import
// sugar does not produce a Global: the parser emits a ModuleImport field
// whose descriptor is the GlobalType, and Init holds no import.
type Global struct {
	BaseNode
	ID         *Identifier
	GlobalType *GlobalType
	Init       []Instruction
}

func (*Global) Kind() Kind      { return KGlobal }
func (*Global) isModuleField() {}

// Data is a `(data (memory-index)? (offset expr) "bytes")` field.
type Data struct {
	BaseNode
	MemoryIndex Index
	Offset      Instruction
	Init        *ByteArray
}

func (*Data) Kind() Kind      { return KData }
func (*Data) isModuleField() {}

// Elem is an `(elem (table-index)? (offset expr) func*)` field.
type Elem struct {
	BaseNode
	TableIndex Index
	Offset     []Instruction
	Funcs      []Index
}

func (*Elem) Kind() Kind      { return KElem }
func (*Elem) isModuleField() {}

// Start is the `(start $f)` field naming the module's start function.
type Start struct {
	BaseNode
	Index Index
}

func (*Start) Kind() Kind      { return KStart }
func (*Start) isModuleField() {}
