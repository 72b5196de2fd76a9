package ast

// Identifier is a symbolic name, either user-written ($foo) or generated
// by the unique-name generator. Raw is empty for a generated identifier
// with no user-visible spelling, letting a printer omit it.
type Identifier struct {
	BaseNode
	Value string
	Raw   string
}

func (*Identifier) Kind() Kind    { return KIdentifier }
func (*Identifier) isIndex()      {}
func (*Identifier) isInstruction() {}

// NumberLiteral is a decoded numeric constant. Raw preserves the source
// text (for round-tripping and diagnostics); Type is the valtype the
// literal was coerced to by the opcode signature table, or "" when the
// literal appears outside a typed operand position.
type NumberLiteral struct {
	BaseNode
	Raw   string
	Type  string
	Value float64
}

func (*NumberLiteral) Kind() Kind    { return KNumberLiteral }
func (*NumberLiteral) isInstruction() {}

// ValtypeLiteral names one of the primitive value types (i32, i64, f32,
// f64) or a reference type (funcref, externref/anyfunc).
type ValtypeLiteral struct {
	BaseNode
	Name string
}

func (*ValtypeLiteral) Kind() Kind { return KValtypeLiteral }

// StringLiteral holds a decoded string (see the string-literal decoder),
// used for import/export names and quoted data.
type StringLiteral struct {
	BaseNode
	Value string
}

func (*StringLiteral) Kind() Kind { return KStringLiteral }

// IndexLiteral is a numeric Index: an Index node written as a bare
// integer rather than a symbolic $identifier.
type IndexLiteral struct {
	BaseNode
	Value uint32
}

func (*IndexLiteral) Kind() Kind { return KIndexLiteral }
func (*IndexLiteral) isIndex()   {}

// MemIndexLiteral is the optional leading memory index that prefixes a
// multi-memory instruction's operands (e.g. the "0" in a two-memory
// memory.copy); kept distinct from IndexLiteral because it never
// resolves against a $name namespace shared with functions/globals.
type MemIndexLiteral struct {
	BaseNode
	Value uint32
}

func (*MemIndexLiteral) Kind() Kind { return KMemIndexLiteral }

// Limit describes a resizable range (memory pages or table entries): a
// required minimum and an optional maximum.
type Limit struct {
	BaseNode
	Min uint32
	Max *uint32
}

func (*Limit) Kind() Kind { return KLimit }

// Mutability of a GlobalType.
type Mutability string

const (
	Const Mutability = "const"
	Var   Mutability = "var"
)

// GlobalType pairs a value type with its mutability.
type GlobalType struct {
	BaseNode
	Valtype    string
	Mutability Mutability
}

func (*GlobalType) Kind() Kind      { return KGlobalType }
func (*GlobalType) isImportDescr() {}

// ByteArray is a decoded byte sequence, the payload of a Data segment.
type ByteArray struct {
	BaseNode
	Values []byte
}

func (*ByteArray) Kind() Kind { return KByteArray }

// LeadingComment is a `;;` line comment attached ahead of the node that
// follows it.
type LeadingComment struct {
	BaseNode
	Value string
}

func (*LeadingComment) Kind() Kind { return KLeadingComment }

// BlockComment is a `(; ... ;)` comment, possibly spanning several
// lines and nesting.
type BlockComment struct {
	BaseNode
	Value string
}

func (*BlockComment) Kind() Kind { return KBlockComment }
