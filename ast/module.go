package ast

// Program is the parser's root output: the ordered sequence of top-level
// forms found in the source: Module, BinaryModule and QuoteModule forms,
// bare module fields written without an enclosing module, and top-level
// comments. The parser rejects any other top-level form (such as a WAST
// assertion or action) with a parse error.
type Program struct {
	BaseNode
	Body []Node
}

func (*Program) Kind() Kind { return KProgram }

// Module is a `(module ...)` form: an optional name and its ordered
// module fields (types, imports, functions, tables, memories, globals,
// exports, start, elements, data).
type Module struct {
	BaseNode
	ID     *Identifier
	Fields []ModuleField
}

func (*Module) Kind() Kind { return KModule }

// BinaryModule is `(module binary "..." "...")`: an inline binary blob
// given as a sequence of string chunks, concatenated by a consumer that
// wants the raw bytes. The core does not decode it (binary decoding is
// out of scope); it is preserved for round-tripping and for hosts that
// hand the bytes to an external decoder.
type BinaryModule struct {
	BaseNode
	ID   *Identifier
	Blob []string
}

func (*BinaryModule) Kind() Kind { return KBinaryModule }

// QuoteModule is `(module quote "...")`: the module's textual source
// given as a sequence of string chunks, to be re-tokenized and parsed by
// a consumer (typically a WAST script runner) rather than by this parse
// call.
type QuoteModule struct {
	BaseNode
	ID     *Identifier
	String []string
}

func (*QuoteModule) Kind() Kind { return KQuoteModule }
