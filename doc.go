// Package wasmruntime is the root of a WAT/WAST text-format parser and a
// tree-walking interpreter for the resulting module AST.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	wasmruntime/     Root package (this file)
//	├── token/       Lexer: source text to a flat token stream
//	├── literal/     Numeric and string literal parsing (integers, floats, escapes)
//	├── ast/         The tagged-interface AST: ModuleField, Instruction, Index, ImportDescr
//	├── parser/      Recursive-descent S-expression parser producing an *ast.Program
//	├── codeframe/   Two-line source excerpts for error reporting
//	├── errors/      Structured Phase/Kind error types shared by parser and interp
//	├── values/      The runtime Value tagged union and its numeric operators
//	├── allocator/   Arena-based address space for funcs, globals, memories, tables
//	├── interp/      Module instantiation and the tree-walking execution kernel
//	├── repl/        Interactive step-through debugger (bubbletea TUI)
//	└── cmd/watrun/  CLI: parse a .wat file, instantiate it, call an export
//
// # Quick start
//
//	tokens, err := token.Tokenize(source)
//	program, err := parser.Parse(tokens, source)
//	mod := program.Body[0].(*ast.Module)
//
//	alloc := allocator.New()
//	inst, err := interp.CreateInstance(alloc, mod, interp.Imports{})
//	trap, err := interp.RunStart(alloc, inst, mod)
//
//	results, trap, err := interp.InvokeFuncAddr(alloc, inst.Exports["add"].Addr, args)
//
// # Name resolution
//
// The AST keeps identifiers and indices unresolved at parse time; a
// ModuleInstance's FuncNames/GlobalNames/MemNames/TableNames/TypeNames maps
// and each StackFrame's Labels stack resolve them against the AST directly
// at call time. There is no separate compiled IR.
package wasmruntime
