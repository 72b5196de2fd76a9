// Package parser implements the recursive-descent WAT/WAST parser: a
// token stream in, a Program out. See Parse.
package parser

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/codeframe"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/literal"
	"github.com/wippyai/wasm-runtime/token"
)

func parse32IForIndex(raw string) (uint32, error) {
	v, err := literal.Parse32I(raw)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Parser holds the cursor over a token stream for a single parse call.
// It owns no state beyond the current call: a fresh Parser is created
// per Parse invocation, so concurrent parses never interfere.
type Parser struct {
	tokens  []token.Token
	source  string
	pos     int
	names   ast.NameGenerator
	exports exportBuffer
}

// exportBuffer accumulates shorthand `(export "name")` sugar found while
// parsing a func/memory/table/global field, flushed as synthesized
// ModuleExport fields once the enclosing field finishes.
type exportBuffer struct {
	pending []*ast.ModuleExport
}

func (b *exportBuffer) add(name string, exportType ast.ExportType, id ast.Index) {
	b.pending = append(b.pending, ast.NewModuleExport(name, exportType, id))
}

func (b *exportBuffer) flush() []*ast.ModuleExport {
	out := b.pending
	b.pending = nil
	return out
}

// Parse tokenizes-already tokens against source (used only to render
// diagnostic code frames) into a Program.
func Parse(tokens []token.Token, source string) (*ast.Program, error) {
	p := &Parser{tokens: tokens, source: source}
	var body []ast.Node

	for {
		p.skipComments(&body)
		if p.eof() {
			break
		}
		n, err := p.parseTopLevelForm()
		if err != nil {
			return nil, err
		}
		body = append(body, n)
	}

	prog := ast.NewProgram(body)
	return prog, nil
}

func (p *Parser) eof() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() *token.Token {
	if p.eof() {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) peekN(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

func (p *Parser) advance() *token.Token {
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

// skipComments consumes any run of Comment tokens, recording each as a
// LeadingComment or BlockComment node on out (used at the top level;
// nested parses skip comments without recording them, since spec's
// invariant set makes no claim about comment placement inside bodies).
func (p *Parser) skipComments(out *[]ast.Node) {
	for !p.eof() && p.peek().Type == token.Comment {
		t := p.advance()
		if out != nil {
			var n ast.Node
			if strings.HasPrefix(t.Value, ";;") {
				n = ast.NewLeadingComment(t.Value)
			} else {
				n = ast.NewBlockComment(t.Value)
			}
			*out = append(*out, n)
		}
	}
}

func (p *Parser) skipCommentsSilently() {
	for !p.eof() && p.peek().Type == token.Comment {
		p.advance()
	}
}

func (p *Parser) codeFrame(loc token.Loc) string {
	return codeframe.FromSource(p.source, loc)
}

func (p *Parser) errorf(loc token.Loc, kind errors.Kind, format string, args ...any) *errors.ParseError {
	return errors.NewParseError(kind, p.codeFrame(loc), fmt.Sprintf(format, args...))
}

func (p *Parser) unexpectedEOF() *errors.ParseError {
	loc := token.Loc{}
	if len(p.tokens) > 0 {
		loc = p.tokens[len(p.tokens)-1].Loc
	}
	return p.errorf(loc, errors.KindUnexpectedEOF, "unexpected end of input")
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	t := p.peek()
	if t.Type != typ {
		return nil, p.errorf(t.Loc, errors.KindUnexpectedToken, "expected %s, got %q (%s)", typ, t.Value, t.Type)
	}
	return p.advance(), nil
}

// expectKeyword expects a Keyword token with the given value.
func (p *Parser) expectKeyword(word string) error {
	p.skipCommentsSilently()
	if p.eof() {
		return p.unexpectedEOF()
	}
	t := p.peek()
	if t.Type != token.Keyword || t.Value != word {
		return p.errorf(t.Loc, errors.KindUnexpectedToken, "expected keyword %q, got %q", word, t.Value)
	}
	p.advance()
	return nil
}

func (p *Parser) atKeyword(word string) bool {
	p.skipCommentsSilently()
	t := p.peek()
	return t != nil && t.Type == token.Keyword && t.Value == word
}

func (p *Parser) at(typ token.Type) bool {
	p.skipCommentsSilently()
	t := p.peek()
	return t != nil && t.Type == typ
}

// atOpenParenKeyword reports whether the cursor is at "( <word>" without
// consuming anything.
func (p *Parser) atOpenParenKeyword(word string) bool {
	p.skipCommentsSilently()
	if !p.at(token.OpenParen) {
		return false
	}
	t := p.peekN(1)
	return t != nil && t.Type == token.Keyword && t.Value == word
}

// tryOptionalID consumes and returns a leading $identifier if present.
func (p *Parser) tryOptionalID() *ast.Identifier {
	p.skipCommentsSilently()
	t := p.peek()
	if t == nil || t.Type != token.Identifier {
		return nil
	}
	p.advance()
	return identFromToken(t)
}

// identFromToken builds an Identifier from a $name token: Value drops the
// "$" sigil, Raw keeps the source spelling.
func identFromToken(t *token.Token) *ast.Identifier {
	return ast.NewIdentifier(strings.TrimPrefix(t.Value, "$"), t.Value)
}

// parseIndex parses an Index: either a $identifier or a bare integer.
func (p *Parser) parseIndex() (ast.Index, error) {
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	t := p.peek()
	switch t.Type {
	case token.Identifier:
		p.advance()
		return identFromToken(t), nil
	case token.Number:
		p.advance()
		v, err := parse32IForIndex(t.Value)
		if err != nil {
			return nil, p.errorf(t.Loc, errors.KindMalformedLiteral, "%s", err)
		}
		return ast.NewIndexLiteral(v), nil
	default:
		return nil, p.errorf(t.Loc, errors.KindUnexpectedToken, "expected index, got %q", t.Value)
	}
}

// parseTopLevelForm parses one form at the top of the token stream: a
// `(module ...)`, or — per spec.md §4.1's dispatch table — any bare
// module field (e.g. a standalone `(data (i32.const 0) "hi")` segment,
// spec.md §8 scenario 6) appearing without an enclosing module.
func (p *Parser) parseTopLevelForm() (ast.Node, error) {
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	kw := p.peek()
	if kw.Type != token.Keyword {
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "expected top-level form, got %q", kw.Value)
	}
	if kw.Value == "module" {
		p.advance()
		return p.parseModuleBody()
	}
	return p.dispatchFieldKeyword(kw)
}
