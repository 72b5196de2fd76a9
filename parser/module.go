package parser

import (
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/literal"
	"github.com/wippyai/wasm-runtime/token"
)

// parseModuleBody parses everything after "(module" up to and including
// its closing paren: an optional id, then either "binary"/"quote" and a
// string-chunk sequence, or the module's ordered fields.
func (p *Parser) parseModuleBody() (ast.Node, error) {
	id := p.tryOptionalID()

	if p.atKeyword("binary") {
		p.advance()
		chunks, err := p.parseStringChunks()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewBinaryModule(id, chunks), nil
	}
	if p.atKeyword("quote") {
		p.advance()
		chunks, err := p.parseStringChunks()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewQuoteModule(id, chunks), nil
	}

	var fields []ast.ModuleField
	for {
		p.skipCommentsSilently()
		if p.at(token.CloseParen) {
			p.advance()
			break
		}
		field, err := p.parseModuleField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		for _, exp := range p.exports.flush() {
			fields = append(fields, exp)
		}
	}

	mod := ast.NewModule(id, fields)
	return mod, nil
}

func (p *Parser) parseStringChunks() ([]string, error) {
	var out []string
	for p.at(token.String) {
		t := p.advance()
		decoded, err := literal.DecodeString(t.Value)
		if err != nil {
			return nil, p.errorf(t.Loc, errors.KindMalformedLiteral, "%s", err)
		}
		out = append(out, string(decoded))
	}
	return out, nil
}

// parseModuleField dispatches on the keyword after "(" for every
// top-level module field kind.
func (p *Parser) parseModuleField() (ast.ModuleField, error) {
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	kw := p.peek()
	if kw.Type != token.Keyword {
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown module field %q", kw.Value)
	}
	return p.dispatchFieldKeyword(kw)
}

// dispatchFieldKeyword dispatches on kw (already peeked, not yet
// advanced past) to the field kind's own parser. Shared by
// parseModuleField (fields nested inside a module) and
// parseTopLevelForm (a bare field appearing at the top level, per
// spec.md §4.1 — e.g. a standalone `(data ...)` segment).
func (p *Parser) dispatchFieldKeyword(kw *token.Token) (ast.ModuleField, error) {
	switch kw.Value {
	case "type":
		p.advance()
		return p.parseType()
	case "func":
		p.advance()
		return p.parseFuncField()
	case "import":
		p.advance()
		return p.parseImport()
	case "export":
		p.advance()
		return p.parseExport()
	case "memory":
		p.advance()
		return p.parseMemory()
	case "table":
		p.advance()
		return p.parseTable()
	case "global":
		p.advance()
		return p.parseGlobal()
	case "data":
		p.advance()
		return p.parseData()
	case "elem":
		p.advance()
		return p.parseElem()
	case "start":
		p.advance()
		return p.parseStart()
	default:
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown module field %q", kw.Value)
	}
}

func (p *Parser) parseValtypeWord() (string, error) {
	t, err := p.expect(token.Valtype)
	if err != nil {
		return "", err
	}
	return t.Value, nil
}

// parseSignature parses the (param...)* (result...)* portion common to
// func/type/call_indirect, plus an optional leading (type $t) reference.
func (p *Parser) parseSignature() (*ast.Signature, error) {
	var typeIndex ast.Index
	var params []ast.Param
	var results []string

	for p.atOpenParenKeyword("type") {
		p.advance()
		p.advance()
		idx, err := p.parseIndex()
		if err != nil {
			return nil, err
		}
		typeIndex = idx
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	for p.atOpenParenKeyword("param") {
		p.advance()
		p.advance()
		ps, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		params = append(params, ps...)
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	for p.atOpenParenKeyword("result") {
		p.advance()
		p.advance()
		for p.at(token.Valtype) {
			v, err := p.parseValtypeWord()
			if err != nil {
				return nil, err
			}
			results = append(results, v)
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	return ast.NewSignature(typeIndex, params, results), nil
}

// parseParamList parses the body of a single "(param ...)" or
// "(local ...)" form: either one named entry "$id valtype" or a run of
// unnamed valtypes.
func (p *Parser) parseParamList() ([]ast.Param, error) {
	if id := p.tryOptionalID(); id != nil {
		v, err := p.parseValtypeWord()
		if err != nil {
			return nil, err
		}
		return []ast.Param{{ID: id, Valtype: v}}, nil
	}
	var out []ast.Param
	for p.at(token.Valtype) {
		v, err := p.parseValtypeWord()
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Param{Valtype: v})
	}
	return out, nil
}

func (p *Parser) parseType() (*ast.TypeInstruction, error) {
	id := p.tryOptionalID()
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("func"); err != nil {
		return nil, err
	}
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if id != nil {
		return ast.NewTypeInstruction(id, sig), nil
	}
	return ast.NewTypeInstruction(nil, sig), nil
}

func (p *Parser) parseLimit() (*ast.Limit, error) {
	minT, err := p.expect(token.Number)
	if err != nil {
		return nil, err
	}
	minV, err := literal.Parse32I(minT.Value)
	if err != nil {
		return nil, p.errorf(minT.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	if !p.at(token.Number) {
		return ast.NewLimit(uint32(minV), nil), nil
	}
	maxT := p.advance()
	maxV, err := literal.Parse32I(maxT.Value)
	if err != nil {
		return nil, p.errorf(maxT.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	max := uint32(maxV)
	return ast.NewLimit(uint32(minV), &max), nil
}

func (p *Parser) parseStart() (*ast.Start, error) {
	idx, err := p.parseIndex()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewStart(idx), nil
}
