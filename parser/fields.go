package parser

import (
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/literal"
	"github.com/wippyai/wasm-runtime/token"
)

func (p *Parser) ensureID(id *ast.Identifier, category string) *ast.Identifier {
	if id != nil {
		return id
	}
	return p.names.GeneratedIdentifier(category)
}

// parseInlineExports consumes zero or more "(export "name")" shorthand
// forms, buffering a synthesized ModuleExport targeting id for each.
func (p *Parser) parseInlineExports(id *ast.Identifier, exportType ast.ExportType) error {
	for p.atOpenParenKeyword("export") {
		p.advance()
		p.advance()
		t, err := p.expect(token.String)
		if err != nil {
			return err
		}
		name, err := literal.DecodeString(t.Value)
		if err != nil {
			return p.errorf(t.Loc, errors.KindMalformedLiteral, "%s", err)
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return err
		}
		p.exports.add(string(name), exportType, id)
	}
	return nil
}

// tryInlineImport consumes an optional "(import "module" "name")"
// shorthand, reporting whether one was present.
func (p *Parser) tryInlineImport() (module, name string, ok bool, err error) {
	if !p.atOpenParenKeyword("import") {
		return "", "", false, nil
	}
	p.advance()
	p.advance()
	mt, err := p.expect(token.String)
	if err != nil {
		return "", "", false, err
	}
	nt, err := p.expect(token.String)
	if err != nil {
		return "", "", false, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return "", "", false, err
	}
	mb, err := literal.DecodeString(mt.Value)
	if err != nil {
		return "", "", false, p.errorf(mt.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	nb, err := literal.DecodeString(nt.Value)
	if err != nil {
		return "", "", false, p.errorf(nt.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	return string(mb), string(nb), true, nil
}

// parseFuncField parses "(func ...)": a plain definition, or — via the
// inline "(import ...)" sugar — a ModuleImport wrapping a
// FuncImportDescr.
func (p *Parser) parseFuncField() (ast.ModuleField, error) {
	id := p.tryOptionalID()
	resolvedID := p.ensureID(id, "func")

	if err := p.parseInlineExports(resolvedID, ast.ExportFunc); err != nil {
		return nil, err
	}

	if mod, name, ok, err := p.tryInlineImport(); err != nil {
		return nil, err
	} else if ok {
		sig, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewModuleImport(mod, name, ast.NewFuncImportDescr(id, sig)), nil
	}

	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	var locals []ast.Param
	for p.atOpenParenKeyword("local") {
		p.advance()
		p.advance()
		ps, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		locals = append(locals, ps...)
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	body, err := p.parseInstrSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}

	return ast.NewFunc(resolvedID, sig, locals, body), nil
}

func (p *Parser) parseImportDescr() (ast.ImportDescr, error) {
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	p.skipCommentsSilently()
	kw := p.peek()
	if kw == nil || kw.Type != token.Keyword {
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown import descriptor")
	}
	switch kw.Value {
	case "func":
		p.advance()
		id := p.tryOptionalID()
		sig, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewFuncImportDescr(id, sig), nil
	case "memory":
		p.advance()
		id := p.tryOptionalID()
		limits, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewMemory(id, limits), nil
	case "table":
		p.advance()
		id := p.tryOptionalID()
		limits, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		elemType, err := p.parseValtypeWord()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewTable(id, elemType, limits, nil), nil
	case "global":
		p.advance()
		id := p.tryOptionalID()
		gt, err := p.parseGlobalType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		_ = id
		return gt, nil
	default:
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown import descriptor %q", kw.Value)
	}
}

func (p *Parser) parseImport() (*ast.ModuleImport, error) {
	mt, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	nt, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	descr, err := p.parseImportDescr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	mb, err := literal.DecodeString(mt.Value)
	if err != nil {
		return nil, p.errorf(mt.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	nb, err := literal.DecodeString(nt.Value)
	if err != nil {
		return nil, p.errorf(nt.Loc, errors.KindMalformedLiteral, "%s", err)
	}
	return ast.NewModuleImport(string(mb), string(nb), descr), nil
}

// exportTypeForKeyword maps a keyword to its ExportType.
func exportTypeForKeyword(word string) (ast.ExportType, bool) {
	switch word {
	case "func":
		return ast.ExportFunc, true
	case "global":
		return ast.ExportGlobal, true
	case "memory":
		return ast.ExportMemory, true
	case "table":
		return ast.ExportTable, true
	default:
		return "", false
	}
}

func (p *Parser) parseExport() (*ast.ModuleExport, error) {
	nt, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	name, err := literal.DecodeString(nt.Value)
	if err != nil {
		return nil, p.errorf(nt.Loc, errors.KindMalformedLiteral, "%s", err)
	}

	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	p.skipCommentsSilently()
	kw := p.peek()
	if kw == nil || kw.Type != token.Keyword {
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown export descriptor")
	}
	exportType, ok := exportTypeForKeyword(kw.Value)
	if !ok {
		return nil, p.errorf(kw.Loc, errors.KindUnknownKeyword, "unknown export kind %q", kw.Value)
	}
	p.advance()
	idx, err := p.parseIndex()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewModuleExport(string(name), exportType, idx), nil
}

func (p *Parser) parseMemory() (ast.ModuleField, error) {
	id := p.tryOptionalID()
	resolvedID := p.ensureID(id, "memory")

	if err := p.parseInlineExports(resolvedID, ast.ExportMemory); err != nil {
		return nil, err
	}
	if mod, name, ok, err := p.tryInlineImport(); err != nil {
		return nil, err
	} else if ok {
		limits, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewModuleImport(mod, name, ast.NewMemory(id, limits)), nil
	}

	// "(memory $m (data "bytes"))" sugar: limits.min is the byte length.
	if p.atOpenParenKeyword("data") {
		p.advance()
		p.advance()
		chunks, err := p.parseStringChunks()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		total := 0
		for _, c := range chunks {
			total += len(c)
		}
		return ast.NewMemory(resolvedID, ast.NewLimit(uint32(total), nil)), nil
	}

	limits, err := p.parseLimit()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewMemory(resolvedID, limits), nil
}

func (p *Parser) parseTable() (ast.ModuleField, error) {
	id := p.tryOptionalID()
	resolvedID := p.ensureID(id, "table")

	if err := p.parseInlineExports(resolvedID, ast.ExportTable); err != nil {
		return nil, err
	}
	if mod, name, ok, err := p.tryInlineImport(); err != nil {
		return nil, err
	} else if ok {
		limits, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		elemType, err := p.parseValtypeWord()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewModuleImport(mod, name, ast.NewTable(id, elemType, limits, nil)), nil
	}

	// "(table $t anyfunc (elem $a $b ...))" sugar: the limits are
	// inferred from the element count and the elements are buffered
	// onto the Table node itself. The element type may be left out, in
	// which case it is anyfunc.
	if p.atOpenParenKeyword("elem") || (p.at(token.Valtype) && p.peekN(1) != nil && p.peekN(1).Type == token.OpenParen) {
		elemType := "anyfunc"
		if p.at(token.Valtype) {
			var err error
			if elemType, err = p.parseValtypeWord(); err != nil {
				return nil, err
			}
		}
		if p.atOpenParenKeyword("elem") {
			p.advance()
			p.advance()
			var elems []ast.Index
			for !p.at(token.CloseParen) {
				idx, err := p.parseIndex()
				if err != nil {
					return nil, err
				}
				elems = append(elems, idx)
			}
			p.advance()
			if _, err := p.expect(token.CloseParen); err != nil {
				return nil, err
			}
			n := uint32(len(elems))
			return ast.NewTable(resolvedID, elemType, ast.NewLimit(n, &n), elems), nil
		}
	}

	limits, err := p.parseLimit()
	if err != nil {
		return nil, err
	}
	elemType, err := p.parseValtypeWord()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewTable(resolvedID, elemType, limits, nil), nil
}

func (p *Parser) parseGlobalType() (*ast.GlobalType, error) {
	if p.atOpenParenKeyword("mut") {
		p.advance()
		p.advance()
		v, err := p.parseValtypeWord()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewGlobalType(v, ast.Var), nil
	}
	v, err := p.parseValtypeWord()
	if err != nil {
		return nil, err
	}
	return ast.NewGlobalType(v, ast.Const), nil
}

func (p *Parser) parseGlobal() (ast.ModuleField, error) {
	id := p.tryOptionalID()
	resolvedID := p.ensureID(id, "global")

	if err := p.parseInlineExports(resolvedID, ast.ExportGlobal); err != nil {
		return nil, err
	}
	if mod, name, ok, err := p.tryInlineImport(); err != nil {
		return nil, err
	} else if ok {
		gt, err := p.parseGlobalType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return ast.NewModuleImport(mod, name, gt), nil
	}

	gt, err := p.parseGlobalType()
	if err != nil {
		return nil, err
	}
	init, err := p.parseInstrSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewGlobal(resolvedID, gt, init), nil
}

func (p *Parser) parseData() (*ast.Data, error) {
	var memIndex ast.Index
	if p.at(token.Identifier) || p.at(token.Number) {
		idx, err := p.parseIndex()
		if err != nil {
			return nil, err
		}
		memIndex = idx
	}

	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	// optional "offset" keyword wrapper, e.g. "(offset (i32.const 0))";
	// the bare folded-instruction form "(i32.const 0)" is also accepted.
	wrappedOffset := p.atKeyword("offset")
	if wrappedOffset {
		p.advance()
	}
	offset, err := p.parseFoldedInstrBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if wrappedOffset {
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	chunks, err := p.parseStringChunks()
	if err != nil {
		return nil, err
	}
	var bytes []byte
	for _, c := range chunks {
		bytes = append(bytes, []byte(c)...)
	}

	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if memIndex == nil {
		memIndex = ast.NewIndexLiteral(0)
	}
	return ast.NewData(memIndex, offset, ast.NewByteArray(bytes)), nil
}

func (p *Parser) parseElem() (*ast.Elem, error) {
	var tableIndex ast.Index
	if p.at(token.Identifier) || p.at(token.Number) {
		idx, err := p.parseIndex()
		if err != nil {
			return nil, err
		}
		tableIndex = idx
	}

	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	wrappedOffset := p.atKeyword("offset")
	if wrappedOffset {
		p.advance()
	}
	offsetInstr, err := p.parseFoldedInstrBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	if wrappedOffset {
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	var funcs []ast.Index
	for !p.at(token.CloseParen) {
		idx, err := p.parseIndex()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, idx)
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return ast.NewElem(tableIndex, []ast.Instruction{offsetInstr}, funcs), nil
}
