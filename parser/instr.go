package parser

import (
	"github.com/wippyai/wasm-runtime/ast"
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/literal"
	"github.com/wippyai/wasm-runtime/token"
)

// opSig is an opcode signature table entry: how many leading bare
// tokens an instruction consumes as literal operands, and what valtype
// to coerce each to. Variadic marks the br_table family, whose operand
// count is unbounded.
type opSig struct {
	types    []string
	variadic bool
}

// sigTable is keyed by "<object>|<name>" ("" object for opcodes with no
// type prefix). An entry absent from the table means: no positional
// literal operands are expected, and any bare number encountered
// defaults to f64 typing (per spec.md §4.1).
var sigTable = map[string]opSig{
	"i32|const": {types: []string{"i32"}},
	"i64|const": {types: []string{"i64"}},
	"f32|const": {types: []string{"f32"}},
	"f64|const": {types: []string{"f64"}},

	"|get_local":  {types: []string{"i32"}},
	"|set_local":  {types: []string{"i32"}},
	"|tee_local":  {types: []string{"i32"}},
	"|get_global": {types: []string{"i32"}},
	"|set_global": {types: []string{"i32"}},
	"|call":       {types: []string{"i32"}},
	"|br":         {types: []string{"i32"}},
	"|br_if":      {types: []string{"i32"}},
	"|br_table":   {variadic: true},
}

func lookupSig(object, name string) opSig {
	if s, ok := sigTable[object+"|"+name]; ok {
		return s
	}
	return opSig{}
}

func typeForOperand(sig opSig, i int) string {
	if sig.variadic {
		return "i32"
	}
	if i < len(sig.types) {
		return sig.types[i]
	}
	return "f64"
}

// readOpName consumes the instruction's operator token(s): either a
// dotted "<valtype>.<name>" pair (split by the tokenizer into Valtype,
// Dot, Name) or a single bare Name/Keyword token.
func (p *Parser) readOpName() (object, name string, err error) {
	p.skipCommentsSilently()
	if p.eof() {
		return "", "", p.unexpectedEOF()
	}
	t := p.peek()
	if t.Type == token.Valtype {
		p.advance()
		object = t.Value
		if p.at(token.Dot) {
			p.advance()
			nt, err := p.expect(token.Name)
			if err != nil {
				return "", "", err
			}
			return object, nt.Value, nil
		}
		return "", "", p.errorf(t.Loc, errors.KindUnexpectedToken, "unexpected valtype %q used as instruction", t.Value)
	}
	if t.Type == token.Name || t.Type == token.Keyword {
		p.advance()
		return "", t.Value, nil
	}
	return "", "", p.errorf(t.Loc, errors.KindUnexpectedToken, "expected instruction, got %q", t.Value)
}

// parseNamedArgs consumes zero or more "key=number" named arguments
// (offset=, align=), which always precede positional arguments.
func (p *Parser) parseNamedArgs() (map[string]*ast.NumberLiteral, error) {
	var out map[string]*ast.NumberLiteral
	for {
		p.skipCommentsSilently()
		t := p.peek()
		if t == nil || (t.Type != token.Name && t.Type != token.Keyword) {
			break
		}
		eq := p.peekN(1)
		if eq == nil || eq.Type != token.Equal {
			break
		}
		key := t.Value
		p.advance()
		p.advance()
		vt, err := p.expect(token.Number)
		if err != nil {
			return nil, err
		}
		v, err := literal.DecodeNumber(vt.Value)
		if err != nil {
			return nil, p.errorf(vt.Loc, errors.KindMalformedLiteral, "%s", err)
		}
		if out == nil {
			out = make(map[string]*ast.NumberLiteral)
		}
		out[key] = ast.NewNumberLiteral(vt.Value, "i32", v)
	}
	return out, nil
}

// parseOperand parses one instruction operand: a nested folded
// instruction, a numeric literal coerced to expectedType, or a
// symbolic identifier (for index-valued operands).
func (p *Parser) parseOperand(expectedType string) (ast.Instruction, error) {
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	t := p.peek()
	switch t.Type {
	case token.OpenParen:
		p.advance()
		instr, err := p.parseFoldedInstrBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return instr, nil
	case token.Number:
		p.advance()
		v, err := literal.DecodeNumber(t.Value)
		if err != nil {
			return nil, p.errorf(t.Loc, errors.KindMalformedLiteral, "%s", err)
		}
		return ast.NewNumberLiteral(t.Value, expectedType, v), nil
	case token.Identifier:
		p.advance()
		return identFromToken(t), nil
	default:
		return nil, p.errorf(t.Loc, errors.KindUnexpectedToken, "expected instruction operand, got %q", t.Value)
	}
}

func (p *Parser) tryResultType() (string, error) {
	if p.atOpenParenKeyword("result") {
		p.advance()
		p.advance()
		v, err := p.parseValtypeWord()
		if err != nil {
			return "", err
		}
		// Single-result blocks only: any further result types are a
		// multi-value-proposal feature out of scope; ignore them.
		for p.at(token.Valtype) {
			p.advance()
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return "", err
		}
		return v, nil
	}
	return "", nil
}

// parseInstrSequence parses instructions until the cursor reaches a
// closing paren or a Keyword listed in stopKeywords (consumed by the
// caller, not here).
func (p *Parser) parseInstrSequence(stopKeywords ...string) ([]ast.Instruction, error) {
	var out []ast.Instruction
	for {
		p.skipCommentsSilently()
		if p.eof() {
			return nil, p.unexpectedEOF()
		}
		t := p.peek()
		if t.Type == token.CloseParen {
			break
		}
		if t.Type == token.Keyword {
			stop := false
			for _, k := range stopKeywords {
				if t.Value == k {
					stop = true
					break
				}
			}
			if stop {
				break
			}
		}
		instr, err := p.parseInstr()
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

// parseInstr parses exactly one instruction, folded or flat.
func (p *Parser) parseInstr() (ast.Instruction, error) {
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	t := p.peek()

	if t.Type == token.OpenParen {
		p.advance()
		instr, err := p.parseFoldedInstrBody()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		return instr, nil
	}

	if t.Type == token.Keyword {
		switch t.Value {
		case "block":
			p.advance()
			return p.parseBlockFlat()
		case "loop":
			p.advance()
			return p.parseLoopFlat()
		case "if":
			p.advance()
			return p.parseIfFlat()
		}
	}

	return p.parsePlainFlat()
}

func (p *Parser) parsePlainFlat() (ast.Instruction, error) {
	if t := p.peek(); t != nil && t.Type == token.Name {
		switch t.Value {
		case "call":
			p.advance()
			return p.parseCallFlat()
		case "call_indirect":
			p.advance()
			return p.parseCallIndirectFlat()
		}
	}

	object, name, err := p.readOpName()
	if err != nil {
		return nil, err
	}
	namedArgs, err := p.parseNamedArgs()
	if err != nil {
		return nil, err
	}
	sig := lookupSig(object, name)

	var args []ast.Expression
	if sig.variadic {
		for {
			pt := p.peek()
			if pt == nil || (pt.Type != token.Number && pt.Type != token.Identifier) {
				break
			}
			arg, err := p.parseOperand("i32")
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	} else {
		for i := 0; i < len(sig.types); i++ {
			pt := p.peek()
			if pt == nil || (pt.Type != token.Number && pt.Type != token.Identifier) {
				break
			}
			arg, err := p.parseOperand(typeForOperand(sig, i))
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	return ast.NewInstr(name, object, args, namedArgs), nil
}

// parseFoldedInstrBody parses an instruction's content with the opening
// paren already consumed; it does NOT consume the matching closing
// paren — the caller owns that.
func (p *Parser) parseFoldedInstrBody() (ast.Instruction, error) {
	p.skipCommentsSilently()
	if p.eof() {
		return nil, p.unexpectedEOF()
	}
	t := p.peek()

	if t.Type == token.Keyword {
		switch t.Value {
		case "block":
			p.advance()
			return p.parseBlockFolded()
		case "loop":
			p.advance()
			return p.parseLoopFolded()
		case "if":
			p.advance()
			return p.parseIfFolded()
		}
	}
	if t.Type == token.Name {
		switch t.Value {
		case "call":
			p.advance()
			return p.parseCallFolded()
		case "call_indirect":
			p.advance()
			return p.parseCallIndirectFolded()
		}
	}

	object, name, err := p.readOpName()
	if err != nil {
		return nil, err
	}
	namedArgs, err := p.parseNamedArgs()
	if err != nil {
		return nil, err
	}
	sig := lookupSig(object, name)

	var args []ast.Expression
	i := 0
	for !p.at(token.CloseParen) {
		arg, err := p.parseOperand(typeForOperand(sig, i))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		i++
	}
	return ast.NewInstr(name, object, args, namedArgs), nil
}

func (p *Parser) parseCallFlat() (ast.Instruction, error) {
	idx, err := p.parseIndex()
	if err != nil {
		return nil, err
	}
	return ast.NewCallInstruction(idx, nil), nil
}

func (p *Parser) parseCallFolded() (ast.Instruction, error) {
	idx, err := p.parseIndex()
	if err != nil {
		return nil, err
	}
	var args []ast.Instruction
	for !p.at(token.CloseParen) {
		a, err := p.parseOperand("f64")
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return ast.NewCallInstruction(idx, args), nil
}

func (p *Parser) parseCallIndirectFlat() (ast.Instruction, error) {
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	return ast.NewCallIndirectInstruction(sig, nil), nil
}

func (p *Parser) parseCallIndirectFolded() (ast.Instruction, error) {
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	var args []ast.Instruction
	for !p.at(token.CloseParen) {
		a, err := p.parseOperand("f64")
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return ast.NewCallIndirectInstruction(sig, args), nil
}

func (p *Parser) parseBlockFolded() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "block")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseInstrSequence()
	if err != nil {
		return nil, err
	}
	return ast.NewBlockInstruction(label, result, body), nil
}

func (p *Parser) parseLoopFolded() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "loop")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseInstrSequence()
	if err != nil {
		return nil, err
	}
	return ast.NewLoopInstruction(label, result, body), nil
}

func (p *Parser) parseIfFolded() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "if")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}

	var test []ast.Instruction
	for !p.atOpenParenKeyword("then") {
		instr, err := p.parseInstr()
		if err != nil {
			return nil, err
		}
		test = append(test, instr)
	}

	p.advance() // (
	p.advance() // then
	consequent, err := p.parseInstrSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}

	var alternate []ast.Instruction
	if p.atOpenParenKeyword("else") {
		p.advance()
		p.advance()
		alternate, err = p.parseInstrSequence()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
	}

	return ast.NewIfInstruction(label, result, test, consequent, alternate), nil
}

func (p *Parser) parseBlockFlat() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "block")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseInstrSequence("end")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return ast.NewBlockInstruction(label, result, body), nil
}

func (p *Parser) parseLoopFlat() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "loop")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseInstrSequence("end")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return ast.NewLoopInstruction(label, result, body), nil
}

func (p *Parser) parseIfFlat() (ast.Instruction, error) {
	label := p.ensureID(p.tryOptionalID(), "if")
	result, err := p.tryResultType()
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseInstrSequence("else", "end")
	if err != nil {
		return nil, err
	}
	var alternate []ast.Instruction
	if p.atKeyword("else") {
		p.advance()
		alternate, err = p.parseInstrSequence("end")
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return ast.NewIfInstruction(label, result, nil, consequent, alternate), nil
}
