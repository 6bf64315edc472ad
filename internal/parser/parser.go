// Package parser builds an ir.Module directly from a token stream — there
// is no separate AST tier between lexing and IR construction, the same
// discipline the retrieved LLVM-IR assembler generator uses (index every
// top-level declaration first, then translate bodies), collapsed here into
// a single recursive-descent walk since Calir's grammar is far smaller than
// a full scripting language's.
//
// Parsing happens in two passes. The module-level pass first walks every
// top-level construct: struct and global definitions are parsed in full
// immediately (their contents never forward-reference anything not yet
// known), while a function's header is parsed and its body's token span is
// recorded and skipped over, so a later function definition in the file can
// be resolved by earlier ones in the same file (mutual recursion) before
// its own body is filled in. The second pass then revisits each recorded
// function body and runs the per-function two-pass resolution: a raw scan
// of the body's tokens first creates every referenced block (forward
// label references resolve), then a left-to-right walk fills in each
// block's instructions.
package parser

import (
	"fmt"
	"os"

	"calir/internal/builder"
	"calir/internal/calirerrors"
	"calir/internal/ir"
	"calir/internal/lexer"
)

// Parser holds the token stream and the symbol tables live during a single
// module parse.
type Parser struct {
	ctx     *ir.Context
	file    string
	tokens  []lexer.Token
	current int

	m *ir.Module

	globals        map[string]*ir.Value // @name -> Function/GlobalVariable, module-wide
	structsDefined map[string]bool

	locals map[string]*ir.Value      // %name -> Argument/Instruction, reset per function
	blocks map[string]*ir.BasicBlock // $name -> block, reset per function
}

type pendingFunction struct {
	fn        *ir.Function
	bodyStart int
}

// ParseFile reads path and parses it as a Calir module.
func ParseFile(ctx *ir.Context, path string) (*ir.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, calirerrors.NewSyntax(calirerrors.Location{File: path}, "cannot read file: %v", err)
	}
	return ParseString(ctx, path, string(src))
}

// ParseString parses src as a Calir module named name (used only for
// diagnostic locations). A parse failure discards the partially built
// module and returns a *calirerrors.Error pointing at the offending
// token's line and column.
func ParseString(ctx *ir.Context, name, src string) (m *ir.Module, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		// Discard the partially built module wholesale; types, constants,
		// and interned strings survive the reset.
		ctx.ResetIR()
		if e, ok := r.(*calirerrors.Error); ok {
			m, err = nil, e
		} else {
			m, err = nil, calirerrors.Internalf("parser: %v", r)
		}
	}()

	tokens := lexer.NewScanner(ctx, src).ScanTokens()
	p := &Parser{
		ctx:            ctx,
		file:           name,
		tokens:         tokens,
		globals:        map[string]*ir.Value{},
		structsDefined: map[string]bool{},
	}
	return p.parseModule(), nil
}

func (p *Parser) parseModule() *ir.Module {
	p.expect(lexer.TokenModule, "expected 'module'")
	nameTok := p.expect(lexer.TokenString, "expected a module name string")
	p.m = p.ctx.NewModule(*nameTok.Text)

	var pending []pendingFunction
	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.TokenLocalIdent:
			p.parseStructDef()
		case lexer.TokenGlobalIdent:
			p.parseGlobalDef()
		case lexer.TokenDeclare:
			p.parseFunctionDecl()
		case lexer.TokenDefine:
			pending = append(pending, p.parseFunctionDefHeader())
		default:
			p.fail(fmt.Sprintf("expected a struct, global, or function definition, got %s", p.peek().Raw))
		}
	}

	for _, pf := range pending {
		p.parseFunctionBody(pf.fn, pf.bodyStart)
	}
	return p.m
}

// ~~~ Top-level constructs ~~~

func (p *Parser) parseStructDef() {
	nameTok := p.advance()
	name := *nameTok.Text
	p.expect(lexer.TokenEqual, "expected '=' after struct name")
	p.expect(lexer.TokenType_, "expected 'type' keyword")
	p.expect(lexer.TokenLBrace, "expected '{' to start struct body")
	var members []*ir.Type
	if !p.check(lexer.TokenRBrace) {
		for {
			members = append(members, p.parseType())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRBrace, "expected '}' after struct body")

	if p.structsDefined[name] {
		p.fail("duplicate struct definition %" + name)
	}
	p.structsDefined[name] = true
	p.m.DefineStruct(name, members)
}

func (p *Parser) parseGlobalDef() {
	nameTok := p.advance()
	name := *nameTok.Text
	p.expect(lexer.TokenEqual, "expected '=' after global name")
	p.expect(lexer.TokenGlobal, "expected 'global' keyword")
	valueType := p.parseType()

	if _, exists := p.globals[name]; exists {
		p.fail("duplicate global symbol @" + name)
	}
	g := p.m.DeclareGlobal(name, valueType)
	p.globals[name] = g.AsValue()
	if isConstantLiteralStart(p.peek().Type) {
		g.Initializer = p.parseConstantLiteral(valueType)
	}
}

func (p *Parser) parseFunctionDecl() {
	p.advance() // 'declare'
	retType := p.parseType()
	nameTok := p.expect(lexer.TokenGlobalIdent, "expected a function name after return type")
	name := *nameTok.Text
	p.expect(lexer.TokenLParen, "expected '(' after function name")

	var paramTypes []*ir.Type
	variadic := false
	if !p.check(lexer.TokenRParen) {
		for {
			if p.check(lexer.TokenEllipsis) {
				p.advance()
				variadic = true
				break
			}
			_, ty := p.parseParam()
			paramTypes = append(paramTypes, ty)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' after parameter list")

	if _, exists := p.globals[name]; exists {
		p.fail("duplicate global symbol @" + name)
	}
	sig := p.ctx.FunctionType(retType, paramTypes, variadic)
	fn := p.m.DeclareFunction(name, sig)
	p.globals[name] = fn.AsValue()
}

func (p *Parser) parseFunctionDefHeader() pendingFunction {
	p.advance() // 'define'
	retType := p.parseType()
	nameTok := p.expect(lexer.TokenGlobalIdent, "expected a function name after return type")
	name := *nameTok.Text
	p.expect(lexer.TokenLParen, "expected '(' after function name")

	var paramNames []string
	var paramTypes []*ir.Type
	variadic := false
	if !p.check(lexer.TokenRParen) {
		for {
			if p.check(lexer.TokenEllipsis) {
				p.advance()
				variadic = true
				break
			}
			pname, ty := p.parseParam()
			paramNames = append(paramNames, pname)
			paramTypes = append(paramTypes, ty)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' after parameter list")

	if _, exists := p.globals[name]; exists {
		p.fail("duplicate global symbol @" + name)
	}
	sig := p.ctx.FunctionType(retType, paramTypes, variadic)
	fn := p.m.DeclareFunction(name, sig)
	for i, pname := range paramNames {
		if pname != "" {
			fn.NameParam(i, pname)
		}
	}
	p.globals[name] = fn.AsValue()

	p.expect(lexer.TokenLBrace, "expected '{' to start function body")
	bodyStart := p.current
	p.skipBalancedBraces()
	return pendingFunction{fn: fn, bodyStart: bodyStart}
}

// parseParam parses one "%name: T" or bare "T" parameter slot. declare's
// parameters may carry a name syntactically (matching the grammar sample)
// even though the verifier requires a declaration's arguments to stay
// unnamed; only define's header caller persists the name it returns.
func (p *Parser) parseParam() (string, *ir.Type) {
	var name string
	if p.check(lexer.TokenLocalIdent) {
		tok := p.advance()
		name = *tok.Text
		p.expect(lexer.TokenColon, "expected ':' after parameter name")
	}
	return name, p.parseType()
}

// ~~~ Function body (per-function two-pass) ~~~

func (p *Parser) parseFunctionBody(fn *ir.Function, bodyStart int) {
	p.current = bodyStart
	p.locals = map[string]*ir.Value{}
	p.blocks = map[string]*ir.BasicBlock{}

	for i, a := range fn.Params {
		if a.Name != "" {
			p.locals[a.Name] = fn.Params[i].AsValue()
		}
	}

	p.preScanBlocks(fn)

	bl := builder.New(p.ctx)
	for !p.check(lexer.TokenRBrace) {
		labelTok := p.expect(lexer.TokenLabelIdent, "expected a block label")
		p.expect(lexer.TokenColon, "expected ':' after block label")
		block, ok := p.blocks[*labelTok.Text]
		if !ok {
			p.fail("internal: block $" + *labelTok.Text + " missing from pre-scan")
		}
		bl.SetInsertPoint(block)
		for !p.check(lexer.TokenLabelIdent) && !p.check(lexer.TokenRBrace) {
			p.parseInstruction(bl, fn)
		}
	}
	p.expect(lexer.TokenRBrace, "expected '}' to close function body")
}

// preScanBlocks creates an empty BasicBlock for every "$label:" header in
// the function body, in the order the headers appear, then a second sweep
// creates one for any bare "$label" reference that never got a header (the
// verifier's non-empty-block check rejects it later, since it never
// receives instructions) — enabling forward references either way.
func (p *Parser) preScanBlocks(fn *ir.Function) {
	depth := 1
	i := p.current
	for i < len(p.tokens) {
		switch p.tokens[i].Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			depth--
			if depth == 0 {
				goto headersFound
			}
		case lexer.TokenLabelIdent:
			if i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.TokenColon {
				name := *p.tokens[i].Text
				if _, ok := p.blocks[name]; !ok {
					p.blocks[name] = fn.AppendBlock(name)
				}
			}
		}
		i++
	}
headersFound:
	end := i
	for j := p.current; j < end; j++ {
		if p.tokens[j].Type == lexer.TokenLabelIdent {
			name := *p.tokens[j].Text
			if _, ok := p.blocks[name]; !ok {
				p.blocks[name] = fn.AppendBlock(name)
			}
		}
	}
}

func (p *Parser) parseInstruction(bl *builder.Builder, fn *ir.Function) {
	if p.check(lexer.TokenLocalIdent) {
		p.parseNamedInstruction(bl)
		return
	}
	p.parseVoidInstruction(bl, fn)
}

func (p *Parser) parseNamedInstruction(bl *builder.Builder) {
	nameTok := p.advance()
	name := *nameTok.Text
	p.expect(lexer.TokenColon, "expected ':' after result name")
	declaredType := p.parseType()
	p.expect(lexer.TokenEqual, "expected '=' after result type")

	var instr *ir.Instruction
	switch p.peek().Type {
	case lexer.TokenAdd:
		p.advance()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between add operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateAdd(lhs, rhs, name)
	case lexer.TokenSub:
		p.advance()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between sub operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateSub(lhs, rhs, name)
	case lexer.TokenSDiv:
		p.advance()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between sdiv operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateSDiv(lhs, rhs, name)
	case lexer.TokenUDiv:
		p.advance()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between udiv operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateUDiv(lhs, rhs, name)
	case lexer.TokenFDiv:
		p.advance()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between fdiv operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateFDiv(lhs, rhs, name)
	case lexer.TokenIcmp:
		p.advance()
		pred := p.parseICmpPredicate()
		lhs := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' between icmp operands")
		rhs := p.parseOperandRef()
		instr = bl.CreateICmp(pred, lhs, rhs, name)
	case lexer.TokenAlloc:
		p.advance()
		instr = bl.CreateAlloca(p.parseType(), name)
	case lexer.TokenLoad:
		p.advance()
		instr = bl.CreateLoad(p.parseOperandRef(), name)
	case lexer.TokenPhi:
		p.advance()
		instr = bl.CreatePhi(declaredType, name)
		p.parsePhiIncoming(bl, instr)
	case lexer.TokenGep:
		p.advance()
		instr = p.parseGEP(bl, name)
	case lexer.TokenCall:
		p.advance()
		instr = p.parseCall(bl, name)
	default:
		p.fail(fmt.Sprintf("expected an instruction opcode, got %s", p.peek().Raw))
	}

	if instr.Type != declaredType {
		p.fail(fmt.Sprintf("%%%s: declared type %s does not match computed type %s",
			name, declaredType.String(), instr.Type.String()))
	}
	p.locals[name] = instr.AsValue()
}

func (p *Parser) parsePhiIncoming(bl *builder.Builder, phi *ir.Instruction) {
	if !p.check(lexer.TokenLBracket) {
		return
	}
	for {
		p.expect(lexer.TokenLBracket, "expected '[' before phi incoming pair")
		val := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' in phi incoming pair")
		predTok := p.expect(lexer.TokenLabelIdent, "expected a predecessor label in phi incoming pair")
		pred, ok := p.blocks[*predTok.Text]
		if !ok {
			p.fail("undefined block $" + *predTok.Text + " in phi")
		}
		p.expect(lexer.TokenRBracket, "expected ']' after phi incoming pair")
		bl.AddIncoming(phi, val, pred)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
}

func (p *Parser) parseGEP(bl *builder.Builder, name string) *ir.Instruction {
	inbounds := false
	if p.check(lexer.TokenInbounds) {
		p.advance()
		inbounds = true
	}
	base := p.parseOperandRef()
	var indices []*ir.Value
	for p.match(lexer.TokenComma) {
		indices = append(indices, p.parseOperandRef())
	}
	sourceType := base.Type.Elem()
	if sourceType == nil {
		p.fail("gep base operand must have pointer type")
	}
	instr, err := bl.CreateGEP(sourceType, base, indices, inbounds, name)
	if err != nil {
		p.failWrap(err)
	}
	return instr
}

func (p *Parser) parseCall(bl *builder.Builder, name string) *ir.Instruction {
	p.expect(lexer.TokenLAngle, "expected '<' before callee signature")
	sigType := p.parseFunctionSigType()
	p.expect(lexer.TokenRAngle, "expected '>' after callee signature")
	calleeTok := p.expect(lexer.TokenGlobalIdent, "expected a callee name")
	calleeName := *calleeTok.Text
	callee, ok := p.globals[calleeName]
	if !ok {
		p.fail("undefined function @" + calleeName)
	}
	if callee.Type.Elem() != sigType {
		p.fail("@" + calleeName + ": callee signature does not match call site")
	}

	p.expect(lexer.TokenLParen, "expected '(' to start call arguments")
	var args []*ir.Value
	if !p.check(lexer.TokenRParen) {
		for {
			args = append(args, p.parseOperandRef())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' to close call arguments")

	instr, err := bl.CreateCall(callee, args, name)
	if err != nil {
		p.failWrap(err)
	}
	return instr
}

func (p *Parser) parseVoidInstruction(bl *builder.Builder, fn *ir.Function) {
	switch p.peek().Type {
	case lexer.TokenRet:
		p.advance()
		if fn.ReturnType().Kind() == ir.Void {
			bl.CreateRet(nil)
		} else {
			bl.CreateRet(p.parseOperandRef())
		}
	case lexer.TokenBr:
		p.advance()
		bl.CreateBr(p.parseLabelRef())
	case lexer.TokenCondBr:
		p.advance()
		cond := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' after cond_br condition")
		thenB := p.parseLabelRef()
		p.expect(lexer.TokenComma, "expected ',' after cond_br then-label")
		elseB := p.parseLabelRef()
		bl.CreateCondBr(cond, thenB, elseB)
	case lexer.TokenStore:
		p.advance()
		val := p.parseOperandRef()
		p.expect(lexer.TokenComma, "expected ',' after store value")
		ptr := p.parseOperandRef()
		bl.CreateStore(val, ptr)
	case lexer.TokenCall:
		// A call whose callee returns void carries no "%name: T =" prefix.
		p.advance()
		instr := p.parseCall(bl, "")
		if instr.Type.Kind() != ir.Void {
			p.fail("a call without a result name must target a void function")
		}
	default:
		p.fail(fmt.Sprintf("expected an instruction, got %s", p.peek().Raw))
	}
}

// ~~~ Operands, labels, types ~~~

func (p *Parser) parseOperandRef() *ir.Value {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenLocalIdent:
		p.advance()
		name := *tok.Text
		p.expect(lexer.TokenColon, "expected ':' after operand name")
		declaredType := p.parseType()
		v, ok := p.locals[name]
		if !ok {
			p.fail("undefined local %" + name)
		}
		if v.Type != declaredType {
			p.fail(fmt.Sprintf("%%%s: declared type %s does not match %s", name, declaredType.String(), v.Type.String()))
		}
		return v
	case lexer.TokenGlobalIdent:
		p.advance()
		name := *tok.Text
		p.expect(lexer.TokenColon, "expected ':' after operand name")
		declaredType := p.parseType()
		v, ok := p.globals[name]
		if !ok {
			p.fail("undefined global @" + name)
		}
		if v.Type != declaredType {
			p.fail(fmt.Sprintf("@%s: declared type %s does not match %s", name, declaredType.String(), v.Type.String()))
		}
		return v
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenUndef, lexer.TokenZeroinitializer:
		p.advance()
		p.expect(lexer.TokenColon, "expected ':' after constant literal")
		ty := p.parseType()
		return p.constantFromToken(tok, ty).AsValue()
	default:
		p.fail(fmt.Sprintf("expected an operand, got %s", tok.Raw))
		return nil
	}
}

func (p *Parser) parseLabelRef() *ir.BasicBlock {
	tok := p.expect(lexer.TokenLabelIdent, "expected a block label")
	b, ok := p.blocks[*tok.Text]
	if !ok {
		p.fail("undefined block $" + *tok.Text)
	}
	return b
}

func isConstantLiteralStart(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenUndef, lexer.TokenZeroinitializer:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConstantLiteral(ty *ir.Type) *ir.Constant {
	tok := p.peek()
	if !isConstantLiteralStart(tok.Type) {
		p.fail(fmt.Sprintf("expected a constant literal, got %s", tok.Raw))
	}
	p.advance()
	return p.constantFromToken(tok, ty)
}

func (p *Parser) constantFromToken(tok lexer.Token, ty *ir.Type) *ir.Constant {
	switch tok.Type {
	case lexer.TokenInt:
		if ty.FloatBits() != 0 {
			return p.ctx.ConstFloat(ty, float64(int64(tok.IntVal)))
		}
		return p.ctx.ConstInt(ty, tok.IntVal)
	case lexer.TokenFloat:
		return p.ctx.ConstFloat(ty, tok.FltVal)
	case lexer.TokenTrue:
		return p.ctx.TrueConst()
	case lexer.TokenFalse:
		return p.ctx.FalseConst()
	case lexer.TokenUndef:
		return p.ctx.ConstUndef(ty)
	case lexer.TokenZeroinitializer:
		return p.ctx.ConstZero(ty)
	default:
		p.fail(fmt.Sprintf("expected a constant literal, got %s", tok.Raw))
		return nil
	}
}

func (p *Parser) parseICmpPredicate() ir.ICmpPredicate {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenEq:
		return ir.ICmpEQ
	case lexer.TokenNe:
		return ir.ICmpNE
	case lexer.TokenSgt:
		return ir.ICmpSGT
	case lexer.TokenSge:
		return ir.ICmpSGE
	case lexer.TokenSlt:
		return ir.ICmpSLT
	case lexer.TokenSle:
		return ir.ICmpSLE
	case lexer.TokenUgt:
		return ir.ICmpUGT
	case lexer.TokenUge:
		return ir.ICmpUGE
	case lexer.TokenUlt:
		return ir.ICmpULT
	case lexer.TokenUle:
		return ir.ICmpULE
	default:
		p.fail(fmt.Sprintf("expected an icmp predicate, got %s", tok.Raw))
		return 0
	}
}

func (p *Parser) parseType() *ir.Type {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenVoid:
		p.advance()
		return p.ctx.VoidType()
	case lexer.TokenI1:
		p.advance()
		return p.ctx.I1Type()
	case lexer.TokenI8:
		p.advance()
		return p.ctx.I8Type()
	case lexer.TokenI16:
		p.advance()
		return p.ctx.I16Type()
	case lexer.TokenI32:
		p.advance()
		return p.ctx.I32Type()
	case lexer.TokenI64:
		p.advance()
		return p.ctx.I64Type()
	case lexer.TokenF32:
		p.advance()
		return p.ctx.F32Type()
	case lexer.TokenF64:
		p.advance()
		return p.ctx.F64Type()
	case lexer.TokenLAngle:
		p.advance()
		elem := p.parseType()
		p.expect(lexer.TokenRAngle, "expected '>' to close pointer type")
		return p.ctx.PointerType(elem)
	case lexer.TokenLBracket:
		p.advance()
		countTok := p.expect(lexer.TokenInt, "expected an array length")
		p.expect(lexer.TokenX, "expected 'x' in array type")
		elem := p.parseType()
		p.expect(lexer.TokenRBracket, "expected ']' to close array type")
		return p.ctx.ArrayType(elem, int(countTok.IntVal))
	case lexer.TokenLBrace:
		p.advance()
		var members []*ir.Type
		if !p.check(lexer.TokenRBrace) {
			for {
				members = append(members, p.parseType())
				if !p.match(lexer.TokenComma) {
					break
				}
			}
		}
		p.expect(lexer.TokenRBrace, "expected '}' to close anonymous struct type")
		return p.ctx.StructType(members)
	case lexer.TokenLocalIdent:
		nameTok := p.advance()
		return p.ctx.NamedStructType(*nameTok.Text)
	default:
		p.fail(fmt.Sprintf("expected a type, got %s", tok.Raw))
		return nil
	}
}

// parseFunctionSigType parses the "RetT(ParamTs…)" signature form that
// only appears inside a call instruction's "<...>" slot.
func (p *Parser) parseFunctionSigType() *ir.Type {
	ret := p.parseType()
	p.expect(lexer.TokenLParen, "expected '(' in callee signature")
	var params []*ir.Type
	variadic := false
	if !p.check(lexer.TokenRParen) {
		for {
			if p.check(lexer.TokenEllipsis) {
				p.advance()
				variadic = true
				break
			}
			params = append(params, p.parseType())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen, "expected ')' to close callee signature")
	return p.ctx.FunctionType(ret, params, variadic)
}

// ~~~ Token-stream utilities ~~~

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }

func (p *Parser) isAtEnd() bool { return p.tokens[p.current].Type == lexer.TokenEOF }

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.current]
	if tok.Type != lexer.TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(fmt.Sprintf("%s (got %s)", msg, p.peek().Raw))
	return lexer.Token{}
}

// skipBalancedBraces advances past a brace-delimited span whose opening
// '{' has already been consumed, counting every '{'/'}' token regardless of
// what it means structurally (a block wrapper, an anonymous struct type
// literal, ...) — balanced nesting is all that matters to find the span's
// end during the header-indexing pass.
func (p *Parser) skipBalancedBraces() {
	depth := 1
	for depth > 0 {
		if p.isAtEnd() {
			p.fail("unterminated function body")
		}
		switch p.advance().Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			depth--
		}
	}
}

func (p *Parser) fail(msg string) {
	tok := p.peek()
	panic(calirerrors.NewSyntax(calirerrors.Location{File: p.file, Line: tok.Line, Column: tok.Column}, "%s", msg))
}

func (p *Parser) failWrap(err error) {
	tok := p.peek()
	panic(calirerrors.NewSyntax(calirerrors.Location{File: p.file, Line: tok.Line, Column: tok.Column}, "%v", err))
}
