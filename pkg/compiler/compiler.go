// Package compiler compiles Lox source directly to bytecode in a single
// pass — lexing, parsing, and code generation are fused the way clox's
// compiler.c does it, with no intermediate AST. This is the engine's
// external collaborator: it knows nothing about the VM's dispatch loop,
// only how to produce a Chunk and hand it a *object.ObjFunction to run.
package compiler

import (
	"fmt"
	"strconv"

	"github.com/kristofer/loxvm/pkg/bytecode"
	"github.com/kristofer/loxvm/pkg/lexer"
	"github.com/kristofer/loxvm/pkg/object"
)

// stringInterner is the minimal VM surface the compiler needs: interning
// string and identifier constants so they participate in the same identity
// scheme the running program's strings do, and registering each freshly
// allocated function with the VM's heap-object list so it participates in
// garbage collection like every other object variant.
type stringInterner interface {
	CopyString(string) *object.ObjString
	TrackFunction(*object.ObjFunction)
}

// Compile parses source and generates the top-level script function. The
// returned function is ready to be wrapped in a Closure and called by
// vm.VM.Interpret; Compile never executes anything itself.
func Compile(v stringInterner, source string) (*object.ObjFunction, error) {
	p := &parser{lex: lexer.New(source), vm: v}
	p.current = p.lex.Next()

	p.beginFunctionCompiler(nil, funcTypeScript, "")

	for !p.match(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenEOF, "Expect end of expression.")

	fn := p.endFunctionCompiler()
	if p.hadError {
		return nil, fmt.Errorf("compile error")
	}
	return fn, nil
}

type funcType int

const (
	funcTypeScript funcType = iota
	funcTypeFunction
	funcTypeMethod
	funcTypeInitializer
)

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcCompiler holds the per-function compilation state: the chunk being
// built, its locals and scope depth, and its upvalue list. funcCompilers
// nest one per enclosing Lox function, mirroring the call stack the
// compiled code will eventually run on.
type funcCompiler struct {
	enclosing *funcCompiler
	fn        *object.ObjFunction
	typ       funcType

	locals     []local
	scopeDepth int
	upvalues   []upvalueRef
}

type classCompiler struct {
	enclosing    *classCompiler
	hasSuperclass bool
}

// parser is the single compiler-wide state: current/previous tokens, the
// active funcCompiler chain, and error/panic-mode bookkeeping.
type parser struct {
	lex *lexer.Lexer
	vm  stringInterner

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool

	fc    *funcCompiler
	class *classCompiler
}

func (p *parser) beginFunctionCompiler(enclosing *funcCompiler, typ funcType, name string) {
	fn := object.NewFunction()
	p.vm.TrackFunction(fn)
	if typ != funcTypeScript {
		fn.Name = p.vm.CopyString(name)
	}
	fc := &funcCompiler{enclosing: enclosing, fn: fn, typ: typ}
	// Slot 0 is reserved for the receiver (methods/initializers) or the
	// called closure itself (plain functions) — never addressable by name
	// except as "this".
	selfName := ""
	if typ == funcTypeMethod || typ == funcTypeInitializer {
		selfName = "this"
	}
	fc.locals = append(fc.locals, local{name: selfName, depth: 0})
	p.fc = fc
}

func (p *parser) endFunctionCompiler() *object.ObjFunction {
	p.emitReturn()
	fn := p.fc.fn
	p.fc = p.fc.enclosing
	return fn
}

func (p *parser) currentChunk() *bytecode.Chunk { return p.fc.fn.Chunk }

// ---- token stream ----------------------------------------------------

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.Next()
		if p.current.Type != lexer.TokenError {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parser) check(t lexer.TokenType) bool { return p.current.Type == t }

func (p *parser) match(t lexer.TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(t lexer.TokenType, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	_ = tok // line/lexeme available for a richer diagnostic if needed
}

// synchronize discards tokens until a likely statement boundary, so one
// syntax error doesn't cascade into a wall of follow-on errors.
func (p *parser) synchronize() {
	p.panicMode = false
	for p.current.Type != lexer.TokenEOF {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch p.current.Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// ---- emission ----------------------------------------------------------

func (p *parser) emitByte(b byte) {
	p.currentChunk().Write(b, p.previous.Line)
}

func (p *parser) emitOp(op bytecode.OpCode) {
	p.currentChunk().WriteOp(op, p.previous.Line)
}

func (p *parser) emitOpByte(op bytecode.OpCode, b byte) {
	p.emitOp(op)
	p.emitByte(b)
}

func (p *parser) emitConstant(v interface{}) {
	p.currentChunk().WriteConstant(v, p.previous.Line)
}

func (p *parser) emitReturn() {
	if p.fc.typ == funcTypeInitializer {
		p.emitOpByte(bytecode.OpGetLocal, 0)
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.emitOp(bytecode.OpReturn)
}

// emitJump writes a jump opcode with a placeholder 2-byte offset, returning
// the offset to later patch with patchJump.
func (p *parser) emitJump(op bytecode.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.currentChunk().Code) - 2
}

func (p *parser) patchJump(offset int) {
	jump := len(p.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
	}
	p.currentChunk().Code[offset] = byte((jump >> 8) & 0xff)
	p.currentChunk().Code[offset+1] = byte(jump & 0xff)
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(bytecode.OpLoop)
	offset := len(p.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
	}
	p.emitByte(byte((offset >> 8) & 0xff))
	p.emitByte(byte(offset & 0xff))
}

func (p *parser) identifierConstant(name string) byte {
	idx := p.currentChunk().AddConstant(p.vm.CopyString(name))
	return byte(idx)
}

// ---- scopes and variables -----------------------------------------------

func (p *parser) beginScope() { p.fc.scopeDepth++ }

func (p *parser) endScope() {
	p.fc.scopeDepth--
	locals := p.fc.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.fc.scopeDepth {
		if locals[len(locals)-1].isCaptured {
			p.emitOp(bytecode.OpCloseUpvalue)
		} else {
			p.emitOp(bytecode.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	p.fc.locals = locals
}

func (p *parser) declareVariable(name string) {
	if p.fc.scopeDepth == 0 {
		return
	}
	for i := len(p.fc.locals) - 1; i >= 0; i-- {
		l := p.fc.locals[i]
		if l.depth != -1 && l.depth < p.fc.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) addLocal(name string) {
	p.fc.locals = append(p.fc.locals, local{name: name, depth: -1})
}

func (p *parser) markInitialized() {
	if p.fc.scopeDepth == 0 {
		return
	}
	p.fc.locals[len(p.fc.locals)-1].depth = p.fc.scopeDepth
}

// parseVariable consumes an identifier, declaring it as a local if inside a
// scope, and returns the constant-pool index to use for OP_DEFINE_GLOBAL at
// the top level (0 when local, since locals need no runtime name lookup).
func (p *parser) parseVariable(errMsg string) byte {
	p.consume(lexer.TokenIdentifier, errMsg)
	name := p.previous.Lexeme
	p.declareVariable(name)
	if p.fc.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(name)
}

func (p *parser) defineVariable(global byte) {
	if p.fc.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(bytecode.OpDefineGlobal, global)
}

func resolveLocal(fc *funcCompiler, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

func resolveUpvalue(fc *funcCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return addUpvalue(fc, byte(local), true)
	}
	if up := resolveUpvalue(fc.enclosing, name); up != -1 {
		return addUpvalue(fc, byte(up), false)
	}
	return -1
}

func addUpvalue(fc *funcCompiler, index byte, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fc.fn.UpvalueCount = len(fc.upvalues)
	return len(fc.upvalues) - 1
}

// ---- declarations and statements ---------------------------------------

func (p *parser) declaration() {
	switch {
	case p.match(lexer.TokenClass):
		p.classDeclaration()
	case p.match(lexer.TokenFun):
		p.funDeclaration()
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) classDeclaration() {
	p.consume(lexer.TokenIdentifier, "Expect class name.")
	className := p.previous.Lexeme
	nameConstant := p.identifierConstant(className)
	p.declareVariable(className)

	p.emitOpByte(bytecode.OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.class}
	p.class = cc

	if p.match(lexer.TokenLess) {
		p.consume(lexer.TokenIdentifier, "Expect superclass name.")
		p.variable(p.previous.Lexeme, false)
		if p.previous.Lexeme == className {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal("super")
		p.defineVariable(0)

		p.namedVariable(className, false)
		p.emitOp(bytecode.OpInherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(className, false)
	p.consume(lexer.TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.method()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(bytecode.OpPop) // class

	if cc.hasSuperclass {
		p.endScope()
	}
	p.class = cc.enclosing
}

func (p *parser) method() {
	p.consume(lexer.TokenIdentifier, "Expect method name.")
	name := p.previous.Lexeme
	nameConstant := p.identifierConstant(name)

	typ := funcTypeMethod
	if name == "init" {
		typ = funcTypeInitializer
	}
	p.function(typ, name)
	p.emitOpByte(bytecode.OpMethod, nameConstant)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(funcTypeFunction, p.previous.Lexeme)
	p.defineVariable(global)
}

func (p *parser) function(typ funcType, name string) {
	p.beginFunctionCompiler(p.fc, typ, name)
	p.beginScope()

	p.consume(lexer.TokenLeftParen, "Expect '(' after function name.")
	if !p.check(lexer.TokenRightParen) {
		for {
			p.fc.fn.Arity++
			if p.fc.fn.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after parameters.")
	p.consume(lexer.TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	fc := p.fc
	fn := p.endFunctionCompiler()

	idx := p.currentChunk().AddConstant(fn)
	p.emitOpByte(bytecode.OpClosure, byte(idx))
	for _, uv := range fc.upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		p.emitByte(isLocal)
		p.emitByte(uv.index)
	}
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(lexer.TokenEqual) {
		p.expression()
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *parser) statement() {
	switch {
	case p.match(lexer.TokenPrint):
		p.printStatement()
	case p.match(lexer.TokenIf):
		p.ifStatement()
	case p.match(lexer.TokenReturn):
		p.returnStatement()
	case p.match(lexer.TokenWhile):
		p.whileStatement()
	case p.match(lexer.TokenFor):
		p.forStatement()
	case p.match(lexer.TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	p.emitOp(bytecode.OpPrint)
}

func (p *parser) returnStatement() {
	if p.fc.typ == funcTypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(lexer.TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.fc.typ == funcTypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(bytecode.OpReturn)
}

func (p *parser) ifStatement() {
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()

	elseJump := p.emitJump(bytecode.OpJump)
	p.patchJump(thenJump)
	p.emitOp(bytecode.OpPop)

	if p.match(lexer.TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(bytecode.OpPop)
}

func (p *parser) forStatement() {
	p.beginScope()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'for'.")

	switch {
	case p.match(lexer.TokenSemicolon):
		// no initializer
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)
	exitJump := -1
	if !p.match(lexer.TokenSemicolon) {
		p.expression()
		p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(bytecode.OpJumpIfFalse)
		p.emitOp(bytecode.OpPop)
	}

	if !p.match(lexer.TokenRightParen) {
		bodyJump := p.emitJump(bytecode.OpJump)
		incrStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(bytecode.OpPop)
		p.consume(lexer.TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(bytecode.OpPop)
	}
	p.endScope()
}

func (p *parser) block() {
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after block.")
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(bytecode.OpPop)
}

// ---- expressions: Pratt parser -----------------------------------------

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * / %
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.TokenLeftParen:    {(*parser).grouping, (*parser).call, precCall},
		lexer.TokenLeftBracket:  {nil, (*parser).index, precCall},
		lexer.TokenDot:          {nil, (*parser).dot, precCall},
		lexer.TokenMinus:        {(*parser).unary, (*parser).binary, precTerm},
		lexer.TokenPlus:         {nil, (*parser).binary, precTerm},
		lexer.TokenSlash:        {nil, (*parser).binary, precFactor},
		lexer.TokenStar:         {nil, (*parser).binary, precFactor},
		lexer.TokenPercent:      {nil, (*parser).binary, precFactor},
		lexer.TokenBang:         {(*parser).unary, nil, precNone},
		lexer.TokenBangEqual:    {nil, (*parser).binary, precEquality},
		lexer.TokenEqualEqual:   {nil, (*parser).binary, precEquality},
		lexer.TokenGreater:      {nil, (*parser).binary, precComparison},
		lexer.TokenGreaterEqual: {nil, (*parser).binary, precComparison},
		lexer.TokenLess:         {nil, (*parser).binary, precComparison},
		lexer.TokenLessEqual:    {nil, (*parser).binary, precComparison},
		lexer.TokenIdentifier:   {(*parser).variableExpr, nil, precNone},
		lexer.TokenString:       {(*parser).stringLit, nil, precNone},
		lexer.TokenNumber:       {(*parser).number, nil, precNone},
		lexer.TokenAnd:          {nil, (*parser).and, precAnd},
		lexer.TokenOr:           {nil, (*parser).or, precOr},
		lexer.TokenFalse:        {(*parser).literal, nil, precNone},
		lexer.TokenTrue:         {(*parser).literal, nil, precNone},
		lexer.TokenNil:          {(*parser).literal, nil, precNone},
		lexer.TokenThis:         {(*parser).this, nil, precNone},
		lexer.TokenSuper:        {(*parser).super, nil, precNone},
	}
}

func (p *parser) getRule(t lexer.TokenType) parseRule { return rules[t] }

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := p.getRule(p.previous.Type).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= p.getRule(p.current.Type).precedence {
		p.advance()
		infix := p.getRule(p.previous.Type).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.error("Invalid assignment target.")
	}
}

func (p *parser) number(canAssign bool) {
	v, _ := strconv.ParseFloat(p.previous.Lexeme, 64)
	p.emitConstant(v)
}

func (p *parser) stringLit(canAssign bool) {
	raw := p.previous.Lexeme
	s := raw[1 : len(raw)-1] // strip surrounding quotes
	p.emitConstant(p.vm.CopyString(s))
}

func (p *parser) literal(canAssign bool) {
	switch p.previous.Type {
	case lexer.TokenFalse:
		p.emitOp(bytecode.OpFalse)
	case lexer.TokenTrue:
		p.emitOp(bytecode.OpTrue)
	case lexer.TokenNil:
		p.emitOp(bytecode.OpNil)
	}
}

func (p *parser) grouping(canAssign bool) {
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func (p *parser) unary(canAssign bool) {
	op := p.previous.Type
	p.parsePrecedence(precUnary)
	switch op {
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpNegate)
	case lexer.TokenBang:
		p.emitOp(bytecode.OpNot)
	}
}

func (p *parser) binary(canAssign bool) {
	op := p.previous.Type
	rule := p.getRule(op)
	p.parsePrecedence(rule.precedence + 1)

	switch op {
	case lexer.TokenPlus:
		p.emitOp(bytecode.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(bytecode.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(bytecode.OpDivide)
	case lexer.TokenPercent:
		p.emitOp(bytecode.OpModulo)
	case lexer.TokenBangEqual:
		p.emitOp(bytecode.OpEqual)
		p.emitOp(bytecode.OpNot)
	case lexer.TokenEqualEqual:
		p.emitOp(bytecode.OpEqual)
	case lexer.TokenGreater:
		p.emitOp(bytecode.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitOp(bytecode.OpLess)
		p.emitOp(bytecode.OpNot)
	case lexer.TokenLess:
		p.emitOp(bytecode.OpLess)
	case lexer.TokenLessEqual:
		p.emitOp(bytecode.OpGreater)
		p.emitOp(bytecode.OpNot)
	}
}

func (p *parser) and(canAssign bool) {
	endJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *parser) or(canAssign bool) {
	elseJump := p.emitJump(bytecode.OpJumpIfFalse)
	endJump := p.emitJump(bytecode.OpJump)
	p.patchJump(elseJump)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *parser) call(canAssign bool) {
	argCount := p.argumentList()
	p.emitOpByte(bytecode.OpCall, argCount)
}

func (p *parser) argumentList() byte {
	var count int
	if !p.check(lexer.TokenRightParen) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return byte(count)
}

// index compiles the computed-property extension `obj[nameExpr]`, which
// exercises OP_GET_PROPERTY_VAR / OP_SET_PROPERTY_VAR — the stack-supplied
// counterpart to the constant-pool-indexed `obj.name` form dot compiles.
func (p *parser) index(canAssign bool) {
	p.expression()
	p.consume(lexer.TokenRightBracket, "Expect ']' after computed property name.")

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOp(bytecode.OpSetPropertyVar)
		return
	}
	p.emitOp(bytecode.OpGetPropertyVar)
}

func (p *parser) dot(canAssign bool) {
	p.consume(lexer.TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOpByte(bytecode.OpSetProperty, name)
		return
	}
	p.emitOpByte(bytecode.OpGetProperty, name)
}

func (p *parser) variableExpr(canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

func (p *parser) variable(name string, canAssign bool) {
	p.namedVariable(name, canAssign)
}

func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	arg := resolveLocal(p.fc, name)
	if arg != -1 {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else if arg = resolveUpvalue(p.fc, name); arg != -1 {
		getOp, setOp = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

func (p *parser) this(canAssign bool) {
	if p.class == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	p.variableExpr(false)
}

func (p *parser) super(canAssign bool) {
	if p.class == nil {
		p.error("Can't use 'super' outside of a class.")
	} else if !p.class.hasSuperclass {
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(lexer.TokenDot, "Expect '.' after 'super'.")
	p.consume(lexer.TokenIdentifier, "Expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	p.namedVariable("super", false)
	p.emitOpByte(bytecode.OpGetSuper, name)
}
