package vm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/evanlindqvist/golox/debug"
	e "github.com/evanlindqvist/golox/errors"
	"github.com/evanlindqvist/golox/utils"
)

// Parser is a single-pass Pratt parser: it owns a Scanner and emits
// bytecode directly into a Chunk as it recognizes each expression — no
// AST is ever materialized.
type Parser struct {
	*Scanner
	chunk      *Chunk
	prev, curr Token

	errors *multierror.Error
	// panicMode suppresses further diagnostics once one has been
	// reported. This grammar has no statement boundaries to resync at,
	// so panic mode simply persists to the end of input.
	panicMode bool
}

func NewParser() *Parser { return &Parser{} }

// Compile parses one expression followed by EOF, emitting bytecode into
// chunk, then emits OP_RETURN. It returns true iff no diagnostic was
// reported.
func (p *Parser) Compile(source string, chunk *Chunk) bool {
	p.chunk = chunk
	p.Scanner = NewScanner(source)

	p.advance()
	p.expr()
	p.consume(TEOF, "Expect end of expression.")
	p.endCompiler()
	return !p.HadError()
}

// Err returns the accumulated compile diagnostics, or nil if there were none.
func (p *Parser) Err() error { return p.errors.ErrorOrNil() }

func (p *Parser) HadError() bool { return p.errors != nil }

/* Expression handlers */

func (p *Parser) num() {
	val, err := strconv.ParseFloat(p.prev.String(), 64)
	if err != nil {
		p.errors = multierror.Append(p.errors, err)
	}
	p.emitConst(VNum(val))
}

func (p *Parser) grouping() {
	p.expr()
	p.consume(TRParen, "Expect ')' after expression.")
}

func (p *Parser) lit() {
	switch p.prev.Type {
	case TFalse:
		p.emitBytes(byte(OpFalse))
	case TNil:
		p.emitBytes(byte(OpNil))
	case TTrue:
		p.emitBytes(byte(OpTrue))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) str() {
	runes := p.prev.Runes
	// Strip the surrounding quotes the scanner left on the lexeme.
	unquoted := string(runes[1 : len(runes)-1])
	p.emitConst(NewVStr(unquoted))
}

func (p *Parser) unary() {
	op := p.prev.Type
	p.parsePrec(PrecUnary)
	switch op {
	case TBang:
		p.emitBytes(byte(OpNot))
	case TMinus:
		p.emitBytes(byte(OpNeg))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) binary() {
	op := p.prev.Type
	rule := parseRules[op]

	// Left-associative: require strictly higher precedence on the RHS.
	p.parsePrec(rule.Prec + 1)

	switch op {
	case TBangEqual:
		p.emitBytes(byte(OpEqual), byte(OpNot))
	case TEqualEqual:
		p.emitBytes(byte(OpEqual))
	case TGreater:
		p.emitBytes(byte(OpGreater))
	case TGreaterEqual:
		p.emitBytes(byte(OpLess), byte(OpNot))
	case TLess:
		p.emitBytes(byte(OpLess))
	case TLessEqual:
		p.emitBytes(byte(OpGreater), byte(OpNot))
	case TPlus:
		p.emitBytes(byte(OpAdd))
	case TMinus:
		p.emitBytes(byte(OpSub))
	case TStar:
		p.emitBytes(byte(OpMul))
	case TSlash:
		p.emitBytes(byte(OpDiv))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) expr() { p.parsePrec(PrecAssign) }

/* Pratt table */

type ParseFn = func(p *Parser)

type ParseRule struct {
	Prefix, Infix ParseFn
	Prec
}

var parseRules []ParseRule

func init() {
	parseRules = []ParseRule{
		TLParen:       {(*Parser).grouping, nil, PrecNone},
		TMinus:        {(*Parser).unary, (*Parser).binary, PrecTerm},
		TPlus:         {nil, (*Parser).binary, PrecTerm},
		TSlash:        {nil, (*Parser).binary, PrecFactor},
		TStar:         {nil, (*Parser).binary, PrecFactor},
		TBang:         {(*Parser).unary, nil, PrecNone},
		TBangEqual:    {nil, (*Parser).binary, PrecEqual},
		TEqualEqual:   {nil, (*Parser).binary, PrecEqual},
		TGreater:      {nil, (*Parser).binary, PrecComp},
		TGreaterEqual: {nil, (*Parser).binary, PrecComp},
		TLess:         {nil, (*Parser).binary, PrecComp},
		TLessEqual:    {nil, (*Parser).binary, PrecComp},
		TStr:          {(*Parser).str, nil, PrecNone},
		TNum:          {(*Parser).num, nil, PrecNone},
		TFalse:        {(*Parser).lit, nil, PrecNone},
		TNil:          {(*Parser).lit, nil, PrecNone},
		TTrue:         {(*Parser).lit, nil, PrecNone},
		TEOF:          {},
	}
}

// parsePrec is the Pratt driver: parse a prefix expression, then fold in
// as many infix operators as bind at least as tightly as prec.
func (p *Parser) parsePrec(prec Prec) {
	p.advance()

	prefix := parseRules[p.prev.Type].Prefix
	if prefix == nil {
		p.Error("Expect expression.")
		return
	}
	prefix(p)

	for prec <= parseRules[p.curr.Type].Prec {
		p.advance()
		infix := parseRules[p.prev.Type].Infix
		if infix == nil {
			panic(e.Unreachable)
		}
		infix(p)
	}
}

/* Parsing helpers */

func (p *Parser) check(ty TokenType) bool { return p.curr.Type == ty }

func (p *Parser) advance() {
	p.prev = p.curr
	for {
		p.curr = p.Scanner.ScanToken()
		if p.curr.Type != TErr {
			return
		}
		// The scanner's lexeme already IS the message; ErrorAt
		// special-cases TErr to skip the "at '...'" clause.
		p.ErrorAt(p.curr, p.curr.String())
	}
}

func (p *Parser) match(ty TokenType) (matched bool) {
	if !p.check(ty) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(ty TokenType, errorMsg string) *Token {
	if !p.check(ty) {
		p.ErrorAtCurr(errorMsg)
		return nil
	}
	p.advance()
	return utils.Box(p.prev)
}

/* Emission helpers */

func (p *Parser) emitBytes(bs ...byte) {
	for _, b := range bs {
		p.chunk.Write(b, p.prev.Line)
	}
}

func (p *Parser) emitConst(val Value) { p.emitBytes(byte(OpConst), p.makeConst(val)) }

// makeConst enforces the single-byte CONSTANT operand: past 256
// constants, it reports the overflow and substitutes operand 0 rather
// than panicking (compile() must never throw on attacker-controlled input).
func (p *Parser) makeConst(val Value) byte {
	idx := p.chunk.AddConst(val)
	if idx > math.MaxUint8 {
		p.Error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) endCompiler() {
	p.emitBytes(byte(OpReturn))
	if debug.DEBUG && !p.HadError() {
		logrus.Debugln(p.chunk.Disassemble("code"))
	}
}

/* Precedence */

type Prec int

const (
	PrecNone   Prec = iota
	PrecAssign      // =
	PrecOr          // or
	PrecAnd         // and
	PrecEqual       // == !=
	PrecComp        // < > <= >=
	PrecTerm        // + -
	PrecFactor      // * /
	PrecUnary       // ! -
	PrecCall        // . ()
	PrecPrimary
)

func (p Prec) String() string {
	switch p {
	case PrecNone:
		return "PrecNone"
	case PrecAssign:
		return "PrecAssign"
	case PrecOr:
		return "PrecOr"
	case PrecAnd:
		return "PrecAnd"
	case PrecEqual:
		return "PrecEqual"
	case PrecComp:
		return "PrecComp"
	case PrecTerm:
		return "PrecTerm"
	case PrecFactor:
		return "PrecFactor"
	case PrecUnary:
		return "PrecUnary"
	case PrecCall:
		return "PrecCall"
	case PrecPrimary:
		return "PrecPrimary"
	default:
		return "Prec(?)"
	}
}

/* Error handling */

// ErrorAt reports a diagnostic at tk, unless panic mode is already
// suppressing them. The first reported error flips panicMode; since
// this grammar has no statement boundary to resync at, panic mode then
// persists until Compile returns.
func (p *Parser) ErrorAt(tk Token, reason string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	var where string
	switch tk.Type {
	case TEOF:
		where = " at end"
	case TErr:
		// The lexeme already IS the message; don't wrap it again.
		where = ""
	default:
		where = fmt.Sprintf(" at '%s'", tk)
	}

	err := &e.CompilationError{Line: tk.Line, Reason: fmt.Sprintf("Error%s: %s", where, reason)}
	p.errors = multierror.Append(p.errors, err)
}

func (p *Parser) Error(reason string)       { p.ErrorAt(p.prev, reason) }
func (p *Parser) ErrorAtCurr(reason string) { p.ErrorAt(p.curr, reason) }
