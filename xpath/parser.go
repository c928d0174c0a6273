package xpath

import "strconv"

// Parser is a recursive-descent parser over an already-tokenized,
// already-deabbreviated token stream, following the XPath grammar's
// precedence chain one level per method: or -> and -> equality ->
// relational -> additive -> multiplicative -> unary -> union -> path.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser wraps a deabbreviated token stream for parsing.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) consume(k Kind) (Token, error) {
	if !p.check(k) {
		tok := p.peek()
		if tok.Kind == TEOF {
			return Token{}, &ParseError{Kind: RanOutOfInput}
		}
		return Token{}, &ParseError{Kind: UnexpectedToken, Token: tok}
	}
	return p.advance(), nil
}

// wrapRHS converts a "nothing there to parse" failure from a subexpression
// parse into RightHandSideExpressionMissing — the caller already committed
// to a binary operator or unary minus, so a bare RanOutOfInput from the
// operand parse means specifically that the right-hand side is missing.
func wrapRHS(err error) error {
	if pe, ok := err.(*ParseError); ok && pe.Kind == RanOutOfInput {
		return &ParseError{Kind: RightHandSideExpressionMissing}
	}
	return err
}

// Parse tokenizes, deabbreviates, and parses text into an Expr. A
// genuinely empty input (no tokens besides the terminal EOF) returns
// ErrNoXPath rather than a parse error.
func Parse(text string) (Expr, error) {
	toks, tErr := TokenizeAll(text)
	if tErr != nil {
		return nil, &ParseError{Kind: WrappedTokenError, Err: tErr}
	}
	if len(toks) == 1 && toks[0].Kind == TEOF {
		return nil, ErrNoXPath
	}
	toks = Deabbreviate(toks)

	p := NewParser(toks)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(TEOF) {
		return nil, &ParseError{Kind: ExtraUnparsedTokens, Token: p.peek()}
	}
	return expr, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(TOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(TAnd) {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var kind BinOpKind
		switch {
		case p.check(TEq):
			kind = OpEq
		case p.check(TNeq):
			kind = OpNeq
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var kind BinOpKind
		switch {
		case p.check(TLt):
			kind = OpLt
		case p.check(TLte):
			kind = OpLte
		case p.check(TGt):
			kind = OpGt
		case p.check(TGte):
			kind = OpGte
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var kind BinOpKind
		switch {
		case p.check(TPlus):
			kind = OpAdd
		case p.check(TMinus):
			kind = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var kind BinOpKind
		switch {
		case p.check(TStar):
			kind = OpMul
		case p.check(TDiv):
			kind = OpDiv
		case p.check(TMod):
			kind = OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.check(TMinus) {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, wrapRHS(err)
		}
		return &Negation{Inner: inner}, nil
	}
	return p.parseUnion()
}

func (p *Parser) parseUnion() (Expr, error) {
	left, err := p.parsePathExpr()
	if err != nil {
		return nil, err
	}
	for p.check(TPipe) {
		p.advance()
		right, err := p.parsePathExpr()
		if err != nil {
			return nil, wrapRHS(err)
		}
		left = &BinaryOp{Kind: OpUnion, Left: left, Right: right}
	}
	return left, nil
}

// startsStep reports whether the parser is positioned at a location step:
// after deabbreviation every step begins with an axis-name token (either
// written explicitly or synthesized as "child") followed by '::' — a bare
// name or '*' never reaches this point unconsumed.
func (p *Parser) startsStep() bool {
	return p.check(TName) && p.peekAt(1).Kind == TColonColon
}

func (p *Parser) parsePathExpr() (Expr, error) {
	if p.check(TSlash) {
		p.advance()
		steps, err := p.parseStepSequence()
		if err != nil {
			return nil, err
		}
		return &Path{Absolute: true, Steps: steps}, nil
	}
	if p.startsStep() {
		steps, err := p.parseStepSequence()
		if err != nil {
			return nil, err
		}
		return &Path{Absolute: false, Steps: steps}, nil
	}

	primary, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	preds, err := p.parsePredicates()
	if err != nil {
		return nil, err
	}
	var steps []*Step
	if p.check(TSlash) {
		p.advance()
		steps, err = p.parseStepSequence()
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			return nil, &ParseError{Kind: TrailingSlash, Token: p.peek()}
		}
	}
	return &FilterExpression{Primary: primary, Predicates: preds, Steps: steps}, nil
}

func (p *Parser) parseStepSequence() ([]*Step, error) {
	var steps []*Step
	if !p.startsStep() {
		return steps, nil
	}
	for {
		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		if !p.check(TSlash) {
			break
		}
		p.advance()
		if !p.startsStep() {
			return nil, &ParseError{Kind: TrailingSlash, Token: p.peek()}
		}
	}
	return steps, nil
}

func (p *Parser) parseStep() (*Step, error) {
	axisTok, err := p.consume(TName)
	if err != nil {
		return nil, err
	}
	axis, ok := axisByName(axisTok.Text)
	if !ok {
		return nil, &ParseError{Kind: UnexpectedToken, Token: axisTok}
	}
	if _, err := p.consume(TColonColon); err != nil {
		return nil, err
	}
	test, err := p.parseNodeTest()
	if err != nil {
		return nil, err
	}
	preds, err := p.parsePredicates()
	if err != nil {
		return nil, err
	}
	return &Step{Axis: axis, Test: test, Predicates: preds}, nil
}

func (p *Parser) parseNodeTest() (NodeTest, error) {
	if p.check(TStar) {
		p.advance()
		return NodeTest{Kind: TestAnyLocal}, nil
	}

	nameTok, err := p.consume(TName)
	if err != nil {
		return NodeTest{}, err
	}

	if p.check(TLParen) {
		p.advance()
		switch nameTok.Text {
		case "node":
			if _, err := p.consume(TRParen); err != nil {
				return NodeTest{}, err
			}
			return NodeTest{Kind: TestNode}, nil
		case "text":
			if _, err := p.consume(TRParen); err != nil {
				return NodeTest{}, err
			}
			return NodeTest{Kind: TestText}, nil
		case "comment":
			if _, err := p.consume(TRParen); err != nil {
				return NodeTest{}, err
			}
			return NodeTest{Kind: TestComment}, nil
		case "processing-instruction":
			if p.check(TRParen) {
				p.advance()
				return NodeTest{Kind: TestProcessingInstruction}, nil
			}
			lit, err := p.consume(TString)
			if err != nil {
				return NodeTest{}, err
			}
			if _, err := p.consume(TRParen); err != nil {
				return NodeTest{}, err
			}
			return NodeTest{Kind: TestProcessingInstruction, HasTarget: true, Target: lit.Text}, nil
		default:
			return NodeTest{}, &ParseError{Kind: UnexpectedToken, Token: nameTok}
		}
	}

	if p.check(TColon) {
		p.advance()
		if p.check(TStar) {
			p.advance()
			return NodeTest{Kind: TestNamespaceWildcard, Prefix: nameTok.Text}, nil
		}
		localTok, err := p.consume(TName)
		if err != nil {
			return NodeTest{}, err
		}
		return NodeTest{Kind: TestName, Prefix: nameTok.Text, Local: localTok.Text}, nil
	}

	return NodeTest{Kind: TestName, Local: nameTok.Text}, nil
}

func (p *Parser) parsePredicates() ([]*Predicate, error) {
	var preds []*Predicate
	for p.check(TLBracket) {
		p.advance()
		if p.check(TRBracket) {
			return nil, &ParseError{Kind: EmptyPredicate, Token: p.peek()}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TRBracket); err != nil {
			return nil, err
		}
		preds = append(preds, &Predicate{Expr: e})
	}
	return preds, nil
}

func (p *Parser) parsePrimaryExpr() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TString:
		p.advance()
		return &Literal{Value: StringValue(tok.Text)}, nil

	case TNumber:
		p.advance()
		n, _ := strconv.ParseFloat(tok.Text, 64)
		return &Literal{Value: NumberValue(n)}, nil

	case TDollar:
		p.advance()
		nameTok, err := p.consume(TName)
		if err != nil {
			return nil, err
		}
		q := QName{Local: nameTok.Text}
		if p.check(TColon) {
			p.advance()
			localTok, err := p.consume(TName)
			if err != nil {
				return nil, err
			}
			q = QName{Prefix: nameTok.Text, Local: localTok.Text}
		}
		return &VariableReference{Name: q}, nil

	case TLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TName:
		p.advance()
		prefix, local := "", tok.Text
		if p.check(TColon) {
			p.advance()
			localTok, err := p.consume(TName)
			if err != nil {
				return nil, err
			}
			prefix, local = local, localTok.Text
		}
		if _, err := p.consume(TLParen); err != nil {
			return nil, err
		}
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Name: QName{Prefix: prefix, Local: local}, Args: args}, nil

	default:
		if tok.Kind == TEOF {
			return nil, &ParseError{Kind: RanOutOfInput}
		}
		return nil, &ParseError{Kind: UnexpectedToken, Token: tok}
	}
}

func (p *Parser) parseArgList() ([]Expr, error) {
	var args []Expr
	if p.check(TRParen) {
		p.advance()
		return args, nil
	}
	for {
		if p.check(TComma) || p.check(TRParen) {
			return nil, &ParseError{Kind: ArgumentMissingParse, Token: p.peek()}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(TComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.consume(TRParen); err != nil {
		return nil, err
	}
	return args, nil
}
