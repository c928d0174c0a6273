package xpath

// TokenizeAll drains a Tokenizer into a slice, stopping at (and including)
// the terminal TEOF token. Kept separate from Deabbreviate so tests can
// exercise the raw token stream before abbreviation expansion.
func TokenizeAll(input string) ([]Token, *TokenError) {
	tz := NewTokenizer(input)
	var out []Token
	for {
		tok, err := tz.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == TEOF {
			return out, nil
		}
	}
}

func isNodeTypeKeyword(name string) bool {
	switch name {
	case "node", "text", "comment", "processing-instruction":
		return true
	default:
		return false
	}
}

// Deabbreviate rewrites a token stream so the parser never has to special-
// case the abbreviated forms: `//` becomes `/descendant-or-self::node()/`,
// `@name` becomes `attribute::name`, `.` becomes `self::node()`, `..`
// becomes `parent::node()`, and a bare name or `*` used as a step (anywhere
// an axis was not already given, and that isn't a function call or the
// second half of a prefixed name) is prefixed with `child::`. The rewrite
// is a single left-to-right pass keyed on the kind of the most recently
// emitted output token, on whether the previous input token ends an
// operand (which makes a `*` the multiply operator), and on up to three
// tokens of input lookahead (to see past a prefixed function name) — kept separate
// from the parser so the parser's grammar matches the canonical XPath
// grammar one-to-one.
func Deabbreviate(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)+8)
	lastOut := func() Kind {
		if len(out) == 0 {
			return TEOF // sentinel: nothing emitted yet, behaves like "start"
		}
		return out[len(out)-1].Kind
	}
	synth := func(k Kind, text string, offset int) {
		out = append(out, Token{Kind: k, Text: text, Offset: offset})
	}

	// endsOperand mirrors the tokenizer's operandEnd rule over the input
	// stream: a `*` right after a token that ends an operand is the
	// multiply operator, not a name-test wildcard, and is left bare.
	endsOperand := false

	for i, tok := range tokens {
		multiply := tok.Kind == TStar && endsOperand
		switch tok.Kind {
		case TName, TString, TNumber, TRParen, TRBracket, TDot, TDotDot:
			endsOperand = true
		case TStar:
			endsOperand = !multiply
		default:
			endsOperand = false
		}

		switch tok.Kind {
		case TSlashSlash:
			synth(TSlash, "/", tok.Offset)
			synth(TName, "descendant-or-self", tok.Offset)
			synth(TColonColon, "::", tok.Offset)
			synth(TName, "node", tok.Offset)
			synth(TLParen, "(", tok.Offset)
			synth(TRParen, ")", tok.Offset)
			synth(TSlash, "/", tok.Offset)

		case TDot:
			synth(TName, "self", tok.Offset)
			synth(TColonColon, "::", tok.Offset)
			synth(TName, "node", tok.Offset)
			synth(TLParen, "(", tok.Offset)
			synth(TRParen, ")", tok.Offset)

		case TDotDot:
			synth(TName, "parent", tok.Offset)
			synth(TColonColon, "::", tok.Offset)
			synth(TName, "node", tok.Offset)
			synth(TLParen, "(", tok.Offset)
			synth(TRParen, ")", tok.Offset)

		case TAt:
			synth(TName, "attribute", tok.Offset)
			synth(TColonColon, "::", tok.Offset)

		case TName, TStar:
			at := func(k int) Kind {
				j := i + k
				if j < 0 || j >= len(tokens) {
					return TEOF
				}
				return tokens[j].Kind
			}
			next := at(1)
			prev := lastOut()

			// A FunctionCall's FunctionName may be a prefixed QName, so the
			// "followed by (" test has to look past an optional ":local"
			// pair rather than only at the immediately next token.
			isFuncCall := false
			if tok.Kind == TName && !isNodeTypeKeyword(tok.Text) {
				if next == TLParen {
					isFuncCall = true
				} else if next == TColon && at(2) == TName && at(3) == TLParen {
					isFuncCall = true
				}
			}

			switch {
			case multiply:
				out = append(out, tok) // multiply operator, not a step
			case tok.Kind == TName && next == TColonColon:
				out = append(out, tok) // axis specifier, leave for the parser
			case prev == TColonColon || prev == TDollar || prev == TColon:
				out = append(out, tok) // already axis-qualified, or a qname's local part, or a variable name
			case isFuncCall:
				out = append(out, tok) // function call, possibly namespace-qualified
			default:
				synth(TName, "child", tok.Offset)
				synth(TColonColon, "::", tok.Offset)
				out = append(out, tok)
			}

		default:
			out = append(out, tok)
		}
	}
	return out
}
