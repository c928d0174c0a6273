package xpath

import (
	"errors"
	"fmt"
)

// ErrNoXPath is returned by Parse, Compile and EvaluateString when the
// input text is empty (the one-shot Evaluate reports it as an *Error of
// kind ErrorNoXPath): there is no expression to compile, distinct from a
// syntax error in a non-empty one.
var ErrNoXPath = errors.New("xpath: empty expression")

// TokenErrorKind discriminates tokenizer failures.
type TokenErrorKind int

const (
	MismatchedQuotes TokenErrorKind = iota
	UnableToCreateToken
	UnexpectedCharacter
)

// TokenError reports a lexical failure, with the byte offset into the
// source text where it was detected.
type TokenError struct {
	Kind   TokenErrorKind
	Offset int
}

func (e *TokenError) Error() string {
	switch e.Kind {
	case MismatchedQuotes:
		return fmt.Sprintf("xpath: mismatched quotes at offset %d", e.Offset)
	case UnableToCreateToken:
		return fmt.Sprintf("xpath: unable to create token at offset %d", e.Offset)
	case UnexpectedCharacter:
		return fmt.Sprintf("xpath: unexpected character at offset %d", e.Offset)
	default:
		return fmt.Sprintf("xpath: tokenizer error at offset %d", e.Offset)
	}
}

// ParseErrorKind discriminates parser failures.
type ParseErrorKind int

const (
	EmptyPredicate ParseErrorKind = iota
	ExtraUnparsedTokens
	RanOutOfInput
	RightHandSideExpressionMissing
	ArgumentMissingParse
	TrailingSlash
	UnexpectedToken
	WrappedTokenError
)

// ParseError reports a syntax failure. Token holds the offending token for
// UnexpectedToken/ExtraUnparsedTokens; Err holds the wrapped *TokenError for
// WrappedTokenError.
type ParseError struct {
	Kind  ParseErrorKind
	Token Token
	Err   error
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Error() string {
	switch e.Kind {
	case EmptyPredicate:
		return "xpath: empty predicate"
	case ExtraUnparsedTokens:
		return fmt.Sprintf("xpath: extra unparsed tokens starting at %s", e.Token)
	case RanOutOfInput:
		return "xpath: ran out of input"
	case RightHandSideExpressionMissing:
		return "xpath: right-hand side expression missing"
	case ArgumentMissingParse:
		return "xpath: function argument missing"
	case TrailingSlash:
		return "xpath: trailing slash"
	case UnexpectedToken:
		return fmt.Sprintf("xpath: unexpected token %s", e.Token)
	case WrappedTokenError:
		return fmt.Sprintf("xpath: %s", e.Err)
	default:
		return "xpath: parse error"
	}
}

// EvalErrorKind discriminates evaluation-time failures.
type EvalErrorKind int

const (
	UnknownVariable EvalErrorKind = iota
	UnknownFunction
	UnknownPrefix
	UnexpectedType
	NotANodeset
	NotABoolean
	NotANumber
	NotAString
	TooManyArguments
	NotEnoughArguments
	ArgumentMissing
	ArgumentNotANodeset
)

// EvalError reports a failure while evaluating a compiled expression.
type EvalError struct {
	Kind     EvalErrorKind
	Name     string // qname/prefix payload for Unknown{Variable,Function,Prefix}
	Expected string // UnexpectedType payload
	Got      string
	Min, Max int // TooManyArguments payload
	Given    int
	Required int // NotEnoughArguments payload
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case UnknownVariable:
		return fmt.Sprintf("xpath: unknown variable %q", e.Name)
	case UnknownFunction:
		return fmt.Sprintf("xpath: unknown function %q", e.Name)
	case UnknownPrefix:
		return fmt.Sprintf("xpath: unknown namespace prefix %q", e.Name)
	case UnexpectedType:
		return fmt.Sprintf("xpath: expected %s, got %s", e.Expected, e.Got)
	case NotANodeset:
		return "xpath: value is not a node-set"
	case NotABoolean:
		return "xpath: value is not a boolean"
	case NotANumber:
		return "xpath: value is not a number"
	case NotAString:
		return "xpath: value is not a string"
	case TooManyArguments:
		return fmt.Sprintf("xpath: too many arguments: min %d max %d given %d", e.Min, e.Max, e.Given)
	case NotEnoughArguments:
		return fmt.Sprintf("xpath: not enough arguments: required %d given %d", e.Required, e.Given)
	case ArgumentMissing:
		return "xpath: argument missing"
	case ArgumentNotANodeset:
		return "xpath: argument is not a node-set"
	default:
		return "xpath: evaluation error"
	}
}
