package xpath

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/gogo-agent/xpath/dom"
)

// Expression is a compiled, reusable XPath expression, analogous to DOM
// Level 3's XPathExpression: parse once, evaluate many times against
// different context nodes.
type Expression struct {
	source string
	expr   Expr
}

// Source returns the text this Expression was compiled from.
func (e *Expression) Source() string { return e.source }

// Evaluate runs the compiled expression against an already-built
// EvaluationContext.
func (e *Expression) Evaluate(ctx *EvaluationContext) (Value, error) {
	return e.expr.Evaluate(ctx)
}

// exprCache is a process-wide cache of compiled expressions keyed by their
// source text, the same groupcache/lru-backed pattern as the teacher's
// exprCache/getCachedExpression/setCachedExpression trio.
var (
	exprCache   *lru.Cache
	exprCacheMu sync.RWMutex
)

func init() {
	exprCache = lru.New(1000)
}

func getCachedExpression(source string) (*Expression, error, bool) {
	exprCacheMu.RLock()
	defer exprCacheMu.RUnlock()
	v, ok := exprCache.Get(source)
	if !ok {
		return nil, nil, false
	}
	switch c := v.(type) {
	case *Expression:
		return c, nil, true
	case error:
		return nil, c, true
	default:
		return nil, nil, false
	}
}

func setCachedExpression(source string, expr *Expression, err error) {
	exprCacheMu.Lock()
	defer exprCacheMu.Unlock()
	if err != nil {
		exprCache.Add(source, err)
		return
	}
	exprCache.Add(source, expr)
}

// Compile parses text into a reusable Expression, consulting the
// process-wide compiled-expression cache first. An empty text returns
// ErrNoXPath; a syntax error returns a *ParseError (ErrNoXPath and
// *ParseError are themselves cached, so a repeatedly-mistyped expression
// doesn't re-tokenize on every call).
func Compile(text string) (*Expression, error) {
	if cached, cachedErr, ok := getCachedExpression(text); ok {
		return cached, cachedErr
	}

	expr, err := Parse(text)
	if err != nil {
		setCachedExpression(text, nil, err)
		return nil, err
	}
	out := &Expression{source: text, expr: expr}
	setCachedExpression(text, out, nil)
	return out, nil
}

// ContextOption customizes the Context built by EvaluateString.
type ContextOption func(*Context)

// WithNamespace binds prefix to uri in the Context EvaluateString builds.
func WithNamespace(prefix, uri string) ContextOption {
	return func(c *Context) { c.SetNamespace(prefix, uri) }
}

// WithVariable binds qname (optionally "prefix:local", prefix already bound
// via WithNamespace) to value in the Context EvaluateString builds.
func WithVariable(qname string, value Value) ContextOption {
	return func(c *Context) { _ = c.SetVariable(qname, value) }
}

// EvaluateString is the one-shot convenience entry point: compile text
// (via the same cache Compile uses) and evaluate it with contextNode as
// both the starting node for relative paths and the root for absolute
// ones' document, applying any namespace/variable bindings from opts.
func EvaluateString(contextNode dom.Node, text string, opts ...ContextOption) (Value, error) {
	expr, err := Compile(text)
	if err != nil {
		return Value{}, err
	}
	root := contextNode
	for root.Parent() != nil {
		root = root.Parent()
	}
	c := NewContext(root)
	for _, opt := range opts {
		opt(c)
	}
	return expr.Evaluate(c.EvaluationContextFor(contextNode))
}

// ErrorKind discriminates the one-shot façade's three failure modes.
type ErrorKind int

const (
	ErrorParsing ErrorKind = iota
	ErrorNoXPath
	ErrorExecuting
)

// Error is the tagged failure of the one-shot Evaluate entry point:
// Parsing(parseError) / NoXPath / Executing(evalError), the same three
// variants as the facade's quick_error Error enum. ParseErr/EvalErr hold
// the underlying cause for the Parsing/Executing cases respectively.
type Error struct {
	Kind     ErrorKind
	ParseErr *ParseError
	EvalErr  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorParsing:
		return fmt.Sprintf("xpath: unable to parse XPath: %s", e.ParseErr)
	case ErrorNoXPath:
		return "xpath: XPath was empty"
	case ErrorExecuting:
		return fmt.Sprintf("xpath: unable to execute XPath: %s", e.EvalErr)
	default:
		return "xpath: error"
	}
}

// Unwrap exposes the wrapped ParseError/EvalError so callers can still
// errors.As into the concrete cause without switching on Kind first.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case ErrorParsing:
		return e.ParseErr
	case ErrorExecuting:
		return e.EvalErr
	default:
		return nil
	}
}

// asFacadeError tags a raw error from Compile/Expression.Evaluate into the
// façade's Parsing/NoXPath/Executing variant.
func asFacadeError(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoXPath) {
		return &Error{Kind: ErrorNoXPath}
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return &Error{Kind: ErrorParsing, ParseErr: parseErr}
	}
	return &Error{Kind: ErrorExecuting, EvalErr: err}
}

// Evaluate is the top-level one-shot helper: compile text and evaluate it
// against document with the default context (document root as the current
// node, no variables, no namespaces, core functions only), the same
// default evaluate_xpath itself uses. Errors come back tagged by Kind
// instead of as an opaque error, so callers can switch on
// ErrorParsing/ErrorNoXPath/ErrorExecuting the way the facade's Error enum
// lets its callers match on Parsing/NoXPath/Executing.
func Evaluate(document *dom.Root, text string) (Value, *Error) {
	expr, err := Compile(text)
	if err != nil {
		return Value{}, asFacadeError(err)
	}
	c := NewContext(document)
	val, err := expr.Evaluate(c.EvaluationContextFor(document))
	if err != nil {
		return Value{}, asFacadeError(err)
	}
	return val, nil
}
