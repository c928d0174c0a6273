package xpath

import "github.com/gogo-agent/xpath/dom"

// Expr is the tagged-variant expression tree: every node type implements
// the single Evaluate operation as its own method, with no deeper class
// hierarchy of interpreter objects. Trees are immutable once built
// and never reference evaluation state — only EvaluationContext does.
type Expr interface {
	Evaluate(ctx *EvaluationContext) (Value, error)
}

// QName is a qualified name as written in the source, before prefix
// resolution: Prefix is "" for an unprefixed name.
type QName struct {
	Prefix string
	Local  string
}

func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// Literal is a constant string or number appearing verbatim in the
// expression text.
type Literal struct {
	Value Value
}

func (l *Literal) Evaluate(ctx *EvaluationContext) (Value, error) {
	return l.Value, nil
}

// VariableReference looks up a `$qname` in the static context's variable
// map, resolving its prefix through the namespace map first.
type VariableReference struct {
	Name QName
}

func (v *VariableReference) Evaluate(ctx *EvaluationContext) (Value, error) {
	uri, err := ctx.resolvePrefix(v.Name.Prefix)
	if err != nil {
		return Value{}, err
	}
	val, ok := ctx.Static.Variable(dom.ExpandedName{URI: uri, Local: v.Name.Local})
	if !ok {
		return Value{}, &EvalError{Kind: UnknownVariable, Name: v.Name.String()}
	}
	return val, nil
}

// FunctionCall invokes a registered function (core or user-extended) by
// QName with the given argument expressions, evaluated eagerly left to
// right (XPath has no lazy function arguments).
type FunctionCall struct {
	Name QName
	Args []Expr
}

func (f *FunctionCall) Evaluate(ctx *EvaluationContext) (Value, error) {
	uri, err := ctx.resolvePrefix(f.Name.Prefix)
	if err != nil {
		return Value{}, err
	}
	fn, ok := ctx.Static.Function(dom.ExpandedName{URI: uri, Local: f.Name.Local})
	if !ok {
		return Value{}, &EvalError{Kind: UnknownFunction, Name: f.Name.String()}
	}
	args := make([]Value, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Evaluate(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return fn(ctx, args)
}

// BinOpKind discriminates BinaryOp's operator.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
	OpUnion
)

// BinaryOp is an arithmetic, equality, relational, logical, or union
// operator applied to two subexpressions.
type BinaryOp struct {
	Kind        BinOpKind
	Left, Right Expr
}

func (b *BinaryOp) Evaluate(ctx *EvaluationContext) (Value, error) {
	return evaluateBinaryOp(ctx, b)
}

// Negation is unary minus.
type Negation struct {
	Inner Expr
}

func (n *Negation) Evaluate(ctx *EvaluationContext) (Value, error) {
	v, err := n.Inner.Evaluate(ctx)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(-v.Number()), nil
}

// Predicate wraps an expression evaluated with a per-candidate
// EvaluationContext (current node, position, size).
type Predicate struct {
	Expr Expr
}

// Step is one location step: an axis, a node test filtering the axis's
// candidates, and a chain of predicates applied in order.
type Step struct {
	Axis       AxisKind
	Test       NodeTest
	Predicates []*Predicate
}

// Path is a location path: Steps applied in order, starting from the
// document root (Absolute) or the context node.
type Path struct {
	Absolute bool
	Steps    []*Step
}

func (p *Path) Evaluate(ctx *EvaluationContext) (Value, error) {
	return evaluatePath(ctx, p)
}

// FilterExpression is a non-step primary (variable, literal, function
// call, or parenthesized expression) optionally followed by predicates and
// further path steps.
type FilterExpression struct {
	Primary    Expr
	Predicates []*Predicate
	Steps      []*Step // further relative steps chained with '/', if any
}

func (f *FilterExpression) Evaluate(ctx *EvaluationContext) (Value, error) {
	return evaluateFilterExpression(ctx, f)
}
