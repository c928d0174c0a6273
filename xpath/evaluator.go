package xpath

import (
	"fmt"
	"math"

	"github.com/gogo-agent/xpath/dom"
)

// evalStep runs one location step from a single origin node: the axis in
// its natural order, filtered by the node test, then by each predicate in
// order (4.7's per-step state machine). The returned slice stays in axis
// order — callers union and re-sort to document order once a step is
// fully resolved across all of its origins, never before.
func evalStep(ctx *EvaluationContext, origin dom.Node, step *Step) ([]dom.Node, error) {
	candidates := axisCandidates(step.Axis, origin)
	filtered := make([]dom.Node, 0, len(candidates))
	for _, c := range candidates {
		ok, err := step.Test.Matches(ctx, step.Axis, c)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, c)
		}
	}
	return filterByPredicates(ctx, filtered, step.Predicates)
}

// filterByPredicates applies each predicate in turn, recomputing proximity
// position and size against the sequence surviving the previous predicate
// (4.7's "Predicate evaluation").
func filterByPredicates(ctx *EvaluationContext, nodes []dom.Node, predicates []*Predicate) ([]dom.Node, error) {
	for _, pred := range predicates {
		size := len(nodes)
		next := make([]dom.Node, 0, size)
		for i, c := range nodes {
			candCtx := ctx.withCandidate(c, i+1, size)
			v, err := pred.Expr.Evaluate(candCtx)
			if err != nil {
				return nil, err
			}
			var survive bool
			if v.Kind() == KindNumber {
				survive = v.Number() == float64(i+1)
			} else {
				survive = v.Boolean()
			}
			if survive {
				next = append(next, c)
			}
		}
		nodes = next
	}
	return nodes, nil
}

// walkSteps threads a node-set through a chain of location steps, document
// -ordering and de-duplicating after every step per 4.7.
func walkSteps(ctx *EvaluationContext, start []dom.Node, steps []*Step) ([]dom.Node, error) {
	current := start
	for _, step := range steps {
		var collected []dom.Node
		for _, origin := range current {
			results, err := evalStep(ctx, origin, step)
			if err != nil {
				return nil, err
			}
			collected = append(collected, results...)
		}
		current = NewNodeSet(collected).Nodes()
	}
	return current, nil
}

func evaluatePath(ctx *EvaluationContext, p *Path) (Value, error) {
	var start []dom.Node
	if p.Absolute {
		start = []dom.Node{ctx.Static.Root()}
	} else {
		start = []dom.Node{ctx.Node}
	}
	result, err := walkSteps(ctx, start, p.Steps)
	if err != nil {
		return Value{}, err
	}
	return NodesetValue(NewNodeSet(result)), nil
}

func evaluateFilterExpression(ctx *EvaluationContext, f *FilterExpression) (Value, error) {
	v, err := f.Primary.Evaluate(ctx)
	if err != nil {
		return Value{}, err
	}
	if len(f.Predicates) == 0 && len(f.Steps) == 0 {
		return v, nil
	}
	ns, err := v.Nodeset()
	if err != nil {
		return Value{}, err
	}
	current, err := filterByPredicates(ctx, ns.Nodes(), f.Predicates)
	if err != nil {
		return Value{}, err
	}
	current = NewNodeSet(current).Nodes()
	current, err = walkSteps(ctx, current, f.Steps)
	if err != nil {
		return Value{}, err
	}
	return NodesetValue(NewNodeSet(current)), nil
}

func evaluateBinaryOp(ctx *EvaluationContext, b *BinaryOp) (Value, error) {
	switch b.Kind {
	case OpAnd:
		lv, err := b.Left.Evaluate(ctx)
		if err != nil {
			return Value{}, err
		}
		if !lv.Boolean() {
			return BooleanValue(false), nil
		}
		rv, err := b.Right.Evaluate(ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanValue(rv.Boolean()), nil

	case OpOr:
		lv, err := b.Left.Evaluate(ctx)
		if err != nil {
			return Value{}, err
		}
		if lv.Boolean() {
			return BooleanValue(true), nil
		}
		rv, err := b.Right.Evaluate(ctx)
		if err != nil {
			return Value{}, err
		}
		return BooleanValue(rv.Boolean()), nil
	}

	lv, err := b.Left.Evaluate(ctx)
	if err != nil {
		return Value{}, err
	}
	rv, err := b.Right.Evaluate(ctx)
	if err != nil {
		return Value{}, err
	}

	switch b.Kind {
	case OpUnion:
		lns, err := lv.Nodeset()
		if err != nil {
			return Value{}, err
		}
		rns, err := rv.Nodeset()
		if err != nil {
			return Value{}, err
		}
		return NodesetValue(lns.Union(rns)), nil
	case OpAdd:
		return NumberValue(lv.Number() + rv.Number()), nil
	case OpSub:
		return NumberValue(lv.Number() - rv.Number()), nil
	case OpMul:
		return NumberValue(lv.Number() * rv.Number()), nil
	case OpDiv:
		return NumberValue(lv.Number() / rv.Number()), nil
	case OpMod:
		return NumberValue(math.Mod(lv.Number(), rv.Number())), nil
	case OpEq:
		return BooleanValue(valuesEqual(lv, rv)), nil
	case OpNeq:
		return BooleanValue(!valuesEqual(lv, rv)), nil
	case OpLt, OpLte, OpGt, OpGte:
		return BooleanValue(relationalCompare(lv, rv, b.Kind)), nil
	default:
		return Value{}, fmt.Errorf("xpath: unhandled operator %d", b.Kind)
	}
}

// valuesEqual implements '='/'!=' (4.7): when either operand is a
// node-set, true iff some pair (one per side, or the node-set against the
// single scalar) compares equal after the appropriate coercion; otherwise
// boolean coercion wins over number coercion wins over string comparison.
func valuesEqual(a, b Value) bool {
	aNS, bNS := a.Kind() == KindNodeset, b.Kind() == KindNodeset
	switch {
	case aNS && bNS:
		for _, an := range a.nodeset.Nodes() {
			as := an.StringValue()
			for _, bn := range b.nodeset.Nodes() {
				if as == bn.StringValue() {
					return true
				}
			}
		}
		return false
	case aNS:
		return nodesetScalarEqual(a, b)
	case bNS:
		return nodesetScalarEqual(b, a)
	default:
		return scalarEqual(a, b)
	}
}

func nodesetScalarEqual(ns, scalar Value) bool {
	switch scalar.Kind() {
	case KindBoolean:
		return ns.Boolean() == scalar.Boolean()
	case KindNumber:
		want := scalar.Number()
		for _, n := range ns.nodeset.Nodes() {
			if parseXPathNumber(n.StringValue()) == want {
				return true
			}
		}
		return false
	default:
		want := scalar.String()
		for _, n := range ns.nodeset.Nodes() {
			if n.StringValue() == want {
				return true
			}
		}
		return false
	}
}

func scalarEqual(a, b Value) bool {
	if a.Kind() == KindBoolean || b.Kind() == KindBoolean {
		return a.Boolean() == b.Boolean()
	}
	if a.Kind() == KindNumber || b.Kind() == KindNumber {
		return a.Number() == b.Number()
	}
	return a.String() == b.String()
}

// relationalCompare implements '<','<=','>','>=': always numeric, with the
// same node-set existential expansion as equality.
func relationalCompare(a, b Value, kind BinOpKind) bool {
	cmp := func(x, y float64) bool {
		switch kind {
		case OpLt:
			return x < y
		case OpLte:
			return x <= y
		case OpGt:
			return x > y
		case OpGte:
			return x >= y
		default:
			return false
		}
	}
	aNS, bNS := a.Kind() == KindNodeset, b.Kind() == KindNodeset
	switch {
	case aNS && bNS:
		for _, an := range a.nodeset.Nodes() {
			x := parseXPathNumber(an.StringValue())
			for _, bn := range b.nodeset.Nodes() {
				if cmp(x, parseXPathNumber(bn.StringValue())) {
					return true
				}
			}
		}
		return false
	case aNS:
		y := b.Number()
		for _, an := range a.nodeset.Nodes() {
			if cmp(parseXPathNumber(an.StringValue()), y) {
				return true
			}
		}
		return false
	case bNS:
		x := a.Number()
		for _, bn := range b.nodeset.Nodes() {
			if cmp(x, parseXPathNumber(bn.StringValue())) {
				return true
			}
		}
		return false
	default:
		return cmp(a.Number(), b.Number())
	}
}
