package xpath

import (
	"math"
	"strings"

	"github.com/gogo-agent/xpath/dom"
)

// arity wraps fn with the registry's arity check, signalling
// NotEnoughArguments / TooManyArguments before fn ever runs. max < 0 means
// unbounded (concat).
func arity(min, max int, fn func(ctx *EvaluationContext, args []Value) (Value, error)) Function {
	return func(ctx *EvaluationContext, args []Value) (Value, error) {
		if len(args) < min {
			return Value{}, &EvalError{Kind: NotEnoughArguments, Required: min, Given: len(args)}
		}
		if max >= 0 && len(args) > max {
			return Value{}, &EvalError{Kind: TooManyArguments, Min: min, Max: max, Given: len(args)}
		}
		return fn(ctx, args)
	}
}

func core(name string) dom.ExpandedName { return dom.ExpandedName{Local: name} }

// registerCoreFunctions installs the XPath 1.0 core function library
// (4.6) into a fresh Context. Callers may shadow any of these with
// SetFunction.
func registerCoreFunctions(c *Context) {
	c.functions[core("last")] = arity(0, 0, fnLast)
	c.functions[core("position")] = arity(0, 0, fnPosition)
	c.functions[core("count")] = arity(1, 1, fnCount)
	c.functions[core("id")] = arity(1, 1, fnID)
	c.functions[core("local-name")] = arity(0, 1, fnLocalName)
	c.functions[core("namespace-uri")] = arity(0, 1, fnNamespaceURI)
	c.functions[core("name")] = arity(0, 1, fnName)

	c.functions[core("string")] = arity(0, 1, fnString)
	c.functions[core("concat")] = arity(2, -1, fnConcat)
	c.functions[core("starts-with")] = arity(2, 2, fnStartsWith)
	c.functions[core("contains")] = arity(2, 2, fnContains)
	c.functions[core("substring-before")] = arity(2, 2, fnSubstringBefore)
	c.functions[core("substring-after")] = arity(2, 2, fnSubstringAfter)
	c.functions[core("substring")] = arity(2, 3, fnSubstring)
	c.functions[core("string-length")] = arity(0, 1, fnStringLength)
	c.functions[core("normalize-space")] = arity(0, 1, fnNormalizeSpace)
	c.functions[core("translate")] = arity(3, 3, fnTranslate)

	c.functions[core("boolean")] = arity(1, 1, fnBoolean)
	c.functions[core("not")] = arity(1, 1, fnNot)
	c.functions[core("true")] = arity(0, 0, fnTrue)
	c.functions[core("false")] = arity(0, 0, fnFalse)
	c.functions[core("lang")] = arity(1, 1, fnLang)

	c.functions[core("number")] = arity(0, 1, fnNumber)
	c.functions[core("sum")] = arity(1, 1, fnSum)
	c.functions[core("floor")] = arity(1, 1, fnFloor)
	c.functions[core("ceiling")] = arity(1, 1, fnCeiling)
	c.functions[core("round")] = arity(1, 1, fnRound)
}

func contextNodeset(n dom.Node) *NodeSet {
	if n == nil {
		return NewNodeSet(nil)
	}
	return NewNodeSet([]dom.Node{n})
}

// roundHalfUp implements XPath 1.0's round(): round half towards positive
// infinity, not the round-half-away-from-zero that math.Round uses.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

func fnLast(ctx *EvaluationContext, args []Value) (Value, error) {
	return NumberValue(float64(ctx.Size)), nil
}

func fnPosition(ctx *EvaluationContext, args []Value) (Value, error) {
	return NumberValue(float64(ctx.Position)), nil
}

func fnCount(ctx *EvaluationContext, args []Value) (Value, error) {
	ns, err := args[0].Nodeset()
	if err != nil {
		return Value{}, &EvalError{Kind: ArgumentNotANodeset}
	}
	return NumberValue(float64(ns.Len())), nil
}

func fnID(ctx *EvaluationContext, args []Value) (Value, error) {
	var tokens []string
	if ns, err := args[0].Nodeset(); err == nil {
		for _, n := range ns.Nodes() {
			tokens = append(tokens, strings.Fields(n.StringValue())...)
		}
	} else {
		tokens = strings.Fields(args[0].String())
	}
	return NodesetValue(findByID(ctx.Static.Root(), tokens)), nil
}

func findByID(root dom.Node, tokens []string) *NodeSet {
	wanted := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		wanted[t] = true
	}
	var matches []dom.Node
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		if el, ok := n.(*dom.Element); ok {
			for _, a := range el.Attributes() {
				if a.Prefix() == "" && a.LocalName() == "id" && wanted[a.Value()] {
					matches = append(matches, el)
					break
				}
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return NewNodeSet(matches)
}

func nodeArgOrContext(ctx *EvaluationContext, args []Value) (dom.Node, error) {
	if len(args) == 0 {
		return ctx.Node, nil
	}
	ns, err := args[0].Nodeset()
	if err != nil {
		return nil, &EvalError{Kind: ArgumentNotANodeset}
	}
	n, _ := ns.First()
	return n, nil
}

func fnLocalName(ctx *EvaluationContext, args []Value) (Value, error) {
	n, err := nodeArgOrContext(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if n == nil {
		return StringValue(""), nil
	}
	return StringValue(n.LocalName()), nil
}

func fnNamespaceURI(ctx *EvaluationContext, args []Value) (Value, error) {
	n, err := nodeArgOrContext(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if n == nil {
		return StringValue(""), nil
	}
	return StringValue(n.NamespaceURI()), nil
}

func fnName(ctx *EvaluationContext, args []Value) (Value, error) {
	n, err := nodeArgOrContext(ctx, args)
	if err != nil {
		return Value{}, err
	}
	if n == nil {
		return StringValue(""), nil
	}
	return StringValue(n.Name()), nil
}

func fnString(ctx *EvaluationContext, args []Value) (Value, error) {
	if len(args) == 0 {
		return StringValue(NodesetValue(contextNodeset(ctx.Node)).String()), nil
	}
	return StringValue(args[0].String()), nil
}

func fnConcat(ctx *EvaluationContext, args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.String())
	}
	return StringValue(b.String()), nil
}

func fnStartsWith(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(strings.HasPrefix(args[0].String(), args[1].String())), nil
}

func fnContains(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(strings.Contains(args[0].String(), args[1].String())), nil
}

func fnSubstringBefore(ctx *EvaluationContext, args []Value) (Value, error) {
	s, sep := args[0].String(), args[1].String()
	if sep == "" {
		return StringValue(""), nil
	}
	if i := strings.Index(s, sep); i >= 0 {
		return StringValue(s[:i]), nil
	}
	return StringValue(""), nil
}

func fnSubstringAfter(ctx *EvaluationContext, args []Value) (Value, error) {
	s, sep := args[0].String(), args[1].String()
	if sep == "" {
		return StringValue(s), nil
	}
	if i := strings.Index(s, sep); i >= 0 {
		return StringValue(s[i+len(sep):]), nil
	}
	return StringValue(""), nil
}

// fnSubstring implements the W3C substring() algorithm: character at
// 1-based position P survives iff round(start) <= P < round(start) +
// round(length) (or P >= round(start) with no length argument), with NaN
// in either bound producing an empty result.
func fnSubstring(ctx *EvaluationContext, args []Value) (Value, error) {
	runes := []rune(args[0].String())
	start := args[1].Number()
	hasLength := len(args) == 3
	var length float64
	if hasLength {
		length = args[2].Number()
	}
	if math.IsNaN(start) || (hasLength && math.IsNaN(length)) {
		return StringValue(""), nil
	}
	from := roundHalfUp(start)
	to := math.Inf(1)
	if hasLength {
		to = from + roundHalfUp(length)
	}
	var b strings.Builder
	for i, r := range runes {
		p := float64(i + 1)
		if p >= from && p < to {
			b.WriteRune(r)
		}
	}
	return StringValue(b.String()), nil
}

func fnStringLength(ctx *EvaluationContext, args []Value) (Value, error) {
	var s string
	if len(args) == 0 {
		s = NodesetValue(contextNodeset(ctx.Node)).String()
	} else {
		s = args[0].String()
	}
	return NumberValue(float64(len([]rune(s)))), nil
}

func fnNormalizeSpace(ctx *EvaluationContext, args []Value) (Value, error) {
	var s string
	if len(args) == 0 {
		s = NodesetValue(contextNodeset(ctx.Node)).String()
	} else {
		s = args[0].String()
	}
	fields := strings.FieldsFunc(s, isXPathWhitespace)
	return StringValue(strings.Join(fields, " ")), nil
}

func isXPathWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func fnTranslate(ctx *EvaluationContext, args []Value) (Value, error) {
	s, from, to := []rune(args[0].String()), []rune(args[1].String()), []rune(args[2].String())
	var b strings.Builder
	for _, r := range s {
		idx := -1
		for i, f := range from {
			if f == r {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			b.WriteRune(r)
		case idx < len(to):
			b.WriteRune(to[idx])
		default:
			// dropped: mapped to no character
		}
	}
	return StringValue(b.String()), nil
}

func fnBoolean(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(args[0].Boolean()), nil
}

func fnNot(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(!args[0].Boolean()), nil
}

func fnTrue(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(true), nil
}

func fnFalse(ctx *EvaluationContext, args []Value) (Value, error) {
	return BooleanValue(false), nil
}

// fnLang implements lang(): true iff the context node or its nearest
// ancestor carrying xml:lang declares a language equal to, or a dialect of
// (case-insensitive, '-' subtag separated), the argument.
func fnLang(ctx *EvaluationContext, args []Value) (Value, error) {
	want := strings.ToLower(args[0].String())
	for n := ctx.Node; n != nil; n = n.Parent() {
		el, ok := n.(*dom.Element)
		if !ok {
			continue
		}
		for _, a := range el.Attributes() {
			if a.NamespaceURI() == "http://www.w3.org/XML/1998/namespace" && a.LocalName() == "lang" {
				got := strings.ToLower(a.Value())
				return BooleanValue(got == want || strings.HasPrefix(got, want+"-")), nil
			}
		}
	}
	return BooleanValue(false), nil
}

func fnNumber(ctx *EvaluationContext, args []Value) (Value, error) {
	if len(args) == 0 {
		return NumberValue(NodesetValue(contextNodeset(ctx.Node)).Number()), nil
	}
	return NumberValue(args[0].Number()), nil
}

func fnSum(ctx *EvaluationContext, args []Value) (Value, error) {
	ns, err := args[0].Nodeset()
	if err != nil {
		return Value{}, &EvalError{Kind: ArgumentNotANodeset}
	}
	var total float64
	for _, n := range ns.Nodes() {
		total += parseXPathNumber(n.StringValue())
	}
	return NumberValue(total), nil
}

func fnFloor(ctx *EvaluationContext, args []Value) (Value, error) {
	return NumberValue(math.Floor(args[0].Number())), nil
}

func fnCeiling(ctx *EvaluationContext, args []Value) (Value, error) {
	return NumberValue(math.Ceil(args[0].Number())), nil
}

func fnRound(ctx *EvaluationContext, args []Value) (Value, error) {
	return NumberValue(roundHalfUp(args[0].Number())), nil
}
