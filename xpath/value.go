package xpath

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gogo-agent/xpath/dom"
)

// ValueKind discriminates the four XPath 1.0 dynamic types.
type ValueKind int

const (
	KindBoolean ValueKind = iota
	KindNumber
	KindString
	KindNodeset
)

// Value is the tagged variant every expression evaluates to: Boolean,
// Number (IEEE-754 double), String, or Nodeset. Boolean/number/string
// values are standalone; a Nodeset borrows node handles from whatever
// document produced them.
type Value struct {
	kind    ValueKind
	boolean bool
	number  float64
	text    string
	nodeset *NodeSet
}

func (v Value) Kind() ValueKind { return v.kind }

// BooleanValue wraps a bool as a Value.
func BooleanValue(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// NumberValue wraps a float64 as a Value.
func NumberValue(n float64) Value { return Value{kind: KindNumber, number: n} }

// StringValue wraps a string as a Value.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// NodesetValue wraps a *NodeSet as a Value.
func NodesetValue(ns *NodeSet) Value { return Value{kind: KindNodeset, nodeset: ns} }

// Boolean applies XPath 1.0's boolean() coercion.
func (v Value) Boolean() bool {
	switch v.kind {
	case KindBoolean:
		return v.boolean
	case KindNumber:
		return v.number != 0 && !math.IsNaN(v.number)
	case KindString:
		return len(v.text) > 0
	case KindNodeset:
		return v.nodeset.Len() > 0
	default:
		return false
	}
}

// Number applies XPath 1.0's number() coercion.
func (v Value) Number() float64 {
	switch v.kind {
	case KindBoolean:
		if v.boolean {
			return 1
		}
		return 0
	case KindNumber:
		return v.number
	case KindString:
		return parseXPathNumber(v.text)
	case KindNodeset:
		return parseXPathNumber(v.String())
	default:
		return math.NaN()
	}
}

// String applies XPath 1.0's string() coercion.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatXPathNumber(v.number)
	case KindString:
		return v.text
	case KindNodeset:
		if n, ok := v.nodeset.First(); ok {
			return n.StringValue()
		}
		return ""
	default:
		return ""
	}
}

// Nodeset returns the underlying node-set, or an error if this value is not
// a node-set.
func (v Value) Nodeset() (*NodeSet, error) {
	if v.kind != KindNodeset {
		return nil, &EvalError{Kind: NotANodeset}
	}
	return v.nodeset, nil
}

func formatXPathNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

func trimXPathSpace(s string) string {
	return strings.Trim(s, " \t\r\n")
}

// isXPathNumberSyntax reports whether s (already trimmed) matches XPath
// 1.0's Number lexical grammar: an optional leading '-', then digits,
// optionally followed by '.' and more digits (or '.' digits with no
// leading integer part). No exponent, no leading '+'.
func isXPathNumberSyntax(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	return digits > 0 && i == len(s)
}

func parseXPathNumber(s string) float64 {
	t := trimXPathSpace(s)
	if !isXPathNumberSyntax(t) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// NodeSet is a set of nodes, unique by identity, always materialised in
// document order: the canonical form the evaluator builds once per
// completed step or union, rather than re-sorting on every read.
type NodeSet struct {
	nodes []dom.Node
}

// NewNodeSet builds a NodeSet from an arbitrary (possibly unordered,
// possibly duplicate-containing) slice of nodes.
func NewNodeSet(nodes []dom.Node) *NodeSet {
	cp := make([]dom.Node, len(nodes))
	copy(cp, nodes)
	sort.SliceStable(cp, func(i, j int) bool {
		return dom.ComparePositions(cp[i].Position(), cp[j].Position()) < 0
	})
	out := cp[:0]
	for i, n := range cp {
		if i == 0 || !dom.SameNode(out[len(out)-1], n) {
			out = append(out, n)
		}
	}
	return &NodeSet{nodes: out}
}

// Nodes returns the set's members in document order.
func (ns *NodeSet) Nodes() []dom.Node {
	if ns == nil {
		return nil
	}
	return ns.nodes
}

// Len returns the number of nodes in the set.
func (ns *NodeSet) Len() int {
	if ns == nil {
		return 0
	}
	return len(ns.nodes)
}

// First returns the document-order-first node, if any.
func (ns *NodeSet) First() (dom.Node, bool) {
	if ns.Len() == 0 {
		return nil, false
	}
	return ns.nodes[0], true
}

// Union returns the document-order, de-duplicated union of ns and other.
func (ns *NodeSet) Union(other *NodeSet) *NodeSet {
	all := append(append([]dom.Node(nil), ns.Nodes()...), other.Nodes()...)
	return NewNodeSet(all)
}
