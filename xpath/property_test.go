package xpath

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gogo-agent/xpath/dom"
	"pgregory.net/rapid"
)

// genNumberLiteral generates a random XPath number literal (integer, for
// simplicity, same limited range as the differential generator this engine's
// pack sibling uses).
func genNumberLiteral() *rapid.Generator[int] {
	return rapid.IntRange(-1000, 1000)
}

// genTagName generates a small set of NCName-legal element tags, limited to
// increase the odds successive draws produce structurally comparable trees.
var tagNames = []string{"a", "b", "c", "d"}

func genTagName() *rapid.Generator[string] {
	return rapid.SampledFrom(tagNames)
}

// genFlatDoc builds a flat <root><tag/>...<tag/></root> document from a
// small sequence of tag names, simple enough to reason about by hand while
// still varying shape across runs.
func genFlatDoc(t *rapid.T) (string, []string) {
	n := rapid.IntRange(0, 6).Draw(t, "n")
	tags := make([]string, n)
	var b strings.Builder
	b.WriteString("<root>")
	for i := range tags {
		tags[i] = genTagName().Draw(t, fmt.Sprintf("tag%d", i))
		fmt.Fprintf(&b, "<%s/>", tags[i])
	}
	b.WriteString("</root>")
	return b.String(), tags
}

func evalRoot(rt *rapid.T, root *dom.Root, expr string) *NodeSet {
	v, err := EvaluateString(root.DocumentElement(), expr)
	if err != nil {
		rt.Fatalf("evaluate %q: %v", expr, err)
	}
	ns, err := v.Nodeset()
	if err != nil {
		rt.Fatalf("%q did not evaluate to a node-set: %v", expr, err)
	}
	return ns
}

// TestPropertyStringNumberRoundTrip checks string(number(string(x))) ==
// string(number(x)) for arbitrary integer literals: number() coercion is
// idempotent once a value has round-tripped through string().
func TestPropertyStringNumberRoundTrip(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	rapid.Check(t, func(rt *rapid.T) {
		n := genNumberLiteral().Draw(rt, "n")
		got := mustEval(t, doc, fmt.Sprintf("string(number(string(%d)))", n)).String()
		want := mustEval(t, doc, fmt.Sprintf("string(%d)", n)).String()
		if got != want {
			rt.Fatalf("string(number(string(%d))) = %q, want %q", n, got, want)
		}
	})
}

// TestPropertyUnionIdempotentAndCommutative checks a|a == a and a|b == b|a
// (as document-order-sorted node-sets) across randomly generated flat
// documents and tag choices.
func TestPropertyUnionIdempotentAndCommutative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xmlText, tags := genFlatDoc(rt)
		if len(tags) == 0 {
			return
		}
		root, err := dom.Build(xmlText)
		if err != nil {
			rt.Fatalf("build failed: %v", err)
		}

		a := genTagName().Draw(rt, "a")
		b := genTagName().Draw(rt, "b")

		selfUnion := evalRoot(rt, root, fmt.Sprintf("/root/%s | /root/%s", a, a))
		single := evalRoot(rt, root, fmt.Sprintf("/root/%s", a))
		if selfUnion.Len() != single.Len() {
			rt.Fatalf("a|a should equal a: got %d vs %d nodes", selfUnion.Len(), single.Len())
		}

		ab := evalRoot(rt, root, fmt.Sprintf("/root/%s | /root/%s", a, b))
		ba := evalRoot(rt, root, fmt.Sprintf("/root/%s | /root/%s", b, a))
		if ab.Len() != ba.Len() {
			rt.Fatalf("a|b and b|a should have equal length: %d vs %d", ab.Len(), ba.Len())
		}
		for i, n := range ab.Nodes() {
			if n != ba.Nodes()[i] {
				rt.Fatalf("a|b and b|a should be the same document-order sequence at index %d", i)
			}
		}
	})
}

// TestPropertyAbbreviationEquivalence checks that each abbreviated syntax
// evaluates identically to its unabbreviated expansion, across randomly
// generated flat documents.
func TestPropertyAbbreviationEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xmlText, tags := genFlatDoc(rt)
		if len(tags) == 0 {
			return
		}
		root, err := dom.Build(xmlText)
		if err != nil {
			rt.Fatalf("build failed: %v", err)
		}
		tag := genTagName().Draw(rt, "tag")

		abbrev := evalRoot(rt, root, fmt.Sprintf("//%s", tag))
		full := evalRoot(rt, root, fmt.Sprintf("/descendant-or-self::node()/child::%s", tag))
		if abbrev.Len() != full.Len() {
			rt.Fatalf("//%s should equal its unabbreviated form: %d vs %d", tag, abbrev.Len(), full.Len())
		}
		for i, n := range abbrev.Nodes() {
			if n != full.Nodes()[i] {
				rt.Fatalf("//%s and its expansion diverge at index %d", tag, i)
			}
		}
	})
}

// TestPropertyPredicateOneIndexedBoundary checks that (//tag)[1] always picks
// the document-order-first match and (//tag)[last()] the document-order-last
// one, regardless of how many matches exist.
func TestPropertyPredicateOneIndexedBoundary(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xmlText, tags := genFlatDoc(rt)
		tag := genTagName().Draw(rt, "tag")
		root, err := dom.Build(xmlText)
		if err != nil {
			rt.Fatalf("build failed: %v", err)
		}

		all := evalRoot(rt, root, fmt.Sprintf("//%s", tag))
		count := 0
		for _, tg := range tags {
			if tg == tag {
				count++
			}
		}
		if all.Len() != count {
			rt.Fatalf("got %d matches, want %d", all.Len(), count)
		}
		if count == 0 {
			return
		}
		first := evalRoot(rt, root, fmt.Sprintf("(//%s)[1]", tag))
		last := evalRoot(rt, root, fmt.Sprintf("(//%s)[last()]", tag))
		if first.Len() != 1 || first.Nodes()[0] != all.Nodes()[0] {
			rt.Fatalf("[1] should select the document-order-first match")
		}
		if last.Len() != 1 || last.Nodes()[0] != all.Nodes()[count-1] {
			rt.Fatalf("[last()] should select the document-order-last match")
		}
	})
}

func TestPropertyRoundNeverProducesNaNFromFinite(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := genNumberLiteral().Draw(rt, "n")
		if got := roundHalfUp(float64(n)); math.IsNaN(got) {
			rt.Fatalf("round(%d) produced NaN", n)
		}
	})
}
