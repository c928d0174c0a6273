package xpath

import (
	"testing"

	"github.com/gogo-agent/xpath/dom"
)

// buildDoc parses xmlText into a dom.Root, failing the test on malformed XML.
func buildDoc(t *testing.T, xmlText string) *dom.Root {
	t.Helper()
	root, err := dom.Build(xmlText)
	if err != nil {
		t.Fatalf("dom.Build(%q) failed: %v", xmlText, err)
	}
	return root
}

// mustEval compiles and evaluates expr against doc's document element,
// failing the test on any error.
func mustEval(t *testing.T, doc *dom.Root, expr string, opts ...ContextOption) Value {
	t.Helper()
	v, err := EvaluateString(doc.DocumentElement(), expr, opts...)
	if err != nil {
		t.Fatalf("evaluate %q failed: %v", expr, err)
	}
	return v
}

// evalErr compiles and evaluates expr, returning the error (nil on success).
func evalErr(doc *dom.Root, expr string, opts ...ContextOption) error {
	_, err := EvaluateString(doc.DocumentElement(), expr, opts...)
	return err
}

// nodeNames extracts local names from a node-set, in document order.
func nodeNames(ns *NodeSet) []string {
	out := make([]string, 0, ns.Len())
	for _, n := range ns.Nodes() {
		out = append(out, n.LocalName())
	}
	return out
}
