package xpath

import (
	"math"
	"testing"
)

func TestFnSubstringWholeValueRounding(t *testing.T) {
	// W3C XPath 1.0 canonical examples for substring().
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"basic", `substring("12345", 2, 3)`, "234"},
		{"no length", `substring("12345", 2)`, "2345"},
		{"rounds start up", `substring("12345", 1.5, 2.6)`, "234"},
		{"zero start", `substring("12345", 0, 3)`, "12"},
		{"nan start", `substring("12345", 0 div 0, 3)`, ""},
		{"infinite length", `substring("12345", -42, 1 div 0)`, "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t, "<root/>")
			v := mustEval(t, doc, tt.expr)
			if v.String() != tt.want {
				t.Errorf("%s = %q, want %q", tt.expr, v.String(), tt.want)
			}
		})
	}
}

func TestFnRoundHalfToPositiveInfinity(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"round(2.5)", 3},
		{"round(-2.5)", -2},
		{"round(2.4)", 2},
		{"round(-2.4)", -2},
	}
	for _, tt := range tests {
		doc := buildDoc(t, "<root/>")
		v := mustEval(t, doc, tt.expr)
		if v.Number() != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, v.Number(), tt.want)
		}
	}
}

func TestFnStringFunctions(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	tests := []struct {
		expr string
		want string
	}{
		{`concat("a", "b", "c")`, "abc"},
		{`substring-before("1999/04/01", "/")`, "1999"},
		{`substring-after("1999/04/01", "/")`, "04/01"},
		{`substring-before("abc", "")`, ""},
		{`substring-after("abc", "")`, "abc"},
		{`normalize-space("  a   b  c ")`, "a b c"},
		{`translate("bar", "abc", "ABC")`, "BAr"},
		{`translate("--aaa--", "abc-", "ABC")`, "AAA"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v := mustEval(t, doc, tt.expr)
			if v.String() != tt.want {
				t.Errorf("%s = %q, want %q", tt.expr, v.String(), tt.want)
			}
		})
	}
}

func TestFnStartsWithContains(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	if !mustEval(t, doc, `starts-with("hello world", "hello")`).Boolean() {
		t.Error("starts-with should be true")
	}
	if mustEval(t, doc, `starts-with("hello world", "world")`).Boolean() {
		t.Error("starts-with should be false")
	}
	if !mustEval(t, doc, `contains("hello world", "o w")`).Boolean() {
		t.Error("contains should be true")
	}
}

func TestFnStringLength(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	v := mustEval(t, doc, `string-length("hello")`)
	if v.Number() != 5 {
		t.Errorf("got %v, want 5", v.Number())
	}
}

func TestFnBooleanFunctions(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	if !mustEval(t, doc, "true()").Boolean() {
		t.Error("true() should be true")
	}
	if mustEval(t, doc, "false()").Boolean() {
		t.Error("false() should be false")
	}
	if mustEval(t, doc, "not(true())").Boolean() {
		t.Error("not(true()) should be false")
	}
}

func TestFnNumberFunctions(t *testing.T) {
	doc := buildDoc(t, `<root><n>1</n><n>2</n><n>3.5</n></root>`)
	v := mustEval(t, doc, "sum(/root/n)")
	if v.Number() != 6.5 {
		t.Errorf("sum = %v, want 6.5", v.Number())
	}
	if mustEval(t, doc, "floor(3.7)").Number() != 3 {
		t.Error("floor(3.7) should be 3")
	}
	if mustEval(t, doc, "ceiling(3.2)").Number() != 4 {
		t.Error("ceiling(3.2) should be 4")
	}
}

func TestFnCountAndLast(t *testing.T) {
	doc := buildDoc(t, `<root><a/><a/><a/></root>`)
	if mustEval(t, doc, "count(/root/a)").Number() != 3 {
		t.Error("count should be 3")
	}
	v := mustEval(t, doc, "/root/a[last()]")
	ns, _ := v.Nodeset()
	if ns.Len() != 1 {
		t.Errorf("got %d, want 1", ns.Len())
	}
}

func TestFnIDLookup(t *testing.T) {
	doc := buildDoc(t, `<root><a id="x1"/><b id="x2"/></root>`)
	v := mustEval(t, doc, `id("x2")`)
	ns, _ := v.Nodeset()
	n, ok := ns.First()
	if !ok || n.LocalName() != "b" {
		t.Fatalf("got %v, want b", n)
	}
}

func TestFnNameFunctions(t *testing.T) {
	doc := buildDoc(t, `<root xmlns:p="urn:p"><p:child/></root>`)
	p := WithNamespace("p", "urn:p")
	if mustEval(t, doc, "local-name(/root/p:child)", p).String() != "child" {
		t.Error("local-name mismatch")
	}
	if mustEval(t, doc, "namespace-uri(/root/p:child)", p).String() != "urn:p" {
		t.Error("namespace-uri mismatch")
	}
	if mustEval(t, doc, "name(/root/p:child)", p).String() != "p:child" {
		t.Error("name mismatch")
	}
}

func TestFnLang(t *testing.T) {
	doc := buildDoc(t, `<root xml:lang="en-US"><child/></root>`)
	if !mustEval(t, doc, `lang("en")`).Boolean() {
		t.Error("lang('en') should match en-US via dialect rule")
	}
	if mustEval(t, doc, `lang("fr")`).Boolean() {
		t.Error("lang('fr') should not match")
	}
}

func TestFnArityErrors(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	err := evalErr(doc, "concat('a')")
	var ee *EvalError
	if err == nil {
		t.Fatal("expected arity error")
	}
	if !asEvalError(err, &ee) || ee.Kind != NotEnoughArguments {
		t.Fatalf("got %v, want NotEnoughArguments", err)
	}

	err = evalErr(doc, "true(1)")
	if !asEvalError(err, &ee) || ee.Kind != TooManyArguments {
		t.Fatalf("got %v, want TooManyArguments", err)
	}
}

func TestFnCountArgumentNotNodeset(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	err := evalErr(doc, `count("not a nodeset")`)
	var ee *EvalError
	if !asEvalError(err, &ee) || ee.Kind != ArgumentNotANodeset {
		t.Fatalf("got %v, want ArgumentNotANodeset", err)
	}
}

func TestFnUnknownFunction(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	err := evalErr(doc, "bogus-function(1)")
	var ee *EvalError
	if !asEvalError(err, &ee) || ee.Kind != UnknownFunction {
		t.Fatalf("got %v, want UnknownFunction", err)
	}
}

func TestNumberCoercionNaN(t *testing.T) {
	if !math.IsNaN(parseXPathNumber("not a number")) {
		t.Error("expected NaN")
	}
	if got := parseXPathNumber("\r\n1.5 \t"); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
}
