package xpath

import (
	"errors"
	"testing"
)

func TestCompileCachesSuccess(t *testing.T) {
	e1, err := Compile("/root/child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e2, err := Compile("/root/child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e1 != e2 {
		t.Error("Compile should return the cached *Expression on repeat calls")
	}
}

func TestCompileCachesFailure(t *testing.T) {
	_, err1 := Compile("a[")
	_, err2 := Compile("a[")
	if err1 == nil || err2 == nil {
		t.Fatal("expected a parse error both times")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("cached error should be stable: %v vs %v", err1, err2)
	}
}

func TestCompileEmptyIsNoXPath(t *testing.T) {
	_, err := Compile("")
	if !errors.Is(err, ErrNoXPath) {
		t.Fatalf("got %v, want ErrNoXPath", err)
	}
}

func TestEvaluateStringWithNamespace(t *testing.T) {
	doc := buildDoc(t, `<root xmlns:p="urn:p"><p:child>hi</p:child></root>`)
	v := mustEval(t, doc, "/root/x:child", WithNamespace("x", "urn:p"))
	if v.String() != "hi" {
		t.Errorf("got %q, want hi", v.String())
	}
}

func TestEvaluateStringWithVariable(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	v := mustEval(t, doc, "$count + 1", WithVariable("count", NumberValue(41)))
	if v.Number() != 42 {
		t.Errorf("got %v, want 42", v.Number())
	}
}

func TestEvaluateStringAbsolutePathFromNonRootContext(t *testing.T) {
	doc := buildDoc(t, `<root><a><b/></a></root>`)
	v, err := EvaluateString(doc.DocumentElement().Children()[0], "/root/a/b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ns, _ := v.Nodeset()
	if ns.Len() != 1 {
		t.Errorf("got %d, want 1 (absolute path walks to the document root regardless of context node)", ns.Len())
	}
}

func TestEvaluateStringParseErrorPropagates(t *testing.T) {
	doc := buildDoc(t, "<root/>")
	_, err := EvaluateString(doc.DocumentElement(), "a[")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want *ParseError", err)
	}
}
