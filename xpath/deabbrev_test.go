package xpath

import "testing"

func kindsOf(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	toks, err := TokenizeAll(input)
	if err != nil {
		t.Fatalf("TokenizeAll(%q): %v", input, err)
	}
	return toks
}

func TestDeabbreviateDescendantOrSelf(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "//x"))
	want := []Kind{TSlash, TName, TColonColon, TName, TLParen, TRParen, TSlash, TName, TColonColon, TName, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), toks, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v (%v)", i, got[i], want[i], toks)
		}
	}
	if toks[1].Text != "descendant-or-self" {
		t.Errorf("got axis name %q, want descendant-or-self", toks[1].Text)
	}
}

func TestDeabbreviateAttribute(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "@name"))
	if toks[0].Kind != TName || toks[0].Text != "attribute" {
		t.Errorf("got %+v, want attribute axis name", toks[0])
	}
	if toks[1].Kind != TColonColon {
		t.Errorf("got %+v, want ::", toks[1])
	}
	if toks[2].Kind != TName || toks[2].Text != "name" {
		t.Errorf("got %+v, want name test 'name'", toks[2])
	}
}

func TestDeabbreviateSelf(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "."))
	want := []Kind{TName, TColonColon, TName, TLParen, TRParen, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Text != "self" || toks[2].Text != "node" {
		t.Errorf("got %+v", toks)
	}
}

func TestDeabbreviateParent(t *testing.T) {
	toks := Deabbreviate(tokenize(t, ".."))
	if toks[0].Text != "parent" || toks[2].Text != "node" {
		t.Errorf("got %+v", toks)
	}
}

func TestDeabbreviateImplicitChildAxis(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "name"))
	want := []Kind{TName, TColonColon, TName, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Text != "child" || toks[2].Text != "name" {
		t.Errorf("got %+v", toks)
	}
}

func TestDeabbreviateWildcard(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "*"))
	if toks[0].Text != "child" || toks[0].Kind != TName {
		t.Errorf("got %+v", toks)
	}
	if toks[2].Kind != TStar {
		t.Errorf("got %+v, want trailing *", toks)
	}
}

func TestDeabbreviateFunctionCallNotStepped(t *testing.T) {
	// A function call is not a step: no child:: should be synthesized.
	toks := Deabbreviate(tokenize(t, "count(a)"))
	if toks[0].Kind != TName || toks[0].Text != "count" {
		t.Errorf("got %+v, want function name unchanged", toks[0])
	}
	if toks[1].Kind != TLParen {
		t.Errorf("got %+v, want (", toks[1])
	}
}

func TestDeabbreviateExplicitAxisUntouched(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "descendant::x"))
	want := []Kind{TName, TColonColon, TName, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Text != "descendant" {
		t.Errorf("got %+v", toks)
	}
}

func TestDeabbreviateNodeTypeTestGetsChildAxis(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "text()"))
	if toks[0].Text != "child" || toks[0].Kind != TName {
		t.Errorf("got %+v, want synthesized child axis", toks)
	}
	if toks[2].Text != "text" {
		t.Errorf("got %+v, want text() node test", toks)
	}
}

func TestDeabbreviateVariableNotStepped(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "$foo"))
	if toks[0].Kind != TDollar {
		t.Errorf("got %+v", toks[0])
	}
	if toks[1].Kind != TName || toks[1].Text != "foo" {
		t.Errorf("got %+v, want variable name unprefixed with child::", toks[1])
	}
}

func TestDeabbreviatePrefixedFunctionCallNotStepped(t *testing.T) {
	// A namespace-qualified function call is still a function call, not a
	// step: no child:: should be synthesized before the prefix.
	toks := Deabbreviate(tokenize(t, "ns:local(1)"))
	want := []Kind{TName, TColon, TName, TLParen, TNumber, TRParen, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), toks, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v (%v)", i, got[i], want[i], toks)
		}
	}
	if toks[0].Text != "ns" || toks[2].Text != "local" {
		t.Errorf("got %+v, want prefixed function name unchanged", toks)
	}
}

func TestDeabbreviatePrefixedNameTest(t *testing.T) {
	toks := Deabbreviate(tokenize(t, "ns:name"))
	want := []Kind{TName, TColonColon, TName, TColon, TName, TEOF}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Text != "child" || toks[2].Text != "ns" || toks[4].Text != "name" {
		t.Errorf("got %+v", toks)
	}
}
