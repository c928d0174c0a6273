package xpath

import "github.com/gogo-agent/xpath/dom"

// NodeTestKind discriminates a step's node test.
type NodeTestKind int

const (
	TestName NodeTestKind = iota
	TestAnyLocal
	TestNamespaceWildcard
	TestNode
	TestText
	TestComment
	TestProcessingInstruction
)

// NodeTest filters an axis's candidates by name or type (4.5).
type NodeTest struct {
	Kind   NodeTestKind
	Prefix string // TestName, TestNamespaceWildcard
	Local  string // TestName

	HasTarget bool   // TestProcessingInstruction with a literal argument
	Target    string
}

func principalKind(axis AxisKind) dom.Kind {
	switch axis {
	case AxisAttribute:
		return dom.KindAttribute
	case AxisNamespace:
		return dom.KindNamespace
	default:
		return dom.KindElement
	}
}

// Matches reports whether n, a candidate produced by axis, survives this
// node test.
func (nt NodeTest) Matches(ctx *EvaluationContext, axis AxisKind, n dom.Node) (bool, error) {
	switch nt.Kind {
	case TestNode:
		return true, nil
	case TestText:
		return n.Kind() == dom.KindText, nil
	case TestComment:
		return n.Kind() == dom.KindComment, nil
	case TestProcessingInstruction:
		if n.Kind() != dom.KindProcessingInstruction {
			return false, nil
		}
		if !nt.HasTarget {
			return true, nil
		}
		return n.Name() == nt.Target, nil
	case TestAnyLocal:
		return n.Kind() == principalKind(axis), nil
	case TestNamespaceWildcard:
		if n.Kind() != principalKind(axis) {
			return false, nil
		}
		uri, err := ctx.resolvePrefix(nt.Prefix)
		if err != nil {
			return false, err
		}
		return n.NamespaceURI() == uri, nil
	case TestName:
		if n.Kind() != principalKind(axis) {
			return false, nil
		}
		var uri string
		if nt.Prefix != "" {
			var err error
			uri, err = ctx.resolvePrefix(nt.Prefix)
			if err != nil {
				return false, err
			}
		}
		// An unprefixed name test matches only nodes with no namespace,
		// per XPath 1.0's attribute/element default-namespace rule.
		return n.NamespaceURI() == uri && n.LocalName() == nt.Local, nil
	default:
		return false, nil
	}
}
