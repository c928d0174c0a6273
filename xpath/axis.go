package xpath

import "github.com/gogo-agent/xpath/dom"

// AxisKind discriminates the thirteen XPath 1.0 axes.
type AxisKind int

const (
	AxisChild AxisKind = iota
	AxisDescendant
	AxisParent
	AxisAncestor
	AxisFollowingSibling
	AxisPrecedingSibling
	AxisFollowing
	AxisPreceding
	AxisAttribute
	AxisNamespace
	AxisSelf
	AxisDescendantOrSelf
	AxisAncestorOrSelf
)

// axisReverse reports whether an axis is a reverse axis: its candidates are
// yielded nearest-to-context-node first (reverse of document order), which
// is what gives predicates correct proximity-position semantics.
func axisReverse(a AxisKind) bool {
	switch a {
	case AxisAncestor, AxisPrecedingSibling, AxisPreceding, AxisAncestorOrSelf:
		return true
	default:
		return false
	}
}

// axisByName maps an axis-name token (as produced by the deabbreviator or
// written explicitly as "axis-name::") to its AxisKind.
func axisByName(name string) (AxisKind, bool) {
	switch name {
	case "child":
		return AxisChild, true
	case "descendant":
		return AxisDescendant, true
	case "parent":
		return AxisParent, true
	case "ancestor":
		return AxisAncestor, true
	case "following-sibling":
		return AxisFollowingSibling, true
	case "preceding-sibling":
		return AxisPrecedingSibling, true
	case "following":
		return AxisFollowing, true
	case "preceding":
		return AxisPreceding, true
	case "attribute":
		return AxisAttribute, true
	case "namespace":
		return AxisNamespace, true
	case "self":
		return AxisSelf, true
	case "descendant-or-self":
		return AxisDescendantOrSelf, true
	case "ancestor-or-self":
		return AxisAncestorOrSelf, true
	default:
		return 0, false
	}
}

// axisCandidates returns node's candidates along axis, in the axis's
// natural (forward or reverse) order — the order predicates must see so
// that position()/last() come out right (4.4's critical invariant).
func axisCandidates(axis AxisKind, node dom.Node) []dom.Node {
	switch axis {
	case AxisChild:
		return append([]dom.Node(nil), node.Children()...)
	case AxisDescendant:
		return descendantsOf(node)
	case AxisParent:
		if p := node.Parent(); p != nil {
			return []dom.Node{p}
		}
		return nil
	case AxisAncestor:
		return ancestorsOf(node)
	case AxisFollowingSibling:
		return siblingsAfter(node)
	case AxisPrecedingSibling:
		return siblingsBefore(node)
	case AxisFollowing:
		return followingOf(node)
	case AxisPreceding:
		return precedingOf(node)
	case AxisAttribute:
		return attributesOf(node)
	case AxisNamespace:
		return namespacesOf(node)
	case AxisSelf:
		return []dom.Node{node}
	case AxisDescendantOrSelf:
		return append([]dom.Node{node}, descendantsOf(node)...)
	case AxisAncestorOrSelf:
		return append([]dom.Node{node}, ancestorsOf(node)...)
	default:
		return nil
	}
}

func subtreePreOrder(n dom.Node) []dom.Node {
	out := []dom.Node{n}
	for _, c := range n.Children() {
		out = append(out, subtreePreOrder(c)...)
	}
	return out
}

func subtreeReversePreOrder(n dom.Node) []dom.Node {
	children := n.Children()
	var out []dom.Node
	for i := len(children) - 1; i >= 0; i-- {
		out = append(out, subtreeReversePreOrder(children[i])...)
	}
	return append(out, n)
}

func descendantsOf(n dom.Node) []dom.Node {
	var out []dom.Node
	for _, c := range n.Children() {
		out = append(out, subtreePreOrder(c)...)
	}
	return out
}

// ancestorsOf walks the parent chain, nearest ancestor first: that walk
// order already is reverse-of-document-order, so no sorting is needed.
func ancestorsOf(n dom.Node) []dom.Node {
	var out []dom.Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

func indexAmong(siblings []dom.Node, n dom.Node) int {
	for i, s := range siblings {
		if dom.SameNode(s, n) {
			return i
		}
	}
	return -1
}

func siblingsAfter(n dom.Node) []dom.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	siblings := parent.Children()
	idx := indexAmong(siblings, n)
	if idx < 0 {
		return nil
	}
	out := make([]dom.Node, len(siblings)-idx-1)
	copy(out, siblings[idx+1:])
	return out
}

func siblingsBefore(n dom.Node) []dom.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	siblings := parent.Children()
	idx := indexAmong(siblings, n)
	if idx <= 0 {
		return nil
	}
	out := make([]dom.Node, idx)
	for i := 0; i < idx; i++ {
		out[i] = siblings[idx-1-i]
	}
	return out
}

// followingOf returns every node after n in document order, excluding n's
// own descendants, attributes, and namespace nodes, by climbing the
// ancestor chain and taking each level's following siblings with their
// full descendant subtrees.
func followingOf(n dom.Node) []dom.Node {
	var out []dom.Node
	cur := n
	for {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		siblings := parent.Children()
		idx := indexAmong(siblings, cur)
		if idx >= 0 {
			for i := idx + 1; i < len(siblings); i++ {
				out = append(out, subtreePreOrder(siblings[i])...)
			}
		}
		cur = parent
	}
	return out
}

// precedingOf mirrors followingOf in the reverse direction.
func precedingOf(n dom.Node) []dom.Node {
	var out []dom.Node
	cur := n
	for {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		siblings := parent.Children()
		idx := indexAmong(siblings, cur)
		if idx > 0 {
			for i := idx - 1; i >= 0; i-- {
				out = append(out, subtreeReversePreOrder(siblings[i])...)
			}
		}
		cur = parent
	}
	return out
}

// attributesOf excludes namespace-declaration attributes (xmlns, xmlns:*):
// those surface only on the namespace axis.
func attributesOf(n dom.Node) []dom.Node {
	el, ok := n.(*dom.Element)
	if !ok {
		return nil
	}
	var out []dom.Node
	for _, a := range el.Attributes() {
		if a.Prefix() == "xmlns" || (a.Prefix() == "" && a.LocalName() == "xmlns") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// namespacesOf walks from the context element up to the root, recording
// the nearest-declared URI for each prefix; the implicit "xml" binding is
// always present and cannot be shadowed.
func namespacesOf(n dom.Node) []dom.Node {
	el, ok := n.(*dom.Element)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []dom.Node
	index := 0
	add := func(prefix, uri string) {
		if seen[prefix] {
			return
		}
		seen[prefix] = true
		out = append(out, &NamespaceNode{prefix: prefix, uri: uri, owner: el, index: index})
		index++
	}
	add("xml", "http://www.w3.org/XML/1998/namespace")
	for cur := dom.Node(el); cur != nil; {
		ce, ok := cur.(*dom.Element)
		if !ok {
			break
		}
		for _, a := range ce.Attributes() {
			switch {
			case a.Prefix() == "xmlns":
				add(a.LocalName(), a.Value())
			case a.Prefix() == "" && a.LocalName() == "xmlns":
				add("", a.Value())
			}
		}
		cur = ce.Parent()
	}
	return out
}
