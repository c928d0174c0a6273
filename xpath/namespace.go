package xpath

import "github.com/gogo-agent/xpath/dom"

// NamespaceNode is the node the namespace axis synthesizes: it is not part
// of the dom package's tree (no source XML node carries it directly), but
// implements dom.Node so it flows through node-sets, the document-order
// comparator, and node tests uniformly alongside real nodes.
type NamespaceNode struct {
	prefix, uri string
	owner       *dom.Element
	index       int
}

func (n *NamespaceNode) Kind() dom.Kind          { return dom.KindNamespace }
func (n *NamespaceNode) Parent() dom.Node        { return n.owner }
func (n *NamespaceNode) Children() []dom.Node    { return nil }
func (n *NamespaceNode) StringValue() string     { return n.uri }
func (n *NamespaceNode) LocalName() string       { return n.prefix }
func (n *NamespaceNode) Prefix() string          { return "" }
func (n *NamespaceNode) NamespaceURI() string    { return "" }
func (n *NamespaceNode) Name() string            { return n.prefix }

// Position places the namespace node in the BandNamespace slot of its
// owning element's position, so it sorts immediately after the element and
// before the element's attributes and real children (document order's
// namespace/attribute placement rule).
func (n *NamespaceNode) Position() dom.Position {
	owner := n.owner.Position()
	out := make(dom.Position, len(owner)+1)
	copy(out, owner)
	out[len(owner)] = dom.Slot(dom.BandNamespace, n.index)
	return out
}
