// Package dom is the document collaborator the xpath package evaluates
// against: a minimal XML node tree whose only construction calls append
// nodes or set a namespace URI. It deliberately does not attempt to be a
// general-purpose DOM (no removal or replacement of nodes, no Range, no
// TreeWalker) — XPath only needs identity-comparable nodes with parent
// navigation, ordered children, a string value, and a document-order
// comparator.
package dom

import "strings"

// Kind identifies the node category, mirroring the node kinds an XPath 1.0
// document collaborator must expose (spec's node-test and axis engine switch
// on these).
type Kind int

const (
	KindRoot Kind = iota
	KindElement
	KindAttribute
	KindText
	KindComment
	KindProcessingInstruction
	KindNamespace
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindProcessingInstruction:
		return "processing-instruction"
	case KindNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// ExpandedName is a namespace URI paired with a local part, the XPath 1.0
// notion of a qualified name once its prefix has been resolved.
type ExpandedName struct {
	URI   string
	Local string
}

// Node is the contract the xpath package's axis engine and evaluator walk.
// All concrete types in this package (and the xpath package's synthesized
// namespace node) implement it.
type Node interface {
	Kind() Kind
	Parent() Node
	Children() []Node
	StringValue() string

	// LocalName, Prefix and NamespaceURI are meaningful for elements and
	// attributes; the other kinds in this package return "". The xpath
	// package's namespace nodes report their prefix as LocalName.
	LocalName() string
	Prefix() string
	NamespaceURI() string

	// Name is the node's qualified name as it appeared in the source
	// (prefix:local, or just local with no prefix), used by name()/
	// local-name() style functions. Comments, text and the root have no
	// name.
	Name() string

	// Position is the node's path from the document root, used to derive
	// total document order; see position.go. Exported so that node kinds
	// defined outside this package (the xpath package's synthesized
	// namespace nodes) can still implement Node.
	Position() Position
}

// Precedes reports whether a comes strictly before b in document order.
func Precedes(a, b Node) bool {
	return ComparePositions(a.Position(), b.Position()) < 0
}

// SameNode reports node identity (not value equality) for de-duplication.
func SameNode(a, b Node) bool {
	return a == b
}

// Root is the document root: the parent of the single document element and
// of any top-level comments or processing instructions. It has no node of
// its own in the surface XML; it is what an absolute path step starts from.
type Root struct {
	children []Node
}

// NewRoot creates an empty root. Use AppendChild to attach the document
// element (and any leading/trailing comments or processing instructions).
func NewRoot() *Root { return &Root{} }

func (r *Root) Kind() Kind          { return KindRoot }
func (r *Root) Parent() Node        { return nil }
func (r *Root) Children() []Node    { return r.children }
func (r *Root) LocalName() string   { return "" }
func (r *Root) Prefix() string      { return "" }
func (r *Root) NamespaceURI() string { return "" }
func (r *Root) Name() string        { return "" }
func (r *Root) Position() Position  { return nil }

func (r *Root) StringValue() string {
	var b strings.Builder
	writeDescendantText(r, &b)
	return b.String()
}

// AppendChild attaches an element, comment, or processing instruction as a
// top-level child of the root, in source order.
func (r *Root) AppendChild(n Node) {
	switch c := n.(type) {
	case *Element:
		c.parent = r
		c.index = len(r.children)
	case *Comment:
		c.parent = r
		c.index = len(r.children)
	case *ProcessingInstruction:
		c.parent = r
		c.index = len(r.children)
	}
	r.children = append(r.children, n)
}

// DocumentElement returns the root's single element child, or nil if none
// has been attached yet.
func (r *Root) DocumentElement() *Element {
	for _, c := range r.children {
		if e, ok := c.(*Element); ok {
			return e
		}
	}
	return nil
}

func writeDescendantText(n Node, b *strings.Builder) {
	switch n.Kind() {
	case KindText:
		b.WriteString(n.(*Text).data)
	default:
		for _, c := range n.Children() {
			writeDescendantText(c, b)
		}
	}
}

// Element is an XML element node.
type Element struct {
	local, prefix, uri string
	parent             Node
	index              int
	children           []Node
	attrs              []*Attribute
	scopeMark          int // builder bookkeeping: namespace-scope depth at open tag
}

// NewElement creates a detached element with the given qualified name. Use
// SetNamespace to record its resolved namespace URI, if any.
func NewElement(qname string) *Element {
	local, prefix := splitQName(qname)
	return &Element{local: local, prefix: prefix}
}

func splitQName(qname string) (local, prefix string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[i+1:], qname[:i]
	}
	return qname, ""
}

func (e *Element) Kind() Kind        { return KindElement }
func (e *Element) Parent() Node      { return e.parent }
func (e *Element) Children() []Node  { return e.children }
func (e *Element) LocalName() string { return e.local }
func (e *Element) Prefix() string    { return e.prefix }
func (e *Element) NamespaceURI() string {
	return e.uri
}
func (e *Element) Name() string {
	if e.prefix == "" {
		return e.local
	}
	return e.prefix + ":" + e.local
}

// SetNamespace records the element's resolved namespace URI.
func (e *Element) SetNamespace(uri string) { e.uri = uri }

// Attributes returns the element's attributes in source order.
func (e *Element) Attributes() []*Attribute { return e.attrs }

// SetAttribute appends an attribute to the element, in source order.
func (e *Element) SetAttribute(qname, value string) *Attribute {
	local, prefix := splitQName(qname)
	a := &Attribute{local: local, prefix: prefix, value: value, owner: e, index: len(e.attrs)}
	e.attrs = append(e.attrs, a)
	return a
}

// AppendChild appends an element, text, comment, or processing-instruction
// child, in source order.
func (e *Element) AppendChild(n Node) {
	idx := len(e.children)
	switch c := n.(type) {
	case *Element:
		c.parent, c.index = e, idx
	case *Text:
		c.parent, c.index = e, idx
	case *Comment:
		c.parent, c.index = e, idx
	case *ProcessingInstruction:
		c.parent, c.index = e, idx
	}
	e.children = append(e.children, n)
}

func (e *Element) StringValue() string {
	var b strings.Builder
	writeDescendantText(e, &b)
	return b.String()
}

// Attribute is an XML attribute node. It never appears in Children(); the
// axis engine reaches it only via the attribute axis.
type Attribute struct {
	local, prefix, uri, value string
	owner                     *Element
	index                     int
}

func (a *Attribute) Kind() Kind          { return KindAttribute }
func (a *Attribute) Parent() Node        { return a.owner }
func (a *Attribute) Children() []Node    { return nil }
func (a *Attribute) LocalName() string   { return a.local }
func (a *Attribute) Prefix() string      { return a.prefix }
func (a *Attribute) NamespaceURI() string { return a.uri }
func (a *Attribute) Name() string {
	if a.prefix == "" {
		return a.local
	}
	return a.prefix + ":" + a.local
}
func (a *Attribute) Value() string        { return a.value }
func (a *Attribute) StringValue() string  { return a.value }
func (a *Attribute) SetNamespace(uri string) { a.uri = uri }
func (a *Attribute) Owner() *Element      { return a.owner }

// Text is a text (character data) node.
type Text struct {
	data   string
	parent Node
	index  int
}

func NewText(data string) *Text { return &Text{data: data} }

func (t *Text) Kind() Kind           { return KindText }
func (t *Text) Parent() Node         { return t.parent }
func (t *Text) Children() []Node     { return nil }
func (t *Text) LocalName() string    { return "" }
func (t *Text) Prefix() string       { return "" }
func (t *Text) NamespaceURI() string { return "" }
func (t *Text) Name() string         { return "" }
func (t *Text) StringValue() string  { return t.data }
func (t *Text) Data() string         { return t.data }

// Comment is an XML comment node.
type Comment struct {
	data   string
	parent Node
	index  int
}

func NewComment(data string) *Comment { return &Comment{data: data} }

func (c *Comment) Kind() Kind           { return KindComment }
func (c *Comment) Parent() Node         { return c.parent }
func (c *Comment) Children() []Node     { return nil }
func (c *Comment) LocalName() string    { return "" }
func (c *Comment) Prefix() string       { return "" }
func (c *Comment) NamespaceURI() string { return "" }
func (c *Comment) Name() string         { return "" }
func (c *Comment) StringValue() string  { return c.data }
func (c *Comment) Data() string         { return c.data }

// ProcessingInstruction is an XML processing-instruction node.
type ProcessingInstruction struct {
	target, data string
	parent       Node
	index        int
}

func NewProcessingInstruction(target, data string) *ProcessingInstruction {
	return &ProcessingInstruction{target: target, data: data}
}

func (p *ProcessingInstruction) Kind() Kind           { return KindProcessingInstruction }
func (p *ProcessingInstruction) Parent() Node         { return p.parent }
func (p *ProcessingInstruction) Children() []Node     { return nil }
func (p *ProcessingInstruction) LocalName() string    { return "" }
func (p *ProcessingInstruction) Prefix() string       { return "" }
func (p *ProcessingInstruction) NamespaceURI() string { return "" }
func (p *ProcessingInstruction) Name() string         { return p.target }
func (p *ProcessingInstruction) Target() string       { return p.target }
func (p *ProcessingInstruction) Data() string          { return p.data }
func (p *ProcessingInstruction) StringValue() string   { return p.data }
