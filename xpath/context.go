package xpath

import "github.com/gogo-agent/xpath/dom"

// Function is a registered XPath function: core or user-extended, keyed by
// expanded (namespace-resolved) name in a Context's function registry.
type Function func(ctx *EvaluationContext, args []Value) (Value, error)

// Context is the static evaluation context (4.8): a starting node, a
// variable binding map, a namespace-prefix map, and a function registry.
// It never changes once evaluation begins; EvaluationContext carries the
// per-step parts that do.
type Context struct {
	namespaces map[string]string
	variables  map[dom.ExpandedName]Value
	functions  map[dom.ExpandedName]Function
	root       dom.Node
}

// NewContext builds a Context rooted at root, with the core function
// library pre-registered and the implicit "xml" namespace prefix bound.
func NewContext(root dom.Node) *Context {
	c := &Context{
		namespaces: map[string]string{"xml": "http://www.w3.org/XML/1998/namespace"},
		variables:  map[dom.ExpandedName]Value{},
		functions:  map[dom.ExpandedName]Function{},
		root:       root,
	}
	registerCoreFunctions(c)
	return c
}

// Root returns the context's starting node.
func (c *Context) Root() dom.Node { return c.root }

// SetNamespace binds prefix to uri for qname resolution in variable,
// function, and expression lookups performed against this context.
func (c *Context) SetNamespace(prefix, uri string) *Context {
	c.namespaces[prefix] = uri
	return c
}

// SetVariable binds qname (optionally "prefix:local") to value. The prefix,
// if any, must already be bound via SetNamespace.
func (c *Context) SetVariable(qname string, value Value) error {
	q := ParseQName(qname)
	uri, err := c.resolvePrefixStatic(q.Prefix)
	if err != nil {
		return err
	}
	c.variables[dom.ExpandedName{URI: uri, Local: q.Local}] = value
	return nil
}

// SetFunction registers a callable under qname, shadowing any core function
// of the same expanded name.
func (c *Context) SetFunction(qname string, fn Function) error {
	q := ParseQName(qname)
	uri, err := c.resolvePrefixStatic(q.Prefix)
	if err != nil {
		return err
	}
	c.functions[dom.ExpandedName{URI: uri, Local: q.Local}] = fn
	return nil
}

// Variable looks up a variable by its already-resolved expanded name.
func (c *Context) Variable(name dom.ExpandedName) (Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Function looks up a function by its already-resolved expanded name.
func (c *Context) Function(name dom.ExpandedName) (Function, bool) {
	f, ok := c.functions[name]
	return f, ok
}

func (c *Context) resolvePrefixStatic(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	uri, ok := c.namespaces[prefix]
	if !ok {
		return "", &EvalError{Kind: UnknownPrefix, Name: prefix}
	}
	return uri, nil
}

// EvaluationContextFor produces the EvaluationContext an expression is
// evaluated against: node as current node, proximity position and size of
// 1 (a lone context node has no siblings to be proximate to).
func (c *Context) EvaluationContextFor(node dom.Node) *EvaluationContext {
	return &EvaluationContext{Static: c, Node: node, Position: 1, Size: 1}
}

// EvaluationContext is the per-step context (4.8): current node, 1-based
// proximity position and size, plus the shared, immutable static context.
// Child contexts replace only these three fields.
type EvaluationContext struct {
	Static   *Context
	Node     dom.Node
	Position int
	Size     int
}

func (ctx *EvaluationContext) withCandidate(node dom.Node, position, size int) *EvaluationContext {
	return &EvaluationContext{Static: ctx.Static, Node: node, Position: position, Size: size}
}

func (ctx *EvaluationContext) resolvePrefix(prefix string) (string, error) {
	return ctx.Static.resolvePrefixStatic(prefix)
}

// ParseQName splits "prefix:local" into a QName; a name with no colon has
// an empty Prefix.
func ParseQName(s string) QName {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return QName{Prefix: s[:i], Local: s[i+1:]}
		}
	}
	return QName{Local: s}
}
