package dom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// ParsingError reports a malformed-XML failure while building a tree from
// text, carrying the byte offset the underlying XML decoder was at.
type ParsingError struct {
	Message string
	Offset  int64
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("xml: %s (offset %d)", e.Message, e.Offset)
}

// BuilderOptions configures NewBuilderFromReader. The zero value requires
// well-formed, UTF-8-or-declared-charset XML.
type BuilderOptions struct {
	// CharsetReader overrides the default charset resolution (IANA name ->
	// decoder via golang.org/x/text). Most callers leave this nil.
	CharsetReader func(charset string, input io.Reader) (io.Reader, error)
}

// Build parses xmlText into a Root, the document collaborator the xpath
// package evaluates against.
func Build(xmlText string) (*Root, error) {
	return NewBuilderFromReader(strings.NewReader(xmlText), BuilderOptions{})
}

// NewBuilderFromReader parses XML from r into a Root. A declared encoding
// other than UTF-8/US-ASCII is resolved through golang.org/x/text, matching
// the teacher's decoder.
func NewBuilderFromReader(r io.Reader, opts BuilderOptions) (*Root, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = opts.CharsetReader
	if dec.CharsetReader == nil {
		dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := ianaindex.IANA.Encoding(charset)
			if err != nil || enc == nil {
				return nil, fmt.Errorf("unsupported charset: %s", charset)
			}
			return enc.NewDecoder().Reader(input), nil
		}
	}

	root := NewRoot()
	var stack []*Element
	var scope []prefixBinding

	current := func() Node {
		if len(stack) == 0 {
			return root
		}
		return stack[len(stack)-1]
	}
	appendChild := func(n Node) {
		switch p := current().(type) {
		case *Root:
			p.AppendChild(n)
		case *Element:
			p.AppendChild(n)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParsingError{Message: err.Error(), Offset: dec.InputOffset()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scopeMark := len(scope)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					scope = append(scope, prefixBinding{prefix: a.Name.Local, uri: a.Value})
				} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
					scope = append(scope, prefixBinding{prefix: "", uri: a.Value})
				}
			}

			qname := t.Name.Local
			if prefix := reversePrefix(scope, t.Name.Space); prefix != "" {
				qname = prefix + ":" + t.Name.Local
			}
			el := NewElement(qname)
			el.SetNamespace(t.Name.Space)

			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					el.SetAttribute("xmlns:"+a.Name.Local, a.Value)
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					el.SetAttribute("xmlns", a.Value)
					continue
				}
				aqname := a.Name.Local
				if prefix := reversePrefix(scope, a.Name.Space); prefix != "" && a.Name.Space != "" {
					aqname = prefix + ":" + a.Name.Local
				}
				attr := el.SetAttribute(aqname, a.Value)
				attr.SetNamespace(a.Name.Space)
			}

			appendChild(el)
			stack = append(stack, el)
			el.scopeMark = scopeMark

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParsingError{Message: "unmatched end element", Offset: dec.InputOffset()}
			}
			top := stack[len(stack)-1]
			scope = scope[:top.scopeMark]
			stack = stack[:len(stack)-1]

		case xml.CharData:
			// Character data outside the document element (such as the
			// whitespace after the XML declaration) is dropped: the root
			// holds only elements, comments and processing instructions.
			if len(stack) > 0 {
				appendChild(NewText(string(t)))
			}

		case xml.Comment:
			appendChild(NewComment(string(t)))

		case xml.ProcInst:
			appendChild(NewProcessingInstruction(t.Target, string(t.Inst)))
		}
	}

	return root, nil
}

type prefixBinding struct {
	prefix, uri string
}

// reversePrefix finds the innermost (last-declared) prefix bound to uri in
// scope, or "" if none is bound (including when uri itself is "").
func reversePrefix(scope []prefixBinding, uri string) string {
	if uri == "" {
		return ""
	}
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i].uri == uri {
			return scope[i].prefix
		}
	}
	return ""
}
