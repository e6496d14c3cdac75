package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one element of a parsed source document.
type Node struct {
	Space    string // resolved namespace URI
	Name     string // local name
	Attrs    []Attr
	Children []*Node
	Text     string // trimmed character data directly under this element
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// ParseXML reads an XML document into memory and returns its root element.
// Any syntax error, a missing root or a second top-level element yields ErrMalformedDocument.
// Documents declaring a non-UTF-8 encoding (ISO-8859-1, windows-1252, ...) are transcoded.
func ParseXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
		texts []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Name: t.Name.Local, Attrs: attrsOf(t.Attr)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements (%s, %s)", ErrMalformedDocument, root.Name, n.Name)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}

		case xml.EndElement:
			top := len(stack) - 1
			stack[top].Text = strings.TrimSpace(texts[top].String())
			stack = stack[:top]
			texts = texts[:top]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element %s", ErrMalformedDocument, stack[len(stack)-1].Name)
	}
	return root, nil
}

func attrsOf(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	for _, a := range in {
		// namespace declarations are not data
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		out = append(out, Attr{Name: a.Name.Local, Value: strings.TrimSpace(a.Value)})
	}
	return out
}
