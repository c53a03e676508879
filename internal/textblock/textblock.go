// Package textblock renders the catalogue's rich-text boxes (rules text,
// flavor text) into plain text with symbols written as brace tokens.
package textblock

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/guarzo/cardrip/internal/diag"
	"github.com/guarzo/cardrip/internal/symbols"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type kind int

const (
	kindText kind = iota
	kindEmphasis
	kindSymbol
	kindElement
	kindOther
)

func classify(n *html.Node) kind {
	switch n.Type {
	case html.TextNode:
		return kindText
	case html.ElementNode:
		switch n.DataAtom {
		case atom.I, atom.Em:
			return kindEmphasis
		case atom.Img:
			return kindSymbol
		}
		return kindElement
	}
	return kindOther
}

// Render renders every container in the selection and joins the results with
// a blank line. The result is not trimmed.
func Render(containers *goquery.Selection, sink diag.Sink) string {
	var b strings.Builder
	for i, n := range containers.Nodes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		renderChildren(&b, n, sink)
	}
	return b.String()
}

func renderChildren(b *strings.Builder, parent *html.Node, sink diag.Sink) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch classify(c) {
		case kindText:
			b.WriteString(c.Data)
		case kindEmphasis:
			renderChildren(b, c, sink)
		case kindSymbol:
			b.WriteString(symbols.Encode(attr(c, "alt"), sink))
		case kindElement:
			diag.Warnf(sink, diag.UnsupportedTag, "unsupported text child tag name: %s", c.Data)
		default:
			diag.Warnf(sink, diag.UnsupportedNode, "unknown text child type: %s", nodeTypeName(c.Type))
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeTypeName(t html.NodeType) string {
	switch t {
	case html.ErrorNode:
		return "error"
	case html.TextNode:
		return "text"
	case html.DocumentNode:
		return "document"
	case html.ElementNode:
		return "element"
	case html.CommentNode:
		return "comment"
	case html.DoctypeNode:
		return "doctype"
	case html.RawNode:
		return "raw"
	}
	return "unknown"
}
