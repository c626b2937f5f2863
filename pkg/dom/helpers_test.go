package dom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseBody parses src as the content of a detached body element.
func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	require.NoError(t, err)
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body
}

// render serializes the children of n.
func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&buf, c))
	}
	return buf.String()
}

// byID returns the element below root with the given id.
func byID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()
	var found *html.Node
	Traverse(root, 0, func(n *html.Node) Action {
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
			return Stop
		}
		return Continue
	})
	require.NotNil(t, found, "no element with id %q", id)
	return found
}

func label(n *html.Node) string {
	if id, ok := Attr(n, "id"); ok {
		return id
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	return TagName(n)
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}
