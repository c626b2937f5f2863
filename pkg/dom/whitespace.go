package dom

import (
	"regexp"
	"strings"

	"contentfix/internal/css"

	"golang.org/x/net/html"
)

// DefaultIgnoreClass marks editor-internal elements (cursors, placeholders)
// that are looked past when finding the text before a node.
const DefaultIgnoreClass = "contentfix-ignore"

const zeroWidthSpace = "\u200b"

// whiteSpaceProperty is the name styles are looked up by
var whiteSpaceProperty = css.CamelCase("white-space")

var (
	spaceRun       = regexp.MustCompile(`[\t\n\r ]+`)
	blankRun       = regexp.MustCompile(`[\t ]+`)
	endsWithSpace  = regexp.MustCompile(`[\t\n\r ]$`)
	vendorPrefixed = regexp.MustCompile(`^-[a-z]+-`)
)

// Collapser removes whitespace that does not render from the text nodes of
// a tree, following the rules a browser applies to white-space: normal.
type Collapser struct {
	// Styles supplies each element's white-space mode. Nil means
	// DefaultStyler.
	Styles Styler
	// IgnoreClass marks elements skipped when looking back for the content
	// that precedes a text node.
	IgnoreClass string
}

// RemoveWhiteSpace normalizes the whitespace below root using inline styles
// and DefaultIgnoreClass.
func RemoveWhiteSpace(root *html.Node, preserveNewLines bool) {
	Collapser{IgnoreClass: DefaultIgnoreClass}.RemoveWhiteSpace(root, preserveNewLines)
}

// RemoveWhiteSpace normalizes the whitespace below root in place.
//
// Zero-width spaces are dropped. The content preceding or following a text
// node may lie outside root, but only text below root is changed. Leading
// whitespace is dropped when
// nothing inline precedes the text or the preceding inline content already
// ends in whitespace; trailing whitespace is dropped when nothing inline
// follows.
// Text left empty is removed from the tree and remaining runs collapse to a
// single space. Subtrees styled white-space: pre or pre-wrap are left alone;
// pre-line, or preserveNewLines, keeps line breaks.
func (c Collapser) RemoveWhiteSpace(root *html.Node, preserveNewLines bool) {
	if root == nil {
		return
	}
	if c.Styles == nil {
		c.Styles = DefaultStyler{}
	}
	p := &collapsePass{Collapser: c, root: root, preserve: preserveNewLines}
	p.collapse(root, preserveNewLines)
}

type collapsePass struct {
	Collapser
	root     *html.Node
	preserve bool // as requested by the caller
}

func (p *collapsePass) collapse(root *html.Node, preserveNewLines bool) {
	mode := p.whiteSpace(root)
	if preformatted(mode) {
		return
	}
	if strings.HasSuffix(mode, "line") {
		preserveNewLines = true
	}

	for n := root.FirstChild; n != nil; {
		next := n.NextSibling
		switch n.Type {
		case html.ElementNode:
			if n.FirstChild != nil {
				p.collapse(n, preserveNewLines)
			}
		case html.TextNode:
			p.collapseText(n, preserveNewLines)
		}
		n = next
	}
}

func (p *collapsePass) collapseText(n *html.Node, preserveNewLines bool) {
	next := GetSibling(n, false)
	previous := p.previous(n)

	trimStart := false
	if previous != nil {
		if last := p.deepestLast(previous); last != nil {
			if last.Type == html.TextNode {
				trimStart = endsWithSpace.MatchString(last.Data)
			} else {
				trimStart = !IsInline(last, false)
			}
		}
	}

	text := strings.ReplaceAll(n.Data, zeroWidthSpace, "")
	cut := whitespaceChars(preserveNewLines)
	if !flowsInline(previous) || trimStart {
		text = strings.TrimLeft(text, cut)
	}
	if !flowsInline(next) {
		text = strings.TrimRight(text, cut)
	}

	if text == "" {
		Remove(n)
		p.retrim(previous)
		return
	}
	if preserveNewLines {
		n.Data = blankRun.ReplaceAllString(text, " ")
	} else {
		n.Data = spaceRun.ReplaceAllString(text, " ")
	}
}

// retrim strips trailing whitespace from the text that ends at or inside
// previous once a removal has left that text in front of block content or the
// end of the tree, where its trailing whitespace no longer renders.
func (p *collapsePass) retrim(previous *html.Node) {
	t := p.lastText(previous)
	for t != nil && Contains(p.root, t) {
		if flowsInline(GetSibling(t, false)) {
			return
		}
		mode := p.whiteSpace(t)
		if preformatted(mode) {
			return
		}
		trimmed := strings.TrimRight(t.Data, whitespaceChars(p.preserve || strings.HasSuffix(mode, "line")))
		if trimmed != "" {
			t.Data = trimmed
			return
		}
		before := p.previous(t)
		Remove(t)
		t = p.lastText(before)
	}
}

// previous returns the node before n in document order outside n's subtree,
// skipping ignored elements.
func (p *collapsePass) previous(n *html.Node) *html.Node {
	prev := GetSibling(n, true)
	for prev != nil && HasClass(prev, p.IgnoreClass) {
		prev = GetSibling(prev, true)
	}
	return prev
}

// flowsInline reports whether n is rendered inline next to its neighbours.
// Elements hidden by default, such as head, are not.
func flowsInline(n *html.Node) bool {
	if n == nil || !IsInline(n, false) {
		return false
	}
	display, ok := UserAgentDefault(n, "display")
	return !ok || display != "none"
}

// deepestLast descends along last children, stepping back over ignored
// elements. It returns nil if it runs off the start of the tree.
func (p *collapsePass) deepestLast(n *html.Node) *html.Node {
	for n != nil && n.LastChild != nil {
		n = n.LastChild
		for n != nil && HasClass(n, p.IgnoreClass) {
			n = GetSibling(n, true)
		}
	}
	return n
}

func (p *collapsePass) lastText(n *html.Node) *html.Node {
	last := p.deepestLast(n)
	if last == nil || last.Type != html.TextNode {
		return nil
	}
	return last
}

func (p *collapsePass) whiteSpace(n *html.Node) string {
	mode := strings.ToLower(strings.TrimSpace(p.Styles.ComputedStyle(n, whiteSpaceProperty)))
	return vendorPrefixed.ReplaceAllString(mode, "")
}

func preformatted(mode string) bool {
	return mode == "pre" || mode == "pre-wrap"
}

func whitespaceChars(preserveNewLines bool) string {
	if preserveNewLines {
		return "\t "
	}
	return "\t\n\r "
}
