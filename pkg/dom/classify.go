package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TagSet is a set of lower-cased tag names. It stands in for simple selectors
// such as "ul,ol".
type TagSet map[string]struct{}

// NewTagSet builds a set from tag names.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[strings.ToLower(t)] = struct{}{}
	}
	return s
}

// Has reports whether n is an element whose tag is in the set.
func (s TagSet) Has(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := s[strings.ToLower(n.Data)]
	return ok
}

// HasTag reports whether tag is in the set.
func (s TagSet) HasTag(tag string) bool {
	_, ok := s[strings.ToLower(tag)]
	return ok
}

var (
	blockTags = NewTagSet(
		"body", "hr", "p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"address", "pre", "form", "table", "tbody", "thead", "tfoot",
		"th", "tr", "td", "li", "ol", "ul", "blockquote", "center",
		"details", "section", "article", "aside", "nav", "main",
		"header", "hgroup", "footer", "fieldset", "dl", "dt", "dd",
		"figure", "figcaption",
	)

	// void elements, plus iframe and object whose content is not part of the
	// editable tree
	voidTags = NewTagSet(
		"area", "base", "basefont", "br", "col", "command", "embed",
		"frame", "hr", "iframe", "img", "input", "isindex", "keygen",
		"link", "meta", "object", "param", "source", "track", "wbr",
	)

	ListTags     = NewTagSet("ul", "ol")
	ListItemTags = NewTagSet("li")
)

// CanHaveChildren reports whether n may contain child nodes.
func CanHaveChildren(n *html.Node) bool {
	switch KindOf(n) {
	case DocumentKind, FragmentKind:
		return true
	case ElementKind:
		return !voidTags.Has(n)
	}
	return false
}

// IsInline reports whether n takes part in inline formatting. Text is inline;
// nil and other non-element nodes are not. The code element counts as inline
// unless codeAsBlock is set.
func IsInline(n *html.Node, codeAsBlock bool) bool {
	switch KindOf(n) {
	case TextKind:
		return true
	case ElementKind:
	default:
		return false
	}
	tag := TagName(n)
	if tag == "code" {
		return !codeAsBlock
	}
	return !blockTags.HasTag(tag)
}

// IsBlock reports whether n is a block-level element. Only elements are
// blocks; comments and other non-inline nodes are not.
func IsBlock(n *html.Node, codeAsBlock bool) bool {
	return KindOf(n) == ElementKind && !IsInline(n, codeAsBlock)
}
