package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies a tree node. x/net/html has no distinct fragment type, so
// fragments are document nodes carrying FragmentName as their Data.
type Kind int

const (
	UnknownKind Kind = iota
	ElementKind
	TextKind
	CommentKind
	DocumentKind
	FragmentKind
)

// FragmentName marks a document node as a freestanding fragment.
const FragmentName = "#document-fragment"

func (k Kind) String() string {
	switch k {
	case ElementKind:
		return "element"
	case TextKind:
		return "text"
	case CommentKind:
		return "comment"
	case DocumentKind:
		return "document"
	case FragmentKind:
		return "fragment"
	}
	return "unknown"
}

// KindOf returns the kind of n. A nil node has UnknownKind.
func KindOf(n *html.Node) Kind {
	if n == nil {
		return UnknownKind
	}
	switch n.Type {
	case html.ElementNode:
		return ElementKind
	case html.TextNode:
		return TextKind
	case html.CommentNode:
		return CommentKind
	case html.DocumentNode:
		if n.Data == FragmentName {
			return FragmentKind
		}
		return DocumentKind
	}
	return UnknownKind
}

// TagName returns the lower-cased tag name of an element, or "" for any
// other node.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// NewFragment creates an empty, ownerless fragment.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode, Data: FragmentName}
}

// IsFragment reports whether n is a fragment created by NewFragment.
func IsFragment(n *html.Node) bool {
	return KindOf(n) == FragmentKind
}

// CreateElement creates a detached element. Attributes are added in key order
// so that serialization is stable.
func CreateElement(tag string, attrs map[string]string) *html.Node {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}
	return n
}

// CloneShallow copies n without its children and without tree links.
func CloneShallow(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendChild moves child to the end of parent's children. A fragment child
// is emptied into parent in order.
func AppendChild(parent, child *html.Node) {
	if IsFragment(child) {
		for c := child.FirstChild; c != nil; c = child.FirstChild {
			child.RemoveChild(c)
			parent.AppendChild(c)
		}
		return
	}
	Remove(child)
	parent.AppendChild(child)
}

// InsertBefore moves n so that it sits immediately before ref. A fragment is
// emptied in order. ref must be attached.
func InsertBefore(n, ref *html.Node) {
	parent := ref.Parent
	if IsFragment(n) {
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
			parent.InsertBefore(c, ref)
		}
		return
	}
	Remove(n)
	parent.InsertBefore(n, ref)
}

// Replace puts n in old's position and detaches old.
func Replace(n, old *html.Node) {
	if old.Parent == nil {
		return
	}
	InsertBefore(n, old)
	Remove(old)
}

// Attr returns the value of attribute key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether element n carries class name.
func HasClass(n *html.Node, name string) bool {
	if name == "" || n == nil || n.Type != html.ElementNode {
		return false
	}
	class, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}

// Style returns the inline style text of n.
func Style(n *html.Node) string {
	s, _ := Attr(n, "style")
	return s
}

// SetStyle replaces the inline style text of n. An empty text removes the
// attribute.
func SetStyle(n *html.Node, text string) {
	if strings.TrimSpace(text) == "" {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", text)
}
