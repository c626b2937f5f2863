package dom

import (
	"fmt"

	"contentfix/internal/css"

	"golang.org/x/net/html"
)

// IssueKind names a nesting violation.
type IssueKind int

const (
	// BlockInInline is a block element inside an inline element.
	BlockInInline IssueKind = iota + 1
	// ListInList is a ul or ol placed directly inside another list rather
	// than inside one of its items.
	ListInList
)

func (k IssueKind) String() string {
	switch k {
	case BlockInInline:
		return "block-in-inline"
	case ListInList:
		return "list-in-list"
	}
	return fmt.Sprintf("IssueKind(%d)", int(k))
}

// Issue is one nesting violation: Node sits illegally inside Parent.
type Issue struct {
	Kind   IssueKind
	Node   *html.Node
	Parent *html.Node
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: <%s> inside <%s>", i.Kind, TagName(i.Node), TagName(i.Parent))
}

// Repairer finds and fixes nesting violations.
type Repairer struct {
	// CodeAsBlock treats code elements as blocks. With it unset a block
	// inside code is lifted out like any other.
	CodeAsBlock bool
}

// FindNestingIssues reports the nesting violations below root without
// changing the tree. Code elements count as blocks.
func FindNestingIssues(root *html.Node) []Issue {
	return Repairer{CodeAsBlock: true}.FindNestingIssues(root)
}

// FixNesting repairs the nesting violations below root in place. Code
// elements count as blocks. See Repairer.FixNesting.
func FixNesting(root *html.Node) []Issue {
	return Repairer{CodeAsBlock: true}.FixNesting(root)
}

// FindNestingIssues reports the nesting violations below root without
// changing the tree.
func (r Repairer) FindNestingIssues(root *html.Node) []Issue {
	var issues []Issue
	Traverse(root, 0, func(n *html.Node) Action {
		if !IsBlock(n, r.CodeAsBlock) {
			return Continue
		}
		if IsInline(n.Parent, r.CodeAsBlock) {
			issues = append(issues, Issue{Kind: BlockInInline, Node: n, Parent: n.Parent})
		}
		if ListTags.Has(n) && ListTags.Has(n.Parent) {
			issues = append(issues, Issue{Kind: ListInList, Node: n, Parent: n.Parent})
		}
		return Continue
	})
	return issues
}

// FixNesting repairs the nesting violations below root in place and returns
// the repairs it made, in document order.
//
// A block inside inline elements is lifted out of the outermost of them. The
// inline content before the block is split off into clones placed ahead of it,
// the content after it stays in the original inline element, and the outermost
// inline element's style text is prepended to the block's own style.
//
// A list directly inside a list is moved into the nearest preceding li, or
// into a new li when there is none.
func (r Repairer) FixNesting(root *html.Node) []Issue {
	var fixed []Issue
	Traverse(root, 0, func(n *html.Node) Action {
		if !IsBlock(n, r.CodeAsBlock) {
			return Continue
		}
		if parent := n.Parent; IsInline(parent, r.CodeAsBlock) {
			if r.hoist(n) {
				fixed = append(fixed, Issue{Kind: BlockInInline, Node: n, Parent: parent})
			}
		}
		if parent := n.Parent; ListTags.Has(n) && ListTags.Has(parent) {
			wrapInListItem(n)
			fixed = append(fixed, Issue{Kind: ListInList, Node: n, Parent: parent})
		}
		return Continue
	})
	return fixed
}

// hoist moves block element n out of its inline ancestors. It reports false
// when the outermost inline ancestor is a detached root.
func (r Repairer) hoist(n *html.Node) bool {
	last := n.Parent
	for IsInline(last.Parent, r.CodeAsBlock) {
		last = last.Parent
	}
	if last.Parent == nil {
		return false
	}

	before := ExtractContents(last, n)
	if style := Style(last); style != "" {
		SetStyle(n, css.MergeStyleText(style, Style(n)))
	}
	if !onlyAncestorClones(before, n, last) {
		InsertBefore(before, last)
	}
	InsertBefore(n, last)
	return true
}

// onlyAncestorClones reports whether frag, cut from last up to n, holds
// nothing but the shallow clones of n's ancestors from last down. Any other
// node was moved out of the document and has to be put back.
func onlyAncestorClones(frag, n, last *html.Node) bool {
	var path []*html.Node
	for a := n.Parent; ; a = a.Parent {
		path = append(path, a)
		if a == last {
			break
		}
	}

	c := frag.FirstChild
	for i := len(path) - 1; i >= 0 && c != nil; i-- {
		if c.NextSibling != nil || c.Type != html.ElementNode || c.Data != path[i].Data {
			return false
		}
		c = c.FirstChild
	}
	return c == nil
}

func wrapInListItem(list *html.Node) {
	var li *html.Node
	for s := list.PrevSibling; s != nil; s = s.PrevSibling {
		if ListItemTags.Has(s) {
			li = s
			break
		}
	}
	if li == nil {
		li = CreateElement("li", nil)
		InsertBefore(li, list)
	}
	AppendChild(li, list)
}
