package dom

import "golang.org/x/net/html"

// Contains reports whether n is a strict descendant of ancestor.
func Contains(ancestor, n *html.Node) bool {
	if ancestor == nil || n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// FindCommonAncestor returns the nearest proper ancestor of a that contains b,
// or nil if there is none. a itself is never the result, even when it
// contains b.
func FindCommonAncestor(a, b *html.Node) *html.Node {
	if a == nil || b == nil {
		return nil
	}
	for p := a.Parent; p != nil; p = p.Parent {
		if Contains(p, b) {
			return p
		}
	}
	return nil
}

// GetSibling returns the node that follows n in document order outside of n's
// subtree: n's next sibling, or else the next sibling of the nearest ancestor
// that has one. With previous set it looks the other way. It returns nil once
// the root is reached.
func GetSibling(n *html.Node, previous bool) *html.Node {
	for n != nil {
		s := n.NextSibling
		if previous {
			s = n.PrevSibling
		}
		if s != nil {
			return s
		}
		n = n.Parent
	}
	return nil
}

// precedes reports whether a comes before b in document order. Both must
// share a root; ancestors precede their descendants.
func precedes(a, b *html.Node) bool {
	if a == b {
		return false
	}
	if Contains(a, b) {
		return true
	}
	if Contains(b, a) {
		return false
	}
	common := FindCommonAncestor(a, b)
	if common == nil {
		return false
	}
	ca, cb := childOn(common, a), childOn(common, b)
	for c := ca.NextSibling; c != nil; c = c.NextSibling {
		if c == cb {
			return true
		}
	}
	return false
}

// childOn returns the child of ancestor on the path down to n.
func childOn(ancestor, n *html.Node) *html.Node {
	for n.Parent != ancestor {
		n = n.Parent
	}
	return n
}
