package dom

import "golang.org/x/net/html"

// Action is returned by a Visitor to steer a traversal.
type Action int

const (
	// Continue visits the node's subtree and moves on.
	Continue Action = iota
	// SkipChildren does not descend into the node just visited. It has no
	// effect with InnermostFirst, where children are already done.
	SkipChildren
	// Stop aborts the whole traversal.
	Stop
)

// Visitor is called once per node.
type Visitor func(n *html.Node) Action

// Mode selects the traversal order. Modes combine with |.
type Mode uint8

const (
	// InnermostFirst visits a node after its children (post-order).
	InnermostFirst Mode = 1 << iota
	// SiblingsOnly visits the direct children of the root and nothing below.
	SiblingsOnly
	// Reverse walks children last to first.
	Reverse
)

// Traverse walks the descendants of root depth-first and calls visit for
// each. The root itself is not visited. It returns Stop if a visitor aborted
// the walk and Continue otherwise.
//
// The sibling that follows a node is read before visit runs, so a visitor may
// detach or move the node it is given without the walk skipping or repeating
// siblings.
func Traverse(root *html.Node, mode Mode, visit Visitor) Action {
	if root == nil {
		return Continue
	}
	reverse := mode&Reverse != 0
	post := mode&InnermostFirst != 0
	deep := mode&SiblingsOnly == 0

	n := root.FirstChild
	if reverse {
		n = root.LastChild
	}
	for n != nil {
		next := n.NextSibling
		if reverse {
			next = n.PrevSibling
		}

		descend := deep
		if !post {
			switch visit(n) {
			case Stop:
				return Stop
			case SkipChildren:
				descend = false
			}
		}
		if descend && Traverse(n, mode, visit) == Stop {
			return Stop
		}
		if post && visit(n) == Stop {
			return Stop
		}

		n = next
	}
	return Continue
}

// RTraverse is Traverse in reverse document order.
func RTraverse(root *html.Node, mode Mode, visit Visitor) Action {
	return Traverse(root, mode|Reverse, visit)
}
