package dom

import "golang.org/x/net/html"

// ExtractContents cuts the content between start and end out of their tree
// and returns it as a fragment. start is included, end is not.
//
// Nodes lying wholly inside the range are moved into the fragment. Ancestors
// of either boundary are shallow-cloned instead, so the fragment keeps the
// structure around the boundaries while the originals stay in place holding
// whatever lies outside the range.
//
// If start and end share no ancestor, or end comes before start in document
// order, nothing is extracted and the fragment is empty.
func ExtractContents(start, end *html.Node) *html.Node {
	common := FindCommonAncestor(start, end)
	if common == nil || precedes(end, start) {
		return NewFragment()
	}
	x := &extractor{start: start, end: end}
	return x.extract(common)
}

type extractor struct {
	start, end   *html.Node
	startReached bool
	endReached   bool
}

func (x *extractor) extract(root *html.Node) *html.Node {
	frag := NewFragment()
	Traverse(root, SiblingsOnly, func(n *html.Node) Action {
		if x.endReached || n == x.end {
			x.endReached = true
			return Stop
		}
		if n == x.start {
			x.startReached = true
		}

		switch {
		case Contains(n, x.start) || (x.startReached && Contains(n, x.end)):
			clone := CloneShallow(n)
			AppendChild(clone, x.extract(n))
			frag.AppendChild(clone)
		case x.startReached && n.Parent != frag:
			AppendChild(frag, n)
		}
		return Continue
	})
	return frag
}
