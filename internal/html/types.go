package html

import (
	"errors"

	"golang.org/x/net/html"
)

// ErrNotFound is returned when a selector matches nothing.
var ErrNotFound = errors.New("no element found")

// Node is an element found by a selector query. The tree algorithms in
// pkg/dom work on the underlying x/net/html node directly.
type Node interface {
	TagName() string
	HTMLNode() *html.Node
}

// Document represents a parsed editor document. Content given without
// html, head or body markup is treated as a fragment of body content.
type Document interface {
	// Element selection
	QuerySelector(selector string) (Node, error)
	QuerySelectorAll(selector string) ([]Node, error)

	// StyleSheetText returns the text of every <style> element.
	StyleSheetText() string

	// IsFragment reports whether the input was body content only.
	IsFragment() bool

	// Serialization. Fragments serialize as body content, full
	// documents as the whole document.
	HTML() (string, error)
}

// Parser turns markup into a Document
type Parser interface {
	Parse(html string) (Document, error)
}
