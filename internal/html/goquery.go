package html

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// documentMarkup detects input that carries its own document structure
// rather than bare editor content.
var documentMarkup = regexp.MustCompile(`(?i)<!doctype|<(html|head|body)[\s/>]`)

// GoQueryDocument wraps goquery.Document to implement Document
type GoQueryDocument struct {
	doc      *goquery.Document
	fragment bool
}

// GoQueryNode wraps a single-node goquery.Selection to implement Node
type GoQueryNode struct {
	selection *goquery.Selection
}

// GoQueryParser implements Parser using goquery
type GoQueryParser struct{}

// NewParser creates a new goquery-based HTML parser
func NewParser() *GoQueryParser {
	return &GoQueryParser{}
}

// Parse parses an HTML string into a Document
func (p *GoQueryParser) Parse(source string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &GoQueryDocument{doc: doc, fragment: !documentMarkup.MatchString(source)}, nil
}

// QuerySelector returns the first element matching the selector
func (d *GoQueryDocument) QuerySelector(selector string) (Node, error) {
	found, err := d.find(selector)
	if err != nil {
		return nil, err
	}
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w for selector: %s", ErrNotFound, selector)
	}
	return &GoQueryNode{selection: found.First()}, nil
}

// QuerySelectorAll returns every element matching the selector in
// document order
func (d *GoQueryDocument) QuerySelectorAll(selector string) ([]Node, error) {
	found, err := d.find(selector)
	if err != nil {
		return nil, err
	}
	matches := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		matches = append(matches, &GoQueryNode{selection: s})
	})
	return matches, nil
}

// find compiles the selector first so that a malformed one is reported
// instead of silently matching nothing.
func (d *GoQueryDocument) find(selector string) (*goquery.Selection, error) {
	selector = NormalizeSelector(selector)
	if selector == "" {
		return nil, fmt.Errorf("empty selector")
	}
	m, err := compileSelector(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return d.doc.FindMatcher(m), nil
}

// StyleSheetText returns the contents of all <style> elements in document
// order, joined by new lines.
func (d *GoQueryDocument) StyleSheetText() string {
	var sheets []string
	d.doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			sheets = append(sheets, text)
		}
	})
	return strings.Join(sheets, "\n")
}

// IsFragment reports whether the parsed input had no document structure.
func (d *GoQueryDocument) IsFragment() bool {
	return d.fragment
}

// HTML serializes the document. A fragment yields the body's content only.
func (d *GoQueryDocument) HTML() (string, error) {
	var (
		out string
		err error
	)
	if d.fragment {
		out, err = d.doc.Find("body").First().Html()
	} else {
		out, err = d.doc.Html()
	}
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return out, nil
}

// TagName returns the element's tag name
func (n *GoQueryNode) TagName() string {
	return goquery.NodeName(n.selection)
}

// HTMLNode returns the wrapped node.
func (n *GoQueryNode) HTMLNode() *html.Node {
	return n.selection.Get(0)
}

var (
	spaceRun         = regexp.MustCompile(`\s+`)
	combinator       = regexp.MustCompile(`\s*([>+~])\s*`)
	dynamicPseudo    = regexp.MustCompile(`:(hover|focus|focus-within|focus-visible|active|visited|target)\b`)
	pseudoElementRef = regexp.MustCompile(`::?(before|after|first-line|first-letter|selection|placeholder|marker)\b|::[a-z-]+`)
)

// NormalizeSelector collapses whitespace and spaces combinators evenly so
// equal selectors share one compiled form.
func NormalizeSelector(selector string) string {
	selector = spaceRun.ReplaceAllString(strings.TrimSpace(selector), " ")
	return combinator.ReplaceAllString(selector, " $1 ")
}

// IsPseudoSelector reports whether a selector depends on user interaction or
// targets a pseudo-element. Neither can match a node of a static tree.
func IsPseudoSelector(selector string) bool {
	return dynamicPseudo.MatchString(selector) || pseudoElementRef.MatchString(selector)
}
