package dom

import (
	"strings"

	"contentfix/internal/css"

	"golang.org/x/net/html"
)

// Styler reports the value a CSS property takes on a node as currently
// rendered. Property names may be given hyphenated ("white-space") or in
// camelCase ("whiteSpace").
type Styler interface {
	ComputedStyle(n *html.Node, property string) string
}

// DefaultStyler computes styles from inline style attributes and user-agent
// defaults only. Stylesheets are not consulted; see internal/resolver for a
// cascade-aware Styler.
type DefaultStyler struct{}

var parser = css.NewParser()

// ComputedStyle implements Styler.
func (DefaultStyler) ComputedStyle(n *html.Node, property string) string {
	return InheritedStyle(n, property, InlineValue)
}

// DeclaredValue reports the value declared for a hyphenated property on
// element n, if any.
type DeclaredValue func(n *html.Node, property string) (string, bool)

// InheritedStyle walks from n towards the root asking declared for property,
// then the element's user-agent default. Inherited properties keep walking
// while nothing is found; others stop at n. Text nodes take their parent's
// style. The property's initial value is returned when the walk ends empty.
func InheritedStyle(n *html.Node, property string, declared DeclaredValue) string {
	property = css.HyphenCase(property)
	if n != nil && n.Type != html.ElementNode {
		n = n.Parent
	}
	for ; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if v, ok := declared(n, property); ok {
			return v
		}
		if v, ok := UserAgentDefault(n, property); ok {
			return v
		}
		if !css.IsInherited(property) {
			break
		}
	}
	return css.InitialValue(property)
}

// InlineValue is the DeclaredValue of an element's style attribute. A value
// of inherit counts as not declared.
func InlineValue(n *html.Node, property string) (string, bool) {
	text := Style(n)
	if text == "" {
		return "", false
	}
	decls, err := parser.ParseInlineStyle(text)
	if err != nil {
		return "", false
	}
	d, ok := decls[css.HyphenCase(property)]
	if !ok || strings.EqualFold(d.Value, "inherit") {
		return "", false
	}
	return d.Value, true
}

// UserAgentDefault returns the browser default for property on element n, if
// the element has one that differs from the property's initial value.
func UserAgentDefault(n *html.Node, property string) (string, bool) {
	switch css.HyphenCase(property) {
	case "white-space":
		switch TagName(n) {
		case "pre", "listing", "xmp", "plaintext":
			return "pre", true
		case "script", "style":
			// raw text, never rendered as content
			return "pre", true
		case "textarea":
			return "pre-wrap", true
		case "nobr":
			return "nowrap", true
		case "td", "th":
			if _, ok := Attr(n, "nowrap"); ok {
				return "nowrap", true
			}
		}
	case "display":
		switch {
		case KindOf(n) != ElementKind:
		case TagName(n) == "li":
			return "list-item", true
		case TagName(n) == "head", TagName(n) == "script", TagName(n) == "style":
			return "none", true
		case !IsInline(n, false):
			return "block", true
		}
	}
	return "", false
}
