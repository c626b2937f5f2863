package resolver

import (
	"math"
	"strings"

	"contentfix/internal/css"
	"contentfix/internal/html"
	"contentfix/pkg/dom"

	"github.com/andybalholm/cascadia"
	nethtml "golang.org/x/net/html"
)

// Resolver handles CSS cascade resolution and computes final styles for HTML
// elements. It implements dom.Styler, so whitespace normalization can honor
// white-space rules set in <style> blocks.
//
// Resolved styles are cached per node; a Resolver belongs to one document and
// is not safe for concurrent use. Call Reset after changing style attributes
// or moving elements.
type Resolver struct {
	rules   []compiledRule
	skipped []string
	parser  *css.Parser
	cache   map[*nethtml.Node]css.Declarations
}

type compiledRule struct {
	css.Rule
	selector cascadia.Sel
}

// New creates a style resolver for a stylesheet. Selectors that cannot match
// a static tree (:hover, ::before) or that fail to compile are skipped; see
// Skipped.
func New(stylesheet *css.Stylesheet) *Resolver {
	r := &Resolver{
		parser: css.NewParser(),
		cache:  make(map[*nethtml.Node]css.Declarations),
	}
	if stylesheet.Empty() {
		return r
	}
	for _, rule := range stylesheet.Rules {
		if html.IsPseudoSelector(rule.Selector) {
			r.skipped = append(r.skipped, rule.Selector)
			continue
		}
		sel, err := cascadia.Parse(rule.Selector)
		if err != nil {
			r.skipped = append(r.skipped, rule.Selector)
			continue
		}
		r.rules = append(r.rules, compiledRule{Rule: rule, selector: sel})
	}
	return r
}

// Rules returns the number of rules taking part in the cascade.
func (r *Resolver) Rules() int {
	return len(r.rules)
}

// Skipped returns the selectors left out of the cascade.
func (r *Resolver) Skipped() []string {
	return r.skipped
}

// Reset drops cached styles.
func (r *Resolver) Reset() {
	clear(r.cache)
}

// ResolveStyles computes the final declarations for an element following CSS
// cascade rules: matching stylesheet rules, then its style attribute.
func (r *Resolver) ResolveStyles(node *nethtml.Node) css.Declarations {
	if node == nil || node.Type != nethtml.ElementNode {
		return nil
	}
	if styles, ok := r.cache[node]; ok {
		return styles
	}

	var inline css.Declarations
	if text := dom.Style(node); text != "" {
		// an unparsable style attribute contributes nothing
		inline, _ = r.parser.ParseInlineStyle(text)
	}

	matches := r.findMatchingRules(node)
	styles := applyCascade(matches, inline)
	r.cache[node] = styles
	return styles
}

// ComputedStyle implements dom.Styler.
func (r *Resolver) ComputedStyle(n *nethtml.Node, property string) string {
	return dom.InheritedStyle(n, property, r.declared)
}

func (r *Resolver) declared(n *nethtml.Node, property string) (string, bool) {
	d, ok := r.ResolveStyles(n)[property]
	if !ok || strings.EqualFold(d.Value, "inherit") {
		return "", false
	}
	return d.Value, true
}

// findMatchingRules returns the rules whose selector matches node, in
// stylesheet order
func (r *Resolver) findMatchingRules(node *nethtml.Node) []css.MatchResult {
	var matches []css.MatchResult
	for i := range r.rules {
		if rule := &r.rules[i]; rule.selector.Match(node) {
			matches = append(matches, css.MatchResult{Rule: &rule.Rule, Specificity: rule.Specificity})
		}
	}
	return matches
}

// applyCascade picks the winning declaration of every property. Author
// declarations rank, lowest first: stylesheet rules by specificity then
// source order, the style attribute, stylesheet !important rules, and
// !important in the style attribute.
func applyCascade(matches []css.MatchResult, inline css.Declarations) css.Declarations {
	c := make(cascade)
	for _, match := range matches {
		for _, d := range match.Rule.Declarations {
			c.offer(d, match.Specificity, match.Rule.SourceOrder)
		}
	}
	for _, d := range inline {
		c.offer(d, css.Specificity{Inline: 1}, math.MaxInt)
	}

	winners := make(css.Declarations, len(c))
	for property, w := range c {
		winners[property] = w.declaration
	}
	return winners
}

// cascade holds the declaration currently winning each property
type cascade map[string]candidate

type candidate struct {
	declaration css.Declaration
	specificity css.Specificity
	sourceOrder int
}

func (c cascade) offer(d css.Declaration, spec css.Specificity, order int) {
	next := candidate{declaration: d, specificity: spec, sourceOrder: order}
	if current, ok := c[d.Property]; !ok || next.beats(current) {
		c[d.Property] = next
	}
}

// beats reports whether a later candidate displaces the current one.
func (a candidate) beats(b candidate) bool {
	if a.declaration.Important != b.declaration.Important {
		return a.declaration.Important
	}
	if cmp := a.specificity.Compare(b.specificity); cmp != 0 {
		return cmp > 0
	}
	return a.sourceOrder >= b.sourceOrder
}
