package css

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	dcss "github.com/aymerick/douceur/css"
	dparser "github.com/aymerick/douceur/parser"
)

// Parser turns stylesheet and style attribute text into rules and
// declarations
type Parser struct{}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses CSS text into a Stylesheet. Only top-level style rules are
// kept; at-rules such as @media or @font-face do not apply to editor content
// and are dropped.
func (p *Parser) Parse(cssText string) (*Stylesheet, error) {
	sheet, err := dparser.Parse(cssText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stylesheet: %w", err)
	}

	stylesheet := &Stylesheet{Rules: make([]Rule, 0, len(sheet.Rules))}
	for i, r := range sheet.Rules {
		if r.Kind != dcss.QualifiedRule || len(r.Declarations) == 0 {
			continue
		}
		declarations := toDeclarations(r.Declarations)
		for _, selector := range r.Selectors {
			selector = strings.TrimSpace(selector)
			if selector == "" {
				continue
			}
			stylesheet.Rules = append(stylesheet.Rules, Rule{
				Selector:     selector,
				Specificity:  selectorSpecificity(selector),
				Declarations: declarations,
				SourceOrder:  i,
			})
		}
	}
	return stylesheet, nil
}

// ParseInlineStyle parses inline style attribute text into declarations.
// Later declarations of the same property win, unless an earlier one is
// marked !important.
func (p *Parser) ParseInlineStyle(styleAttr string) (Declarations, error) {
	decls, err := dparser.ParseDeclarations(styleAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inline style %q: %w", styleAttr, err)
	}
	return toDeclarations(decls), nil
}

func toDeclarations(decls []*dcss.Declaration) Declarations {
	declarations := make(Declarations, len(decls))
	for _, d := range decls {
		property := strings.ToLower(strings.TrimSpace(d.Property))
		value := strings.TrimSpace(d.Value)
		if property == "" || value == "" {
			continue
		}
		if prev, ok := declarations[property]; ok && prev.Important && !d.Important {
			continue
		}
		declarations[property] = Declaration{
			Property:  property,
			Value:     value,
			Important: d.Important,
		}
	}
	return declarations
}

// selectorSpecificity weighs a single selector. Selectors cascadia cannot
// parse never match, so they weigh nothing.
func selectorSpecificity(selector string) Specificity {
	sel, err := cascadia.ParseWithPseudoElement(selector)
	if err != nil {
		return Specificity{}
	}
	weight := sel.Specificity()
	return Specificity{IDs: weight[0], Classes: weight[1], Elements: weight[2]}
}

// MergeStyleText joins two pieces of inline style text so that the rules of
// first come before those of second. Either may be empty.
func MergeStyleText(first, second string) string {
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	switch {
	case first == "":
		return second
	case second == "":
		return first
	}
	if !strings.HasSuffix(first, ";") {
		first += ";"
	}
	return first + " " + second
}
