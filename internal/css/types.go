package css

import (
	"fmt"
	"sort"
	"strings"
)

// Specificity represents CSS specificity with individual components
// ordered from strongest to weakest: inline, IDs, classes, elements
type Specificity struct {
	Inline   int // 1 for a style attribute
	IDs      int // #id selectors
	Classes  int // .class, [attr], :pseudo-class
	Elements int // element, ::pseudo-element
}

// Compare returns -1 if s < other, 0 if equal, 1 if s > other
func (s Specificity) Compare(other Specificity) int {
	a := [4]int{s.Inline, s.IDs, s.Classes, s.Elements}
	b := [4]int{other.Inline, other.IDs, other.Classes, other.Elements}
	for i := range a {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.Inline, s.IDs, s.Classes, s.Elements)
}

// Rule is one selector of a style rule together with the rule's
// declarations. A rule written as "p, div { ... }" yields two Rules sharing
// the same declarations and source order.
type Rule struct {
	Selector     string       // single selector text
	Specificity  Specificity  // calculated for Selector
	Declarations Declarations // property -> declaration mapping
	SourceOrder  int          // order in original CSS (for tie-breaking)
}

// Declaration represents a single CSS property declaration
type Declaration struct {
	Property  string // CSS property name (lower-cased, hyphenated)
	Value     string // CSS property value
	Important bool   // !important flag
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Declarations maps property names to their declaration.
type Declarations map[string]Declaration

// String serializes the declarations as style attribute text, properties in
// lexical order.
func (ds Declarations) String() string {
	keys := make([]string, 0, len(ds))
	for k := range ds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = ds[k].String()
	}
	return strings.Join(parts, "; ")
}

// Stylesheet represents the complete parsed CSS with all rules
type Stylesheet struct {
	Rules []Rule // all rules in source order
}

// Empty reports whether the stylesheet holds no rules.
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Rules) == 0
}

// MatchResult represents the result of matching CSS rules against an HTML element
type MatchResult struct {
	Rule        *Rule       // The matching CSS rule
	Specificity Specificity // Effective specificity for this match
}
