package contentfix

import (
	"fmt"
	"strings"

	"contentfix/internal/html"
	"contentfix/internal/resolver"
	"contentfix/pkg/dom"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"
)

// ValidationIssue represents a problem Normalize would repair or could not
// take into account
type ValidationIssue struct {
	Type     string // "nesting", "whitespace", "css"
	Severity string // "error", "warning", "info"
	Message  string
	Element  string
	Property string // for CSS issues
}

func (v ValidationIssue) String() string {
	if v.Element == "" {
		return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Type, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", v.Severity, v.Type, v.Message, v.Element)
}

// Validate reports what Normalize would change in the document without
// changing it.
func (n *Normalizer) Validate(htmlContent string) ([]ValidationIssue, error) {
	if err := n.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	doc, err := n.htmlParser.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	roots, err := n.findRoots(doc)
	if err != nil {
		return nil, err
	}

	var issues []ValidationIssue

	// Check for invalid nesting
	repairer := dom.Repairer{CodeAsBlock: n.config.CodeAsBlock}
	for _, root := range roots {
		issues = append(issues, n.validateStructure(repairer, root)...)
	}

	// Check for whitespace that does not render
	if n.config.RemoveWhiteSpace {
		issues = append(issues, n.validateWhiteSpace(doc, roots)...)
	}

	// Check for stylesheet rules the cascade ignores
	if n.config.UseStylesheets {
		issues = append(issues, n.validateEmbeddedCSS(doc)...)
	}

	n.logger.Debug("validated document", zap.Int("issues", len(issues)))
	return issues, nil
}

// validateStructure checks for block/inline and list nesting violations
func (n *Normalizer) validateStructure(repairer dom.Repairer, root *nethtml.Node) []ValidationIssue {
	var issues []ValidationIssue
	for _, issue := range repairer.FindNestingIssues(root) {
		v := ValidationIssue{
			Type:     "nesting",
			Severity: "warning",
			Element:  describe(issue.Node),
		}
		switch issue.Kind {
		case dom.BlockInInline:
			v.Severity = "error"
			v.Message = fmt.Sprintf("block <%s> inside inline <%s>", dom.TagName(issue.Node), dom.TagName(issue.Parent))
		case dom.ListInList:
			v.Message = fmt.Sprintf("list <%s> directly inside list <%s>", dom.TagName(issue.Node), dom.TagName(issue.Parent))
		}
		issues = append(issues, v)
	}
	return issues
}

// validateWhiteSpace normalizes a scratch copy of the document and reports
// how many text nodes would be trimmed or removed.
func (n *Normalizer) validateWhiteSpace(doc html.Document, roots []*nethtml.Node) []ValidationIssue {
	source, err := doc.HTML()
	if err != nil {
		return nil
	}
	scratch := New(n.config)
	scratch.config.FixNesting = false
	result, err := scratch.Normalize(source)
	if err != nil || result.RemovedTextNodes == 0 {
		return nil
	}
	return []ValidationIssue{{
		Type:     "whitespace",
		Severity: "info",
		Message:  fmt.Sprintf("%d whitespace-only text nodes below %d root(s) do not render", result.RemovedTextNodes, len(roots)),
	}}
}

// validateEmbeddedCSS checks for rules in style tags that cannot take part
// in white-space resolution
func (n *Normalizer) validateEmbeddedCSS(doc html.Document) []ValidationIssue {
	cssContent := doc.StyleSheetText()
	if cssContent == "" {
		return nil
	}
	stylesheet, err := n.parser.Parse(cssContent)
	if err != nil {
		return []ValidationIssue{{
			Type:     "css",
			Severity: "error",
			Message:  err.Error(),
			Element:  "style",
		}}
	}

	var issues []ValidationIssue
	for _, selector := range resolver.New(stylesheet).Skipped() {
		issues = append(issues, ValidationIssue{
			Type:     "css",
			Severity: "info",
			Message:  fmt.Sprintf("selector %q cannot match static content and is ignored", selector),
			Element:  "style",
		})
	}
	for _, rule := range stylesheet.Rules {
		if d, ok := rule.Declarations["white-space"]; ok && d.Important {
			issues = append(issues, ValidationIssue{
				Type:     "css",
				Severity: "info",
				Message:  fmt.Sprintf("%q overrides inline white-space with !important", rule.Selector),
				Element:  "style",
				Property: "white-space",
			})
		}
	}
	return issues
}

// describe renders a short CSS-like path for an element, e.g. "div#main > span.note".
func describe(node *nethtml.Node) string {
	var parts []string
	for e := node; e != nil && e.Type == nethtml.ElementNode; e = e.Parent {
		part := dom.TagName(e)
		if id, ok := dom.Attr(e, "id"); ok && id != "" {
			part += "#" + id
		} else if class, ok := dom.Attr(e, "class"); ok {
			if fields := strings.Fields(class); len(fields) > 0 {
				part += "." + fields[0]
			}
		}
		parts = append([]string{part}, parts...)
		if part == "body" || len(parts) == 3 {
			break
		}
	}
	return strings.Join(parts, " > ")
}
