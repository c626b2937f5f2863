package contentfix

import (
	"errors"
	"fmt"
	"time"

	"contentfix/internal/config"
	"contentfix/internal/css"
	"contentfix/internal/html"
	"contentfix/internal/resolver"
	"contentfix/pkg/dom"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"
)

var (
	// ErrNoRoot is returned when the configured root selector matches no
	// element of the document.
	ErrNoRoot = errors.New("root element not found")

	// ErrNoMatch is returned when a range selector matches no element.
	ErrNoMatch = errors.New("selector matched nothing")
)

// Normalizer is the normalization engine for rich-text editor content
type Normalizer struct {
	config     config.Config
	parser     *css.Parser
	htmlParser html.Parser
	logger     *zap.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a new normalizer with the given configuration
func New(cfg config.Config, opts ...Option) *Normalizer {
	n := &Normalizer{
		config:     cfg,
		parser:     css.NewParser(),
		htmlParser: html.NewParser(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewWithDefaults creates a new normalizer with the default configuration
func NewWithDefaults(opts ...Option) *Normalizer {
	return New(config.Default(), opts...)
}

// Config returns the configuration the normalizer runs with.
func (n *Normalizer) Config() config.Config {
	return n.config
}

// Result contains the result of a normalization
type Result struct {
	HTML             string          // Normalized HTML
	NestingFixes     int             // Blocks lifted out of inline elements
	ListFixes        int             // Lists moved into list items
	RemovedTextNodes int             // Text nodes removed as unrendered whitespace
	SkippedSelectors []string        // Stylesheet selectors left out of the cascade
	ProcessingStats  ProcessingStats // Performance and processing statistics
}

// ProcessingStats contains performance metrics from the normalization process
type ProcessingStats struct {
	CSSRulesParsed    int   // Total CSS rules parsed
	RootsProcessed    int   // Root elements normalized
	ElementsProcessed int   // Elements below the roots after normalization
	ProcessingTimeMs  int64 // Processing time in milliseconds
}

// Normalize parses HTML, repairs its nesting and collapses its whitespace
// below every element matching the root selector.
func (n *Normalizer) Normalize(htmlContent string) (*Result, error) {
	start := time.Now()
	if err := n.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Parse the HTML document
	doc, err := n.htmlParser.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	roots, err := n.findRoots(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	styles, err := n.styler(doc, result)
	if err != nil {
		return nil, fmt.Errorf("failed to build styles: %w", err)
	}

	for _, root := range roots {
		n.normalizeRoot(root, styles, result)
	}
	result.ProcessingStats.RootsProcessed = len(roots)

	// Generate final HTML
	finalHTML, err := doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}
	result.HTML = finalHTML
	result.ProcessingStats.ProcessingTimeMs = time.Since(start).Milliseconds()

	n.logger.Debug("normalized document",
		zap.Int("roots", len(roots)),
		zap.Int("nesting_fixes", result.NestingFixes),
		zap.Int("list_fixes", result.ListFixes),
		zap.Int("removed_text_nodes", result.RemovedTextNodes),
		zap.Int64("elapsed_ms", result.ProcessingStats.ProcessingTimeMs))
	return result, nil
}

// NormalizeString is a convenience method that returns only the HTML
func (n *Normalizer) NormalizeString(htmlContent string) (string, error) {
	result, err := n.Normalize(htmlContent)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// findRoots returns the x/net/html nodes of the root elements, dropping any
// root nested inside an earlier one.
func (n *Normalizer) findRoots(doc html.Document) ([]*nethtml.Node, error) {
	matches, err := doc.QuerySelectorAll(n.config.RootSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to query roots: %w", err)
	}
	var roots []*nethtml.Node
	for _, m := range matches {
		node := m.HTMLNode()
		if containedIn(roots, node) {
			n.logger.Debug("skipping nested root", zap.String("tag", m.TagName()))
			continue
		}
		roots = append(roots, node)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRoot, n.config.RootSelector)
	}
	return roots, nil
}

func containedIn(roots []*nethtml.Node, node *nethtml.Node) bool {
	for _, r := range roots {
		if dom.Contains(r, node) {
			return true
		}
	}
	return false
}

// styler returns the cascade-aware resolver when stylesheets are enabled and
// the document has any, and inline styles only otherwise.
func (n *Normalizer) styler(doc html.Document, result *Result) (dom.Styler, error) {
	if !n.config.UseStylesheets {
		return dom.DefaultStyler{}, nil
	}
	cssContent := doc.StyleSheetText()
	if cssContent == "" {
		return dom.DefaultStyler{}, nil
	}

	// Parse the CSS
	stylesheet, err := n.parser.Parse(cssContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSS: %w", err)
	}
	styleResolver := resolver.New(stylesheet)
	result.ProcessingStats.CSSRulesParsed = len(stylesheet.Rules)
	result.SkippedSelectors = append(result.SkippedSelectors, styleResolver.Skipped()...)

	n.logger.Debug("parsed stylesheet",
		zap.Int("rules", len(stylesheet.Rules)),
		zap.Int("cascading", styleResolver.Rules()),
		zap.Strings("skipped", styleResolver.Skipped()))
	return styleResolver, nil
}

// normalizeRoot runs the enabled steps on one root. Nesting is repaired first
// because lifting blocks out changes which whitespace renders.
func (n *Normalizer) normalizeRoot(root *nethtml.Node, styles dom.Styler, result *Result) {
	if n.config.FixNesting {
		fixes := dom.Repairer{CodeAsBlock: n.config.CodeAsBlock}.FixNesting(root)
		for _, fix := range fixes {
			switch fix.Kind {
			case dom.BlockInInline:
				result.NestingFixes++
			case dom.ListInList:
				result.ListFixes++
			}
			n.logger.Debug("repaired nesting", zap.Stringer("issue", fix))
		}
		if r, ok := styles.(*resolver.Resolver); ok && len(fixes) > 0 {
			r.Reset()
		}
	}

	if n.config.RemoveWhiteSpace {
		before := countTextNodes(root)
		dom.Collapser{Styles: styles, IgnoreClass: n.config.IgnoreClass}.RemoveWhiteSpace(root, n.config.PreserveNewLines)
		result.RemovedTextNodes += before - countTextNodes(root)
	}

	dom.Traverse(root, 0, func(node *nethtml.Node) dom.Action {
		if node.Type == nethtml.ElementNode {
			result.ProcessingStats.ElementsProcessed++
		}
		return dom.Continue
	})
}

func countTextNodes(root *nethtml.Node) int {
	count := 0
	dom.Traverse(root, 0, func(node *nethtml.Node) dom.Action {
		if node.Type == nethtml.TextNode {
			count++
		}
		return dom.Continue
	})
	return count
}

// NormalizeHTML is a convenience function that normalizes HTML with the
// default configuration
func NormalizeHTML(htmlContent string) (string, error) {
	return NewWithDefaults().NormalizeString(htmlContent)
}

// NormalizeHTMLWithConfig is a convenience function that normalizes HTML
// with a custom configuration
func NormalizeHTMLWithConfig(htmlContent string, cfg config.Config) (string, error) {
	return New(cfg).NormalizeString(htmlContent)
}
