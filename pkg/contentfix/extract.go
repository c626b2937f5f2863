package contentfix

import (
	"errors"
	"fmt"
	"strings"

	"contentfix/internal/html"
	"contentfix/pkg/dom"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"
)

// ExtractResult holds a range cut out of a document.
type ExtractResult struct {
	Fragment  string // The extracted content
	Remaining string // The document after extraction
	Nodes     int    // Top-level nodes in the fragment
}

// Extract cuts the content from the first element matching startSelector up
// to, but not including, the first element matching endSelector. Elements
// around the boundaries are cloned into the fragment so it stays well formed.
// An end that comes before the start extracts nothing.
func (n *Normalizer) Extract(htmlContent, startSelector, endSelector string) (*ExtractResult, error) {
	doc, err := n.htmlParser.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	start, err := queryOne(doc, startSelector)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := queryOne(doc, endSelector)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	frag := dom.ExtractContents(start, end)

	var buf strings.Builder
	result := &ExtractResult{}
	for c := frag.FirstChild; c != nil; c = c.NextSibling {
		if err := nethtml.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("failed to serialize fragment: %w", err)
		}
		result.Nodes++
	}
	result.Fragment = buf.String()

	result.Remaining, err = doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}

	n.logger.Debug("extracted range",
		zap.String("start", startSelector),
		zap.String("end", endSelector),
		zap.Int("nodes", result.Nodes))
	return result, nil
}

func queryOne(doc html.Document, selector string) (*nethtml.Node, error) {
	node, err := doc.QuerySelector(selector)
	if errors.Is(err, html.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	if err != nil {
		return nil, err
	}
	return node.HTMLNode(), nil
}
