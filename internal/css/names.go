package css

import (
	"strings"
	"sync"
)

// Property names are converted between hyphenated and camelCase forms on
// every style lookup. Conversions are memoized process-wide; the tables start
// empty and fill lazily.
var (
	camelNames  sync.Map // hyphenated -> camelCase
	hyphenNames sync.Map // any form -> hyphenated
)

// CamelCase converts a property name such as "white-space" to "whiteSpace".
// Vendor prefixes keep their leading capital ("-moz-x" -> "MozX").
func CamelCase(property string) string {
	if v, ok := camelNames.Load(property); ok {
		return v.(string)
	}
	var b strings.Builder
	upper := false
	for _, r := range strings.ToLower(strings.TrimSpace(property)) {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	camelNames.Store(property, s)
	return s
}

// HyphenCase converts a property name such as "whiteSpace" to "white-space".
// Hyphenated names are lower-cased and returned unchanged otherwise.
func HyphenCase(property string) string {
	if v, ok := hyphenNames.Load(property); ok {
		return v.(string)
	}
	p := strings.TrimSpace(property)
	s := strings.ToLower(p)
	if !strings.Contains(p, "-") {
		// a leading capital marks a vendor prefix: "MozUserSelect"
		var b strings.Builder
		for _, r := range p {
			if r >= 'A' && r <= 'Z' {
				b.WriteByte('-')
				r += 'a' - 'A'
			}
			b.WriteRune(r)
		}
		s = b.String()
	}
	hyphenNames.Store(property, s)
	return s
}

var inherited = map[string]bool{
	"white-space":     true,
	"color":           true,
	"font":            true,
	"font-family":     true,
	"font-size":       true,
	"font-style":      true,
	"font-weight":     true,
	"font-variant":    true,
	"line-height":     true,
	"letter-spacing":  true,
	"word-spacing":    true,
	"text-align":      true,
	"text-indent":     true,
	"text-transform":  true,
	"direction":       true,
	"visibility":      true,
	"list-style":      true,
	"list-style-type": true,
	"cursor":          true,
	"quotes":          true,
}

// IsInherited reports whether a property inherits from the parent element
// when it is not set on an element itself.
func IsInherited(property string) bool {
	return inherited[HyphenCase(property)]
}

var initialValues = map[string]string{
	"white-space": "normal",
	"display":     "inline",
	"visibility":  "visible",
	"direction":   "ltr",
	"font-style":  "normal",
	"font-weight": "normal",
	"text-align":  "start",
}

// InitialValue returns the initial value of a property, or "" if unknown.
func InitialValue(property string) string {
	return initialValues[HyphenCase(property)]
}
