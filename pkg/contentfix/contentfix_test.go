package contentfix

import (
	"errors"
	"sync"
	"testing"

	"contentfix/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		want         string
		nestingFixes int
		listFixes    int
		removed      int
	}{
		{
			name:         "block in inline",
			src:          `<p>  a   b  </p><b><div>X</div></b>`,
			want:         `<p>a b</p><div>X</div><b></b>`,
			nestingFixes: 1,
		},
		{
			name:      "nested list and indentation",
			src:       "<ul>\n<li>A</li>\n<ul><li>B</li></ul>\n</ul>",
			want:      `<ul><li>A<ul><li>B</li></ul></li></ul>`,
			listFixes: 1,
			removed:   3,
		},
		{
			name: "already normal",
			src:  `<p>one <b>two</b></p>`,
			want: `<p>one <b>two</b></p>`,
		},
	}

	n := NewWithDefaults(WithLogger(zaptest.NewLogger(t)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := n.Normalize(tt.src)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, result.HTML); diff != "" {
				t.Errorf("HTML mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.nestingFixes, result.NestingFixes)
			assert.Equal(t, tt.listFixes, result.ListFixes)
			assert.Equal(t, tt.removed, result.RemovedTextNodes)
			assert.Equal(t, 1, result.ProcessingStats.RootsProcessed)
		})
	}
}

const styledDocument = `<html><head><style>.code { white-space: pre } a:hover { color: red }</style></head>` +
	`<body><div class="code">  keep   this  </div><div>  trim   this  </div></body></html>`

func TestNormalizeHonorsStylesheets(t *testing.T) {
	result, err := NewWithDefaults().Normalize(styledDocument)
	require.NoError(t, err)

	assert.Contains(t, result.HTML, `<div class="code">  keep   this  </div>`)
	assert.Contains(t, result.HTML, `<div>trim this</div>`)
	assert.Contains(t, result.HTML, `<head><style>`)
	assert.Equal(t, 2, result.ProcessingStats.CSSRulesParsed)
	assert.Equal(t, []string{"a:hover"}, result.SkippedSelectors)
}

func TestNormalizeWithoutStylesheets(t *testing.T) {
	cfg := config.Default()
	cfg.UseStylesheets = false

	out, err := NormalizeHTMLWithConfig(styledDocument, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="code">keep this</div>`)
}

func TestNormalizeRootSelector(t *testing.T) {
	cfg := config.Default()
	cfg.RootSelector = "#editor"

	result, err := New(cfg).Normalize(`<div id="editor"> <b>x</b> </div><div>  untouched  </div>`)
	require.NoError(t, err)
	assert.Equal(t, `<div id="editor"><b>x</b></div><div>  untouched  </div>`, result.HTML)
	assert.Equal(t, 2, result.RemovedTextNodes)
}

func TestNormalizeSkipsNestedRoots(t *testing.T) {
	cfg := config.Default()
	cfg.RootSelector = "div"

	result, err := New(cfg).Normalize(`<div><div> a </div></div><div> b </div>`)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessingStats.RootsProcessed)
	assert.Equal(t, `<div><div>a</div></div><div>b</div>`, result.HTML)
}

func TestNormalizeIgnoreClass(t *testing.T) {
	cfg := config.Default()
	cfg.IgnoreClass = "caret"

	out, err := NormalizeHTMLWithConfig(`<p><b>x </b><span class="caret"></span> y</p>`, cfg)
	require.NoError(t, err)
	assert.Equal(t, `<p><b>x </b><span class="caret"></span>y</p>`, out)
}

func TestNormalizeProfiles(t *testing.T) {
	const src = `<span> <div>X</div></span>`

	structure, _ := config.GetProfile("structure-only")
	out, err := NormalizeHTMLWithConfig(src, structure)
	require.NoError(t, err)
	assert.Equal(t, `<span> </span><div>X</div><span></span>`, out)

	whitespace, _ := config.GetProfile("whitespace-only")
	out, err = NormalizeHTMLWithConfig(src, whitespace)
	require.NoError(t, err)
	assert.Equal(t, `<span><div>X</div></span>`, out)
}

func TestNormalizeErrors(t *testing.T) {
	cfg := config.Default()
	cfg.RootSelector = "#missing"
	_, err := New(cfg).Normalize(`<p>x</p>`)
	assert.True(t, errors.Is(err, ErrNoRoot), "got %v", err)

	cfg = config.Default()
	cfg.FixNesting, cfg.RemoveWhiteSpace = false, false
	_, err = New(cfg).Normalize(`<p>x</p>`)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNormalizeLogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewWithDefaults(WithLogger(zap.New(core)))

	_, err := n.Normalize(`<b><div>X</div></b>`)
	require.NoError(t, err)

	entries := logs.FilterMessage("normalized document").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["nesting_fixes"])
	assert.Equal(t, 1, logs.FilterMessage("repaired nesting").Len())
}

func TestNormalizerIsSafeForConcurrentUse(t *testing.T) {
	n := NewWithDefaults()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := n.NormalizeString(`<p> a  <b>b</b> </p><b><div>X</div></b>`)
			assert.NoError(t, err)
			assert.Equal(t, `<p>a <b>b</b></p><div>X</div><b></b>`, out)
		}()
	}
	wg.Wait()
}

func TestNormalizeHTML(t *testing.T) {
	out, err := NormalizeHTML("<p>\u200b a  b </p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>a b</p>", out)
}
