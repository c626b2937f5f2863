package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitsSelectorGroups(t *testing.T) {
	p := NewParser()
	sheet, err := p.Parse(`
		p, div.note { white-space: pre; color: red }
		@media print { p { display: none } }
		#main > span:first-child { white-space: nowrap !important }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)

	assert.Equal(t, "p", sheet.Rules[0].Selector)
	assert.Equal(t, "div.note", sheet.Rules[1].Selector)
	assert.Equal(t, sheet.Rules[0].SourceOrder, sheet.Rules[1].SourceOrder)
	assert.Equal(t, "pre", sheet.Rules[1].Declarations["white-space"].Value)

	last := sheet.Rules[2]
	assert.True(t, last.Declarations["white-space"].Important)
	assert.Greater(t, last.SourceOrder, sheet.Rules[0].SourceOrder)
}

func TestSelectorSpecificity(t *testing.T) {
	tests := []struct {
		selector string
		want     Specificity
	}{
		{"p", Specificity{Elements: 1}},
		{"div.note", Specificity{Classes: 1, Elements: 1}},
		{"#main > span:first-child", Specificity{IDs: 1, Classes: 1, Elements: 1}},
		{"ul li[title]", Specificity{Classes: 1, Elements: 2}},
		{"p::first-line", Specificity{Elements: 2}},
		{"p[", Specificity{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, selectorSpecificity(tt.selector), tt.selector)
	}
}

func TestSpecificityCompare(t *testing.T) {
	a := Specificity{IDs: 1}
	b := Specificity{Classes: 5, Elements: 3}
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, Specificity{Inline: 1}.Compare(a))
}

func TestParseInlineStyle(t *testing.T) {
	p := NewParser()
	decls, err := p.ParseInlineStyle("White-Space: pre !important; color: red; white-space: normal;")
	require.NoError(t, err)

	assert.Equal(t, "pre", decls["white-space"].Value, "an earlier !important wins")
	assert.Equal(t, "red", decls["color"].Value)
	assert.Equal(t, "color: red; white-space: pre !important", decls.String())
}

func TestMergeStyleText(t *testing.T) {
	tests := []struct {
		first, second, want string
	}{
		{"color: red", "margin: 0", "color: red; margin: 0"},
		{"color: red;", "margin: 0", "color: red; margin: 0"},
		{"", "margin: 0", "margin: 0"},
		{"color: red", "  ", "color: red"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MergeStyleText(tt.first, tt.second))
	}
}
