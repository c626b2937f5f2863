package css

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"white-space":      "whiteSpace",
		"color":            "color",
		"-moz-user-select": "MozUserSelect",
		"Font-Size":        "fontSize",
	}
	for in, want := range tests {
		assert.Equal(t, want, CamelCase(in), in)
	}
}

func TestHyphenCase(t *testing.T) {
	tests := map[string]string{
		"whiteSpace":    "white-space",
		"white-space":   "white-space",
		"WHITE-SPACE":   "white-space",
		"MozUserSelect": "-moz-user-select",
		"color":         "color",
	}
	for in, want := range tests {
		assert.Equal(t, want, HyphenCase(in), in)
	}
}

func TestNameMemoIsSafeForConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "whiteSpace", CamelCase("white-space"))
				assert.Equal(t, "white-space", HyphenCase("whiteSpace"))
			}
		}()
	}
	wg.Wait()
}

func TestInheritance(t *testing.T) {
	assert.True(t, IsInherited("whiteSpace"))
	assert.True(t, IsInherited("white-space"))
	assert.False(t, IsInherited("display"))
	assert.Equal(t, "normal", InitialValue("whiteSpace"))
	assert.Equal(t, "inline", InitialValue("display"))
	assert.Equal(t, "", InitialValue("margin"))
}
