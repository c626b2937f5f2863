package html

import (
	"sync"

	"github.com/andybalholm/cascadia"
)

// compiled selectors are shared by every document; the root and range
// selectors repeat for each file of a batch.
var selectors sync.Map // string -> cascadia.Selector

func compileSelector(selector string) (cascadia.Selector, error) {
	if s, ok := selectors.Load(selector); ok {
		return s.(cascadia.Selector), nil
	}
	s, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	selectors.Store(selector, s)
	return s, nil
}
