// Package xregexp provides cached, panic-free regular expression matching.
// Patterns are compiled once and reused across calls; a pattern that fails to
// compile simply never matches instead of erroring on every use.
package xregexp

import (
	"github.com/dlclark/regexp2/v2"

	"github.com/looplj/anonhub/internal/pkg/xmap"
)

type patternCache struct {
	regex      *regexp2.Regexp
	compileErr bool
}

var globalCache = xmap.New[string, *patternCache]()

// MatchString reports whether pattern matches anywhere in str.
// Matching is unanchored; anchor explicitly with ^ and $ when needed.
func MatchString(pattern string, str string) bool {
	cached := getOrCreatePattern(pattern)

	if cached.compileErr {
		return false
	}

	match, _ := cached.regex.MatchString(str)

	return match
}

// MatchRatio returns the fraction of values that match pattern.
// An empty input yields 0.
func MatchRatio(pattern string, values []string) float64 {
	if len(values) == 0 {
		return 0
	}

	cached := getOrCreatePattern(pattern)

	if cached.compileErr {
		return 0
	}

	hits := 0

	for _, value := range values {
		if match, _ := cached.regex.MatchString(value); match {
			hits++
		}
	}

	return float64(hits) / float64(len(values))
}

func getOrCreatePattern(pattern string) *patternCache {
	if cached, ok := globalCache.Load(pattern); ok {
		return cached
	}

	cached := &patternCache{}

	compiled, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		cached.compileErr = true
	} else {
		cached.regex = compiled
	}

	globalCache.Store(pattern, cached)

	return cached
}
