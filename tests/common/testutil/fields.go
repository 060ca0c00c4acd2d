//go:build unit || e2e

package testutil

import "strings"

// Field sets or, with a nil value, deletes a key in a decoded request body.
// Dotted paths reach into nested objects ("metadata.planId"); missing
// intermediate objects are created.
func Field(path string, value any) func(m map[string]any) {
	keys := strings.Split(path, ".")
	return func(m map[string]any) {
		for _, k := range keys[:len(keys)-1] {
			next, ok := m[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[k] = next
			}
			m = next
		}
		last := keys[len(keys)-1]
		if value == nil {
			delete(m, last)
			return
		}
		m[last] = value
	}
}
