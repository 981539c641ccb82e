// Package utils contains small helpers shared across packages.
package utils

import "strings"

// TrimPtr trims the string s points to in place. A value that is blank
// after trimming becomes nil so optional columns are stored as NULL.
func TrimPtr(s **string) {
	if *s == nil {
		return
	}
	trimmed := strings.TrimSpace(**s)
	if trimmed == "" {
		*s = nil
		return
	}
	*s = &trimmed
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ClampPage normalizes page/limit query values.
func ClampPage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
