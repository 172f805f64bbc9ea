// Package catalog implements Rakuten Ichiba product search: keyword and
// code-based lookups, product URL resolution, and normalization of raw API
// items into candidate records for the post form.
package catalog

import (
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`</?[^>]*>`)
	spaceRunPattern = regexp.MustCompile(`\s+`)
)

// StripTags removes markup tags from a product caption and collapses
// whitespace runs to single spaces. Blank input yields the empty string.
func StripTags(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := tagPattern.ReplaceAllString(s, "")
	out = spaceRunPattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
