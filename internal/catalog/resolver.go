package catalog

import (
	"regexp"
	"strings"
)

var (
	// https://item.rakuten.co.jp/<shop>/<item>/
	itemURLPattern = regexp.MustCompile(`https?://(?:www\.)?item\.rakuten\.co\.jp/([^/?#]+)/([^/?#]+)`)
	// https://www.rakuten.co.jp/<shop>/cabinet/<item>.html
	cabinetURLPattern = regexp.MustCompile(`https?://(?:www\.)?rakuten\.co\.jp/([^/?#]+)/cabinet/([^/?#]+)\.html`)
)

// ResolveItemURL extracts the shop and item codes from a Rakuten product
// page URL. ok is false when the URL matches neither supported shape.
func ResolveItemURL(rawURL string) (shopCode, itemCode string, ok bool) {
	if m := itemURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], strings.TrimSuffix(m[2], ".html"), true
	}
	if m := cabinetURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}
