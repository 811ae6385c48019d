package pipeline

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Conventional mount element ids, in lookup order
var mountIDs = []string{"app", "root"}

// DefaultMountID is used when index.html declares no candidate element
const DefaultMountID = "app"

// Runtime script patterns, matched against script src attributes
var (
	reactScript    = regexp.MustCompile(`\breact[@./]`)
	reactDOMScript = regexp.MustCompile(`\breact-dom\b`)
	babelScript    = regexp.MustCompile(`babel`)
	vueScript      = regexp.MustCompile(`\bvue[@./]`)
)

// MountID picks the element a component mounts into: #app, then #root, then
// the first element with an id inside body.
func MountID(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return DefaultMountID
	}
	for _, id := range mountIDs {
		if doc.Find("#" + id).Length() > 0 {
			return id
		}
	}
	if id, ok := doc.Find("body [id]").First().Attr("id"); ok && id != "" {
		return id
	}
	return DefaultMountID
}

// loadsScript reports whether markup already loads a script matching pattern
func loadsScript(markup string, pattern *regexp.Regexp) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false
	}
	found := false
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		found = pattern.MatchString(src)
		return !found
	})
	return found
}
