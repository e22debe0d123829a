package portal

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryLen = 120

// Summarize returns a short description of an HTML page for error messages:
// its title, or the first top-level heading when the title is empty.
// It returns "" when nothing usable is found.
func Summarize(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"title", "h1", "h2"} {
		text := collapseSpace(doc.Find(selector).First().Text())
		if text != "" {
			return truncate(text, maxSummaryLen)
		}
	}

	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
