// Package htmlsanitize cleans material HTML before it reaches a template
// and reduces titles to plain text.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = newContentPolicy()
	strictPolicy  = bluemonday.StrictPolicy()
)

// The content policy matches what the board renders: paragraphs, headings,
// quotes from novels, lists, links and images.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "h3", "blockquote", "ul", "ol", "li", "table", "td", "th")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize removes scripts, event handlers and unsafe URLs from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return contentPolicy.Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// PlainText strips every tag and decodes entities, then collapses
// whitespace. Used for titles.
func PlainText(s string) string {
	out := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}

// isPlainText reports whether s contains no markup at all.
func isPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}

// plainTextToHTML escapes s and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func plainTextToHTML(s string) template.HTML {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}

// PrepareForDisplay accepts either markup or plain text from a teacher
// and returns safe HTML.
func PrepareForDisplay(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if isPlainText(s) {
		return plainTextToHTML(s)
	}
	return SanitizeToHTML(s)
}
