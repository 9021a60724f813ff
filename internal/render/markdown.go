package render

import (
	"regexp"
	"strings"
)

var (
	reH3     = regexp.MustCompile(`(?m)^### (.+)$`)
	reH2     = regexp.MustCompile(`(?m)^## (.+)$`)
	reH1     = regexp.MustCompile(`(?m)^# (.+)$`)
	reBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic = regexp.MustCompile(`\*(.+?)\*`)
	reHR     = regexp.MustCompile(`(?m)^---$`)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes the HTML-special characters. User-edited transcripts
// and extraction values flow into templates, so escaping must happen before
// any markup substitution.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// MarkdownToHTML converts the small markdown subset used by intent templates
// to HTML. The input is escaped first, then line-oriented substitutions are
// applied in fixed order: headings from the longest marker down (so "###"
// is not shadowed by "#"), bold, italic, horizontal rules, paragraph breaks,
// and finally single newlines to line breaks. Output is wrapped in one
// paragraph container.
func MarkdownToHTML(markdown string) string {
	html := escapeHTML(markdown)

	html = reH3.ReplaceAllString(html, "<h3>$1</h3>")
	html = reH2.ReplaceAllString(html, "<h2>$1</h2>")
	html = reH1.ReplaceAllString(html, "<h1>$1</h1>")
	html = reBold.ReplaceAllString(html, "<strong>$1</strong>")
	html = reItalic.ReplaceAllString(html, "<em>$1</em>")
	html = reHR.ReplaceAllString(html, "<hr>")
	html = strings.ReplaceAll(html, "\n\n", "</p><p>")
	html = strings.ReplaceAll(html, "\n", "<br>")

	return "<p>" + html + "</p>"
}
