// ABOUTME: Content processing for feed entry summaries
// ABOUTME: Detects HTML, reduces it to plain text for keyword extraction or Markdown for reports

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// ToText reduces content to plain text suitable for keyword
// extraction. HTML is parsed and stripped to its text nodes with
// script and style contents removed; anything else is returned with
// whitespace collapsed.
func ToText(content string) string {
	if content == "" {
		return ""
	}
	if !IsHTML(content) {
		return collapse(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapse(content)
	}
	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

// ToMarkdown converts HTML content to Markdown for report excerpts
// and terminal rendering. Non-HTML content is returned unchanged, as
// is anything the converter rejects.
func ToMarkdown(content string) string {
	if content == "" || !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(markdown)
}

// Excerpt converts content to single-line Markdown and truncates it
// to at most max characters, cutting on a word boundary.
func Excerpt(content string, max int) string {
	line := collapse(ToMarkdown(content))
	if max <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
