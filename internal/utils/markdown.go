package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	// Posts get the full article tag set.
	postPolicy = bluemonday.NewPolicy()

	// Comments only get inline formatting.
	commentPolicy = bluemonday.NewPolicy()
)

func init() {
	postPolicy.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "code",
		"em", "i", "li", "ol", "pre", "strong", "ul",
		"h1", "h2", "h3", "p", "span", "img", "hr", "div",
	)
	postPolicy.AllowAttrs("href").OnElements("a")
	postPolicy.AllowAttrs("src", "alt").OnElements("img")
	postPolicy.AllowAttrs("class").Globally()
	postPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	postPolicy.RequireNoReferrerOnLinks(true)

	commentPolicy.AllowElements("a", "abbr", "acronym", "b", "code", "em", "strong")
	commentPolicy.AllowAttrs("href").OnElements("a")
	commentPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	commentPolicy.RequireNoReferrerOnLinks(true)
}

func renderMarkdown(source string, policy *bluemonday.Policy) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// Fall back to sanitizing the raw source.
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// RenderPostMarkdown converts a post body to sanitized HTML.
func RenderPostMarkdown(source string) string {
	return renderMarkdown(source, postPolicy)
}

// RenderCommentMarkdown converts a comment body to sanitized HTML with the
// narrow inline tag set.
func RenderCommentMarkdown(source string) string {
	return renderMarkdown(source, commentPolicy)
}
