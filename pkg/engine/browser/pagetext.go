package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// visibleText extracts the human-visible text of a page from its raw HTML,
// dropping scripts, styles, and hidden noise. Block elements become line
// breaks so the output reads roughly like the rendered page. The result is
// truncated to maxLength bytes with a marker.
func visibleText(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	collectText(doc, &builder)

	text := collapseBlankLines(builder.String())
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength] + "\n[truncated]"
	}
	return text, nil
}

// pageTitle returns the document title, or "".
func pageTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return title
}

func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}

	if n.Type == html.ElementNode {
		tag := strings.ToLower(n.Data)
		if isNoiseElement(tag) {
			return
		}
		if isLineBreakElement(tag) {
			builder.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if builder.Len() > 0 && !endsWithBreak(builder) {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}

	if n.Type == html.ElementNode && isLineBreakElement(strings.ToLower(n.Data)) {
		builder.WriteString("\n")
	}
}

func endsWithBreak(builder *strings.Builder) bool {
	s := builder.String()
	return strings.HasSuffix(s, "\n")
}

// collapseBlankLines squeezes runs of blank lines down to one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isNoiseElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "head":
		return true
	}
	return false
}

func isLineBreakElement(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav", "main",
		"aside", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"table", "tr", "form", "fieldset", "blockquote", "pre", "br":
		return true
	}
	return false
}
