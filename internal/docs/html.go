package docs

import (
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

func parseHTML(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, errtrace.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// allText concatenates every text node under n.
func allText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var (
		sb    strings.Builder
		visit func(*html.Node)
	)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// firstText is the trimmed text of the first match of sel under n, or "".
func firstText(n *html.Node, sel cascadia.Sel) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(allText(cascadia.Query(n, sel)))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nextElementSibling skips text and comment nodes.
func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
