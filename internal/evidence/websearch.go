package evidence

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"profverify/internal/domain"
)

const (
	duckDuckGoHTMLURL = "https://html.duckduckgo.com/html/"

	maxSearchLinks = 10
)

// WebSearchClient scrapes the DuckDuckGo HTML result page. Free and
// keyless, which makes it the stand-in for a search API.
type WebSearchClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWebSearchClient() *WebSearchClient {
	return &WebSearchClient{
		baseURL:    duckDuckGoHTMLURL,
		httpClient: newHTTPClient(),
	}
}

func (c *WebSearchClient) Lookup(ctx context.Context, name, university string) (domain.EvidenceItem, error) {
	query := name + " " + university + " professor publications"

	form := url.Values{}
	form.Set("q", query)

	page, err := postForm(ctx, c.httpClient, c.baseURL, form)
	if err != nil {
		return domain.EvidenceItem{}, err
	}

	links, err := extractResultLinks(page, maxSearchLinks)
	if err != nil {
		return domain.EvidenceItem{}, err
	}
	return domain.EvidenceItem{Links: links}, nil
}

// extractResultLinks walks the result page and collects hrefs from
// anchors carrying the result__a class. Only absolute http(s) links
// count; everything else (relative paths, redirect stubs) is skipped.
func extractResultLinks(page string, limit int) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(links) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if href := attrValue(n, "href"); strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
