package evidence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"profverify/internal/domain"
)

const (
	semanticScholarSearchURL = "https://api.semanticscholar.org/graph/v1/author/search"

	// The public author-search endpoint is rate-limited but free.
	authorLimit = 5
)

// SemanticScholarClient searches the Semantic Scholar academic graph
// for candidate authors matching a name.
type SemanticScholarClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSemanticScholarClient() *SemanticScholarClient {
	return &SemanticScholarClient{
		baseURL:    semanticScholarSearchURL,
		httpClient: newHTTPClient(),
	}
}

type authorSearchResponse struct {
	Data []struct {
		Name         string   `json:"name"`
		Affiliations []string `json:"affiliations"`
		URL          string   `json:"url"`
	} `json:"data"`
}

// Lookup searches by name only; the university is matched downstream
// by the judge against the returned affiliation lists.
func (c *SemanticScholarClient) Lookup(ctx context.Context, name, _ string) (domain.EvidenceItem, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("limit", fmt.Sprintf("%d", authorLimit))
	params.Set("fields", "name,affiliations,url")

	var result authorSearchResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL, params, &result); err != nil {
		return domain.EvidenceItem{}, err
	}

	var lines []string
	var item domain.EvidenceItem
	for i, author := range result.Data {
		if i >= authorLimit {
			break
		}
		if author.Name != "" {
			lines = append(lines, fmt.Sprintf("Author: %s | Affiliations: %s", author.Name, strings.Join(author.Affiliations, ", ")))
		}
		if author.URL != "" {
			item.Links = append(item.Links, author.URL)
		}
	}

	item.Text = strings.Join(lines, "\n")
	return item, nil
}
