package evidence

import (
	"context"
	"net/http"
	"net/url"

	"profverify/internal/domain"
)

const wikipediaSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// WikipediaClient queries the Wikipedia REST summary endpoint for a
// short biographical extract and the canonical page URL.
type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWikipediaClient() *WikipediaClient {
	return &WikipediaClient{
		baseURL:    wikipediaSummaryURL,
		httpClient: newHTTPClient(),
	}
}

type wikipediaSummary struct {
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (c *WikipediaClient) Lookup(ctx context.Context, name, university string) (domain.EvidenceItem, error) {
	query := name + " " + university

	var summary wikipediaSummary
	if err := getJSON(ctx, c.httpClient, c.baseURL+url.PathEscape(query), nil, &summary); err != nil {
		return domain.EvidenceItem{}, err
	}

	item := domain.EvidenceItem{Text: summary.Extract}
	if page := summary.ContentURLs.Desktop.Page; page != "" {
		item.Links = append(item.Links, page)
	}
	return item, nil
}
