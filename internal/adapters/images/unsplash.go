package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"vapaweb/internal/domain"
)

const searchPerPage = 9

type unsplashSearcher struct {
	client    *http.Client
	accessKey string
}

// NewUnsplashSearcher returns an ImageSearcher backed by the Unsplash
// search API. Results are landscape-oriented cover-image candidates.
func NewUnsplashSearcher(client *http.Client, accessKey string) domain.ImageSearcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &unsplashSearcher{client: client, accessKey: accessKey}
}

type unsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Regular string `json:"regular"`
		Small   string `json:"small"`
	} `json:"urls"`
	AltDescription string `json:"alt_description"`
	Description    string `json:"description"`
	User           struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

func (s *unsplashSearcher) Search(ctx context.Context, query, eventName string) ([]domain.ImageResult, error) {
	if s.accessKey == "" {
		return nil, fmt.Errorf("unsplash access key is not configured")
	}
	q := query
	if eventName != "" {
		q = query + " " + eventName
	}
	u := url.URL{Scheme: "https", Host: "api.unsplash.com", Path: "/search/photos"}
	params := url.Values{}
	params.Set("query", q)
	params.Set("per_page", fmt.Sprintf("%d", searchPerPage))
	params.Set("orientation", "landscape")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from unsplash: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash api returned status: %d", resp.StatusCode)
	}

	var data struct {
		Results []unsplashPhoto `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode unsplash response: %w", err)
	}

	results := make([]domain.ImageResult, 0, len(data.Results))
	for _, photo := range data.Results {
		alt := photo.AltDescription
		if alt == "" {
			alt = photo.Description
		}
		if alt == "" {
			alt = "Unsplash photo"
		}
		results = append(results, domain.ImageResult{
			ID:              photo.ID,
			URL:             photo.URLs.Regular,
			Thumb:           photo.URLs.Small,
			Alt:             alt,
			Photographer:    photo.User.Name,
			PhotographerURL: photo.User.Links.HTML,
		})
	}
	return results, nil
}
