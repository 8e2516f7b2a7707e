package images

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc lets a test stand in for the Unsplash API.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const searchFixture = `{
	"results": [
		{
			"id": "ph-1",
			"urls": {"regular": "https://images.example/ph-1", "small": "https://images.example/ph-1-small"},
			"alt_description": "a stage with lights",
			"user": {"name": "Ana", "links": {"html": "https://unsplash.com/@ana"}}
		},
		{
			"id": "ph-2",
			"urls": {"regular": "https://images.example/ph-2", "small": "https://images.example/ph-2-small"},
			"alt_description": "",
			"description": "",
			"user": {"name": "Ben", "links": {"html": "https://unsplash.com/@ben"}}
		}
	]
}`

func TestUnsplashSearcher_Search(t *testing.T) {
	var gotReq *http.Request
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotReq = r
		return jsonResponse(http.StatusOK, searchFixture), nil
	})}

	searcher := NewUnsplashSearcher(client, "test-key")
	results, err := searcher.Search(context.Background(), "gala", "Summer Gala")
	require.NoError(t, err)

	require.NotNil(t, gotReq)
	assert.Equal(t, "api.unsplash.com", gotReq.URL.Host)
	assert.Equal(t, "/search/photos", gotReq.URL.Path)
	assert.Equal(t, "gala Summer Gala", gotReq.URL.Query().Get("query"))
	assert.Equal(t, "9", gotReq.URL.Query().Get("per_page"))
	assert.Equal(t, "landscape", gotReq.URL.Query().Get("orientation"))
	assert.Equal(t, "Client-ID test-key", gotReq.Header.Get("Authorization"))

	require.Len(t, results, 2)
	assert.Equal(t, "ph-1", results[0].ID)
	assert.Equal(t, "https://images.example/ph-1", results[0].URL)
	assert.Equal(t, "a stage with lights", results[0].Alt)
	assert.Equal(t, "Ana", results[0].Photographer)
	assert.Equal(t, "Unsplash photo", results[1].Alt, "empty descriptions fall back to a generic alt")
}

func TestUnsplashSearcher_Search_Errors(t *testing.T) {
	t.Run("missing access key", func(t *testing.T) {
		searcher := NewUnsplashSearcher(nil, "")
		_, err := searcher.Search(context.Background(), "gala", "")
		require.Error(t, err)
	})

	t.Run("non-200 from the api", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusForbidden, `{"errors":["rate limited"]}`), nil
		})}
		searcher := NewUnsplashSearcher(client, "test-key")
		_, err := searcher.Search(context.Background(), "gala", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})
}
