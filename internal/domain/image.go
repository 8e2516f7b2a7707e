package domain

import (
	"context"
	"io"
)

// ImageResult is one stock-photo search hit offered as an event cover image.
type ImageResult struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Thumb           string `json:"thumb"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
}

// ImageSearcher searches a stock-photo provider. eventName is optional
// context used to refine the query.
type ImageSearcher interface {
	Search(ctx context.Context, query, eventName string) ([]ImageResult, error)
}

// ImageUploader stores an uploaded image and returns its public URL.
// The core only ever consumes the resulting URL string.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (url string, err error)
}
