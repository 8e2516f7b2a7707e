package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"vapaweb/internal/adapters/images"
	"vapaweb/internal/delivery/http/helpers"
	"vapaweb/internal/domain"
)

// ImageController serves the admin cover-image tooling: stock-photo search
// and direct upload.
type ImageController struct {
	Logger   *slog.Logger
	Searcher domain.ImageSearcher
	Uploader domain.ImageUploader
}

func NewImageController(logger *slog.Logger, searcher domain.ImageSearcher, uploader domain.ImageUploader) *ImageController {
	return &ImageController{
		Logger:   logger,
		Searcher: searcher,
		Uploader: uploader,
	}
}

// SearchImages handles GET /images/search?query=&event_name= (admin).
func (c *ImageController) SearchImages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "query is required")
		return
	}
	results, err := c.Searcher.Search(r.Context(), query, r.URL.Query().Get("event_name"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "image search failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, results)
}

// UploadResponse is the payload returned after a successful image upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadImage handles POST /images/upload (admin). Expects a multipart form
// with the image under the "file" field. The uploader enforces the size and
// content-type limits.
func (c *ImageController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := c.Uploader.Upload(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		if errors.Is(err, images.ErrInvalidUpload) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "image upload failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, UploadResponse{URL: url})
}
