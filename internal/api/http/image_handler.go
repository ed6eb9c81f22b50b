package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/service"

	"github.com/gorilla/mux"
)

// imageFormField is the multipart field an upload is read from
const imageFormField = "image"

type ImageHandler struct {
	imageSvc service.ImageStorageService
}

func NewImageHandler(imageSvc service.ImageStorageService) *ImageHandler {
	return &ImageHandler{imageSvc: imageSvc}
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload stores an image sent either as a multipart "image" field or as the
// raw request body with an image Content-Type.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	filename, contentType, body, err := imagePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key, url, err := h.imageSvc.UploadImage(r.Context(), session, filename, contentType, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: url})
}

func imagePayload(r *http.Request) (filename, contentType string, body io.Reader, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return "", mediaType, r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return "", "", nil, domain.NewError(domain.KindInvalidInput, "malformed multipart body: %v", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", "", nil, domain.NewError(domain.KindInvalidInput, "multipart body has no %q field", imageFormField)
		}
		if err != nil {
			return "", "", nil, domain.NewError(domain.KindInvalidInput, "malformed multipart body: %v", err)
		}
		if part.FormName() == imageFormField {
			return part.FileName(), part.Header.Get("Content-Type"), part, nil
		}
	}
}

// Download streams a stored image
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.imageSvc.OpenImage(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("Failed to stream image", "key", mux.Vars(r)["key"], "error", err)
	}
}
