package handlers

import (
	"blogapi/internal/models"
	"blogapi/internal/service"
	"blogapi/internal/storage"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	maxRequestBody = 32 << 20
	maxFormMemory  = 8 << 20
)

type uploadedFile struct {
	service.Upload
	file multipart.File
}

func (u *uploadedFile) Close() error {
	return u.file.Close()
}

// formFile returns the first of the named multipart files present, or nil if none is.
func formFile(w http.ResponseWriter, r *http.Request, names ...string) (*uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, models.NewValidationError("Request too large.")
		}
		return nil, models.NewBadRequestError("Invalid form data.")
	}

	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return &uploadedFile{
				Upload: service.Upload{FileName: header.Filename, File: file},
				file:   file,
			}, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, models.NewBadRequestError("Invalid form data.")
		}
	}

	return nil, nil
}

// ServeUpload streams a stored avatar or thumbnail back to the client.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	obj, err := h.Storage.Open(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			WriteError(w, "File not found.", http.StatusNotFound)
			return
		}
		WriteAppError(w, r, err)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj); err != nil {
		slog.WarnContext(r.Context(), "failed to stream upload", "file", mux.Vars(r)["name"], "error", err)
	}
}
