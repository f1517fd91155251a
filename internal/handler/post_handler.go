package handlers

import (
	"blogapi/internal/models"
	"blogapi/internal/service"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
)

// PostForm is the editable part of a post, sent as multipart form fields or JSON.
type PostForm struct {
	Title       string `json:"title"`
	Category    string `json:"category" validate:"omitempty,oneof=Agriculture Business Education Entertainment Art Investment Uncategorized Weather"`
	Description string `json:"description" validate:"omitempty,min=12"`
}

func (f PostForm) toRequest() service.PostRequest {
	return service.PostRequest{
		Title:       f.Title,
		Category:    f.Category,
		Description: f.Description,
	}
}

// thumbnailFields lists the accepted file fields; older clients send the misspelled one.
var thumbnailFields = []string{"thumbnail", "thumbanail"}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := service.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token.", http.StatusUnauthorized)
		return
	}

	form, thumbnail, err := h.decodePostForm(w, r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	var upload service.Upload
	if thumbnail != nil {
		defer thumbnail.Close()
		upload = thumbnail.Upload
	}

	post, err := h.PostService.CreatePost(r.Context(), identity, form.toRequest(), upload)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, post, http.StatusCreated)
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetPosts(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *Handlers) GetCategoryPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetCategoryPosts(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, posts, http.StatusOK)
}

func (h *Handlers) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetUserPosts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, posts, http.StatusOK)
}

func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	identity, ok := service.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token.", http.StatusUnauthorized)
		return
	}

	form, thumbnail, err := h.decodePostForm(w, r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	var upload *service.Upload
	if thumbnail != nil {
		defer thumbnail.Close()
		upload = &thumbnail.Upload
	}

	post, err := h.PostService.EditPost(r.Context(), identity, mux.Vars(r)["id"], form.toRequest(), upload)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := service.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token.", http.StatusUnauthorized)
		return
	}

	message, err := h.PostService.DeletePost(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, message, http.StatusOK)
}

// decodePostForm reads the post fields from JSON or form data, plus an optional thumbnail.
func (h *Handlers) decodePostForm(w http.ResponseWriter, r *http.Request) (PostForm, *uploadedFile, error) {
	var form PostForm
	var thumbnail *uploadedFile

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, nil, models.NewBadRequestError("Invalid request body.")
		}
	} else {
		var err error
		thumbnail, err = formFile(w, r, thumbnailFields...)
		if err != nil {
			return form, nil, err
		}
		form = PostForm{
			Title:       r.FormValue("title"),
			Category:    r.FormValue("category"),
			Description: r.FormValue("description"),
		}
	}

	if err := h.Validate.Struct(form); err != nil {
		if thumbnail != nil {
			thumbnail.Close()
		}
		return form, nil, validationError(err)
	}

	return form, thumbnail, nil
}
