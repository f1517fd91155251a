package handlers

import (
	"blogapi/internal/service"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type EditUserRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email" validate:"omitempty,email"`
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (h *Handlers) GetAuthors(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.GetAuthors(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, users, http.StatusOK)
}

func (h *Handlers) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := service.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token.", http.StatusUnauthorized)
		return
	}

	avatar, err := formFile(w, r, "avatar")
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	if avatar == nil {
		WriteError(w, "Please choose an image.", http.StatusUnprocessableEntity)
		return
	}
	defer avatar.Close()

	user, err := h.UserService.ChangeAvatar(r.Context(), identity.ID, avatar.Upload)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (h *Handlers) EditUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := service.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token.", http.StatusUnauthorized)
		return
	}

	var req EditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.Validate.Struct(req); err != nil {
		WriteAppError(w, r, validationError(err))
		return
	}

	user, err := h.UserService.EditUser(r.Context(), identity.ID, service.EditUserRequest{
		Name:               req.Name,
		Email:              req.Email,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
