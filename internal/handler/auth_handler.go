package handlers

import (
	"blogapi/internal/service"
	"encoding/json"
	"net/http"
	"strings"
)

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.Validate.Struct(req); err != nil {
		WriteAppError(w, r, validationError(err))
		return
	}

	message, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, message, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}
