package handlers

import (
	"blogapi/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, ErrorResponse{Message: message}, statusCode)
}

// WriteAppError maps err to its status; unknown errors become 500 with their text.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := models.AsAppError(err)

	message := appErr.Message
	if appErr.Code == models.CodeInternal {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = appErr.Error()
	}

	WriteError(w, message, appErr.Status())
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// validationError turns the first failed rule into a client message.
func validationError(err error) *models.AppError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return models.NewValidationError("Invalid input.")
	}

	fe := fieldErrors[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return models.NewValidationError("Fill in all fields.")
	case "email":
		return models.NewValidationError("Invalid email.")
	case "min":
		return models.NewValidationError(fmt.Sprintf("%s should be at least %s characters.", fe.Field(), fe.Param()))
	default:
		return models.NewValidationError(fmt.Sprintf("Invalid %s.", field))
	}
}
