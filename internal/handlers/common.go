package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"thinking-of-you-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

var requestValidator = newValidator()

var errEmptyBody = errors.New("request body is required")

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondJSON sends data as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondDomainError maps a service error to its status code and message
func respondDomainError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	respondError(w, message, status)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidUser):
		return http.StatusBadRequest, "Invalid user"
	case errors.Is(err, models.ErrSelfPairing):
		return http.StatusBadRequest, "Cannot connect with yourself"
	case errors.Is(err, models.ErrAlreadyConnected):
		return http.StatusBadRequest, "Already connected"
	case errors.Is(err, models.ErrConnectionLimitReached):
		return http.StatusBadRequest, "Maximum connections reached"
	case errors.Is(err, models.ErrInvalidSubscription):
		return http.StatusBadRequest, "Invalid subscription"
	case errors.Is(err, models.ErrExpired):
		return http.StatusGone, "Code expired"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, models.ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable, "No pairing code available, try again"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// decodeAndValidate decodes a JSON body into dst and runs its validate tags
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body")
	}

	if err := requestValidator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			field := first.Field()
			switch first.Tag() {
			case "required":
				return fmt.Errorf("%s is required", field)
			case "max":
				return fmt.Errorf("%s is too long", field)
			default:
				return fmt.Errorf("invalid %s", field)
			}
		}
		return fmt.Errorf("invalid request payload")
	}
	return nil
}
