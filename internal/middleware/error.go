package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// MessageResponse is the error body shape used across the API
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithError sends a `{"message": ...}` error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, MessageResponse{Message: message})
}

// RespondWithValidationErrors sends a 400 response itemizing the field
// violations as comma-joined "field: message" pairs
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	parts := make([]string, 0, len(errors))
	for _, e := range errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	RespondWithError(w, http.StatusBadRequest, strings.Join(parts, ", "))
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
