package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return "Invalid value"
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusUnprocessableEntity:
		return domain.ErrorTypeValidation
	default:
		return domain.ErrorTypeInternal
	}
}

// handleServiceError translates service sentinel errors into HTTP responses.
// Anything unmapped becomes a 500 without leaking internals.
func handleServiceError(w http.ResponseWriter, err error) {
	var vfe *service.ValidationFailedError
	if errors.As(err, &vfe) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":   domain.ErrorTypeValidation,
			"title":  "Ficha incompleta",
			"status": http.StatusUnprocessableEntity,
			"detail": "A ficha não passou na validação de campos obrigatórios",
			"errors": vfe.Findings,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrFichaNotFound),
		errors.Is(err, service.ErrMaterialNotFound),
		errors.Is(err, service.ErrFotoNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFuncionarioNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrVersionConflict):
		respondWithError(w, http.StatusConflict,
			"A ficha foi alterada por outro usuário. Recarregue e tente novamente.")
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrNotificationNotOwned):
		respondWithError(w, http.StatusForbidden, "A notificação pertence a outro usuário")
	case errors.Is(err, service.ErrFichaNotEditable),
		errors.Is(err, service.ErrNoPreviousStatus),
		errors.Is(err, service.ErrJustificativaTooShort),
		errors.Is(err, service.ErrFichaNotSent),
		errors.Is(err, service.ErrFichaNotApproved),
		errors.Is(err, service.ErrFichaNotInPurchasing),
		errors.Is(err, service.ErrFichaNotInProduction):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, "Arquivo excede o tamanho máximo permitido")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
