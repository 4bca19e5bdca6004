package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes v as a JSON response body with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), "encode response", logger.ErrorF(err))
	}
}

// DecodeJSON parses the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(model.ErrValidation, err)
	}
	return nil
}

// Error writes an ErrorResponse with the given status.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, ErrorResponse{Code: status, Message: msg})
}

// RespondError maps a service error to an HTTP status and writes it.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, r, statusFromError(err), err.Error())
}

// QueryInt64 parses a numeric query parameter; malformed or missing values
// become zero and fall back to the service defaults.
func QueryInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrOwnershipMismatch):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrPartNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrOrderPartNotFound),
		errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrVehicleNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPartNumberTaken),
		errors.Is(err, model.ErrVINTaken),
		errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrStatusTransition),
		errors.Is(err, model.ErrOrderNumberConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
