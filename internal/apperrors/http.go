package apperrors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HTTPStatus maps a business error to its HTTP status code. Anything outside
// the taxonomy is an infra failure and maps to 500.
func HTTPStatus(err error) int {
	var (
		notFound     *NotFoundError
		insufficient *InsufficientStockError
		transition   *InvalidTransitionError
		overReceipt  *OverReceiptError
		validation   *ValidationError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &insufficient), errors.As(err, &overReceipt):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromBindError converts a gin/validator binding failure into a
// ValidationError with a readable field list.
func FromBindError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
		return NewValidation("invalid request: %s", strings.Join(fields, ", "))
	}
	return NewValidation("invalid request body: %s", err.Error())
}
