package httpadapter

import (
	"net/http"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrMissingUserID),
		domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrClassification):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrProfileNotFound),
		domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
