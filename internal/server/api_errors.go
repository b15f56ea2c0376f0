package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mariselv/helping-hands/internal/routing"
	causetypes "github.com/mariselv/helping-hands/modules/cause/domain/types"
	schematypes "github.com/mariselv/helping-hands/modules/schema/domain/types"
	"github.com/mariselv/helping-hands/pkg/httperr"
)

type validationErrorEnvelope struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Errors  []schematypes.FieldError `json:"errors"`
}

// writeDomainError maps service errors onto the wire. Sentinel errors keep
// their UPPER_SNAKE name as the envelope code; validation failures get their
// own envelope carrying the full per-field list.
func writeDomainError(w http.ResponseWriter, r *http.Request, rc routing.RouteClass, err error) {
	if verr, ok := schematypes.AsValidationError(err); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(validationErrorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: "submission failed validation",
			Errors:  verr.Fields,
		})
		return
	}

	if httperr.IsBadRequest(err) {
		routing.WriteError(w, r, rc, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	switch {
	case errors.Is(err, schematypes.ErrCategoryNotFound),
		errors.Is(err, schematypes.ErrFieldNotFound),
		errors.Is(err, causetypes.ErrCauseNotFound):
		routing.WriteError(w, r, rc, http.StatusNotFound, err.Error(), err.Error())
	case errors.Is(err, schematypes.ErrCategoryNameConflict),
		errors.Is(err, schematypes.ErrFieldNameConflict),
		errors.Is(err, schematypes.ErrCategoryInUse),
		errors.Is(err, schematypes.ErrFieldInUse):
		routing.WriteError(w, r, rc, http.StatusConflict, err.Error(), err.Error())
	case errors.Is(err, schematypes.ErrFieldTypeUnknown),
		errors.Is(err, schematypes.ErrFieldOptionsRequired),
		errors.Is(err, schematypes.ErrFieldRuleInvalid),
		errors.Is(err, schematypes.ErrFieldUnknown),
		errors.Is(err, schematypes.ErrFieldOrderIncomplete),
		errors.Is(err, causetypes.ErrCauseStatusUnknown):
		routing.WriteError(w, r, rc, http.StatusUnprocessableEntity, err.Error(), err.Error())
	case isPgInvalidInput(err):
		routing.WriteError(w, r, rc, http.StatusBadRequest, "bad_request", "malformed value")
	default:
		routing.WriteError(w, r, rc, http.StatusInternalServerError, "storage_failure", "storage failure")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, rc routing.RouteClass, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		routing.WriteError(w, r, rc, http.StatusUnprocessableEntity, "invalid_json", "invalid json")
		return false
	}
	return true
}
