package server

import (
	"net/http"
	"strings"

	"github.com/mariselv/helping-hands/internal/routing"
	causetypes "github.com/mariselv/helping-hands/modules/cause/domain/types"
	causeservices "github.com/mariselv/helping-hands/modules/cause/services"
	schematypes "github.com/mariselv/helping-hands/modules/schema/domain/types"
	schemaservices "github.com/mariselv/helping-hands/modules/schema/services"
)

func handlePublicCategoriesAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	categories, err := svc.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, routing.RouteClassPublicAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryListAPIResponse{Categories: categories})
}

func handlePublicSchemaAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	categoryID := strings.TrimSpace(r.URL.Query().Get("category_id"))
	if categoryID == "" {
		routing.WriteError(w, r, routing.RouteClassPublicAPI, http.StatusBadRequest, "bad_request", "category_id required")
		return
	}
	schema, err := svc.GetSchema(r.Context(), categoryID)
	if err != nil {
		writeDomainError(w, r, routing.RouteClassPublicAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

type submitCauseAPIRequest struct {
	CategoryID string         `json:"category_id"`
	Title      string         `json:"title"`
	Summary    string         `json:"summary"`
	Attributes map[string]any `json:"attributes"`
}

type causeListAPIResponse struct {
	Causes []causetypes.Cause `json:"causes"`
}

func handleCausesAPI(w http.ResponseWriter, r *http.Request, svc causeservices.SubmissionService) {
	switch r.Method {
	case http.MethodGet:
		causes, err := svc.ListCauses(r.Context(), strings.TrimSpace(r.URL.Query().Get("category_id")))
		if err != nil {
			writeDomainError(w, r, routing.RouteClassPublicAPI, err)
			return
		}
		writeJSON(w, http.StatusOK, causeListAPIResponse{Causes: causes})
	case http.MethodPost:
		var req submitCauseAPIRequest
		if !decodeJSONBody(w, r, routing.RouteClassPublicAPI, &req) {
			return
		}
		creator := ""
		if p, ok := currentPrincipal(r.Context()); ok {
			creator = p.ID
		}
		created, err := svc.Submit(r.Context(), causeservices.SubmitRequest{
			CategoryID: strings.TrimSpace(req.CategoryID),
			Title:      req.Title,
			Summary:    req.Summary,
			Creator:    creator,
			Attributes: req.Attributes,
		})
		if err != nil {
			writeDomainError(w, r, routing.RouteClassPublicAPI, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		routing.WriteError(w, r, routing.RouteClassPublicAPI, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

type validateCauseAPIRequest struct {
	CategoryID string         `json:"category_id"`
	Attributes map[string]any `json:"attributes"`
}

type validateCauseAPIResponse struct {
	Valid     bool           `json:"valid"`
	Canonical map[string]any `json:"canonical,omitempty"`
}

// handleCausesValidateAPI is the dry-run endpoint: the same coercion as a
// real submission, with nothing persisted.
func handleCausesValidateAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.ValidationService) {
	var req validateCauseAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassPublicAPI, &req) {
		return
	}
	sub, err := svc.ValidateAndCoerce(r.Context(), strings.TrimSpace(req.CategoryID), req.Attributes)
	if err != nil {
		writeDomainError(w, r, routing.RouteClassPublicAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, validateCauseAPIResponse{Valid: true, Canonical: sub.Canonical})
}

type causeValuesAPIResponse struct {
	CauseID string                     `json:"cause_id"`
	Values  []schematypes.DecodedValue `json:"values"`
}

type saveCauseValuesAPIRequest struct {
	CauseID    string         `json:"cause_id"`
	Attributes map[string]any `json:"attributes"`
}

func handleCauseValuesAPI(w http.ResponseWriter, r *http.Request, svc causeservices.SubmissionService) {
	switch r.Method {
	case http.MethodGet:
		causeID := strings.TrimSpace(r.URL.Query().Get("cause_id"))
		if causeID == "" {
			routing.WriteError(w, r, routing.RouteClassPublicAPI, http.StatusBadRequest, "bad_request", "cause_id required")
			return
		}
		form, err := svc.Prefill(r.Context(), causeID)
		if err != nil {
			writeDomainError(w, r, routing.RouteClassPublicAPI, err)
			return
		}
		writeJSON(w, http.StatusOK, form)
	case http.MethodPost:
		var req saveCauseValuesAPIRequest
		if !decodeJSONBody(w, r, routing.RouteClassPublicAPI, &req) {
			return
		}
		causeID := strings.TrimSpace(req.CauseID)
		if err := svc.EditAttributes(r.Context(), causeID, req.Attributes); err != nil {
			writeDomainError(w, r, routing.RouteClassPublicAPI, err)
			return
		}
		values, err := svc.Prefill(r.Context(), causeID)
		if err != nil {
			writeDomainError(w, r, routing.RouteClassPublicAPI, err)
			return
		}
		writeJSON(w, http.StatusOK, causeValuesAPIResponse{CauseID: causeID, Values: values.Values})
	default:
		routing.WriteError(w, r, routing.RouteClassPublicAPI, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

type updateCauseAPIRequest struct {
	CauseID string  `json:"cause_id"`
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Status  *string `json:"status"`
}

func handleCausesUpdateAPI(w http.ResponseWriter, r *http.Request, svc causeservices.SubmissionService) {
	var req updateCauseAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassPublicAPI, &req) {
		return
	}
	updated, err := svc.UpdateCause(r.Context(), strings.TrimSpace(req.CauseID), causetypes.CausePatch{
		Title:   req.Title,
		Summary: req.Summary,
		Status:  req.Status,
	})
	if err != nil {
		writeDomainError(w, r, routing.RouteClassPublicAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type deleteCauseAPIRequest struct {
	CauseID string `json:"cause_id"`
}

func handleCausesDeleteAPI(w http.ResponseWriter, r *http.Request, svc causeservices.SubmissionService) {
	var req deleteCauseAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassPublicAPI, &req) {
		return
	}
	if err := svc.Delete(r.Context(), strings.TrimSpace(req.CauseID)); err != nil {
		writeDomainError(w, r, routing.RouteClassPublicAPI, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
