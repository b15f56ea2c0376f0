package server

import (
	"net/http"
	"strings"

	"github.com/mariselv/helping-hands/internal/routing"
	schematypes "github.com/mariselv/helping-hands/modules/schema/domain/types"
	schemaservices "github.com/mariselv/helping-hands/modules/schema/services"
)

type categoryListAPIResponse struct {
	Categories []schematypes.Category `json:"categories"`
}

type createCategoryAPIRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func handleCategoriesAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	switch r.Method {
	case http.MethodGet:
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			writeDomainError(w, r, routing.RouteClassAdminAPI, err)
			return
		}
		writeJSON(w, http.StatusOK, categoryListAPIResponse{Categories: categories})
	case http.MethodPost:
		var req createCategoryAPIRequest
		if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
			return
		}
		created, err := svc.CreateCategory(r.Context(), schemaservices.CreateCategoryRequest{
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
		})
		if err != nil {
			writeDomainError(w, r, routing.RouteClassAdminAPI, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		routing.WriteError(w, r, routing.RouteClassAdminAPI, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

type updateCategoryAPIRequest struct {
	CategoryID  string  `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

func handleCategoriesUpdateAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	var req updateCategoryAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
		return
	}
	updated, err := svc.UpdateCategory(r.Context(), strings.TrimSpace(req.CategoryID), schematypes.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		writeDomainError(w, r, routing.RouteClassAdminAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type deleteCategoryAPIRequest struct {
	CategoryID string `json:"category_id"`
	Cascade    bool   `json:"cascade"`
}

func handleCategoriesDeleteAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	var req deleteCategoryAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
		return
	}
	if err := svc.DeleteCategory(r.Context(), strings.TrimSpace(req.CategoryID), req.Cascade); err != nil {
		writeDomainError(w, r, routing.RouteClassAdminAPI, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldListAPIResponse struct {
	Fields []schematypes.FieldDefinition `json:"fields"`
}

type addFieldAPIRequest struct {
	CategoryID  string   `json:"category_id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
	Placeholder string   `json:"placeholder"`
	Rule        string   `json:"rule"`
}

func handleFieldsAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	switch r.Method {
	case http.MethodGet:
		categoryID := strings.TrimSpace(r.URL.Query().Get("category_id"))
		if categoryID == "" {
			routing.WriteError(w, r, routing.RouteClassAdminAPI, http.StatusBadRequest, "bad_request", "category_id required")
			return
		}
		schema, err := svc.GetSchema(r.Context(), categoryID)
		if err != nil {
			writeDomainError(w, r, routing.RouteClassAdminAPI, err)
			return
		}
		writeJSON(w, http.StatusOK, fieldListAPIResponse{Fields: schema.Fields})
	case http.MethodPost:
		var req addFieldAPIRequest
		if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
			return
		}
		created, err := svc.AddField(r.Context(), schemaservices.AddFieldRequest{
			CategoryID:  strings.TrimSpace(req.CategoryID),
			Name:        req.Name,
			Type:        req.Type,
			Required:    req.Required,
			Options:     req.Options,
			Placeholder: req.Placeholder,
			Rule:        req.Rule,
		})
		if err != nil {
			writeDomainError(w, r, routing.RouteClassAdminAPI, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		routing.WriteError(w, r, routing.RouteClassAdminAPI, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

type updateFieldAPIRequest struct {
	FieldID     string    `json:"field_id"`
	Name        *string   `json:"name"`
	Type        *string   `json:"type"`
	Required    *bool     `json:"required"`
	Options     *[]string `json:"options"`
	Placeholder *string   `json:"placeholder"`
	Rule        *string   `json:"rule"`
	Force       bool      `json:"force"`
}

func handleFieldsUpdateAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	var req updateFieldAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
		return
	}
	updated, err := svc.UpdateField(r.Context(), strings.TrimSpace(req.FieldID), schematypes.FieldPatch{
		Name:        req.Name,
		Type:        req.Type,
		Required:    req.Required,
		Options:     req.Options,
		Placeholder: req.Placeholder,
		Rule:        req.Rule,
	}, req.Force)
	if err != nil {
		writeDomainError(w, r, routing.RouteClassAdminAPI, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type deleteFieldAPIRequest struct {
	FieldID string `json:"field_id"`
	Force   bool   `json:"force"`
}

func handleFieldsDeleteAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.SchemaService) {
	var req deleteFieldAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
		return
	}
	if err := svc.DeleteField(r.Context(), strings.TrimSpace(req.FieldID), req.Force); err != nil {
		writeDomainError(w, r, routing.RouteClassAdminAPI, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderFieldsAPIRequest struct {
	CategoryID string   `json:"category_id"`
	FieldIDs   []string `json:"field_ids"`
}

func handleFieldsReorderAPI(w http.ResponseWriter, r *http.Request, svc schemaservices.OrderingService) {
	var req reorderFieldsAPIRequest
	if !decodeJSONBody(w, r, routing.RouteClassAdminAPI, &req) {
		return
	}
	if err := svc.Reorder(r.Context(), req.CategoryID, req.FieldIDs); err != nil {
		writeDomainError(w, r, routing.RouteClassAdminAPI, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
