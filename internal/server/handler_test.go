package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mariselv/helping-hands/pkg/upload"
)

type cleanerFunc func(ctx context.Context, ref string) error

func (f cleanerFunc) DeleteRef(ctx context.Context, ref string) error { return f(ctx, ref) }

func newTestHandler(t *testing.T) (http.Handler, *fakeSchemaStore, *fakeValueStore, *fakeCauseStore) {
	t.Helper()
	t.Cleanup(upload.ResetForTest)

	schemaStore := newFakeSchemaStore()
	valueStore := newFakeValueStore()
	causeStore := newFakeCauseStore()

	h, err := NewHandlerWithOptions(HandlerOptions{
		SchemaStore:   schemaStore,
		ValueStore:    valueStore,
		CauseStore:    causeStore,
		UploadCleaner: cleanerFunc(func(context.Context, string) error { return nil }),
	})
	if err != nil {
		t.Fatalf("NewHandlerWithOptions: %v", err)
	}
	return h, schemaStore, valueStore, causeStore
}

func doJSON(t *testing.T, h http.Handler, method, path, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
		req.Header.Set("X-Actor-Id", "user-"+role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHandler_Health(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("body=%v", body)
	}
}

func TestHandler_AdminAPIForbiddenWithoutAdminRole(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	for _, role := range []string{"", "organizer"} {
		rec := doJSON(t, h, http.MethodPost, "/admin/api/categories", role, map[string]string{"name": "Animals"})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role=%q status=%d body=%s", role, rec.Code, rec.Body.String())
		}
		var envelope struct {
			Code string `json:"code"`
		}
		decodeBody(t, rec, &envelope)
		if envelope.Code != "forbidden" {
			t.Fatalf("role=%q code=%q", role, envelope.Code)
		}
	}
}

func TestHandler_CategoryAndFieldLifecycle(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/admin/api/categories", "admin", map[string]string{
		"name":        "Disaster Relief",
		"description": "Emergency response causes",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, rec, &category)
	if category.ID == "" || category.Name != "Disaster Relief" {
		t.Fatalf("category=%+v", category)
	}

	rec = doJSON(t, h, http.MethodPost, "/admin/api/categories", "admin", map[string]string{"name": "disaster relief"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate category: status=%d body=%s", rec.Code, rec.Body.String())
	}

	var fieldIDs []string
	for _, spec := range []map[string]any{
		{"category_id": category.ID, "name": "region", "type": "select", "required": true, "options": []string{"north", "south"}},
		{"category_id": category.ID, "name": "goal", "type": "number"},
	} {
		rec = doJSON(t, h, http.MethodPost, "/admin/api/fields", "admin", spec)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add field %v: status=%d body=%s", spec["name"], rec.Code, rec.Body.String())
		}
		var field struct {
			ID string `json:"id"`
		}
		decodeBody(t, rec, &field)
		fieldIDs = append(fieldIDs, field.ID)
	}

	rec = doJSON(t, h, http.MethodPost, "/admin/api/fields:reorder", "admin", map[string]any{
		"category_id": category.ID,
		"field_ids":   []string{fieldIDs[1], fieldIDs[0]},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reorder: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/schema?category_id="+category.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get schema: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var schema struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	decodeBody(t, rec, &schema)
	if len(schema.Fields) != 2 || schema.Fields[0].Name != "goal" || schema.Fields[1].Name != "region" {
		t.Fatalf("fields=%+v", schema.Fields)
	}
}

func setupReliefSchema(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/admin/api/categories", "admin", map[string]string{"name": "Disaster Relief"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var category struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &category)

	for _, spec := range []map[string]any{
		{"category_id": category.ID, "name": "region", "type": "select", "required": true, "options": []string{"north", "south"}},
		{"category_id": category.ID, "name": "goal", "type": "number"},
	} {
		rec = doJSON(t, h, http.MethodPost, "/admin/api/fields", "admin", spec)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add field: status=%d body=%s", rec.Code, rec.Body.String())
		}
	}
	return category.ID
}

func TestHandler_SubmitAndPrefill(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	categoryID := setupReliefSchema(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/causes", "organizer", map[string]any{
		"category_id": categoryID,
		"title":       "  Flood recovery  ",
		"summary":     "Rebuild after the spring flood",
		"attributes":  map[string]any{"region": "north", "goal": 25000},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var cause struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	decodeBody(t, rec, &cause)
	if cause.Title != "Flood recovery" || cause.Status != "active" {
		t.Fatalf("cause=%+v", cause)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/causes/values?cause_id="+cause.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("prefill: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var form struct {
		Values []struct {
			FieldName string `json:"field_name"`
			Value     any    `json:"value"`
		} `json:"values"`
	}
	decodeBody(t, rec, &form)
	if len(form.Values) != 2 {
		t.Fatalf("values=%+v", form.Values)
	}
	byName := map[string]any{}
	for _, v := range form.Values {
		byName[v.FieldName] = v.Value
	}
	if byName["region"] != "north" {
		t.Fatalf("region=%v", byName["region"])
	}
	if byName["goal"] != "25000" {
		t.Fatalf("goal=%v", byName["goal"])
	}
}

func TestHandler_SubmitValidationEnvelope(t *testing.T) {
	h, _, _, causeStore := newTestHandler(t)
	categoryID := setupReliefSchema(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/causes", "organizer", map[string]any{
		"category_id": categoryID,
		"title":       "Broken submission",
		"attributes":  map[string]any{"goal": "plenty"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Code   string `json:"code"`
		Errors []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		} `json:"errors"`
	}
	decodeBody(t, rec, &envelope)
	if envelope.Code != "VALIDATION_FAILED" {
		t.Fatalf("code=%q", envelope.Code)
	}
	if len(envelope.Errors) != 2 {
		t.Fatalf("errors=%+v", envelope.Errors)
	}
	if len(causeStore.causes) != 0 {
		t.Fatalf("cause persisted despite validation failure: %v", causeStore.causes)
	}
}

func TestHandler_ValidateDryRunPersistsNothing(t *testing.T) {
	h, _, valueStore, causeStore := newTestHandler(t)
	categoryID := setupReliefSchema(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/causes:validate", "organizer", map[string]any{
		"category_id": categoryID,
		"attributes":  map[string]any{"region": "south"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Valid     bool           `json:"valid"`
		Canonical map[string]any `json:"canonical"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Valid || resp.Canonical["region"] != "south" {
		t.Fatalf("resp=%+v", resp)
	}
	if len(causeStore.causes) != 0 || len(valueStore.rows) != 0 {
		t.Fatal("dry run persisted data")
	}
}

func TestHandler_DeleteCauseRemovesValues(t *testing.T) {
	h, _, valueStore, _ := newTestHandler(t)
	categoryID := setupReliefSchema(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/causes", "organizer", map[string]any{
		"category_id": categoryID,
		"title":       "Short lived",
		"attributes":  map[string]any{"region": "north"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var cause struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &cause)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/causes:delete", "organizer", map[string]string{"cause_id": cause.ID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(valueStore.rows[cause.ID]) != 0 {
		t.Fatalf("values remain: %+v", valueStore.rows[cause.ID])
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/causes/values?cause_id="+cause.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("prefill after delete: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &envelope)
	if envelope.Code != "CAUSE_NOT_FOUND" {
		t.Fatalf("code=%q", envelope.Code)
	}
}

func TestHandler_UnknownRouteJSON(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
	var envelope struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &envelope)
	if envelope.Code != "not_found" {
		t.Fatalf("code=%q", envelope.Code)
	}
}
