package server

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mariselv/helping-hands/internal/routing"
	causeports "github.com/mariselv/helping-hands/modules/cause/domain/ports"
	causepersistence "github.com/mariselv/helping-hands/modules/cause/infrastructure/persistence"
	causeservices "github.com/mariselv/helping-hands/modules/cause/services"
	schemaports "github.com/mariselv/helping-hands/modules/schema/domain/ports"
	schemapersistence "github.com/mariselv/helping-hands/modules/schema/infrastructure/persistence"
	schemaservices "github.com/mariselv/helping-hands/modules/schema/services"
	"github.com/mariselv/helping-hands/pkg/authz"
	"github.com/mariselv/helping-hands/pkg/upload"
)

func NewHandler() (http.Handler, error) {
	return NewHandlerWithOptions(HandlerOptions{})
}

type HandlerOptions struct {
	SchemaStore   schemaports.SchemaStore
	ValueStore    schemaports.ValueStore
	CauseStore    causeports.CauseStore
	Authorizer    *authz.Authorizer
	UploadCleaner upload.Cleaner
}

func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	allowlistPath := os.Getenv("ALLOWLIST_PATH")
	if allowlistPath == "" {
		p, err := findConfigFile("config/routing/allowlist.yaml")
		if err != nil {
			return nil, err
		}
		allowlistPath = p
	}

	a, err := routing.LoadAllowlist(allowlistPath)
	if err != nil {
		return nil, err
	}
	classifier, err := routing.NewClassifier(a, "server")
	if err != nil {
		return nil, err
	}

	schemaStore := opts.SchemaStore
	valueStore := opts.ValueStore
	causeStore := opts.CauseStore

	if schemaStore == nil || valueStore == nil || causeStore == nil {
		pool, err := pgxpool.New(context.Background(), databaseDSN())
		if err != nil {
			return nil, err
		}
		if schemaStore == nil {
			schemaStore = schemapersistence.NewSchemaPGStore(pool)
		}
		if valueStore == nil {
			valueStore = schemapersistence.NewValuePGStore(pool)
		}
		if causeStore == nil {
			causeStore = causepersistence.NewCausePGStore(pool)
		}
	}

	cleaner := opts.UploadCleaner
	if cleaner == nil {
		cleaner = newLocalUploadCleaner(envOr("UPLOADS_DIR", "uploads"))
	}
	if err := upload.RegisterCleaner(cleaner); err != nil {
		return nil, err
	}

	schemaSvc := schemaservices.NewSchemaService(schemaStore)
	orderingSvc := schemaservices.NewOrderingService(schemaStore)
	validationSvc := schemaservices.NewValidationService(schemaStore)
	valueSvc := schemaservices.NewValueService(valueStore, schemaStore)
	submissionSvc := causeservices.NewSubmissionService(causeStore, schemaStore, valueSvc, validationSvc)

	authorizer := opts.Authorizer
	if authorizer == nil {
		loaded, err := loadAuthorizer()
		if err != nil {
			return nil, err
		}
		authorizer = loaded
	}

	router := routing.NewRouter(classifier)

	router.Handle(routing.RouteClassOps, http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.Handle(routing.RouteClassAdminAPI, http.MethodGet, "/admin/api/categories", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCategoriesAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/categories", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCategoriesAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/categories:update", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCategoriesUpdateAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/categories:delete", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCategoriesDeleteAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodGet, "/admin/api/fields", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleFieldsAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/fields", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleFieldsAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/fields:update", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleFieldsUpdateAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/fields:delete", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleFieldsDeleteAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassAdminAPI, http.MethodPost, "/admin/api/fields:reorder", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleFieldsReorderAPI(w, r, orderingSvc)
	}))

	router.Handle(routing.RouteClassPublicAPI, http.MethodGet, "/api/v1/categories", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlePublicCategoriesAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodGet, "/api/v1/schema", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlePublicSchemaAPI(w, r, schemaSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodGet, "/api/v1/causes", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCausesAPI(w, r, submissionSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodPost, "/api/v1/causes", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCausesAPI(w, r, submissionSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodPost, "/api/v1/causes:validate", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCausesValidateAPI(w, r, validationSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodPost, "/api/v1/causes:update", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCausesUpdateAPI(w, r, submissionSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodPost, "/api/v1/causes:delete", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCausesDeleteAPI(w, r, submissionSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodGet, "/api/v1/causes/values", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCauseValuesAPI(w, r, submissionSvc)
	}))
	router.Handle(routing.RouteClassPublicAPI, http.MethodPost, "/api/v1/causes/values", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCauseValuesAPI(w, r, submissionSvc)
	}))

	return principalMiddleware(withAuthz(classifier, authorizer, router)), nil
}
