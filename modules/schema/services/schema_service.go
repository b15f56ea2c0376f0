package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mariselv/helping-hands/modules/schema/domain/fieldtype"
	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
	"github.com/mariselv/helping-hands/pkg/httperr"
)

// Field names are machine keys referenced by submissions and stored rows:
// lower snake, leading letter, at most 64 chars.
var fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

var newUUID = func() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

type SchemaService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (types.Category, error)
	GetSchema(ctx context.Context, categoryID string) (types.Schema, error)
	ListCategories(ctx context.Context) ([]types.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, patch types.CategoryPatch) (types.Category, error)
	DeleteCategory(ctx context.Context, categoryID string, cascade bool) error
	AddField(ctx context.Context, req AddFieldRequest) (types.FieldDefinition, error)
	UpdateField(ctx context.Context, fieldID string, patch types.FieldPatch, force bool) (types.FieldDefinition, error)
	DeleteField(ctx context.Context, fieldID string, force bool) error
}

type CreateCategoryRequest struct {
	Name        string
	Description string
	Icon        string
}

type AddFieldRequest struct {
	CategoryID  string
	Name        string
	Type        string
	Required    bool
	Options     []string
	Placeholder string
	Rule        string
}

type schemaService struct {
	store ports.SchemaStore
}

func NewSchemaService(store ports.SchemaStore) SchemaService {
	return &schemaService{store: store}
}

func (s *schemaService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (types.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return types.Category{}, httperr.NewBadRequest("name is required")
	}

	id, err := newUUID()
	if err != nil {
		return types.Category{}, err
	}
	return s.store.CreateCategory(ctx, types.Category{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Icon:        strings.TrimSpace(req.Icon),
	})
}

func (s *schemaService) GetSchema(ctx context.Context, categoryID string) (types.Schema, error) {
	category, err := s.store.GetCategory(ctx, strings.TrimSpace(categoryID))
	if err != nil {
		return types.Schema{}, err
	}
	fields, err := s.store.ListFields(ctx, category.ID)
	if err != nil {
		return types.Schema{}, err
	}
	return types.Schema{Category: category, Fields: fields}, nil
}

func (s *schemaService) ListCategories(ctx context.Context) ([]types.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *schemaService) UpdateCategory(ctx context.Context, categoryID string, patch types.CategoryPatch) (types.Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return types.Category{}, httperr.NewBadRequest("name must not be empty")
		}
		patch.Name = &trimmed
	}
	return s.store.UpdateCategory(ctx, strings.TrimSpace(categoryID), patch)
}

func (s *schemaService) DeleteCategory(ctx context.Context, categoryID string, cascade bool) error {
	return s.store.DeleteCategory(ctx, strings.TrimSpace(categoryID), cascade)
}

func (s *schemaService) AddField(ctx context.Context, req AddFieldRequest) (types.FieldDefinition, error) {
	def := types.FieldDefinition{
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Name:        strings.TrimSpace(req.Name),
		Type:        strings.TrimSpace(req.Type),
		Required:    req.Required,
		Options:     req.Options,
		Placeholder: strings.TrimSpace(req.Placeholder),
		Rule:        strings.TrimSpace(req.Rule),
	}
	if err := checkFieldShape(def.Name, def.Type, def.Options, def.Rule); err != nil {
		return types.FieldDefinition{}, err
	}

	id, err := newUUID()
	if err != nil {
		return types.FieldDefinition{}, err
	}
	def.ID = id
	return s.store.AddField(ctx, def)
}

func (s *schemaService) UpdateField(ctx context.Context, fieldID string, patch types.FieldPatch, force bool) (types.FieldDefinition, error) {
	current, err := s.store.GetField(ctx, strings.TrimSpace(fieldID))
	if err != nil {
		return types.FieldDefinition{}, err
	}

	name := current.Name
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	fieldType := current.Type
	if patch.Type != nil {
		fieldType = strings.TrimSpace(*patch.Type)
		patch.Type = &fieldType
	}
	options := current.Options
	if patch.Options != nil {
		options = *patch.Options
	}
	rule := current.Rule
	if patch.Rule != nil {
		rule = strings.TrimSpace(*patch.Rule)
		patch.Rule = &rule
	}
	if err := checkFieldShape(name, fieldType, options, rule); err != nil {
		return types.FieldDefinition{}, err
	}

	return s.store.UpdateField(ctx, current.ID, patch, force)
}

func (s *schemaService) DeleteField(ctx context.Context, fieldID string, force bool) error {
	return s.store.DeleteField(ctx, strings.TrimSpace(fieldID), force)
}

func checkFieldShape(name string, fieldType string, options []string, rule string) error {
	if !fieldNameRe.MatchString(name) {
		return httperr.NewBadRequest("field name must match ^[a-z][a-z0-9_]{0,63}$")
	}

	kind, ok := fieldtype.Parse(fieldType)
	if !ok {
		return types.ErrFieldTypeUnknown
	}

	if fieldtype.IsSelectLike(kind) {
		if len(options) == 0 {
			return types.ErrFieldOptionsRequired
		}
		for _, opt := range options {
			if strings.TrimSpace(opt) == "" {
				return types.ErrFieldOptionsRequired
			}
			if strings.Contains(opt, fieldtype.Delimiter) {
				return httperr.NewBadRequest("option contains a reserved character")
			}
		}
	}

	if rule != "" {
		if err := fieldtype.CompileRule(rule); err != nil {
			return types.ErrFieldRuleInvalid
		}
	}
	return nil
}
