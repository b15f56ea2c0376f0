package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/mariselv/helping-hands/modules/cause/domain/ports"
	"github.com/mariselv/helping-hands/modules/cause/domain/types"
	schemaports "github.com/mariselv/helping-hands/modules/schema/domain/ports"
	schematypes "github.com/mariselv/helping-hands/modules/schema/domain/types"
	schemaservices "github.com/mariselv/helping-hands/modules/schema/services"
	"github.com/mariselv/helping-hands/pkg/httperr"
	"github.com/mariselv/helping-hands/pkg/upload"
)

var newUUID = func() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

var logf = log.Printf

type SubmitRequest struct {
	CategoryID string
	Title      string
	Summary    string
	Creator    string
	Attributes map[string]any
}

// PrefillForm is everything an edit form needs in one fetch: the cause, the
// category's current field list, and the decoded stored values (stale rows
// included so the client can surface them).
type PrefillForm struct {
	Cause  types.Cause                `json:"cause"`
	Schema schematypes.Schema         `json:"schema"`
	Values []schematypes.DecodedValue `json:"values"`
}

type SubmissionService interface {
	// Submit validates the attribute payload against the category schema,
	// creates the cause and persists the coerced values. Validation failures
	// carry the full per-field error list.
	Submit(ctx context.Context, req SubmitRequest) (types.Cause, error)

	// EditAttributes replaces the cause's attribute set with the supplied
	// one after validation. File references dropped by the edit are handed
	// to the upload cleaner best effort.
	EditAttributes(ctx context.Context, causeID string, attributes map[string]any) error

	Prefill(ctx context.Context, causeID string) (PrefillForm, error)
	GetCause(ctx context.Context, causeID string) (types.Cause, error)
	ListCauses(ctx context.Context, categoryID string) ([]types.Cause, error)
	UpdateCause(ctx context.Context, causeID string, patch types.CausePatch) (types.Cause, error)

	// Delete removes the cause and all of its attribute rows, then asks the
	// upload cleaner to drop any file references the rows held.
	Delete(ctx context.Context, causeID string) error
}

// ValueAccess is the slice of the attribute value surface this module needs.
// The schema module's ValueService satisfies it.
type ValueAccess interface {
	GetValues(ctx context.Context, causeID string) ([]schematypes.DecodedValue, error)
	SaveValues(ctx context.Context, causeID string, categoryID string, sub schemaservices.CoercedSubmission) error
	DeleteValues(ctx context.Context, causeID string) error
}

type submissionService struct {
	causes    ports.CauseStore
	schema    schemaports.SchemaStore
	values    ValueAccess
	validator schemaservices.ValidationService
}

func NewSubmissionService(
	causes ports.CauseStore,
	schema schemaports.SchemaStore,
	values ValueAccess,
	validator schemaservices.ValidationService,
) SubmissionService {
	return &submissionService{causes: causes, schema: schema, values: values, validator: validator}
}

func (s *submissionService) Submit(ctx context.Context, req SubmitRequest) (types.Cause, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return types.Cause{}, httperr.NewBadRequest("title is required")
	}
	creator := strings.TrimSpace(req.Creator)
	if creator == "" {
		return types.Cause{}, httperr.NewBadRequest("creator is required")
	}

	sub, err := s.validator.ValidateAndCoerce(ctx, req.CategoryID, req.Attributes)
	if err != nil {
		return types.Cause{}, err
	}

	id, err := newUUID()
	if err != nil {
		return types.Cause{}, err
	}
	created, err := s.causes.CreateCause(ctx, types.Cause{
		ID:         id,
		CategoryID: req.CategoryID,
		Title:      title,
		Summary:    strings.TrimSpace(req.Summary),
		Creator:    creator,
		Status:     types.StatusActive,
	})
	if err != nil {
		return types.Cause{}, err
	}

	if err := s.values.SaveValues(ctx, created.ID, req.CategoryID, sub); err != nil {
		// The cause record is useless without its attributes; undo it so a
		// retry starts clean.
		if delErr := s.causes.DeleteCause(ctx, created.ID); delErr != nil {
			logf("submission: orphaned cause %s after value write failure: %v", created.ID, delErr)
		}
		return types.Cause{}, err
	}
	return created, nil
}

func (s *submissionService) EditAttributes(ctx context.Context, causeID string, attributes map[string]any) error {
	cause, err := s.causes.GetCause(ctx, causeID)
	if err != nil {
		return err
	}

	sub, err := s.validator.ValidateAndCoerce(ctx, cause.CategoryID, attributes)
	if err != nil {
		return err
	}

	oldRefs, err := s.fileRefs(ctx, causeID)
	if err != nil {
		return err
	}
	if err := s.values.SaveValues(ctx, causeID, cause.CategoryID, sub); err != nil {
		return err
	}

	kept := make(map[string]struct{})
	for _, stored := range sub.Stored {
		kept[stored] = struct{}{}
	}
	for _, ref := range oldRefs {
		if _, still := kept[ref]; still {
			continue
		}
		cleanupRef(ctx, causeID, ref)
	}
	return nil
}

func (s *submissionService) Prefill(ctx context.Context, causeID string) (PrefillForm, error) {
	cause, err := s.causes.GetCause(ctx, causeID)
	if err != nil {
		return PrefillForm{}, err
	}
	category, err := s.schema.GetCategory(ctx, cause.CategoryID)
	if err != nil {
		return PrefillForm{}, err
	}
	fields, err := s.schema.ListFields(ctx, cause.CategoryID)
	if err != nil {
		return PrefillForm{}, err
	}
	values, err := s.values.GetValues(ctx, causeID)
	if err != nil {
		return PrefillForm{}, err
	}
	return PrefillForm{
		Cause:  cause,
		Schema: schematypes.Schema{Category: category, Fields: fields},
		Values: values,
	}, nil
}

func (s *submissionService) GetCause(ctx context.Context, causeID string) (types.Cause, error) {
	return s.causes.GetCause(ctx, causeID)
}

func (s *submissionService) ListCauses(ctx context.Context, categoryID string) ([]types.Cause, error) {
	return s.causes.ListCauses(ctx, categoryID)
}

func (s *submissionService) UpdateCause(ctx context.Context, causeID string, patch types.CausePatch) (types.Cause, error) {
	if patch.Status != nil && !types.IsValidStatus(*patch.Status) {
		return types.Cause{}, types.ErrCauseStatusUnknown
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return types.Cause{}, httperr.NewBadRequest("title is required")
	}
	return s.causes.UpdateCause(ctx, causeID, patch)
}

func (s *submissionService) Delete(ctx context.Context, causeID string) error {
	if _, err := s.causes.GetCause(ctx, causeID); err != nil {
		return err
	}
	refs, err := s.fileRefs(ctx, causeID)
	if err != nil {
		return err
	}
	if err := s.values.DeleteValues(ctx, causeID); err != nil {
		return err
	}
	if err := s.causes.DeleteCause(ctx, causeID); err != nil {
		return err
	}
	for _, ref := range refs {
		cleanupRef(ctx, causeID, ref)
	}
	return nil
}

// fileRefs collects the stored references of the cause's file-type values,
// stale rows included, so blob cleanup can follow a delete or replacement.
func (s *submissionService) fileRefs(ctx context.Context, causeID string) ([]string, error) {
	decoded, err := s.values.GetValues(ctx, causeID)
	if err != nil {
		return nil, err
	}
	refs := make([]string, 0)
	for _, value := range decoded {
		if value.FieldType != "file" {
			continue
		}
		if ref, ok := value.Value.(string); ok && ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func cleanupRef(ctx context.Context, causeID string, ref string) {
	if err := upload.DeleteRef(ctx, ref); err != nil {
		logf("submission: cause %s: drop file ref %s: %v", causeID, ref, err)
	}
}
