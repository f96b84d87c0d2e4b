package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	catalogservice "studiobook/internal/catalog/service"
	"studiobook/internal/pricing"
	wizarderrors "studiobook/internal/wizard/errors"
	"studiobook/internal/wizard/store"
	"studiobook/internal/wizard/validator"
	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
	"studiobook/pkg/sanitizer"
)

// WizardService drives the booking wizard: one draft per session, mutated
// step by step, priced on demand. Every mutation returns the full updated
// draft so the client can re-render without a second fetch.
type WizardService interface {
	StartSession(ctx context.Context) (*model.BookingDraft, error)
	GetDraft(ctx context.Context, sessionID string) (*model.BookingDraft, error)
	DeleteSession(ctx context.Context, sessionID string)

	UpdateClientInfo(ctx context.Context, sessionID string, info model.ClientInfo) (*model.BookingDraft, error)
	UpdateEventDetails(ctx context.Context, sessionID string, details model.EventDetails) (*model.BookingDraft, error)

	AddFunction(ctx context.Context, sessionID string, fn model.SelectedFunction) (*model.BookingDraft, error)
	UpdateFunction(ctx context.Context, sessionID, instanceID string, fn model.SelectedFunction) (*model.BookingDraft, error)
	RemoveFunction(ctx context.Context, sessionID, instanceID string) (*model.BookingDraft, error)
	ToggleFunction(ctx context.Context, sessionID, functionID string, group model.FunctionGroup) (*model.BookingDraft, error)

	SetAlbum(ctx context.Context, sessionID string, album model.AlbumSelection) (*model.BookingDraft, error)
	ToggleVideoAddon(ctx context.Context, sessionID, slug string) (*model.BookingDraft, error)
	SetComplimentaryItem(ctx context.Context, sessionID, slug string) (*model.BookingDraft, error)
	SetSignature(ctx context.Context, sessionID, signature string, termsAccepted bool) (*model.BookingDraft, error)

	// Price recomputes the full breakdown against a fresh catalog snapshot
	// and attaches it to the draft.
	Price(ctx context.Context, sessionID string) (*model.BookingDraft, error)

	Catalog(ctx context.Context) (*model.CatalogSnapshot, error)
}

type wizardService struct {
	drafts   store.DraftStore
	catalog  catalogservice.CatalogService
	validate *validator.DraftValidator
	log      *logger.Logger
}

func NewWizardService(drafts store.DraftStore, catalog catalogservice.CatalogService, validate *validator.DraftValidator, log *logger.Logger) WizardService {
	return &wizardService{
		drafts:   drafts,
		catalog:  catalog,
		validate: validate,
		log:      log,
	}
}

func (s *wizardService) StartSession(ctx context.Context) (*model.BookingDraft, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	draft := &model.BookingDraft{
		SessionID: uuid.NewString(),
		Album:     model.AlbumSelection{Type: model.AlbumSingle},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.drafts.Create(draft); err != nil {
		return nil, apperrors.Internal("failed to start wizard session", err)
	}

	s.log.Info("wizard session started", "session_id", draft.SessionID)
	return draft, nil
}

func (s *wizardService) GetDraft(ctx context.Context, sessionID string) (*model.BookingDraft, error) {
	draft, err := s.drafts.Get(sessionID)
	if err != nil {
		return nil, sessionError(err, sessionID)
	}
	return draft, nil
}

func (s *wizardService) DeleteSession(ctx context.Context, sessionID string) {
	s.drafts.Delete(sessionID)
	s.log.Info("wizard session deleted", "session_id", sessionID)
}

func (s *wizardService) UpdateClientInfo(ctx context.Context, sessionID string, info model.ClientInfo) (*model.BookingDraft, error) {
	info.FullName = sanitizer.NormalizeName(info.FullName)
	info.HomeAddress = sanitizer.NormalizeAddress(info.HomeAddress)
	info.CurrentLocation = sanitizer.NormalizeAddress(info.CurrentLocation)

	if normalized := sanitizer.NormalizePhone(info.Phone); normalized != "" {
		info.Phone = normalized
	}
	if info.WhatsApp != "" {
		if normalized := sanitizer.NormalizePhone(info.WhatsApp); normalized != "" {
			info.WhatsApp = normalized
		}
	}

	if err := s.validate.ClientInfo(info); err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.ClientInfo = info
		return nil
	})
}

func (s *wizardService) UpdateEventDetails(ctx context.Context, sessionID string, details model.EventDetails) (*model.BookingDraft, error) {
	details.BookingType = sanitizer.CollapseSpaces(details.BookingType)
	details.EventLocation = sanitizer.NormalizeAddress(details.EventLocation)

	if err := s.validate.EventDetails(details); err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.EventDetails = details
		return nil
	})
}

func (s *wizardService) AddFunction(ctx context.Context, sessionID string, fn model.SelectedFunction) (*model.BookingDraft, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	def, ok := snapshot.FunctionByID(fn.FunctionID)
	if !ok {
		return nil, apperrors.NotFoundWithID("function", fn.FunctionID)
	}

	fn.ID = uuid.NewString()
	applyFunctionDefaults(&fn, def)

	if err := s.validate.Function(fn); err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.Functions = append(d.Functions, fn)
		return nil
	})
}

func (s *wizardService) UpdateFunction(ctx context.Context, sessionID, instanceID string, fn model.SelectedFunction) (*model.BookingDraft, error) {
	fn.ID = instanceID
	if fn.Duration == 0 {
		fn.Duration = deriveDuration(fn.StartTime, fn.EndTime)
	}
	if err := s.validate.Function(fn); err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		for i := range d.Functions {
			if d.Functions[i].ID == instanceID {
				d.Functions[i] = fn
				return nil
			}
		}
		return wizarderrors.ErrFunctionNotFound
	})
}

func (s *wizardService) RemoveFunction(ctx context.Context, sessionID, instanceID string) (*model.BookingDraft, error) {
	return s.update(sessionID, func(d *model.BookingDraft) error {
		for i := range d.Functions {
			if d.Functions[i].ID == instanceID {
				d.Functions = append(d.Functions[:i], d.Functions[i+1:]...)
				return nil
			}
		}
		return wizarderrors.ErrFunctionNotFound
	})
}

// ToggleFunction adds the catalog function with its included defaults, or
// removes it when an instance of it is already selected in that group.
func (s *wizardService) ToggleFunction(ctx context.Context, sessionID, functionID string, group model.FunctionGroup) (*model.BookingDraft, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	def, ok := snapshot.FunctionByID(functionID)
	if !ok {
		return nil, apperrors.NotFoundWithID("function", functionID)
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		for i := range d.Functions {
			if d.Functions[i].FunctionID == functionID && d.Functions[i].Group == group {
				d.Functions = append(d.Functions[:i], d.Functions[i+1:]...)
				return nil
			}
		}

		fn := model.SelectedFunction{
			ID:         uuid.NewString(),
			FunctionID: functionID,
			Group:      group,
		}
		applyFunctionDefaults(&fn, def)
		d.Functions = append(d.Functions, fn)
		return nil
	})
}

func (s *wizardService) SetAlbum(ctx context.Context, sessionID string, album model.AlbumSelection) (*model.BookingDraft, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Album(album, snapshot.Album); err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.Album = album
		return nil
	})
}

func (s *wizardService) ToggleVideoAddon(ctx context.Context, sessionID, slug string) (*model.BookingDraft, error) {
	slug = sanitizer.NormalizeSlug(slug)

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snapshot.AddonBySlug(slug); !ok {
		return nil, apperrors.NotFoundWithID("video addon", slug)
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		for i, existing := range d.VideoAddons {
			if existing == slug {
				d.VideoAddons = append(d.VideoAddons[:i], d.VideoAddons[i+1:]...)
				return nil
			}
		}
		d.VideoAddons = append(d.VideoAddons, slug)
		return nil
	})
}

func (s *wizardService) SetComplimentaryItem(ctx context.Context, sessionID, slug string) (*model.BookingDraft, error) {
	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.ComplimentaryItem = sanitizer.NormalizeSlug(slug)
		return nil
	})
}

func (s *wizardService) SetSignature(ctx context.Context, sessionID, signature string, termsAccepted bool) (*model.BookingDraft, error) {
	return s.update(sessionID, func(d *model.BookingDraft) error {
		d.DigitalSignature = sanitizer.CollapseSpaces(signature)
		d.TermsAccepted = termsAccepted
		return nil
	})
}

func (s *wizardService) Price(ctx context.Context, sessionID string) (*model.BookingDraft, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.update(sessionID, func(d *model.BookingDraft) error {
		breakdown, missing := pricing.ComputeDraft(d, snapshot)
		if len(missing) > 0 {
			s.log.Warn("draft references functions missing from the catalog",
				"session_id", sessionID, "function_ids", missing)
		}
		d.Breakdown = &breakdown
		return nil
	})
}

func (s *wizardService) Catalog(ctx context.Context) (*model.CatalogSnapshot, error) {
	return s.catalog.Snapshot(ctx)
}

// update funnels every draft mutation through the store and maps store
// sentinels onto AppErrors.
func (s *wizardService) update(sessionID string, mutate func(*model.BookingDraft) error) (*model.BookingDraft, error) {
	draft, err := s.drafts.Update(sessionID, mutate)
	if err != nil {
		switch {
		case errors.Is(err, wizarderrors.ErrSessionNotFound):
			return nil, sessionError(err, sessionID)
		case errors.Is(err, wizarderrors.ErrFunctionNotFound):
			return nil, apperrors.NotFound("selected function")
		case apperrors.IsAppError(err):
			return nil, err
		default:
			return nil, apperrors.Internal("failed to update draft", err)
		}
	}
	return draft, nil
}

func sessionError(err error, sessionID string) error {
	if errors.Is(err, wizarderrors.ErrSessionNotFound) {
		return apperrors.NotFoundWithID("wizard session", sessionID)
	}
	return apperrors.Internal("failed to load wizard session", err)
}

// applyFunctionDefaults fills unset fields from the catalog definition. A
// freshly toggled function starts at exactly what the flat price includes.
func applyFunctionDefaults(fn *model.SelectedFunction, def model.EventFunction) {
	if fn.Name == "" {
		fn.Name = def.Label
	}
	if fn.Group == "" {
		fn.Group = model.GroupMain
	}
	if fn.Duration == 0 {
		fn.Duration = deriveDuration(fn.StartTime, fn.EndTime)
	}
	if fn.Duration == 0 {
		fn.Duration = def.IncludedHours
	}
	if fn.Photographers == 0 {
		fn.Photographers = def.IncludedPhotographers
	}
	if fn.Cinematographers == 0 {
		fn.Cinematographers = def.IncludedCinematographers
	}
}

// deriveDuration computes hours between two HH:MM times. An end before the
// start means the event runs past midnight.
func deriveDuration(startTime, endTime string) float64 {
	if startTime == "" || endTime == "" {
		return 0
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return 0
	}

	hours := end.Sub(start).Hours()
	if hours <= 0 {
		hours += 24
	}
	return hours
}
