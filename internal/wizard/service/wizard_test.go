package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"studiobook/internal/wizard/store"
	"studiobook/internal/wizard/validator"
	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
)

type mockCatalogService struct {
	snapshotFunc func(ctx context.Context) (*model.CatalogSnapshot, error)
}

func (m *mockCatalogService) Snapshot(ctx context.Context) (*model.CatalogSnapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx)
	}
	return testSnapshot(), nil
}

func testSnapshot() *model.CatalogSnapshot {
	return &model.CatalogSnapshot{
		Functions: []model.EventFunction{
			{
				ID:                       "fn-wedding",
				Slug:                     "wedding",
				Label:                    "Wedding",
				Category:                 model.CategoryMain,
				FlatPrice:                20000,
				IncludedHours:            8,
				IncludedPhotographers:    2,
				IncludedCinematographers: 2,
				ExtraHourRate:            1000,
				IsActive:                 true,
			},
			{
				ID:            "fn-haldi",
				Slug:          "haldi",
				Label:         "Haldi",
				Category:      model.CategoryAdditional,
				FlatPrice:     6000,
				IncludedHours: 3,
				ExtraHourRate: 800,
				IsActive:      true,
			},
		},
		VideoAddons: []model.VideoAddon{
			{Slug: "highlight-video", Label: "Highlight Video", Price: 5000, IsActive: true},
		},
		Album: model.AlbumConfiguration{
			BasePages:             60,
			BasePriceSingle:       8000,
			Per10PagesCost:        500,
			DoubleAlbumMultiplier: 1.8,
			PagesIncrement:        10,
		},
		Pricing: model.PricingConfiguration{
			ExtraCrewFlatFee:  8000,
			AdvancePercentage: 30,
		},
	}
}

func newTestService(t *testing.T) WizardService {
	t.Helper()
	drafts := store.NewInMemoryDraftStore(time.Hour)
	t.Cleanup(drafts.Stop)

	log := logger.New(logger.Config{Output: io.Discard})
	return NewWizardService(drafts, &mockCatalogService{}, validator.New(), log)
}

func startSession(t *testing.T, svc WizardService) string {
	t.Helper()
	draft, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return draft.SessionID
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestStartSession(t *testing.T) {
	svc := newTestService(t)

	draft, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.SessionID == "" {
		t.Error("expected a session id")
	}
	if draft.Album.Type != model.AlbumSingle {
		t.Errorf("expected default album type, got %s", draft.Album.Type)
	}

	got, err := svc.GetDraft(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != draft.SessionID {
		t.Error("stored draft does not match")
	}
}

func TestGetDraftUnknownSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetDraft(context.Background(), "missing")
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestUpdateClientInfoNormalizesPhone(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	draft, err := svc.UpdateClientInfo(context.Background(), sid, model.ClientInfo{
		FullName: "  Asha   Rao ",
		Phone:    "098765 43210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.ClientInfo.Phone != "+919876543210" {
		t.Errorf("expected normalized phone, got %q", draft.ClientInfo.Phone)
	}
	if draft.ClientInfo.FullName != "Asha Rao" {
		t.Errorf("expected collapsed name, got %q", draft.ClientInfo.FullName)
	}
}

func TestUpdateClientInfoRejectsInvalid(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	_, err := svc.UpdateClientInfo(context.Background(), sid, model.ClientInfo{
		FullName: "Asha Rao",
		Phone:    "not-a-phone",
	})
	if code := appErrCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", code)
	}
}

func TestAddFunctionFillsCatalogDefaults(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	draft, err := svc.AddFunction(context.Background(), sid, model.SelectedFunction{
		FunctionID: "wedding",
		Group:      model.GroupMain,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(draft.Functions))
	}

	fn := draft.Functions[0]
	if fn.ID == "" {
		t.Error("expected a generated instance id")
	}
	if fn.Name != "Wedding" {
		t.Errorf("expected catalog label, got %q", fn.Name)
	}
	if fn.Duration != 8 {
		t.Errorf("expected included hours as default duration, got %v", fn.Duration)
	}
	if fn.Photographers != 2 || fn.Cinematographers != 2 {
		t.Errorf("expected included crew defaults, got %d/%d", fn.Photographers, fn.Cinematographers)
	}
}

func TestAddFunctionUnknownCatalogID(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	_, err := svc.AddFunction(context.Background(), sid, model.SelectedFunction{FunctionID: "retired"})
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestAddFunctionDerivesDurationFromTimes(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	draft, err := svc.AddFunction(context.Background(), sid, model.SelectedFunction{
		FunctionID: "wedding",
		Group:      model.GroupMain,
		StartTime:  "16:00",
		EndTime:    "22:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := draft.Functions[0].Duration; got != 6.5 {
		t.Errorf("expected duration 6.5, got %v", got)
	}
}

func TestDeriveDurationOvernight(t *testing.T) {
	if got := deriveDuration("22:00", "02:00"); got != 4 {
		t.Errorf("expected 4 hours across midnight, got %v", got)
	}
	if got := deriveDuration("", "02:00"); got != 0 {
		t.Errorf("expected 0 for missing start, got %v", got)
	}
}

func TestToggleFunction(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	draft, err := svc.ToggleFunction(ctx, sid, "haldi", model.GroupAdditional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.FunctionsInGroup(model.GroupAdditional)) != 1 {
		t.Fatal("expected haldi to be added")
	}

	draft, err = svc.ToggleFunction(ctx, sid, "haldi", model.GroupAdditional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Functions) != 0 {
		t.Error("expected haldi to be removed on second toggle")
	}
}

func TestUpdateFunctionUnknownInstance(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	_, err := svc.UpdateFunction(context.Background(), sid, "nope", model.SelectedFunction{
		FunctionID: "wedding",
		Name:       "Wedding",
		Group:      model.GroupMain,
		Duration:   8,
	})
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestRemoveFunction(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	draft, _ := svc.AddFunction(ctx, sid, model.SelectedFunction{FunctionID: "wedding", Group: model.GroupMain})
	instanceID := draft.Functions[0].ID

	draft, err := svc.RemoveFunction(ctx, sid, instanceID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.Functions) != 0 {
		t.Error("expected function to be removed")
	}
}

func TestSetAlbumEnforcesPageGrid(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	if _, err := svc.SetAlbum(ctx, sid, model.AlbumSelection{Pages: 90, Type: model.AlbumTwoIndividuals}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.SetAlbum(ctx, sid, model.AlbumSelection{Pages: 75, Type: model.AlbumSingle})
	if code := appErrCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR for off-grid pages, got %s", code)
	}
}

func TestToggleVideoAddon(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	draft, err := svc.ToggleVideoAddon(ctx, sid, "highlight-video")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !draft.HasVideoAddon("highlight-video") {
		t.Error("expected addon selected")
	}

	draft, _ = svc.ToggleVideoAddon(ctx, sid, "highlight-video")
	if draft.HasVideoAddon("highlight-video") {
		t.Error("expected addon deselected on second toggle")
	}

	_, err = svc.ToggleVideoAddon(ctx, sid, "vr-booth")
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND for unknown addon, got %s", code)
	}
}

func TestPriceAttachesBreakdown(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	_, _ = svc.AddFunction(ctx, sid, model.SelectedFunction{FunctionID: "wedding", Group: model.GroupMain})
	_, _ = svc.SetAlbum(ctx, sid, model.AlbumSelection{Pages: 60, Type: model.AlbumSingle})
	_, _ = svc.ToggleVideoAddon(ctx, sid, "highlight-video")

	draft, err := svc.Price(ctx, sid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Breakdown == nil {
		t.Fatal("expected a breakdown")
	}

	// 20000 function + 8000 album + 5000 addon
	if draft.Breakdown.Total != 33000 {
		t.Errorf("expected total 33000, got %d", draft.Breakdown.Total)
	}
	if draft.Breakdown.Advance+draft.Breakdown.Balance != draft.Breakdown.Total {
		t.Error("advance and balance must partition the total")
	}
}

func TestPriceFailsWhenCatalogUnavailable(t *testing.T) {
	drafts := store.NewInMemoryDraftStore(time.Hour)
	defer drafts.Stop()

	catalog := &mockCatalogService{
		snapshotFunc: func(ctx context.Context) (*model.CatalogSnapshot, error) {
			return nil, apperrors.Unavailable("catalog is currently unavailable", errors.New("down"))
		},
	}
	svc := NewWizardService(drafts, catalog, validator.New(), logger.New(logger.Config{Output: io.Discard}))
	sid := startSession(t, svc)

	_, err := svc.Price(context.Background(), sid)
	if code := appErrCode(t, err); code != apperrors.CodeUnavailable {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %s", code)
	}
}

func TestBackwardNavigationPreservesLaterSteps(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)
	ctx := context.Background()

	_, _ = svc.AddFunction(ctx, sid, model.SelectedFunction{FunctionID: "wedding", Group: model.GroupMain})
	_, _ = svc.SetAlbum(ctx, sid, model.AlbumSelection{Pages: 90, Type: model.AlbumSingle})
	_, _ = svc.ToggleVideoAddon(ctx, sid, "highlight-video")

	// Revisiting step 1 must not clear anything entered later.
	draft, err := svc.UpdateClientInfo(ctx, sid, model.ClientInfo{
		FullName: "Asha Rao",
		Phone:    "+919876543210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(draft.Functions) != 1 {
		t.Error("function selection was lost")
	}
	if draft.Album.Pages != 90 {
		t.Error("album selection was lost")
	}
	if !draft.HasVideoAddon("highlight-video") {
		t.Error("video addon selection was lost")
	}
}

func TestSetSignature(t *testing.T) {
	svc := newTestService(t)
	sid := startSession(t, svc)

	draft, err := svc.SetSignature(context.Background(), sid, "  Asha  Rao ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.DigitalSignature != "Asha Rao" {
		t.Errorf("expected collapsed signature, got %q", draft.DigitalSignature)
	}
	if !draft.TermsAccepted {
		t.Error("expected terms accepted")
	}
}
