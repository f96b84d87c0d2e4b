package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	bookingserrors "studiobook/internal/bookings/errors"
	"studiobook/internal/bookings/events"
	"studiobook/internal/wizard/validator"
	mongotx "studiobook/pkg/db/mongo"
	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
)

type mockBookingRepository struct {
	createFunc              func(ctx context.Context, booking *model.BookingRecord) error
	findByIDFunc            func(ctx context.Context, id string) (*model.BookingRecord, error)
	findByReferenceFunc     func(ctx context.Context, reference string) (*model.BookingRecord, error)
	findByPhoneFunc         func(ctx context.Context, phone string) ([]*model.BookingRecord, error)
	findAllFunc             func(ctx context.Context, limit int, offset int64) ([]*model.BookingRecord, error)
	countFunc               func(ctx context.Context) (int64, error)
	updateBookingStatusFunc func(ctx context.Context, id string, status model.BookingStatus) error
	updatePaymentStatusFunc func(ctx context.Context, id string, status model.PaymentStatus) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.BookingRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "686f1d2a9d5b3c0012345678"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.BookingRecord, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByReference(ctx context.Context, reference string) (*model.BookingRecord, error) {
	if m.findByReferenceFunc != nil {
		return m.findByReferenceFunc(ctx, reference)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByPhone(ctx context.Context, phone string) ([]*model.BookingRecord, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.BookingRecord, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateBookingStatusFunc != nil {
		return m.updateBookingStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	if m.updatePaymentStatusFunc != nil {
		return m.updatePaymentStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockDraftSource struct {
	draft   *model.BookingDraft
	deleted []string
}

func (m *mockDraftSource) GetDraft(ctx context.Context, sessionID string) (*model.BookingDraft, error) {
	if m.draft == nil {
		return nil, apperrors.NotFoundWithID("wizard session", sessionID)
	}
	return m.draft, nil
}

func (m *mockDraftSource) DeleteSession(ctx context.Context, sessionID string) {
	m.deleted = append(m.deleted, sessionID)
}

type mockCatalogSource struct {
	snapshotFunc func(ctx context.Context) (*model.CatalogSnapshot, error)
}

func (m *mockCatalogSource) Snapshot(ctx context.Context) (*model.CatalogSnapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx)
	}
	return testSnapshot(), nil
}

type capturePublisher struct {
	published []*model.BookingRecord
	err       error
}

func (p *capturePublisher) BookingSubmitted(ctx context.Context, booking *model.BookingRecord) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, booking)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testSnapshot() *model.CatalogSnapshot {
	return &model.CatalogSnapshot{
		Functions: []model.EventFunction{{
			ID:            "fn-wedding",
			Slug:          "wedding",
			Label:         "Wedding",
			FlatPrice:     20000,
			IncludedHours: 8,
			ExtraHourRate: 1000,
			IsActive:      true,
		}},
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

func readyDraft() *model.BookingDraft {
	return &model.BookingDraft{
		SessionID:  "session-1",
		ClientInfo: model.ClientInfo{FullName: "Asha Rao", Phone: "+919876543210"},
		EventDetails: model.EventDetails{
			BookingType: "wedding",
			EventDate:   "2026-11-20",
		},
		Functions: []model.SelectedFunction{{
			ID:         "a2b51a43-10c8-4c7e-b6a7-2a4c620013c8",
			FunctionID: "wedding",
			Name:       "Wedding",
			Group:      model.GroupMain,
			Duration:   8,
		}},
		Album:            model.AlbumSelection{Pages: 60, Type: model.AlbumSingle},
		VideoAddons:      []string{"highlight-video"},
		DigitalSignature: "Asha Rao",
		TermsAccepted:    true,
	}
}

func newTestService(repo *mockBookingRepository, drafts *mockDraftSource, catalog *mockCatalogSource, publisher events.Publisher) BookingService {
	log := logger.New(logger.Config{Output: io.Discard})
	return NewBookingService(repo, drafts, catalog, validator.New(), publisher, log)
}

func TestSubmit(t *testing.T) {
	repo := &mockBookingRepository{}
	drafts := &mockDraftSource{draft: readyDraft()}
	publisher := &capturePublisher{}
	svc := newTestService(repo, drafts, &mockCatalogSource{}, publisher)

	record, err := svc.Submit(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(record.Reference, "SB-") {
		t.Errorf("expected generated reference, got %q", record.Reference)
	}
	if record.BookingStatus != model.BookingPending {
		t.Errorf("expected pending status, got %s", record.BookingStatus)
	}
	if record.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected unpaid status, got %s", record.PaymentStatus)
	}
	if record.PhoneNormalized != "+919876543210" {
		t.Errorf("expected normalized phone, got %q", record.PhoneNormalized)
	}
	// 20000 function + 8000 album + 5000 addon, advance 30%
	if record.Breakdown.Total != 33000 {
		t.Errorf("expected frozen total 33000, got %d", record.Breakdown.Total)
	}
	if record.Breakdown.Advance != 9900 {
		t.Errorf("expected advance 9900, got %d", record.Breakdown.Advance)
	}
	if record.TermsAcceptedAt.IsZero() {
		t.Error("expected TermsAcceptedAt to be set")
	}

	if len(publisher.published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(publisher.published))
	}
	if len(drafts.deleted) != 1 || drafts.deleted[0] != "session-1" {
		t.Errorf("expected session to be deleted, got %v", drafts.deleted)
	}
}

func TestSubmitIncompleteDraft(t *testing.T) {
	draft := readyDraft()
	draft.TermsAccepted = false
	drafts := &mockDraftSource{draft: draft}
	svc := newTestService(&mockBookingRepository{}, drafts, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.Submit(context.Background(), "session-1")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(drafts.deleted) != 0 {
		t.Error("failed submission must not delete the draft")
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.Submit(context.Background(), "missing")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitRetriesOnReferenceCollision(t *testing.T) {
	attempts := 0
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.BookingRecord) error {
			attempts++
			if attempts == 1 {
				return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateReference, booking.Reference)
			}
			booking.ID = "686f1d2a9d5b3c0012345678"
			return nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{draft: readyDraft()}, &mockCatalogSource{}, events.NopPublisher{})

	record, err := svc.Submit(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 create attempts, got %d", attempts)
	}
	if record.Reference == "" {
		t.Error("expected a reference after retry")
	}
}

func TestSubmitSurvivesPublishFailure(t *testing.T) {
	publisher := &capturePublisher{err: errors.New("broker down")}
	drafts := &mockDraftSource{draft: readyDraft()}
	svc := newTestService(&mockBookingRepository{}, drafts, &mockCatalogSource{}, publisher)

	record, err := svc.Submit(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("submission must succeed despite publish failure, got: %v", err)
	}
	if record.Reference == "" {
		t.Error("expected a persisted booking")
	}
	if len(drafts.deleted) != 1 {
		t.Error("expected session cleanup despite publish failure")
	}
}

func TestSubmitFailsWhenCatalogUnavailable(t *testing.T) {
	catalog := &mockCatalogSource{
		snapshotFunc: func(ctx context.Context) (*model.CatalogSnapshot, error) {
			return nil, apperrors.Unavailable("catalog is currently unavailable", errors.New("down"))
		},
	}
	svc := newTestService(&mockBookingRepository{}, &mockDraftSource{draft: readyDraft()}, catalog, events.NopPublisher{})

	_, err := svc.Submit(context.Background(), "session-1")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestGetByPhoneNormalizesQuery(t *testing.T) {
	var queried string
	repo := &mockBookingRepository{
		findByPhoneFunc: func(ctx context.Context, phone string) ([]*model.BookingRecord, error) {
			queried = phone
			return []*model.BookingRecord{{Reference: "SB-7XK2M9QD"}}, nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	bookings, err := svc.GetByPhone(context.Background(), "098765 43210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queried != "+919876543210" {
		t.Errorf("expected normalized query, got %q", queried)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
}

func TestGetByPhoneRejectsUnparseable(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.GetByPhone(context.Background(), "hello")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BookingRecord, error) {
			return &model.BookingRecord{ID: id, BookingStatus: model.BookingPending}, nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	updated, err := svc.UpdateBookingStatus(context.Background(), "686f1d2a9d5b3c0012345678", model.BookingConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.BookingStatus != model.BookingConfirmed {
		t.Errorf("expected confirmed, got %s", updated.BookingStatus)
	}
}

func TestUpdateBookingStatusIllegalTransition(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BookingRecord, error) {
			return &model.BookingRecord{ID: id, BookingStatus: model.BookingCompleted}, nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.UpdateBookingStatus(context.Background(), "686f1d2a9d5b3c0012345678", model.BookingConfirmed)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateBookingStatusUnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.UpdateBookingStatus(context.Background(), "686f1d2a9d5b3c0012345678", "archived")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BookingRecord, error) {
			return &model.BookingRecord{ID: id, PaymentStatus: model.PaymentUnpaid}, nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	updated, err := svc.UpdatePaymentStatus(context.Background(), "686f1d2a9d5b3c0012345678", model.PaymentAdvancePaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != model.PaymentAdvancePaid {
		t.Errorf("expected advance_paid, got %s", updated.PaymentStatus)
	}
}

func TestUpdatePaymentStatusRefundBeforePayment(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.BookingRecord, error) {
			return &model.BookingRecord{ID: id, PaymentStatus: model.PaymentUnpaid}, nil
		},
	}
	svc := newTestService(repo, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.UpdatePaymentStatus(context.Background(), "686f1d2a9d5b3c0012345678", model.PaymentRefunded)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetByReferenceNotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockDraftSource{}, &mockCatalogSource{}, events.NopPublisher{})

	_, err := svc.GetByReference(context.Background(), "SB-MISSING1")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
