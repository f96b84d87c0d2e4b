package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "studiobook/internal/bookings/errors"
	"studiobook/internal/bookings/events"
	"studiobook/internal/bookings/refcode"
	"studiobook/internal/bookings/repository"
	"studiobook/internal/pricing"
	"studiobook/internal/wizard/validator"
	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"
	"studiobook/pkg/sanitizer"
)

// maxReferenceAttempts bounds the regenerate-on-collision loop at submit.
const maxReferenceAttempts = 5

// DraftSource is the slice of the wizard the booking service needs.
type DraftSource interface {
	GetDraft(ctx context.Context, sessionID string) (*model.BookingDraft, error)
	DeleteSession(ctx context.Context, sessionID string)
}

// CatalogSource provides the fresh snapshot a submission is priced against.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*model.CatalogSnapshot, error)
}

type BookingService interface {
	// Submit turns a complete wizard draft into a persisted booking. The
	// pricing is recomputed one final time against the live catalog and
	// frozen into the record.
	Submit(ctx context.Context, sessionID string) (*model.BookingRecord, error)

	GetByID(ctx context.Context, id string) (*model.BookingRecord, error)
	GetByReference(ctx context.Context, reference string) (*model.BookingRecord, error)
	GetByPhone(ctx context.Context, phone string) ([]*model.BookingRecord, error)
	GetAll(ctx context.Context, limit int, offset int) ([]*model.BookingRecord, int64, error)

	UpdateBookingStatus(ctx context.Context, id string, next model.BookingStatus) (*model.BookingRecord, error)
	UpdatePaymentStatus(ctx context.Context, id string, next model.PaymentStatus) (*model.BookingRecord, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	drafts    DraftSource
	catalog   CatalogSource
	validate  *validator.DraftValidator
	publisher events.Publisher
	log       *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	drafts DraftSource,
	catalog CatalogSource,
	validate *validator.DraftValidator,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		drafts:    drafts,
		catalog:   catalog,
		validate:  validate,
		publisher: publisher,
		log:       log,
	}
}

func (s *bookingService) Submit(ctx context.Context, sessionID string) (*model.BookingRecord, error) {
	draft, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.validate.ForSubmission(draft); err != nil {
		return nil, err
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, missing := pricing.ComputeDraft(draft, snapshot)
	if len(missing) > 0 {
		s.log.Warn("submitted draft references functions missing from the catalog",
			"session_id", sessionID, "function_ids", missing)
	}

	phoneNormalized := sanitizer.NormalizePhone(draft.ClientInfo.Phone)
	if phoneNormalized == "" {
		phoneNormalized = draft.ClientInfo.Phone
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	record := &model.BookingRecord{
		ClientInfo:        draft.ClientInfo,
		EventDetails:      draft.EventDetails,
		PhoneNormalized:   phoneNormalized,
		Functions:         draft.Functions,
		Album:             draft.Album,
		VideoAddons:       draft.VideoAddons,
		ComplimentaryItem: draft.ComplimentaryItem,
		Breakdown:         breakdown,
		DigitalSignature:  draft.DigitalSignature,
		TermsAccepted:     draft.TermsAccepted,
		TermsAcceptedAt:   now,
		BookingStatus:     model.BookingPending,
		PaymentStatus:     model.PaymentUnpaid,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.persistWithReference(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("booking submitted",
		"reference", record.Reference,
		"booking_id", record.ID,
		"total", record.Breakdown.Total,
		"advance", record.Breakdown.Advance,
	)

	// Publishing is best effort. The booking is already durable; a consumer
	// outage must not fail the submission.
	if err := s.publisher.BookingSubmitted(ctx, record); err != nil {
		s.log.Error("failed to publish booking submitted event",
			"reference", record.Reference, "error", err)
	}

	s.drafts.DeleteSession(ctx, sessionID)
	return record, nil
}

// persistWithReference generates a reference and inserts, regenerating on
// the rare collision with the unique index.
func (s *bookingService) persistWithReference(ctx context.Context, record *model.BookingRecord) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := refcode.Generate()
		if err != nil {
			return apperrors.Internal("failed to generate booking reference", err)
		}
		record.Reference = ref

		err = s.repo.Create(ctx, record)
		if err == nil {
			return nil
		}
		if errors.Is(err, bookingserrors.ErrDuplicateReference) {
			s.log.Warn("booking reference collision, regenerating", "reference", ref)
			continue
		}
		return apperrors.Internal("failed to persist booking", err)
	}
	return apperrors.Internal("failed to persist booking",
		fmt.Errorf("reference collisions on %d consecutive attempts", maxReferenceAttempts))
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingRecord, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.toAppError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.BookingRecord, error) {
	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, s.toAppError(err, reference)
	}
	return booking, nil
}

// GetByPhone normalizes the queried number first, so any format the client
// types matches the stored E.164 form.
func (s *bookingService) GetByPhone(ctx context.Context, phone string) ([]*model.BookingRecord, error) {
	normalized := sanitizer.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperrors.InvalidInput("phone number could not be parsed")
	}

	bookings, err := s.repo.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, apperrors.Internal("failed to look up bookings by phone", err)
	}
	return bookings, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int) ([]*model.BookingRecord, int64, error) {
	bookings, err := s.repo.FindAll(ctx, limit, int64(offset))
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}
	return bookings, count, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id string, next model.BookingStatus) (*model.BookingRecord, error) {
	if !next.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown booking status: %s", next))
	}

	var updated *model.BookingRecord
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.toAppError(err, id)
		}

		if !booking.BookingStatus.CanTransitionTo(next) {
			return apperrors.Conflict(fmt.Sprintf(
				"cannot change booking status from %s to %s", booking.BookingStatus, next))
		}

		if err := s.repo.UpdateBookingStatus(sessCtx, id, next); err != nil {
			return s.toAppError(err, id)
		}

		booking.BookingStatus = next
		updated = booking
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("failed to update booking status", err)
	}

	s.log.Info("booking status updated", "booking_id", id, "status", next)
	return updated, nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, id string, next model.PaymentStatus) (*model.BookingRecord, error) {
	if !next.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown payment status: %s", next))
	}

	var updated *model.BookingRecord
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.toAppError(err, id)
		}

		if !booking.PaymentStatus.CanTransitionTo(next) {
			return apperrors.Conflict(fmt.Sprintf(
				"cannot change payment status from %s to %s", booking.PaymentStatus, next))
		}

		if err := s.repo.UpdatePaymentStatus(sessCtx, id, next); err != nil {
			return s.toAppError(err, id)
		}

		booking.PaymentStatus = next
		updated = booking
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("failed to update payment status", err)
	}

	s.log.Info("payment status updated", "booking_id", id, "status", next)
	return updated, nil
}

func (s *bookingService) toAppError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid booking id: %s", id))
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("booking lookup failed", err)
	}
}
