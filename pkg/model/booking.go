package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentAdvancePaid PaymentStatus = "advance_paid"
	PaymentFullyPaid   PaymentStatus = "fully_paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:      {PaymentAdvancePaid, PaymentFullyPaid},
	PaymentAdvancePaid: {PaymentFullyPaid, PaymentRefunded},
	PaymentFullyPaid:   {PaymentRefunded},
	PaymentRefunded:    {},
}

// CanTransitionTo reports whether the status change is legal. Completed and
// cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// BookingRecord is the persisted form of a submitted draft. Created once at
// submission; afterwards only the status fields change. The breakdown inside
// is frozen and never recomputed.
type BookingRecord struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	Reference string `json:"reference" bson:"reference"`

	ClientInfo   ClientInfo   `json:"client_info" bson:"client_info"`
	EventDetails EventDetails `json:"event_details" bson:"event_details"`

	// PhoneNormalized is the E.164 form of the client phone, indexed for
	// lookup. ClientInfo.Phone keeps whatever the client typed.
	PhoneNormalized string `json:"-" bson:"phone_normalized"`

	Functions         []SelectedFunction `json:"functions" bson:"functions"`
	Album             AlbumSelection     `json:"album" bson:"album"`
	VideoAddons       []string           `json:"video_addons" bson:"video_addons"`
	ComplimentaryItem string             `json:"complimentary_item,omitempty" bson:"complimentary_item,omitempty"`

	Breakdown PricingBreakdown `json:"pricing_breakdown" bson:"pricing_breakdown"`

	DigitalSignature string    `json:"digital_signature" bson:"digital_signature"`
	TermsAccepted    bool      `json:"terms_accepted" bson:"terms_accepted"`
	TermsAcceptedAt  time.Time `json:"terms_accepted_at" bson:"terms_accepted_at"`

	BookingStatus BookingStatus `json:"booking_status" bson:"booking_status"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
