package model

import "time"

// AlbumType is the closed set of album variants.
type AlbumType string

const (
	AlbumSingle         AlbumType = "one-photobook"
	AlbumTwoIndividuals AlbumType = "two-individual-photobooks"
)

// FunctionGroup tags where a selected function is shown in the wizard.
// Pricing pools both groups into one list; the tag exists for display only.
type FunctionGroup string

const (
	GroupMain       FunctionGroup = "main"
	GroupAdditional FunctionGroup = "additional"
)

// ClientInfo is the step-1 contact block.
type ClientInfo struct {
	FullName        string `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Phone           string `json:"phone" bson:"phone" validate:"required,e164"`
	WhatsApp        string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty" validate:"omitempty,e164"`
	Email           string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	HomeAddress     string `json:"home_address,omitempty" bson:"home_address,omitempty" validate:"omitempty,max=300"`
	CurrentLocation string `json:"current_location,omitempty" bson:"current_location,omitempty" validate:"omitempty,max=300"`
}

// EventDetails is the step-1 event block.
type EventDetails struct {
	BookingType   string `json:"booking_type" bson:"booking_type" validate:"required,max=50"`
	EventLocation string `json:"event_location,omitempty" bson:"event_location,omitempty" validate:"omitempty,max=300"`
	EventDate     string `json:"event_date" bson:"event_date" validate:"required,datetime=2006-01-02"`
	GuestCount    string `json:"guest_count,omitempty" bson:"guest_count,omitempty" validate:"omitempty,max=20"`
	BudgetRange   string `json:"budget_range,omitempty" bson:"budget_range,omitempty" validate:"omitempty,max=30"`
}

// SelectedFunction is one function instance the client toggled on. ID is a
// generated instance id, distinct from FunctionID, so the same catalog entry
// can be selected more than once.
type SelectedFunction struct {
	ID              string        `json:"id" bson:"id" validate:"required,uuid4"`
	FunctionID      string        `json:"function_id" bson:"function_id" validate:"required"`
	Name            string        `json:"name" bson:"name" validate:"required,max=100"`
	Group           FunctionGroup `json:"group" bson:"group" validate:"required,oneof=main additional"`
	Date            string        `json:"date,omitempty" bson:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime       string        `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime         string        `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Duration        float64       `json:"duration" bson:"duration" validate:"gte=0,lte=48"`
	Photographers   int           `json:"photographers" bson:"photographers" validate:"gte=0,lte=20"`
	Cinematographers int          `json:"cinematographers" bson:"cinematographers" validate:"gte=0,lte=20"`
}

// AlbumSelection is the step-3 album choice. Pages must sit on the
// BasePages + k*PagesIncrement grid; the validator enforces that against the
// active album configuration.
type AlbumSelection struct {
	Pages int       `json:"pages" bson:"pages" validate:"gt=0"`
	Type  AlbumType `json:"type" bson:"type" validate:"required,oneof=one-photobook two-individual-photobooks"`
}

// BookingDraft is the accumulating wizard state for one session. Every step
// mutates its own fields; revisiting an earlier step never clears data
// entered later. Breakdown is the last computed pricing snapshot and is
// replaced wholesale on every recompute.
type BookingDraft struct {
	SessionID string `json:"session_id" bson:"session_id"`

	ClientInfo   ClientInfo   `json:"client_info" bson:"client_info"`
	EventDetails EventDetails `json:"event_details" bson:"event_details"`

	Functions []SelectedFunction `json:"functions" bson:"functions"`

	Album             AlbumSelection `json:"album" bson:"album"`
	VideoAddons       []string       `json:"video_addons" bson:"video_addons"`
	ComplimentaryItem string         `json:"complimentary_item,omitempty" bson:"complimentary_item,omitempty"`

	DigitalSignature string `json:"digital_signature,omitempty" bson:"digital_signature,omitempty"`
	TermsAccepted    bool   `json:"terms_accepted" bson:"terms_accepted"`

	Breakdown *PricingBreakdown `json:"pricing_breakdown,omitempty" bson:"pricing_breakdown,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FunctionsInGroup filters the canonical function list for display.
func (d *BookingDraft) FunctionsInGroup(group FunctionGroup) []SelectedFunction {
	var out []SelectedFunction
	for _, fn := range d.Functions {
		if fn.Group == group {
			out = append(out, fn)
		}
	}
	return out
}

// HasVideoAddon reports whether the slug is currently selected.
func (d *BookingDraft) HasVideoAddon(slug string) bool {
	for _, s := range d.VideoAddons {
		if s == slug {
			return true
		}
	}
	return false
}
