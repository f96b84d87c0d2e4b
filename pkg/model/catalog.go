package model

// FunctionCategory groups catalog entries the way the wizard presents them.
type FunctionCategory string

const (
	CategoryMain       FunctionCategory = "main"
	CategoryOther      FunctionCategory = "other"
	CategoryAdditional FunctionCategory = "additional"
)

// EventFunction is one bookable segment type from the catalog. The flat
// price already covers IncludedHours and the included crew counts; anything
// beyond that is billed as overage.
type EventFunction struct {
	ID                       string           `json:"id" bson:"_id,omitempty"`
	Slug                     string           `json:"slug" bson:"slug"`
	Label                    string           `json:"label" bson:"label"`
	Category                 FunctionCategory `json:"category" bson:"category"`
	Icon                     string           `json:"icon,omitempty" bson:"icon,omitempty"`
	FlatPrice                int64            `json:"flat_price" bson:"flat_price"`
	IncludedHours            float64          `json:"included_hours" bson:"included_hours"`
	IncludedPhotographers    int              `json:"included_photographers" bson:"included_photographers"`
	IncludedCinematographers int              `json:"included_cinematographers" bson:"included_cinematographers"`
	ExtraHourRate            int64            `json:"extra_hour_rate" bson:"extra_hour_rate"`
	IsActive                 bool             `json:"is_active" bson:"is_active"`
	SortOrder                int              `json:"sort_order" bson:"sort_order"`
}

// VideoAddon is a flat-priced optional extra (highlight video, drone
// coverage, ...).
type VideoAddon struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Slug        string `json:"slug" bson:"slug"`
	Label       string `json:"label" bson:"label"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Price       int64  `json:"price" bson:"price"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
	SortOrder   int    `json:"sort_order" bson:"sort_order"`
}

// ComplimentaryItem is a free pick included with every booking.
type ComplimentaryItem struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Slug        string `json:"slug" bson:"slug"`
	Label       string `json:"label" bson:"label"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
	SortOrder   int    `json:"sort_order" bson:"sort_order"`
}

// AlbumConfiguration holds the album pricing constants. Pages grow from
// BasePages in PagesIncrement steps; each increment costs Per10PagesCost.
type AlbumConfiguration struct {
	BasePages             int     `json:"base_pages"`
	BasePriceSingle       int64   `json:"base_price_single"`
	Per10PagesCost        int64   `json:"per_10_pages_cost"`
	DoubleAlbumMultiplier float64 `json:"double_album_multiplier"`
	PagesIncrement        int     `json:"pages_increment"`
}

// PricingConfiguration holds the global pricing constants. ExtraCrewFlatFee
// is charged per extra head regardless of role.
type PricingConfiguration struct {
	ExtraCrewFlatFee  int64   `json:"extra_crew_flat_fee"`
	TaxPercentage     float64 `json:"tax_percentage"`
	AdvancePercentage float64 `json:"advance_percentage"`
}

// CatalogSnapshot bundles the reference data one pricing computation runs
// against. It is assembled once per request and never mutated afterwards.
type CatalogSnapshot struct {
	Functions          []EventFunction      `json:"functions"`
	VideoAddons        []VideoAddon         `json:"video_addons"`
	ComplimentaryItems []ComplimentaryItem  `json:"complimentary_items"`
	Album              AlbumConfiguration   `json:"album"`
	Pricing            PricingConfiguration `json:"pricing"`
}

// FunctionByID looks up a function definition. The second return reports
// whether the id resolved.
func (s *CatalogSnapshot) FunctionByID(id string) (EventFunction, bool) {
	for _, fn := range s.Functions {
		if fn.ID == id || fn.Slug == id {
			return fn, true
		}
	}
	return EventFunction{}, false
}

// AddonBySlug looks up a video add-on definition by its slug.
func (s *CatalogSnapshot) AddonBySlug(slug string) (VideoAddon, bool) {
	for _, addon := range s.VideoAddons {
		if addon.Slug == slug {
			return addon, true
		}
	}
	return VideoAddon{}, false
}
