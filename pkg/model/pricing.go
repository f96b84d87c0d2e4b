package model

// All currency amounts are whole units (no fractional currency). Every line
// cost below is already rounded; aggregates are sums of rounded lines.

// FunctionPricingDetails records the inputs behind one function line so the
// breakdown can be displayed and audited without re-deriving anything.
type FunctionPricingDetails struct {
	Duration                 float64 `json:"duration" bson:"duration"`
	IncludedHours            float64 `json:"included_hours" bson:"included_hours"`
	ExtraHours               float64 `json:"extra_hours" bson:"extra_hours"`
	Photographers            int     `json:"photographers" bson:"photographers"`
	IncludedPhotographers    int     `json:"included_photographers" bson:"included_photographers"`
	Cinematographers         int     `json:"cinematographers" bson:"cinematographers"`
	IncludedCinematographers int     `json:"included_cinematographers" bson:"included_cinematographers"`
	ExtraCrewCount           int     `json:"extra_crew_count" bson:"extra_crew_count"`
}

// FunctionPricing is one priced line per selected function, main and
// additional pooled together.
type FunctionPricing struct {
	FunctionID     string                 `json:"function_id" bson:"function_id"`
	FunctionName   string                 `json:"function_name" bson:"function_name"`
	BasePrice      int64                  `json:"base_price" bson:"base_price"`
	ExtraHoursCost int64                  `json:"extra_hours_cost" bson:"extra_hours_cost"`
	ExtraCrewCost  int64                  `json:"extra_crew_cost" bson:"extra_crew_cost"`
	TotalCost      int64                  `json:"total_function_cost" bson:"total_function_cost"`
	Details        FunctionPricingDetails `json:"details" bson:"details"`
}

type AlbumPricingDetails struct {
	Pages      int       `json:"pages" bson:"pages"`
	BasePages  int       `json:"base_pages" bson:"base_pages"`
	ExtraPages int       `json:"extra_pages" bson:"extra_pages"`
	AlbumType  AlbumType `json:"album_type" bson:"album_type"`
	Multiplier float64   `json:"multiplier" bson:"multiplier"`
}

type AlbumPricing struct {
	BasePrice      int64               `json:"base_price" bson:"base_price"`
	ExtraPagesCost int64               `json:"extra_pages_cost" bson:"extra_pages_cost"`
	TotalCost      int64               `json:"total_album_cost" bson:"total_album_cost"`
	Details        AlbumPricingDetails `json:"details" bson:"details"`
}

type AddonPricing struct {
	Slug  string `json:"slug" bson:"slug"`
	Label string `json:"label" bson:"label"`
	Price int64  `json:"price" bson:"price"`
}

// PricingBreakdown is the authoritative priced snapshot of a draft. Once a
// booking is submitted the breakdown is frozen into the record and stays
// valid regardless of later catalog changes.
type PricingBreakdown struct {
	Functions   []FunctionPricing `json:"functions" bson:"functions"`
	Album       AlbumPricing      `json:"album" bson:"album"`
	VideoAddons []AddonPricing    `json:"video_addons" bson:"video_addons"`

	Subtotal int64 `json:"subtotal" bson:"subtotal"`
	Tax      int64 `json:"tax" bson:"tax"`
	Total    int64 `json:"total" bson:"total"`
	Advance  int64 `json:"advance" bson:"advance"`
	Balance  int64 `json:"balance" bson:"balance"`
}

// FunctionsTotal sums the already-rounded function lines.
func (b *PricingBreakdown) FunctionsTotal() int64 {
	var total int64
	for _, fn := range b.Functions {
		total += fn.TotalCost
	}
	return total
}

// VideoAddonsTotal sums the emitted add-on lines.
func (b *PricingBreakdown) VideoAddonsTotal() int64 {
	var total int64
	for _, addon := range b.VideoAddons {
		total += addon.Price
	}
	return total
}
