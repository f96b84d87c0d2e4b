// Package pricing computes the cost breakdown for a booking draft against a
// catalog snapshot. Everything here is pure: no I/O, no clock, no
// randomness. Same inputs, same breakdown.
package pricing

import (
	"math"

	"studiobook/pkg/model"
)

// Compute prices the pooled function list (main + additional), the album
// selection and the chosen video add-ons against the snapshot.
//
// Missing catalog references degrade instead of failing, with deliberately
// asymmetric policies: a function whose definition is gone prices as a
// zero-cost line, while an unknown add-on slug is omitted entirely. The ids
// of unresolved functions are returned so the caller can log the data gap.
//
// Rounding is per component, half-up, to whole currency units. Aggregates
// sum already-rounded lines and are never re-rounded.
func Compute(
	functions []model.SelectedFunction,
	album model.AlbumSelection,
	videoAddons []string,
	catalog *model.CatalogSnapshot,
) (model.PricingBreakdown, []string) {
	breakdown := model.PricingBreakdown{
		Functions:   make([]model.FunctionPricing, 0, len(functions)),
		VideoAddons: make([]model.AddonPricing, 0, len(videoAddons)),
	}

	var missing []string
	for _, selected := range functions {
		line, ok := priceFunction(selected, catalog)
		if !ok {
			missing = append(missing, selected.FunctionID)
		}
		breakdown.Functions = append(breakdown.Functions, line)
	}

	breakdown.Album = priceAlbum(album, catalog.Album)

	for _, slug := range videoAddons {
		if addon, ok := catalog.AddonBySlug(slug); ok {
			breakdown.VideoAddons = append(breakdown.VideoAddons, model.AddonPricing{
				Slug:  slug,
				Label: addon.Label,
				Price: addon.Price,
			})
		}
	}

	subtotal := breakdown.FunctionsTotal() + breakdown.Album.TotalCost + breakdown.VideoAddonsTotal()
	tax := roundMoney(float64(subtotal) * catalog.Pricing.TaxPercentage / 100)
	total := subtotal + tax
	advance := roundMoney(float64(total) * catalog.Pricing.AdvancePercentage / 100)

	breakdown.Subtotal = subtotal
	breakdown.Tax = tax
	breakdown.Total = total
	breakdown.Advance = advance
	breakdown.Balance = total - advance

	return breakdown, missing
}

// ComputeDraft is Compute over a whole draft.
func ComputeDraft(draft *model.BookingDraft, catalog *model.CatalogSnapshot) (model.PricingBreakdown, []string) {
	return Compute(draft.Functions, draft.Album, draft.VideoAddons, catalog)
}

func priceFunction(selected model.SelectedFunction, catalog *model.CatalogSnapshot) (model.FunctionPricing, bool) {
	def, found := catalog.FunctionByID(selected.FunctionID)
	if !found {
		// Stale draft against a changed catalog: the line degrades to zero
		// rather than aborting the whole computation.
		return model.FunctionPricing{
			FunctionID:   selected.FunctionID,
			FunctionName: selected.Name,
			Details: model.FunctionPricingDetails{
				Duration:         selected.Duration,
				Photographers:    selected.Photographers,
				Cinematographers: selected.Cinematographers,
			},
		}, false
	}

	extraHours := math.Max(0, selected.Duration-def.IncludedHours)
	extraHoursCost := roundMoney(extraHours * float64(def.ExtraHourRate))

	// Extra crew is a head count, charged at one flat fee regardless of
	// role. A shortfall in one role never offsets an overage in the other.
	extraCrew := clampExtra(selected.Photographers, def.IncludedPhotographers) +
		clampExtra(selected.Cinematographers, def.IncludedCinematographers)
	extraCrewCost := int64(extraCrew) * catalog.Pricing.ExtraCrewFlatFee

	return model.FunctionPricing{
		FunctionID:     selected.FunctionID,
		FunctionName:   selected.Name,
		BasePrice:      def.FlatPrice,
		ExtraHoursCost: extraHoursCost,
		ExtraCrewCost:  extraCrewCost,
		TotalCost:      def.FlatPrice + extraHoursCost + extraCrewCost,
		Details: model.FunctionPricingDetails{
			Duration:                 selected.Duration,
			IncludedHours:            def.IncludedHours,
			ExtraHours:               extraHours,
			Photographers:            selected.Photographers,
			IncludedPhotographers:    def.IncludedPhotographers,
			Cinematographers:         selected.Cinematographers,
			IncludedCinematographers: def.IncludedCinematographers,
			ExtraCrewCount:           extraCrew,
		},
	}, true
}

func priceAlbum(selection model.AlbumSelection, cfg model.AlbumConfiguration) model.AlbumPricing {
	extraPages := selection.Pages - cfg.BasePages
	if extraPages < 0 {
		extraPages = 0
	}

	var extraPagesCost int64
	if cfg.PagesIncrement > 0 {
		extraPagesCost = roundMoney(float64(extraPages) / float64(cfg.PagesIncrement) * float64(cfg.Per10PagesCost))
	}

	multiplier := 1.0
	if selection.Type == model.AlbumTwoIndividuals {
		multiplier = cfg.DoubleAlbumMultiplier
	}

	// The multiplier applies to base+extra combined, not to the base alone.
	totalCost := roundMoney(float64(cfg.BasePriceSingle+extraPagesCost) * multiplier)

	return model.AlbumPricing{
		BasePrice:      cfg.BasePriceSingle,
		ExtraPagesCost: extraPagesCost,
		TotalCost:      totalCost,
		Details: model.AlbumPricingDetails{
			Pages:      selection.Pages,
			BasePages:  cfg.BasePages,
			ExtraPages: extraPages,
			AlbumType:  selection.Type,
			Multiplier: multiplier,
		},
	}
}

func clampExtra(assigned, included int) int {
	if assigned > included {
		return assigned - included
	}
	return 0
}

// roundMoney rounds half-up to the nearest whole currency unit. Inputs are
// never negative here, so math.Round matches half-up exactly.
func roundMoney(x float64) int64 {
	return int64(math.Round(x))
}
