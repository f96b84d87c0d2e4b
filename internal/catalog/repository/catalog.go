package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studiobook/pkg/config"
	"studiobook/pkg/model"
)

const (
	FunctionsCollection     = "event_catalog"
	VideoAddonsCollection   = "video_addons"
	ComplimentaryCollection = "complimentary_items"
	AlbumConfigCollection   = "album_config"
	PricingConfigCollection = "pricing_config"
)

// Fallbacks used when a config row is absent. Seeded databases normally
// carry every key; a fresh database still prices correctly.
const (
	defaultBasePages             = 60
	defaultBasePriceSingle       = 8000
	defaultPer10PagesCost        = 500
	defaultDoubleAlbumMultiplier = 1.8
	defaultPagesIncrement        = 10

	defaultExtraCrewFlatFee  = 8000
	defaultTaxPercentage     = 0
	defaultAdvancePercentage = 30
)

type CatalogRepository interface {
	ListFunctions(ctx context.Context) ([]model.EventFunction, error)
	ListVideoAddons(ctx context.Context) ([]model.VideoAddon, error)
	ListComplimentaryItems(ctx context.Context) ([]model.ComplimentaryItem, error)
	AlbumConfiguration(ctx context.Context) (model.AlbumConfiguration, error)
	PricingConfiguration(ctx context.Context) (model.PricingConfiguration, error)
}

type mongoCatalogRepository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	return &mongoCatalogRepository{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

func (r *mongoCatalogRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoCatalogRepository) ListFunctions(ctx context.Context) ([]model.EventFunction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.db.Collection(FunctionsCollection).Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query event catalog: %w", err)
	}
	defer cursor.Close(ctx)

	var functions []model.EventFunction
	if err := cursor.All(ctx, &functions); err != nil {
		return nil, fmt.Errorf("failed to decode event catalog: %w", err)
	}
	return functions, nil
}

func (r *mongoCatalogRepository) ListVideoAddons(ctx context.Context) ([]model.VideoAddon, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.db.Collection(VideoAddonsCollection).Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query video addons: %w", err)
	}
	defer cursor.Close(ctx)

	var addons []model.VideoAddon
	if err := cursor.All(ctx, &addons); err != nil {
		return nil, fmt.Errorf("failed to decode video addons: %w", err)
	}
	return addons, nil
}

func (r *mongoCatalogRepository) ListComplimentaryItems(ctx context.Context) ([]model.ComplimentaryItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.db.Collection(ComplimentaryCollection).Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query complimentary items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []model.ComplimentaryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode complimentary items: %w", err)
	}
	return items, nil
}

func (r *mongoCatalogRepository) AlbumConfiguration(ctx context.Context) (model.AlbumConfiguration, error) {
	settings, err := r.loadSettings(ctx, AlbumConfigCollection)
	if err != nil {
		return model.AlbumConfiguration{}, err
	}

	return model.AlbumConfiguration{
		BasePages:             int(settingOr(settings, "base_pages", defaultBasePages)),
		BasePriceSingle:       int64(settingOr(settings, "base_price_single", defaultBasePriceSingle)),
		Per10PagesCost:        int64(settingOr(settings, "per_10_pages_cost", defaultPer10PagesCost)),
		DoubleAlbumMultiplier: settingOr(settings, "double_album_multiplier", defaultDoubleAlbumMultiplier),
		PagesIncrement:        int(settingOr(settings, "pages_increment", defaultPagesIncrement)),
	}, nil
}

func (r *mongoCatalogRepository) PricingConfiguration(ctx context.Context) (model.PricingConfiguration, error) {
	settings, err := r.loadSettings(ctx, PricingConfigCollection)
	if err != nil {
		return model.PricingConfiguration{}, err
	}

	return model.PricingConfiguration{
		ExtraCrewFlatFee:  int64(settingOr(settings, "extra_crew_flat_fee", defaultExtraCrewFlatFee)),
		TaxPercentage:     settingOr(settings, "tax_percentage", defaultTaxPercentage),
		AdvancePercentage: settingOr(settings, "advance_percentage", defaultAdvancePercentage),
	}, nil
}

type settingRow struct {
	Key   string  `bson:"key"`
	Value float64 `bson:"value"`
}

// loadSettings reads a key/value config collection into a map. Every config
// value in the catalog is numeric.
func (r *mongoCatalogRepository) loadSettings(ctx context.Context, collection string) (map[string]float64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var rows []settingRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}

	settings := make(map[string]float64, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

func settingOr(settings map[string]float64, key string, fallback float64) float64 {
	if v, ok := settings[key]; ok {
		return v
	}
	return fallback
}
