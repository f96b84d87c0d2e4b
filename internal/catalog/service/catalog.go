package service

import (
	"context"
	"sync"

	apperrors "studiobook/pkg/errors"
	"studiobook/pkg/logger"
	"studiobook/pkg/model"

	"studiobook/internal/catalog/repository"
)

type CatalogService interface {
	// Snapshot assembles the full reference data set one pricing run needs.
	// Pricing has no partial-data mode, so any failed lookup fails the whole
	// snapshot.
	Snapshot(ctx context.Context) (*model.CatalogSnapshot, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	log  *logger.Logger
}

func NewCatalogService(repo repository.CatalogRepository, log *logger.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) Snapshot(ctx context.Context) (*model.CatalogSnapshot, error) {
	var (
		snapshot model.CatalogSnapshot
		wg       sync.WaitGroup
		errs     [5]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		snapshot.Functions, errs[0] = s.repo.ListFunctions(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.VideoAddons, errs[1] = s.repo.ListVideoAddons(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.ComplimentaryItems, errs[2] = s.repo.ListComplimentaryItems(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Album, errs[3] = s.repo.AlbumConfiguration(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Pricing, errs[4] = s.repo.PricingConfiguration(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.log.Error("catalog snapshot failed", "error", err)
			return nil, apperrors.Unavailable("catalog is currently unavailable", err)
		}
	}

	return &snapshot, nil
}
