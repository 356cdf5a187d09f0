// Package services – ItemService
//
// This file implements the cached catalog lookup. Item metadata is static
// game data, so every successful remote lookup is written to the local items
// table and served from there afterwards; re-provisioning a popular item
// costs one SELECT instead of a catalog round trip. Cache write failures are
// deliberately non-fatal; the metadata in hand is still returned.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-auction-backend/internal/domain"
	"github.com/tbourn/go-auction-backend/internal/repo"
)

// CatalogClient is the remote half of a lookup; implemented by
// catalog.Client.
type CatalogClient interface {
	Lookup(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error)
}

// ItemRepo defines the cache repository contract required by ItemService.
type ItemRepo interface {
	// GetItem returns the cached record or repo.ErrNotFound.
	GetItem(ctx context.Context, db *gorm.DB, itemID int, ns domain.Namespace) (*domain.Item, error)

	// SaveItem upserts a cached record.
	SaveItem(ctx context.Context, db *gorm.DB, itemID int, ns domain.Namespace, meta *domain.ItemMetadata) (*domain.Item, error)
}

// ItemService resolves item metadata through a local cache backed by the
// remote catalog. It implements ItemLookup.
type ItemService struct {
	// DB is the GORM handle used for the cache table.
	DB *gorm.DB
	// Repo is the item cache repository.
	Repo ItemRepo
	// Client is the remote catalog client used on cache misses.
	Client CatalogClient
}

// NewItemService constructs an ItemService.
func NewItemService(db *gorm.DB, r ItemRepo, client CatalogClient) *ItemService {
	return &ItemService{DB: db, Repo: r, Client: client}
}

// Lookup returns metadata for (itemID, ns), trying the cache first and
// falling back to the remote catalog. Remote failures propagate to the
// caller; a cache read failure other than a miss falls through to the remote
// as well, so a degraded cache never blocks provisioning.
func (s *ItemService) Lookup(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error) {
	tr := otel.Tracer("services/ItemService")
	ctx, span := tr.Start(ctx, "Lookup",
		trace.WithAttributes(
			attribute.Int("item.id", itemID),
			attribute.String("namespace", string(ns)),
		),
	)
	defer span.End()

	if cached, err := s.Repo.GetItem(ctx, s.DB, itemID, ns); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.Metadata(), nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		// Unexpected cache failure: log-worthy upstream, but the remote can
		// still answer.
		span.RecordError(err)
	}

	meta, err := s.Client.Lookup(ctx, itemID, ns)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.SaveItem(ctx, s.DB, itemID, ns, meta); err != nil {
		span.RecordError(err)
	}
	return meta, nil
}
