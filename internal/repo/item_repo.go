// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the catalog-cache repository: item
// metadata fetched from the external catalog is stored locally so repeated
// provisioning of the same item never pays another remote round trip.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

// GetItem returns the cached catalog record for (itemID, namespace), or
// ErrNotFound when the pair has never been cached.
func GetItem(ctx context.Context, db *gorm.DB, itemID int, namespace domain.Namespace) (*domain.Item, error) {
	var it domain.Item
	err := db.WithContext(ctx).
		Where("item_id = ? AND namespace = ?", itemID, string(namespace)).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// SaveItem upserts a catalog record for (itemID, namespace). Metadata is
// static game data, so a concurrent writer racing on the unique index simply
// overwrites with identical values.
func SaveItem(ctx context.Context, db *gorm.DB, itemID int, namespace domain.Namespace, meta *domain.ItemMetadata) (*domain.Item, error) {
	it := &domain.Item{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Namespace: string(namespace),
		Name:      meta.Name,
		Quality:   meta.Quality,
		Level:     meta.Level,
		Type:      meta.Type,
		SubType:   meta.SubType,
		MinLevel:  meta.MinLevel,
		GUID:      meta.GUID,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "quality", "level", "type", "sub_type", "min_level", "guid", "updated_at"}),
		}).
		Create(it).Error
	if err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(low, "unique constraint failed") {
			return GetItem(ctx, db, itemID, namespace)
		}
		return nil, err
	}
	return it, nil
}
