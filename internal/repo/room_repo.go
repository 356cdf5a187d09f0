// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Room
// aggregate.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a room is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - ReplaceRoom returns ErrVersionConflict when the stored version no
//     longer matches the caller's expected version; stored state is left
//     untouched in that case.
//   - On other DB errors, the raw gorm error is propagated.
//
// The Room aggregate is stored document-style: the auction list serializes
// into a single JSON column, so every replace swaps the entire document
// atomically in one UPDATE. The version column is the optimistic-concurrency
// token that closes the lost-update race between concurrent bidders (see
// services.Coordinator).
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrVersionConflict is returned by ReplaceRoom when the stored room has a
// different version than the caller loaded, i.e. a concurrent writer
// committed in between. The store is not modified.
var ErrVersionConflict = errors.New("room version conflict")

// roomDocumentColumns are the columns rewritten by a whole-document replace.
// The id and created_at stay fixed for the lifetime of the room.
var roomDocumentColumns = []string{
	"namespace",
	"minimum_bid",
	"minimum_bid_increment",
	"bid_duration_in_seconds",
	"auctions",
	"version",
	"updated_at",
}

// CreateRoom inserts a new room. When the room carries no ID yet, a random
// UUID is assigned; the version starts at 1.
func CreateRoom(ctx context.Context, db *gorm.DB, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Version == 0 {
		room.Version = 1
	}
	if room.Auctions == nil {
		room.Auctions = []domain.Auction{}
	}
	room.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(room).Error
}

// GetRoom fetches a single room by ID, or ErrNotFound if missing.
func GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.Room, error) {
	var r domain.Room
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRooms returns all rooms, most recently created first. It returns an
// empty slice when no rooms exist.
func ListRooms(ctx context.Context, db *gorm.DB) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountRooms returns the total number of rooms for pagination metadata.
func CountRooms(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Room{}).Count(&total).Error
	return total, err
}

// ListRoomsPage returns a paginated slice of rooms ordered by creation time
// descending. The caller computes offset and limit (e.g., (page-1)*pageSize).
func ListRoomsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ReplaceRoom swaps the stored room document for the given one, but only when
// the stored version still equals expectedVersion. On success the version is
// bumped to expectedVersion+1, both in the store and on the passed room.
//
// A stale expectedVersion yields ErrVersionConflict; a missing room yields
// ErrNotFound. Neither modifies stored state.
func ReplaceRoom(ctx context.Context, db *gorm.DB, room *domain.Room, expectedVersion int64) error {
	room.Version = expectedVersion + 1
	room.UpdatedAt = time.Now().UTC()

	res := db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ? AND version = ?", room.ID, expectedVersion).
		Select(roomDocumentColumns).
		Updates(room)
	if res.Error != nil {
		room.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		room.Version = expectedVersion
		// Distinguish a stale token from a deleted room.
		var n int64
		if err := db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", room.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// DeleteRoom removes a room by ID. Returns ErrNotFound when no row matched.
func DeleteRoom(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Room{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
