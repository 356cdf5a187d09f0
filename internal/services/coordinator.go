// Package services – Coordinator
//
// This file implements the per-room optimistic-concurrency loop. Every write
// to a room document goes through Execute: load the current aggregate and its
// version token, apply a pure mutation to the in-memory copy, and commit the
// result conditionally on the version being unchanged. A lost race reloads
// and reapplies the mutation; the retry budget bounds how long two hot
// writers may fight before the caller is told to retry the whole operation.
//
// Rooms are independent: operations on different room ids never contend.
// There is no in-process lock; correctness comes entirely from the
// conditional replace, so it holds across processes sharing one store.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-auction-backend/internal/domain"
	"github.com/tbourn/go-auction-backend/internal/repo"
)

// RoomRepo defines the repository contract required by the room-facing
// services. Implementations are responsible for persistence of the Room
// aggregate as a whole document with a version token.
type RoomRepo interface {
	// CreateRoom inserts a new room, assigning an ID when absent.
	CreateRoom(ctx context.Context, db *gorm.DB, room *domain.Room) error

	// GetRoom fetches a room by ID or repo.ErrNotFound.
	GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.Room, error)

	// ListRooms returns all rooms (non-paginated).
	ListRooms(ctx context.Context, db *gorm.DB) ([]domain.Room, error)

	// CountRooms returns the total number of rooms for pagination.
	CountRooms(ctx context.Context, db *gorm.DB) (int64, error)

	// ListRoomsPage returns a page of rooms.
	ListRoomsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Room, error)

	// ReplaceRoom swaps the whole room document iff the stored version still
	// equals expectedVersion; repo.ErrVersionConflict otherwise.
	ReplaceRoom(ctx context.Context, db *gorm.DB, room *domain.Room, expectedVersion int64) error

	// DeleteRoom removes a room or returns repo.ErrNotFound.
	DeleteRoom(ctx context.Context, db *gorm.DB, id string) error
}

// DefaultCommitAttempts is the retry budget used when a Coordinator is built
// with a non-positive attempt count.
const DefaultCommitAttempts = 3

// Coordinator serializes read-modify-write cycles against a single room so
// concurrent bid submissions (or a bid racing a provisioning call) never
// silently clobber each other. It is safe for concurrent use.
type Coordinator struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the room repository used for load and conditional commit.
	Repo RoomRepo
	// MaxAttempts bounds the load/mutate/commit cycles per Execute call.
	MaxAttempts int
}

// NewCoordinator constructs a Coordinator with the default retry budget.
func NewCoordinator(db *gorm.DB, r RoomRepo) *Coordinator {
	return &Coordinator{DB: db, Repo: r, MaxAttempts: DefaultCommitAttempts}
}

// Execute loads the room, applies mutate to the loaded copy, and commits the
// result conditioned on the version observed at load time. When the commit
// loses the version race, the whole cycle runs again against fresh state, up
// to MaxAttempts times; after that ErrConcurrentModification surfaces.
//
// mutate must be a pure function of the room it receives: it may be invoked
// several times and must not keep references to a copy from an earlier
// attempt. An error from mutate aborts immediately without committing.
//
// Returns the committed room on success. Context cancellation between load
// and commit aborts the cycle; commits themselves are single atomic replaces,
// so an abandoned call never leaves a partially written document.
func (c *Coordinator) Execute(ctx context.Context, roomID string, mutate func(*domain.Room) error) (*domain.Room, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultCommitAttempts
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		room, err := c.Repo.GetRoom(ctx, c.DB, roomID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		loadedVersion := room.Version

		if err := mutate(room); err != nil {
			return nil, err
		}

		err = c.Repo.ReplaceRoom(ctx, c.DB, room, loadedVersion)
		if err == nil {
			return room, nil
		}
		if errors.Is(err, repo.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, repo.ErrNotFound) {
			// Room deleted between load and commit.
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return nil, ErrConcurrentModification
}
