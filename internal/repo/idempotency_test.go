package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

func TestIdempotency_CreateThenGet(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "room-1", "k1", 3, 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.RowID != 3 || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "room-1", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("got %q, want %q", got.ID, rec.ID)
	}
}

func TestIdempotency_DuplicateKey(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "room-1", "k1", 1, 200, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "room-1", "k1", 1, 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key in a different room is a different operation.
	if _, err := CreateIdempotency(ctx, db, "u1", "room-2", "k1", 1, 200, time.Hour); err != nil {
		t.Fatalf("other room: %v", err)
	}
}

func TestIdempotency_ExpiredRecordIsInvisible(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "room-1", "k1", 1, 200, time.Nanosecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := GetIdempotency(ctx, db, "u1", "room-1", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}
}

func TestIdempotency_BlankRoomID(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	if _, err := GetIdempotency(context.Background(), db, "u1", "  ", "k1", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank room id, got %v", err)
	}
}

func TestRoomsStats(t *testing.T) {
	db := newRepoDB(t, &domain.Room{})
	ctx := context.Background()

	count, maxTS, err := RoomsStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats = (%d, %v, %v)", count, maxTS, err)
	}

	for i := 0; i < 3; i++ {
		if err := CreateRoom(ctx, db, newRoom()); err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
	}

	count, maxTS, err = RoomsStats(ctx, db)
	if err != nil {
		t.Fatalf("RoomsStats: %v", err)
	}
	if count != 3 || maxTS == nil {
		t.Fatalf("stats = (%d, %v), want (3, non-nil)", count, maxTS)
	}
}
