// Bid HTTP handler.
//
// This file exposes the bid submission endpoint:
//   - PATCH /rooms/{id}   (place a bid on one auction within the room)
//
// The handler is transport-thin:
//   - validate & normalize inputs
//   - delegate to the application service (BidService)
//   - implement idempotency semantics for safe retries
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// bid exists for (user, room, key), the handler returns the current room
// state without re-applying the increment rules and sets
// `Idempotency-Replayed: true`. A network retry of an accepted bid therefore
// never outbids itself.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tbourn/go-auction-backend/internal/auction"
	"github.com/tbourn/go-auction-backend/internal/http/middleware"
	"github.com/tbourn/go-auction-backend/internal/repo"
	"github.com/tbourn/go-auction-backend/internal/services"
)

var (
	// bidsTotal counts bid submissions by outcome. Outcomes are a small fixed
	// set (accepted, rejected, replayed, conflict) to keep cardinality bounded.
	bidsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_bids_total",
			Help: "Total number of bid submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(bidsTotal)
}

// BidRequest is the JSON payload for placing a bid. The auction is addressed
// by the (row_id, item_id) compound key because the same item may appear as
// several rows within one room.
type BidRequest struct {
	RowID      int    `json:"row_id" binding:"required" example:"1"`
	ItemID     int    `json:"item_id" binding:"required" example:"19019"`
	Bid        int    `json:"bid" binding:"required" example:"110"`
	BidderName string `json:"bidder_name" binding:"required" example:"alice"`
}

// PlaceBid godoc
// @ID          placeBid
// @Summary     Place a bid
// @Description Applies a bid to one auction in the room. A fresh auction accepts any amount at
// @Description or above its minimum price; an auction with a standing bid requires at least
// @Description bid + the room's minimum increment. On rejection the standing bid is untouched.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Bids
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Room ID (UUID)"  format(uuid)
// @Param       body             body    handlers.BidRequest  true  "Bid payload"
//
// @Success     200  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request / bid too low"
// @Failure     404  {object}  handlers.ErrorResponse  "Room or auction not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Auction not open / concurrent modification"
// @Router      /rooms/{id} [patch]
func (h *Handlers) PlaceBid(c *gin.Context) {
	ctx := c.Request.Context()
	id, valid := roomID(c)
	if !valid {
		return
	}

	var req BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "row_id, item_id, bid and bidder_name required")
		return
	}
	if req.Bid <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "bid must be positive")
		return
	}
	bidder := strings.TrimSpace(req.BidderName)
	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey == "" {
		idemKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}
	db := roomServiceDB(h.roomSvc)
	if idemKey != "" && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, currentUser, id, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if room, err2 := h.roomSvc.Get(ctx, id); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				bidsTotal.WithLabelValues("replayed").Inc()
				ok(c, http.StatusOK, room)
				return
			}
		}
	}

	room, err := h.bidSvc.Place(ctx, id, req.RowID, req.ItemID, req.Bid, bidder)
	if err != nil {
		var low *auction.BidTooLowError
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
		case errors.Is(err, auction.ErrAuctionNotFound):
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusNotFound, ErrCodeNotFound,
				fmt.Sprintf("no auction with row_id %d and item_id %d", req.RowID, req.ItemID))
		case errors.Is(err, auction.ErrAuctionNotOpen):
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusConflict, ErrCodeAuctionNotOpen, "auction is not open for bidding")
		case errors.As(err, &low):
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusBadRequest, ErrCodeBidTooLow, low.Error())
		case errors.Is(err, services.ErrEmptyBidderName):
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "bidder_name required")
		case errors.Is(err, services.ErrConcurrentModification):
			bidsTotal.WithLabelValues("conflict").Inc()
			fail(c, http.StatusConflict, ErrCodeConflict, "room was modified concurrently, retry the bid")
		default:
			bidsTotal.WithLabelValues("rejected").Inc()
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && db != nil {
		ttl := 24 * time.Hour
		_, _ = repo.CreateIdempotency(ctx, db, currentUser, id, idemKey, req.RowID, http.StatusOK, ttl)
	}

	bidsTotal.WithLabelValues("accepted").Inc()
	ok(c, http.StatusOK, room)
}

// userID extracts the calling user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// roomServiceDB inspects the concrete RoomService for its DB handle; the
// idempotency store is reached through it. Returns nil for fakes in tests.
func roomServiceDB(svc RoomService) *gorm.DB {
	if s, isConcrete := svc.(*services.RoomService); isConcrete {
		return s.DB
	}
	return nil
}
