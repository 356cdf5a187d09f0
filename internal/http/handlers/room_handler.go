// Room HTTP handlers.
//
// This file exposes REST endpoints for auction rooms:
//   - GET    /rooms              (list, paginated, ETag support)
//   - POST   /rooms/create       (create from a namespace)
//   - POST   /rooms              (create from a full document)
//   - GET    /rooms/{id}         (fetch)
//   - PUT    /rooms/{id}         (replace room document)
//   - PUT    /rooms/{id}/items   (replace the auction list, bulk provisioning)
//   - PATCH  /rooms/{id}/start   (open bidding)
//   - DELETE /rooms/{id}         (delete)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-auction-backend/internal/auction"
	"github.com/tbourn/go-auction-backend/internal/domain"
	"github.com/tbourn/go-auction-backend/internal/repo"
	"github.com/tbourn/go-auction-backend/internal/services"
	"github.com/tbourn/go-auction-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RoomService defines room lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RoomService interface {
	// Create starts a new room bound to a catalog namespace.
	Create(ctx context.Context, ns domain.Namespace) (*domain.Room, error)
	// CreateFromDocument persists a caller-supplied room document.
	CreateFromDocument(ctx context.Context, doc *domain.Room) (*domain.Room, error)
	// Get fetches a room by ID.
	Get(ctx context.Context, id string) (*domain.Room, error)
	// ListPage returns a page of rooms and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Room, int64, error)
	// Replace swaps the stored room document, keeping ID and namespace fixed.
	Replace(ctx context.Context, id string, doc *domain.Room) (*domain.Room, error)
	// ReplaceAuctions provisions a fresh auction list from item rows.
	ReplaceAuctions(ctx context.Context, id string, items []auction.ProvisionItem) (*domain.Room, error)
	// Start opens every pending auction in the room.
	Start(ctx context.Context, id string) (*domain.Room, error)
	// Delete removes a room.
	Delete(ctx context.Context, id string) error
}

// BidService defines bid submission as consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BidService interface {
	// Place applies a bid to the auction keyed by (rowID, itemID) in a room.
	Place(ctx context.Context, roomID string, rowID, itemID, amount int, bidderName string) (*domain.Room, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for rooms and bids.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	roomSvc RoomService
	bidSvc  BidService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(roomSvc RoomService, bidSvc BidService) *Handlers {
	return &Handlers{roomSvc: roomSvc, bidSvc: bidSvc}
}

//
// DTOs
//

// CreateRoomRequest is the JSON payload for creating a room from a namespace.
type CreateRoomRequest struct {
	// Namespace selects the catalog partition (era, progression, retail).
	Namespace string `json:"namespace" example:"era"`
}

// RoomDocumentRequest is the JSON payload for the power-user create and
// replace paths. Zero-valued bidding rules fall back to server defaults on
// create; on replace all three must be positive.
type RoomDocumentRequest struct {
	Namespace            string           `json:"namespace" example:"era"`
	MinimumBid           int              `json:"minimum_bid" example:"50"`
	MinimumBidIncrement  int              `json:"minimum_bid_increment" example:"10"`
	BidDurationInSeconds int              `json:"bid_duration_in_seconds" example:"3600"`
	Auctions             []domain.Auction `json:"auctions"`
}

// ReplaceItemsRequest is the JSON payload for bulk auction provisioning.
type ReplaceItemsRequest struct {
	// Items lists the item rows to provision; the same item may repeat.
	Items []auction.ProvisionItem `json:"items" binding:"required"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListRoomsResponse wraps a page of rooms and pagination information.
type ListRoomsResponse struct {
	Rooms      []domain.Room `json:"rooms"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// roomID validates the :id path param as a UUID, failing the request itself
// when it is malformed. The second return value reports validity.
func roomID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room id must be a UUID")
		return "", false
	}
	return id, true
}

// namespaceMessage lists the accepted namespace values for error responses.
func namespaceMessage() string {
	vals := domain.Namespaces()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return "namespace must be one of: " + strings.Join(parts, ", ")
}

// failRoomErr translates shared room-mutation failures (lookup, concurrency)
// into HTTP responses; it returns false when err was not handled so the
// caller can map its operation-specific cases.
func failRoomErr(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
	case errors.Is(err, services.ErrConcurrentModification):
		fail(c, http.StatusConflict, ErrCodeConflict, "room was modified concurrently, retry the request")
	default:
		return false
	}
	return true
}

//
// Handlers
//

// CreateRoom godoc
// @ID          createRoom
// @Summary     Create a room from a namespace
// @Description Creates a room bound to a catalog namespace with default bidding rules and no auctions.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       namespace  query   string  false "Catalog namespace"  Enums(era, progression, retail)
// @Param       body       body    handlers.CreateRoomRequest  false  "Create room payload (alternative to the query param)"
//
// @Success     201  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid namespace"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rooms/create [post]
func (h *Handlers) CreateRoom(c *gin.Context) {
	ns := strings.TrimSpace(c.Query("namespace"))
	if ns == "" {
		var req CreateRoomRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			ns = strings.TrimSpace(req.Namespace)
		}
	}

	room, err := h.roomSvc.Create(c.Request.Context(), domain.Namespace(ns))
	if err != nil {
		if errors.Is(err, services.ErrInvalidNamespace) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidNamespace, namespaceMessage())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, room)
}

// CreateRoomFull godoc
// @ID          createRoomFull
// @Summary     Create a room from a full document
// @Description Persists a caller-supplied room document. The server always assigns a fresh ID;
// @Description missing bidding rules fall back to server defaults.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RoomDocumentRequest  true  "Room document"
//
// @Success     201  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rooms [post]
func (h *Handlers) CreateRoomFull(c *gin.Context) {
	var req RoomDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	room, err := h.roomSvc.CreateFromDocument(c.Request.Context(), &domain.Room{
		Namespace:            domain.Namespace(strings.TrimSpace(req.Namespace)),
		MinimumBid:           req.MinimumBid,
		MinimumBidIncrement:  req.MinimumBidIncrement,
		BidDurationInSeconds: req.BidDurationInSeconds,
		Auctions:             req.Auctions,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNamespace):
			fail(c, http.StatusBadRequest, ErrCodeInvalidNamespace, namespaceMessage())
		case errors.Is(err, services.ErrInvalidRoomDocument):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid room document: bid and bidder_name must be paired")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, room)
}

// GetRoom godoc
// @ID          getRoom
// @Summary     Fetch a room
// @Description Returns a single room with its full auction list.
// @Tags        Rooms
// @Produce     json
//
// @Param       id  path  string  true  "Room ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Router      /rooms/{id} [get]
func (h *Handlers) GetRoom(c *gin.Context) {
	id, valid := roomID(c)
	if !valid {
		return
	}

	room, err := h.roomSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, room)
}

// ListRooms godoc
// @ID          listRooms
// @Summary     List rooms (paginated)
// @Description Returns a page of rooms. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Rooms
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRoomsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms [get]
func (h *Handlers) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.roomSvc.(*services.RoomService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.RoomsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"rooms:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.roomSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListRoomsResponse{
		Rooms: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ReplaceRoom godoc
// @ID          replaceRoom
// @Summary     Replace a room document
// @Description Swaps the bidding rules and (optionally) the auction list of an existing room.
// @Description The room's ID and namespace never change.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Room ID (UUID)"  format(uuid)
// @Param       body  body  handlers.RoomDocumentRequest  true  "Replacement document"
//
// @Success     200  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Concurrent modification"
// @Router      /rooms/{id} [put]
func (h *Handlers) ReplaceRoom(c *gin.Context) {
	id, valid := roomID(c)
	if !valid {
		return
	}

	var req RoomDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	room, err := h.roomSvc.Replace(c.Request.Context(), id, &domain.Room{
		MinimumBid:           req.MinimumBid,
		MinimumBidIncrement:  req.MinimumBidIncrement,
		BidDurationInSeconds: req.BidDurationInSeconds,
		Auctions:             req.Auctions,
	})
	if err != nil {
		if failRoomErr(c, err) {
			return
		}
		if errors.Is(err, services.ErrInvalidRoomDocument) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid room document: positive bidding rules and paired bid/bidder_name required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, room)
}

// ReplaceItems godoc
// @ID          replaceItems
// @Summary     Replace the auction list
// @Description Provisions a fresh auction list from the given item rows. Each row is enriched
// @Description with catalog metadata; a failed lookup aborts the whole call and the stored
// @Description list stays unchanged.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Room ID (UUID)"  format(uuid)
// @Param       body  body  handlers.ReplaceItemsRequest  true  "Item rows to provision"
//
// @Success     200  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Concurrent modification"
// @Failure     502  {object}  handlers.ErrorResponse  "Catalog unavailable"
// @Router      /rooms/{id}/items [put]
func (h *Handlers) ReplaceItems(c *gin.Context) {
	id, valid := roomID(c)
	if !valid {
		return
	}

	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "items required")
		return
	}

	room, err := h.roomSvc.ReplaceAuctions(c.Request.Context(), id, req.Items)
	if err != nil {
		if failRoomErr(c, err) {
			return
		}
		var cerr *auction.CatalogError
		if errors.As(err, &cerr) {
			fail(c, http.StatusBadGateway, ErrCodeCatalogUnavailable,
				fmt.Sprintf("item %d could not be resolved from the catalog", cerr.ItemID))
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, room)
}

// StartRoom godoc
// @ID          startRoom
// @Summary     Start bidding
// @Description Opens every pending auction in the room and stamps a shared expiration of
// @Description now + bid_duration_in_seconds. Repeating the call only affects auctions that
// @Description are still pending.
// @Tags        Rooms
// @Produce     json
//
// @Param       id  path  string  true  "Room ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Room has no auctions"
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Concurrent modification"
// @Router      /rooms/{id}/start [patch]
func (h *Handlers) StartRoom(c *gin.Context) {
	id, valid := roomID(c)
	if !valid {
		return
	}

	room, err := h.roomSvc.Start(c.Request.Context(), id)
	if err != nil {
		if failRoomErr(c, err) {
			return
		}
		if errors.Is(err, auction.ErrNoAuctions) {
			fail(c, http.StatusBadRequest, ErrCodeRoomEmpty, "room has no auctions to start")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, room)
}

// DeleteRoom godoc
// @ID          deleteRoom
// @Summary     Delete a room
// @Description Removes a room and everything in it.
// @Tags        Rooms
//
// @Param       id  path  string  true  "Room ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Router      /rooms/{id} [delete]
func (h *Handlers) DeleteRoom(c *gin.Context) {
	id, valid := roomID(c)
	if !valid {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "room not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
