package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/config"
	"rideshare/internal/domain/entities"
	"rideshare/internal/services"
)

type RideHandler struct {
	bookingService  *services.BookingService
	matchingService *services.MatchingService
	paging          config.MatchingConfig
}

func NewRideHandler(
	bookingService *services.BookingService,
	matchingService *services.MatchingService,
	paging config.MatchingConfig,
) *RideHandler {
	return &RideHandler{
		bookingService:  bookingService,
		matchingService: matchingService,
		paging:          paging,
	}
}

// PostRideRequest is the body of POST /rides. Fields are checked by the
// booking service so that every rejection carries a validation kind.
type PostRideRequest struct {
	Role         entities.Role `json:"role"`
	Pickup       string        `json:"pickup"`
	Destination  string        `json:"destination"`
	ScheduledAt  string        `json:"scheduled_at"`
	Seats        int           `json:"seats"`
	Restrictions string        `json:"restrictions"`
}

// PostRide handles POST /rides
func (h *RideHandler) PostRide(c *gin.Context) {
	var req PostRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ride, err := h.bookingService.PostRide(c.Request.Context(), entities.PostingIntent{
		Role:         req.Role,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		ScheduledAt:  req.ScheduledAt,
		Seats:        req.Seats,
		Restrictions: req.Restrictions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ride)
}

type SearchQuery struct {
	Pickup           string `form:"pickup"`
	Destination      string `form:"destination"`
	Role             string `form:"role"`
	Offset           int    `form:"offset"`
	Limit            int    `form:"limit" binding:"gte=0"`
	IncludeCancelled bool   `form:"include_cancelled"`
}

type SearchResponse struct {
	Rides []entities.RideRecord `json:"rides"`
	Page  services.PageInfo     `json:"page"`
}

// SearchRides handles GET /rides/search. Cancelled records are left out
// unless include_cancelled=true.
func (h *RideHandler) SearchRides(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := q.Limit
	if limit == 0 {
		limit = h.paging.DefaultPageSize
	}
	limit = min(limit, h.paging.MaxPageSize)

	set, err := h.matchingService.FindMatches(c.Request.Context(), services.SearchIntent{
		Pickup:      q.Pickup,
		Destination: q.Destination,
		Role:        entities.Role(q.Role),
		ActiveOnly:  !q.IncludeCancelled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Rides: set.Page(q.Offset, limit),
		Page:  set.PageInfo(q.Offset, limit),
	})
}

// GetRide handles GET /rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.bookingService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ride)
}

// ListMine handles GET /rides/mine
func (h *RideHandler) ListMine(c *gin.Context) {
	rides, err := h.bookingService.ListMine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

type ConfirmBookingRequest struct {
	PassengerRideID string `json:"passenger_ride_id" binding:"required"`
}

// ConfirmBooking handles PATCH /rides/:id/confirm, where :id is the driver's
// offer.
func (h *RideHandler) ConfirmBooking(c *gin.Context) {
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bookingService.ConfirmBooking(c.Request.Context(), c.Param("id"), req.PassengerRideID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelRide handles PATCH /rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.bookingService.CancelRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ride)
}
