package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shiftride/internal/domain"
	"shiftride/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for scheduling a trip.
type CreateTripRequest struct {
	RiderID             string    `json:"rider_id"`
	FromLat             float64   `json:"from_lat"`
	FromLng             float64   `json:"from_lng"`
	FromName            string    `json:"from_name"`
	ToLat               float64   `json:"to_lat"`
	ToLng               float64   `json:"to_lng"`
	ToName              string    `json:"to_name"`
	InitialAvailability time.Time `json:"initial_availability"`
	EndAvailability     time.Time `json:"end_availability"`
	Arrival             time.Time `json:"arrival"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID                  string `json:"id"`
	RiderID             string `json:"rider_id"`
	FromLat             float64 `json:"from_lat"`
	FromLng             float64 `json:"from_lng"`
	FromName            string `json:"from_name"`
	ToLat               float64 `json:"to_lat"`
	ToLng               float64 `json:"to_lng"`
	ToName              string `json:"to_name"`
	InitialAvailability string `json:"initial_availability"`
	EndAvailability     string `json:"end_availability"`
	Arrival             string `json:"arrival"`
	ShiftID             string `json:"shift_id,omitempty"`
	ConfirmedPickup     string `json:"confirmed_pickup,omitempty"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	response := TripResponse{
		ID:                  trip.ID,
		RiderID:             trip.RiderID,
		FromLat:             trip.FromLat,
		FromLng:             trip.FromLng,
		FromName:            trip.FromName,
		ToLat:               trip.ToLat,
		ToLng:               trip.ToLng,
		ToName:              trip.ToName,
		InitialAvailability: trip.InitialAvailability.Format(time.RFC3339),
		EndAvailability:     trip.EndAvailability.Format(time.RFC3339),
		Arrival:             trip.Arrival.Format(time.RFC3339),
		ShiftID:             trip.ShiftID,
	}
	if !trip.ConfirmedPickup.IsZero() {
		response.ConfirmedPickup = trip.ConfirmedPickup.Format(time.RFC3339)
	}
	return response
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		RiderID:             req.RiderID,
		FromLat:             req.FromLat,
		FromLng:             req.FromLng,
		FromName:            req.FromName,
		ToLat:               req.ToLat,
		ToLng:               req.ToLng,
		ToName:              req.ToName,
		InitialAvailability: req.InitialAvailability,
		EndAvailability:     req.EndAvailability,
		Arrival:             req.Arrival,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	riderID := c.Query("rider_id")

	var (
		trips []*domain.Trip
		err   error
	)
	if riderID != "" {
		trips, err = h.tripService.GetTripsByRider(c.Request.Context(), riderID)
	} else {
		trips, err = h.tripService.GetAllTrips(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	c.JSON(http.StatusOK, response)
}
