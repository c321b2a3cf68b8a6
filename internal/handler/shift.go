package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shiftride/internal/domain"
	"shiftride/internal/service"
)

// ShiftHandler handles HTTP requests for shifts.
type ShiftHandler struct {
	shiftService *service.ShiftService
	pathService  *service.PathService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(shiftService *service.ShiftService, pathService *service.PathService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService, pathService: pathService}
}

// CreateShiftRequest is the HTTP request body for opening a shift.
type CreateShiftRequest struct {
	DriverID             string    `json:"driver_id"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	StartLat             float64   `json:"start_lat"`
	StartLng             float64   `json:"start_lng"`
	StartingPositionName string    `json:"starting_position_name"`
}

// CheckpointResponse is one stop in a shift response.
type CheckpointResponse struct {
	ID           string  `json:"id"`
	HopType      string  `json:"hop_type"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	PositionName string  `json:"position_name"`
	Time         string  `json:"time"`
	TripID       string  `json:"trip_id"`
	RiderID      string  `json:"rider_id"`
}

// ShiftResponse is the HTTP response for shift operations.
type ShiftResponse struct {
	ID                   string               `json:"id"`
	DriverID             string               `json:"driver_id"`
	Start                string               `json:"start"`
	End                  string               `json:"end"`
	StartLat             float64              `json:"start_lat"`
	StartLng             float64              `json:"start_lng"`
	StartingPositionName string               `json:"starting_position_name"`
	Checkpoints          []CheckpointResponse `json:"checkpoints"`
}

func toShiftResponse(shift *domain.Shift) ShiftResponse {
	checkpoints := make([]CheckpointResponse, 0, len(shift.Checkpoints))
	for _, cp := range shift.Checkpoints {
		checkpoints = append(checkpoints, CheckpointResponse{
			ID:           cp.ID,
			HopType:      string(cp.HopType),
			Lat:          cp.Lat,
			Lng:          cp.Lng,
			PositionName: cp.PositionName,
			Time:         cp.Time.Format(time.RFC3339),
			TripID:       cp.TripID,
			RiderID:      cp.RiderID,
		})
	}

	return ShiftResponse{
		ID:                   shift.ID,
		DriverID:             shift.DriverID,
		Start:                shift.Start.Format(time.RFC3339),
		End:                  shift.End.Format(time.RFC3339),
		StartLat:             shift.StartLat,
		StartLng:             shift.StartLng,
		StartingPositionName: shift.StartingPositionName,
		Checkpoints:          checkpoints,
	}
}

// CreateShift handles POST /v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	shift, err := h.shiftService.CreateShift(c.Request.Context(), service.CreateShiftRequest{
		DriverID:             req.DriverID,
		Start:                req.Start,
		End:                  req.End,
		StartLat:             req.StartLat,
		StartLng:             req.StartLng,
		StartingPositionName: req.StartingPositionName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toShiftResponse(shift))
}

// GetShift handles GET /v1/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	shift, err := h.shiftService.GetShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toShiftResponse(shift))
}

// GetAll handles GET /v1/shifts
func (h *ShiftHandler) GetAll(c *gin.Context) {
	driverID := c.Query("driver_id")

	var (
		shifts []*domain.Shift
		err    error
	)
	if driverID != "" {
		shifts, err = h.shiftService.GetShiftsByDriver(c.Request.Context(), driverID)
	} else {
		shifts, err = h.shiftService.GetAllShifts(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		response = append(response, toShiftResponse(shift))
	}

	c.JSON(http.StatusOK, response)
}

// CalculatePath handles POST /v1/shifts/:id/path
func (h *ShiftHandler) CalculatePath(c *gin.Context) {
	shift, err := h.pathService.CalculatePath(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toShiftResponse(shift))
}
