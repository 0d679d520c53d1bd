package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/smashpoint/badminton-league/middleware"
	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/services"
)

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

func NewAvailabilityHandler(availabilityService services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// SetAvailability upserts the player's availability for a single date. The
// date comes in as "2006-01-02".
func (h *AvailabilityHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Date   string                    `json:"date"`
		Status models.AvailabilityStatus `json:"status"`
		Notes  *string                   `json:"notes,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		badRequestResponse(w, r, errors.New("date must be in YYYY-MM-DD format"))
		return
	}

	entry, err := h.availabilityService.SetAvailability(r.Context(), services.SetAvailabilityInput{
		PlayerID: playerID,
		Date:     date,
		Status:   input.Status,
		Notes:    input.Notes,
	}, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"availability": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AvailabilityHandler) ListPlayerAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.availabilityService.ListPlayerAvailability(r.Context(), playerID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"availability": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
