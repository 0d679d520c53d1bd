package handlers

import (
	"net/http"

	"github.com/smashpoint/badminton-league/middleware"
	"github.com/smashpoint/badminton-league/services"
)

type StatsHandler struct {
	statsService     services.StatsService
	dashboardService services.DashboardService
}

func NewStatsHandler(statsService services.StatsService, dashboardService services.DashboardService) *StatsHandler {
	return &StatsHandler{
		statsService:     statsService,
		dashboardService: dashboardService,
	}
}

func (h *StatsHandler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.statsService.GetTeamStats(r.Context(), teamID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatsHandler) GetTeamDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dashboard, err := h.dashboardService.GetTeamDashboard(r.Context(), teamID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dashboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
