package handlers

import (
	"net/http"
	"strconv"

	"salonai/services/calendar"
	"salonai/services/reminder"
	"salonai/services/schedule"
	"salonai/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the operational endpoints behind the admin token.
type AdminHandler struct {
	Availability schedule.AvailabilityEngine
	Calendar     calendar.Gateway
	Reminders    *reminder.Service
}

func NewAdminHandler(availability schedule.AvailabilityEngine, cal calendar.Gateway, reminders *reminder.Service) *AdminHandler {
	return &AdminHandler{Availability: availability, Calendar: cal, Reminders: reminders}
}

// GetAvailability handles GET /api/admin/availability?date=YYYY-MM-DD&minutes=N.
func (h *AdminHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required", "")
		return
	}
	minutes := 1
	if raw := c.Query("minutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.JSONError(c, http.StatusBadRequest, "minutes must be a positive integer", "")
			return
		}
		minutes = parsed
	}

	slots, err := h.Availability.ComputeFreeSlots(c.Request.Context(), date, minutes, c.Query("excludeReservationId"))
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to compute availability", err.Error())
		return
	}

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label())
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "minutes": minutes, "slots": labels})
}

// ListReservations handles GET /api/admin/reservations?date=YYYY-MM-DD.
func (h *AdminHandler) ListReservations(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required", "")
		return
	}
	reservations, err := h.Calendar.ListReservationsForDate(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to list reservations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "reservations": reservations})
}

// RunReminders handles POST /api/admin/reminders/run, triggering the daily
// reminder enqueue outside its schedule.
func (h *AdminHandler) RunReminders(c *gin.Context) {
	enqueued, total, err := h.Reminders.EnqueueDailyReminders(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to enqueue reminders", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"enqueued": enqueued, "total": total})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
