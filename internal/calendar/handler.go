package calendar

import (
	"net/http"
	"strconv"
	"time"

	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MonthView returns the non-working days of a month.
// GET /api/v1/calendar?year=2026&month=9
func (h *Handler) MonthView(c *gin.Context) {
	now := time.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1970 || year > 2200 {
		httpkit.Error(c, http.StatusBadRequest, "invalid year", nil)
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		httpkit.Error(c, http.StatusBadRequest, "invalid month", nil)
		return
	}

	view, err := h.svc.MonthView(c.Request.Context(), year, month)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}
