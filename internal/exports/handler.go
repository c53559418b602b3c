package exports

import (
	"encoding/csv"
	"net/http"
	"time"

	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Handler serves CSV export endpoints.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// exportWindow parses the optional from/to query params. The window defaults
// to the last 30 days and "to" is exclusive.
func exportWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", nil)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD", nil)
			return time.Time{}, time.Time{}, false
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		httpkit.Error(c, http.StatusBadRequest, "to must not be before from", nil)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
}

// ClientLeads streams the lead book as CSV.
// GET /api/v1/admin/exports/client-leads?status=Converted&from=2026-08-01&to=2026-08-31
func (h *Handler) ClientLeads(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !domain.ClientLeadStatus(status).Valid() {
		httpkit.Error(c, http.StatusBadRequest, "unknown status filter", nil)
		return
	}

	from, to, ok := exportWindow(c)
	if !ok {
		return
	}

	items, err := h.repo.ListClientLeadRows(c.Request.Context(), status, from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID.String(),
			item.Name,
			item.Phone,
			item.Email,
			deref(item.Source),
			item.Status,
			deref(item.ExecutiveUsername),
			deref(item.FollowUpStatus),
			item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeCSV(c, "client-leads.csv",
		[]string{"id", "name", "phone", "email", "source", "status", "executive", "follow_up_status", "created_at"},
		rows)
}

// ProcessedFinals streams finalized leads as CSV.
// GET /api/v1/admin/exports/processed-finals?from=2026-08-01
func (h *Handler) ProcessedFinals(c *gin.Context) {
	from, to, ok := exportWindow(c)
	if !ok {
		return
	}

	items, err := h.repo.ListProcessedFinalRows(c.Request.Context(), from, to)
	if httpkit.HandleError(c, err) {
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID.String(),
			item.FreshLeadID.String(),
			item.Name,
			item.Phone,
			item.Email,
			item.ProcessPersonID.String(),
			item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeCSV(c, "processed-finals.csv",
		[]string{"id", "fresh_lead_id", "name", "phone", "email", "process_person_id", "created_at"},
		rows)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
