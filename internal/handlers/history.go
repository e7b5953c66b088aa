package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"smart_temperature/internal/models"
	"smart_temperature/internal/service"

	"github.com/gin-gonic/gin"
)

type setModeRequest struct {
	Mode *int `json:"mode" binding:"required"` // pointer so MANUAL (0) binds
}

// dateFilterQuery parses the optional year/month/day query parameters.
// Returns false after writing a 400 when a value is not an integer.
func (h *Handler) dateFilterQuery(c *gin.Context) (models.DateFilter, bool) {
	var f models.DateFilter
	for _, q := range []struct {
		name string
		dst  **int
	}{
		{"year", &f.Year},
		{"month", &f.Month},
		{"day", &f.Day},
	} {
		s := c.Query(q.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid '" + q.name + "' parameter"})
			return models.DateFilter{}, false
		}
		*q.dst = &v
	}
	return f, true
}

// @Summary      Record a mode change
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        body  body   setModeRequest  true  "1 = AUTO, 0 = MANUAL"
// @Success      200   {object}  models.ModeEvent
// @Failure      400   {object}  map[string]string
// @Router       /history/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var input setModeRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	event, err := h.services.SetMode(c.Request.Context(), *input.Mode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to record mode change", "mode_set_failed", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// @Summary      Current operating mode
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "mode, mode_name"
// @Router       /history/mode/current [get]
// @Security     BearerAuth
func (h *Handler) currentMode(c *gin.Context) {
	mode, err := h.services.CurrentMode(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load current mode", "mode_current_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":      mode,
		"mode_name": models.ModeName(mode),
	})
}

// @Summary      Mode change history
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 100)"
// @Success      200  {array}  models.ModeEvent
// @Router       /history/mode/all [get]
// @Security     BearerAuth
func (h *Handler) modeHistory(c *gin.Context) {
	events, err := h.services.ModeHistory(c.Request.Context(), limitQuery(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load mode history", "mode_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// @Summary      Joined history report
// @Description  Readings outer-joined with predictions on the hour bucket, plus prediction and mode lists.
// @Tags         history
// @Produce      json
// @Param        year   query  int  false  "Filter by year"
// @Param        month  query  int  false  "Filter by month"
// @Param        day    query  int  false  "Filter by day"
// @Success      200  {object}  models.HistoryReport
// @Failure      400  {object}  map[string]string
// @Router       /history/all [get]
// @Security     BearerAuth
func (h *Handler) historyReport(c *gin.Context) {
	filter, ok := h.dateFilterQuery(c)
	if !ok {
		return
	}

	report, err := h.services.Report(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load history", "history_report_failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      ML-vs-real comparison series
// @Tags         history
// @Produce      json
// @Param        year   query  int  false  "Filter by year"
// @Param        month  query  int  false  "Filter by month"
// @Param        day    query  int  false  "Filter by day"
// @Success      200  {object}  models.ComparisonReport
// @Failure      400  {object}  map[string]string
// @Router       /history/comparison [get]
// @Security     BearerAuth
func (h *Handler) comparisonReport(c *gin.Context) {
	filter, ok := h.dateFilterQuery(c)
	if !ok {
		return
	}

	report, err := h.services.Comparison(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load comparison data", "history_comparison_failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
