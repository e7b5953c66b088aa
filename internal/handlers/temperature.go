package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"smart_temperature/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errCreatePrediction = "failed to store prediction"
	errCreateReading    = "failed to store temperature data"
	errLoadLatest       = "failed to load latest record"
	errLoadList         = "failed to load records"

	maxErrMsgLen     = 200
	defaultLimit     = 100
	statusOK         = "ok"
	msgNoPrediction  = "no prediction found"
	msgNoReading     = "no temperature data found"
	msgControlsSaved = "manual controls saved successfully"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// isValidationErr reports whether err is a range/date rejection rather than
// an internal failure.
func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidDate) ||
		errors.Is(err, service.ErrLevelOutOfRange) ||
		errors.Is(err, service.ErrComfortOutOfRange)
}

// truncateErr keeps persisted-layer messages short enough for a payload,
// cutting on a rune boundary so multi-byte characters survive intact.
func truncateErr(err error) string {
	msg := err.Error()
	if len(msg) <= maxErrMsgLen {
		return msg
	}
	cut := maxErrMsgLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

func limitQuery(c *gin.Context) int {
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return defaultLimit
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// root is a small service banner for humans poking at the API.
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Smart Temperature System API",
		"docs":    "/swagger/index.html",
		"health":  "/health",
	})
}

// @Summary      Store an ML prediction
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body   service.PredictionInput  true  "Prediction payload"
// @Success      200   {object}  models.Prediction
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /temperature/prediction [post]
// @Security     BearerAuth
func (h *Handler) createPrediction(c *gin.Context) {
	var input service.PredictionInput
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	p, err := h.services.CreatePrediction(c.Request.Context(), input)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreatePrediction, "prediction_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Latest prediction
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  models.Prediction
// @Failure      404  {object}  map[string]string
// @Router       /temperature/prediction/latest [get]
// @Security     BearerAuth
func (h *Handler) latestPrediction(c *gin.Context) {
	p, err := h.services.LatestPrediction(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoPrediction) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNoPrediction})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLatest, "prediction_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List predictions
// @Tags         temperature
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 100)"
// @Success      200  {array}  models.Prediction
// @Router       /temperature/prediction/all [get]
// @Security     BearerAuth
func (h *Handler) listPredictions(c *gin.Context) {
	preds, err := h.services.ListPredictions(c.Request.Context(), limitQuery(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadList, "prediction_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, preds)
}

// @Summary      Store a sensor reading
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body   service.ReadingInput  true  "Reading payload"
// @Success      200   {object}  models.SensorReading
// @Failure      400   {object}  map[string]string
// @Router       /temperature/data [post]
// @Security     BearerAuth
func (h *Handler) createReading(c *gin.Context) {
	var input service.ReadingInput
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	r, err := h.services.CreateReading(c.Request.Context(), input)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateReading, "reading_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      Latest sensor reading
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  models.SensorReading
// @Failure      404  {object}  map[string]string
// @Router       /temperature/data/latest [get]
// @Security     BearerAuth
func (h *Handler) latestReading(c *gin.Context) {
	r, err := h.services.LatestReading(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoReading) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNoReading})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLatest, "reading_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      List sensor readings
// @Tags         temperature
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 100)"
// @Success      200  {array}  models.SensorReading
// @Router       /temperature/data/all [get]
// @Security     BearerAuth
func (h *Handler) listReadings(c *gin.Context) {
	readings, err := h.services.ListReadings(c.Request.Context(), limitQuery(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadList, "reading_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// @Summary      Dashboard payload
// @Description  Always returns 200; internal failures degrade to defaults plus a CRITICAL alert.
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  models.Dashboard
// @Router       /temperature/dashboard [get]
// @Security     BearerAuth
func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Compute(c.Request.Context()))
}

type comfortRequest struct {
	ComfortTemperature *float64 `json:"comfort_temperature" binding:"required"` // pointer so 0 binds
}

// @Summary      Set comfort temperature
// @Description  Upserts the comfort value into the current hour's prediction. Out-of-range values yield success=false, not an HTTP error.
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body   comfortRequest  true  "Comfort payload"
// @Success      200   {object}  map[string]interface{}
// @Router       /temperature/comfort [post]
// @Security     BearerAuth
func (h *Handler) setComfortTemperature(c *gin.Context) {
	var input comfortRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	_, err := h.services.SetComfortTemperature(c.Request.Context(), *input.ComfortTemperature)
	if err != nil {
		if errors.Is(err, service.ErrComfortOutOfRange) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		if h.log != nil {
			h.log.Errorw("comfort_save_failed", "err", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "failed to save comfort temperature",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "comfort temperature saved",
		"comfort_temperature": *input.ComfortTemperature,
	})
}

// @Summary      Current comfort temperature
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /temperature/comfort/current [get]
// @Security     BearerAuth
func (h *Handler) currentComfortTemperature(c *gin.Context) {
	comfort, err := h.services.ComfortTemperature(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLatest, "comfort_current_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comfort_temperature": comfort, // null when no prediction carries one
		"success":             true,
	})
}

// @Summary      Set manual heater/fan controls
// @Tags         temperature
// @Accept       json
// @Produce      json
// @Param        body  body   service.ManualControls  true  "Controls payload"
// @Success      200   {object}  map[string]interface{}
// @Router       /temperature/manual-control [post]
// @Security     BearerAuth
func (h *Handler) setManualControls(c *gin.Context) {
	var input service.ManualControls
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	if err := h.services.SetManualControls(c.Request.Context(), input); err != nil {
		if errors.Is(err, service.ErrLevelOutOfRange) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("manual_controls_save_failed", "err", err)
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "failed to save manual controls"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgControlsSaved})
}

// @Summary      Readings from the last 24 hours
// @Description  Never returns a 5xx: internal failures yield success=false with an empty series.
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, data, count"
// @Router       /temperature/24h/real [get]
// @Security     BearerAuth
func (h *Handler) last24hReadings(c *gin.Context) {
	data, err := h.services.ReadingsLast24h(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("readings_24h_failed", "err", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   truncateErr(err),
			"data":    []any{},
			"count":   0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// @Summary      Predictions for the next 24 hours
// @Description  Never returns a 5xx: internal failures yield success=false with an empty series.
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, data, count"
// @Router       /temperature/24h/predictions [get]
// @Security     BearerAuth
func (h *Handler) next24hPredictions(c *gin.Context) {
	data, err := h.services.PredictionsNext24h(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("predictions_24h_failed", "err", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   truncateErr(err),
			"data":    []any{},
			"count":   0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}
