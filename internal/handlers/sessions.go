package handlers

import (
	"errors"
	"net/http"

	"epoxy_monitor/internal/chart"
	"epoxy_monitor/internal/service"
	"epoxy_monitor/internal/tracker"

	"github.com/gin-gonic/gin"
)

const (
	statusOK     = "ok"
	statusOpened = "opened"
	statusClosed = "closed"

	errOpenSession     = "failed to open session"
	errCloseSession    = "failed to close session"
	errSessionNotFound = "session not found"
	errSessionAccess   = "failed to access session"
	errInvalidBodyPref = "invalid body: "

	svgContentType = "image/svg+xml"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// sessionError maps service errors of per-session operations to responses.
func (h *Handler) sessionError(c *gin.Context, logKey string, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errSessionAccess, logKey, err, "session_id", c.Param("id"))
}

// Time form payload. Each field accepts a number, form text or null.
type timeRequest struct {
	Hours   tracker.Number `json:"hours"`
	Minutes tracker.Number `json:"minutes"`
	Seconds tracker.Number `json:"seconds"`
}

type temperatureRequest struct {
	Temperature tracker.Number `json:"temperature"`
}

// SetTimeRequest is an exported model for Swagger docs of the time payload.
type SetTimeRequest struct {
	// Elapsed hours; non-numeric text is kept as NaN
	Hours string `json:"hours" example:"0"`
	// Elapsed minutes
	Minutes string `json:"minutes" example:"16"`
	// Elapsed seconds
	Seconds string `json:"seconds" example:"0"`
}

// SetTemperatureRequest is an exported model for Swagger docs of the temperature payload.
type SetTemperatureRequest struct {
	// Temperature in Celsius
	Temperature string `json:"temperature" example:"75"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Open monitoring session
// @Description  Creates a tracker with zero time, zero temperature and an empty trend chart
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "status, session_id, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions [post]
// @Security     BearerAuth
func (h *Handler) openSession(c *gin.Context) {
	id, snap, err := h.services.Sessions.Open(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errOpenSession, "session_open_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("session_opened", "session_id", id)
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":     statusOpened,
		"session_id": id,
		"state":      snap,
	})
}

// @Summary      Close monitoring session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [delete]
// @Security     BearerAuth
func (h *Handler) closeSession(c *gin.Context) {
	err := h.services.Sessions.Close(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
		return
	}
	if err != nil {
		// the tracker is already discarded, only the event log failed
		h.logAndJSONError(c, http.StatusInternalServerError, errCloseSession, "session_close_failed", err, "session_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusClosed})
}

// @Summary      Get session state
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  tracker.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	snap, err := h.services.Sessions.GetState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "session_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Set elapsed time
// @Description  Fields are parsed like integer form input; invalid text is stored as NaN (null)
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path   string          true  "Session ID"
// @Param        body  body   SetTimeRequest  true  "Time payload"
// @Success      200   {object}  tracker.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/time [put]
// @Security     BearerAuth
func (h *Handler) setElapsedTime(c *gin.Context) {
	var req timeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	snap, err := h.services.Sessions.SetElapsedTime(c.Request.Context(), c.Param("id"), service.TimeParams{
		Hours:   req.Hours,
		Minutes: req.Minutes,
		Seconds: req.Seconds,
	})
	if err != nil {
		h.sessionError(c, "session_set_time_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Set temperature
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path   string                 true  "Session ID"
// @Param        body  body   SetTemperatureRequest  true  "Temperature payload"
// @Success      200   {object}  tracker.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/temperature [put]
// @Security     BearerAuth
func (h *Handler) setTemperature(c *gin.Context) {
	var req temperatureRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	snap, err := h.services.Sessions.SetTemperature(c.Request.Context(), c.Param("id"), req.Temperature)
	if err != nil {
		h.sessionError(c, "session_set_temperature_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Update epoxy
// @Description  Evaluates the 15–20 minute range notification, then records a sample on the trend chart
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  tracker.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/update [post]
// @Security     BearerAuth
func (h *Handler) updateEpoxy(c *gin.Context) {
	snap, err := h.services.Sessions.Update(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "session_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Get trend chart data
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  tracker.ChartData
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/chart [get]
// @Security     BearerAuth
func (h *Handler) getChart(c *gin.Context) {
	snap, err := h.services.Sessions.GetState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "session_get_chart_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap.Chart)
}

// @Summary      Render trend chart
// @Tags         sessions
// @Produce      image/svg+xml
// @Param        id   path      string  true  "Session ID"
// @Success      200  {string}  string  "SVG document"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/chart.svg [get]
// @Security     BearerAuth
func (h *Handler) getChartSVG(c *gin.Context) {
	snap, err := h.services.Sessions.GetState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sessionError(c, "session_get_chart_failed", err)
		return
	}
	c.Data(http.StatusOK, svgContentType, chart.RenderSVG(snap.Chart))
}
