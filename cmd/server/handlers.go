package main

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/safestreets/livability-report/internal/errors"
	"github.com/safestreets/livability-report/internal/monitoring"
	"github.com/safestreets/livability-report/internal/ratelimit"
	"github.com/safestreets/livability-report/internal/render"
	"github.com/safestreets/livability-report/internal/report"
	"github.com/safestreets/livability-report/internal/session"
	"github.com/safestreets/livability-report/internal/storage"
)

type serverDeps struct {
	assembler *report.Assembler
	renderer  *render.Renderer
	sessions  *session.Store
	history   *storage.DB
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	limiter   *ratelimit.Limiter
}

// handleHealth godoc
// @Summary Health check
// @Description Returns service status and runtime counters
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (d *serverDeps) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": d.sessions.Len(),
		"stats":           d.metrics.GetStats(),
	})
}

// handleSubmitAnalysis godoc
// @Summary Submit an analysis bundle
// @Description Validates a five-domain analysis bundle and stores it under a new session ID
// @Accept json
// @Produce json
// @Param bundle body report.AnalysisBundle true "Analysis bundle"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /api/v1/analysis [post]
func (d *serverDeps) handleSubmitAnalysis(c *gin.Context) {
	var bundle report.AnalysisBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.Error(apperrors.NewValidationError("Invalid analysis bundle payload", err))
		return
	}

	if err := bundle.Validate(); err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}

	id := d.sessions.Put(&bundle)
	d.logger.SessionLogger("put", id, true, d.sessions.Len())

	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// handleRenderReport godoc
// @Summary Render a report directly from a bundle
// @Description Assembles and persists a full livability report without an intermediate session
// @Accept json
// @Produce json
// @Param bundle body report.AnalysisBundle true "Analysis bundle"
// @Success 200 {object} report.Report
// @Failure 400 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /api/v1/reports [post]
func (d *serverDeps) handleRenderReport(c *gin.Context) {
	var bundle report.AnalysisBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.Error(apperrors.NewValidationError("Invalid analysis bundle payload", err))
		return
	}

	rep, ok := d.renderBundle(c, &bundle, uuid.NewString())
	if !ok {
		return
	}

	c.JSON(http.StatusOK, rep)
}

// handleGetReport godoc
// @Summary Fetch a report by session or report ID
// @Description Renders a stored session's bundle, or returns a previously rendered report. Pass format=html for a print-ready document.
// @Produce json
// @Param id path string true "Session or report ID"
// @Param format query string false "Response format" Enums(json, html)
// @Success 200 {object} report.Report
// @Failure 404 {object} errors.AppError
// @Router /api/v1/reports/{id} [get]
func (d *serverDeps) handleGetReport(c *gin.Context) {
	id := c.Param("id")

	if bundle, ok := d.sessions.Get(id); ok {
		d.metrics.IncrementSessionHit()
		d.logger.SessionLogger("get", id, true, d.sessions.Len())

		rep, ok := d.renderBundle(c, bundle, id)
		if !ok {
			return
		}
		// A session renders once; afterwards the persisted report serves.
		d.sessions.Delete(id)

		d.respondReport(c, rep)
		return
	}

	d.metrics.IncrementSessionMiss()
	d.logger.SessionLogger("get", id, false, d.sessions.Len())

	rep, err := d.history.GetReport(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(apperrors.NewNotFoundError("report", id))
			return
		}
		c.Error(apperrors.NewInternalError("Failed to load report", err))
		return
	}

	d.respondReport(c, rep)
}

// handleHistory godoc
// @Summary List recent reports
// @Description Returns summaries of the most recently rendered reports
// @Produce json
// @Param limit query int false "Maximum number of rows" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/history [get]
func (d *serverDeps) handleHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.Error(apperrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = n
	}

	summaries, err := d.history.ListRecent(limit)
	if err != nil {
		c.Error(apperrors.NewInternalError("Failed to list reports", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": summaries,
		"count":   len(summaries),
	})
}

// renderBundle assembles a bundle into a persisted report. On failure it
// records the error on the context and reports false.
func (d *serverDeps) renderBundle(c *gin.Context, bundle *report.AnalysisBundle, id string) (*report.Report, bool) {
	start := time.Now()

	rep, err := d.assembler.Assemble(bundle)
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return nil, false
	}
	rep.ID = id

	d.metrics.RecordRender(time.Since(start))
	d.logger.RenderLogger(rep.ID, rep.Location.Label, rep.Composite.Score, rep.Composite.Band.Grade, time.Since(start))

	// History is display-only; a failed insert degrades to an unlisted
	// report rather than a failed render.
	if err := d.history.SaveReport(rep); err != nil {
		d.logger.Warn("Failed to persist report", "report_id", rep.ID, "error", err)
	}

	return rep, true
}

func (d *serverDeps) respondReport(c *gin.Context, rep *report.Report) {
	if c.Query("format") == "html" {
		var buf bytes.Buffer
		if err := d.renderer.Render(&buf, rep); err != nil {
			c.Error(apperrors.NewInternalError("Failed to render report document", err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, rep)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}
