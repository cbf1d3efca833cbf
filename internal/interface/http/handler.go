package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mannadev/scriptura/internal/domain/devotion"
	"github.com/mannadev/scriptura/internal/domain/readingplan"
	"github.com/mannadev/scriptura/internal/domain/versechat"
	apperrors "github.com/mannadev/scriptura/pkg/errors"
)

const dateLayout = "2006-01-02"

// Handler wires the HTTP transport to the domain services.
type Handler struct {
	planSvc      readingplan.Service
	devotionSvc  *devotion.Service
	verseChatSvc versechat.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(planSvc readingplan.Service, devotionSvc *devotion.Service, verseChatSvc versechat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		planSvc:      planSvc,
		devotionSvc:  devotionSvc,
		verseChatSvc: verseChatSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

type createPlanRequest struct {
	Name      string `json:"name"`
	PlanType  string `json:"planType" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// CreatePlan generates and persists a reading plan.
func (h *Handler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "startDate must be YYYY-MM-DD", err))
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "endDate must be YYYY-MM-DD", err))
		return
	}

	plan, err := h.planSvc.Create(c.Request.Context(), readingplan.CreateRequest{
		Name:      req.Name,
		PlanType:  readingplan.PlanType(req.PlanType),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns every stored plan.
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.planSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetPlan returns one plan and its progress.
func (h *Handler) GetPlan(c *gin.Context) {
	plan, progress, err := h.planSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan, "progress": progress})
}

// TodayReading returns the reading scheduled for the current day.
func (h *Handler) TodayReading(c *gin.Context) {
	today, err := h.planSvc.TodayReading(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusOK, today)
}

type progressRequest struct {
	Day int `json:"day" binding:"required"`
}

// MarkDayComplete records a finished reading day.
func (h *Handler) MarkDayComplete(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	progress, err := h.planSvc.MarkDayComplete(c.Request.Context(), c.Param("id"), req.Day)
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusOK, progress)
}

// TodaysDevotion serves the devotion mapped from the calendar day.
func (h *Handler) TodaysDevotion(c *gin.Context) {
	record := h.devotionSvc.TodaysDevotion(c.Request.Context())
	if record == nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "devotion_not_found", "no devotion available today", nil))
		return
	}
	c.JSON(http.StatusOK, record)
}

// DevotionForDay serves the devotion for an explicit day.
func (h *Handler) DevotionForDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "day must be an integer", err))
		return
	}
	record := h.devotionSvc.DevotionForDay(c.Request.Context(), day)
	if record == nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "devotion_not_found", "no devotion for that day", nil))
		return
	}
	c.JSON(http.StatusOK, record)
}

// SearchDevotions filters devotions by keyword.
func (h *Handler) SearchDevotions(c *gin.Context) {
	keyword := c.Query("search")
	if keyword == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "search query parameter is required", nil))
		return
	}
	matches := h.devotionSvc.Search(c.Request.Context(), keyword)
	c.JSON(http.StatusOK, gin.H{"devotions": matches})
}

// RefreshDevotions clears the cache and reloads from the content store.
func (h *Handler) RefreshDevotions(c *gin.Context) {
	if !h.devotionSvc.Refresh(c.Request.Context()) {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "source_unavailable", "devotional source could not be reloaded", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}

// VerseChat answers a scripture question.
func (h *Handler) VerseChat(c *gin.Context) {
	var req versechat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.verseChatSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "versechat_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "llm_error"):
			status = http.StatusBadGateway
			code = "llm_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TrendingQuestions returns the most asked scripture questions.
func (h *Handler) TrendingQuestions(c *gin.Context) {
	items, err := h.verseChatSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "versechat_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

func planError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "plan_failed"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "plan_not_found"):
		status = http.StatusNotFound
		code = "plan_not_found"
	case apperrors.IsCode(err, "reading_not_found"):
		status = http.StatusNotFound
		code = "reading_not_found"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
