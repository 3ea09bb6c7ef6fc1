package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"basegraph.app/issuesync/internal/http/dto"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	dispatcher   service.SyncDispatcher
	lookbackDays int
	now          func() time.Time
}

func NewSyncHandler(dispatcher service.SyncDispatcher, lookbackDays int) *SyncHandler {
	return &SyncHandler{
		dispatcher:   dispatcher,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// TriggerIssues enqueues an issue sync covering the last N days.
func (h *SyncHandler) TriggerIssues(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TriggerIssueSyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.WarnContext(ctx, "invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	days := h.lookbackDays
	if req.Days != nil {
		days = *req.Days
	}
	since := h.now().UTC().AddDate(0, 0, -days)

	runID, err := h.dispatcher.EnqueueIssueSync(ctx, since)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue issue sync", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue issue sync"})
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSyncEnqueuedResponse(runID, model.SyncKindIssues, &since))
}

func (h *SyncHandler) TriggerProjects(c *gin.Context) {
	ctx := c.Request.Context()

	runID, err := h.dispatcher.EnqueueProjectSync(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue project sync", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue project sync"})
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSyncEnqueuedResponse(runID, model.SyncKindProjects, nil))
}

func (h *SyncHandler) GetRun(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.dispatcher.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrSyncRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sync run not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get sync run", "error", err, "run_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get sync run"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncRunResponse(run))
}
