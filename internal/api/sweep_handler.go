package api

import (
	"context"
	"net/http"

	"ptrainer/backend/internal/sweeper"

	"github.com/gin-gonic/gin"
)

// SweepRunner runs one membership status sweep.
type SweepRunner interface {
	RunOnce(ctx context.Context) (sweeper.Report, error)
}

type SweepHandler struct {
	runner SweepRunner
}

func NewSweepHandler(runner SweepRunner) *SweepHandler {
	return &SweepHandler{runner: runner}
}

// RunSweep triggers a sweep outside the schedule and returns its report.
func (h *SweepHandler) RunSweep(c *gin.Context) {
	report, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Sweep failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}
