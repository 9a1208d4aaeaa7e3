package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wattfeed/internal/logger"
	"wattfeed/internal/models"
	"wattfeed/internal/repository"
)

// RunsHandler serves the provider run log
type RunsHandler struct {
	runs repository.RunLogRepository
	log  *logger.Entry
}

// NewRunsHandler creates a new RunsHandler
func NewRunsHandler(runs repository.RunLogRepository) *RunsHandler {
	return &RunsHandler{
		runs: runs,
		log:  logger.GetLogger().WithComponent("api"),
	}
}

// ListRuns godoc
// @Summary List provider runs
// @Description Newest runs first
// @Tags providers
// @Produce json
// @Param provider query string false "Comma separated provider names"
// @Param status query string false "success or failed"
// @Param since query string false "RFC 3339 start time lower bound"
// @Param limit query integer false "Runs per page (1-100)"
// @Param offset query integer false "Runs to skip"
// @Success 200 {array} models.RunLog
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /runs [get]
func (h *RunsHandler) ListRuns(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	filter := repository.RunLogFilter{Limit: &limit, Offset: &offset}

	if names := c.Query("provider"); names != "" {
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Providers = append(filter.Providers, name)
			}
		}
	}

	if status := c.Query("status"); status != "" {
		s := models.RunStatus(status)
		if s != models.RunSucceeded && s != models.RunFailed {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid status"})
			return
		}
		filter.Status = &s
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid since, expected RFC 3339"})
			return
		}
		t = t.UTC()
		filter.StartedAfter = &t
	}

	runs, err := h.runs.List(c.Request.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
