package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"wattfeed/internal/models"
	"wattfeed/internal/provider"
)

// ProviderHandler handles provider-related requests
type ProviderHandler struct {
	manager *provider.Manager
	wg      sync.WaitGroup
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(manager *provider.Manager) *ProviderHandler {
	return &ProviderHandler{manager: manager}
}

// ListProviders godoc
// @Summary List providers
// @Tags providers
// @Produce json
// @Success 200 {array} models.ProviderInfo
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Info())
}

// RunProvider godoc
// @Summary Trigger a provider run (Admin only)
// @Description Queues one run of the named collector or the export. The run continues after the response.
// @Tags providers
// @Produce json
// @Security BearerAuth
// @Param name path string true "Provider name"
// @Success 202 {object} models.AcceptedResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Provider not found"
// @Failure 409 {object} models.ErrorResponse "Provider disabled or already running"
// @Router /providers/{name}/run [post]
func (h *ProviderHandler) RunProvider(c *gin.Context) {
	name := c.Param("name")

	// Claim the slot before answering so concurrent triggers get 409
	run, err := h.manager.TryStart(name)
	switch {
	case errors.Is(err, provider.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Provider not found"})
		return
	case errors.Is(err, provider.ErrProviderDisabled):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Provider is disabled"})
		return
	case errors.Is(err, provider.ErrProviderBusy):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Provider is already running"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to resolve provider"})
		return
	}

	// The request context ends with the response; the run must outlive it
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		// errors are logged by the manager
		_, _ = run(context.Background())
	}()

	c.JSON(http.StatusAccepted, models.AcceptedResponse{
		Message:  fmt.Sprintf("%s run queued", name),
		Provider: name,
	})
}

// Wait blocks until every triggered run has finished
func (h *ProviderHandler) Wait() {
	h.wg.Wait()
}
