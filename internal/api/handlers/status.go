package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wattfeed/internal/logger"
	"wattfeed/internal/models"
	"wattfeed/internal/repository"
)

const (
	defaultRowLimit = 50
	maxRowLimit     = 100
)

// StatusHandler serves the admin dashboard
type StatusHandler struct {
	status   repository.StatusRepository
	features repository.FeatureRepository
	log      *logger.Entry
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(status repository.StatusRepository, features repository.FeatureRepository) *StatusHandler {
	return &StatusHandler{
		status:   status,
		features: features,
		log:      logger.GetLogger().WithComponent("api"),
	}
}

// DBStatus godoc
// @Summary Source table status
// @Description Row count and time range of each source table
// @Tags status
// @Produce json
// @Success 200 {object} map[string]models.TableStatus
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /db-status [get]
func (h *StatusHandler) DBStatus(c *gin.Context) {
	status, err := h.status.TableStatus(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to read table status")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read table status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// FeatureStatus godoc
// @Summary Feature view status
// @Description Row count, time range and rows with complete lags of the training view
// @Tags status
// @Produce json
// @Success 200 {object} models.FeatureStatus
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /feature-status [get]
func (h *StatusHandler) FeatureStatus(c *gin.Context) {
	status, err := h.features.Status(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to read feature status")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read feature status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Schema godoc
// @Summary Source table schema
// @Tags explorer
// @Produce json
// @Success 200 {object} map[string][]models.ColumnInfo
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /db-explorer/schema [get]
func (h *StatusHandler) Schema(c *gin.Context) {
	schema, err := h.status.Schema(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to read schema")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read schema"})
		return
	}
	c.JSON(http.StatusOK, schema)
}

// pageParams reads limit and offset, answering 400 when either is invalid
func pageParams(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultRowLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > maxRowLimit {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit"})
			return 0, 0, false
		}
		limit = l
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		o, err := strconv.Atoi(offsetStr)
		if err != nil || o < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid offset"})
			return 0, 0, false
		}
		offset = o
	}
	return limit, offset, true
}

// Rows godoc
// @Summary Browse a source table
// @Description Newest rows first
// @Tags explorer
// @Produce json
// @Param table path string true "Table name"
// @Param limit query integer false "Rows per page (1-100)"
// @Param offset query integer false "Rows to skip"
// @Success 200 {object} models.TableRows
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 404 {object} models.ErrorResponse "Unknown table"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /db-explorer/rows/{table} [get]
func (h *StatusHandler) Rows(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}

	page, err := h.status.Rows(c.Request.Context(), c.Param("table"), limit, offset)
	if errors.Is(err, repository.ErrUnknownTable) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Unknown table"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to read rows")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read rows"})
		return
	}
	c.JSON(http.StatusOK, page)
}
