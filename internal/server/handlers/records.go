package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/query"
)

const defaultRecentLimit = 5

// ListRecords returns every record newest-first, or the serial search result
// when the serial query parameter is present.
func (h *APIHandler) ListRecords(c *gin.Context) {
	records := h.gateway.Snapshot().Records
	if term, ok := c.GetQuery("serial"); ok {
		records = query.SearchBySerial(records, term)
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// RecentRecords returns the newest records with product names resolved.
func (h *APIHandler) RecentRecords(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"records": h.reporting.RecentActivity(limit)})
}

// CreateRecord registers a shipped serial number.
func (h *APIHandler) CreateRecord(c *gin.Context) {
	var in models.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid record payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.gateway.CreateRecord(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Stats returns the dashboard aggregates.
func (h *APIHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.Dashboard())
}
