package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/query"
)

type productView struct {
	models.Product
	RecordCount int `json:"recordCount"`
}

// ListProducts returns the catalog with per-product shipment counts.
func (h *APIHandler) ListProducts(c *gin.Context) {
	snap := h.gateway.Snapshot()
	out := make([]productView, 0, len(snap.Products))
	for _, p := range snap.Products {
		out = append(out, productView{Product: p, RecordCount: query.RecordsForProduct(snap.Records, p.ID)})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

// CreateProduct adds a product to the catalog.
func (h *APIHandler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.gateway.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// RequestDeleteProduct stages a product deletion awaiting confirmation.
func (h *APIHandler) RequestDeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.gateway.RequestDeleteProduct(id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"pendingDelete": id})
}

// PendingDelete shows the staged deletion, if any.
func (h *APIHandler) PendingDelete(c *gin.Context) {
	id, ok := h.gateway.PendingDelete()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending deletion"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pendingDelete": id})
}

// ConfirmDeleteProduct applies the staged deletion.
func (h *APIHandler) ConfirmDeleteProduct(c *gin.Context) {
	id, err := h.gateway.ConfirmDeleteProduct(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// CancelDeleteProduct drops the staged deletion.
func (h *APIHandler) CancelDeleteProduct(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cancelled": h.gateway.CancelDeleteProduct()})
}
