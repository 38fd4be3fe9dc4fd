package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/codec"
	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/notice"
	"github.com/mamadbah2/serialpro/internal/service/backup"
	"github.com/mamadbah2/serialpro/internal/service/gateway"
	"github.com/mamadbah2/serialpro/internal/service/reporting"
	"github.com/mamadbah2/serialpro/internal/store"
)

// statusClientClosedRequest is the nginx convention for a caller that left early.
const statusClientClosedRequest = 499

// Gateway describes the mutation operations the HTTP layer can perform.
type Gateway interface {
	Snapshot() store.Snapshot
	CreateRecord(ctx context.Context, in models.RecordInput) (models.ShipmentRecord, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	RequestDeleteProduct(id string) error
	PendingDelete() (string, bool)
	ConfirmDeleteProduct(ctx context.Context) (string, error)
	CancelDeleteProduct() bool
	PendingRestore() (models.RestorePreview, bool)
	ConfirmRestore(ctx context.Context) (models.RestorePreview, error)
	CancelRestore() bool
}

// APIHandler serves the serial tracking JSON API.
type APIHandler struct {
	gateway   Gateway
	backups   *backup.Service
	reporting *reporting.Service
	notices   *notice.Board
	logger    *zap.Logger
}

// NewAPIHandler constructs the HTTP handler adapter.
func NewAPIHandler(gw Gateway, backups *backup.Service, reportingSvc *reporting.Service, notices *notice.Board, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{gateway: gw, backups: backups, reporting: reportingSvc, notices: notices, logger: logger}
}

// Notice returns the current auto-dismissing error message.
func (h *APIHandler) Notice(c *gin.Context) {
	message := ""
	if h.notices != nil {
		message = h.notices.Current()
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *APIHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrNothingPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, codec.ErrUnsupportedExtension), errors.Is(err, codec.ErrInvalidBackup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The work behind the request keeps running; an import may still stage its restore.
		h.logger.Info("client gave up before the request finished", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(statusClientClosedRequest, gin.H{"error": "request cancelled"})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
