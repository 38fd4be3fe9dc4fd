package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/service/backup"
)

// ExportJSON downloads the full backup document.
func (h *APIHandler) ExportJSON(c *gin.Context) {
	artifact, err := h.backups.ExportJSON()
	if err != nil {
		h.writeError(c, err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportCSV downloads the shipment report.
func (h *APIHandler) ExportCSV(c *gin.Context) {
	sendArtifact(c, h.backups.ExportCSV())
}

// Import stages the uploaded backup file as a pending restore. If the caller
// disconnects first, the upload is still parsed and may be staged; GET
// /api/restore/pending shows it.
func (h *APIHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("import without file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	preview, err := h.backups.ImportAndWait(c.Request.Context(), fh.Filename, &formFileReader{header: fh})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, preview)
}

// PendingRestore shows the staged backup summary, if any.
func (h *APIHandler) PendingRestore(c *gin.Context) {
	preview, ok := h.gateway.PendingRestore()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending restore"})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// ConfirmRestore applies the staged backup.
func (h *APIHandler) ConfirmRestore(c *gin.Context) {
	preview, err := h.gateway.ConfirmRestore(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// CancelRestore drops the staged backup.
func (h *APIHandler) CancelRestore(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cancelled": h.gateway.CancelRestore()})
}

func sendArtifact(c *gin.Context, artifact backup.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
}

// formFileReader opens the uploaded part on first Read and closes it once
// reading stops, so a rejected upload is never opened.
type formFileReader struct {
	header *multipart.FileHeader
	file   multipart.File
	done   bool
}

func (r *formFileReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if r.file == nil {
		f, err := r.header.Open()
		if err != nil {
			r.done = true
			return 0, err
		}
		r.file = f
	}
	n, err := r.file.Read(p)
	if err != nil {
		r.done = true
		_ = r.file.Close()
	}
	return n, err
}
