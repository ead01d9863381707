package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/history"
	"github.com/chroniclehq/chronicle/internal/models"
)

// HistoryHandler serves content version history endpoints.
type HistoryHandler struct {
	repo HistoryRepository
	log  *logrus.Logger
}

// NewHistoryHandler creates a HistoryHandler with the given repository and logger.
func NewHistoryHandler(repo HistoryRepository, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, log: log}
}

// ListVersions handles GET /api/v1/content-history/:contentType/:documentId/versions.
func (h *HistoryHandler) ListVersions(c *gin.Context) {
	contentType := c.Param("contentType")
	if !history.IsUserContentType(contentType) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "content type must be in the api:: namespace")

		return
	}

	documentID := c.Param("documentId")
	if err := validatePathID(documentID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	q := models.VersionPageQuery{
		ContentType: contentType,
		DocumentID:  documentID,
		Page:        parseInt(c.DefaultQuery("page", "1"), 1),
		PageSize:    parseInt(c.DefaultQuery("pageSize", "20"), 20),
	}
	if locale := c.Query("locale"); locale != "" {
		q.Locale = &locale
	}

	page, err := h.repo.FindVersionsPage(c.Request.Context(), q)
	if err != nil {
		h.log.WithError(err).Error("listing history versions")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":       "history.list",
		"content_type": contentType,
		"document_id":  documentID,
		"count":        len(page.Versions),
	}).Info("audit")

	c.JSON(http.StatusOK, page)
}

// GetVersion handles GET /api/v1/content-history/:contentType/:documentId/versions/:versionId.
func (h *HistoryHandler) GetVersion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("versionId"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "version id must be a positive integer")

		return
	}

	v, err := h.repo.GetVersion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")

			return
		}

		h.log.WithError(err).Error("getting history version")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	// The id is globally unique; the path scope still has to match.
	if v.ContentType != c.Param("contentType") || v.DocumentID != c.Param("documentId") {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")

		return
	}

	c.JSON(http.StatusOK, v)
}
