package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/models"
)

// SchemaHandler serves the content-type registry sync endpoints. The
// host application pushes definitions here whenever a content type
// changes, so version reads can be decorated against the live schema.
type SchemaHandler struct {
	repo SchemaRepository
	log  *logrus.Logger
}

// NewSchemaHandler creates a SchemaHandler with the given repository and logger.
func NewSchemaHandler(repo SchemaRepository, log *logrus.Logger) *SchemaHandler {
	return &SchemaHandler{repo: repo, log: log}
}

// upsertSchemaRequest is the payload for registry sync.
type upsertSchemaRequest struct {
	Attributes      models.AttributeMap `json:"attributes" binding:"required"`
	DraftAndPublish bool                `json:"draftAndPublish"`
}

// Upsert handles PUT /api/v1/content-types/:uid.
func (h *SchemaHandler) Upsert(c *gin.Context) {
	uid := c.Param("uid")
	if err := validatePathID(uid); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req upsertSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid schema payload: "+err.Error())

		return
	}

	ct := models.ContentType{
		UID:             uid,
		Attributes:      req.Attributes,
		DraftAndPublish: req.DraftAndPublish,
	}

	if err := h.repo.UpsertContentType(c.Request.Context(), ct); err != nil {
		h.log.WithError(err).Error("upserting content type schema")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":       "schema.upsert",
		"content_type": uid,
		"attributes":   len(req.Attributes),
	}).Info("audit")

	c.JSON(http.StatusOK, ct)
}

// Get handles GET /api/v1/content-types/:uid.
func (h *SchemaHandler) Get(c *gin.Context) {
	uid := c.Param("uid")
	if err := validatePathID(uid); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	ct, err := h.repo.Lookup(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, models.ErrContentTypeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "content type not found")

			return
		}

		h.log.WithError(err).Error("looking up content type schema")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, ct)
}

// Delete handles DELETE /api/v1/content-types/:uid.
func (h *SchemaHandler) Delete(c *gin.Context) {
	uid := c.Param("uid")
	if err := validatePathID(uid); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.DeleteContentType(c.Request.Context(), uid); err != nil {
		h.log.WithError(err).Error("deleting content type schema")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":       "schema.delete",
		"content_type": uid,
	}).Info("audit")

	c.Status(http.StatusNoContent)
}
