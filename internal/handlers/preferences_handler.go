package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/kvstore"
)

// PreferencesHandler stores per-pharmacy dashboard preferences, such as
// the last selected analytics time range.
type PreferencesHandler struct {
	store  kvstore.Store
	logger *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(store kvstore.Store, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		store:  store,
		logger: logger,
	}
}

func preferenceKey(pharmacyID uuid.UUID, key string) string {
	return fmt.Sprintf("pharmacy:%s:pref:%s", pharmacyID.String(), key)
}

// GetPreference returns a stored preference value.
// GET /api/v1/pharmacy-admin/pharmacies/:id/preferences/:key
func (h *PreferencesHandler) GetPreference(c *gin.Context) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return
	}
	key := c.Param("key")

	value, err := h.store.Get(c.Request.Context(), preferenceKey(pharmacyID, key))
	if err != nil {
		if err == kvstore.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Preference not found"})
			return
		}
		h.logger.Error("Failed to read preference", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"value": value,
	})
}

// SetPreference stores a preference value.
// PUT /api/v1/pharmacy-admin/pharmacies/:id/preferences/:key
func (h *PreferencesHandler) SetPreference(c *gin.Context) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return
	}
	key := c.Param("key")

	var body struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a value"})
		return
	}

	if err := h.store.Set(c.Request.Context(), preferenceKey(pharmacyID, key), body.Value); err != nil {
		h.logger.Error("Failed to store preference", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"value": body.Value,
	})
}
