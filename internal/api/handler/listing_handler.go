package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nursenav/listings-be/internal/api/dto"
)

// GetListing handles GET /api/v1/listings/*path
// The wildcard path carries the listing-page address: geography, taxonomy
// slugs, the sign-on-bonus flag, and employer scope, in any supported
// combination. Page and limit come from the query string.
func (h *ListingHandler) GetListing(c *gin.Context) {
	rawPath := strings.Trim(c.Param("path"), "/")
	var segments []string
	if rawPath != "" {
		segments = strings.Split(rawPath, "/")
	}

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 0)

	filter, err := h.resolver.ResolvePath(c.Request.Context(), segments, page, limit)
	if err != nil {
		h.logger.Error("Failed to resolve listing path",
			slog.String("path", rawPath),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve listing page",
		})
		return
	}
	if filter == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Listing page not found",
		})
		return
	}

	result, err := h.pages.BuildPage(c.Request.Context(), *filter)
	if err != nil {
		h.logger.Error("Failed to build listing page",
			slog.String("path", rawPath),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build listing page",
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromPageResult(result))
}

// GetTaxonomy handles GET /api/v1/taxonomy
// Dumps the canonical vocabularies so the rendering layer can build menus
// without duplicating the tables.
func (h *ListingHandler) GetTaxonomy(c *gin.Context) {
	dims := gin.H{}
	for _, dim := range []struct {
		key  string
		name string
	}{
		{"specialties", "specialty"},
		{"jobTypes", "job_type"},
		{"shifts", "shift_type"},
		{"experienceLevels", "experience_level"},
	} {
		d := h.registry.Dimension(dim.name)
		values := make([]gin.H, 0, len(d.Values()))
		for _, v := range d.Values() {
			values = append(values, gin.H{"value": v.Display, "slug": v.Slug})
		}
		dims[dim.key] = values
	}
	c.JSON(http.StatusOK, dims)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
