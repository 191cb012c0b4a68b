package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/service-marketplace-backend/internal/availability"
	"github.com/nekogravitycat/service-marketplace-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	req := AvailabilityQuery{
		ProviderID: c.Query("provider_id"),
		Date:       c.Query("date"),
		ListingID:  c.Query("listing_id"),
	}

	result, fresh, err := h.service.GetAvailability(c.Request.Context(), req.toQuery())
	if err != nil {
		response.Error(c, err)
		return
	}

	// max-age never exceeds what is left of a cached entry
	if seconds := int(fresh.MaxAge.Seconds()); seconds > 0 {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
	} else {
		c.Header("Cache-Control", "no-store")
	}
	if fresh.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(result))
}
