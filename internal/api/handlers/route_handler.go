package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/routing"
)

type RouteHandler struct {
	oracle routing.Oracle
}

func NewRouteHandler(oracle routing.Oracle) *RouteHandler {
	return &RouteHandler{oracle: oracle}
}

type RouteQuery struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
}

// EstimateRoute handles GET /routes
func (h *RouteHandler) EstimateRoute(c *gin.Context) {
	var q RouteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route, err := h.oracle.Route(c.Request.Context(), q.Origin, q.Destination)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}
