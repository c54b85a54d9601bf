package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger can be replaced by server
var Logger = logrus.New()

// SetupRoute registers endpoints of both search adapters
func SetupRoute(r *gin.RouterGroup, h Handler) {
	r.GET("/jql", func(c *gin.Context) {
		resp, err := h.GetJQL(c)
		sendResponse(c, resp, err)
	})
	r.GET("/soap/:verb", func(c *gin.Context) {
		resp, err := h.GetSOAP(c)
		sendResponse(c, resp, err)
	})
}

// NewRouter creates gin router that serves endpoints under /api/v1
func NewRouter(h Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	SetupRoute(r.Group("/api/v1"), h)
	return r
}
