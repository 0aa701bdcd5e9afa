package oauth_module

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the authorization routes
func RegisterRoutes(g *gin.RouterGroup, ctl *Controller) {
	g.GET("/", ctl.Authorize)
	g.GET("/oauth", ctl.Callback)
	g.GET("/oauth/refresh", ctl.Refresh)
}
