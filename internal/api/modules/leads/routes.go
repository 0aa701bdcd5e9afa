package leads_module

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the lead routes
func RegisterRoutes(g *gin.RouterGroup, ctl *Controller) {
	group := g.Group("/leads")

	group.GET("", ctl.ListLeads)
	group.POST("", ctl.CreateLead)
}
