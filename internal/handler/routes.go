package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the router
func RegisterRoutes(
	router *gin.Engine,
	entries *EntryHandler,
	imgs *ImageHandler,
	insights *InsightsHandler,
	reports *ReportHandler,
	health *HealthHandler,
) {
	router.GET("/health", health.Check)

	api := router.Group("/api")
	{
		api.POST("/entries", entries.CreateEntry)
		api.GET("/entries", entries.ListEntries)
		api.GET("/entries/:id", entries.GetEntry)
		api.PUT("/entries/:id", entries.UpdateEntry)
		api.DELETE("/entries/:id", entries.DeleteEntry)

		api.GET("/images/cover", imgs.CoverImage)
		api.GET("/images/hero", imgs.HeroImage)

		api.GET("/insights/weekly", insights.WeeklyInsights)

		api.POST("/reports/generate", reports.Generate)
		api.GET("/reports", reports.List)
		api.GET("/reports/:id", reports.Get)
	}

	router.GET("/imgcache/:file", imgs.CacheFile)
}
