package handler

import "github.com/gin-gonic/gin"

// Handlers groups the scheduling API handlers mounted by RegisterRoutes.
type Handlers struct {
	Availability *AvailabilityHandler
	Matching     *MatchingHandler
	Lessons      *LessonHandler
	Timetable    *TimetableHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts the scheduling API on api.
func RegisterRoutes(api gin.IRouter, h Handlers) {
	availability := api.Group("/availability")
	availability.POST("", h.Availability.Create)
	availability.GET("", h.Availability.List)
	availability.DELETE("/:id", h.Availability.Delete)

	api.GET("/matches", h.Matching.Find)

	lessons := api.Group("/lessons")
	lessons.POST("", h.Lessons.Create)
	lessons.POST("/check", h.Lessons.Check)
	lessons.GET("", h.Lessons.List)
	lessons.GET("/:id", h.Lessons.Get)
	lessons.GET("/:id/occurrences/:date", h.Lessons.Occurrence)
	lessons.POST("/:id/cancel", h.Lessons.Cancel)

	timetable := api.Group("/timetable")
	timetable.GET("", h.Timetable.List)
	timetable.GET("/export", h.Timetable.Export)

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}
}
