package routes

import (
	"github.com/Decoding-DataScience/NutridecodeProd/controllers"
	"github.com/Decoding-DataScience/NutridecodeProd/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler the router wires up.
type Controllers struct {
	Auth       *controllers.AuthController
	Scan       *controllers.ScanController
	Analysis   *controllers.AnalysisController
	Enrichment *controllers.EnrichmentController
	Preference *controllers.PreferenceController
	Waitlist   *controllers.WaitlistController
	Speech     *controllers.SpeechController
	Realtime   *controllers.RealtimeController
	Device     *controllers.DeviceController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
		auth.POST("/forgot-password", ctl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctl.Auth.ResetPassword)
	}
	r.POST("/waitlist", ctl.Waitlist.Join)

	// Protected routes
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/scan", ctl.Scan.Analyze)
		api.GET("/scan/verify", ctl.Scan.Verify)

		api.POST("/analyses", ctl.Analysis.Save)
		api.GET("/analyses", ctl.Analysis.History)
		api.GET("/analyses/analytics", ctl.Analysis.Analytics)
		api.GET("/analyses/export", ctl.Analysis.Export)
		api.GET("/analyses/:id", ctl.Analysis.Get)
		api.DELETE("/analyses/:id", ctl.Analysis.Delete)

		api.POST("/enrich", ctl.Enrichment.Enrich)
		api.POST("/enrich/ingredient", ctl.Enrichment.Ingredient)
		api.POST("/enrich/summary", ctl.Enrichment.Summary)
		api.POST("/chat", ctl.Enrichment.Chat)

		api.GET("/preferences", ctl.Preference.Get)
		api.PUT("/preferences", ctl.Preference.Update)

		api.POST("/speech/synthesize", ctl.Speech.Synthesize)
		api.POST("/speech/play", ctl.Speech.Play)
		api.POST("/speech/pause", ctl.Speech.Pause)
		api.POST("/speech/resume", ctl.Speech.Resume)
		api.POST("/speech/stop", ctl.Speech.Stop)
		api.GET("/speech/state", ctl.Speech.State)

		api.POST("/devices", ctl.Device.Register)
		api.GET("/alerts", ctl.Device.AlertHistory)

		api.GET("/ws", ctl.Realtime.EventsWS)
	}

	return r
}
