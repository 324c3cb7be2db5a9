package main

import (
	"log"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/controllers"
	"github.com/Decoding-DataScience/NutridecodeProd/routes"
	"github.com/Decoding-DataScience/NutridecodeProd/services"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db := config.InitDB()
	utils.InitS3()

	dispatcher := services.NewDispatcher(settings.TokensPerMinute)
	openai := services.NewOpenAIService(settings, dispatcher)
	prefs := services.NewPreferenceService(db)
	enrichment := services.NewEnrichmentService(openai, prefs)
	analysis := services.NewAnalysisService(db, settings)
	waitlist := services.NewWaitlistService(db)
	auth := services.NewAuthService(db)
	speech := services.NewSpeechService(settings)

	hub := services.NewRealtimeHub()
	player := services.NewPlayer(speech, hub)

	push, err := services.NewPushService(db)
	if err != nil {
		log.Printf("push notifications disabled: %v", err)
		push = nil
	}
	alerts := services.NewAlertService(db, hub, push)

	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Printf("image pre-check disabled: %v", err)
		rek = nil
	}

	r := routes.SetupRouter(routes.Controllers{
		Auth:       controllers.NewAuthController(auth),
		Scan:       controllers.NewScanController(openai, rek, analysis, hub),
		Analysis:   controllers.NewAnalysisController(analysis),
		Enrichment: controllers.NewEnrichmentController(enrichment, prefs, openai, alerts),
		Preference: controllers.NewPreferenceController(prefs),
		Waitlist:   controllers.NewWaitlistController(waitlist),
		Speech:     controllers.NewSpeechController(speech, player),
		Realtime:   controllers.NewRealtimeController(hub),
		Device:     controllers.NewDeviceController(push, alerts),
	})
	r.Run(":8080")
}
