package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/services"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"

	"github.com/gin-gonic/gin"
)

// ScanController handles the scan pipeline: validate the image, run a
// cheap Rekognition pre-check, archive the photo to S3, then extract
// the label via the vision model.
type ScanController struct {
	OpenAI      *services.OpenAIService
	Rekognition *services.RekognitionService
	Analysis    *services.AnalysisService
	RT          *services.RealtimeHub
}

func NewScanController(openai *services.OpenAIService, rek *services.RekognitionService, analysis *services.AnalysisService, rt *services.RealtimeHub) *ScanController {
	return &ScanController{OpenAI: openai, Rekognition: rek, Analysis: analysis, RT: rt}
}

type ScanInput struct {
	Image string `json:"image" binding:"required"` // data URI
	Save  bool   `json:"save"`
}

func (sc *ScanController) Analyze(c *gin.Context) {
	uid := c.GetUint("userID")

	var input ScanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateImage(input.Image) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format or size (jpeg/png/heif, max 10MB)"})
		return
	}

	if sc.Rekognition != nil && !sc.Rekognition.LooksLikeFoodImage(input.Image) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image does not appear to show a food product or label"})
		return
	}

	// Archive the photo; a failed upload should not abort the scan.
	imageURL := ""
	if url, err := utils.UploadLabelImage(input.Image, fmt.Sprintf("user-%d", uid)); err == nil {
		imageURL = url
	} else {
		log.Printf("label image upload failed for user %d: %v", uid, err)
	}

	result, err := sc.OpenAI.AnalyzeFoodLabel(c.Request.Context(), input.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"analysis":     result,
		"health_score": utils.DisplayHealthScore(result),
		"image_url":    imageURL,
	}

	if input.Save {
		saved, err := sc.Analysis.Save(uid, result, imageURL)
		if err != nil {
			respondError(c, err)
			return
		}
		response["saved_id"] = saved.ID
	}

	if sc.RT != nil {
		sc.RT.Broadcast(uid, gin.H{
			"kind":         "analysis.complete",
			"product_name": result.ProductName,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Verify confirms the vision backend is reachable with the configured
// key.
func (sc *ScanController) Verify(c *gin.Context) {
	if !sc.OpenAI.VerifyConnection(c.Request.Context()) {
		c.JSON(http.StatusBadGateway, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
