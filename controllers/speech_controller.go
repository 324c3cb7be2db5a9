package controllers

import (
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/services"

	"github.com/gin-gonic/gin"
)

type SpeechController struct {
	Speech *services.SpeechService
	Player *services.Player
}

func NewSpeechController(speech *services.SpeechService, player *services.Player) *SpeechController {
	return &SpeechController{Speech: speech, Player: player}
}

type SpeakInput struct {
	Text string `json:"text" binding:"required"`
}

// Synthesize returns raw MPEG audio for the given text without touching
// the player session.
func (sc *SpeechController) Synthesize(c *gin.Context) {
	var input SpeakInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audio, err := sc.Speech.Synthesize(c.Request.Context(), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// Play starts a playback session, replacing any audio the user already
// had going.
func (sc *SpeechController) Play(c *gin.Context) {
	uid := c.GetUint("userID")

	var input SpeakInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audio, err := sc.Player.Play(c.Request.Context(), uid, input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

func (sc *SpeechController) Pause(c *gin.Context) {
	uid := c.GetUint("userID")
	if err := sc.Player.Pause(uid); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sc.Player.State(uid)})
}

func (sc *SpeechController) Resume(c *gin.Context) {
	uid := c.GetUint("userID")
	if err := sc.Player.Resume(uid); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sc.Player.State(uid)})
}

func (sc *SpeechController) Stop(c *gin.Context) {
	uid := c.GetUint("userID")
	sc.Player.Stop(uid)
	c.JSON(http.StatusOK, gin.H{"state": sc.Player.State(uid)})
}

func (sc *SpeechController) State(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusOK, gin.H{"state": sc.Player.State(uid)})
}
