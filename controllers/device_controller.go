package controllers

import (
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Push   *services.PushService
	Alerts *services.AlertService
}

func NewDeviceController(push *services.PushService, alerts *services.AlertService) *DeviceController {
	return &DeviceController{Push: push, Alerts: alerts}
}

func (dc *DeviceController) Register(c *gin.Context) {
	uid := c.GetUint("userID")

	if dc.Push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications not configured"})
		return
	}

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dev, err := dc.Push.RegisterDevice(uid, req.Platform, req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

func (dc *DeviceController) AlertHistory(c *gin.Context) {
	uid := c.GetUint("userID")

	alerts, err := dc.Alerts.History(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
