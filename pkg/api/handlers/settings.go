package handlers

import (
	"net/http"

	"qrscan-go/pkg/models"
	"qrscan-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UpdateWebhook changes the URL future scans are delivered to. An empty
// URL disables delivery.
func UpdateWebhook(c *gin.Context) {
	var update models.WebhookUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindError(err)})
		return
	}

	url, err := utils.ValidateWebhookURL(update.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sessionFrom(c).SetWebhookURL(c.Request.Context(), url); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "enabled": url != ""})
}

// SetDevices replaces the session's device list with the client's raw
// media-device listing
func SetDevices(c *gin.Context) {
	var listing []models.MediaDevice
	if err := c.ShouldBindJSON(&listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindError(err)})
		return
	}

	devices, err := sessionFrom(c).SetDevices(c.Request.Context(), listing)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, devices)
}

// SelectDevice switches live decoding to another capture device
func SelectDevice(c *gin.Context) {
	var sel models.DeviceSelect
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindError(err)})
		return
	}

	if err := sessionFrom(c).SelectDevice(c.Request.Context(), sel.DeviceID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"selectedDevice": sel.DeviceID})
}
