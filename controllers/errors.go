package controllers

import (
	"errors"
	"net/http"

	"github.com/Decoding-DataScience/NutridecodeProd/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service layer's typed errors onto HTTP statuses
// in one place. Handlers never inspect error strings.
func respondError(c *gin.Context, err error) {
	var validation *utils.ValidationError
	var service *utils.ServiceError
	var parse *utils.ParseError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, utils.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrOwnership):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrPreferencesMissing):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.As(err, &service):
		c.JSON(http.StatusBadGateway, gin.H{"error": service.Error()})
	case errors.As(err, &parse):
		c.JSON(http.StatusBadGateway, gin.H{"error": parse.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
