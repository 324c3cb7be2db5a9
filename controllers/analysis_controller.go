package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/services"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Analysis *services.AnalysisService
}

func NewAnalysisController(analysis *services.AnalysisService) *AnalysisController {
	return &AnalysisController{Analysis: analysis}
}

type SaveAnalysisInput struct {
	Analysis models.AnalysisResult `json:"analysis" binding:"required"`
	ImageURL string                `json:"image_url"`
}

func (ac *AnalysisController) Save(c *gin.Context) {
	uid := c.GetUint("userID")

	var input SaveAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := ac.Analysis.Save(uid, &input.Analysis, input.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// filtersFromQuery reads the optional history filters off the query
// string. Dates are YYYY-MM-DD.
func filtersFromQuery(c *gin.Context) services.HistoryFilters {
	var filters services.HistoryFilters

	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filters.EndDate = &end
		}
	}
	if v := c.Query("min_score"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.MinScore = &n
		}
	}
	if v := c.Query("max_score"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filters.MaxScore = &n
		}
	}
	filters.ProductName = c.Query("product_name")
	filters.SortBy = c.DefaultQuery("sort_by", "created_at")
	filters.SortOrder = c.DefaultQuery("sort_order", "desc")
	return filters
}

func (ac *AnalysisController) History(c *gin.Context) {
	uid := c.GetUint("userID")

	rows, err := ac.Analysis.History(uid, filtersFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": rows, "count": len(rows)})
}

func (ac *AnalysisController) Get(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	row, err := ac.Analysis.GetByID(uid, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (ac *AnalysisController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	if err := ac.Analysis.Delete(uid, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}

func (ac *AnalysisController) Analytics(c *gin.Context) {
	uid := c.GetUint("userID")

	summary, err := ac.Analysis.Analytics(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ac *AnalysisController) Export(c *gin.Context) {
	uid := c.GetUint("userID")
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
		return
	}

	body, contentType, err := ac.Analysis.Export(uid, format, filtersFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "nutridecode-history." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, []byte(body))
}
