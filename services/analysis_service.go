package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/models"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"

	"gorm.io/gorm"
)

// AnalysisService persists analyses per user: save with a duplicate
// guard, filtered history with display-level dedup, ownership-checked
// delete, analytics and export.
type AnalysisService struct {
	db       *gorm.DB
	settings *config.Settings
}

func NewAnalysisService(db *gorm.DB, settings *config.Settings) *AnalysisService {
	return &AnalysisService{db: db, settings: settings}
}

// Save stores an analysis with its computed health score. Saving the
// same product name for the same user within the duplicate window is
// rejected; this is a coarse idempotency guard, not a strong dedup key.
func (s *AnalysisService) Save(userID uint, analysis *models.AnalysisResult, imageURL string) (*models.FoodAnalysis, error) {
	cutoff := time.Now().Add(-s.settings.DuplicateSaveWindow)

	var count int64
	err := s.db.Model(&models.FoodAnalysis{}).
		Where("user_id = ? AND product_name = ? AND created_at >= ?", userID, analysis.ProductName, cutoff).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for recent analysis: %w", err)
	}
	if count > 0 {
		return nil, utils.ErrDuplicateSubmission
	}

	row := &models.FoodAnalysis{
		UserID:      userID,
		ProductName: analysis.ProductName,
		ImageURL:    imageURL,
		HealthScore: utils.HealthScore(analysis),
		Result:      *analysis,
	}
	if err := s.db.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return row, nil
}

// HistoryFilters narrows and orders a user's saved analyses.
type HistoryFilters struct {
	StartDate   *time.Time
	EndDate     *time.Time
	MinScore    *int
	MaxScore    *int
	ProductName string
	SortBy      string // "created_at" | "health_score" | "product_name"
	SortOrder   string // "asc" | "desc"
}

var sortColumns = map[string]string{
	"created_at":   "created_at",
	"health_score": "health_score",
	"product_name": "product_name",
}

// History returns the user's saved analyses, filtered and sorted, with
// near-duplicate saves of the same product collapsed.
func (s *AnalysisService) History(userID uint, filters HistoryFilters) ([]models.FoodAnalysis, error) {
	q := s.db.Where("user_id = ?", userID)

	if filters.StartDate != nil {
		q = q.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		q = q.Where("created_at <= ?", *filters.EndDate)
	}
	if filters.MinScore != nil {
		q = q.Where("health_score >= ?", *filters.MinScore)
	}
	if filters.MaxScore != nil {
		q = q.Where("health_score <= ?", *filters.MaxScore)
	}
	if filters.ProductName != "" {
		q = q.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(filters.ProductName)+"%")
	}

	column, ok := sortColumns[filters.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}
	q = q.Order(column + " " + direction)

	var rows []models.FoodAnalysis
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch analysis history: %w", err)
	}
	return dedupAnalyses(rows, s.settings.HistoryDedupWindow), nil
}

// dedupAnalyses collapses saves of the same product created within the
// window of an already-kept entry. Display-layer policy, kept here so
// every consumer sees the same view.
func dedupAnalyses(rows []models.FoodAnalysis, window time.Duration) []models.FoodAnalysis {
	out := make([]models.FoodAnalysis, 0, len(rows))
	for _, current := range rows {
		duplicate := false
		for _, kept := range out {
			if kept.ProductName != current.ProductName {
				continue
			}
			diff := kept.CreatedAt.Sub(current.CreatedAt)
			if diff < 0 {
				diff = -diff
			}
			if diff < window {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, current)
		}
	}
	return out
}

// GetByID fetches one analysis, scoped to its owner.
func (s *AnalysisService) GetByID(userID, id uint) (*models.FoodAnalysis, error) {
	var row models.FoodAnalysis
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrOwnership
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analysis: %w", err)
	}
	return &row, nil
}

// Delete removes an analysis after verifying ownership. If the scoped
// delete is blocked (row still present afterwards), it falls back to a
// privileged hard delete and then verifies the row is actually gone.
func (s *AnalysisService) Delete(userID, id uint) error {
	var row models.FoodAnalysis
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrOwnership
	}
	if err != nil {
		return fmt.Errorf("failed to verify analysis ownership: %w", err)
	}

	if err := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.FoodAnalysis{}).Error; err == nil {
		if !s.exists(userID, id) {
			return nil
		}
	}

	// Privileged fallback: bypass soft-delete scoping.
	if err := s.db.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&models.FoodAnalysis{}).Error; err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if s.exists(userID, id) {
		return fmt.Errorf("failed to delete analysis: record still exists")
	}
	return nil
}

func (s *AnalysisService) exists(userID, id uint) bool {
	var count int64
	s.db.Model(&models.FoodAnalysis{}).Where("id = ? AND user_id = ?", id, userID).Count(&count)
	return count > 0
}

// AnalyticsSummary aggregates a user's scan activity.
type AnalyticsSummary struct {
	TotalQueries            int     `json:"total_queries"`
	SuccessfulQueries       int     `json:"successful_queries"`
	AverageProcessingTimeMs float64 `json:"average_processing_time_ms"`
	ErrorRate               float64 `json:"error_rate"`
}

func (s *AnalysisService) Analytics(userID uint) (*AnalyticsSummary, error) {
	var rows []models.FoodAnalysis
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch analyses: %w", err)
	}

	summary := &AnalyticsSummary{TotalQueries: len(rows)}
	if len(rows) == 0 {
		return summary, nil
	}

	var totalMs int64
	for _, row := range rows {
		if row.Result.Metadata.Error == "" {
			summary.SuccessfulQueries++
		}
		totalMs += row.Result.Metadata.ProcessingTimeMs
	}
	summary.AverageProcessingTimeMs = float64(totalMs) / float64(len(rows))
	summary.ErrorRate = float64(len(rows)-summary.SuccessfulQueries) / float64(len(rows)) * 100
	return summary, nil
}

// Export renders the (filtered, deduplicated) history as CSV or JSON.
func (s *AnalysisService) Export(userID uint, format string, filters HistoryFilters) (string, string, error) {
	rows, err := s.History(userID, filters)
	if err != nil {
		return "", "", err
	}

	if format == "json" {
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal export: %w", err)
		}
		return string(b), "application/json", nil
	}

	headers := []string{
		"id", "date", "product_name", "health_score", "ingredients",
		"preservatives", "additives", "declared_allergens",
		"may_contain_allergens", "health_claims", "packaging_materials",
		"recycling_info", "sustainability_claims", "certifications",
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headers, ","))
	sb.WriteString("\n")
	for _, row := range rows {
		r := row.Result
		fields := []string{
			fmt.Sprintf("%d", row.ID),
			row.CreatedAt.Format(time.RFC3339),
			row.ProductName,
			fmt.Sprintf("%d", row.HealthScore),
			strings.Join(r.Ingredients.List, "; "),
			strings.Join(r.Ingredients.Preservatives, "; "),
			strings.Join(r.Ingredients.Additives, "; "),
			strings.Join(r.Allergens.Declared, "; "),
			strings.Join(r.Allergens.MayContain, "; "),
			strings.Join(r.HealthClaims, "; "),
			strings.Join(r.Packaging.Materials, "; "),
			r.Packaging.RecyclingInfo,
			strings.Join(r.Packaging.SustainabilityClaims, "; "),
			strings.Join(r.Packaging.Certifications, "; "),
		}
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}
	return sb.String(), "text/csv", nil
}
