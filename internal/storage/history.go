package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/prospect-analyzer/data-validation/internal/service"
)

// ValidationRecord is one persisted validation outcome.
type ValidationRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BatchID         string          `gorm:"index" json:"batch_id,omitempty"`
	ItemID          string          `gorm:"index" json:"item_id"`
	DataType        string          `gorm:"not null;index" json:"data_type"`
	IsValid         bool            `gorm:"not null" json:"is_valid"`
	ConfidenceScore float64         `gorm:"not null" json:"confidence_score"`
	ConfidenceLevel string          `json:"confidence_level"`
	OverallScore    *float64        `json:"overall_score,omitempty"`
	Grade           string          `json:"grade,omitempty"`
	IssueCount      int             `json:"issue_count"`
	AnomalyCount    int             `json:"anomaly_count"`
	Summary         json.RawMessage `gorm:"type:jsonb" json:"summary"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (r *ValidationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name
func (ValidationRecord) TableName() string {
	return "validation_history"
}

// HistoryRepository persists validation outcomes for later review.
type HistoryRepository struct {
	db *Database
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordAssessment persists one assessment outcome.
func (r *HistoryRepository) RecordAssessment(ctx context.Context, batchID string, assessment *service.Assessment) (*ValidationRecord, error) {
	if assessment.Validation == nil {
		return nil, errors.New("assessment has no validation result")
	}

	record := &ValidationRecord{
		BatchID:         batchID,
		ItemID:          assessment.ID,
		DataType:        assessment.DataType,
		IsValid:         assessment.Validation.IsValid,
		ConfidenceScore: assessment.Validation.ConfidenceScore,
		ConfidenceLevel: assessment.Validation.ConfidenceLevel,
		IssueCount:      len(assessment.Validation.Issues),
	}

	if assessment.QualityReport != nil {
		score := assessment.QualityReport.OverallScore
		record.OverallScore = &score
		record.Grade = assessment.QualityReport.Grade
		record.AnomalyCount = len(assessment.QualityReport.Anomalies)
	}

	if assessment.Summary != nil {
		payload, err := json.Marshal(assessment.Summary)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal summary")
		}
		record.Summary = payload
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, errors.Wrap(err, "failed to persist validation record")
	}
	return record, nil
}

// GetByID retrieves a single validation record.
func (r *HistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ValidationRecord, error) {
	var record ValidationRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get validation record")
	}
	return &record, nil
}

// ListByBatch retrieves all records persisted for a batch.
func (r *HistoryRepository) ListByBatch(ctx context.Context, batchID string) ([]ValidationRecord, error) {
	var records []ValidationRecord
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list batch records")
	}
	return records, nil
}

// ListRecent retrieves the most recent records, optionally filtered by type.
func (r *HistoryRepository) ListRecent(ctx context.Context, dataType string, limit int) ([]ValidationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if dataType != "" {
		query = query.Where("data_type = ?", dataType)
	}

	var records []ValidationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recent records")
	}
	return records, nil
}

// PurgeOlderThan deletes records past the retention window and reports how
// many were removed.
func (r *HistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&ValidationRecord{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to purge validation history")
	}
	return result.RowsAffected, nil
}
