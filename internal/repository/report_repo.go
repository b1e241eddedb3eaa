package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/habesha-match/internal/db"
	apperrors "github.com/oggyb/habesha-match/internal/errors"
)

// ReportRepository appends moderation reports. Rows are never updated.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new repository bound to the given DB connection.
func NewReportRepository(database *gorm.DB) *ReportRepository {
	return &ReportRepository{db: database}
}

// InsertReport stores one report.
func (r *ReportRepository) InsertReport(ctx context.Context, reporterID, reportedID uint64, reason string) error {
	report := db.Report{ReporterID: reporterID, ReportedID: reportedID, Reason: reason}
	return apperrors.FromStore(r.db.WithContext(ctx).Create(&report).Error)
}

// CountReports returns how many reports were filed against a user.
func (r *ReportRepository) CountReports(ctx context.Context, reportedID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db.Report{}).Where("reported_id = ?", reportedID).Count(&n).Error
	return n, apperrors.FromStore(err)
}
