package repository

import (
	"pbfiles/internal/model"
	"time"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db, now: time.Now}
}

// Save records one transfer. A non-nil transferErr marks it failed.
func (r *HistoryRepository) Save(result model.Result, transferErr error) error {
	status := model.StatusSuccess
	errMsg := ""
	if transferErr != nil {
		status = model.StatusFailed
		errMsg = transferErr.Error()
	}

	history := model.History{
		Status:        status,
		Mode:          result.Mode,
		SrcPath:       result.Pair.Source,
		DstPath:       result.Pair.Destination,
		ReplacedTrash: result.ReplacedTrash,
		SourceTrash:   result.SourceTrash,
		ErrMsg:        errMsg,
		TransferredAt: r.now(),
	}

	return r.db.Create(&history).Error
}

type Stats struct {
	Total   int64
	Success int64
	Failed  int64
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := r.db.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := r.db.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := r.db.
		Order("transferred_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed(limit int) ([]model.History, error) {
	var histories []model.History
	result := r.db.
		Where("status = ?", model.StatusFailed).
		Order("transferred_at desc").
		Order("id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}
