package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий итогов заездов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Create сохраняет итог заезда
func (r *ResultRepo) Create(result *entity.TypingResult) error {
	return r.db.Create(result).Error
}

// GetByUser возвращает итоги пользователя с пагинацией (свежие первыми) и общим количеством
func (r *ResultRepo) GetByUser(userID uint, limit, offset int) ([]entity.TypingResult, int64, error) {
	var results []entity.TypingResult
	var total int64

	query := r.db.Model(&entity.TypingResult{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetBestByUser возвращает лучший результат пользователя по WPM
func (r *ResultRepo) GetBestByUser(userID uint) (*entity.TypingResult, error) {
	var result entity.TypingResult
	err := r.db.Where("user_id = ?", userID).Order("wpm DESC, created_at").First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ListRecent возвращает последние итоги по всем пользователям
func (r *ResultRepo) ListRecent(limit int) ([]entity.TypingResult, error) {
	var results []entity.TypingResult
	err := r.db.Order("created_at DESC").Limit(limit).Find(&results).Error
	return results, err
}
