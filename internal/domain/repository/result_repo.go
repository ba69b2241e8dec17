package repository

import (
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с итогами заездов
type ResultRepository interface {
	Create(result *entity.TypingResult) error
	GetByUser(userID uint, limit, offset int) ([]entity.TypingResult, int64, error)
	// GetBestByUser возвращает лучший результат пользователя (по WPM)
	GetBestByUser(userID uint) (*entity.TypingResult, error)
	ListRecent(limit int) ([]entity.TypingResult, error)
}
