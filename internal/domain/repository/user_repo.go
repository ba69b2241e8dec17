package repository

import (
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
	// RecordRaceResult атомарно обновляет карьерную статистику после заезда:
	// инкременты races_played/tests_taken/total_wpm, best_wpm через GREATEST,
	// races_won при победе.
	RecordRaceResult(userID uint, wpm int, won bool) error
	// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
