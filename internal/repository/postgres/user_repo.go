package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет пользователя целиком
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// UpdateProfile точечно обновляет поля профиля без полного Save
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	result := r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordRaceResult атомарно обновляет карьерную статистику после заезда.
// Инкременты считаются в базе через gorm.Expr, чтобы конкурентные финиши
// разных гонок не теряли обновления.
func (r *UserRepo) RecordRaceResult(userID uint, wpm int, won bool) error {
	updates := map[string]interface{}{
		"races_played": gorm.Expr("races_played + 1"),
		"tests_taken":  gorm.Expr("tests_taken + 1"),
		"total_wpm":    gorm.Expr("total_wpm + ?", wpm),
		"best_wpm":     gorm.Expr("GREATEST(best_wpm, ?)", wpm),
	}
	if won {
		updates["races_won"] = gorm.Expr("races_won + 1")
	}
	return r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// GetLeaderboard возвращает пользователей, отсортированных для лидерборда,
// вместе с общим количеством. Гости в лидерборд не попадают.
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	query := r.db.Model(&entity.User{}).Where("is_guest = ? AND tests_taken > 0", false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("best_wpm DESC, races_won DESC, id").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
