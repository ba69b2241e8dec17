package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// RacePlayerRepo реализует repository.RacePlayerRepository
type RacePlayerRepo struct {
	db *gorm.DB
}

// NewRacePlayerRepo создает новый репозиторий участников гонок
func NewRacePlayerRepo(db *gorm.DB) *RacePlayerRepo {
	return &RacePlayerRepo{db: db}
}

// Join добавляет игрока в гонку внутри одной транзакции:
//  1. Перечитываем гонку с блокировкой строки и проверяем статус waiting.
//  2. Если запись игрока уже есть — no-op (идемпотентный повторный join).
//  3. Иначе вставляем запись и инкрементируем player_count ровно на 1.
//
// Два конкурентных join одного пользователя сериализуются на уникальном
// индексе (race_code, user_id): проигравший вставку получает 23505 и
// трактуется как идемпотентный no-op, инкремент не задваивается.
// Возвращает true, если игрок был реально добавлен.
func (r *RacePlayerRepo) Join(code string, player *entity.RacePlayer) (bool, error) {
	joined := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var race entity.Race
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&race, "code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if !race.CanJoin() {
			return fmt.Errorf("%w: race %s", repository.ErrRaceNotWaiting, code)
		}

		var existing int64
		if err := tx.Model(&entity.RacePlayer{}).
			Where("race_code = ? AND user_id = ?", code, player.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			// Повторный join — данные не трогаем
			return nil
		}

		player.RaceCode = code
		if err := tx.Create(player).Error; err != nil {
			if isUniqueViolation(err) {
				// Конкурентный join того же пользователя успел раньше
				return nil
			}
			return err
		}

		if err := tx.Model(&entity.Race{}).
			Where("code = ?", code).
			Update("player_count", gorm.Expr("player_count + ?", 1)).Error; err != nil {
			return err
		}

		joined = true
		return nil
	})
	return joined, err
}

// GetByRaceAndUser возвращает запись игрока в гонке
func (r *RacePlayerRepo) GetByRaceAndUser(code string, userID uint) (*entity.RacePlayer, error) {
	var player entity.RacePlayer
	err := r.db.First(&player, "race_code = ? AND user_id = ?", code, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// ListByRace возвращает всех участников гонки
func (r *RacePlayerRepo) ListByRace(code string) ([]entity.RacePlayer, error) {
	var players []entity.RacePlayer
	err := r.db.Where("race_code = ?", code).Order("created_at").Find(&players).Error
	return players, err
}

// UpdateProgress обновляет беговые метрики игрока.
// Условие finished_time IS NULL замораживает финишировавших, GREATEST
// не дает progress уменьшиться от запоздавшего или переупорядоченного кадра.
// RowsAffected == 0 — не ошибка, а сигнал отбросить кадр: либо игрок уже
// финишировал, либо отправитель вообще не участник гонки.
func (r *RacePlayerRepo) UpdateProgress(code string, userID uint, progress, wpm, accuracy int) (bool, error) {
	result := r.db.Model(&entity.RacePlayer{}).
		Where("race_code = ? AND user_id = ? AND finished_time IS NULL", code, userID).
		Updates(map[string]interface{}{
			"progress": gorm.Expr("GREATEST(progress, ?)", progress),
			"wpm":      wpm,
			"accuracy": accuracy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Finish записывает финальные метрики игрока. Условие finished_time IS NULL
// гарантирует установку не более одного раза. Возвращает true при первой
// (успешной) записи, false — если игрок уже был финиширован.
func (r *RacePlayerRepo) Finish(code string, userID uint, finishedTime float64, wpm, accuracy int) (bool, error) {
	result := r.db.Model(&entity.RacePlayer{}).
		Where("race_code = ? AND user_id = ? AND finished_time IS NULL", code, userID).
		Updates(map[string]interface{}{
			"finished_time": finishedTime,
			"progress":      100,
			"wpm":           wpm,
			"accuracy":      accuracy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
