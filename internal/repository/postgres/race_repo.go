package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// RaceRepo реализует repository.RaceRepository
type RaceRepo struct {
	db *gorm.DB
}

// NewRaceRepo создает новый репозиторий гонок
func NewRaceRepo(db *gorm.DB) *RaceRepo {
	return &RaceRepo{db: db}
}

// CreateWithHost транзакционно создает гонку и запись игрока-хоста.
// Никакое частичное состояние не видно другим читателям: либо обе записи, либо ни одной.
func (r *RaceRepo) CreateWithHost(race *entity.Race, host *entity.RacePlayer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(race).Error; err != nil {
			if isUniqueViolation(err) {
				// Код гонки заняли между пробой и вставкой
				return fmt.Errorf("%w: race code %s", apperrors.ErrConflict, race.Code)
			}
			return err
		}
		host.RaceCode = race.Code
		if err := tx.Create(host).Error; err != nil {
			return err
		}
		return nil
	})
}

// GetByCode возвращает гонку по коду
func (r *RaceRepo) GetByCode(code string) (*entity.Race, error) {
	var race entity.Race
	err := r.db.First(&race, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &race, nil
}

// GetWithPlayers возвращает гонку вместе с участниками
func (r *RaceRepo) GetWithPlayers(code string) (*entity.Race, error) {
	var race entity.Race
	err := r.db.Preload("Players").First(&race, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &race, nil
}

// CodeExists проверяет, занят ли код гонки
func (r *RaceRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Race{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AtomicStart атомарно переводит waiting → running.
// start_time выставляется часами базы (NOW()), а не процессом API: все клиенты
// считают прошедшее время от одного и того же источника.
// - RowsAffected == 0 → гонка уже не waiting (повторный старт — no-op на данных)
// - Другая DB ошибка → возвращается как есть
func (r *RaceRepo) AtomicStart(code string) error {
	result := r.db.Model(&entity.Race{}).
		Where("code = ? AND status = ?", code, entity.RaceStatusWaiting).
		Updates(map[string]interface{}{
			"status":     entity.RaceStatusRunning,
			"start_time": gorm.Expr("NOW()"),
		})

	if result.Error != nil {
		return fmt.Errorf("start race %s failed: %w", code, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: race %s", repository.ErrRaceNotWaiting, code)
	}

	return nil
}

// AtomicSetWinner атомарно записывает победителя гонки.
// Условие winner_id IS NULL — это и есть compare-and-set: из N конкурентных
// финишеров ровно один апдейт пройдет, остальные получат RowsAffected 0.
// - RowsAffected == 0 → победитель уже записан (ErrWinnerAlreadySet, ожидаемый исход)
// - Другая DB ошибка → возвращается как есть
func (r *RaceRepo) AtomicSetWinner(code string, userID uint) error {
	result := r.db.Model(&entity.Race{}).
		Where("code = ? AND winner_id IS NULL AND status = ?", code, entity.RaceStatusRunning).
		Updates(map[string]interface{}{
			"status":    entity.RaceStatusFinished,
			"winner_id": userID,
		})

	if result.Error != nil {
		return fmt.Errorf("set winner for race %s failed: %w", code, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: race %s", repository.ErrWinnerAlreadySet, code)
	}

	return nil
}

// List возвращает список гонок с пагинацией (свежие первыми)
func (r *RaceRepo) List(limit, offset int) ([]entity.Race, error) {
	var races []entity.Race
	err := r.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&races).Error
	return races, err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
