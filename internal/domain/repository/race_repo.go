package repository

import (
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// RaceRepository определяет методы для работы с гонками
type RaceRepository interface {
	// CreateWithHost транзакционно создает гонку вместе с записью игрока-хоста.
	// Либо появляются обе записи, либо ни одной: частичное состояние не видно читателям.
	CreateWithHost(race *entity.Race, host *entity.RacePlayer) error
	GetByCode(code string) (*entity.Race, error)
	GetWithPlayers(code string) (*entity.Race, error)
	// CodeExists проверяет занятость кода гонки (для подбора уникального кода)
	CodeExists(code string) (bool, error)
	// AtomicStart атомарно переводит waiting → running и выставляет start_time
	// часами базы данных. Повторный старт (гонка уже не waiting) — RowsAffected 0,
	// возвращается ErrRaceNotWaiting.
	AtomicStart(code string) error
	// AtomicSetWinner атомарно записывает победителя: status=finished, winner_id=userID,
	// только если winner_id еще NULL. Проигрыш этой записи другому финишеру —
	// ожидаемый исход, возвращается ErrWinnerAlreadySet.
	AtomicSetWinner(code string, userID uint) error
	List(limit, offset int) ([]entity.Race, error)
}

// RacePlayerRepository определяет методы для работы с участниками гонок
type RacePlayerRepository interface {
	// Join транзакционно добавляет игрока в гонку: повторная попытка того же
	// пользователя — no-op без второго инкремента player_count.
	// Возвращает true, если игрок был реально добавлен.
	Join(code string, player *entity.RacePlayer) (bool, error)
	GetByRaceAndUser(code string, userID uint) (*entity.RacePlayer, error)
	ListByRace(code string) ([]entity.RacePlayer, error)
	// UpdateProgress обновляет беговые метрики игрока. Запись игнорируется,
	// если игрок уже финишировал; progress не может уменьшиться.
	// Возвращает false, если ни одна строка не подошла: игрок не участник
	// гонки или уже финишировал.
	UpdateProgress(code string, userID uint, progress, wpm, accuracy int) (bool, error)
	// Finish записывает финальные метрики игрока. Устанавливается не более
	// одного раза: повторный вызов — no-op (возвращается false).
	Finish(code string, userID uint, finishedTime float64, wpm, accuracy int) (bool, error)
}
