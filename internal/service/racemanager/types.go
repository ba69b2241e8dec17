package racemanager

import (
	"sync"
	"time"

	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// Константы значений по умолчанию
const (
	DefaultMaxPlayers   = 5
	DefaultCodeAttempts = 100
	DefaultCodeLength   = 4
)

// Config содержит настройки гоночной подсистемы
type Config struct {
	// MaxPlayers — максимум участников в одной гонке (0 = без ограничения)
	MaxPlayers int

	// CodeAttempts — максимум попыток подбора уникального кода гонки
	CodeAttempts int

	// CodeLength — длина числового кода гонки
	CodeLength int

	// StateTTL — сколько держать состояние завершенной гонки в памяти
	StateTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		MaxPlayers:   DefaultMaxPlayers,
		CodeAttempts: DefaultCodeAttempts,
		CodeLength:   DefaultCodeLength,
		StateTTL:     30 * time.Minute,
	}
}

// ActiveRaceState хранит состояние идущей гонки в памяти процесса.
// База остается источником истины, состояние здесь избавляет путь
// обработки прогресса от чтения гонки на каждый кадр ввода.
type ActiveRaceState struct {
	Mu sync.RWMutex

	Race *entity.Race

	// Finished помечает игроков, чей финиш уже обработан этим процессом
	Finished map[uint]bool
}

// NewActiveRaceState создает состояние активной гонки
func NewActiveRaceState(race *entity.Race) *ActiveRaceState {
	return &ActiveRaceState{
		Race:     race,
		Finished: make(map[uint]bool),
	}
}

// SnapshotRace возвращает копию гонки под блокировкой чтения
func (s *ActiveRaceState) SnapshotRace() entity.Race {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return *s.Race
}

// MarkFinished помечает финиш игрока. Возвращает false, если финиш
// этого игрока уже был обработан (повторный кадр завершения).
func (s *ActiveRaceState) MarkFinished(userID uint) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.Finished[userID] {
		return false
	}
	s.Finished[userID] = true
	return true
}

// SetStatus переводит статус гонки в памяти с проверкой монотонности
func (s *ActiveRaceState) SetStatus(status string, startTime *time.Time, winnerID *uint) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !entity.CanTransition(s.Race.Status, status) {
		return false
	}
	s.Race.Status = status
	if startTime != nil {
		s.Race.StartTime = startTime
	}
	if winnerID != nil {
		s.Race.WinnerID = winnerID
	}
	return true
}
