package entity

import (
	"time"
)

// Константы статусов гонки. Статус монотонный: waiting → running → finished,
// обратные переходы запрещены.
const (
	RaceStatusWaiting  = "waiting"
	RaceStatusRunning  = "running"
	RaceStatusFinished = "finished"
)

// statusRank задает порядок статусов для проверки монотонности переходов
var statusRank = map[string]int{
	RaceStatusWaiting:  0,
	RaceStatusRunning:  1,
	RaceStatusFinished: 2,
}

// Race представляет мультиплеерную гонку
type Race struct {
	// Code — короткий числовой идентификатор гонки, которым делятся с друзьями
	Code          string       `gorm:"primaryKey;size:8" json:"code"`
	Name          string       `gorm:"size:100;not null" json:"name"`
	HostID        uint         `gorm:"not null;index" json:"host_id"`
	HostName      string       `gorm:"size:50;not null" json:"host_name"`
	ParagraphID   uint         `gorm:"not null" json:"paragraph_id"`
	ParagraphText string       `gorm:"type:text;not null" json:"paragraph_text"`
	Status        string       `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	StartTime     *time.Time   `json:"start_time,omitempty"`
	WinnerID      *uint        `json:"winner_id,omitempty"`
	PlayerCount   int          `gorm:"not null;default:0" json:"player_count"`
	Players       []RacePlayer `gorm:"foreignKey:RaceCode;references:Code" json:"players,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Race) TableName() string {
	return "races"
}

// IsWaiting проверяет, что гонка еще в лобби
func (r *Race) IsWaiting() bool {
	return r.Status == RaceStatusWaiting
}

// IsRunning проверяет, что гонка идет
func (r *Race) IsRunning() bool {
	return r.Status == RaceStatusRunning
}

// IsFinished проверяет, что гонка завершена
func (r *Race) IsFinished() bool {
	return r.Status == RaceStatusFinished
}

// CanJoin проверяет, можно ли присоединиться к гонке.
// Вход разрешен только в лобби: присоединение к идущей гонке запрещено.
func (r *Race) CanJoin() bool {
	return r.IsWaiting()
}

// CanStart проверяет, может ли пользователь запустить гонку.
// Стартовать может только хост и только из лобби.
func (r *Race) CanStart(userID uint) bool {
	return r.IsWaiting() && r.HostID == userID
}

// HasWinner проверяет, записан ли уже победитель
func (r *Race) HasWinner() bool {
	return r.WinnerID != nil
}

// CanTransition проверяет допустимость перехода статуса.
// Переход разрешен только вперед и только на соседний статус.
func CanTransition(from, to string) bool {
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank == fromRank+1
}

// Elapsed возвращает время в секундах с момента старта гонки.
// До старта возвращает 0.
func (r *Race) Elapsed(now time.Time) float64 {
	if r.StartTime == nil {
		return 0
	}
	elapsed := now.Sub(*r.StartTime).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
