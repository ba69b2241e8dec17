package entity

import (
	"time"
)

// Константы режимов заезда
const (
	ResultModePractice = "practice"
	ResultModeRace     = "race"
)

// TypingResult представляет итог одного заезда: одиночной тренировки
// или участия в мультиплеерной гонке. Используется дашбордом и лидербордом.
type TypingResult struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Username    string `gorm:"size:50;not null" json:"username"`
	Mode        string `gorm:"size:20;not null;default:'practice';index" json:"mode"`
	RaceCode    string `gorm:"size:8;not null;default:''" json:"race_code,omitempty"`
	WPM         int    `gorm:"not null;default:0;index" json:"wpm"`
	Accuracy    int    `gorm:"not null;default:0" json:"accuracy"`
	DurationSec float64 `gorm:"not null;default:0" json:"duration_sec"`
	IsWin       bool   `gorm:"not null;default:false" json:"is_win"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TypingResult) TableName() string {
	return "typing_results"
}
