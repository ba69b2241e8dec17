package entity

import (
	"time"
)

// RacePlayer представляет участника гонки и его текущие метрики.
// Пара (race_code, user_id) уникальна: повторный join не создает дубликат.
// Запись не удаляется до конца жизни гонки, даже если игрок вышел.
type RacePlayer struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RaceCode string `gorm:"size:8;not null;uniqueIndex:idx_race_user" json:"race_code"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_race_user" json:"user_id"`
	Username string `gorm:"size:50;not null" json:"username"`
	PhotoURL string `gorm:"size:255;not null;default:''" json:"photo_url"`

	// Progress — процент набранного текста, 0-100, не убывает пока гонка идет
	Progress int `gorm:"not null;default:0" json:"progress"`
	WPM      int `gorm:"not null;default:0" json:"wpm"`
	Accuracy int `gorm:"not null;default:0" json:"accuracy"`

	// FinishedTime — время финиша в секундах от старта гонки.
	// Устанавливается не более одного раза; после установки progress == 100,
	// а wpm/accuracy заморожены на финальных значениях.
	FinishedTime *float64 `json:"finished_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RacePlayer) TableName() string {
	return "race_players"
}

// HasFinished проверяет, финишировал ли игрок
func (p *RacePlayer) HasFinished() bool {
	return p.FinishedTime != nil
}
