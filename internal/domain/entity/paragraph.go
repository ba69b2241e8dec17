package entity

import (
	"strings"
	"time"
)

// Константы сложности параграфа
const (
	ParagraphDifficultyEasy   = "easy"
	ParagraphDifficultyMedium = "medium"
	ParagraphDifficultyHard   = "hard"
)

// Paragraph представляет текст для набора. Текст неизменяем после создания:
// все участники гонки печатают один и тот же параграф.
type Paragraph struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Difficulty string    `gorm:"size:20;not null;default:'medium';index" json:"difficulty"`
	WordCount  int       `gorm:"not null;default:0" json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Paragraph) TableName() string {
	return "paragraphs"
}

// CountWords пересчитывает word_count по тексту
func (p *Paragraph) CountWords() int {
	return len(strings.Fields(p.Text))
}

// IsValidDifficulty проверяет допустимость значения сложности
func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case ParagraphDifficultyEasy, ParagraphDifficultyMedium, ParagraphDifficultyHard:
		return true
	}
	return false
}
