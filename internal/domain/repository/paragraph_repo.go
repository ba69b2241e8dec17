package repository

import (
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// ParagraphRepository определяет методы для работы с текстами для набора
type ParagraphRepository interface {
	Create(paragraph *entity.Paragraph) error
	CreateBatch(paragraphs []entity.Paragraph) error
	GetByID(id uint) (*entity.Paragraph, error)
	// GetRandom возвращает случайный параграф. difficulty == "" — любая сложность.
	GetRandom(difficulty string) (*entity.Paragraph, error)
	Count() (int64, error)
}
