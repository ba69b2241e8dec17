package service

import (
	"fmt"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// ParagraphService предоставляет методы для работы с текстами для набора
type ParagraphService struct {
	paragraphRepo repository.ParagraphRepository
}

// NewParagraphService создает новый сервис параграфов
func NewParagraphService(paragraphRepo repository.ParagraphRepository) *ParagraphService {
	return &ParagraphService{paragraphRepo: paragraphRepo}
}

// GetRandom возвращает случайный параграф для тренировки
func (s *ParagraphService) GetRandom(difficulty string) (*entity.Paragraph, error) {
	if difficulty != "" && !entity.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: invalid difficulty", apperrors.ErrValidation)
	}
	paragraph, err := s.paragraphRepo.GetRandom(difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: no paragraphs available", apperrors.ErrNotFound)
	}
	return paragraph, nil
}

// CreateParagraph добавляет новый параграф (только для администраторов)
func (s *ParagraphService) CreateParagraph(text, difficulty string) (*entity.Paragraph, error) {
	if len(text) < 20 {
		return nil, fmt.Errorf("%w: paragraph text is too short", apperrors.ErrValidation)
	}
	if !entity.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: invalid difficulty", apperrors.ErrValidation)
	}

	paragraph := &entity.Paragraph{
		Text:       text,
		Difficulty: difficulty,
	}
	paragraph.WordCount = paragraph.CountWords()
	if err := s.paragraphRepo.Create(paragraph); err != nil {
		return nil, fmt.Errorf("failed to create paragraph: %w", err)
	}
	return paragraph, nil
}
