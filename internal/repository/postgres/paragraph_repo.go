package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// ParagraphRepo реализует repository.ParagraphRepository
type ParagraphRepo struct {
	db *gorm.DB
}

// NewParagraphRepo создает новый репозиторий параграфов
func NewParagraphRepo(db *gorm.DB) *ParagraphRepo {
	return &ParagraphRepo{db: db}
}

// Create создает параграф
func (r *ParagraphRepo) Create(paragraph *entity.Paragraph) error {
	if paragraph.WordCount == 0 {
		paragraph.WordCount = paragraph.CountWords()
	}
	return r.db.Create(paragraph).Error
}

// CreateBatch создает пакет параграфов (используется сидером)
func (r *ParagraphRepo) CreateBatch(paragraphs []entity.Paragraph) error {
	for i := range paragraphs {
		if paragraphs[i].WordCount == 0 {
			paragraphs[i].WordCount = paragraphs[i].CountWords()
		}
	}
	return r.db.CreateInBatches(paragraphs, 50).Error
}

// GetByID возвращает параграф по ID
func (r *ParagraphRepo) GetByID(id uint) (*entity.Paragraph, error) {
	var paragraph entity.Paragraph
	err := r.db.First(&paragraph, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &paragraph, nil
}

// GetRandom возвращает случайный параграф (опционально по сложности).
// Таблица маленькая (сотни строк), ORDER BY RANDOM() здесь приемлем.
func (r *ParagraphRepo) GetRandom(difficulty string) (*entity.Paragraph, error) {
	var paragraph entity.Paragraph
	query := r.db.Model(&entity.Paragraph{})
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("RANDOM()").First(&paragraph).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &paragraph, nil
}

// Count возвращает количество параграфов
func (r *ParagraphRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Paragraph{}).Count(&count).Error
	return count, err
}
