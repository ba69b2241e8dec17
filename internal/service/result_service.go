package service

import (
	"fmt"
	"log"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/internal/service/racemanager"
)

// ResultService предоставляет методы для работы с итогами заездов
type ResultService struct {
	resultRepo    repository.ResultRepository
	userRepo      repository.UserRepository
	paragraphRepo repository.ParagraphRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	paragraphRepo repository.ParagraphRepository,
) *ResultService {
	return &ResultService{
		resultRepo:    resultRepo,
		userRepo:      userRepo,
		paragraphRepo: paragraphRepo,
	}
}

// PracticeInput — данные одиночной тренировки от клиента
type PracticeInput struct {
	ParagraphID uint
	Typed       string
	DurationSec float64
}

// SubmitPractice пересчитывает и сохраняет результат одиночной тренировки.
// Метрики считаются на сервере по тому же коду, что и в гонках:
// присланным клиентом цифрам не доверяем.
func (s *ResultService) SubmitPractice(userID uint, input PracticeInput) (*entity.TypingResult, error) {
	if input.DurationSec <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", apperrors.ErrValidation)
	}
	if input.Typed == "" {
		return nil, fmt.Errorf("%w: typed text is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	paragraph, err := s.paragraphRepo.GetByID(input.ParagraphID)
	if err != nil {
		return nil, fmt.Errorf("%w: paragraph not found", apperrors.ErrNotFound)
	}

	metrics := racemanager.ComputeMetrics(input.Typed, paragraph.Text, input.DurationSec)

	result := &entity.TypingResult{
		UserID:      user.ID,
		Username:    user.Username,
		Mode:        entity.ResultModePractice,
		WPM:         metrics.WPM,
		Accuracy:    metrics.Accuracy,
		DurationSec: input.DurationSec,
	}
	if err := s.resultRepo.Create(result); err != nil {
		return nil, fmt.Errorf("failed to save practice result: %w", err)
	}

	// Тренировки тоже идут в карьерную статистику (без побед)
	if err := s.userRepo.RecordRaceResult(user.ID, metrics.WPM, false); err != nil {
		log.Printf("[ResultService] Ошибка обновления статистики #%d: %v", user.ID, err)
	}

	log.Printf("[ResultService] Тренировка #%d: wpm=%d, accuracy=%d", user.ID, metrics.WPM, metrics.Accuracy)
	return result, nil
}

// GetUserResults возвращает историю заездов пользователя с пагинацией
func (s *ResultService) GetUserResults(userID uint, page, pageSize int) ([]entity.TypingResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	return s.resultRepo.GetByUser(userID, pageSize, (page-1)*pageSize)
}

// GetRecentResults возвращает последние заезды по всем пользователям
func (s *ResultService) GetRecentResults(limit int) ([]entity.TypingResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.resultRepo.ListRecent(limit)
}
