package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/internal/handler/dto"
)

// Время жизни кеша лидерборда
const leaderboardCacheTTL = 30 * time.Second

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
	cacheRepo  repository.CacheRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		resultRepo: resultRepo,
		cacheRepo:  cacheRepo,
	}
}

// GetLeaderboard возвращает пагинированный лидерборд. Первая страница
// кешируется в Redis: ее запрашивают чаще всего.
func (s *UserService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}

	cacheKey := fmt.Sprintf("leaderboard:%d:%d", page, pageSize)
	if page == 1 {
		var cached dto.PaginatedLeaderboardResponse
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	userDTOs := make([]*dto.LeaderboardUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = &dto.LeaderboardUserDTO{
			Rank:        offset + i + 1,
			UserID:      user.ID,
			Username:    user.Username,
			PhotoURL:    user.PhotoURL,
			RacesPlayed: user.RacesPlayed,
			RacesWon:    user.RacesWon,
			BestWPM:     user.BestWPM,
			AvgWPM:      user.AvgWPM(),
		}
	}

	response := &dto.PaginatedLeaderboardResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}

	if page == 1 {
		if err := s.cacheRepo.SetJSON(cacheKey, response, leaderboardCacheTTL); err != nil {
			log.Printf("[UserService] Ошибка кеширования лидерборда: %v", err)
		}
	}

	return response, nil
}

// GetDashboard собирает сводку пользователя: карьерная статистика,
// лучший результат и последние заезды.
func (s *UserService) GetDashboard(userID uint) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	best, err := s.resultRepo.GetBestByUser(userID)
	if err != nil {
		// Отсутствие результатов — не ошибка дашборда
		best = nil
	}

	recent, _, err := s.resultRepo.GetByUser(userID, 10, 0)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении последних заездов #%d: %v", userID, err)
		recent = []entity.TypingResult{}
	}

	return &dto.DashboardResponse{
		User:        user,
		BestResult:  best,
		RecentRaces: recent,
	}, nil
}
