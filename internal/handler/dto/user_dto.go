package dto

import (
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// LeaderboardUserDTO представляет одного пользователя в лидерборде
type LeaderboardUserDTO struct {
	Rank        int    `json:"rank"`         // Место пользователя в рейтинге
	UserID      uint   `json:"user_id"`      // ID пользователя
	Username    string `json:"username"`     // Имя пользователя
	PhotoURL    string `json:"photo_url"`    // Аватар пользователя
	RacesPlayed int64  `json:"races_played"` // Сыграно гонок
	RacesWon    int64  `json:"races_won"`    // Количество побед
	BestWPM     int    `json:"best_wpm"`     // Лучшая скорость
	AvgWPM      int    `json:"avg_wpm"`      // Средняя скорость
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`    // Список пользователей на странице
	Total   int64                 `json:"total"`    // Общее количество пользователей в лидерборде
	Page    int                   `json:"page"`     // Текущая страница
	PerPage int                   `json:"per_page"` // Количество пользователей на странице
}

// DashboardResponse представляет сводку пользователя
type DashboardResponse struct {
	User        *entity.User          `json:"user"`
	BestResult  *entity.TypingResult  `json:"best_result,omitempty"`
	RecentRaces []entity.TypingResult `json:"recent_races"`
}
