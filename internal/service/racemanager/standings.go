package racemanager

import (
	"sort"

	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// SortStandings упорядочивает игроков для таблицы результатов.
// Финишировавшие идут первыми по возрастанию времени финиша,
// затем не финишировавшие по убыванию прогресса. Сортировка
// стабильная: при равенстве сохраняется исходный порядок.
func SortStandings(players []entity.RacePlayer) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]

		switch {
		case a.HasFinished() && b.HasFinished():
			return *a.FinishedTime < *b.FinishedTime
		case a.HasFinished():
			return true
		case b.HasFinished():
			return false
		default:
			return a.Progress > b.Progress
		}
	})
}

// Standing — позиция игрока в итоговой таблице
type Standing struct {
	Place        int      `json:"place"`
	UserID       uint     `json:"user_id"`
	Username     string   `json:"username"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	Progress     int      `json:"progress"`
	WPM          int      `json:"wpm"`
	Accuracy     int      `json:"accuracy"`
	FinishedTime *float64 `json:"finished_time,omitempty"`
	IsWinner     bool     `json:"is_winner"`
}

// BuildStandings строит итоговую таблицу гонки из записей игроков
func BuildStandings(race *entity.Race, players []entity.RacePlayer) []Standing {
	sorted := make([]entity.RacePlayer, len(players))
	copy(sorted, players)
	SortStandings(sorted)

	standings := make([]Standing, 0, len(sorted))
	for i, p := range sorted {
		standings = append(standings, Standing{
			Place:        i + 1,
			UserID:       p.UserID,
			Username:     p.Username,
			PhotoURL:     p.PhotoURL,
			Progress:     p.Progress,
			WPM:          p.WPM,
			Accuracy:     p.Accuracy,
			FinishedTime: p.FinishedTime,
			IsWinner:     race.WinnerID != nil && *race.WinnerID == p.UserID,
		})
	}
	return standings
}
