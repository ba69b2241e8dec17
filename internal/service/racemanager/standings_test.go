package racemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

func float64Ptr(v float64) *float64 { return &v }

// ============================================================================
// Тесты сортировки таблицы результатов
// ============================================================================

func TestSortStandings_FinishedBeforeUnfinished(t *testing.T) {
	// A финишировал за 42.5с, B — за 39.1с, C не финишировал с прогрессом 80
	players := []entity.RacePlayer{
		{UserID: 1, Username: "A", Progress: 100, FinishedTime: float64Ptr(42.5)},
		{UserID: 2, Username: "B", Progress: 100, FinishedTime: float64Ptr(39.1)},
		{UserID: 3, Username: "C", Progress: 80},
	}

	SortStandings(players)

	assert.Equal(t, "B", players[0].Username, "самый быстрый финишер первый")
	assert.Equal(t, "A", players[1].Username)
	assert.Equal(t, "C", players[2].Username, "не финишировавший всегда ниже финишировавших")
}

func TestSortStandings_UnfinishedByProgress(t *testing.T) {
	players := []entity.RacePlayer{
		{UserID: 1, Username: "slow", Progress: 20},
		{UserID: 2, Username: "fast", Progress: 90},
		{UserID: 3, Username: "mid", Progress: 55},
	}

	SortStandings(players)

	assert.Equal(t, "fast", players[0].Username)
	assert.Equal(t, "mid", players[1].Username)
	assert.Equal(t, "slow", players[2].Username)
}

func TestSortStandings_LowProgressFinisherAboveHighProgressRunner(t *testing.T) {
	// Финишировавший идет выше даже того, кто почти добежал
	players := []entity.RacePlayer{
		{UserID: 1, Username: "runner", Progress: 99},
		{UserID: 2, Username: "finisher", Progress: 100, FinishedTime: float64Ptr(120.0)},
	}

	SortStandings(players)

	assert.Equal(t, "finisher", players[0].Username)
	assert.Equal(t, "runner", players[1].Username)
}

func TestSortStandings_Stable(t *testing.T) {
	// При равном прогрессе сохраняется исходный порядок
	players := []entity.RacePlayer{
		{UserID: 1, Username: "first", Progress: 50},
		{UserID: 2, Username: "second", Progress: 50},
	}

	SortStandings(players)

	assert.Equal(t, "first", players[0].Username)
	assert.Equal(t, "second", players[1].Username)
}

func TestBuildStandings(t *testing.T) {
	winnerID := uint(2)
	race := &entity.Race{
		Code:     "1234",
		Status:   entity.RaceStatusFinished,
		WinnerID: &winnerID,
	}
	players := []entity.RacePlayer{
		{UserID: 1, Username: "A", Progress: 100, WPM: 60, FinishedTime: float64Ptr(42.5)},
		{UserID: 2, Username: "B", Progress: 100, WPM: 70, FinishedTime: float64Ptr(39.1)},
		{UserID: 3, Username: "C", Progress: 80, WPM: 45},
	}

	standings := BuildStandings(race, players)

	require.Len(t, standings, 3)
	assert.Equal(t, 1, standings[0].Place)
	assert.Equal(t, uint(2), standings[0].UserID)
	assert.True(t, standings[0].IsWinner)
	assert.False(t, standings[1].IsWinner)
	assert.Equal(t, 3, standings[2].Place)

	// Исходный срез не перемешивается
	assert.Equal(t, uint(1), players[0].UserID)
}
