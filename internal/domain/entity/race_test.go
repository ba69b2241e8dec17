package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Тесты жизненного цикла гонки
// ============================================================================

func TestCanTransition(t *testing.T) {
	// Разрешены только переходы вперед на соседний статус
	assert.True(t, CanTransition(RaceStatusWaiting, RaceStatusRunning))
	assert.True(t, CanTransition(RaceStatusRunning, RaceStatusFinished))

	// Обратные переходы запрещены
	assert.False(t, CanTransition(RaceStatusRunning, RaceStatusWaiting))
	assert.False(t, CanTransition(RaceStatusFinished, RaceStatusRunning))
	assert.False(t, CanTransition(RaceStatusFinished, RaceStatusWaiting))

	// Прыжок через статус запрещен
	assert.False(t, CanTransition(RaceStatusWaiting, RaceStatusFinished))

	// Неизвестные статусы
	assert.False(t, CanTransition("unknown", RaceStatusRunning))
	assert.False(t, CanTransition(RaceStatusWaiting, "unknown"))
}

func TestRace_CanJoin(t *testing.T) {
	race := &Race{Status: RaceStatusWaiting}
	assert.True(t, race.CanJoin())

	race.Status = RaceStatusRunning
	assert.False(t, race.CanJoin(), "в идущую гонку входить нельзя")

	race.Status = RaceStatusFinished
	assert.False(t, race.CanJoin())
}

func TestRace_CanStart(t *testing.T) {
	race := &Race{Status: RaceStatusWaiting, HostID: 7}

	assert.True(t, race.CanStart(7))
	assert.False(t, race.CanStart(8), "стартовать может только хост")

	race.Status = RaceStatusRunning
	assert.False(t, race.CanStart(7), "повторный старт запрещен")
}

func TestRace_Elapsed(t *testing.T) {
	now := time.Now()

	race := &Race{}
	assert.Equal(t, float64(0), race.Elapsed(now), "до старта прошедшее время равно нулю")

	start := now.Add(-30 * time.Second)
	race.StartTime = &start
	assert.InDelta(t, 30.0, race.Elapsed(now), 0.001)

	// Часы не идут назад
	future := now.Add(time.Minute)
	race.StartTime = &future
	assert.Equal(t, float64(0), race.Elapsed(now))
}

func TestRace_HasWinner(t *testing.T) {
	race := &Race{}
	assert.False(t, race.HasWinner())

	winnerID := uint(3)
	race.WinnerID = &winnerID
	assert.True(t, race.HasWinner())
}

func TestRacePlayer_HasFinished(t *testing.T) {
	player := &RacePlayer{Progress: 100}
	assert.False(t, player.HasFinished(), "финиш определяется записью времени, не прогрессом")

	finished := 42.5
	player.FinishedTime = &finished
	assert.True(t, player.HasFinished())
}
