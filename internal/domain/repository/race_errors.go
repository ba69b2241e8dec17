package repository

import "errors"

var (
	// ErrRaceNotWaiting означает, что гонка уже покинула лобби (старт или повторный join невозможны).
	ErrRaceNotWaiting = errors.New("race is not in waiting status")
	// ErrWinnerAlreadySet означает, что победитель гонки уже записан другим финишером.
	// Это ожидаемый исход арбитража, а не сбой.
	ErrWinnerAlreadySet = errors.New("race winner is already set")
	// ErrPlayerFinished означает, что игрок уже финишировал и его метрики заморожены.
	ErrPlayerFinished = errors.New("player has already finished")
)
