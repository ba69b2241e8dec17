package racemanager

import (
	"math"
)

// CorrectChars считает количество символов, совпадающих по позициям
// между набранным текстом и абзацем. Символы за пределами абзаца
// правильными не считаются.
func CorrectChars(typed, text string) int {
	typedRunes := []rune(typed)
	textRunes := []rune(text)

	limit := len(typedRunes)
	if len(textRunes) < limit {
		limit = len(textRunes)
	}

	correct := 0
	for i := 0; i < limit; i++ {
		if typedRunes[i] == textRunes[i] {
			correct++
		}
	}
	return correct
}

// ComputeProgress возвращает процент продвижения по абзацу (0..100).
// Считается по длине набранного, независимо от правильности символов.
func ComputeProgress(typedLen, textLen int) int {
	if textLen <= 0 {
		return 0
	}
	progress := int(math.Round(float64(typedLen) / float64(textLen) * 100))
	if progress > 100 {
		return 100
	}
	return progress
}

// ComputeWPM возвращает скорость печати в словах в минуту.
// Слово — 5 правильных символов. До старта и при нулевом времени — 0.
func ComputeWPM(correctChars int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	words := float64(correctChars) / 5.0
	minutes := elapsedSeconds / 60.0
	return int(math.Round(words / minutes))
}

// ComputeAccuracy возвращает точность набора в процентах.
// Пустой ввод дает 0, а не деление на ноль.
func ComputeAccuracy(correctChars, typedLen int) int {
	if typedLen <= 0 {
		return 0
	}
	return int(math.Round(float64(correctChars) / float64(typedLen) * 100))
}

// PlayerMetrics — посчитанные метрики одного кадра ввода игрока
type PlayerMetrics struct {
	Progress int
	WPM      int
	Accuracy int
	Finished bool
}

// ComputeMetrics считает все метрики игрока за один проход.
// Финиш определяется по длине набранного, не по правильности:
// игрок завершает гонку, набрав столько же символов, сколько в абзаце.
func ComputeMetrics(typed, text string, elapsedSeconds float64) PlayerMetrics {
	typedLen := len([]rune(typed))
	textLen := len([]rune(text))
	correct := CorrectChars(typed, text)

	return PlayerMetrics{
		Progress: ComputeProgress(typedLen, textLen),
		WPM:      ComputeWPM(correct, elapsedSeconds),
		Accuracy: ComputeAccuracy(correct, typedLen),
		Finished: textLen > 0 && typedLen >= textLen,
	}
}
