package racemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Тесты расчета метрик набора
// ============================================================================

func TestCorrectChars(t *testing.T) {
	assert.Equal(t, 7, CorrectChars("cat sat", "cat sat"), "полное совпадение")
	assert.Equal(t, 6, CorrectChars("cat sot", "cat sat"), "одна опечатка")
	assert.Equal(t, 0, CorrectChars("", "cat sat"), "пустой ввод")
	assert.Equal(t, 3, CorrectChars("cat", "cat sat"), "частичный ввод")
	// Символы за пределами текста не считаются правильными
	assert.Equal(t, 7, CorrectChars("cat satXYZ", "cat sat"))
}

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, 0, ComputeProgress(0, 100))
	assert.Equal(t, 50, ComputeProgress(50, 100))
	assert.Equal(t, 100, ComputeProgress(100, 100))
	// Прогресс ограничен сверху
	assert.Equal(t, 100, ComputeProgress(150, 100))
	// Округление до ближайшего целого
	assert.Equal(t, 33, ComputeProgress(1, 3))
	assert.Equal(t, 67, ComputeProgress(2, 3))
	// Пустой текст не дает деления на ноль
	assert.Equal(t, 0, ComputeProgress(10, 0))
}

func TestComputeWPM(t *testing.T) {
	// 6 правильных символов за 6 секунд: (6/5) слова / 0.1 минуты = 12 WPM
	assert.Equal(t, 12, ComputeWPM(6, 6))
	// 50 символов за минуту: 10 слов в минуту
	assert.Equal(t, 10, ComputeWPM(50, 60))
	// До старта времени нет: WPM равен 0, а не бесконечности
	assert.Equal(t, 0, ComputeWPM(100, 0))
	assert.Equal(t, 0, ComputeWPM(100, -5))
}

func TestComputeAccuracy(t *testing.T) {
	// "cat sot" против "cat sat": 6 из 7
	assert.Equal(t, 86, ComputeAccuracy(6, 7))
	assert.Equal(t, 100, ComputeAccuracy(7, 7))
	// Пустой ввод — 0, а не деление на ноль
	assert.Equal(t, 0, ComputeAccuracy(0, 0))
	assert.Equal(t, 50, ComputeAccuracy(1, 2))
}

func TestComputeMetrics_TypoFrame(t *testing.T) {
	// Игрок набрал весь текст с одной опечаткой за 6 секунд
	m := ComputeMetrics("cat sot", "cat sat", 6)

	assert.Equal(t, 100, m.Progress)
	assert.Equal(t, 12, m.WPM)
	assert.Equal(t, 86, m.Accuracy)
	// Финиш определяется длиной набранного, не правильностью
	assert.True(t, m.Finished)
}

func TestComputeMetrics_PartialFrame(t *testing.T) {
	m := ComputeMetrics("cat", "cat sat", 3)

	assert.Equal(t, 43, m.Progress) // round(3/7*100)
	assert.Equal(t, 12, m.WPM)      // (3/5)/(3/60)
	assert.Equal(t, 100, m.Accuracy)
	assert.False(t, m.Finished)
}

func TestComputeMetrics_BeforeStart(t *testing.T) {
	m := ComputeMetrics("cat", "cat sat", 0)

	assert.Equal(t, 0, m.WPM, "до старта WPM равен нулю")
	assert.Equal(t, 100, m.Accuracy)
}

func TestComputeMetrics_EmptyInput(t *testing.T) {
	m := ComputeMetrics("", "cat sat", 10)

	assert.Equal(t, 0, m.Progress)
	assert.Equal(t, 0, m.WPM)
	assert.Equal(t, 0, m.Accuracy)
	assert.False(t, m.Finished)
}

func TestComputeMetrics_Unicode(t *testing.T) {
	// Метрики считаются по рунам, не по байтам
	m := ComputeMetrics("привет", "привет мир", 6)

	assert.Equal(t, 60, m.Progress) // 6 из 10 рун
	assert.False(t, m.Finished)
}
