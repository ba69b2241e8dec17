package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены (гонка, игрок, пользователь).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (например, не-хост пытается стартовать гонку).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (пустое имя гонки, неполный профиль и т.д.). Никакие изменения состояния не происходят.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, повторный старт уже запущенной гонки).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда гонка существует, но больше недоступна для входа
	// (уже запущена или завершена). Отдельно от ErrNotFound, чтобы UI мог показать
	// "race unavailable" вместо "race not found".
	ErrUnavailable = errors.New("resource unavailable")
)
