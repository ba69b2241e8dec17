package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User представляет пользователя в системе
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null;default:''" json:"-"`
	PhotoURL string `gorm:"size:255;not null;default:''" json:"photo_url"`

	// IsGuest помечает анонимные сессии: сгенерированный username, без пароля
	IsGuest bool   `gorm:"not null;default:false" json:"is_guest"`
	Role    string `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"

	// Карьерная статистика для дашборда и лидерборда
	RacesPlayed int64 `gorm:"not null;default:0" json:"races_played"`
	RacesWon    int64 `gorm:"not null;default:0;index:idx_users_leaderboard" json:"races_won"`
	BestWPM     int   `gorm:"not null;default:0;index:idx_users_leaderboard" json:"best_wpm"`
	TotalWPM    int64 `gorm:"not null;default:0" json:"-"`
	TestsTaken  int64 `gorm:"not null;default:0" json:"tests_taken"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// AvgWPM возвращает средний WPM за все зачтенные заезды
func (u *User) AvgWPM() int {
	if u.TestsTaken == 0 {
		return 0
	}
	return int(u.TotalWPM / u.TestsTaken)
}

// IsAdmin проверяет административную роль
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой (у гостей пароля нет)
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу.
// Для гостевых аккаунтов всегда false: у них нет парольного входа.
func (u *User) CheckPassword(password string) bool {
	if u.IsGuest || u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
