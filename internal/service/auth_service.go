package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/pkg/auth"
)

// AuthService предоставляет методы для работы с аутентификацией и пользователями
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// AuthResponse содержит пользователя и выданный токен доступа
type AuthResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(username, email, password string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be 3-50 characters", apperrors.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	// Проверяем занятость email и username до вставки: понятная ошибка
	// вместо голого unique violation
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %s (#%d)", username, user.ID)
	return s.issueToken(user)
}

// LoginUser выполняет вход по email и паролю
func (s *AuthService) LoginUser(email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Не раскрываем, существует ли email
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	log.Printf("[AuthService] Вход пользователя %s (#%d)", user.Username, user.ID)
	return s.issueToken(user)
}

// CreateGuest создает гостевой аккаунт со сгенерированным именем.
// Гость — обычная строка users без пароля: вся гоночная механика
// работает для него без особых случаев.
func (s *AuthService) CreateGuest(displayName string) (*AuthResponse, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "guest"
	}
	if len(displayName) > 30 {
		displayName = displayName[:30]
	}

	suffix := strings.Split(uuid.New().String(), "-")[0]
	username := fmt.Sprintf("%s_%s", displayName, suffix)

	user := &entity.User{
		Username: username,
		Email:    fmt.Sprintf("%s@guest.typerush.local", username),
		IsGuest:  true,
		Role:     "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	log.Printf("[AuthService] Создан гостевой аккаунт %s (#%d)", username, user.ID)
	return s.issueToken(user)
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}
	return user, nil
}

// UpdateUserProfile изменяет имя и аватар пользователя
func (s *AuthService) UpdateUserProfile(userID uint, username, photoURL string) error {
	updates := make(map[string]interface{})

	username = strings.TrimSpace(username)
	if username != "" {
		if len(username) < 3 || len(username) > 50 {
			return fmt.Errorf("%w: username must be 3-50 characters", apperrors.ErrValidation)
		}
		if existing, err := s.userRepo.GetByUsername(username); err == nil && existing.ID != userID {
			return fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
		}
		updates["username"] = username
	}
	if photoURL != "" {
		updates["photo_url"] = photoURL
	}

	if len(updates) == 0 {
		return nil
	}
	return s.userRepo.UpdateProfile(userID, updates)
}

// GenerateWSTicket выдает короткоживущий тикет для websocket-подключения.
// Access-токен не светится в query string при апгрейде соединения.
func (s *AuthService) GenerateWSTicket(userID uint) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}
	return s.jwtService.GenerateWSTicket(user)
}

// ParseWSTicket проверяет websocket-тикет и возвращает его claims
func (s *AuthService) ParseWSTicket(ticket string) (*auth.JWTCustomClaims, error) {
	return s.jwtService.ParseWSTicket(ticket)
}

func (s *AuthService) issueToken(user *entity.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
