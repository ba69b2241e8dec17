package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/internal/service/racemanager"
)

// RaceService предоставляет методы для работы с гонками
type RaceService struct {
	raceRepo      repository.RaceRepository
	playerRepo    repository.RacePlayerRepository
	paragraphRepo repository.ParagraphRepository
	userRepo      repository.UserRepository
	config        *racemanager.Config
}

// NewRaceService создает новый сервис гонок
func NewRaceService(
	raceRepo repository.RaceRepository,
	playerRepo repository.RacePlayerRepository,
	paragraphRepo repository.ParagraphRepository,
	userRepo repository.UserRepository,
	config *racemanager.Config,
) *RaceService {
	return &RaceService{
		raceRepo:      raceRepo,
		playerRepo:    playerRepo,
		paragraphRepo: paragraphRepo,
		userRepo:      userRepo,
		config:        config,
	}
}

// CreateRace создает новую гонку. Хост автоматически становится первым
// участником: гонка и запись хоста появляются в одной транзакции.
func (s *RaceService) CreateRace(hostID uint, name, difficulty string) (*entity.Race, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: race name is required", apperrors.ErrValidation)
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: race name is too long", apperrors.ErrValidation)
	}

	host, err := s.userRepo.GetByID(hostID)
	if err != nil {
		return nil, fmt.Errorf("%w: host user not found", apperrors.ErrNotFound)
	}

	paragraph, err := s.paragraphRepo.GetRandom(difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to pick paragraph: %w", err)
	}

	code, err := s.allocateCode()
	if err != nil {
		return nil, err
	}

	race := &entity.Race{
		Code:          code,
		Name:          name,
		HostID:        host.ID,
		HostName:      host.Username,
		ParagraphID:   paragraph.ID,
		ParagraphText: paragraph.Text,
		Status:        entity.RaceStatusWaiting,
		// Хост — первый участник, счетчик начинается с единицы
		PlayerCount: 1,
	}
	hostPlayer := &entity.RacePlayer{
		RaceCode: code,
		UserID:   host.ID,
		Username: host.Username,
		PhotoURL: host.PhotoURL,
	}

	if err := s.raceRepo.CreateWithHost(race, hostPlayer); err != nil {
		return nil, fmt.Errorf("failed to create race: %w", err)
	}

	log.Printf("[RaceService] Создана гонка %s (хост: %s, параграф #%d)", code, host.Username, paragraph.ID)
	return race, nil
}

// JoinRace добавляет пользователя в гонку по коду. Повторное присоединение
// того же пользователя — no-op: возвращается та же гонка без ошибки.
func (s *RaceService) JoinRace(code string, userID uint) (*entity.Race, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: race code is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	race, err := s.raceRepo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s not found", apperrors.ErrNotFound, code)
	}

	// Проверка лимита до транзакции — быстрый отказ без блокировки строки.
	// Гонку за последнее место решает повторная проверка внутри Join.
	if s.config.MaxPlayers > 0 && race.PlayerCount >= s.config.MaxPlayers {
		if _, err := s.playerRepo.GetByRaceAndUser(code, userID); err != nil {
			return nil, fmt.Errorf("%w: race is full", apperrors.ErrUnavailable)
		}
		// Пользователь уже внутри — идемпотентный повтор
		return race, nil
	}

	player := &entity.RacePlayer{
		RaceCode: code,
		UserID:   user.ID,
		Username: user.Username,
		PhotoURL: user.PhotoURL,
	}

	joined, err := s.playerRepo.Join(code, player)
	if err != nil {
		if errors.Is(err, repository.ErrRaceNotWaiting) {
			return nil, fmt.Errorf("%w: race has already started", apperrors.ErrUnavailable)
		}
		return nil, fmt.Errorf("failed to join race: %w", err)
	}

	if joined {
		log.Printf("[RaceService] Игрок %s присоединился к гонке %s", user.Username, code)
	}

	return s.raceRepo.GetByCode(code)
}

// StartRace запускает гонку. Стартовать может только хост, и только из лобби:
// повторный старт возвращает конфликт, а не второй start_time.
func (s *RaceService) StartRace(code string, userID uint) (*entity.Race, error) {
	race, err := s.raceRepo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s not found", apperrors.ErrNotFound, code)
	}

	if race.HostID != userID {
		return nil, fmt.Errorf("%w: only the host can start the race", apperrors.ErrForbidden)
	}

	if err := s.raceRepo.AtomicStart(code); err != nil {
		if errors.Is(err, repository.ErrRaceNotWaiting) {
			return nil, fmt.Errorf("%w: race is not in waiting state", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to start race: %w", err)
	}

	log.Printf("[RaceService] Гонка %s запущена хостом #%d", code, userID)

	// Перечитываем гонку: start_time выставлен часами базы
	return s.raceRepo.GetByCode(code)
}

// GetRace возвращает гонку по коду вместе с участниками
func (s *RaceService) GetRace(code string) (*entity.Race, error) {
	race, err := s.raceRepo.GetWithPlayers(code)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s not found", apperrors.ErrNotFound, code)
	}
	return race, nil
}

// GetStandings возвращает таблицу результатов гонки: финишировавшие по
// возрастанию времени, затем остальные по убыванию прогресса.
func (s *RaceService) GetStandings(code string) ([]racemanager.Standing, error) {
	race, err := s.raceRepo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s not found", apperrors.ErrNotFound, code)
	}

	players, err := s.playerRepo.ListByRace(code)
	if err != nil {
		return nil, fmt.Errorf("failed to list race players: %w", err)
	}

	return racemanager.BuildStandings(race, players), nil
}

// ListRaces возвращает список гонок с пагинацией
func (s *RaceService) ListRaces(limit, offset int) ([]entity.Race, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.raceRepo.List(limit, offset)
}

// allocateCode подбирает свободный код гонки. Количество попыток ограничено:
// исчерпание попыток — это ErrUnavailable, а не вечный цикл.
func (s *RaceService) allocateCode() (string, error) {
	for attempt := 0; attempt < s.config.CodeAttempts; attempt++ {
		code, err := generateRaceCode(s.config.CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate race code: %w", err)
		}

		exists, err := s.raceRepo.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check race code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	log.Printf("[RaceService] Не удалось подобрать код гонки за %d попыток", s.config.CodeAttempts)
	return "", fmt.Errorf("%w: could not allocate a unique race code", apperrors.ErrUnavailable)
}

// generateRaceCode генерирует случайный числовой код заданной длины
func generateRaceCode(length int) (string, error) {
	if length <= 0 {
		length = racemanager.DefaultCodeLength
	}
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
