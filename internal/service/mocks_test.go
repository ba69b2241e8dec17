package service

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yourusername/typerush-api/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисного слоя
// ============================================================================

// MockRaceRepository реализует repository.RaceRepository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) CreateWithHost(race *entity.Race, host *entity.RacePlayer) error {
	args := m.Called(race, host)
	return args.Error(0)
}

func (m *MockRaceRepository) GetByCode(code string) (*entity.Race, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Race), args.Error(1)
}

func (m *MockRaceRepository) GetWithPlayers(code string) (*entity.Race, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Race), args.Error(1)
}

func (m *MockRaceRepository) CodeExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaceRepository) AtomicStart(code string) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockRaceRepository) AtomicSetWinner(code string, userID uint) error {
	args := m.Called(code, userID)
	return args.Error(0)
}

func (m *MockRaceRepository) List(limit, offset int) ([]entity.Race, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Race), args.Error(1)
}

// MockRacePlayerRepository реализует repository.RacePlayerRepository
type MockRacePlayerRepository struct {
	mock.Mock
}

func (m *MockRacePlayerRepository) Join(code string, player *entity.RacePlayer) (bool, error) {
	args := m.Called(code, player)
	return args.Bool(0), args.Error(1)
}

func (m *MockRacePlayerRepository) GetByRaceAndUser(code string, userID uint) (*entity.RacePlayer, error) {
	args := m.Called(code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RacePlayer), args.Error(1)
}

func (m *MockRacePlayerRepository) ListByRace(code string) ([]entity.RacePlayer, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RacePlayer), args.Error(1)
}

func (m *MockRacePlayerRepository) UpdateProgress(code string, userID uint, progress, wpm, accuracy int) (bool, error) {
	args := m.Called(code, userID, progress, wpm, accuracy)
	return args.Bool(0), args.Error(1)
}

func (m *MockRacePlayerRepository) Finish(code string, userID uint, finishedTime float64, wpm, accuracy int) (bool, error) {
	args := m.Called(code, userID, finishedTime, wpm, accuracy)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) RecordRaceResult(userID uint, wpm int, won bool) error {
	args := m.Called(userID, wpm, won)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockParagraphRepository реализует repository.ParagraphRepository
type MockParagraphRepository struct {
	mock.Mock
}

func (m *MockParagraphRepository) Create(paragraph *entity.Paragraph) error {
	args := m.Called(paragraph)
	return args.Error(0)
}

func (m *MockParagraphRepository) CreateBatch(paragraphs []entity.Paragraph) error {
	args := m.Called(paragraphs)
	return args.Error(0)
}

func (m *MockParagraphRepository) GetByID(id uint) (*entity.Paragraph, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Paragraph), args.Error(1)
}

func (m *MockParagraphRepository) GetRandom(difficulty string) (*entity.Paragraph, error) {
	args := m.Called(difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Paragraph), args.Error(1)
}

func (m *MockParagraphRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockResultRepository реализует repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(result *entity.TypingResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByUser(userID uint, limit, offset int) ([]entity.TypingResult, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.TypingResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepository) GetBestByUser(userID uint) (*entity.TypingResult, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TypingResult), args.Error(1)
}

func (m *MockResultRepository) ListRecent(limit int) ([]entity.TypingResult, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TypingResult), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) SAdd(key string, members ...interface{}) error {
	args := m.Called(key, members)
	return args.Error(0)
}

func (m *MockCacheRepository) SRem(key string, members ...interface{}) error {
	args := m.Called(key, members)
	return args.Error(0)
}

func (m *MockCacheRepository) SMembers(key string) ([]string, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
