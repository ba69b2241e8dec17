package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/internal/service/racemanager"
)

func testRaceConfig() *racemanager.Config {
	return &racemanager.Config{
		MaxPlayers:   5,
		CodeAttempts: 100,
		CodeLength:   4,
	}
}

func createTestRaceService(
	raceRepo *MockRaceRepository,
	playerRepo *MockRacePlayerRepository,
	paragraphRepo *MockParagraphRepository,
	userRepo *MockUserRepository,
) *RaceService {
	return NewRaceService(raceRepo, playerRepo, paragraphRepo, userRepo, testRaceConfig())
}

// ============================================================================
// Тесты создания гонки
// ============================================================================

func TestRaceService_CreateRace_Success(t *testing.T) {
	// Arrange
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	paragraphRepo := new(MockParagraphRepository)
	userRepo := new(MockUserRepository)

	host := &entity.User{ID: 7, Username: "host"}
	paragraph := &entity.Paragraph{ID: 3, Text: "the quick brown fox jumps over the lazy dog"}

	userRepo.On("GetByID", uint(7)).Return(host, nil)
	paragraphRepo.On("GetRandom", "").Return(paragraph, nil)
	raceRepo.On("CodeExists", mock.AnythingOfType("string")).Return(false, nil)

	var createdRace *entity.Race
	var createdHost *entity.RacePlayer
	raceRepo.On("CreateWithHost", mock.AnythingOfType("*entity.Race"), mock.AnythingOfType("*entity.RacePlayer")).
		Run(func(args mock.Arguments) {
			createdRace = args.Get(0).(*entity.Race)
			createdHost = args.Get(1).(*entity.RacePlayer)
		}).Return(nil)

	svc := createTestRaceService(raceRepo, playerRepo, paragraphRepo, userRepo)

	// Act
	race, err := svc.CreateRace(7, "Вечерняя гонка", "")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, race)
	assert.Equal(t, entity.RaceStatusWaiting, race.Status)
	assert.Equal(t, uint(7), race.HostID)
	assert.Equal(t, paragraph.Text, race.ParagraphText)
	assert.Len(t, race.Code, 4, "код гонки имеет настроенную длину")

	// Хост — первый участник: гонка рождается со счетчиком 1
	require.NotNil(t, createdRace)
	assert.Equal(t, 1, createdRace.PlayerCount)
	require.NotNil(t, createdHost)
	assert.Equal(t, uint(7), createdHost.UserID)
	assert.Equal(t, race.Code, createdHost.RaceCode)
	raceRepo.AssertExpectations(t)
}

func TestRaceService_CreateRace_EmptyName(t *testing.T) {
	svc := createTestRaceService(new(MockRaceRepository), new(MockRacePlayerRepository), new(MockParagraphRepository), new(MockUserRepository))

	race, err := svc.CreateRace(7, "   ", "")

	assert.Nil(t, race)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRaceService_CreateRace_CodeSpaceExhausted(t *testing.T) {
	// Все попытки подбора кода находят занятый код: выделение
	// завершается ошибкой, а не вечным циклом
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	paragraphRepo := new(MockParagraphRepository)
	userRepo := new(MockUserRepository)

	userRepo.On("GetByID", uint(7)).Return(&entity.User{ID: 7, Username: "host"}, nil)
	paragraphRepo.On("GetRandom", "").Return(&entity.Paragraph{ID: 1, Text: "text for the race"}, nil)
	raceRepo.On("CodeExists", mock.AnythingOfType("string")).Return(true, nil)

	svc := createTestRaceService(raceRepo, playerRepo, paragraphRepo, userRepo)

	race, err := svc.CreateRace(7, "Гонка", "")

	assert.Nil(t, race)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	raceRepo.AssertNumberOfCalls(t, "CodeExists", 100)
	raceRepo.AssertNotCalled(t, "CreateWithHost")
}

// ============================================================================
// Тесты присоединения к гонке
// ============================================================================

func TestRaceService_JoinRace_Success(t *testing.T) {
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	userRepo := new(MockUserRepository)

	user := &entity.User{ID: 9, Username: "joiner"}
	race := &entity.Race{Code: "1234", Status: entity.RaceStatusWaiting, PlayerCount: 1}

	userRepo.On("GetByID", uint(9)).Return(user, nil)
	raceRepo.On("GetByCode", "1234").Return(race, nil)
	playerRepo.On("Join", "1234", mock.AnythingOfType("*entity.RacePlayer")).Return(true, nil)

	svc := createTestRaceService(raceRepo, playerRepo, new(MockParagraphRepository), userRepo)

	got, err := svc.JoinRace("1234", 9)

	require.NoError(t, err)
	assert.Equal(t, "1234", got.Code)
	playerRepo.AssertExpectations(t)
}

func TestRaceService_JoinRace_Idempotent(t *testing.T) {
	// Повторное присоединение того же пользователя — no-op, не ошибка
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	userRepo := new(MockUserRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusWaiting, PlayerCount: 2}

	userRepo.On("GetByID", uint(9)).Return(&entity.User{ID: 9, Username: "joiner"}, nil)
	raceRepo.On("GetByCode", "1234").Return(race, nil)
	playerRepo.On("Join", "1234", mock.AnythingOfType("*entity.RacePlayer")).Return(false, nil)

	svc := createTestRaceService(raceRepo, playerRepo, new(MockParagraphRepository), userRepo)

	got, err := svc.JoinRace("1234", 9)

	require.NoError(t, err)
	assert.Equal(t, "1234", got.Code)
}

func TestRaceService_JoinRace_NotFound(t *testing.T) {
	raceRepo := new(MockRaceRepository)
	userRepo := new(MockUserRepository)

	userRepo.On("GetByID", uint(9)).Return(&entity.User{ID: 9}, nil)
	raceRepo.On("GetByCode", "0000").Return(nil, errors.New("record not found"))

	svc := createTestRaceService(raceRepo, new(MockRacePlayerRepository), new(MockParagraphRepository), userRepo)

	got, err := svc.JoinRace("0000", 9)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRaceService_JoinRace_AlreadyStarted(t *testing.T) {
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	userRepo := new(MockUserRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusRunning, PlayerCount: 2}

	userRepo.On("GetByID", uint(9)).Return(&entity.User{ID: 9, Username: "late"}, nil)
	raceRepo.On("GetByCode", "1234").Return(race, nil)
	playerRepo.On("Join", "1234", mock.AnythingOfType("*entity.RacePlayer")).Return(false, repository.ErrRaceNotWaiting)

	svc := createTestRaceService(raceRepo, playerRepo, new(MockParagraphRepository), userRepo)

	got, err := svc.JoinRace("1234", 9)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestRaceService_JoinRace_Full(t *testing.T) {
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)
	userRepo := new(MockUserRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusWaiting, PlayerCount: 5}

	userRepo.On("GetByID", uint(9)).Return(&entity.User{ID: 9}, nil)
	raceRepo.On("GetByCode", "1234").Return(race, nil)
	playerRepo.On("GetByRaceAndUser", "1234", uint(9)).Return(nil, errors.New("record not found"))

	svc := createTestRaceService(raceRepo, playerRepo, new(MockParagraphRepository), userRepo)

	got, err := svc.JoinRace("1234", 9)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	playerRepo.AssertNotCalled(t, "Join")
}

// ============================================================================
// Тесты старта гонки
// ============================================================================

func TestRaceService_StartRace_Success(t *testing.T) {
	raceRepo := new(MockRaceRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusWaiting, HostID: 7}

	raceRepo.On("GetByCode", "1234").Return(race, nil)
	raceRepo.On("AtomicStart", "1234").Return(nil)

	svc := createTestRaceService(raceRepo, new(MockRacePlayerRepository), new(MockParagraphRepository), new(MockUserRepository))

	got, err := svc.StartRace("1234", 7)

	require.NoError(t, err)
	assert.NotNil(t, got)
	raceRepo.AssertExpectations(t)
}

func TestRaceService_StartRace_NotHost(t *testing.T) {
	raceRepo := new(MockRaceRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusWaiting, HostID: 7}
	raceRepo.On("GetByCode", "1234").Return(race, nil)

	svc := createTestRaceService(raceRepo, new(MockRacePlayerRepository), new(MockParagraphRepository), new(MockUserRepository))

	got, err := svc.StartRace("1234", 9)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	raceRepo.AssertNotCalled(t, "AtomicStart")
}

func TestRaceService_StartRace_AlreadyRunning(t *testing.T) {
	// Повторный старт проигрывает conditional UPDATE и превращается в конфликт
	raceRepo := new(MockRaceRepository)

	race := &entity.Race{Code: "1234", Status: entity.RaceStatusRunning, HostID: 7}
	raceRepo.On("GetByCode", "1234").Return(race, nil)
	raceRepo.On("AtomicStart", "1234").Return(repository.ErrRaceNotWaiting)

	svc := createTestRaceService(raceRepo, new(MockRacePlayerRepository), new(MockParagraphRepository), new(MockUserRepository))

	got, err := svc.StartRace("1234", 7)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

// ============================================================================
// Тесты таблицы результатов
// ============================================================================

func TestRaceService_GetStandings(t *testing.T) {
	raceRepo := new(MockRaceRepository)
	playerRepo := new(MockRacePlayerRepository)

	winnerID := uint(2)
	race := &entity.Race{Code: "1234", Status: entity.RaceStatusFinished, WinnerID: &winnerID}
	ft1, ft2 := 42.5, 39.1
	players := []entity.RacePlayer{
		{UserID: 1, Username: "A", Progress: 100, FinishedTime: &ft1},
		{UserID: 2, Username: "B", Progress: 100, FinishedTime: &ft2},
		{UserID: 3, Username: "C", Progress: 80},
	}

	raceRepo.On("GetByCode", "1234").Return(race, nil)
	playerRepo.On("ListByRace", "1234").Return(players, nil)

	svc := createTestRaceService(raceRepo, playerRepo, new(MockParagraphRepository), new(MockUserRepository))

	standings, err := svc.GetStandings("1234")

	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "B", standings[0].Username)
	assert.True(t, standings[0].IsWinner)
	assert.Equal(t, "A", standings[1].Username)
	assert.Equal(t, "C", standings[2].Username)
}
