package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/typerush-api/internal/domain/entity"
	"github.com/yourusername/typerush-api/internal/domain/repository"
	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
	"github.com/yourusername/typerush-api/internal/service/racemanager"
	"github.com/yourusername/typerush-api/internal/websocket"
)

// RaceManager координирует жизненный цикл идущих гонок: принимает кадры
// прогресса от клиентов, считает метрики, определяет победителя и
// рассылает события всем участникам.
type RaceManager struct {
	raceService *RaceService
	raceRepo    repository.RaceRepository
	playerRepo  repository.RacePlayerRepository
	userRepo    repository.UserRepository
	resultRepo  repository.ResultRepository
	cacheRepo   repository.CacheRepository
	wsManager   *websocket.Manager
	config      *racemanager.Config

	// Состояния активных гонок по коду
	states     map[string]*racemanager.ActiveRaceState
	stateMutex sync.RWMutex
}

// NewRaceManager создает новый менеджер гонок
func NewRaceManager(
	raceService *RaceService,
	raceRepo repository.RaceRepository,
	playerRepo repository.RacePlayerRepository,
	userRepo repository.UserRepository,
	resultRepo repository.ResultRepository,
	cacheRepo repository.CacheRepository,
	wsManager *websocket.Manager,
	config *racemanager.Config,
) *RaceManager {
	rm := &RaceManager{
		raceService: raceService,
		raceRepo:    raceRepo,
		playerRepo:  playerRepo,
		userRepo:    userRepo,
		resultRepo:  resultRepo,
		cacheRepo:   cacheRepo,
		wsManager:   wsManager,
		config:      config,
		states:      make(map[string]*racemanager.ActiveRaceState),
	}
	log.Println("[RaceManager] Менеджер гонок успешно инициализирован")
	return rm
}

// ===== Payload-структуры исходящих событий =====

// RaceStatePayload — снимок гонки для только что подключившегося клиента
type RaceStatePayload struct {
	Race    *entity.Race        `json:"race"`
	Players []entity.RacePlayer `json:"players"`
	// Online — ID участников, подключенных сейчас (по presence-множеству)
	Online []string `json:"online"`
}

// PlayerJoinedPayload — событие о новом участнике
type PlayerJoinedPayload struct {
	RaceCode    string `json:"race_code"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	PhotoURL    string `json:"photo_url,omitempty"`
	PlayerCount int    `json:"player_count"`
}

// PlayerProgressPayload — кадр метрик одного игрока
type PlayerProgressPayload struct {
	RaceCode string `json:"race_code"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Progress int    `json:"progress"`
	WPM      int    `json:"wpm"`
	Accuracy int    `json:"accuracy"`
}

// PlayerFinishedPayload — событие финиша игрока
type PlayerFinishedPayload struct {
	RaceCode     string  `json:"race_code"`
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	WPM          int     `json:"wpm"`
	Accuracy     int     `json:"accuracy"`
	FinishedTime float64 `json:"finished_time"`
}

// RaceStartedPayload — событие старта гонки
type RaceStartedPayload struct {
	RaceCode  string    `json:"race_code"`
	StartTime time.Time `json:"start_time"`
}

// RaceFinishedPayload — событие завершения гонки с итоговой таблицей
type RaceFinishedPayload struct {
	RaceCode  string                 `json:"race_code"`
	WinnerID  uint                   `json:"winner_id"`
	Standings []racemanager.Standing `json:"standings"`
}

// ===== Жизненный цикл гонки =====

// HandlePlayerJoined подписывает клиента на гонку и рассылает событие участникам.
// Вызывается после успешного JoinRace (идемпотентного на уровне БД).
func (rm *RaceManager) HandlePlayerJoined(client *websocket.Client, race *entity.Race) error {
	rm.wsManager.SubscribeClientToRace(client, race.Code)

	// Запоминаем участника в Redis: это переживает рестарт процесса
	participantsKey := fmt.Sprintf("race:%s:participants", race.Code)
	if err := rm.cacheRepo.SAdd(participantsKey, client.UserID); err != nil {
		log.Printf("[RaceManager] Ошибка добавления участника в кеш: %v", err)
	}

	players, err := rm.playerRepo.ListByRace(race.Code)
	if err != nil {
		return fmt.Errorf("failed to list race players: %w", err)
	}

	online, err := rm.cacheRepo.SMembers(participantsKey)
	if err != nil {
		log.Printf("[RaceManager] Ошибка чтения presence-множества гонки %s: %v", race.Code, err)
	}

	// Новому клиенту — полный снимок, остальным — событие о новичке
	if err := rm.wsManager.SendEventToUser(client.UserID, websocket.RACE_STATE, RaceStatePayload{
		Race:    race,
		Players: players,
		Online:  online,
	}); err != nil {
		log.Printf("[RaceManager] Ошибка отправки снимка гонки %s: %v", race.Code, err)
	}

	return rm.wsManager.BroadcastEventToRace(race.Code, websocket.RACE_PLAYER_JOINED, PlayerJoinedPayload{
		RaceCode:    race.Code,
		UserID:      client.UserID,
		Username:    client.Username,
		PlayerCount: race.PlayerCount,
	})
}

// HandleRaceStart запускает гонку через сервис и оповещает участников.
// Переход waiting → running атомарный: из двух одновременных стартов
// только один выставит start_time.
func (rm *RaceManager) HandleRaceStart(code string, userID uint) error {
	race, err := rm.raceService.StartRace(code, userID)
	if err != nil {
		return err
	}

	// Кешируем состояние: путь прогресса не читает гонку на каждый кадр
	rm.stateMutex.Lock()
	rm.states[code] = racemanager.NewActiveRaceState(race)
	rm.stateMutex.Unlock()

	log.Printf("[RaceManager] Гонка %s стартовала (start_time=%v)", code, race.StartTime)

	return rm.wsManager.BroadcastEventToRace(code, websocket.RACE_STARTED, RaceStartedPayload{
		RaceCode:  code,
		StartTime: *race.StartTime,
	})
}

// HandleProgress обрабатывает кадр ввода игрока: считает метрики,
// сохраняет их и рассылает участникам. Финишный кадр дополнительно
// запускает арбитраж победителя.
func (rm *RaceManager) HandleProgress(userID uint, username, code, typed string) error {
	state, err := rm.getOrLoadState(code)
	if err != nil {
		return err
	}

	race := state.SnapshotRace()
	if !race.IsRunning() && !race.IsFinished() {
		return fmt.Errorf("%w: race %s has not started", apperrors.ErrConflict, code)
	}

	elapsed := race.Elapsed(time.Now())
	metrics := racemanager.ComputeMetrics(typed, race.ParagraphText, elapsed)

	if metrics.Finished {
		return rm.finishPlayer(state, userID, username, metrics, elapsed)
	}

	// Обычный кадр: запись матчит строку участника с finished_time IS NULL
	updated, err := rm.playerRepo.UpdateProgress(code, userID, metrics.Progress, metrics.WPM, metrics.Accuracy)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	// Кадр не от участника гонки (или игрок уже финишировал) — в комнату
	// ничего не транслируется
	if !updated {
		return nil
	}

	return rm.wsManager.BroadcastEventToRace(code, websocket.RACE_PLAYER_PROGRESS, PlayerProgressPayload{
		RaceCode: code,
		UserID:   userID,
		Username: username,
		Progress: metrics.Progress,
		WPM:      metrics.WPM,
		Accuracy: metrics.Accuracy,
	})
}

// HandlePlayerLeave отписывает клиента от гонки
func (rm *RaceManager) HandlePlayerLeave(client *websocket.Client) {
	code := client.RaceCode()
	if code == "" {
		return
	}

	participantsKey := fmt.Sprintf("race:%s:participants", code)
	if err := rm.cacheRepo.SRem(participantsKey, client.UserID); err != nil {
		log.Printf("[RaceManager] Ошибка удаления участника из кеша: %v", err)
	}

	rm.wsManager.UnsubscribeClientFromRace(client)
	log.Printf("[RaceManager] Игрок %s покинул гонку %s", client.Username, code)
}

// finishPlayer фиксирует финиш игрока и проводит арбитраж победителя
func (rm *RaceManager) finishPlayer(state *racemanager.ActiveRaceState, userID uint, username string, metrics racemanager.PlayerMetrics, elapsed float64) error {
	race := state.SnapshotRace()
	code := race.Code

	// Повторный финишный кадр от того же игрока отсекается еще в памяти
	if !state.MarkFinished(userID) {
		return nil
	}

	// Finish в БД пишется не более раза: страховка от дублей между процессами
	wrote, err := rm.playerRepo.Finish(code, userID, elapsed, metrics.WPM, metrics.Accuracy)
	if err != nil {
		return fmt.Errorf("failed to record finish: %w", err)
	}
	if !wrote {
		return nil
	}

	log.Printf("[RaceManager] Игрок %s финишировал в гонке %s (time=%.2fs, wpm=%d)", username, code, elapsed, metrics.WPM)

	if err := rm.wsManager.BroadcastEventToRace(code, websocket.RACE_PLAYER_FINISHED, PlayerFinishedPayload{
		RaceCode:     code,
		UserID:       userID,
		Username:     username,
		WPM:          metrics.WPM,
		Accuracy:     metrics.Accuracy,
		FinishedTime: elapsed,
	}); err != nil {
		log.Printf("[RaceManager] Ошибка рассылки финиша: %v", err)
	}

	// Арбитраж победителя: кто первым прошел conditional UPDATE, тот и выиграл.
	// Проигрыш записи — штатный исход для всех, кроме первого финишера.
	err = rm.raceRepo.AtomicSetWinner(code, userID)
	if errors.Is(err, repository.ErrWinnerAlreadySet) {
		rm.recordPlayerResult(code, userID, username, metrics, elapsed, false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to set winner: %w", err)
	}

	winnerID := userID
	state.SetStatus(entity.RaceStatusFinished, nil, &winnerID)
	rm.recordPlayerResult(code, userID, username, metrics, elapsed, true)

	// Состояние еще нужно отстающим игрокам, поэтому чистим его с задержкой
	time.AfterFunc(rm.config.StateTTL, func() {
		rm.CleanupFinishedState(code)
	})

	return rm.broadcastRaceFinished(code, winnerID)
}

// broadcastRaceFinished рассылает итоговую таблицу после определения победителя
func (rm *RaceManager) broadcastRaceFinished(code string, winnerID uint) error {
	standings, err := rm.raceService.GetStandings(code)
	if err != nil {
		return err
	}

	log.Printf("[RaceManager] Гонка %s завершена, победитель #%d", code, winnerID)

	return rm.wsManager.BroadcastEventToRace(code, websocket.RACE_FINISHED, RaceFinishedPayload{
		RaceCode:  code,
		WinnerID:  winnerID,
		Standings: standings,
	})
}

// recordPlayerResult пишет итог заезда в историю и карьерную статистику
func (rm *RaceManager) recordPlayerResult(code string, userID uint, username string, metrics racemanager.PlayerMetrics, elapsed float64, won bool) {
	result := &entity.TypingResult{
		UserID:      userID,
		Username:    username,
		Mode:        entity.ResultModeRace,
		RaceCode:    code,
		WPM:         metrics.WPM,
		Accuracy:    metrics.Accuracy,
		DurationSec: elapsed,
		IsWin:       won,
	}
	if err := rm.resultRepo.Create(result); err != nil {
		log.Printf("[RaceManager] Ошибка записи результата гонки %s для #%d: %v", code, userID, err)
	}

	if err := rm.userRepo.RecordRaceResult(userID, metrics.WPM, won); err != nil {
		log.Printf("[RaceManager] Ошибка обновления статистики #%d: %v", userID, err)
	}
}

// getOrLoadState возвращает состояние активной гонки, при промахе
// поднимая его из БД (рестарт процесса, гонка стартована другим узлом)
func (rm *RaceManager) getOrLoadState(code string) (*racemanager.ActiveRaceState, error) {
	rm.stateMutex.RLock()
	state, ok := rm.states[code]
	rm.stateMutex.RUnlock()
	if ok {
		return state, nil
	}

	race, err := rm.raceRepo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: race %s not found", apperrors.ErrNotFound, code)
	}

	rm.stateMutex.Lock()
	defer rm.stateMutex.Unlock()
	if existing, ok := rm.states[code]; ok {
		return existing, nil
	}
	state = racemanager.NewActiveRaceState(race)
	rm.states[code] = state
	return state, nil
}

// CleanupFinishedState убирает состояние завершенной гонки из памяти
// и ее presence-множество из Redis
func (rm *RaceManager) CleanupFinishedState(code string) {
	rm.stateMutex.Lock()
	delete(rm.states, code)
	rm.stateMutex.Unlock()

	participantsKey := fmt.Sprintf("race:%s:participants", code)
	if err := rm.cacheRepo.Delete(participantsKey); err != nil {
		log.Printf("[RaceManager] Не удалось удалить presence-множество гонки %s: %v", code, err)
	}
}
