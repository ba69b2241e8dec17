package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/yourusername/typerush-api/internal/service"
	"github.com/yourusername/typerush-api/internal/websocket"
	"github.com/yourusername/typerush-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения
type WSHandler struct {
	wsHub       *websocket.Hub
	wsManager   *websocket.Manager
	raceService *service.RaceService
	raceManager *service.RaceManager
	jwtService  *auth.JWTService
	upgrader    gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(
	wsHub *websocket.Hub,
	wsManager *websocket.Manager,
	raceService *service.RaceService,
	raceManager *service.RaceManager,
	jwtService *auth.JWTService,
	allowedOrigins []string,
) *WSHandler {
	handler := &WSHandler{
		wsHub:       wsHub,
		wsManager:   wsManager,
		raceService: raceService,
		raceManager: raceManager,
		jwtService:  jwtService,
	}

	handler.upgrader = gorillaws.Upgrader{
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Пустой Origin — не браузерный клиент (curl, мобильное приложение)
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
			return false
		},
	}

	// Регистрируем обработчики сообщений один раз при создании обработчика
	handler.registerMessageHandlers()

	return handler
}

// HandleConnection обрабатывает входящее WebSocket соединение.
// Аутентификация — через короткоживущий тикет (?ticket=...), чтобы
// access-токен не попадал в query string и логи прокси.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication ticket parameter"})
		return
	}

	claims, err := h.jwtService.ParseWSTicket(ticket)
	if err != nil {
		log.Printf("WebSocket: Invalid or expired ticket - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired ticket"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}

	log.Printf("WebSocket: Connection upgraded for UserID: %d", claims.UserID)

	client := websocket.NewClient(h.wsHub, conn, claims.UserID, claims.Username, h.wsHub.ClientConfig())
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.wsManager)
}

// registerMessageHandlers регистрирует обработчики для различных типов сообщений
func (h *WSHandler) registerMessageHandlers() {
	// Подписка на гонку. Присоединение идемпотентно: повторный race:join
	// того же пользователя просто пересылает текущее состояние.
	h.wsManager.RegisterHandler(websocket.RACE_JOIN, func(data json.RawMessage, client *websocket.Client) error {
		var joinEvent struct {
			RaceCode string `json:"race_code"`
		}
		if err := json.Unmarshal(data, &joinEvent); err != nil {
			log.Printf("[WSHandler] Ошибка парсинга race:join: %v, Data: %s", err, string(data))
			h.wsManager.SendErrorToClient(client, "invalid_format", "Failed to parse race:join event")
			return err
		}

		race, err := h.raceService.JoinRace(joinEvent.RaceCode, client.UserID)
		if err != nil {
			log.Printf("[WSHandler] Ошибка присоединения user %d к гонке %s: %v", client.UserID, joinEvent.RaceCode, err)
			h.wsManager.SendErrorToClient(client, "join_error", err.Error())
			return nil // не закрываем соединение
		}

		if err := h.raceManager.HandlePlayerJoined(client, race); err != nil {
			log.Printf("[WSHandler] Ошибка обработки входа в гонку %s: %v", joinEvent.RaceCode, err)
			h.wsManager.SendErrorToClient(client, "join_error", err.Error())
		}
		return nil
	})

	// Старт гонки (только хост)
	h.wsManager.RegisterHandler(websocket.RACE_START, func(data json.RawMessage, client *websocket.Client) error {
		var startEvent struct {
			RaceCode string `json:"race_code"`
		}
		if err := json.Unmarshal(data, &startEvent); err != nil {
			log.Printf("[WSHandler] Ошибка парсинга race:start: %v, Data: %s", err, string(data))
			h.wsManager.SendErrorToClient(client, "invalid_format", "Failed to parse race:start event")
			return err
		}

		if err := h.raceManager.HandleRaceStart(startEvent.RaceCode, client.UserID); err != nil {
			log.Printf("[WSHandler] Ошибка старта гонки %s пользователем %d: %v", startEvent.RaceCode, client.UserID, err)
			h.wsManager.SendErrorToClient(client, "start_error", err.Error())
		}
		return nil
	})

	// Кадр прогресса: клиент шлет весь набранный текст, метрики считает сервер
	h.wsManager.RegisterHandler(websocket.RACE_PROGRESS, func(data json.RawMessage, client *websocket.Client) error {
		var progressEvent struct {
			RaceCode string `json:"race_code"`
			Typed    string `json:"typed"`
		}
		if err := json.Unmarshal(data, &progressEvent); err != nil {
			log.Printf("[WSHandler] Ошибка парсинга race:progress: %v", err)
			h.wsManager.SendErrorToClient(client, "invalid_format", "Failed to parse race:progress event")
			return err
		}

		if err := h.raceManager.HandleProgress(client.UserID, client.Username, progressEvent.RaceCode, progressEvent.Typed); err != nil {
			log.Printf("[WSHandler] Ошибка обработки прогресса user %d в гонке %s: %v", client.UserID, progressEvent.RaceCode, err)
			h.wsManager.SendErrorToClient(client, "progress_error", err.Error())
		}
		return nil
	})

	// Выход из гонки
	h.wsManager.RegisterHandler(websocket.RACE_LEAVE, func(data json.RawMessage, client *websocket.Client) error {
		h.raceManager.HandlePlayerLeave(client)
		return nil
	})
}
