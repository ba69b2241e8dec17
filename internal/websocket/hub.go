package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/typerush-api/internal/config"
)

// Hub управляет всеми активными WebSocket-клиентами и комнатами гонок.
// Гонки маленькие (единицы игроков), поэтому один хаб без шардирования:
// все операции с картами идут через цикл Run и каналы регистрации,
// рассылки читают под RWMutex.
type Hub struct {
	mu sync.RWMutex

	// Все подключенные клиенты
	clients map[*Client]bool

	// Соединения по пользователю (одна учетка - несколько вкладок)
	byUser map[uint]map[*Client]bool

	// Комнаты гонок: код гонки → подписанные клиенты
	races map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	clientConfig ClientConfig
}

// NewHub создает новый хаб из конфигурации WebSocket-подсистемы
func NewHub(cfg config.WebSocketConfig) *Hub {
	clientConfig := DefaultClientConfig()
	if cfg.Buffers.ClientSendBuffer > 0 {
		clientConfig.BufferSize = cfg.Buffers.ClientSendBuffer
	}
	if cfg.Limits.MaxMessageSize > 0 {
		clientConfig.MaxMessageSize = int64(cfg.Limits.MaxMessageSize)
	}
	if cfg.Limits.WriteWait > 0 {
		clientConfig.WriteWait = time.Duration(cfg.Limits.WriteWait) * time.Second
	}
	if cfg.Limits.PongWait > 0 {
		clientConfig.PongWait = time.Duration(cfg.Limits.PongWait) * time.Second
		clientConfig.PingInterval = (clientConfig.PongWait * 9) / 10
	}
	if cfg.Ping.Interval > 0 {
		clientConfig.PingInterval = time.Duration(cfg.Ping.Interval) * time.Second
	}

	registerBuffer := cfg.Buffers.RegisterBuffer
	if registerBuffer <= 0 {
		registerBuffer = 32
	}
	unregisterBuffer := cfg.Buffers.UnregisterBuffer
	if unregisterBuffer <= 0 {
		unregisterBuffer = 32
	}
	broadcastBuffer := cfg.Buffers.BroadcastBuffer
	if broadcastBuffer <= 0 {
		broadcastBuffer = 128
	}

	return &Hub{
		clients:      make(map[*Client]bool),
		byUser:       make(map[uint]map[*Client]bool),
		races:        make(map[string]map[*Client]bool),
		register:     make(chan *Client, registerBuffer),
		unregister:   make(chan *Client, unregisterBuffer),
		broadcast:    make(chan []byte, broadcastBuffer),
		clientConfig: clientConfig,
	}
}

// ClientConfig возвращает настройки клиентов этого хаба
func (h *Hub) ClientConfig() ClientConfig {
	return h.clientConfig
}

// Register ставит клиента в очередь на регистрацию
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run обрабатывает регистрацию, отключение и широковещательные рассылки.
// Запускается один раз в отдельной горутине.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.Send(message)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.byUser[client.UserID] == nil {
		h.byUser[client.UserID] = make(map[*Client]bool)
	}
	h.byUser[client.UserID][client] = true
	log.Printf("[Hub] Клиент %s (user %d) подключен, всего клиентов: %d", client.ConnectionID, client.UserID, len(h.clients))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	if conns, ok := h.byUser[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.byUser, client.UserID)
		}
	}
	if code := client.RaceCode(); code != "" {
		h.removeFromRaceLocked(client, code)
	}
	client.close()
	log.Printf("[Hub] Клиент %s (user %d) отключен, всего клиентов: %d", client.ConnectionID, client.UserID, len(h.clients))
}

// SubscribeToRace подписывает клиента на события гонки.
// Предыдущая подписка соединения снимается: одно соединение - одна гонка.
func (h *Hub) SubscribeToRace(client *Client, raceCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev := client.RaceCode(); prev != "" && prev != raceCode {
		h.removeFromRaceLocked(client, prev)
	}

	if h.races[raceCode] == nil {
		h.races[raceCode] = make(map[*Client]bool)
	}
	h.races[raceCode][client] = true
	client.setRaceCode(raceCode)
	log.Printf("[Hub] Клиент %s (user %d) подписан на гонку %s", client.ConnectionID, client.UserID, raceCode)
}

// UnsubscribeFromRace отписывает клиента от текущей гонки
func (h *Hub) UnsubscribeFromRace(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if code := client.RaceCode(); code != "" {
		h.removeFromRaceLocked(client, code)
	}
}

func (h *Hub) removeFromRaceLocked(client *Client, raceCode string) {
	if room, ok := h.races[raceCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.races, raceCode)
		}
	}
	client.setRaceCode("")
}

// BroadcastToRace отправляет сообщение всем подписчикам гонки
func (h *Hub) BroadcastToRace(raceCode string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.races[raceCode] {
		client.Send(message)
	}
}

// GetRaceSubscribers возвращает ID пользователей, подписанных на гонку
func (h *Hub) GetRaceSubscribers(raceCode string) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uint]bool)
	var ids []uint
	for client := range h.races[raceCode] {
		if !seen[client.UserID] {
			seen[client.UserID] = true
			ids = append(ids, client.UserID)
		}
	}
	return ids
}

// BroadcastJSON отправляет структуру JSON всем клиентам
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}
	h.broadcast <- data
	return nil
}

// SendJSONToUser отправляет структуру JSON всем соединениям пользователя
func (h *Hub) SendJSONToUser(userID uint, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message for user %d: %w", userID, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.byUser[userID]
	if !ok || len(conns) == 0 {
		return fmt.Errorf("user %d has no active connections", userID)
	}
	for client := range conns {
		client.Send(data)
	}
	return nil
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
