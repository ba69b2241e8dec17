package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	defaultWriteWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	defaultPongWait = 60 * time.Second

	// Максимальный размер сообщения. Клиент шлет набранный текст целиком,
	// поэтому лимит заметно больше, чем для чисто командных протоколов.
	defaultMaxMessageSize = 4096

	// Размер буфера канала отправки сообщений клиенту
	defaultClientBufferSize = 64
)

// ClientConfig содержит настройки для клиента
type ClientConfig struct {
	BufferSize     int
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// DefaultClientConfig возвращает конфигурацию клиента по умолчанию
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BufferSize:     defaultClientBufferSize,
		PingInterval:   (defaultPongWait * 9) / 10,
		PongWait:       defaultPongWait,
		WriteWait:      defaultWriteWait,
		MaxMessageSize: defaultMaxMessageSize,
	}
}

// Client является посредником между WebSocket соединением и хабом.
type Client struct {
	// ID и имя пользователя (из WS-тикета)
	UserID   uint
	Username string

	// Уникальный ID для каждого соединения: один пользователь может
	// держать несколько вкладок
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал для исходящих сообщений
	send chan []byte

	// Код гонки, на которую подписано соединение ("" если ни на одну)
	raceMu   sync.RWMutex
	raceCode string

	config ClientConfig

	closeOnce sync.Once
}

// NewClient создает клиента для принятого WebSocket-соединения
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username string, config ClientConfig) *Client {
	return &Client{
		UserID:       userID,
		Username:     username,
		ConnectionID: uuid.NewString(),
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, config.BufferSize),
		config:       config,
	}
}

// RaceCode возвращает код гонки, на которую подписано соединение
func (c *Client) RaceCode() string {
	c.raceMu.RLock()
	defer c.raceMu.RUnlock()
	return c.raceCode
}

func (c *Client) setRaceCode(code string) {
	c.raceMu.Lock()
	c.raceCode = code
	c.raceMu.Unlock()
}

// Send ставит сообщение в очередь отправки. При переполненном буфере
// сообщение отбрасывается: промежуточные кадры прогресса не критичны,
// актуальное состояние придет со следующим обновлением.
func (c *Client) Send(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		log.Printf("[WebSocket] Буфер клиента %s (user %d) переполнен, кадр отброшен", c.ConnectionID, c.UserID)
		return false
	}
}

// close закрывает канал отправки ровно один раз
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump читает сообщения из WebSocket-соединения и передает их менеджеру.
// Запускается в отдельной горутине на соединение; завершение означает
// отключение клиента.
func (c *Client) ReadPump(manager *Manager) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Неожиданное закрытие соединения %s (user %d): %v", c.ConnectionID, c.UserID, err)
			}
			break
		}

		if err := manager.HandleMessage(message, c); err != nil {
			// Фатальная ошибка обработки - закрываем соединение
			log.Printf("[WebSocket] Закрытие соединения %s (user %d) после ошибки обработчика: %v", c.ConnectionID, c.UserID, err)
			break
		}
	}
}

// WritePump пишет сообщения из канала send в WebSocket-соединение
// и периодически шлет ping. Запускается в отдельной горутине на соединение.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
