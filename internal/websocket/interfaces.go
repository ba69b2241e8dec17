package websocket

// HubInterface объединяет возможности хаба для Manager.
// Выделен в интерфейс, чтобы сервисы и тесты не зависели от конкретного хаба.
type HubInterface interface {
	// BroadcastJSON отправляет структуру JSON всем клиентам
	BroadcastJSON(v interface{}) error

	// SendJSONToUser отправляет структуру JSON конкретному пользователю
	SendJSONToUser(userID uint, v interface{}) error

	// BroadcastToRace отправляет байтовое сообщение всем подписчикам гонки
	BroadcastToRace(raceCode string, message []byte)

	// SubscribeToRace подписывает клиента на события гонки
	SubscribeToRace(client *Client, raceCode string)

	// UnsubscribeFromRace отписывает клиента от текущей гонки
	UnsubscribeFromRace(client *Client)

	// GetRaceSubscribers возвращает ID пользователей, подписанных на гонку
	GetRaceSubscribers(raceCode string) []uint

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
