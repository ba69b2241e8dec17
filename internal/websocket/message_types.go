package websocket

// Типы входящих сообщений (от клиента)
const (
	// RACE_JOIN подписывает соединение на события гонки
	RACE_JOIN = "race:join"

	// RACE_START запускает гонку (только хост)
	RACE_START = "race:start"

	// RACE_PROGRESS передает текущий набранный текст игрока
	RACE_PROGRESS = "race:progress"

	// RACE_LEAVE отписывает соединение от событий гонки
	RACE_LEAVE = "race:leave"
)

// Типы исходящих сообщений (к клиентам)
const (
	// RACE_STATE полный снапшот гонки (отправляется после подписки)
	RACE_STATE = "race:state"

	// RACE_STARTED гонка запущена, start_time назначен
	RACE_STARTED = "race:started"

	// RACE_PLAYER_JOINED к гонке присоединился игрок
	RACE_PLAYER_JOINED = "race:player_joined"

	// RACE_PLAYER_PROGRESS обновление метрик одного игрока
	RACE_PLAYER_PROGRESS = "race:player_progress"

	// RACE_PLAYER_FINISHED игрок финишировал
	RACE_PLAYER_FINISHED = "race:player_finished"

	// RACE_FINISHED гонка завершена, победитель записан
	RACE_FINISHED = "race:finished"

	// SERVER_ERROR стандартизированное сообщение об ошибке
	SERVER_ERROR = "server:error"
)
