package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/yourusername/typerush-api/internal/middleware"
	"github.com/yourusername/typerush-api/internal/service"
)

// RaceHandler обрабатывает запросы, связанные с гонками
type RaceHandler struct {
	raceService *service.RaceService
	publicURL   string
}

// NewRaceHandler создает новый обработчик гонок
func NewRaceHandler(raceService *service.RaceService, publicURL string) *RaceHandler {
	return &RaceHandler{
		raceService: raceService,
		publicURL:   publicURL,
	}
}

// CreateRaceRequest представляет запрос на создание гонки
type CreateRaceRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// CreateRace создает новую гонку. Создатель становится хостом и первым участником.
func (h *RaceHandler) CreateRace(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateRaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	race, err := h.raceService.CreateRace(userID, req.Name, req.Difficulty)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"race": race})
}

// JoinRace присоединяет текущего пользователя к гонке по коду.
// Повторный запрос того же пользователя безопасен: вернется та же гонка.
func (h *RaceHandler) JoinRace(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	code := c.GetString("race_code")

	race, err := h.raceService.JoinRace(code, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"race": race})
}

// StartRace запускает гонку (только хост)
func (h *RaceHandler) StartRace(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	code := c.GetString("race_code")

	race, err := h.raceService.StartRace(code, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("[RaceHandler] Гонка %s запущена пользователем #%d", code, userID)
	c.JSON(http.StatusOK, gin.H{"race": race})
}

// GetRace возвращает гонку с участниками
func (h *RaceHandler) GetRace(c *gin.Context) {
	code := c.GetString("race_code")

	race, err := h.raceService.GetRace(code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"race": race})
}

// GetStandings возвращает таблицу результатов гонки
func (h *RaceHandler) GetStandings(c *gin.Context) {
	code := c.GetString("race_code")

	standings, err := h.raceService.GetStandings(code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}

// ListRaces возвращает список гонок с пагинацией
func (h *RaceHandler) ListRaces(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	races, err := h.raceService.ListRaces(limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"races": races})
}

// ShareQR отдает PNG с QR-кодом ссылки на присоединение к гонке
func (h *RaceHandler) ShareQR(c *gin.Context) {
	code := c.GetString("race_code")

	// Проверяем существование гонки: QR на несуществующий код бесполезен
	if _, err := h.raceService.GetRace(code); err != nil {
		handleServiceError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	if size < 64 || size > 1024 {
		size = 256
	}

	joinURL := fmt.Sprintf("%s/race/%s", h.publicURL, code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, size)
	if err != nil {
		log.Printf("[RaceHandler] Ошибка генерации QR для гонки %s: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "QR generation failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
