package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/typerush-api/internal/middleware"
	"github.com/yourusername/typerush-api/internal/service"
)

// PracticeHandler обрабатывает одиночные тренировки и тексты для набора
type PracticeHandler struct {
	paragraphService *service.ParagraphService
	resultService    *service.ResultService
}

// NewPracticeHandler создает новый обработчик тренировок
func NewPracticeHandler(paragraphService *service.ParagraphService, resultService *service.ResultService) *PracticeHandler {
	return &PracticeHandler{
		paragraphService: paragraphService,
		resultService:    resultService,
	}
}

// SubmitPracticeRequest представляет запрос на сохранение тренировки
type SubmitPracticeRequest struct {
	ParagraphID uint    `json:"paragraph_id" binding:"required"`
	Typed       string  `json:"typed" binding:"required"`
	DurationSec float64 `json:"duration_sec" binding:"required,gt=0"`
}

// CreateParagraphRequest представляет запрос на добавление текста (admin)
type CreateParagraphRequest struct {
	Text       string `json:"text" binding:"required,min=20"`
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// GetRandomParagraph возвращает случайный текст для тренировки
func (h *PracticeHandler) GetRandomParagraph(c *gin.Context) {
	difficulty := c.Query("difficulty")

	paragraph, err := h.paragraphService.GetRandom(difficulty)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paragraph": paragraph})
}

// CreateParagraph добавляет новый текст для набора (только администратор)
func (h *PracticeHandler) CreateParagraph(c *gin.Context) {
	var req CreateParagraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paragraph, err := h.paragraphService.CreateParagraph(req.Text, req.Difficulty)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"paragraph": paragraph})
}

// SubmitPractice сохраняет результат одиночной тренировки
func (h *PracticeHandler) SubmitPractice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubmitPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.resultService.SubmitPractice(userID, service.PracticeInput{
		ParagraphID: req.ParagraphID,
		Typed:       req.Typed,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// GetMyResults возвращает историю заездов текущего пользователя
func (h *PracticeHandler) GetMyResults(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	results, total, err := h.resultService.GetUserResults(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":  results,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// GetRecentResults возвращает последние заезды по всем пользователям
func (h *PracticeHandler) GetRecentResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.resultService.GetRecentResults(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
