package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/typerush-api/internal/handler/dto"
	"github.com/yourusername/typerush-api/internal/middleware"
	"github.com/yourusername/typerush-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetLeaderboard возвращает пагинированный лидерборд
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	response, err := h.userService.GetLeaderboard(page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetDashboard возвращает сводку текущего пользователя
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dashboard, err := h.userService.GetDashboard(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ExportLeaderboard экспортирует лидерборд в CSV или XLSX.
// Формат выбирается query-параметром format (по умолчанию csv).
func (h *UserHandler) ExportLeaderboard(c *gin.Context) {
	// Экспортируем первые 100 позиций одним куском
	response, err := h.userService.GetLeaderboard(1, 100)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "xlsx":
		h.exportXLSX(c, response.Users, "leaderboard")
	case "csv":
		h.exportCSV(c, response.Users, "leaderboard")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv or xlsx"})
	}
}

// exportCSV пишет лидерборд в CSV прямо в response
func (h *UserHandler) exportCSV(c *gin.Context, users []*dto.LeaderboardUserDTO, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Пользователь", "Гонок", "Побед", "Лучший WPM", "Средний WPM"})
	for _, u := range users {
		writer.Write([]string{
			strconv.Itoa(u.Rank),
			sanitizeForExcel(u.Username),
			strconv.FormatInt(u.RacesPlayed, 10),
			strconv.FormatInt(u.RacesWon, 10),
			strconv.Itoa(u.BestWPM),
			strconv.Itoa(u.AvgWPM),
		})
	}
}

// exportXLSX экспортирует лидерборд в Excel с использованием StreamWriter
func (h *UserHandler) exportXLSX(c *gin.Context, users []*dto.LeaderboardUserDTO, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[UserHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Пользователь", "Гонок", "Побед", "Лучший WPM", "Средний WPM"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[UserHandler] Ошибка записи заголовков: %v", err)
	}

	for i, u := range users {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{u.Rank, sanitizeForExcel(u.Username), u.RacesPlayed, u.RacesWon, u.BestWPM, u.AvgWPM}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[UserHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[UserHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[UserHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
