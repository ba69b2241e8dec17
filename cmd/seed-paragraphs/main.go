package main

import (
	"log"
	"os"

	"github.com/yourusername/typerush-api/internal/config"
	"github.com/yourusername/typerush-api/internal/domain/entity"
	pgRepo "github.com/yourusername/typerush-api/internal/repository/postgres"
	"github.com/yourusername/typerush-api/pkg/database"
)

// Стартовый корпус текстов для набора. Загружается один раз:
// повторный запуск сидера на непустой таблице ничего не делает.
var seedParagraphs = []entity.Paragraph{
	{
		Text:       "The quick brown fox jumps over the lazy dog while the cat watches from the warm windowsill.",
		Difficulty: entity.ParagraphDifficultyEasy,
	},
	{
		Text:       "Every morning the baker opens his shop before sunrise and fills the street with the smell of fresh bread.",
		Difficulty: entity.ParagraphDifficultyEasy,
	},
	{
		Text:       "A small boat drifted along the quiet river as birds sang in the trees that lined both banks of the water.",
		Difficulty: entity.ParagraphDifficultyEasy,
	},
	{
		Text:       "Typing speed improves with regular practice, but accuracy matters more than raw speed when every mistake costs time to correct.",
		Difficulty: entity.ParagraphDifficultyMedium,
	},
	{
		Text:       "The old lighthouse keeper climbed the spiral staircase each evening, carrying his lantern through the salt-heavy air to light the beacon.",
		Difficulty: entity.ParagraphDifficultyMedium,
	},
	{
		Text:       "Modern software systems depend on dozens of interconnected services, each with its own failure modes, latencies, and operational quirks.",
		Difficulty: entity.ParagraphDifficultyMedium,
	},
	{
		Text:       "Quantum entanglement describes a phenomenon whereby particles remain correlated across arbitrary distances; measuring one instantaneously constrains the state of its distant partner.",
		Difficulty: entity.ParagraphDifficultyHard,
	},
	{
		Text:       "The juxtaposition of Byzantine bureaucracy and entrepreneurial zeal produced a paradoxical economy: simultaneously sclerotic in its institutions and kaleidoscopic in its improvisations.",
		Difficulty: entity.ParagraphDifficultyHard,
	},
	{
		Text:       "Cryptographic protocols must withstand adversaries who control the network entirely; confidentiality, integrity, and authenticity each require distinct mathematical guarantees.",
		Difficulty: entity.ParagraphDifficultyHard,
	},
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	paragraphRepo := pgRepo.NewParagraphRepo(db)

	count, err := paragraphRepo.Count()
	if err != nil {
		log.Fatalf("Failed to count paragraphs: %v", err)
	}
	if count > 0 {
		log.Printf("Таблица paragraphs уже содержит %d записей, сидирование пропущено", count)
		return
	}

	for i := range seedParagraphs {
		seedParagraphs[i].WordCount = seedParagraphs[i].CountWords()
	}

	if err := paragraphRepo.CreateBatch(seedParagraphs); err != nil {
		log.Fatalf("Failed to seed paragraphs: %v", err)
	}

	log.Printf("Загружено %d стартовых параграфов", len(seedParagraphs))
}
