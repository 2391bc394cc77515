package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/tinnitus-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s (model %s)\n", maskToken(cfg.GeminiAPIKey), cfg.GeminiModel)
	fmt.Printf("  - Admin Telegram IDs: %v\n", cfg.AdminTelegramIDs)
	fmt.Printf("  - DB Driver: %s\n", cfg.DB.Driver)
	if cfg.DB.Driver == "sqlite" {
		fmt.Printf("  - DB Path: %s\n", cfg.DB.Path)
	} else {
		fmt.Printf("  - DB Host: %s:%s\n", cfg.DB.Host, cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	if cfg.Redis.Host != "" {
		fmt.Printf("  - Redis: %s:%s db %d\n", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	} else {
		fmt.Printf("  - Redis: <disabled, state kept in memory>\n")
	}
	if cfg.HTTP.Addr != "" {
		fmt.Printf("  - HTTP API: %s (token %s)\n", cfg.HTTP.Addr, maskToken(cfg.HTTP.APIToken))
		fmt.Printf("  - CORS Origins: %v\n", cfg.HTTP.CORSOrigins)
	} else {
		fmt.Printf("  - HTTP API: <disabled>\n")
	}
	fmt.Printf("  - Report Timezone: %s\n", cfg.Report.Timezone)
	fmt.Printf("  - Monthly Reports Extend To Month End: %t\n", cfg.Report.ExtendMonthToEnd)
	fmt.Printf("  - Suggestion Thresholds: high >= %.1f, progress <= %.1f\n",
		cfg.Report.HighScoreThreshold, cfg.Report.ProgressThreshold)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
