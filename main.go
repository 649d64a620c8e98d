package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-scraper/config"
	"menu-scraper/menudate"
	"menu-scraper/models"
	"menu-scraper/notify"
	"menu-scraper/pipeline"
	"menu-scraper/sheets"
	"menu-scraper/tree"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	stageName := flag.String("stage", "all", "Stage to run: discover, render, resolve, calories, today or all")
	in := flag.String("in", "", "Input file (defaults to the stage's file from the config)")
	out := flag.String("out", "", "Output file (defaults to the stage's file from the config)")
	date := flag.String("date", "", "Menu date as YYYY-MM-DD (defaults to today in the configured time zone)")
	url := flag.String("url", "", "Dining index URL for discover, or a weeks API URL for today")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL to export the calorie table to")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	notifyChat := flag.Bool("notify", false, "Send a digest of the calorie table to the configured Telegram chat")
	concurrency := flag.Int("concurrency", -1, "Maximum concurrent resolver calls (0 = unbounded, 1 = sequential)")
	flag.Parse()

	config.LoadEnv()
	cfg := loadConfig(*configPath)
	if *concurrency >= 0 {
		cfg.Annotate.Concurrency = *concurrency
	}
	if *spreadsheetURL != "" {
		cfg.Sheets.SpreadsheetURL = *spreadsheetURL
	}
	if *credentialsPath != "" {
		cfg.Sheets.CredentialsPath = *credentialsPath
	}

	stage, err := pipeline.ParseStage(*stageName)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	day, err := menuDay(cfg, *date)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, day)
	log.Printf("Running stage %s for %s\n", stage, day.Format(menudate.DayLayout))

	var root tree.Node
	switch stage {
	case pipeline.StageToday:
		runToday(ctx, p, *url)
		return
	case pipeline.StageAll:
		root, err = p.RunAll(ctx, *url)
	case pipeline.StageDiscover:
		if *in == "" {
			*in = *url
		}
		root, err = p.Run(ctx, stage, *in, *out)
	default:
		root, err = p.Run(ctx, stage, *in, *out)
	}
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	if stage != pipeline.StageCalories && stage != pipeline.StageAll {
		return
	}

	rows := pipeline.Flatten(root, cfg.Annotate.Key)
	fmt.Printf("Found %d menu items across %d locations\n", len(rows), countLocations(rows))

	exportRows(ctx, cfg, rows)
	if *notifyChat {
		notifyRows(cfg, day, rows)
	}
}

// runToday prints the foods one weeks API URL serves on the pipeline day
func runToday(ctx context.Context, p *pipeline.Pipeline, apiURL string) {
	if apiURL == "" {
		log.Fatalf("Error: -url is required for the today stage\n")
	}

	names, err := p.Today(ctx, apiURL)
	if err != nil {
		log.Fatalf("Failed to fetch data: %v\n", err)
	}

	if len(names) == 0 {
		fmt.Println("No food items found for today.")
		return
	}

	fmt.Println("Today's Food Items:")
	for _, name := range names {
		fmt.Printf("- %s\n", name)
	}
}

// exportRows writes the calorie table to Google Sheets when a spreadsheet is configured
func exportRows(ctx context.Context, cfg *config.Config, rows []models.MenuRow) {
	if cfg.Sheets.SpreadsheetURL == "" {
		return
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
	if spreadsheetID == "" {
		log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", cfg.Sheets.SpreadsheetURL)
		return
	}

	writer, err := sheets.NewWriter(ctx, spreadsheetID, cfg.Sheets.CredentialsPath)
	if err != nil {
		log.Printf("Warning: Failed to initialize Google Sheets writer: %v\n", err)
		return
	}

	sheetID, err := writer.WriteMenu(ctx, cfg.Sheets.SheetName, rows)
	if err != nil {
		log.Printf("Warning: Failed to write to Google Sheets: %v\n", err)
		return
	}
	fmt.Printf("Successfully wrote %d menu items to %s\n", len(rows), sheets.SheetURL(cfg.Sheets.SpreadsheetURL, sheetID))
}

// notifyRows sends the daily digest to Telegram
func notifyRows(cfg *config.Config, day time.Time, rows []models.MenuRow) {
	n, err := notify.NewNotifier(config.TelegramToken(), cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("Warning: Failed to initialize notifier: %v\n", err)
		return
	}

	if err := n.Notify(day, rows); err != nil {
		log.Printf("Warning: Failed to send digest: %v\n", err)
	}
}

// menuDay returns the -date value or today in the configured time zone
func menuDay(cfg *config.Config, value string) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return menudate.Today(time.Now(), loc), nil
	}
	return menudate.Parse(value, loc)
}

func countLocations(rows []models.MenuRow) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.Location] = true
	}
	return len(seen)
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Printf("Warning: Failed to load config file: %v. Using defaults.\n", err)
			cfg = config.GetDefaultConfig()
		}
	} else {
		log.Println("Config file not found. Using default configuration.")
		cfg = config.GetDefaultConfig()
	}
	return cfg
}
