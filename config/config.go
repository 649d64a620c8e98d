package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the scraper configuration
type Config struct {
	// SiteURL is the dining index page the discover stage starts from
	SiteURL  string `yaml:"site_url"`
	Timezone string `yaml:"timezone"`

	Files struct {
		Links    string `yaml:"links"`    // discover output
		Rendered string `yaml:"rendered"` // render output
		Resolved string `yaml:"resolved"` // resolve output
		Output   string `yaml:"output"`   // calories output
	} `yaml:"files"`

	Locations struct {
		Allowed []string `yaml:"allowed"`
	} `yaml:"locations"`

	Discover struct {
		SectionSelector string `yaml:"section_selector"`
		HeadingSelector string `yaml:"heading_selector"`
		MaxDepth        int    `yaml:"max_depth"`
	} `yaml:"discover"`

	Browser BrowserConfig `yaml:"browser"`

	HTTP struct {
		UserAgent string        `yaml:"user_agent"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"http"`

	Annotate struct {
		Concurrency int           `yaml:"concurrency"`
		Timeout     time.Duration `yaml:"timeout"`
		CacheSize   int           `yaml:"cache_size"`
		Key         string        `yaml:"key"`
	} `yaml:"annotate"`

	Sheets struct {
		SpreadsheetURL  string `yaml:"spreadsheet_url"`
		CredentialsPath string `yaml:"credentials_path"`
		SheetName       string `yaml:"sheet_name"`
	} `yaml:"sheets"`

	Telegram struct {
		ChatID int64 `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// BrowserConfig configures the headless browser
type BrowserConfig struct {
	Bin             string        `yaml:"bin"`
	Headless        bool          `yaml:"headless"`
	UserDataDir     string        `yaml:"user_data_dir"`
	MenuSelector    string        `yaml:"menu_selector"`
	SelectorTimeout time.Duration `yaml:"selector_timeout"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
	// APIPattern matches the weeks API request a menu page issues
	APIPattern  string        `yaml:"api_pattern"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// TelegramTokenEnv holds the bot token used for notifications
const TelegramTokenEnv = "MENU_TELEGRAM_TOKEN"

// LoadConfig loads configuration from a YAML file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.SiteURL = "https://stonybrook.nutrislice.com/menu"
	cfg.Timezone = "America/New_York"

	cfg.Files.Links = "result.json"
	cfg.Files.Rendered = "fetched_data_with_date.json"
	cfg.Files.Resolved = "updated_menu_links.json"
	cfg.Files.Output = "filtered_menu_with_calories.json"

	cfg.Locations.Allowed = []string{
		"West Side Dining",
		"East Side Dining",
		"Jasmine",
		"Roth",
		"Student Activities Center",
	}

	cfg.Discover.SectionSelector = "section, li, div.location"
	cfg.Discover.HeadingSelector = "h1, h2, h3"
	cfg.Discover.MaxDepth = 2

	cfg.Browser.Headless = true
	cfg.Browser.MenuSelector = "ul.menu-day.show-description.show-calories.show-icons"
	cfg.Browser.SelectorTimeout = 30 * time.Second
	cfg.Browser.NavigateTimeout = 60 * time.Second
	cfg.Browser.APIPattern = `^https://[^/]+\.api\.nutrislice\.com/menu/api/weeks/school/.+/\d{4}/\d{2}/\d{2}/`
	cfg.Browser.IdleTimeout = 20 * time.Second

	cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	cfg.HTTP.Timeout = 30 * time.Second

	cfg.Annotate.Concurrency = 4
	cfg.Annotate.Timeout = 90 * time.Second
	cfg.Annotate.CacheSize = 256
	cfg.Annotate.Key = "menu_items"

	cfg.Sheets.SheetName = "Menu"
	return cfg
}

// Validate checks values that would otherwise fail deep inside a stage
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Annotate.Key) == "" {
		return fmt.Errorf("annotate.key must not be empty")
	}
	if c.Annotate.Concurrency < 0 {
		return fmt.Errorf("annotate.concurrency must not be negative, got %d", c.Annotate.Concurrency)
	}
	if c.Annotate.CacheSize <= 0 {
		return fmt.Errorf("annotate.cache_size must be positive, got %d", c.Annotate.CacheSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone "today" is computed in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadEnv loads a .env file into the environment if one exists
func LoadEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// TelegramToken returns the notification bot token from the environment
func TelegramToken() string {
	return strings.TrimSpace(os.Getenv(TelegramTokenEnv))
}
