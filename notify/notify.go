// Package notify sends a daily menu digest to a Telegram chat.
package notify

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"menu-scraper/menudate"
	"menu-scraper/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLen is the Telegram limit for one message
const MaxMessageLen = 4096

// Sender is the part of tgbotapi.BotAPI the notifier needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts digests to one chat
type Notifier struct {
	sender Sender
	chatID int64
}

// NewNotifier creates a notifier backed by the Telegram bot API
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat ID is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	log.Printf("Authorized on account %s\n", bot.Self.UserName)

	return NewNotifierWithSender(bot, chatID), nil
}

// NewNotifierWithSender creates a notifier that sends through s
func NewNotifierWithSender(s Sender, chatID int64) *Notifier {
	return &Notifier{
		sender: s,
		chatID: chatID,
	}
}

// Notify sends the digest for day, split over as many messages as needed
func (n *Notifier) Notify(day time.Time, rows []models.MenuRow) error {
	for i, part := range SplitMessage(FormatDigest(day, rows), MaxMessageLen) {
		msg := tgbotapi.NewMessage(n.chatID, part)
		if _, err := n.sender.Send(msg); err != nil {
			return fmt.Errorf("failed to send message %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatDigest summarizes rows per location and menu: the item count and the
// calorie range
func FormatDigest(day time.Time, rows []models.MenuRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 Menu for %s\n", day.Format(menudate.DayLayout))

	if len(rows) == 0 {
		b.WriteString("No menu items found.")
		return b.String()
	}

	location := ""
	for i := 0; i < len(rows); {
		row := rows[i]
		if row.Location != location || i == 0 {
			location = row.Location
			fmt.Fprintf(&b, "\n%s\n", location)
		}

		// rows of one menu are contiguous
		count, low, high := 0, row.Calories, row.Calories
		for ; i < len(rows) && rows[i].Location == row.Location && rows[i].Menu == row.Menu; i++ {
			count++
			low = min(low, rows[i].Calories)
			high = max(high, rows[i].Calories)
		}

		name := row.Menu
		if name == "" {
			name = "Menu"
		}
		fmt.Fprintf(&b, "  %s: %d items, %d-%d kcal\n", name, count, low, high)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// SplitMessage splits text into parts of at most maxLen bytes, breaking at
// line ends where possible and never inside a UTF-8 sequence
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, strings.TrimSuffix(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if current.Len()+len(line)+1 > maxLen {
			flush()
		}

		// If a single line is too long, split it
		for len(line) > maxLen {
			cut := maxLen
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}

		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return parts
}
