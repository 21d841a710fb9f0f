// Package notify delivers the refreshed search strings to a Telegram
// chat, so a player gets the day's copy-paste query pushed instead of
// having to open the page.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTgInit, err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTgChatID, err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send pushes the day's result to the configured chat, retrying with a
// linear backoff on transient failures.
func (c *Client) Send(result engine.Result) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(result))
	msg.ParseMode = tgbotapi.ModeMarkdown

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("%s after %d retries: %w", config.ErrNotifySend, c.maxRetries, lastErr)
}

// formatMessage renders the result as a Markdown message. The combined
// query sits in a code block so the Telegram client offers one-tap copy.
func formatMessage(result engine.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", config.AppName)
	fmt.Fprintf(&b, "Updated: %s\n\n", result.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))

	for _, q := range result.Queries {
		fmt.Fprintf(&b, "%s: `%s` (%d-%d days ago)\n", q.Name, q.Query, q.MinAge, q.MaxAge)
	}

	fmt.Fprintf(&b, "\nCombined:\n`%s`\n", result.Combined)
	return b.String()
}
