// Package bot posts outage report announcements to a Telegram channel.
package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"
)

var htmlOpts = &tele.SendOptions{ParseMode: tele.ModeHTML}

// New creates the Telegram bot used by the worker to announce reports.
func New(token string) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}
