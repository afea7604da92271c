// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"class_reminder_bot/internal/domain/delivery"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements delivery.Channel using the gopkg.in/telebot.v3
// library. The bot is used send-only; its poller is never started.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send pushes the rendered body to the destination chat. The destination
// address is the numeric chat ID; the subject is already folded into the
// body by the renderer for chat delivery, so it is unused here.
func (tba *TelebotAdapter) Send(_ context.Context, dest delivery.Destination, _ string, body string) error {
	chatID, err := strconv.ParseInt(dest.Address, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID %q: %w", dest.Address, err)
	}
	_, err = tba.bot.Send(&telebot.Chat{ID: chatID}, body, &telebot.SendOptions{})
	return err
}
