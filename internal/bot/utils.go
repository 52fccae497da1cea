package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wayfare/internal/models"
	"wayfare/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// userDateLayout is the date format shown to and expected from users.
const userDateLayout = "02.01.2006"

func (b *Bot) getState(ctx context.Context, chatID int64) *models.ChatState {
	state, err := b.store.GetState(ctx, chatID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to get chat state")
		return nil
	}
	return state
}

func (b *Bot) setState(ctx context.Context, chatID int64, step string, tempData map[string]string) {
	state := &models.ChatState{ChatID: chatID, CurrentStep: step, TempData: tempData}
	if err := b.store.SetState(ctx, state); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to set chat state")
	}
}

func (b *Bot) clearState(ctx context.Context, chatID int64) {
	if err := b.store.ClearState(ctx, chatID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to clear chat state")
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.tg.Send(c); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send message")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// parseUserDate accepts both the display format and the wire format
// and returns the wire form.
func parseUserDate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if t, err := time.Parse(userDateLayout, text); err == nil {
		return t.Format(models.DateLayout), nil
	}
	if t, err := time.Parse(models.DateLayout, text); err == nil {
		return t.Format(models.DateLayout), nil
	}
	return "", fmt.Errorf("unrecognized date %q", text)
}

func displayDate(wire string) string {
	t, err := time.Parse(models.DateLayout, wire)
	if err != nil {
		return wire
	}
	return t.Format(userDateLayout)
}

func kindLabel(kind string) string {
	switch kind {
	case models.KindAccommodation:
		return "Жилье"
	case models.KindTransport:
		return "Трансфер"
	}
	return kind
}

func statusLabel(status string) string {
	switch status {
	case models.StatusPending:
		return "⏳ Ожидает подтверждения"
	case models.StatusConfirmed:
		return "✅ Подтверждено"
	case models.StatusCancelled:
		return "❌ Отменено"
	case models.StatusCompleted:
		return "🏁 Завершено"
	}
	return status
}

func roleLabel(role string) string {
	switch role {
	case models.RoleTourist:
		return "Турист"
	case models.RoleHost:
		return "Хозяин жилья"
	case models.RoleDriver:
		return "Водитель"
	}
	return role
}

// mainMenuKeyboard builds the reply keyboard for the current session.
func mainMenuKeyboard(snap session.Snapshot) tgbotapi.ReplyKeyboardMarkup {
	if !snap.Authenticated() {
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnLogin),
				tgbotapi.NewKeyboardButton(btnRegister),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnStays),
				tgbotapi.NewKeyboardButton(btnRides),
			),
		)
	}

	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(btnStays),
			tgbotapi.NewKeyboardButton(btnRides),
		},
		{
			tgbotapi.NewKeyboardButton(btnMyBookings),
			tgbotapi.NewKeyboardButton(btnExport),
		},
	}

	switch {
	case snap.HasRole(models.RoleHost):
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnHostDashboard)})
	case snap.HasRole(models.RoleDriver):
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnDriverDashboard)})
	}

	rows = append(rows, []tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(btnProfile),
		tgbotapi.NewKeyboardButton(btnLogout),
	})

	return tgbotapi.NewReplyKeyboard(rows...)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}
