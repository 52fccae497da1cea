package bot

import (
	"context"
	"os"

	"wayfare/internal/export"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleExport renders the user's booking collection to an Excel file
// and sends it back as a document.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	rt, ok := b.requireAuth(ctx, chatID)
	if !ok {
		return
	}
	l := zerolog.Ctx(ctx)

	if err := rt.trips.Refresh(ctx); err != nil {
		l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to refresh bookings for export")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	bookings := rt.trips.Bookings()
	if len(bookings) == 0 {
		b.sendMessage(chatID, "Экспортировать нечего: у вас нет бронирований.")
		return
	}

	path, err := export.BookingsToExcel(b.config.Exports.Path, bookings)
	if err != nil {
		l.Error().Err(err).Msg("Excel export failed")
		b.sendMessage(chatID, "❌ Не удалось сформировать файл. Попробуйте позже.")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			l.Warn().Err(err).Str("path", path).Msg("Failed to remove export file")
		}
	}()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📤 Ваши бронирования"
	b.send(doc)
}
