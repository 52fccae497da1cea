package bot

import (
	"context"
	"fmt"
	"strings"

	"wayfare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) showStays(ctx context.Context, chatID int64, page, messageID int) {
	stays, err := b.client.Accommodations(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list accommodations")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.renderStayList(chatID, "🏠 Доступное жилье", stays, page, messageID)

	if messageID == 0 {
		hint := tgbotapi.NewMessage(chatID, "Хотите сузить список?")
		hint.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnSearchStays),
				tgbotapi.NewKeyboardButton(btnCancel),
			),
		)
		b.send(hint)
	}
}

func (b *Bot) renderStayList(chatID int64, title string, stays []models.Accommodation, page, messageID int) {
	if len(stays) == 0 {
		b.sendMessage(chatID, "Ничего не найдено. Попробуйте изменить параметры поиска.")
		return
	}

	params := paginationParams{
		ChatID:       chatID,
		MessageID:    messageID,
		Page:         page,
		Title:        title,
		PagePrefix:   "stays_page:",
		BackCallback: "back_to_menu",
	}

	b.renderPaginatedList(params, len(stays), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for _, stay := range stays[startIdx:endIdx] {
			content.WriteString(fmt.Sprintf("🏠 %s — %s\n💰 %.0f ₽/ночь, до %d гостей\n\n",
				stay.Title, stay.Location, stay.PricePerNight, stay.Capacity))
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(stay.Title, fmt.Sprintf("stay:%d", stay.ID)),
			})
		}
		return content.String(), keyboard
	})
}

func (b *Bot) showStayDetails(ctx context.Context, chatID int64, stayID int64) {
	stay, err := b.client.Accommodation(ctx, stayID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("stay_id", stayID).Msg("Failed to get accommodation")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🏠 %s\n\n📍 %s\n💰 %.0f ₽ за ночь\n👥 До %d гостей\n",
		stay.Title, stay.Location, stay.PricePerNight, stay.Capacity))
	if stay.Description != "" {
		text.WriteString("\n" + stay.Description + "\n")
	}
	if !stay.Available {
		text.WriteString("\n⚠️ Сейчас недоступно для бронирования")
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	if stay.Available {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Забронировать", fmt.Sprintf("book_stay:%d", stay.ID)),
			),
		)
	}
	b.send(msg)
}

func (b *Bot) handleStaySearchInput(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		b.sendMessage(chatID, "Введите хотя бы город.")
		return
	}

	location := fields[0]
	var dates string
	if len(fields) > 1 {
		dates = normalizeDateRange(fields[1])
	}

	stays, err := b.client.SearchAccommodations(ctx, location, dates)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("location", location).Msg("Accommodation search failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.clearState(ctx, chatID)
	b.renderStayList(chatID, fmt.Sprintf("🔎 Жилье: %s", location), stays, 0, 0)
}

func (b *Bot) showRides(ctx context.Context, chatID int64, page, messageID int) {
	rides, err := b.client.Transports(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list transports")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.renderRideList(chatID, "🚗 Доступные трансферы", rides, page, messageID)

	if messageID == 0 {
		hint := tgbotapi.NewMessage(chatID, "Хотите сузить список?")
		hint.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnSearchRides),
				tgbotapi.NewKeyboardButton(btnCancel),
			),
		)
		b.send(hint)
	}
}

func (b *Bot) renderRideList(chatID int64, title string, rides []models.Transport, page, messageID int) {
	if len(rides) == 0 {
		b.sendMessage(chatID, "Ничего не найдено. Попробуйте изменить параметры поиска.")
		return
	}

	params := paginationParams{
		ChatID:       chatID,
		MessageID:    messageID,
		Page:         page,
		Title:        title,
		PagePrefix:   "rides_page:",
		BackCallback: "back_to_menu",
	}

	b.renderPaginatedList(params, len(rides), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for _, ride := range rides[startIdx:endIdx] {
			label := fmt.Sprintf("%s → %s", ride.From, ride.To)
			content.WriteString(fmt.Sprintf("🚗 %s (%s)\n💰 %.0f ₽ за место, %d мест\n\n",
				label, ride.VehicleType, ride.PricePerDay, ride.Capacity))
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("ride:%d", ride.ID)),
			})
		}
		return content.String(), keyboard
	})
}

func (b *Bot) showRideDetails(ctx context.Context, chatID int64, rideID int64) {
	ride, err := b.client.Transport(ctx, rideID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("ride_id", rideID).Msg("Failed to get transport")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🚗 %s → %s\n\n🚘 %s\n💰 %.0f ₽ за место\n👥 %d мест\n",
		ride.From, ride.To, ride.VehicleType, ride.PricePerDay, ride.Capacity))
	if !ride.Available {
		text.WriteString("\n⚠️ Сейчас недоступно для бронирования")
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	if ride.Available {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Забронировать", fmt.Sprintf("book_ride:%d", ride.ID)),
			),
		)
	}
	b.send(msg)
}

func (b *Bot) handleRideSearchInput(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		b.sendMessage(chatID, "Нужны как минимум пункт отправления и назначения.")
		return
	}

	from, to := fields[0], fields[1]
	var date string
	if len(fields) > 2 {
		if parsed, err := parseUserDate(fields[2]); err == nil {
			date = parsed
		} else {
			b.sendMessage(chatID, "Не удалось распознать дату. Используйте формат ДД.ММ.ГГГГ.")
			return
		}
	}

	rides, err := b.client.SearchTransports(ctx, from, to, date)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("from", from).Str("to", to).Msg("Transport search failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.clearState(ctx, chatID)
	b.renderRideList(chatID, fmt.Sprintf("🔎 Трансферы: %s → %s", from, to), rides, 0, 0)
}

// normalizeDateRange converts "01.09.2026:05.09.2026" to the wire form
// the search endpoint expects. Unparseable input passes through as-is.
func normalizeDateRange(raw string) string {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return raw
	}
	from, err1 := parseUserDate(parts[0])
	to, err2 := parseUserDate(parts[1])
	if err1 != nil || err2 != nil {
		return raw
	}
	return from + ":" + to
}
