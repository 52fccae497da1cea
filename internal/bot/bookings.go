package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"wayfare/internal/backend"
	"wayfare/internal/guard"
	"wayfare/internal/models"
	"wayfare/internal/trips"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// requireAuth loads the session and nudges anonymous users to log in.
func (b *Bot) requireAuth(ctx context.Context, chatID int64) (*chatRuntime, bool) {
	rt := b.runtime(chatID)
	snap := rt.session.Load(ctx)

	decision := guard.Auth(snap, true, "")
	if decision.Action == guard.ActionRedirect {
		b.handleMainMenu(ctx, chatID, "🔒 Для этого действия нужно войти в аккаунт.")
		return nil, false
	}
	return rt, true
}

func (b *Bot) startStayBooking(ctx context.Context, chatID int64, stayID int64) {
	if _, ok := b.requireAuth(ctx, chatID); !ok {
		return
	}

	stay, err := b.client.Accommodation(ctx, stayID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("stay_id", stayID).Msg("Failed to get accommodation")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	data := map[string]string{
		"stay_id":    strconv.FormatInt(stay.ID, 10),
		"stay_title": stay.Title,
	}
	b.setState(ctx, chatID, models.StepEnterCheckIn, data)

	msg := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Вы выбрали: %s\n\nВведите дату заезда в формате ДД.ММ.ГГГГ (например, 25.12.2026):", stay.Title))
	msg.ReplyMarkup = cancelKeyboard()
	b.send(msg)
}

func (b *Bot) handleCheckInInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	checkIn, err := parseUserDate(text)
	if err != nil {
		b.sendMessage(chatID, "Не удалось распознать дату. Используйте формат ДД.ММ.ГГГГ.")
		return
	}

	state.Set("check_in", checkIn)
	b.setState(ctx, chatID, models.StepEnterCheckOut, state.TempData)
	b.sendMessage(chatID, "Введите дату выезда в формате ДД.ММ.ГГГГ:")
}

func (b *Bot) handleCheckOutInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	checkOut, err := parseUserDate(text)
	if err != nil {
		b.sendMessage(chatID, "Не удалось распознать дату. Используйте формат ДД.ММ.ГГГГ.")
		return
	}

	if _, err := models.Nights(state.GetString("check_in"), checkOut); err != nil {
		b.sendMessage(chatID, "Дата выезда должна быть позже даты заезда. Попробуйте еще раз.")
		return
	}

	state.Set("check_out", checkOut)
	b.setState(ctx, chatID, models.StepEnterGuests, state.TempData)
	b.sendMessage(chatID, "Сколько гостей?")
}

func (b *Bot) handleGuestsInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	guests, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || guests < 1 {
		b.sendMessage(chatID, "Введите число гостей, например 2.")
		return
	}

	stay, err := b.client.Accommodation(ctx, state.GetInt64("stay_id"))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get accommodation")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	req, err := trips.StayRequest(*stay, state.GetString("check_in"), state.GetString("check_out"), guests)
	if err != nil {
		b.sendMessage(chatID, "⚠️ "+bookingErrorText(err))
		return
	}

	state.Set("kind", models.KindAccommodation)
	state.Set("guests", strconv.Itoa(guests))
	state.Set("total_price", strconv.FormatFloat(req.TotalPrice, 'f', 2, 64))
	b.setState(ctx, chatID, models.StepConfirmBooking, state.TempData)

	nights, _ := models.Nights(req.CheckIn, req.CheckOut)
	summary := fmt.Sprintf(
		"📋 Проверьте заявку:\n\n🏠 %s\n📅 %s — %s (%d ноч.)\n👥 Гостей: %d\n💰 Итого: %.2f ₽",
		state.GetString("stay_title"),
		displayDate(req.CheckIn), displayDate(req.CheckOut), nights,
		guests, req.TotalPrice,
	)
	msg := tgbotapi.NewMessage(chatID, summary)
	msg.ReplyMarkup = confirmKeyboard()
	b.send(msg)
}

func (b *Bot) startRideBooking(ctx context.Context, chatID int64, rideID int64) {
	if _, ok := b.requireAuth(ctx, chatID); !ok {
		return
	}

	ride, err := b.client.Transport(ctx, rideID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("ride_id", rideID).Msg("Failed to get transport")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	data := map[string]string{
		"ride_id":    strconv.FormatInt(ride.ID, 10),
		"ride_label": fmt.Sprintf("%s → %s", ride.From, ride.To),
	}
	b.setState(ctx, chatID, models.StepEnterDate, data)

	msg := tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Вы выбрали: %s\n\nВведите дату поездки в формате ДД.ММ.ГГГГ:", data["ride_label"]))
	msg.ReplyMarkup = cancelKeyboard()
	b.send(msg)
}

func (b *Bot) handleTravelDateInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	travelDate, err := parseUserDate(text)
	if err != nil {
		b.sendMessage(chatID, "Не удалось распознать дату. Используйте формат ДД.ММ.ГГГГ.")
		return
	}

	state.Set("travel_date", travelDate)
	b.setState(ctx, chatID, models.StepEnterSeats, state.TempData)
	b.sendMessage(chatID, "Сколько мест забронировать?")
}

func (b *Bot) handleSeatsInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	seats, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || seats < 1 {
		b.sendMessage(chatID, "Введите число мест, например 1.")
		return
	}

	ride, err := b.client.Transport(ctx, state.GetInt64("ride_id"))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get transport")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	req, err := trips.RideRequest(*ride, state.GetString("travel_date"), seats)
	if err != nil {
		b.sendMessage(chatID, "⚠️ "+bookingErrorText(err))
		return
	}

	state.Set("kind", models.KindTransport)
	state.Set("seats", strconv.Itoa(seats))
	state.Set("total_price", strconv.FormatFloat(req.TotalPrice, 'f', 2, 64))
	b.setState(ctx, chatID, models.StepConfirmBooking, state.TempData)

	summary := fmt.Sprintf(
		"📋 Проверьте заявку:\n\n🚗 %s\n📅 %s\n💺 Мест: %d\n💰 Итого: %.2f ₽",
		state.GetString("ride_label"),
		displayDate(req.TravelDate),
		seats, req.TotalPrice,
	)
	msg := tgbotapi.NewMessage(chatID, summary)
	msg.ReplyMarkup = confirmKeyboard()
	b.send(msg)
}

func (b *Bot) finalizeBooking(ctx context.Context, chatID int64, state *models.ChatState) {
	rt, ok := b.requireAuth(ctx, chatID)
	if !ok {
		return
	}
	l := zerolog.Ctx(ctx)

	var err error
	switch state.GetString("kind") {
	case models.KindAccommodation:
		err = rt.trips.AddAccommodationBooking(ctx, backend.AccommodationBookingRequest{
			AccommodationID: state.GetInt64("stay_id"),
			CheckIn:         state.GetString("check_in"),
			CheckOut:        state.GetString("check_out"),
			Guests:          state.GetInt("guests"),
			TotalPrice:      state.GetFloat("total_price"),
		})
	case models.KindTransport:
		err = rt.trips.AddTransportBooking(ctx, backend.TransportBookingRequest{
			TransportID: state.GetInt64("ride_id"),
			TravelDate:  state.GetString("travel_date"),
			Seats:       state.GetInt("seats"),
			TotalPrice:  state.GetFloat("total_price"),
		})
	default:
		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, "⚠️ Заявка устарела. Начните бронирование заново.")
		return
	}

	b.clearState(ctx, chatID)
	if err != nil {
		l.Error().Err(err).Int64("chat_id", chatID).Msg("Booking failed")
		b.handleMainMenu(ctx, chatID, b.getErrorMessage(err))
		return
	}

	b.handleMainMenu(ctx, chatID, "🎉 Заявка создана! Найдете ее в разделе «Мои поездки».")
}

func (b *Bot) showMyBookings(ctx context.Context, chatID int64) {
	rt, ok := b.requireAuth(ctx, chatID)
	if !ok {
		return
	}

	if err := rt.trips.Refresh(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to refresh bookings")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	bookings := rt.trips.Bookings()
	if len(bookings) == 0 {
		b.sendMessage(chatID, "У вас пока нет бронирований.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Ваши бронирования:\n\n")
	var keyboard [][]tgbotapi.InlineKeyboardButton

	for _, bk := range bookings {
		text.WriteString(fmt.Sprintf("%s #%d\n📅 %s", kindLabel(bk.Kind), bk.ID, displayDate(bk.StartDate)))
		if bk.EndDate != "" {
			text.WriteString(" — " + displayDate(bk.EndDate))
		}
		text.WriteString(fmt.Sprintf("\n💰 %.2f ₽\n%s\n\n", bk.TotalPrice, statusLabel(bk.Status)))

		if bk.Status == models.StatusPending || bk.Status == models.StatusConfirmed {
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("❌ Отменить %s #%d", kindLabel(bk.Kind), bk.ID),
					fmt.Sprintf("cancel_booking:%s:%d", bk.Kind, bk.ID),
				),
			})
		}
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	if len(keyboard) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}
	b.send(msg)
}

func (b *Bot) handleCancelBooking(ctx context.Context, chatID int64, data string) {
	rt, ok := b.requireAuth(ctx, chatID)
	if !ok {
		return
	}

	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	booking := models.Booking{Kind: parts[1], ID: id}
	if err := rt.trips.Cancel(ctx, booking); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("booking_id", id).Msg("Failed to cancel booking")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, fmt.Sprintf("✅ Бронирование #%d отменено.", id))
	b.showMyBookings(ctx, chatID)
}

func bookingErrorText(err error) string {
	// Validation errors from request builders are already short and
	// human-readable, but in English.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "check-out"):
		return "Дата выезда должна быть позже даты заезда."
	case strings.Contains(msg, "capacity"):
		return "Превышена вместимость. Уменьшите количество."
	case strings.Contains(msg, "at least one"):
		return "Количество должно быть не меньше 1."
	}
	return "Не удалось составить заявку. Проверьте данные."
}
