package bot

import (
	"context"
	"fmt"
	"strings"

	"wayfare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Button labels of the reply keyboards.
const (
	btnLogin           = "🔑 Войти"
	btnRegister        = "📝 Регистрация"
	btnStays           = "🏠 Жилье"
	btnRides           = "🚗 Трансферы"
	btnMyBookings      = "📋 Мои поездки"
	btnExport          = "📤 Экспорт в Excel"
	btnProfile         = "👤 Профиль"
	btnLogout          = "🚪 Выйти"
	btnHostDashboard   = "🧳 Кабинет хозяина"
	btnDriverDashboard = "🚙 Кабинет водителя"
	btnConfirm         = "✅ Подтвердить"
	btnCancel          = "❌ Отмена"
	btnSearchStays     = "🔎 Поиск жилья"
	btnSearchRides     = "🔎 Поиск трансфера"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("chat_id", chatID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	state := b.getState(ctx, chatID)

	switch {
	case text == "/start" || strings.ToLower(text) == "сброс" || strings.ToLower(text) == "reset":
		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, "👋 Добро пожаловать в сервис бронирования путешествий!")

	case text == btnCancel:
		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, "Действие отменено.")

	case text == btnLogin:
		b.startLogin(ctx, chatID)

	case text == btnRegister:
		b.startRegistration(ctx, chatID)

	case text == btnLogout:
		b.handleLogout(ctx, chatID)

	case text == btnProfile:
		b.showProfile(ctx, chatID)

	case text == btnStays:
		b.showStays(ctx, chatID, 0, 0)

	case text == btnRides:
		b.showRides(ctx, chatID, 0, 0)

	case text == btnSearchStays:
		b.setState(ctx, chatID, models.StepSearchStays, nil)
		msg := tgbotapi.NewMessage(chatID, "Введите город для поиска жилья.\nМожно добавить даты через пробел: Сочи 01.09.2026:05.09.2026")
		msg.ReplyMarkup = cancelKeyboard()
		b.send(msg)

	case text == btnSearchRides:
		b.setState(ctx, chatID, models.StepSearchRides, nil)
		msg := tgbotapi.NewMessage(chatID, "Введите маршрут: откуда и куда через пробел.\nМожно добавить дату: Сочи Адлер 01.09.2026")
		msg.ReplyMarkup = cancelKeyboard()
		b.send(msg)

	case text == btnMyBookings:
		b.showMyBookings(ctx, chatID)

	case text == btnExport:
		b.handleExport(ctx, chatID)

	case text == btnHostDashboard:
		b.showHostDashboard(ctx, chatID)

	case text == btnDriverDashboard:
		b.showDriverDashboard(ctx, chatID)

	case state != nil && state.CurrentStep == models.StepEnterEmail:
		b.handleEmailInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepEnterPassword:
		b.handlePasswordInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepRegisterName:
		b.handleRegisterName(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepRegisterRole:
		b.handleRegisterRole(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepSearchStays:
		b.handleStaySearchInput(ctx, chatID, text)

	case state != nil && state.CurrentStep == models.StepSearchRides:
		b.handleRideSearchInput(ctx, chatID, text)

	case state != nil && state.CurrentStep == models.StepEnterCheckIn:
		b.handleCheckInInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepEnterCheckOut:
		b.handleCheckOutInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepEnterGuests:
		b.handleGuestsInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepEnterDate:
		b.handleTravelDateInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepEnterSeats:
		b.handleSeatsInput(ctx, chatID, text, state)

	case state != nil && state.CurrentStep == models.StepConfirmBooking && text == btnConfirm:
		b.finalizeBooking(ctx, chatID, state)

	default:
		b.handleMainMenu(ctx, chatID, "Выберите действие на клавиатуре ниже.")
	}
}

// handleMainMenu shows the role-aware main menu.
func (b *Bot) handleMainMenu(ctx context.Context, chatID int64, greeting string) {
	rt := b.runtime(chatID)
	snap := rt.session.Load(ctx)

	text := greeting
	if snap.Authenticated() {
		text = fmt.Sprintf("%s\n\nВы вошли как %s (%s).", greeting, snap.User.Name, roleLabel(snap.User.Role))
	} else {
		text = greeting + "\n\nВойдите или зарегистрируйтесь, чтобы бронировать жилье и трансферы."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard(snap)
	b.send(msg)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	if callback == nil || callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	l := zerolog.Ctx(ctx)
	l.Debug().
		Int64("chat_id", chatID).
		Str("data", callback.Data).
		Msg("Handling callback query")

	// Убираем "часики" на кнопке
	if _, err := b.tg.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		l.Error().Err(err).Msg("Failed to answer callback query")
	}

	data := callback.Data

	switch {
	case strings.HasPrefix(data, "stays_page:"):
		b.showStays(ctx, chatID, parsePage(data, "stays_page:"), callback.Message.MessageID)

	case strings.HasPrefix(data, "rides_page:"):
		b.showRides(ctx, chatID, parsePage(data, "rides_page:"), callback.Message.MessageID)

	case strings.HasPrefix(data, "stay:"):
		b.showStayDetails(ctx, chatID, parseID(data, "stay:"))

	case strings.HasPrefix(data, "ride:"):
		b.showRideDetails(ctx, chatID, parseID(data, "ride:"))

	case strings.HasPrefix(data, "book_stay:"):
		b.startStayBooking(ctx, chatID, parseID(data, "book_stay:"))

	case strings.HasPrefix(data, "book_ride:"):
		b.startRideBooking(ctx, chatID, parseID(data, "book_ride:"))

	case strings.HasPrefix(data, "cancel_booking:"):
		b.handleCancelBooking(ctx, chatID, data)

	case data == "back_to_menu":
		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, "Главное меню")
	}
}
