package bot

import (
	"context"
	"fmt"
	"strings"

	"wayfare/internal/backend"
	"wayfare/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) startLogin(ctx context.Context, chatID int64) {
	b.setState(ctx, chatID, models.StepEnterEmail, map[string]string{"mode": "login"})

	msg := tgbotapi.NewMessage(chatID, "Введите ваш email:")
	msg.ReplyMarkup = cancelKeyboard()
	b.send(msg)
}

func (b *Bot) startRegistration(ctx context.Context, chatID int64) {
	b.setState(ctx, chatID, models.StepRegisterName, map[string]string{"mode": "register"})

	msg := tgbotapi.NewMessage(chatID, "Как вас зовут?")
	msg.ReplyMarkup = cancelKeyboard()
	b.send(msg)
}

func (b *Bot) handleRegisterName(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	name := strings.TrimSpace(text)
	if len(name) < 2 {
		b.sendMessage(chatID, "Имя слишком короткое. Введите имя длиной от 2 символов.")
		return
	}
	if len(name) > 150 {
		b.sendMessage(chatID, "Имя слишком длинное. Введите имя до 150 символов.")
		return
	}

	state.Set("name", name)
	b.setState(ctx, chatID, models.StepRegisterRole, state.TempData)

	msg := tgbotapi.NewMessage(chatID, "Выберите вашу роль:")
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Турист"),
			tgbotapi.NewKeyboardButton("Хозяин жилья"),
			tgbotapi.NewKeyboardButton("Водитель"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	b.send(msg)
}

func (b *Bot) handleRegisterRole(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	var role string
	switch strings.TrimSpace(text) {
	case "Турист":
		role = models.RoleTourist
	case "Хозяин жилья":
		role = models.RoleHost
	case "Водитель":
		role = models.RoleDriver
	default:
		b.sendMessage(chatID, "Пожалуйста, выберите роль кнопкой на клавиатуре.")
		return
	}

	state.Set("role", role)
	b.setState(ctx, chatID, models.StepEnterEmail, state.TempData)

	msg := tgbotapi.NewMessage(chatID, "Введите ваш email:")
	msg.ReplyMarkup = cancelKeyboard()
	b.send(msg)
}

func (b *Bot) handleEmailInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	email := strings.TrimSpace(text)
	if !strings.Contains(email, "@") || len(email) < 5 {
		b.sendMessage(chatID, "Это не похоже на email. Попробуйте еще раз.")
		return
	}

	state.Set("email", email)
	b.setState(ctx, chatID, models.StepEnterPassword, state.TempData)
	b.sendMessage(chatID, "Введите пароль:")
}

func (b *Bot) handlePasswordInput(ctx context.Context, chatID int64, text string, state *models.ChatState) {
	password := text
	if len(password) < 6 {
		b.sendMessage(chatID, "Пароль должен быть не короче 6 символов.")
		return
	}

	rt := b.runtime(chatID)
	l := zerolog.Ctx(ctx)

	if state.GetString("mode") == "register" {
		user, err := rt.session.Register(ctx, backend.RegisterRequest{
			Name:     state.GetString("name"),
			Email:    state.GetString("email"),
			Password: password,
			Role:     state.GetString("role"),
		})
		if err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Registration failed")
			b.clearState(ctx, chatID)
			b.handleMainMenu(ctx, chatID, b.getErrorMessage(err))
			return
		}

		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, fmt.Sprintf("🎉 Регистрация завершена, %s!", user.Name))
		return
	}

	user, err := rt.session.Login(ctx, backend.LoginRequest{
		Email:    state.GetString("email"),
		Password: password,
	})
	if err != nil {
		l.Warn().Err(err).Int64("chat_id", chatID).Msg("Login failed")
		b.clearState(ctx, chatID)
		b.handleMainMenu(ctx, chatID, "⚠️ Не удалось войти. Проверьте email и пароль.")
		return
	}

	b.clearState(ctx, chatID)
	b.handleMainMenu(ctx, chatID, fmt.Sprintf("👋 С возвращением, %s!", user.Name))
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	rt := b.runtime(chatID)
	if err := rt.session.Logout(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Logout failed")
	}
	b.clearState(ctx, chatID)
	b.handleMainMenu(ctx, chatID, "Вы вышли из аккаунта.")
}

func (b *Bot) showProfile(ctx context.Context, chatID int64) {
	rt := b.runtime(chatID)
	snap := rt.session.Load(ctx)
	if !snap.Authenticated() {
		b.handleMainMenu(ctx, chatID, "Вы не авторизованы.")
		return
	}

	text := fmt.Sprintf("👤 Профиль\n\nИмя: %s\nEmail: %s\nРоль: %s",
		snap.User.Name, snap.User.Email, roleLabel(snap.User.Role))
	b.sendMessage(chatID, text)
}
