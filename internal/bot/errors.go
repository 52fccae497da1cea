package bot

import (
	"net/http"

	"wayfare/internal/backend"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if backend.IsUnauthorized(err) {
		return "⚠️ Сессия истекла. Пожалуйста, войдите заново."
	}

	switch backend.StatusOf(err) {
	case http.StatusForbidden:
		return "⚠️ У вас нет доступа к этому действию."
	case http.StatusNotFound:
		return "⚠️ Запрошенный объект не найден. Возможно, он был удален."
	case http.StatusConflict:
		return "⚠️ Выбранные даты уже заняты. Пожалуйста, выберите другие."
	case http.StatusBadRequest:
		return "⚠️ Сервер отклонил запрос. Проверьте введенные данные."
	}

	// Default error message
	return "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."
}
