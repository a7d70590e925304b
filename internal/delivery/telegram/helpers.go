package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

func buildQuestionPhoto(chatID int64, s entities.Snapshot) tgbotapi.PhotoConfig {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(s.Question.ImageRef))
	photo.Caption = formatQuestionCaption(s)
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyMarkup = buildAnswerKeyboard(s)
	return photo
}

func buildQuestionMediaEdit(chatID int64, messageID int, s entities.Snapshot) tgbotapi.EditMessageMediaConfig {
	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(s.Question.ImageRef))
	media.Caption = formatQuestionCaption(s)
	media.ParseMode = tgbotapi.ModeHTML

	kb := buildAnswerKeyboard(s)

	return tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      chatID,
			MessageID:   messageID,
			ReplyMarkup: &kb,
		},
		Media: media,
	}
}

func buildResultCaptionEdit(chatID int64, messageID int, s entities.Snapshot) tgbotapi.EditMessageCaptionConfig {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, formatQuizResult(s))
	edit.ParseMode = tgbotapi.ModeHTML

	kb := buildResultKeyboard()
	edit.ReplyMarkup = &kb

	return edit
}
