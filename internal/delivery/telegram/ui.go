package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

const optionsPerRow = 2

// buildStartKeyboard builds keyboard for the welcome screen.
func buildStartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", buildQuizStartCallback()),
		),
	)
}

// buildResultKeyboard builds keyboard for the completion screen.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Play again", buildQuizStartCallback()),
		),
	)
}

// buildAnswerKeyboard builds the option grid for the current question.
// Once the question is answered the buttons show the feedback and no longer answer.
func buildAnswerKeyboard(s entities.Snapshot) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, option := range s.Question.Options {
		data := buildQuizAnswerCallback(s.SessionID, s.QuestionIndex, i)
		if s.Answered {
			data = buildQuizNoopCallback()
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(optionLabel(option, s), data))
		if len(row) == optionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// emptyKeyboard removes the inline keyboard of a message.
func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}
}
