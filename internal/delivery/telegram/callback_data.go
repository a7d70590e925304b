package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz = "quiz"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "answer"
	quizNoop   = "noop"
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// subAction returns the first parameter or an empty string.
func (cd callbackData) subAction() string {
	if len(cd.Params) == 0 {
		return ""
	}
	return cd.Params[0]
}

// buildQuizStartCallback builds callback data for starting or restarting the quiz.
func buildQuizStartCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart},
	}.encode()
}

// buildQuizAnswerCallback builds callback data for answering a quiz question.
func buildQuizAnswerCallback(sessionID string, questionIndex, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizAnswer,
			sessionID,
			strconv.Itoa(questionIndex),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

// buildQuizNoopCallback builds callback data for buttons of an answered question.
func buildQuizNoopCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNoop},
	}.encode()
}

// quizAnswerParams holds the decoded parameters of an answer callback.
type quizAnswerParams struct {
	SessionID     string
	QuestionIndex int
	OptionIndex   int
}

// parseQuizAnswer decodes the parameters of a quiz answer callback.
func parseQuizAnswer(cd callbackData) (quizAnswerParams, error) {
	if cd.Action != actionQuiz || len(cd.Params) != 4 || cd.Params[0] != quizAnswer {
		return quizAnswerParams{}, errInvalidCallback
	}

	questionIndex, err1 := strconv.Atoi(cd.Params[2])
	optionIndex, err2 := strconv.Atoi(cd.Params[3])
	if err1 != nil || err2 != nil || cd.Params[1] == "" || questionIndex < 0 || optionIndex < 0 {
		return quizAnswerParams{}, errInvalidCallback
	}

	return quizAnswerParams{
		SessionID:     cd.Params[1],
		QuestionIndex: questionIndex,
		OptionIndex:   optionIndex,
	}, nil
}
