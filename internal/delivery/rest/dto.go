package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// jsonError aborts the request with a JSON error body.
func jsonError(c *gin.Context, status int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

// questionView is a question as clients see it. The correct answer travels in
// gameState.RevealedAnswer once the question is answered.
type questionView struct {
	ID      int      `json:"id"`
	Flag    string   `json:"flag"`
	Options []string `json:"options"`
}

type gameState struct {
	SessionID      string        `json:"session_id"`
	Question       *questionView `json:"question,omitempty"`
	QuestionIndex  int           `json:"question_index"`
	TotalQuestions int           `json:"total_questions"`
	SelectedAnswer string        `json:"selected_answer,omitempty"`
	RevealedAnswer string        `json:"revealed_answer,omitempty"`
	Answered       bool          `json:"answered"`
	Score          int           `json:"score"`
	Progress       float64       `json:"progress"`
	Finished       bool          `json:"finished"`
}

func newGameState(s entities.Snapshot) gameState {
	state := gameState{
		SessionID:      s.SessionID,
		QuestionIndex:  s.QuestionIndex,
		TotalQuestions: s.TotalQuestions,
		SelectedAnswer: s.SelectedAnswer,
		RevealedAnswer: s.RevealedAnswer,
		Answered:       s.Answered,
		Score:          s.Score,
		Progress:       s.Progress,
		Finished:       s.Finished,
	}

	if s.Question != nil {
		state.Question = &questionView{
			ID:      s.Question.ID,
			Flag:    s.Question.ImageRef,
			Options: s.Question.Options,
		}
	}

	return state
}

type gameResponse struct {
	ID    string    `json:"id"`
	State gameState `json:"state"`
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

type answerResponse struct {
	Accepted bool      `json:"accepted"`
	State    gameState `json:"state"`
}

// Websocket message types.
const (
	messageTypeState = "state"
)

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func stateMessage(s entities.Snapshot) wsMessage {
	return wsMessage{Type: messageTypeState, Payload: newGameState(s)}
}
