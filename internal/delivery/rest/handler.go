package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler serves quiz games over HTTP, one engine per game.
type Handler struct {
	logger      *zap.Logger
	quizService QuizService
	games       GameStorage
	hub         *Hub
}

func NewHandler(logger *zap.Logger, quizService QuizService, games GameStorage, hub *Hub) *Handler {
	return &Handler{
		logger:      logger,
		quizService: quizService,
		games:       games,
		hub:         hub,
	}
}

func (h *Handler) Health(c *gin.Context) {
	questions, err := h.quizService.QuestionCount(c.Request.Context())
	if err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		jsonError(c, http.StatusServiceUnavailable, "question bank unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"questions": questions,
		"games":     h.games.Len(),
	})
}

func (h *Handler) CreateGame(c *gin.Context) {
	gameID := uuid.NewString()

	engine, err := h.quizService.NewEngine(c.Request.Context(), h.onAdvance(gameID))
	if err != nil {
		h.logger.Error("failed to create game", zap.Error(err))
		jsonError(c, http.StatusInternalServerError)
		return
	}

	h.games.Store(gameID, engine)

	snap := engine.Snapshot()
	h.logger.Info("game created",
		zap.String("game_id", gameID),
		zap.String("session_id", snap.SessionID),
	)

	c.JSON(http.StatusCreated, gameResponse{ID: gameID, State: newGameState(snap)})
}

func (h *Handler) GetGame(c *gin.Context) {
	gameID, engine, ok := h.game(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gameResponse{ID: gameID, State: newGameState(engine.Snapshot())})
}

func (h *Handler) SubmitAnswer(c *gin.Context) {
	gameID, engine, ok := h.game(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "body must be {\"option\": \"...\"}")
		return
	}

	snap, accepted := engine.Submit(req.Option)

	if accepted {
		h.hub.Broadcast(gameID, stateMessage(snap))
		h.logger.Debug("answer accepted",
			zap.String("game_id", gameID),
			zap.Bool("is_correct", snap.IsCorrect()),
			zap.Int("score", snap.Score),
		)
	}

	c.JSON(http.StatusOK, answerResponse{Accepted: accepted, State: newGameState(snap)})
}

func (h *Handler) RestartGame(c *gin.Context) {
	gameID, engine, ok := h.game(c)
	if !ok {
		return
	}

	snap := engine.Restart()
	h.hub.Broadcast(gameID, stateMessage(snap))

	h.logger.Info("game restarted",
		zap.String("game_id", gameID),
		zap.String("session_id", snap.SessionID),
	)

	c.JSON(http.StatusOK, gameResponse{ID: gameID, State: newGameState(snap)})
}

func (h *Handler) DeleteGame(c *gin.Context) {
	gameID := c.Param("id")

	if !h.games.Delete(gameID) {
		jsonError(c, http.StatusNotFound, "game not found")
		return
	}
	h.hub.CloseGame(gameID)

	h.logger.Info("game deleted", zap.String("game_id", gameID))

	c.Status(http.StatusNoContent)
}

// Stream upgrades the request to a websocket that receives the game state on connect
// and after every change.
func (h *Handler) Stream(c *gin.Context) {
	gameID, engine, ok := h.game(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection",
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return
	}

	client := newClient(h.hub, conn, gameID, h.logger)
	h.hub.Register(client, func() any {
		return stateMessage(engine.Snapshot())
	})

	// The game may have been deleted between the lookup and the registration.
	if current, ok := h.games.Get(gameID); !ok || current != engine {
		h.hub.CloseGame(gameID)
	}

	go client.writePump()
	go client.readPump()
}

// game resolves the :id path parameter, answering 404 for unknown games.
func (h *Handler) game(c *gin.Context) (string, *service.QuizEngine, bool) {
	gameID := c.Param("id")

	engine, ok := h.games.Get(gameID)
	if !ok {
		jsonError(c, http.StatusNotFound, "game not found")
		return "", nil, false
	}

	return gameID, engine, true
}

func (h *Handler) onAdvance(gameID string) service.AdvanceListener {
	return func(s entities.Snapshot) {
		engine, ok := h.games.Get(gameID)
		if !ok || engine.Snapshot().SessionID != s.SessionID {
			h.logger.Debug("dropping advance of a replaced session",
				zap.String("game_id", gameID),
				zap.String("session_id", s.SessionID),
			)
			return
		}

		h.hub.Broadcast(gameID, stateMessage(s))

		if s.Finished {
			h.logger.Info("game finished",
				zap.String("game_id", gameID),
				zap.Int("score", s.Score),
				zap.Int("total_questions", s.TotalQuestions),
			)
		}
	}
}
