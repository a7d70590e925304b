package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
	"github.com/aliskhannn/guess-the-flag-bot/internal/repository"
	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
	"github.com/aliskhannn/guess-the-flag-bot/internal/storage"
)

// stepScheduler queues advances until the test fires them.
type stepScheduler struct {
	mu     sync.Mutex
	timers []*stepTimer
}

type stepTimer struct {
	f    func()
	done bool
}

func (t *stepTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (s *stepScheduler) AfterFunc(_ time.Duration, f func()) service.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &stepTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *stepScheduler) fire() {
	s.mu.Lock()
	timers := slices.Clone(s.timers)
	s.mu.Unlock()

	for _, t := range timers {
		if t.done {
			continue
		}
		t.done = true
		t.f()
	}
}

type apiFixture struct {
	router  *gin.Engine
	handler *Handler
	svc     *service.QuizService
	sched   *stepScheduler
	games   *storage.QuizStorage[string]
	hub     *Hub
	answers map[int]string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	questions := repository.DefaultQuestions()
	repo, err := repository.NewQuestionRepositoryFrom(questions)
	if err != nil {
		t.Fatalf("NewQuestionRepositoryFrom: %v", err)
	}

	answers := make(map[int]string, len(questions))
	for _, q := range questions {
		answers[q.ID] = q.CorrectAnswer
	}

	logger := zap.NewNop()
	sched := &stepScheduler{}
	svc := service.NewQuizService(repo, logger, service.WithScheduler(sched))
	games := storage.NewQuizStorage[string]()
	hub := NewHub(logger)

	t.Cleanup(func() {
		hub.CloseAll()
		games.CloseAll()
	})

	handler := NewHandler(logger, svc, games, hub)

	return &apiFixture{
		router:  NewRouter(handler, logger),
		handler: handler,
		svc:     svc,
		sched:   sched,
		games:   games,
		hub:     hub,
		answers: answers,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func (f *apiFixture) createGame(t *testing.T) gameResponse {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/games", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: status %d, body %s", w.Code, w.Body.String())
	}
	return decode[gameResponse](t, w)
}

func answerBody(t *testing.T, option string) string {
	t.Helper()

	b, err := json.Marshal(answerRequest{Option: option})
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// pickOption returns the right option of the current question, or a wrong one.
func (f *apiFixture) pickOption(s gameState, correct bool) string {
	answer := f.answers[s.Question.ID]
	for _, o := range s.Question.Options {
		if (o == answer) == correct {
			return o
		}
	}
	return ""
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := decode[map[string]any](t, w)
	if body["status"] != "ok" || body["questions"] != float64(5) || body["games"] != float64(0) {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestCreateAndGetGame(t *testing.T) {
	f := newAPIFixture(t)

	created := f.createGame(t)
	if created.ID == "" || created.State.SessionID == "" {
		t.Fatalf("missing ids: %+v", created)
	}
	if created.State.QuestionIndex != 0 || created.State.TotalQuestions != 5 || created.State.Score != 0 {
		t.Errorf("unexpected initial state: %+v", created.State)
	}
	if created.State.Question == nil || len(created.State.Question.Options) != 4 {
		t.Fatalf("unexpected question: %+v", created.State.Question)
	}

	w := f.do(t, http.MethodGet, "/api/v1/games/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get game: status %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "revealed_answer") {
		t.Errorf("unanswered question leaks the answer: %s", w.Body.String())
	}

	got := decode[gameResponse](t, w)
	if got.ID != created.ID || got.State.SessionID != created.State.SessionID {
		t.Errorf("get returned %+v, want game %s", got, created.ID)
	}
}

func TestUnknownGame(t *testing.T) {
	f := newAPIFixture(t)

	for _, tt := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/games/nope", ""},
		{http.MethodPost, "/api/v1/games/nope/answers", `{"option":"India"}`},
		{http.MethodPost, "/api/v1/games/nope/restart", ""},
		{http.MethodDelete, "/api/v1/games/nope", ""},
		{http.MethodGet, "/api/v1/games/nope/ws", ""},
	} {
		w := f.do(t, tt.method, tt.path, tt.body)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tt.method, tt.path, w.Code)
			continue
		}

		body := decode[errorResponse](t, w)
		if body.Error != http.StatusText(http.StatusNotFound) || body.Message != "game not found" {
			t.Errorf("%s %s: body = %+v", tt.method, tt.path, body)
		}
	}
}

func TestSubmitAnswer(t *testing.T) {
	f := newAPIFixture(t)
	game := f.createGame(t)
	path := "/api/v1/games/" + game.ID + "/answers"

	for _, body := range []string{`{`, `{}`, `{"option":""}`, `[1,2]`} {
		if w := f.do(t, http.MethodPost, path, body); w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}

	option := f.pickOption(game.State, true)

	w := f.do(t, http.MethodPost, path, answerBody(t, option))
	if w.Code != http.StatusOK {
		t.Fatalf("answer: status %d, body %s", w.Code, w.Body.String())
	}

	resp := decode[answerResponse](t, w)
	if !resp.Accepted || !resp.State.Answered || resp.State.Score != 1 {
		t.Fatalf("unexpected answer response: %+v", resp)
	}
	if resp.State.SelectedAnswer != option || resp.State.RevealedAnswer != option {
		t.Errorf("selected %q, revealed %q, want %q", resp.State.SelectedAnswer, resp.State.RevealedAnswer, option)
	}

	w = f.do(t, http.MethodPost, path, answerBody(t, option))
	if resp := decode[answerResponse](t, w); resp.Accepted || resp.State.Score != 1 {
		t.Errorf("second answer: %+v", resp)
	}

	f.sched.fire()

	w = f.do(t, http.MethodGet, "/api/v1/games/"+game.ID, "")
	state := decode[gameResponse](t, w).State
	if state.QuestionIndex != 1 || state.Answered || state.Score != 1 {
		t.Errorf("state after advance: %+v", state)
	}
}

func TestPlayWholeGame(t *testing.T) {
	f := newAPIFixture(t)
	game := f.createGame(t)
	path := "/api/v1/games/" + game.ID

	state := game.State
	for i := 0; i < state.TotalQuestions; i++ {
		// The first answer is wrong, the rest are right.
		w := f.do(t, http.MethodPost, path+"/answers", answerBody(t, f.pickOption(state, i > 0)))
		if !decode[answerResponse](t, w).Accepted {
			t.Fatalf("answer %d rejected", i)
		}

		f.sched.fire()
		state = decode[gameResponse](t, f.do(t, http.MethodGet, path, "")).State
	}

	if !state.Finished || state.Score != 4 || state.Progress != 1 || state.Question != nil {
		t.Errorf("final state: %+v", state)
	}

	w := f.do(t, http.MethodPost, path+"/answers", answerBody(t, "India"))
	if decode[answerResponse](t, w).Accepted {
		t.Error("answer accepted after the game finished")
	}
}

func TestRestartGame(t *testing.T) {
	f := newAPIFixture(t)
	game := f.createGame(t)
	path := "/api/v1/games/" + game.ID

	f.do(t, http.MethodPost, path+"/answers", answerBody(t, f.pickOption(game.State, true)))

	w := f.do(t, http.MethodPost, path+"/restart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("restart: status %d", w.Code)
	}

	restarted := decode[gameResponse](t, w).State
	if restarted.SessionID == game.State.SessionID || restarted.Score != 0 || restarted.QuestionIndex != 0 || restarted.Answered {
		t.Fatalf("unexpected state after restart: %+v", restarted)
	}

	f.sched.fire()

	state := decode[gameResponse](t, f.do(t, http.MethodGet, path, "")).State
	if state.QuestionIndex != 0 || state.SessionID != restarted.SessionID {
		t.Errorf("stale advance changed the new session: %+v", state)
	}
}

func TestDeleteGame(t *testing.T) {
	f := newAPIFixture(t)
	game := f.createGame(t)
	path := "/api/v1/games/" + game.ID

	if w := f.do(t, http.MethodDelete, path, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if f.games.Len() != 0 {
		t.Error("game still stored")
	}
	if w := f.do(t, http.MethodGet, path, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, path, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", w.Code)
	}
}

func readState(t *testing.T, conn *websocket.Conn) gameState {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg struct {
		Type    string    `json:"type"`
		Payload gameState `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	if msg.Type != messageTypeState {
		t.Fatalf("message type = %q, want %q", msg.Type, messageTypeState)
	}
	return msg.Payload
}

func TestStream(t *testing.T) {
	f := newAPIFixture(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/games", "application/json", nil)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	var game gameResponse
	err = json.NewDecoder(resp.Body).Decode(&game)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("decode game: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/" + game.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	initial := readState(t, conn)
	if initial.SessionID != game.State.SessionID || initial.QuestionIndex != 0 {
		t.Fatalf("initial state: %+v", initial)
	}

	body := bytes.NewBufferString(answerBody(t, f.pickOption(initial, true)))
	resp, err = http.Post(srv.URL+"/api/v1/games/"+game.ID+"/answers", "application/json", body)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	_ = resp.Body.Close()

	if answered := readState(t, conn); !answered.Answered || answered.Score != 1 {
		t.Fatalf("answered state: %+v", answered)
	}

	f.sched.fire()

	if next := readState(t, conn); next.QuestionIndex != 1 || next.Answered {
		t.Fatalf("state after advance: %+v", next)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/games/"+game.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after delete = %v, want normal close", err)
	}
	if n := f.hub.Count(game.ID); n != 0 {
		t.Errorf("hub still has %d clients", n)
	}
}

func TestAdvanceOfReplacedSessionIsNotBroadcast(t *testing.T) {
	f := newAPIFixture(t)
	game := f.createGame(t)

	client := newClient(f.hub, nil, game.ID, zap.NewNop())
	f.hub.Register(client, func() any { return wsMessage{Type: messageTypeState} })
	<-client.send

	f.do(t, http.MethodPost, "/api/v1/games/"+game.ID+"/restart", "")
	<-client.send

	stale := entities.Snapshot{SessionID: game.State.SessionID, QuestionIndex: 1, TotalQuestions: 5}
	f.handler.onAdvance(game.ID)(stale)

	if n := len(client.send); n != 0 {
		t.Fatalf("advance of the replaced session queued %d messages", n)
	}

	engine, _ := f.games.Get(game.ID)
	f.handler.onAdvance(game.ID)(engine.Snapshot())

	if n := len(client.send); n != 1 {
		t.Errorf("advance of the current session queued %d messages, want 1", n)
	}
}

// vanishingGames forgets every game after the first lookup, as if it was deleted
// while a request was in flight.
type vanishingGames struct {
	GameStorage
	lookups atomic.Int32
}

func (g *vanishingGames) Get(gameID string) (*service.QuizEngine, bool) {
	if g.lookups.Add(1) > 1 {
		return nil, false
	}
	return g.GameStorage.Get(gameID)
}

func TestStream_GameDeletedDuringUpgrade(t *testing.T) {
	f := newAPIFixture(t)

	engine, err := f.svc.NewEngine(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	f.games.Store("g1", engine)

	games := &vanishingGames{GameStorage: f.games}
	router := NewRouter(NewHandler(zap.NewNop(), f.svc, games, f.hub), zap.NewNop())

	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/g1/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	if initial := readState(t, conn); initial.SessionID != engine.Snapshot().SessionID {
		t.Errorf("initial state: %+v", initial)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after initial state = %v, want normal close", err)
	}
	if n := f.hub.Count("g1"); n != 0 {
		t.Errorf("hub still has %d clients", n)
	}
}
