package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

// DefaultAdvanceDelay is how long the answer feedback stays visible before the next question.
const DefaultAdvanceDelay = time.Second

var (
	ErrEmptyQuestionBank = errors.New("question bank is empty")
	ErrInvalidQuestion   = errors.New("invalid question")
)

// AdvanceListener is notified with the new state after a deferred advance was applied.
type AdvanceListener func(entities.Snapshot)

// Option configures a QuizEngine.
type Option func(*QuizEngine)

// WithAdvanceDelay sets the pause between an answer and the next question.
func WithAdvanceDelay(d time.Duration) Option {
	return func(e *QuizEngine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(e *QuizEngine) {
		e.scheduler = s
	}
}

// WithRand sets the random source used to shuffle options.
func WithRand(r *rand.Rand) Option {
	return func(e *QuizEngine) {
		e.rnd = r
	}
}

// WithAdvanceListener registers the callback run after every deferred advance.
// The listener must not call Start or Restart of its engine.
func WithAdvanceListener(fn AdvanceListener) Option {
	return func(e *QuizEngine) {
		e.listener = fn
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *QuizEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// QuizEngine owns quiz progression and scoring for one player.
//
// A view reads state through Snapshot and the query methods, and mutates it only through
// Start/Restart and SubmitAnswer. An accepted answer is applied at once and the move to the
// next question happens after the advance delay. Until then further answers are ignored.
// Restarting invalidates a pending advance so it can never touch the new session.
type QuizEngine struct {
	mu sync.Mutex
	// notifyMu is held from applying an advance until its listener returns,
	// and by Start, so a listener never sees a session that was already replaced.
	notifyMu sync.Mutex

	questions []entities.Question
	delay     time.Duration
	scheduler Scheduler
	rnd       *rand.Rand
	listener  AdvanceListener
	logger    *zap.Logger

	session    *entities.QuizSession
	pending    Timer
	generation uint64
	closed     bool
}

// NewQuizEngine validates the question bank and starts the first session.
func NewQuizEngine(questions []entities.Question, opts ...Option) (*QuizEngine, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionBank
	}

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
		}
	}

	e := &QuizEngine{
		questions: entities.CloneQuestions(questions),
		delay:     DefaultAdvanceDelay,
		scheduler: TimeScheduler{},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rnd == nil {
		e.rnd = newRand()
	}

	e.Start()

	return e, nil
}

// Start begins a new session with freshly shuffled options and returns its first state.
func (e *QuizEngine) Start() entities.Snapshot {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopPendingLocked()
	e.generation++
	e.closed = false

	e.session = entities.NewQuizSession(uuid.NewString(), ShuffleOptions(e.questions, e.rnd))

	e.logger.Debug("quiz session started",
		zap.String("session_id", e.session.ID),
		zap.Int("total_questions", e.session.Total()),
	)

	return e.session.Snapshot()
}

// Restart replaces the current session, finished or not, with a new one.
func (e *QuizEngine) Restart() entities.Snapshot {
	return e.Start()
}

// SubmitAnswer answers the current question. It reports whether the answer was accepted;
// answers while the quiz is finished or while feedback is shown are ignored.
func (e *QuizEngine) SubmitAnswer(option string) bool {
	_, accepted := e.Submit(option)
	return accepted
}

// Submit is SubmitAnswer that also returns the state right after the call, taken under the
// same lock, so the answered state can be published without racing the advance.
func (e *QuizEngine) Submit(option string) (entities.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	accepted := e.submitLocked(option)
	return e.session.Snapshot(), accepted
}

// SubmitAnswerAt is SubmitAnswer guarded by the session and question the caller rendered,
// so input aimed at an outdated screen is ignored.
func (e *QuizEngine) SubmitAnswerAt(sessionID string, questionIndex int, option string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.ID != sessionID || e.session.CurrentIndex != questionIndex {
		return false
	}

	return e.submitLocked(option)
}

func (e *QuizEngine) submitLocked(option string) bool {
	if e.closed || !e.session.CanAnswer() {
		return false
	}

	isCorrect := e.session.Answer(option)

	gen := e.generation
	e.pending = e.scheduler.AfterFunc(e.delay, func() {
		e.advance(gen)
	})

	e.logger.Debug("answer submitted",
		zap.String("session_id", e.session.ID),
		zap.Int("question_index", e.session.CurrentIndex),
		zap.Bool("is_correct", isCorrect),
		zap.Int("score", e.session.Score),
	)

	return true
}

// advance applies the deferred move to the next question for the session of generation gen.
func (e *QuizEngine) advance(gen uint64) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()

	if gen != e.generation || !e.session.Answered {
		e.mu.Unlock()
		return
	}

	e.pending = nil
	e.session.Advance()
	snap := e.session.Snapshot()
	listener := e.listener

	if snap.Finished {
		e.logger.Info("quiz session finished",
			zap.String("session_id", snap.SessionID),
			zap.Int("score", snap.Score),
			zap.Int("total_questions", snap.TotalQuestions),
		)
	}

	e.mu.Unlock()

	if listener != nil {
		listener(snap)
	}
}

func (e *QuizEngine) stopPendingLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// Close cancels a pending advance and stops accepting answers until the next Start.
func (e *QuizEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopPendingLocked()
	e.generation++
	e.closed = true
}

// Snapshot returns the current state.
func (e *QuizEngine) Snapshot() entities.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Snapshot()
}

// Progress returns the fraction of questions presented so far.
func (e *QuizEngine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Progress()
}

// IsFinished reports whether the current session is complete.
func (e *QuizEngine) IsFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.IsFinished()
}

// Score returns the number of correct answers in the current session.
func (e *QuizEngine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session.Score
}

// QuizService builds quiz engines over the question bank.
type QuizService struct {
	questionRepo QuestionRepo
	logger       *zap.Logger
	opts         []Option
}

func NewQuizService(questionRepo QuestionRepo, logger *zap.Logger, opts ...Option) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QuizService{
		questionRepo: questionRepo,
		logger:       logger,
		opts:         opts,
	}
}

// NewEngine creates an engine with its first session started. listener may be nil.
func (s *QuizService) NewEngine(ctx context.Context, listener AdvanceListener) (*QuizEngine, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	opts := slices.Clone(s.opts)
	opts = append(opts, WithLogger(s.logger), WithAdvanceListener(listener))

	return NewQuizEngine(questions, opts...)
}

// QuestionCount returns the size of the question bank.
func (s *QuizService) QuestionCount(ctx context.Context) (int, error) {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("get questions: %w", err)
	}
	return len(questions), nil
}
