package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/guess-the-flag-bot/internal/config"
	"github.com/aliskhannn/guess-the-flag-bot/internal/delivery/rest"
	"github.com/aliskhannn/guess-the-flag-bot/internal/delivery/telegram"
	"github.com/aliskhannn/guess-the-flag-bot/internal/logger"
	"github.com/aliskhannn/guess-the-flag-bot/internal/repository"
	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
	"github.com/aliskhannn/guess-the-flag-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "quiz",
			Description: "Start a new flag quiz",
		},
		{
			Command:     "score",
			Description: "Show the current score",
		},
		{
			Command:     "stop",
			Description: "Stop the current quiz",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	_, err = bot.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg, bot); err != nil {
		stop()
		lg.Fatal("application stopped with error", zap.Error(err))
	}

	lg.Info("shutdown complete")
}

// run serves the Telegram bot and the HTTP API until ctx is done or one of them fails.
func run(ctx context.Context, cfg *config.Config, lg *zap.Logger, bot *tgbotapi.BotAPI) error {
	// Initialize the question bank and the quiz service.
	questionRepo, err := repository.NewQuestionRepository(cfg.QuestionsPath)
	if err != nil {
		return fmt.Errorf("load question bank %q: %w", cfg.QuestionsPath, err)
	}
	lg.Info("question bank loaded", zap.Int("questions", questionRepo.Count()))

	quizService := service.NewQuizService(
		questionRepo,
		lg,
		service.WithAdvanceDelay(cfg.Quiz.AdvanceDelay),
	)

	chatQuizzes := storage.NewQuizStorage[int64]()
	defer chatQuizzes.CloseAll()

	handler := telegram.NewHandler(
		bot,
		lg,
		quizService,
		chatQuizzes,
		cfg.Telegram.UpdatesTimeout,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer bot.StopReceivingUpdates()
		return handler.Run(gctx)
	})

	if cfg.HTTP.Enabled {
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		games := storage.NewQuizStorage[string]()
		defer games.CloseAll()

		hub := rest.NewHub(lg)
		defer hub.CloseAll()

		router := rest.NewRouter(rest.NewHandler(lg, quizService, games, hub), lg)
		server := rest.NewServer(cfg.HTTP.Addr, router, lg, cfg.HTTP.ShutdownTimeout)

		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
