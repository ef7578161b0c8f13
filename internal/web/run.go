package web

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bigredeye/temrin/internal/analysis"
	"github.com/bigredeye/temrin/internal/config"
	"github.com/bigredeye/temrin/internal/database"
	"github.com/bigredeye/temrin/internal/students"
	"github.com/bigredeye/temrin/internal/tgbot"
)

func Run(ctx context.Context, config *config.Config, logger *zap.Logger) error {
	db, err := database.Connect(ctx, logger, database.Dialector(config), config.DataBase.ConnectTimeout)
	if err != nil {
		return errors.Wrap(err, "Failed to open database")
	}

	studentService := students.NewService(db, logger)
	analyzer := analysis.NewAnalyzer(config, logger)
	defer analyzer.Stop()
	if !analyzer.Enabled() {
		logger.Warn("Analysis API key is not set, AI analysis is disabled")
	}

	s, err := newServer(config, logger, studentService, analyzer)
	if err != nil {
		return errors.Wrap(err, "Failed to start server")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(s.run(ctx), "Server failed")
	})

	if config.Telegram.BotToken != "" {
		bot, err := tgbot.NewBot(config, logger, studentService)
		if err != nil {
			return errors.Wrap(err, "Failed to start telegram bot")
		}
		g.Go(func() error {
			bot.Run(ctx)
			return nil
		})
	}

	return g.Wait()
}
