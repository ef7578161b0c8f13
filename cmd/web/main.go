package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/bigredeye/temrin/internal/config"
	"github.com/bigredeye/temrin/internal/web"
	zlog "github.com/bigredeye/temrin/pkg/log"
)

func run(configPath string) error {
	conf, err := config.ParseConfig(configPath)
	if err != nil {
		return err
	}

	file := zlog.FileOptions{
		Path:       conf.Log.File,
		MaxSizeMB:  conf.Log.MaxSizeMB,
		MaxBackups: conf.Log.MaxBackups,
		MaxAgeDays: conf.Log.MaxAgeDays,
	}
	var logger *zap.Logger
	if conf.Log.Production {
		logger = zlog.InitProd(file)
	} else {
		logger = zlog.InitDev(file)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.Run(ctx, conf, logger)
}

func main() {
	configPath := flag.String("config", "", "Path to the config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
