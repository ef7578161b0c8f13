package main

import (
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bigredeye/temrin/pkg/client/temrin"
)

var log *zap.Logger

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func unwrap[T any](value T, err error) T {
	check(err)
	return value
}

var (
	endpoint string

	rootCmd = &cobra.Command{
		Use:   "temrin",
		Short: "Temrin tracker client",
	}
)

func defaultEndpoint() string {
	if env := os.Getenv("TEMRIN_ENDPOINT"); env != "" {
		return env
	}
	return "http://localhost:8080"
}

func newClient() (*temrin.Client, error) {
	return temrin.NewClient(endpoint)
}

func initLogging() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.ConsoleSeparator = " "
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.StampMilli)
	log = unwrap(config.Build())
}

func initCommands() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint(), "Temrin server URL")

	rootCmd.AddCommand(makeListCommand())
	rootCmd.AddCommand(makeAddCommand())
	rootCmd.AddCommand(makeUpdateCommand())
	rootCmd.AddCommand(makeDeleteCommand())
	rootCmd.AddCommand(makeStatsCommand())
	rootCmd.AddCommand(makeAnalyzeCommand())
	rootCmd.AddCommand(makeImportCommand())
}

func init() {
	initLogging()
	initCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %+v\n", err)
		os.Exit(1)
	}
}
