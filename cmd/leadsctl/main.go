package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PavaniTiago/leads-intelligence-api/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadsctl",
		Short: "Ferramentas de linha de comando para o pipeline de leads",
		Long: `leadsctl roda a ingestão e os normalizadores localmente, sem subir a API.

Útil para validar um export do webhook antes de publicá-lo.`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")
	_ = viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(ingestCmd())
	root.AddCommand(parseDateCmd())
	root.AddCommand(parseAmountCmd())
	return root
}

func initLogging(_ *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("LEADSCTL")
	viper.AutomaticEnv()

	l, err := config.NewLogger(&config.Config{
		LogLevel:  viper.GetString("logging.level"),
		LogFormat: viper.GetString("logging.format"),
	})
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	logger = l
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
