package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"randomtimer/internal/core/model"
	"randomtimer/internal/notify"
	"randomtimer/internal/storage"
)

func addRun(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session in the terminal until interrupted.",
		Example: `
randomtimer run --level hard
RANDOMTIMER_UNIT=1s randomtimer run --level easy --status-addr ""
RANDOMTIMER_NOTIFICATIONS=false randomtimer run
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, v)
		},
	}
	cmd.Flags().String("level", "", "Difficulty: easy, medium or hard. Defaults to the saved setting.")
	_ = v.BindPFlag("level", cmd.Flags().Lookup("level"))

	topLevel.AddCommand(cmd)
}

func runHeadless(cmd *cobra.Command, v *viper.Viper) error {
	options, err := LoadOptions(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(options)
	if err != nil {
		return err
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}
	settings = options.apply(settings)
	level := settings.DefaultLevel
	if name := v.GetString("level"); name != "" {
		if level, err = model.ParseDifficulty(name); err != nil {
			return err
		}
	}

	guard, err := acquireInstance(options)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := notify.NewTerminal(cmd.OutOrStdout(), func() bool {
		return settings.NotificationsEnabled
	})
	keeper := newKeeper(options, notifier, logger)
	running := startServices(context.Background(), options, keeper, logger)
	defer running.Close()

	if err := keeper.Start(level); err != nil {
		return fmt.Errorf("start %s session: %w", level, err)
	}

	<-ctx.Done()
	keeper.Stop()
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
