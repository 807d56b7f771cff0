// Package commands wires the timer into the randomtimer CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/picker"
	"randomtimer/internal/core/timekeeper"
	"randomtimer/internal/logging"
	"randomtimer/internal/platform"
	"randomtimer/internal/remote"
)

const appName = "RandomTimer"

// Options are process-level settings resolved from flags and environment.
// A nil Notifications leaves the saved setting in charge.
type Options struct {
	LogLevel      string
	LogFormat     string
	StatusAddr    string
	Unit          time.Duration
	Notifications *bool
}

// apply overrides saved settings with explicit options.
func (options Options) apply(settings model.Settings) model.Settings {
	if options.Notifications != nil {
		settings.NotificationsEnabled = *options.Notifications
	}
	return settings
}

// New returns the root command.
func New() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "randomtimer",
		Short:        "Alternate focus and rest periods of random length.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd, v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "Log level: debug, info, warn or error.")
	flags.String("log-format", "text", "Log format: text or json.")
	flags.String("status-addr", "127.0.0.1:7456", "Address of the status and command server. Empty disables it.")
	flags.Duration("unit", time.Minute, "Wall duration of one minute in the level table.")
	flags.Bool("notifications", true, "Show mode notifications. Defaults to the saved setting; false refuses to start.")
	_ = v.BindPFlags(flags)

	AddCommands(cmd, v)
	return cmd
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("RANDOMTIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	return v
}

// AddCommands registers the subcommands.
func AddCommands(topLevel *cobra.Command, v *viper.Viper) {
	addTray(topLevel, v)
	addRun(topLevel, v)
	addVersion(topLevel)
}

// LoadOptions reads Options from v.
func LoadOptions(v *viper.Viper) (Options, error) {
	options := Options{
		LogLevel:   v.GetString("log-level"),
		LogFormat:  v.GetString("log-format"),
		StatusAddr: v.GetString("status-addr"),
		Unit:       v.GetDuration("unit"),
	}
	if v.IsSet("notifications") {
		enabled := v.GetBool("notifications")
		options.Notifications = &enabled
	}
	if options.Unit <= 0 {
		return options, fmt.Errorf("unit must be positive, got %s", options.Unit)
	}
	return options, nil
}

func acquireInstance(options Options) (*platform.InstanceGuard, error) {
	return platform.AcquireSingleInstance(appName, platform.Owner{
		PID:        os.Getpid(),
		StatusAddr: options.StatusAddr,
	})
}

func newLogger(options Options) (*slog.Logger, error) {
	logger, err := logging.New(options.LogLevel, options.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func newKeeper(options Options, notifier timekeeper.Notifier, logger *slog.Logger) *timekeeper.TimeKeeper {
	return timekeeper.New(timekeeper.Options{
		Picker:   picker.New(nil, logger),
		Notifier: notifier,
		Logger:   logger,
		Unit:     options.Unit,
	})
}

// services runs the keeper loop and, when configured, the remote surface.
type services struct {
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func startServices(parent context.Context, options Options, keeper *timekeeper.TimeKeeper, logger *slog.Logger) *services {
	ctx, cancel := context.WithCancel(parent)
	running := &services{cancel: cancel}

	var events <-chan timekeeper.Event
	if options.StatusAddr != "" {
		events = keeper.Subscribe(64)
	}

	running.wg.Add(1)
	go func() {
		defer running.wg.Done()
		keeper.Run(ctx)
	}()

	if options.StatusAddr == "" {
		return running
	}

	hub := remote.NewHub(keeper.Latest, keeper.Now, logger)
	running.wg.Add(2)
	go func() {
		defer running.wg.Done()
		hub.Run(ctx, events)
	}()
	go func() {
		defer running.wg.Done()
		if err := remote.Serve(ctx, options.StatusAddr, remote.NewHandler(keeper, hub, logger), logger); err != nil {
			logger.Error("status server failed", "addr", options.StatusAddr, "error", err)
		}
	}()
	return running
}

func (running *services) Close() {
	running.cancel()
	running.wg.Wait()
}
