package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
	"randomtimer/internal/notify"
	"randomtimer/internal/storage"
	"randomtimer/internal/ui/preferences"
	"randomtimer/internal/ui/tray"
)

func addTray(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Run the timer from the system tray (default).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd, v)
		},
	}
	topLevel.AddCommand(cmd)
}

// sharedSettings guards settings read by the notifier on the timer loop and
// written by the preferences window.
type sharedSettings struct {
	mu       sync.Mutex
	settings model.Settings
}

func (shared *sharedSettings) Get() model.Settings {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.settings
}

func (shared *sharedSettings) Set(settings model.Settings) {
	shared.mu.Lock()
	shared.settings = settings
	shared.mu.Unlock()
	if err := storage.SaveSettings(appName, settings); err != nil {
		slog.Warn("save settings", "error", err)
	}
}

func runTray(_ *cobra.Command, v *viper.Viper) error {
	options, err := LoadOptions(v)
	if err != nil {
		return err
	}
	logger, err := newLogger(options)
	if err != nil {
		return err
	}

	guard, err := acquireInstance(options)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	loaded, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}
	settings := &sharedSettings{settings: options.apply(loaded)}

	fyneApp := app.NewWithID("com.example.randomtimer")
	fyneApp.SetIcon(theme.MediaRecordIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow("Random Timer")
	trayWindow.SetContent(widget.NewLabel("Random Timer is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	desktopApp.SetSystemTrayWindow(trayWindow)

	var (
		keeper      *timekeeper.TimeKeeper
		trayManager *tray.Manager
	)
	prefsWindow := preferences.New(fyneApp, settings.Get(), func(updated model.Settings) {
		settings.Set(updated)
		trayManager.SetHideRemaining(updated.HideRemaining)
	})

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnStart: func(level model.DifficultyLevel) {
			// Commands wait on the timer loop; keep them off the UI thread.
			go func() {
				if err := keeper.Start(level); err != nil {
					logger.Warn("start refused", "level", string(level), "error", err)
					fyne.Do(func() {
						trayWindow.Show()
						dialog.ShowError(err, trayWindow)
					})
				}
			}()
		},
		OnStop: func() {
			go keeper.Stop()
		},
		OnHideRemaining: func(hide bool) {
			current := settings.Get()
			current.HideRemaining = hide
			settings.Set(current)
			prefsWindow.UpdateSettings(current)
		},
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	}, settings.Get().HideRemaining)

	notifier := notify.NewDesktop(fyneApp, trayManager, func() bool {
		return settings.Get().NotificationsEnabled
	})
	keeper = newKeeper(options, notifier, logger)
	events := keeper.Subscribe(16)
	running := startServices(context.Background(), options, keeper, logger)

	go func() {
		for event := range events {
			if event.Type != timekeeper.EventStatusChanged {
				continue
			}
			now := keeper.Now()
			fyne.Do(func() {
				trayManager.SetStatus(event, now)
			})
		}
	}()

	quit := make(chan struct{})
	countdownDone := make(chan struct{})
	go func() {
		defer close(countdownDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				now := keeper.Now()
				fyne.Do(func() {
					trayManager.Tick(now)
				})
			}
		}
	}()

	fyneApp.Run()
	close(quit)
	<-countdownDone
	keeper.Stop()
	running.Close()
	return nil
}
