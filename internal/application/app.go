package application

import (
	"context"
	"fmt"

	"github.com/icewatch/ice-news-monitor/internal/infrastructure"
	"github.com/icewatch/ice-news-monitor/internal/repository"
	"github.com/icewatch/ice-news-monitor/internal/service"
	"github.com/icewatch/ice-news-monitor/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config       *infrastructure.Config
	Monitor      *service.Monitor
	RunHandler   *handler.Run
	StateHandler *handler.State
	cleanup      func() error
}

// New creates a new application instance with all dependencies
func New() (*Application, error) {
	// Load configuration
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Create repositories
	stateRepo, err := newStateRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating state repository: %w", err)
	}

	newsRepo := repository.NewNewsRepository(cfg.NewsURL)
	translateRepo := repository.NewTranslateRepository(cfg.TranslateEndpoint)
	telegramRepo := repository.NewTelegramRepository(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramAPIEndpoint)

	// Create services (business logic)
	translator := service.NewTranslator(translateRepo, cfg.SourceLang, cfg.TargetLang)
	notifier := service.NewNotifier(telegramRepo)
	monitor := service.NewMonitor(newsRepo, stateRepo, translator, notifier)

	// Create handlers (HTTP layer)
	runHandler := handler.NewRun(monitor)
	stateHandler := handler.NewState(stateRepo)

	cleanup := func() error {
		return stateRepo.Close()
	}

	return &Application{
		Config:       cfg,
		Monitor:      monitor,
		RunHandler:   runHandler,
		StateHandler: stateHandler,
		cleanup:      cleanup,
	}, nil
}

func newStateRepository(cfg *infrastructure.Config) (repository.StateRepository, error) {
	if cfg.StateBackend == "cloud-storage" {
		return repository.NewCloudStorageStateRepository(context.Background(), cfg.StateBucket, cfg.StateObject)
	}
	return repository.NewFileStateRepository(cfg.StateFile), nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
