// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/application/doctor"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/ai"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/auth"
	calendarclient "github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/calendar"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/config"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/history"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/httpapi"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/pkg/logger"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/services"
)

// Container holds the wired dependency graph.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        ports.Logger
	AuthManager   *auth.Manager
	Calendar      ports.CalendarClient
	ChatService   *services.ChatService
	DoctorService *doctor.Service
	Server        *httpapi.Server
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)

	authManager := auth.NewManager(cfg.Google, log)
	sessions, err := auth.NewSessions(cfg.Server.SessionTTLHours)
	if err != nil {
		return nil, err
	}

	calendar := calendarclient.NewGoogleClient(cfg.Google.CalendarID, authManager, log)
	executor := &services.CalendarExecutor{Calendar: calendar, Logger: log}

	pendingTTL := time.Duration(cfg.Preferences.PendingTTLSeconds) * time.Second
	registry := services.NewSessionRegistry(
		func() ports.ConversationStore { return history.NewMemoryStore() },
		func() *services.Gate { return services.NewGate(executor, pendingTTL) },
	)

	resolver := &services.Resolver{
		Factory:    ai.NewFactory(),
		Candidates: cfg.CandidateModels(),
		Logger:     log,
	}

	chatService := &services.ChatService{
		Calendar: calendar,
		Resolver: resolver,
		Sessions: registry,
		Logger:   log,
	}

	doctorService := &doctor.Service{ConfigProvider: cfgLoader}

	server := httpapi.NewServer(httpapi.Options{
		Chat:           chatService,
		Calendar:       calendar,
		OAuth:          authManager,
		Sessions:       sessions,
		Logger:         log,
		StaticDir:      cfg.Server.StaticDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return &Container{
		Config:        cfg,
		ConfigLoader:  cfgLoader,
		Logger:        log,
		AuthManager:   authManager,
		Calendar:      calendar,
		ChatService:   chatService,
		DoctorService: doctorService,
		Server:        server,
	}, nil
}
