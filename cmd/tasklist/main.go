package main

import (
	"context"
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrOportus/Tasklist/internal/config"
	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/prefs"
	"github.com/MrOportus/Tasklist/internal/repository"
	"github.com/MrOportus/Tasklist/internal/service"
	"github.com/MrOportus/Tasklist/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	prefsStore := prefs.NewStore(cfg.PrefsDir)
	if _, err := prefsStore.Load(); err != nil {
		log.Printf("preferences: %v", err)
	}
	tokenCache := prefs.NewTokenCache(cfg.PrefsDir)

	authSvc := service.NewAuthService(userRepo, cfg.TokenSecret, tokenCache)
	taskSvc := service.NewTaskService(taskRepo)
	resetSvc := service.NewResetService(taskSvc, prefsStore.ResetTime, time.Local)

	// Resume a cached session before the identity observer is wired, so
	// startup state is read once from Current rather than replayed.
	resumeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := authSvc.ResumeCached(resumeCtx); err != nil && !errors.Is(err, service.ErrInvalidToken) {
		log.Printf("resume session: %v", err)
	}
	cancel()

	app := ui.NewApp(authSvc, taskSvc, resetSvc, prefsStore)
	p := tea.NewProgram(app, tea.WithAltScreen())

	authSvc.OnIdentityChange(func(u *model.User) {
		p.Send(ui.IdentityChangedMsg{User: u})
	})

	if _, err := p.Run(); err != nil {
		log.Fatalf("ui: %v", err)
	}
	resetSvc.Stop()
}
