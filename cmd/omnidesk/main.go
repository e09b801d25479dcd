package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"omnidesk/internal/api"
	"omnidesk/internal/config"
	"omnidesk/internal/observability"
	"omnidesk/internal/tui"
	"omnidesk/internal/workflow"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := observability.Init(cfg.Log.Path); err != nil {
		log.Fatalf("log: %v", err)
	}

	userID := strings.TrimSpace(cfg.Server.UserID)
	if userID == "" {
		userID = uuid.NewString()
	}

	client := api.NewClient(cfg.Server.BaseURL)

	controllers := tui.Controllers{
		Chat:     workflow.NewChat(client, userID),
		Document: workflow.NewDocument(client, userID),
		Voice:    workflow.NewAudio(client),
		Data:     workflow.NewTabular(client),
		Calendar: workflow.NewCalendar(client),
	}

	p := tea.NewProgram(tui.New(ctx, cfg, controllers), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
