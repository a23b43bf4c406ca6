package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-helpdesk-be/internal/bootstrap"
	"ai-helpdesk-be/internal/config"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interactive console chat against the full pipeline, useful for manual
// testing without the HTTP layer.
func main() {
	cfg := config.Load()

	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
	}

	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap container: %v", err)
	}

	sessionID := "sim-" + uuid.NewString()[:8]

	title := color.New(color.FgCyan, color.Bold)
	prompt := color.New(color.FgGreen, color.Bold)
	meta := color.New(color.FgYellow)
	assistant := color.New(color.FgWhite)
	errColor := color.New(color.FgRed)

	title.Println("=== Assistente Interno (modo simulação) ===")
	fmt.Printf("Sessão: %s\n", sessionID)
	fmt.Println("Digite sua mensagem (ou /sair para encerrar, /sessao para ver o estado)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Print("você> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/sair" {
			break
		}
		if input == "/sessao" {
			info, err := container.AssistantService.GetSessionInfo(sessionID)
			if err != nil {
				errColor.Printf("sessão ainda não criada: %v\n", err)
				continue
			}
			meta.Printf("turnos=%d awaiting=%v topic=%q attempts=%d\n",
				info.TurnCount, info.AwaitingClarification, info.PendingTopic, info.ClarificationAttempts)
			continue
		}

		res, err := container.AssistantService.SendMessage(context.Background(), &dto.SendMessageRequest{
			SessionId: sessionID,
			Message:   input,
		})
		if err != nil {
			errColor.Printf("erro: %v\n", err)
			continue
		}

		meta.Printf("[%s]\n", res.Intent)
		assistant.Println(res.Response)
		for _, src := range res.Sources {
			meta.Printf("  fonte %d: %s (score %.2f)\n", src.Rank, src.Source, src.Score)
		}
		fmt.Println()
	}
}
