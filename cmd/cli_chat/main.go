// REPL local contra el motor de diálogo, sin base de datos de por medio.
// Útil para revisar el flujo completo de preguntas desde la terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"duobot/internal/dialogue"
	"duobot/internal/domain"
	"duobot/internal/domaincheck"
	"duobot/internal/pricing"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	logger := zap.NewExample()
	defer logger.Sync()

	prober := domaincheck.NewProber(2 * time.Second)
	engine := dialogue.NewEngine(prober, pricing.NewEstimator(pricing.DefaultTable()))

	fmt.Print("Your name: ")
	name, _ := reader.ReadString('\n')
	state := domain.NewDialogueState(strings.TrimSpace(name))

	fmt.Println("Chat started. Type 'exit' to quit.")
	text := "hello"
	for {
		reply, lead := engine.Advance(ctx, state, text)
		fmt.Println()
		fmt.Println("bot>", reply.Text)
		if len(reply.Options) > 0 {
			fmt.Println("    options:", strings.Join(reply.Options, " | "))
		}
		if lead != nil {
			logger.Info("lead completed",
				zap.String("project", lead.Project),
				zap.Int("estimated_cost", lead.EstimatedCost),
			)
		}

		fmt.Print("you> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(line)
		if text == "exit" {
			return
		}
	}
}
