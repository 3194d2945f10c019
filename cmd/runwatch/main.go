// Command runwatch tails NL2SQL_RUN_RECORDED events from JetStream.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/pkg/events"
	pktNats "chat-budgeting-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, events.NL2SQLRunRecorded, "runwatch", func(ctx context.Context, event events.Event) error {
		p := event.Payload()
		line := color.New(color.FgGreen)
		if ok, _ := p["is_success"].(bool); !ok {
			line = color.New(color.FgRed)
		}
		line.Printf("%s run=%v msg=%v %v/%v %vms\n",
			event.Timestamp().Format("15:04:05"),
			p["run_id"], p["user_message_id"], p["llm_provider"], p["llm_model_used"], p["latency_total_ms"])
		color.HiBlack("  %v", p["generated_sql"])
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	color.Cyan("Watching %s on %s", events.NL2SQLRunRecorded, pktNats.StreamName)
	<-ctx.Done()
}
