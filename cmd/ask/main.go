// Command ask runs one question through the pipeline and prints every stage
// result.
//
//	go run ./cmd/ask -nip 198501012010011001 -room 3 -model gemini-2.0-flash "Berapa total pagu unit A?"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"chat-budgeting-be/internal/bootstrap"
	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/service"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	nip := flag.String("nip", "", "NIP of the asking user")
	roomId := flag.Int64("room", 0, "chat room id; 0 creates a new room")
	model := flag.String("model", "gemini-2.0-flash", "model identifier")
	mode := flag.String("mode", "reasoning", "reasoning, data or conversation")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" || *nip == "" {
		color.Red("Usage: ask -nip NIP [-room ID] [-model MODEL] [-mode reasoning|data|conversation] QUESTION")
		os.Exit(2)
	}

	flow, ok := map[string]service.Flow{
		"reasoning":    service.FlowSingleShotReasoning,
		"data":         service.FlowSingleShotData,
		"conversation": service.FlowConversational,
	}[*mode]
	if !ok {
		color.Red("Unknown mode %q", *mode)
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	container, err := bootstrap.NewContainer(db, cfg)
	if err != nil {
		color.Red("Failed to build container: %v", err)
		os.Exit(1)
	}
	defer container.Close()

	ctx := context.Background()
	go container.AuditService.Run(ctx)
	<-container.AuditService.Running()

	if *roomId == 0 {
		room, err := container.RoomService.CreateRoom(ctx, &dto.CreateRoomRequest{Nip: *nip, Title: "cli"})
		if err != nil {
			color.Red("Failed to create room: %v", err)
			os.Exit(1)
		}
		*roomId = room.Id
		color.Cyan("Created room %d", room.Id)
	}

	color.Yellow("\n[%s] %s", flow.EndpointPath(), question)
	res, err := container.NL2SQLService.Run(ctx, flow, &dto.NL2SQLRequest{
		Prompt: question,
		Model:  *model,
		Nip:    *nip,
		RoomId: *roomId,
	})
	if err != nil {
		color.Red("Status %d: %s", apperror.Status(err), apperror.PublicMessage(err))
		color.HiBlack("%v", err)
		os.Exit(1)
	}

	color.Green("\nSQL:")
	fmt.Println(res.Query)

	color.Green("\nData (%d rows):", len(res.DataRaw))
	b, _ := json.MarshalIndent(res.DataRaw, "", "  ")
	fmt.Println(string(b))

	if res.Reasoning != nil {
		color.Green("\nReasoning:")
		fmt.Println(*res.Reasoning)
	}
}
