package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/repository/specification"
	"chat-budgeting-be/internal/repository/unitofwork"
	"chat-budgeting-be/internal/service"
	"chat-budgeting-be/pkg/database"
	"chat-budgeting-be/pkg/nl2sql/history"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openStore connects to a migrated database (go run ./cmd/migrate).
func openStore(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")
	return gormDB
}

func TestGormChatStore(t *testing.T) {
	gormDB := openStore(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	rooms := service.NewRoomService(uowFactory, logger.NewNopLogger())
	store := history.NewStore(uowFactory, 50)

	nip := "it-" + uuid.NewString()[:8]
	room, err := rooms.CreateRoom(ctx, &dto.CreateRoomRequest{Nip: nip, KodeUnit: "U01", Title: "Integration"})
	require.NoError(t, err)

	t.Run("Turns get consecutive seq and reply links", func(t *testing.T) {
		user, err := store.AddMessage(ctx, history.AddMessageInput{RoomID: room.Id, Sender: entity.SenderUser, Text: "berapa pagu unit A?"})
		require.NoError(t, err)
		ai, err := store.AddMessage(ctx, history.AddMessageInput{RoomID: room.Id, Sender: entity.SenderAI, Text: "900", ReplyTo: &user.Id})
		require.NoError(t, err)

		assert.Equal(t, user.Seq+1, ai.Seq)
		assert.Equal(t, 4, user.TokenUser)

		turns, err := store.Messages(ctx, room.Id)
		require.NoError(t, err)
		require.Len(t, turns, 2)
		assert.Equal(t, user.Id, turns[0].Id)
		require.NotNil(t, turns[1].ReplyToId)
		assert.Equal(t, user.Id, *turns[1].ReplyToId)
	})

	t.Run("Run recording is idempotent per user message", func(t *testing.T) {
		turns, err := store.Messages(ctx, room.Id)
		require.NoError(t, err)
		userMsgId := turns[0].Id

		uow := uowFactory.NewUnitOfWork(ctx)
		run := &entity.LLMRun{UserMessageId: userMsgId, GeneratedSQL: "SELECT 1;", IsSuccess: true, Timestamp: time.Now()}
		created, err := uow.LLMRunRepository().CreateIfAbsent(ctx, run)
		require.NoError(t, err)
		assert.True(t, created)

		again := &entity.LLMRun{UserMessageId: userMsgId, GeneratedSQL: "SELECT 2;", IsSuccess: true, Timestamp: time.Now()}
		created, err = uow.LLMRunRepository().CreateIfAbsent(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)

		stored, err := uow.LLMRunRepository().FindOne(ctx, specification.ByUserMessageID{UserMessageID: userMsgId})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "SELECT 1;", stored.GeneratedSQL)
	})

	t.Run("Vector upsert replaces by point id", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		id := uuid.New()
		vec := make([]float32, 768)
		vec[0] = 1

		for _, text := range []string{"first", "second"} {
			err := uow.MessageVectorRepository().Upsert(ctx, &entity.MessageVector{
				Id:        id,
				Embedding: vec,
				Payload:   entity.VectorPayload{Text: text, Sender: entity.SenderUser, RoomId: room.Id, OriginalMessageId: 1},
			})
			require.NoError(t, err)
		}

		var count int64
		require.NoError(t, gormDB.Table("message_vectors").Where("id = ?", id).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Clear history removes messages runs and vectors", func(t *testing.T) {
		cleared, err := rooms.ClearHistory(ctx, nip, room.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(2), cleared.DeletedMessages)

		msgs, err := rooms.GetHistory(ctx, nip, room.Id)
		require.NoError(t, err)
		assert.Empty(t, msgs)

		var vectors int64
		require.NoError(t, gormDB.Table("message_vectors").Where("room_id = ?", room.Id).Count(&vectors).Error)
		assert.Zero(t, vectors)
	})
}
