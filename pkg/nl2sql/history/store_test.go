package history

import (
	"context"
	"errors"
	"testing"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/unitofwork/uowtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAddMessageAssignsSeqAndReplyTo(t *testing.T) {
	mem := uowtest.NewMemory()
	store := NewStore(mem.Factory(), 0)
	ctx := context.Background()

	user, err := store.AddMessage(ctx, AddMessageInput{RoomID: 7, Sender: entity.SenderUser, Text: "berapa pagu unit A"})
	require.NoError(t, err)
	ai, err := store.AddMessage(ctx, AddMessageInput{RoomID: 7, Sender: entity.SenderAI, Text: "Pagu unit A 900.", ReplyTo: &user.Id})
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.Seq)
	assert.Equal(t, int64(2), ai.Seq)
	assert.Equal(t, 4, user.TokenUser)
	assert.Zero(t, ai.TokenUser)
	require.NotNil(t, ai.ReplyToId)
	assert.Equal(t, user.Id, *ai.ReplyToId)
	assert.Nil(t, user.ReplyToId)
}

func TestAddMessageRejectsForeignReplyTarget(t *testing.T) {
	mem := uowtest.NewMemory()
	store := NewStore(mem.Factory(), 0)
	ctx := context.Background()

	other, err := store.AddMessage(ctx, AddMessageInput{RoomID: 1, Sender: entity.SenderUser, Text: "x"})
	require.NoError(t, err)

	_, err = store.AddMessage(ctx, AddMessageInput{RoomID: 2, Sender: entity.SenderAI, Text: "y", ReplyTo: &other.Id})
	assert.Error(t, err)
	assert.Empty(t, mem.MessagesOf(2))
}

func TestAddMessageRetriesSeqCollision(t *testing.T) {
	mem := uowtest.NewMemory()
	mem.DuplicateSeqOnce = 2
	store := NewStore(mem.Factory(), 0)

	msg, err := store.AddMessage(context.Background(), AddMessageInput{RoomID: 3, Sender: entity.SenderUser, Text: "q"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.Seq)
}

func TestAddMessageGivesUpAfterBoundedRetries(t *testing.T) {
	mem := uowtest.NewMemory()
	mem.DuplicateSeqOnce = 10
	store := NewStore(mem.Factory(), 0)

	_, err := store.AddMessage(context.Background(), AddMessageInput{RoomID: 3, Sender: entity.SenderUser, Text: "q"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.Equal(t, 10-maxSeqAttempts, mem.DuplicateSeqOnce)
}

func TestAddMessageInvalidSender(t *testing.T) {
	store := NewStore(uowtest.NewMemory().Factory(), 0)
	_, err := store.AddMessage(context.Background(), AddMessageInput{RoomID: 1, Sender: "system", Text: "q"})
	assert.Error(t, err)
}

func TestMessagesReturnsNewestPageOldestFirst(t *testing.T) {
	mem := uowtest.NewMemory()
	store := NewStore(mem.Factory(), 3)
	ctx := context.Background()

	for _, text := range []string{"m1", "m2", "m3", "m4", "m5"} {
		_, err := store.AddMessage(ctx, AddMessageInput{RoomID: 9, Sender: entity.SenderUser, Text: text})
		require.NoError(t, err)
	}

	msgs, err := store.Messages(ctx, 9)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m3", msgs[0].MessageText)
	assert.Equal(t, "m5", msgs[2].MessageText)
}

func TestWindow(t *testing.T) {
	turns := []*entity.ChatMessage{
		{Sender: entity.SenderUser, MessageText: "q1"},
		{Sender: entity.SenderAI, MessageText: "a1"},
		{Sender: entity.SenderUser, MessageText: "q2"},
		{Sender: entity.SenderAI, MessageText: "a2"},
		{Sender: entity.SenderUser, MessageText: "q3"},
		{Sender: entity.SenderAI, MessageText: "a3"},
	}

	tests := []struct {
		name     string
		turns    []*entity.ChatMessage
		k        int
		expected string
	}{
		{"last two exchanges", turns, 2, "Pengguna: q2\nAI: a2\nPengguna: q3\nAI: a3"},
		{"window larger than history", turns[:2], 2, "Pengguna: q1\nAI: a1"},
		{"empty history", nil, 2, ""},
		{"zero window", turns, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Window(tt.turns, tt.k))
		})
	}
}
