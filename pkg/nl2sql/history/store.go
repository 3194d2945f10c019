// Package history persists conversation turns and renders the memory window
// fed to the prompts.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chat-budgeting-be/internal/constant"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/specification"
	"chat-budgeting-be/internal/repository/unitofwork"
	"chat-budgeting-be/pkg/llm"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxSeqAttempts  = 3
)

type Store struct {
	uowFactory unitofwork.RepositoryFactory
	pageSize   int
}

func NewStore(uowFactory unitofwork.RepositoryFactory, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Store{uowFactory: uowFactory, pageSize: pageSize}
}

// Messages returns the newest page of the room's turns, oldest first.
func (s *Store) Messages(ctx context.Context, roomID int64) ([]*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	msgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByRoomID{RoomID: roomID},
		specification.OrderBy{Field: "seq", Desc: true},
		specification.Pagination{Limit: s.pageSize},
	)
	if err != nil {
		return nil, fmt.Errorf("load room %d history: %w", roomID, err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

type AddMessageInput struct {
	RoomID  int64
	Sender  entity.Sender
	Text    string
	ReplyTo *int64 // id of an earlier message in the same room
}

// AddMessage appends a turn with the next sequence number of its room. A
// concurrent writer taking the same seq makes the insert fail on the unique
// (room_id, seq) index, in which case the append is retried.
func (s *Store) AddMessage(ctx context.Context, in AddMessageInput) (*entity.ChatMessage, error) {
	if !in.Sender.Valid() {
		return nil, fmt.Errorf("invalid sender %q", in.Sender)
	}

	var lastErr error
	for attempt := 0; attempt < maxSeqAttempts; attempt++ {
		msg, err := s.append(ctx, in)
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("append to room %d after %d attempts: %w", in.RoomID, maxSeqAttempts, lastErr)
}

func (s *Store) append(ctx context.Context, in AddMessageInput) (*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.ChatMessageRepository()

	if in.ReplyTo != nil {
		target, err := repo.FindOne(ctx,
			specification.ByID{ID: *in.ReplyTo},
			specification.ByRoomID{RoomID: in.RoomID},
		)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("reply target %d is not in room %d", *in.ReplyTo, in.RoomID)
		}
	}

	seq, err := repo.NextSeq(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	msg := &entity.ChatMessage{
		RoomId:      in.RoomID,
		Seq:         seq,
		Sender:      in.Sender,
		MessageText: in.Text,
		Timestamp:   time.Now().UTC(),
		ReplyToId:   in.ReplyTo,
	}
	if in.Sender == entity.SenderUser {
		msg.TokenUser = llm.EstimateTokens(in.Text)
	}

	if err := repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Window renders the last k exchanges (2k turns) as prefixed lines.
func Window(turns []*entity.ChatMessage, k int) string {
	if k <= 0 || len(turns) == 0 {
		return ""
	}
	start := len(turns) - 2*k
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(turns)-start)
	for _, t := range turns[start:] {
		prefix := constant.HistoryAIPrefix
		if t.Sender == entity.SenderUser {
			prefix = constant.HistoryUserPrefix
		}
		lines = append(lines, prefix+t.MessageText)
	}
	return strings.Join(lines, "\n")
}
