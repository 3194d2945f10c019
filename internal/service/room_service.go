// FILE: internal/service/room_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/repository/specification"
	"chat-budgeting-be/internal/repository/unitofwork"
	"chat-budgeting-be/pkg/apperror"
)

type IRoomService interface {
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	ListRooms(ctx context.Context, nip string) ([]*dto.RoomResponse, error)
	GetHistory(ctx context.Context, nip string, roomId int64) ([]*dto.ChatMessageResponse, error)
	ClearHistory(ctx context.Context, nip string, roomId int64) (*dto.ClearHistoryResponse, error)
	GetRun(ctx context.Context, userMessageId int64) (*dto.LLMRunResponse, error)

	// PrepareTurn upserts the caller and checks the room belongs to them.
	PrepareTurn(ctx context.Context, nip, kodeUnit, displayName string, roomId int64) (*entity.ChatRoom, error)
}

type roomService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRoomService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IRoomService {
	return &roomService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *roomService) upsertUser(ctx context.Context, uow unitofwork.UnitOfWork, nip, kodeUnit, displayName string) (*entity.User, error) {
	nip = strings.TrimSpace(nip)
	if nip == "" {
		return nil, &apperror.ValidationError{Message: "NIP wajib diisi."}
	}
	user := &entity.User{Nip: nip, KodeUnit: kodeUnit, DisplayName: displayName}
	if err := uow.UserRepository().Upsert(ctx, user); err != nil {
		return nil, apperror.Infrastructure("upsert user", err)
	}
	return user, nil
}

func (s *roomService) findRoom(ctx context.Context, uow unitofwork.UnitOfWork, roomId int64) (*entity.ChatRoom, error) {
	room, err := uow.ChatRoomRepository().FindOne(ctx, specification.ByID{ID: roomId})
	if err != nil {
		return nil, apperror.Infrastructure("find room", err)
	}
	if room == nil {
		return nil, &apperror.NotFoundError{Resource: fmt.Sprintf("Room %d", roomId)}
	}
	return room, nil
}

// ownedRoom loads the room and reports it as missing unless it belongs to
// the user with nip.
func (s *roomService) ownedRoom(ctx context.Context, uow unitofwork.UnitOfWork, nip string, roomId int64) (*entity.ChatRoom, error) {
	nip = strings.TrimSpace(nip)
	if nip == "" {
		return nil, &apperror.ValidationError{Message: "NIP wajib diisi."}
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByNip{Nip: nip})
	if err != nil {
		return nil, apperror.Infrastructure("find user", err)
	}
	room, err := s.findRoom(ctx, uow, roomId)
	if err != nil {
		return nil, err
	}
	if user == nil || room.UserId != user.Id {
		return nil, &apperror.NotFoundError{Resource: fmt.Sprintf("Room %d", roomId)}
	}
	return room, nil
}

func (s *roomService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Infrastructure("begin transaction", err)
	}
	defer uow.Rollback()

	user, err := s.upsertUser(ctx, uow, req.Nip, req.KodeUnit, req.DisplayName)
	if err != nil {
		return nil, err
	}

	room := &entity.ChatRoom{UserId: user.Id, Title: strings.TrimSpace(req.Title)}
	if err := uow.ChatRoomRepository().Create(ctx, room); err != nil {
		return nil, apperror.Infrastructure("create room", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Infrastructure("commit room", err)
	}

	s.logger.Info("ROOM", "Room created", map[string]interface{}{"room_id": room.Id, "nip": user.Nip})
	return toRoomResponse(room), nil
}

func (s *roomService) ListRooms(ctx context.Context, nip string) ([]*dto.RoomResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByNip{Nip: strings.TrimSpace(nip)})
	if err != nil {
		return nil, apperror.Infrastructure("find user", err)
	}
	if user == nil {
		return nil, &apperror.NotFoundError{Resource: "Pengguna"}
	}

	rooms, err := uow.ChatRoomRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.OrderBy{Field: "id", Desc: true},
	)
	if err != nil {
		return nil, apperror.Infrastructure("list rooms", err)
	}

	result := make([]*dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, toRoomResponse(room))
	}
	return result, nil
}

func (s *roomService) GetHistory(ctx context.Context, nip string, roomId int64) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedRoom(ctx, uow, nip, roomId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByRoomID{RoomID: roomId},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, apperror.Infrastructure("load history", err)
	}

	result := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, &dto.ChatMessageResponse{
			Id:          m.Id,
			Seq:         m.Seq,
			Sender:      string(m.Sender),
			MessageText: m.MessageText,
			TokenUser:   m.TokenUser,
			Timestamp:   m.Timestamp,
			ReplyToId:   m.ReplyToId,
		})
	}
	return result, nil
}

// ClearHistory removes the room's messages, their runs (cascade) and vectors.
// The room itself stays.
func (s *roomService) ClearHistory(ctx context.Context, nip string, roomId int64) (*dto.ClearHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedRoom(ctx, uow, nip, roomId); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Infrastructure("begin transaction", err)
	}
	defer uow.Rollback()

	count, err := uow.ChatMessageRepository().Count(ctx, specification.ByRoomID{RoomID: roomId})
	if err != nil {
		return nil, apperror.Infrastructure("count messages", err)
	}
	if err := uow.MessageVectorRepository().DeleteByRoomId(ctx, roomId); err != nil {
		return nil, apperror.Infrastructure("delete vectors", err)
	}
	if err := uow.ChatMessageRepository().DeleteByRoomId(ctx, roomId); err != nil {
		return nil, apperror.Infrastructure("delete messages", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Infrastructure("commit clear", err)
	}

	s.logger.Info("ROOM", "History cleared", map[string]interface{}{"room_id": roomId, "deleted": count})
	return &dto.ClearHistoryResponse{RoomId: roomId, DeletedMessages: count}, nil
}

func (s *roomService) GetRun(ctx context.Context, userMessageId int64) (*dto.LLMRunResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.LLMRunRepository().FindOne(ctx, specification.ByUserMessageID{UserMessageID: userMessageId})
	if err != nil {
		return nil, apperror.Infrastructure("find llm run", err)
	}
	if run == nil {
		return nil, &apperror.NotFoundError{Resource: "LLM run"}
	}

	return &dto.LLMRunResponse{
		Id:                        run.Id,
		UserMessageId:             run.UserMessageId,
		RetrievedContextKnowledge: run.RetrievedContextKnowledge,
		RetrievedContextMemory:    run.RetrievedContextMemory,
		GeneratedSQL:              run.GeneratedSQL,
		LLMModelUsed:              run.LLMModelUsed,
		LLMProviderUsed:           run.LLMProviderUsed,
		TokenLLM:                  run.TokenLLM,
		IsSuccess:                 run.IsSuccess,
		EndpointPath:              run.EndpointPath,
		LatencyTotalMs:            run.LatencyTotalMs,
		LatencyClassificationMs:   run.LatencyClassificationMs,
		LatencyRagMs:              run.LatencyRagMs,
		LatencySQLGenerationMs:    run.LatencySQLGenerationMs,
		LatencySQLExecutionMs:     run.LatencySQLExecutionMs,
		LatencyReasoningMs:        run.LatencyReasoningMs,
		Timestamp:                 run.Timestamp,
	}, nil
}

func (s *roomService) PrepareTurn(ctx context.Context, nip, kodeUnit, displayName string, roomId int64) (*entity.ChatRoom, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.upsertUser(ctx, uow, nip, kodeUnit, displayName); err != nil {
		return nil, err
	}
	return s.ownedRoom(ctx, uow, nip, roomId)
}

func toRoomResponse(room *entity.ChatRoom) *dto.RoomResponse {
	return &dto.RoomResponse{
		Id:        room.Id,
		UserId:    room.UserId,
		Title:     room.Title,
		CreatedAt: room.CreatedAt,
	}
}
