// Package uowtest is an in-memory unit of work for service and stage tests.
//
// Specifications are interpreted by type, so only the ones used by the
// repositories' callers are supported. Writes apply immediately; Rollback
// does not undo them.
package uowtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/repository/contract"
	"chat-budgeting-be/internal/repository/specification"
	"chat-budgeting-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Memory holds every table. The zero value is not usable, call NewMemory.
type Memory struct {
	mu sync.Mutex

	Users    []*entity.User
	Rooms    []*entity.ChatRoom
	Messages []*entity.ChatMessage
	Runs     []*entity.LLMRun
	Vectors  map[uuid.UUID]*entity.MessageVector
	Docs     []*entity.ScoredSchemaDocument

	// DuplicateSeqOnce makes the next N message inserts fail with
	// gorm.ErrDuplicatedKey, as a concurrent writer would.
	DuplicateSeqOnce int
	// FailWrites makes every write return this error.
	FailWrites error

	nextID int64
}

func NewMemory() *Memory {
	return &Memory{Vectors: make(map[uuid.UUID]*entity.MessageVector)}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// Factory returns a repository factory over m.
func (m *Memory) Factory() unitofwork.RepositoryFactory {
	return factory{m: m}
}

type factory struct{ m *Memory }

func (f factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{m: f.m}
}

type uow struct {
	m      *Memory
	active bool
}

func (u *uow) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *uow) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	return nil
}

func (u *uow) Rollback() error {
	u.active = false
	return nil
}

func (u *uow) UserRepository() contract.UserRepository               { return userRepo{u.m} }
func (u *uow) ChatRoomRepository() contract.ChatRoomRepository       { return roomRepo{u.m} }
func (u *uow) ChatMessageRepository() contract.ChatMessageRepository { return messageRepo{u.m} }
func (u *uow) LLMRunRepository() contract.LLMRunRepository           { return runRepo{u.m} }
func (u *uow) MessageVectorRepository() contract.MessageVectorRepository {
	return vectorRepo{u.m}
}
func (u *uow) SchemaDocumentRepository() contract.SchemaDocumentRepository {
	return docRepo{u.m}
}

// query is the decoded form of a specification list.
type query struct {
	id, roomID, userID, userMessageID *int64
	nip, sender                       *string
	orderDesc                         bool
	ordered                           bool
	limit, offset                     int
}

func decode(specs []specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			q.id = &v.ID
		case specification.ByRoomID:
			q.roomID = &v.RoomID
		case specification.UserOwnedBy:
			q.userID = &v.UserID
		case specification.ByUserMessageID:
			q.userMessageID = &v.UserMessageID
		case specification.ByNip:
			q.nip = &v.Nip
		case specification.BySender:
			q.sender = &v.Sender
		case specification.OrderBy:
			q.ordered = true
			q.orderDesc = v.Desc
		case specification.Pagination:
			q.limit, q.offset = v.Limit, v.Offset
		default:
			panic(fmt.Sprintf("uowtest: unsupported specification %T", s))
		}
	}
	return q
}

func page[T any](items []T, q query) []T {
	if q.offset > 0 {
		if q.offset >= len(items) {
			return nil
		}
		items = items[q.offset:]
	}
	if q.limit > 0 && q.limit < len(items) {
		items = items[:q.limit]
	}
	return items
}

type userRepo struct{ m *Memory }

func (r userRepo) Upsert(ctx context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	for _, u := range r.m.Users {
		if u.Nip == user.Nip {
			u.KodeUnit, u.DisplayName = user.KodeUnit, user.DisplayName
			*user = *u
			return nil
		}
	}
	user.Id = r.m.id()
	user.CreatedAt = time.Now()
	c := *user
	r.m.Users = append(r.m.Users, &c)
	return nil
}

func (r userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q := decode(specs)
	for _, u := range r.m.Users {
		if (q.id == nil || u.Id == *q.id) && (q.nip == nil || u.Nip == *q.nip) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

type roomRepo struct{ m *Memory }

func (r roomRepo) Create(ctx context.Context, room *entity.ChatRoom) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	room.Id = r.m.id()
	room.CreatedAt = time.Now()
	c := *room
	r.m.Rooms = append(r.m.Rooms, &c)
	return nil
}

func (r roomRepo) match(q query) []*entity.ChatRoom {
	var out []*entity.ChatRoom
	for _, room := range r.m.Rooms {
		if (q.id == nil || room.Id == *q.id) && (q.userID == nil || room.UserId == *q.userID) {
			c := *room
			out = append(out, &c)
		}
	}
	if q.ordered && q.orderDesc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	}
	return page(out, q)
}

func (r roomRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatRoom, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if found := r.match(decode(specs)); len(found) > 0 {
		return found[0], nil
	}
	return nil, nil
}

func (r roomRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatRoom, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.match(decode(specs)), nil
}

type messageRepo struct{ m *Memory }

func (r messageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	if r.m.DuplicateSeqOnce > 0 {
		r.m.DuplicateSeqOnce--
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range r.m.Messages {
		if existing.RoomId == message.RoomId && existing.Seq == message.Seq {
			return gorm.ErrDuplicatedKey
		}
	}
	message.Id = r.m.id()
	c := *message
	r.m.Messages = append(r.m.Messages, &c)
	return nil
}

func (r messageRepo) NextSeq(ctx context.Context, roomId int64) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var top int64
	for _, msg := range r.m.Messages {
		if msg.RoomId == roomId && msg.Seq > top {
			top = msg.Seq
		}
	}
	return top + 1, nil
}

func (r messageRepo) DeleteByRoomId(ctx context.Context, roomId int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	kept := r.m.Messages[:0]
	removed := make(map[int64]bool)
	for _, msg := range r.m.Messages {
		if msg.RoomId == roomId {
			removed[msg.Id] = true
			continue
		}
		kept = append(kept, msg)
	}
	r.m.Messages = kept

	runs := r.m.Runs[:0]
	for _, run := range r.m.Runs {
		if !removed[run.UserMessageId] {
			runs = append(runs, run)
		}
	}
	r.m.Runs = runs
	return nil
}

func (r messageRepo) match(q query) []*entity.ChatMessage {
	var out []*entity.ChatMessage
	for _, msg := range r.m.Messages {
		if q.id != nil && msg.Id != *q.id {
			continue
		}
		if q.roomID != nil && msg.RoomId != *q.roomID {
			continue
		}
		if q.sender != nil && string(msg.Sender) != *q.sender {
			continue
		}
		c := *msg
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.orderDesc {
			return out[i].Seq > out[j].Seq
		}
		return out[i].Seq < out[j].Seq
	})
	return page(out, q)
}

func (r messageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if found := r.match(decode(specs)); len(found) > 0 {
		return found[0], nil
	}
	return nil, nil
}

func (r messageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.match(decode(specs)), nil
}

func (r messageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q := decode(specs)
	q.limit, q.offset = 0, 0
	return int64(len(r.match(q))), nil
}

type runRepo struct{ m *Memory }

func (r runRepo) CreateIfAbsent(ctx context.Context, run *entity.LLMRun) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return false, r.m.FailWrites
	}
	for _, existing := range r.m.Runs {
		if existing.UserMessageId == run.UserMessageId {
			return false, nil
		}
	}
	run.Id = r.m.id()
	c := *run
	r.m.Runs = append(r.m.Runs, &c)
	return true, nil
}

func (r runRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LLMRun, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	q := decode(specs)
	for _, run := range r.m.Runs {
		if (q.id == nil || run.Id == *q.id) && (q.userMessageID == nil || run.UserMessageId == *q.userMessageID) {
			c := *run
			return &c, nil
		}
	}
	return nil, nil
}

type vectorRepo struct{ m *Memory }

func (r vectorRepo) Upsert(ctx context.Context, vector *entity.MessageVector) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWrites != nil {
		return r.m.FailWrites
	}
	if vector.Id == uuid.Nil {
		return errors.New("vector id is required")
	}
	c := *vector
	r.m.Vectors[vector.Id] = &c
	return nil
}

func (r vectorRepo) DeleteByRoomId(ctx context.Context, roomId int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, v := range r.m.Vectors {
		if v.Payload.RoomId == roomId {
			delete(r.m.Vectors, id)
		}
	}
	return nil
}

type docRepo struct{ m *Memory }

func (r docRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredSchemaDocument, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	docs := append([]*entity.ScoredSchemaDocument(nil), r.m.Docs...)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Similarity > docs[j].Similarity })
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

// MessagesOf returns the room's turns in seq order.
func (m *Memory) MessagesOf(roomID int64) []*entity.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return messageRepo{m}.match(query{roomID: &roomID})
}

func (m *Memory) VectorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Vectors)
}

func (m *Memory) RunCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Runs)
}
