package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"chat-budgeting-be/internal/config"
	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/repository/unitofwork/uowtest"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/embedding"
	"chat-budgeting-be/pkg/llm"
	"chat-budgeting-be/pkg/llm/llmtest"
	"chat-budgeting-be/pkg/llm/router"
	"chat-budgeting-be/pkg/lock"
	"chat-budgeting-be/pkg/nl2sql/executor"
	"chat-budgeting-be/pkg/nl2sql/generation"
	"chat-budgeting-be/pkg/nl2sql/history"
	"chat-budgeting-be/pkg/nl2sql/intent"
	"chat-budgeting-be/pkg/nl2sql/reasoning"
	"chat-budgeting-be/pkg/nl2sql/retrieval"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testModel = "gemini-2.0-flash"

// Fragments that tell the three prompt templates apart.
const (
	classificationMarker = "Kategori:"
	generationMarker     = "Query SQL:"
	reasoningMarker      = "Ringkasan Eksekutif:"
)

type staticEmbedder struct{}

func (staticEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}}}, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	runs    []dto.RecordLLMRunMessage
	vectors []dto.UpsertMessageVectorMessage
}

func (p *recordingPublisher) PublishRecordLLMRun(ctx context.Context, payload dto.RecordLLMRunMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, payload)
	return nil
}

func (p *recordingPublisher) PublishUpsertMessageVector(ctx context.Context, payload dto.UpsertMessageVectorMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vectors = append(p.vectors, payload)
	return nil
}

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, roomID int64) (lock.ReleaseFunc, error) {
	return nil, &apperror.ConflictError{Message: "room busy"}
}

type fixture struct {
	mem       *uowtest.Memory
	provider  *llmtest.MockProvider
	publisher *recordingPublisher
	rooms     IRoomService
	service   INL2SQLService
	roomId    int64
	db        *sql.DB
}

func newBudgetQueryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE drauk_unit (
		Nama_Unit TEXT,
		Kegiatan_Unit TEXT,
		Tahun_Anggaran INTEGER,
		Jumlah INTEGER
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO drauk_unit VALUES
		('A', 'Pengadaan Server', 2024, 900),
		('A', 'Pelatihan Pegawai', 2024, 300),
		('A', 'Renovasi Gedung', 2024, 150),
		('A', 'Konsultansi', 2024, 100),
		('B', 'Renovasi Gedung', 2024, 1500)`)
	require.NoError(t, err)
	return db
}

func newFixture(t *testing.T, locker lock.RoomLocker) *fixture {
	t.Helper()

	mem := uowtest.NewMemory()
	mem.Docs = []*entity.ScoredSchemaDocument{
		{Document: &entity.SchemaDocument{Content: "drauk_unit.Jumlah: total pagu anggaran per kegiatan"}, Similarity: 0.9},
		{Document: &entity.SchemaDocument{Content: "drauk_unit.Nama_Unit: nama unit kerja"}, Similarity: 0.8},
	}

	provider := &llmtest.MockProvider{}
	models, err := router.New(router.DefaultTable(), map[llm.Kind]llm.LLMProvider{llm.KindGemini: provider})
	require.NoError(t, err)

	nop := logger.NewNopLogger()
	db := newBudgetQueryDB(t)
	publisher := &recordingPublisher{}
	rooms := NewRoomService(mem.Factory(), nop)

	if locker == nil {
		locker = lock.NewRedisRoomLock(nil, 0, nop)
	}

	svc := NewNL2SQLService(
		models,
		NL2SQLStages{
			Classifier: intent.NewClassifier(nop),
			Retriever:  retrieval.NewRetriever(staticEmbedder{}, mem.Factory().NewUnitOfWork(context.Background()).SchemaDocumentRepository(), 4),
			Generator:  generation.NewGenerator(nop),
			Executor:   executor.New(db, false, 0),
			Summarizer: reasoning.NewSummarizer(nop, 2500),
		},
		history.NewStore(mem.Factory(), 50),
		rooms,
		locker,
		publisher,
		nop,
		config.PipelineConfig{},
		2,
	)

	room, err := rooms.CreateRoom(context.Background(), &dto.CreateRoomRequest{Nip: "198501012010011001", Title: "Anggaran 2024"})
	require.NoError(t, err)

	return &fixture{
		mem:       mem,
		provider:  provider,
		publisher: publisher,
		rooms:     rooms,
		service:   svc,
		roomId:    room.Id,
		db:        db,
	}
}

func (f *fixture) request(prompt string) *dto.NL2SQLRequest {
	return &dto.NL2SQLRequest{
		Prompt:      prompt,
		Model:       testModel,
		Nip:         "198501012010011001",
		KodeUnit:    "U01",
		DisplayName: "Budi",
		RoomId:      f.roomId,
	}
}

func (f *fixture) onClassify(answer string, fragments ...string) *mock.Call {
	return f.provider.On("Generate", mock.Anything, llmtest.PromptContaining(append([]string{classificationMarker}, fragments...)...), mock.Anything).
		Return(answer, nil)
}

func (f *fixture) onGenerate(sqlText string, fragments ...string) *mock.Call {
	return f.provider.On("Generate", mock.Anything, llmtest.PromptContaining(append([]string{generationMarker}, fragments...)...), mock.Anything).
		Return(sqlText, nil)
}

func (f *fixture) onReason(summary string, fragments ...string) *mock.Call {
	return f.provider.On("Generate", mock.Anything, llmtest.PromptContaining(append([]string{reasoningMarker}, fragments...)...), mock.Anything).
		Return(summary, nil)
}
