package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chat-budgeting-be/internal/dto"
	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/pkg/logger"
	"chat-budgeting-be/internal/pkg/serverutils"
	"chat-budgeting-be/internal/service"
	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/nl2sql/resultset"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNL2SQLService struct{ mock.Mock }

func (m *mockNL2SQLService) Run(ctx context.Context, flow service.Flow, req *dto.NL2SQLRequest) (*dto.NL2SQLResponse, error) {
	args := m.Called(ctx, flow, req)
	res, _ := args.Get(0).(*dto.NL2SQLResponse)
	return res, args.Error(1)
}

type mockRoomService struct{ mock.Mock }

func (m *mockRoomService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.RoomResponse)
	return res, args.Error(1)
}

func (m *mockRoomService) ListRooms(ctx context.Context, nip string) ([]*dto.RoomResponse, error) {
	args := m.Called(ctx, nip)
	res, _ := args.Get(0).([]*dto.RoomResponse)
	return res, args.Error(1)
}

func (m *mockRoomService) GetHistory(ctx context.Context, nip string, roomId int64) ([]*dto.ChatMessageResponse, error) {
	args := m.Called(ctx, nip, roomId)
	res, _ := args.Get(0).([]*dto.ChatMessageResponse)
	return res, args.Error(1)
}

func (m *mockRoomService) ClearHistory(ctx context.Context, nip string, roomId int64) (*dto.ClearHistoryResponse, error) {
	args := m.Called(ctx, nip, roomId)
	res, _ := args.Get(0).(*dto.ClearHistoryResponse)
	return res, args.Error(1)
}

func (m *mockRoomService) GetRun(ctx context.Context, userMessageId int64) (*dto.LLMRunResponse, error) {
	args := m.Called(ctx, userMessageId)
	res, _ := args.Get(0).(*dto.LLMRunResponse)
	return res, args.Error(1)
}

func (m *mockRoomService) PrepareTurn(ctx context.Context, nip, kodeUnit, displayName string, roomId int64) (*entity.ChatRoom, error) {
	args := m.Called(ctx, nip, kodeUnit, displayName, roomId)
	res, _ := args.Get(0).(*entity.ChatRoom)
	return res, args.Error(1)
}

type logEntry struct {
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []logEntry
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *recordingLogger) Info(module, message string, details map[string]interface{})  {}
func (l *recordingLogger) Warn(module, message string, details map[string]interface{})  {}
func (l *recordingLogger) Sync() error                                                  { return nil }

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, logEntry{module: module, message: message, details: details})
}

func newTestApp(nl2sql service.INL2SQLService, rooms service.IRoomService) *fiber.App {
	return newLoggedTestApp(nl2sql, rooms, logger.NewNopLogger())
}

func newLoggedTestApp(nl2sql service.INL2SQLService, rooms service.IRoomService, log logger.ILogger) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := app.Group("/api/v1")
	guard := serverutils.JwtMiddleware("")
	NewNL2SQLController(nl2sql, log).RegisterRoutes(api, guard)
	NewRoomController(rooms).RegisterRoutes(api, guard)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

const validBody = `{"prompt":"Berapa total pagu unit A?","model":"gemini-2.0-flash","nip":"123","kode_unit":"U01","room_id":7}`

func TestNL2SQLRoutesSelectFlow(t *testing.T) {
	reasoning := "Total pagu unit A adalah 900."
	tests := []struct {
		path string
		flow service.Flow
		res  *dto.NL2SQLResponse
	}{
		{"/api/v1/nl2sql/sql-data-reasoning", service.FlowSingleShotReasoning, &dto.NL2SQLResponse{Query: "SELECT 1;", Reasoning: &reasoning}},
		{"/api/v1/nl2sql/sql-data", service.FlowSingleShotData, &dto.NL2SQLResponse{Query: "SELECT 1;"}},
		{"/api/v1/nl2sql/sql-data-reasoning-conversation", service.FlowConversational, &dto.NL2SQLResponse{Query: "SELECT 1;", Reasoning: &reasoning}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			svc := &mockNL2SQLService{}
			tt.res.DataRaw = []resultset.Row{{Columns: []string{"Jumlah"}, Values: []any{900}}}
			svc.On("Run", mock.Anything, tt.flow, mock.MatchedBy(func(req *dto.NL2SQLRequest) bool {
				return req.RoomId == 7 && req.Nip == "123"
			})).Return(tt.res, nil).Once()

			code, body := do(t, newTestApp(svc, &mockRoomService{}), http.MethodPost, tt.path, validBody)

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "SELECT 1;", body["query"])
			assert.Equal(t, []any{map[string]any{"Jumlah": float64(900)}}, body["data_raw"])
			_, hasReasoning := body["reasoning"]
			assert.Equal(t, tt.flow.WithReasoning(), hasReasoning)
			svc.AssertExpectations(t)
		})
	}
}

func TestNL2SQLErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		detail string
	}{
		{"irrelevant", &apperror.DomainRelevanceError{Classification: "pengetahuan_umum"}, http.StatusBadRequest,
			"Pertanyaan diklasifikasikan sebagai 'pengetahuan_umum' dan dianggap tidak relevan dengan data perusahaan."},
		{"unsafe", &apperror.UnsafeQueryError{Reason: "forbidden keyword DROP"}, http.StatusBadRequest,
			"Kueri yang dihasilkan tidak aman dan telah diblokir."},
		{"execution", &apperror.ExecutionError{Err: errors.New("no such column: X")}, http.StatusInternalServerError,
			"Gagal mengeksekusi SQL: no such column: X"},
		{"busy", &apperror.ConflictError{Message: "busy"}, http.StatusConflict, "busy"},
		{"infrastructure", apperror.Infrastructure("embed question", errors.New("401 from upstream")), http.StatusInternalServerError,
			apperror.GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockNL2SQLService{}
			svc.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			code, body := do(t, newTestApp(svc, &mockRoomService{}), http.MethodPost, "/api/v1/nl2sql/sql-data-reasoning", validBody)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.detail, body["detail"])
		})
	}
}

func TestNL2SQLLogsServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		logged int
	}{
		{"infrastructure", apperror.Infrastructure("upsert user", errors.New("pq: connection refused")), http.StatusInternalServerError, 1},
		{"unexpected", errors.New("nil map"), http.StatusInternalServerError, 1},
		{"execution", &apperror.ExecutionError{Err: errors.New("no such column: X")}, http.StatusInternalServerError, 1},
		{"irrelevant", &apperror.DomainRelevanceError{Classification: "pengetahuan_umum"}, http.StatusBadRequest, 0},
		{"busy", &apperror.ConflictError{Message: "busy"}, http.StatusConflict, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockNL2SQLService{}
			svc.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			log := &recordingLogger{}

			code, _ := do(t, newLoggedTestApp(svc, &mockRoomService{}, log), http.MethodPost, "/api/v1/nl2sql/sql-data-reasoning-conversation", validBody)

			assert.Equal(t, tt.code, code)
			require.Len(t, log.errors, tt.logged)
			if tt.logged > 0 {
				entry := log.errors[0]
				assert.Equal(t, "/api/v1/nl2sql/sql-data-reasoning-conversation", entry.details["path"])
				assert.Equal(t, tt.err.Error(), entry.details["error"])
			}
		})
	}
}

func TestNL2SQLRejectsInvalidBody(t *testing.T) {
	svc := &mockNL2SQLService{}
	app := newTestApp(svc, &mockRoomService{})

	code, body := do(t, app, http.MethodPost, "/api/v1/nl2sql/sql-data", `{"prompt":"pagu?","model":"gemini-2.0-flash","nip":"123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["detail"], "RoomId wajib diisi")

	code, _ = do(t, app, http.MethodPost, "/api/v1/nl2sql/sql-data", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, code)

	svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomRoutes(t *testing.T) {
	rooms := &mockRoomService{}
	app := newTestApp(&mockNL2SQLService{}, rooms)

	rooms.On("CreateRoom", mock.Anything, &dto.CreateRoomRequest{Nip: "123", Title: "Pagu 2024"}).
		Return(&dto.RoomResponse{Id: 7, UserId: 1, Title: "Pagu 2024"}, nil).Once()
	code, body := do(t, app, http.MethodPost, "/api/v1/rooms", `{"nip":"123","title":"Pagu 2024"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(7), body["data"].(map[string]any)["id"])

	rooms.On("ClearHistory", mock.Anything, "123", int64(7)).Return(&dto.ClearHistoryResponse{RoomId: 7, DeletedMessages: 4}, nil).Once()
	code, body = do(t, app, http.MethodDelete, "/api/v1/rooms/7/messages?nip=123", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), body["data"].(map[string]any)["deleted_messages"])

	rooms.On("GetHistory", mock.Anything, "123", int64(8)).Return(nil, &apperror.NotFoundError{Resource: "Room 8"}).Once()
	code, body = do(t, app, http.MethodGet, "/api/v1/rooms/8/messages?nip=123", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Room 8 tidak ditemukan.", body["message"])

	rooms.On("GetRun", mock.Anything, int64(11)).Return(&dto.LLMRunResponse{Id: 3, UserMessageId: 11, IsSuccess: true}, nil).Once()
	code, body = do(t, app, http.MethodGet, "/api/v1/runs/11", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(11), body["data"].(map[string]any)["user_message_id"])

	rooms.AssertExpectations(t)
}

func TestRoomRoutesRejectBadInput(t *testing.T) {
	rooms := &mockRoomService{}
	app := newTestApp(&mockNL2SQLService{}, rooms)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non numeric room", http.MethodGet, "/api/v1/rooms/abc/messages?nip=123", ""},
		{"zero room", http.MethodDelete, "/api/v1/rooms/0/messages?nip=123", ""},
		{"history without nip", http.MethodGet, "/api/v1/rooms/7/messages", ""},
		{"clear without nip", http.MethodDelete, "/api/v1/rooms/7/messages", ""},
		{"missing nip", http.MethodGet, "/api/v1/rooms", ""},
		{"missing title", http.MethodPost, "/api/v1/rooms", `{"nip":"123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
		})
	}
	assert.Empty(t, rooms.Calls)
}
