package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndPublicMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "domain relevance",
			err:     fmt.Errorf("classify: %w", &DomainRelevanceError{Classification: "pengetahuan_umum"}),
			status:  http.StatusBadRequest,
			message: "Pertanyaan diklasifikasikan sebagai 'pengetahuan_umum' dan dianggap tidak relevan dengan data perusahaan.",
		},
		{
			name:    "unsafe query",
			err:     &UnsafeQueryError{Reason: "multiple statements"},
			status:  http.StatusBadRequest,
			message: "Kueri yang dihasilkan tidak aman dan telah diblokir.",
		},
		{
			name:    "execution keeps engine message",
			err:     &ExecutionError{Err: errors.New("no such table: drauk_unit")},
			status:  http.StatusInternalServerError,
			message: "Gagal mengeksekusi SQL: no such table: drauk_unit",
		},
		{
			name:    "infrastructure hides detail",
			err:     Infrastructure("embed question", errors.New("dial tcp 10.0.0.1:443: timeout")),
			status:  http.StatusInternalServerError,
			message: GenericMessage,
		},
		{
			name:    "uncategorized hides detail",
			err:     errors.New("nil pointer somewhere"),
			status:  http.StatusInternalServerError,
			message: GenericMessage,
		},
		{
			name:    "not found",
			err:     &NotFoundError{Resource: "Ruang obrolan"},
			status:  http.StatusNotFound,
			message: "Ruang obrolan tidak ditemukan.",
		},
		{
			name:    "conflict",
			err:     &ConflictError{Message: "busy"},
			status:  http.StatusConflict,
			message: "busy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.message, PublicMessage(tt.err))
		})
	}
}

func TestInfrastructureKeepsExistingCategory(t *testing.T) {
	unsafe := &UnsafeQueryError{Reason: "x"}
	err := Infrastructure("generate", unsafe)

	assert.Same(t, unsafe, err)
	assert.Nil(t, Infrastructure("noop", nil))
}
