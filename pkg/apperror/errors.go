// Package apperror holds the error categories the pipeline surfaces to callers.
//
// Category errors are wrapped with fmt.Errorf("...: %w") on the way up and
// classified with errors.As at the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericMessage is the only text infrastructure and unexpected failures expose.
const GenericMessage = "Terjadi kesalahan internal pada server."

// ValidationError reports a malformed request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DomainRelevanceError is raised when the classifier rejects a question.
type DomainRelevanceError struct {
	Classification string // raw classifier output
}

func (e *DomainRelevanceError) Error() string {
	return fmt.Sprintf("Pertanyaan diklasifikasikan sebagai '%s' dan dianggap tidak relevan dengan data perusahaan.", e.Classification)
}

// UnsafeQueryError is raised when generated SQL fails the safety gate.
type UnsafeQueryError struct {
	Reason string
}

func (e *UnsafeQueryError) Error() string {
	return "Kueri yang dihasilkan tidak aman dan telah diblokir."
}

// ExecutionError wraps a failure of the query engine on a validated statement.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("Gagal mengeksekusi SQL: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NotFoundError reports a missing room, message or run.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s tidak ditemukan.", e.Resource)
}

// ConflictError reports a turn rejected because its room is busy.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InfrastructureError wraps an embedding, vector store, LLM or database transport failure.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// Infrastructure wraps err unless it already carries a category.
func Infrastructure(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsCategorized(err) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsCategorized reports whether err carries one of the user-facing categories.
func IsCategorized(err error) bool {
	var (
		validation *ValidationError
		domain     *DomainRelevanceError
		unsafe     *UnsafeQueryError
		execution  *ExecutionError
		notFound   *NotFoundError
		conflict   *ConflictError
		infra      *InfrastructureError
	)
	return errors.As(err, &validation) || errors.As(err, &domain) || errors.As(err, &unsafe) ||
		errors.As(err, &execution) || errors.As(err, &notFound) || errors.As(err, &conflict) ||
		errors.As(err, &infra)
}

// Status maps err to the HTTP status code returned to the client.
func Status(err error) int {
	var (
		validation *ValidationError
		domain     *DomainRelevanceError
		unsafe     *UnsafeQueryError
		execution  *ExecutionError
		notFound   *NotFoundError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &domain), errors.As(err, &unsafe):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &execution):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show a user. Infrastructure and
// uncategorized errors collapse to GenericMessage.
func PublicMessage(err error) string {
	var (
		validation *ValidationError
		domain     *DomainRelevanceError
		unsafe     *UnsafeQueryError
		execution  *ExecutionError
		notFound   *NotFoundError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &domain):
		return domain.Error()
	case errors.As(err, &unsafe):
		return unsafe.Error()
	case errors.As(err, &execution):
		return execution.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	default:
		return GenericMessage
	}
}
