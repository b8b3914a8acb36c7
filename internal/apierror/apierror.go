// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"fmt"
	"strings"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

func (e *ValidationError) Error() string { return e.Detail }

// ─── Domain error types ──────────────────────────────────────────────────────
// Services return these; handlers map them to HTTP status codes with errors.As.

// NotFoundError signals that a referenced entity does not exist (or belongs
// to another clinic, which must be indistinguishable from absence).
type NotFoundError struct {
	Entity string
}

func NewNotFound(entity string) *NotFoundError { return &NotFoundError{Entity: entity} }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado(a)", e.Entity)
}

// InvalidStatusError signals an unrecognized status value on input.
type InvalidStatusError struct {
	Valor string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status desconhecido: %q", e.Valor)
}

// TransitionError signals a disallowed appointment status transition.
// Permitidas carries the allowed next statuses so the client can render
// actionable options instead of a dead end.
type TransitionError struct {
	Atual      string   `json:"atual"`
	Alvo       string   `json:"alvo"`
	Permitidas []string `json:"permitidas"`
}

func (e *TransitionError) Error() string {
	if len(e.Permitidas) == 0 {
		return fmt.Sprintf("status %s é terminal e não admite transições", e.Atual)
	}
	return fmt.Sprintf("transição %s → %s não permitida; permitidas: %s",
		e.Atual, e.Alvo, strings.Join(e.Permitidas, ", "))
}

// ConsistencyError signals an internal invariant violation (item totals
// diverging from the invoice total, double-consumed credit). It is fatal for
// the batch that detected it: the caller must abort without partial writes.
type ConsistencyError struct {
	Detail string
}

func NewConsistency(detail string) *ConsistencyError { return &ConsistencyError{Detail: detail} }

func (e *ConsistencyError) Error() string { return "inconsistência interna: " + e.Detail }
