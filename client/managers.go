package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Fields is a form submission.
type Fields map[string]interface{}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Resource describes one REST collection.
type Resource struct {
	Path     string
	Label    string
	Required []string
}

// Manager keeps the last fetched collection of one resource. Every mutation
// reloads the whole collection. A reload that finishes after a newer one
// started is dropped.
type Manager[T any] struct {
	api      *APIClient
	notifier *Notifier
	resource Resource

	mu         sync.Mutex
	items      []T
	query      url.Values
	generation uint64
}

func NewManager[T any](api *APIClient, notifier *Notifier, resource Resource) *Manager[T] {
	return &Manager[T]{api: api, notifier: notifier, resource: resource, query: url.Values{}}
}

// Items returns a copy of the current collection.
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// SetQuery sets a list filter; an empty value removes it.
func (m *Manager[T]) SetQuery(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		m.query.Del(key)
		return
	}
	m.query.Set(key, value)
}

func (m *Manager[T]) listPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.query) == 0 {
		return m.resource.Path
	}
	return m.resource.Path + "?" + m.query.Encode()
}

func (m *Manager[T]) itemPath(id string) string {
	return m.resource.Path + "/" + url.PathEscape(id)
}

func (m *Manager[T]) List(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	var items []T
	if _, err := m.api.Get(ctx, m.listPath(), &items); err != nil {
		return m.fail(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen == m.generation {
		m.items = items
	}
	return nil
}

func (m *Manager[T]) Create(ctx context.Context, fields Fields) error {
	if err := checkRequired(fields, m.resource.Required); err != nil {
		return m.fail(err)
	}
	return m.mutation(ctx, func() (string, error) {
		return m.api.Post(ctx, m.resource.Path, fields, nil)
	})
}

func (m *Manager[T]) Update(ctx context.Context, id string, fields Fields) error {
	if err := checkRequired(fields, m.resource.Required); err != nil {
		return m.fail(err)
	}
	return m.mutation(ctx, func() (string, error) {
		return m.api.Put(ctx, m.itemPath(id), fields, nil)
	})
}

// Delete asks confirm first; no request is sent unless it agrees.
func (m *Manager[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	prompt := fmt.Sprintf("Delete this %s? This cannot be undone.", strings.ToLower(m.resource.Label))
	if confirm == nil || !confirm.Confirm(prompt) {
		return ErrCancelled
	}
	return m.mutation(ctx, func() (string, error) {
		return m.api.Delete(ctx, m.itemPath(id), nil)
	})
}

// mutation runs call, then notifies and reloads on success.
func (m *Manager[T]) mutation(ctx context.Context, call func() (string, error)) error {
	message, err := call()
	if err != nil {
		return m.fail(err)
	}
	m.succeed(message)
	return m.List(ctx)
}

func (m *Manager[T]) succeed(message string) {
	if m.notifier == nil {
		return
	}
	if message == "" {
		message = m.resource.Label + " saved"
	}
	m.notifier.Notify(message, NotifySuccess)
}

// fail reports err and hands it back; local state is left alone.
func (m *Manager[T]) fail(err error) error {
	if m.notifier != nil && !errors.Is(err, ErrCancelled) {
		m.notifier.Notify(UserMessage(err), NotifyError)
	}
	return err
}

func checkRequired(fields Fields, required []string) error {
	for _, name := range required {
		v, ok := fields[name]
		if !ok || v == nil {
			return missing(name)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return missing(name)
		}
	}
	return nil
}

func missing(field string) error {
	label := strings.ReplaceAll(field, "_", " ")
	return &ValidationError{Field: field, Message: fmt.Sprintf("Please fill in %s", label)}
}
