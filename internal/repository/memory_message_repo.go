package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"message-admin/internal/domain"
)

// MemoryMessageRepository mantiene los mensajes en memoria. Se usa en tests y demos.
type MemoryMessageRepository struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Message
	now    func() time.Time
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		items: make(map[int64]domain.Message),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryMessageRepository) FindUnique(_ context.Context, id int64) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return m, nil
}

func (r *MemoryMessageRepository) FindMany(_ context.Context) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := lo.Values(r.items)
	slices.SortFunc(messages, func(a, b domain.Message) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return messages, nil
}

func (r *MemoryMessageRepository) Create(_ context.Context, draft domain.MessageDraft) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m := domain.Message{
		ID:          r.nextID,
		MessageText: draft.MessageText,
		CreatedAt:   r.now(),
	}
	r.items[m.ID] = m
	return m, nil
}

func (r *MemoryMessageRepository) Update(_ context.Context, id int64, patch domain.MessagePatch) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	updated := patch.Apply(current)
	r.items[id] = updated
	return updated, nil
}

func (r *MemoryMessageRepository) Delete(_ context.Context, id int64) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	delete(r.items, id)
	return current, nil
}

func (r *MemoryMessageRepository) Ping(_ context.Context) error {
	return nil
}
