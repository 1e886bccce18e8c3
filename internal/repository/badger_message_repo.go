package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"message-admin/internal/domain"
)

const (
	badgerMessagePrefix = "message:"
	badgerSequenceKey   = "seq:message"
	badgerSequenceBand  = 100
)

// BadgerMessageRepository guarda mensajes en BadgerDB para desarrollo local.
// La key es "message:{id}" con el id en 20 dígitos, así el scan por prefijo
// devuelve los mensajes en orden de inserción.
type BadgerMessageRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

type badgerMessage struct {
	ID          int64     `json:"id"`
	MessageText string    `json:"message_text"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBadgerMessageRepository(db *badger.DB) (*BadgerMessageRepository, error) {
	seq, err := db.GetSequence([]byte(badgerSequenceKey), badgerSequenceBand)
	if err != nil {
		return nil, fmt.Errorf("badger sequence: %w", err)
	}
	return &BadgerMessageRepository{
		db:  db,
		seq: seq,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close libera los ids reservados de la secuencia. No cierra la DB.
func (r *BadgerMessageRepository) Close() error {
	return r.seq.Release()
}

func (r *BadgerMessageRepository) FindUnique(_ context.Context, id int64) (domain.Message, error) {
	var m domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = getBadgerMessage(txn, id)
		return err
	})
	return m, err
}

func (r *BadgerMessageRepository) FindMany(_ context.Context) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerMessagePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				m, err := decodeBadgerMessage(v)
				if err != nil {
					return err
				}
				messages = append(messages, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *BadgerMessageRepository) Create(_ context.Context, draft domain.MessageDraft) (domain.Message, error) {
	next, err := r.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("badger sequence next: %w", err)
	}
	// La secuencia arranca en 0 y los ids válidos son positivos.
	m := domain.Message{
		ID:          int64(next) + 1,
		MessageText: draft.MessageText,
		CreatedAt:   r.now(),
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return putBadgerMessage(txn, m)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (r *BadgerMessageRepository) Update(_ context.Context, id int64, patch domain.MessagePatch) (domain.Message, error) {
	var updated domain.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := getBadgerMessage(txn, id)
		if err != nil {
			return err
		}
		updated = patch.Apply(current)
		return putBadgerMessage(txn, updated)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return updated, nil
}

func (r *BadgerMessageRepository) Delete(_ context.Context, id int64) (domain.Message, error) {
	var deleted domain.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		current, err := getBadgerMessage(txn, id)
		if err != nil {
			return err
		}
		deleted = current
		return txn.Delete(badgerMessageKey(id))
	})
	if err != nil {
		return domain.Message{}, err
	}
	return deleted, nil
}

func (r *BadgerMessageRepository) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func badgerMessageKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", badgerMessagePrefix, id))
}

func getBadgerMessage(txn *badger.Txn, id int64) (domain.Message, error) {
	item, err := txn.Get(badgerMessageKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return domain.Message{}, err
	}
	var m domain.Message
	err = item.Value(func(v []byte) error {
		m, err = decodeBadgerMessage(v)
		return err
	})
	return m, err
}

func putBadgerMessage(txn *badger.Txn, m domain.Message) error {
	bytes, err := json.Marshal(badgerMessage{
		ID:          m.ID,
		MessageText: m.MessageText,
		CreatedAt:   m.CreatedAt,
	})
	if err != nil {
		return err
	}
	return txn.Set(badgerMessageKey(m.ID), bytes)
}

func decodeBadgerMessage(v []byte) (domain.Message, error) {
	var stored badgerMessage
	if err := json.Unmarshal(v, &stored); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:          stored.ID,
		MessageText: stored.MessageText,
		CreatedAt:   stored.CreatedAt.UTC(),
	}, nil
}
