package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"message-admin/internal/domain"
	"message-admin/internal/repository"
)

// MessageService valida la entrada y traduce los fallos del store a domain.Error.
type MessageService struct {
	logger *zap.Logger
	repo   repository.MessageRepository
}

var ErrMessageServiceNotConfigured = errors.New("message service not configured")

func NewMessageService(logger *zap.Logger, repo repository.MessageRepository) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{logger: logger, repo: repo}
}

func (s *MessageService) Get(ctx context.Context, id int64) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}
	if id <= 0 {
		return domain.Message{}, domain.InvalidArgument("fetch", "invalid message id")
	}
	msg, err := s.repo.FindUnique(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Message{}, domain.NotFound("fetch", "message not found", err)
		}
		s.logger.Error("fetch message failed", zap.Int64("id", id), zap.Error(err))
		return domain.Message{}, domain.Persistence("fetch", "error fetching message", err)
	}
	return msg, nil
}

func (s *MessageService) List(ctx context.Context) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	messages, err := s.repo.FindMany(ctx)
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err))
		return nil, domain.Persistence("list", "error listing messages", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *MessageService) Create(ctx context.Context, draft domain.MessageDraft) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}
	input := NormalizeMessageInput(MessageInput{MessageText: draft.MessageText})
	if errs := ValidateMessage(input); errs != nil {
		return domain.Message{}, domain.InvalidArgument("create", "message text is required")
	}
	msg, err := s.repo.Create(ctx, domain.MessageDraft{MessageText: input.MessageText})
	if err != nil {
		s.logger.Error("create message failed", zap.Error(err))
		return domain.Message{}, domain.Persistence("create", "error creating message", err)
	}
	return msg, nil
}

func (s *MessageService) Update(ctx context.Context, id int64, patch domain.MessagePatch) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}
	if id <= 0 {
		return domain.Message{}, domain.InvalidArgument("update", "invalid message id")
	}
	if patch.IsEmpty() {
		return domain.Message{}, domain.InvalidArgument("update", "no data provided for update")
	}
	patch = patch.Normalize()
	if *patch.MessageText == "" {
		return domain.Message{}, domain.InvalidArgument("update", "message text is required")
	}
	msg, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("update message failed", zap.Int64("id", id), zap.Error(err))
		return domain.Message{}, domain.Persistence("update", "error updating message", err)
	}
	return msg, nil
}

// Delete falla con KindPersistence si el id no existe; nunca es un éxito silencioso.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	if s == nil || s.repo == nil {
		return ErrMessageServiceNotConfigured
	}
	if id <= 0 {
		return domain.InvalidArgument("delete", "invalid message id")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete message failed", zap.Int64("id", id), zap.Error(err))
		return domain.Persistence("delete", "error deleting message", err)
	}
	return nil
}

// Ping delega en el store; lo usa el health check.
func (s *MessageService) Ping(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrMessageServiceNotConfigured
	}
	return s.repo.Ping(ctx)
}
