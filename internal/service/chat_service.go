package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"
)

type ChatService struct {
	messages MessageStore
	bus      *events.Bus

	maxLen int
}

func NewChatService(messages MessageStore, bus *events.Bus, maxLen int) *ChatService {
	if maxLen <= 0 {
		maxLen = 4000
	}
	return &ChatService{messages: messages, bus: bus, maxLen: maxLen}
}

func (s *ChatService) Send(ctx context.Context, roomID, sender, text string) (*domain.Message, error) {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, domain.ErrNameRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}
	if len(text) > s.maxLen {
		return nil, errors.New("message too long")
	}

	msg := &domain.Message{
		RoomID: roomID,
		Sender: sender,
		Text:   text,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.KindMessageAdded, RoomID: roomID})
	return msg, nil
}

func (s *ChatService) History(ctx context.Context, roomID, after string, limit int) ([]domain.Message, string, error) {
	return s.messages.History(ctx, roomID, after, limit)
}
