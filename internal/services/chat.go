package services

import (
	"context"
	"strings"

	"nearmeet-server/internal/apperrors"
	"nearmeet-server/internal/models"
	"nearmeet-server/internal/repository"
)

// ChatService manages the 1:1 threads created by matches.
type ChatService struct {
	matches *repository.MatchRepository
}

func NewChatService(matches *repository.MatchRepository) *ChatService {
	return &ChatService{matches: matches}
}

func (s *ChatService) memberConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	conversation, err := s.matches.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserAID != userID && conversation.UserBID != userID {
		return nil, apperrors.ErrNotFound
	}
	return conversation, nil
}

// SendMessage appends a message to a thread the author belongs to and
// updates the thread preview.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, authorID, text string) (*models.Message, error) {
	if authorID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidArgument("message text is empty")
	}
	if _, err := s.memberConversation(ctx, conversationID, authorID); err != nil {
		return nil, err
	}
	return s.matches.AppendMessage(ctx, conversationID, authorID, text)
}

// Messages returns a thread's messages in order for a member.
func (s *ChatService) Messages(ctx context.Context, conversationID, userID string, limit int) ([]models.Message, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if _, err := s.memberConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.matches.ListMessages(ctx, conversationID, limit)
}

// Conversations lists the user's threads, most recently active first.
func (s *ChatService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.matches.ListConversations(ctx, userID)
}
