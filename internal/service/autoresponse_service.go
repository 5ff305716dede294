package service

import (
	"context"
	"errors"
	"strings"

	"fbmanager/internal/facebook"
	"fbmanager/internal/model"
	"fbmanager/internal/openai"
	"fbmanager/internal/repository"
	"fbmanager/internal/websocket"
	"fbmanager/pkg/apperrors"

	"gorm.io/gorm"
)

type CreateRuleRequest struct {
	PageID   string `json:"pageId" binding:"required,uuid"`
	Keyword  string `json:"keyword" binding:"required"`
	Reply    string `json:"reply"`
	UseAI    bool   `json:"useAi"`
	Priority int    `json:"priority"`
}

type UpdateRuleRequest struct {
	Keyword  *string `json:"keyword"`
	Reply    *string `json:"reply"`
	UseAI    *bool   `json:"useAi"`
	Priority *int    `json:"priority"`
	Enabled  *bool   `json:"enabled"`
}

type ProcessCommentRequest struct {
	PageID    string `json:"pageId" binding:"required,uuid"`
	CommentID string `json:"commentId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// CommentReply reports what the responder did with an incoming comment.
type CommentReply struct {
	Matched bool   `json:"matched"`
	RuleID  string `json:"ruleId,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// AutoResponseService defines the interface for comment auto-reply rules
type AutoResponseService interface {
	CreateRule(ctx context.Context, userID string, req CreateRuleRequest) (*model.AutoResponseRule, error)
	ListRules(ctx context.Context, userID, pageID string) ([]model.AutoResponseRule, error)
	UpdateRule(ctx context.Context, userID, id string, req UpdateRuleRequest) (*model.AutoResponseRule, error)
	DeleteRule(ctx context.Context, userID, id string) error
	ProcessComment(ctx context.Context, userID string, req ProcessCommentRequest) (*CommentReply, error)
}

type autoResponseService struct {
	rules repository.AutoResponseRepository
	pages repository.PageRepository
	graph *facebook.Client
	ai    *openai.Client
	hub   *websocket.Hub
}

// NewAutoResponseService returns a new instance of AutoResponseService
func NewAutoResponseService(
	rules repository.AutoResponseRepository,
	pages repository.PageRepository,
	graph *facebook.Client,
	ai *openai.Client,
	hub *websocket.Hub,
) AutoResponseService {
	return &autoResponseService{rules: rules, pages: pages, graph: graph, ai: ai, hub: hub}
}

func (s *autoResponseService) ownedPage(ctx context.Context, userID, pageID string) (*model.FacebookPage, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil || page.UserID.String() != userID {
		return nil, apperrors.NotFound("page not found")
	}
	return page, nil
}

func (s *autoResponseService) ownedRule(ctx context.Context, userID, id string) (*model.AutoResponseRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("rule not found")
		}
		return nil, apperrors.Internal(err)
	}
	if _, err := s.ownedPage(ctx, userID, rule.PageID.String()); err != nil {
		return nil, apperrors.NotFound("rule not found")
	}
	return rule, nil
}

func (s *autoResponseService) CreateRule(ctx context.Context, userID string, req CreateRuleRequest) (*model.AutoResponseRule, error) {
	if !req.UseAI && strings.TrimSpace(req.Reply) == "" {
		return nil, apperrors.Validation("reply text is required unless useAi is set")
	}

	page, err := s.ownedPage(ctx, userID, req.PageID)
	if err != nil {
		return nil, err
	}

	rule := &model.AutoResponseRule{
		PageID:   page.ID,
		Keyword:  strings.ToLower(strings.TrimSpace(req.Keyword)),
		Reply:    req.Reply,
		UseAI:    req.UseAI,
		Priority: req.Priority,
		Enabled:  true,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, apperrors.Internal(err)
	}
	return rule, nil
}

func (s *autoResponseService) ListRules(ctx context.Context, userID, pageID string) ([]model.AutoResponseRule, error) {
	if _, err := s.ownedPage(ctx, userID, pageID); err != nil {
		return nil, err
	}
	rules, err := s.rules.ListByPage(ctx, pageID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rules, nil
}

func (s *autoResponseService) UpdateRule(ctx context.Context, userID, id string, req UpdateRuleRequest) (*model.AutoResponseRule, error) {
	rule, err := s.ownedRule(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Keyword != nil {
		rule.Keyword = strings.ToLower(strings.TrimSpace(*req.Keyword))
	}
	if req.Reply != nil {
		rule.Reply = *req.Reply
	}
	if req.UseAI != nil {
		rule.UseAI = *req.UseAI
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, apperrors.Internal(err)
	}
	return rule, nil
}

func (s *autoResponseService) DeleteRule(ctx context.Context, userID, id string) error {
	rule, err := s.ownedRule(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.rules.Delete(ctx, rule.ID.String()); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ProcessComment matches an incoming comment against the page's enabled
// rules in priority order and replies on the first keyword hit. AI rules
// fall back to their static reply when the completion fails.
func (s *autoResponseService) ProcessComment(ctx context.Context, userID string, req ProcessCommentRequest) (*CommentReply, error) {
	page, err := s.ownedPage(ctx, userID, req.PageID)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules.ListEnabledByPage(ctx, page.ID.String())
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	message := strings.ToLower(req.Message)
	for _, rule := range rules {
		if !strings.Contains(message, rule.Keyword) {
			continue
		}

		reply := rule.Reply
		if rule.UseAI {
			generated, err := s.ai.GenerateReply(ctx, req.Message)
			if err == nil {
				reply = generated
			} else if reply == "" {
				return nil, apperrors.Internal(err)
			}
		}

		if err := s.graph.ReplyToComment(ctx, req.CommentID, page.AccessToken, reply); err != nil {
			return nil, apperrors.Internal(err)
		}

		s.hub.Publish(websocket.EventAutoReply, map[string]interface{}{
			"pageId":    page.ID,
			"commentId": req.CommentID,
			"ruleId":    rule.ID,
		})

		return &CommentReply{Matched: true, RuleID: rule.ID.String(), Reply: reply}, nil
	}

	return &CommentReply{Matched: false}, nil
}
