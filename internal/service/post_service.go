package service

import (
	"context"
	"errors"
	"time"

	"fbmanager/internal/facebook"
	"fbmanager/internal/model"
	"fbmanager/internal/openai"
	"fbmanager/internal/repository"
	"fbmanager/internal/websocket"
	"fbmanager/pkg/apperrors"
	"fbmanager/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePostRequest struct {
	PageID   string `json:"pageId" binding:"required,uuid"`
	Content  string `json:"content"`
	Topic    string `json:"topic"`
	Tone     string `json:"tone"`
	Generate bool   `json:"generate"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostService defines the interface for business logic of page posts
type PostService interface {
	Create(ctx context.Context, userID string, req CreatePostRequest) (*model.Post, error)
	List(ctx context.Context, userID string, p pagination.Params) ([]model.Post, int64, error)
	Get(ctx context.Context, userID, id string) (*model.Post, error)
	Update(ctx context.Context, userID, id string, req UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, userID, id string) error
	Publish(ctx context.Context, userID, id string) (*model.Post, error)
}

type postService struct {
	posts repository.PostRepository
	pages repository.PageRepository
	users repository.UserRepository
	graph *facebook.Client
	ai    *openai.Client
	hub   *websocket.Hub
}

// NewPostService returns a new instance of PostService
func NewPostService(
	posts repository.PostRepository,
	pages repository.PageRepository,
	users repository.UserRepository,
	graph *facebook.Client,
	ai *openai.Client,
	hub *websocket.Hub,
) PostService {
	return &postService{posts: posts, pages: pages, users: users, graph: graph, ai: ai, hub: hub}
}

func (s *postService) ownedPost(ctx context.Context, userID, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal(err)
	}
	if post.UserID.String() != userID {
		return nil, apperrors.NotFound("post not found")
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, userID string, req CreatePostRequest) (*model.Post, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user id")
	}

	page, err := s.pages.GetByID(ctx, req.PageID)
	if err != nil || page.UserID != uid {
		return nil, apperrors.NotFound("page not found")
	}

	content := req.Content
	aiGenerated := false

	if req.Generate {
		if req.Topic == "" {
			return nil, apperrors.Validation("topic is required when generating content")
		}
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !user.AIEnabled {
			return nil, apperrors.Forbidden("AI content generation is disabled for this account")
		}
		content, err = s.ai.GeneratePost(ctx, req.Topic, req.Tone)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		aiGenerated = true
	}

	if content == "" {
		return nil, apperrors.Validation("content is required unless generate is set")
	}

	post := &model.Post{
		UserID:      uid,
		PageID:      page.ID,
		Content:     content,
		Topic:       req.Topic,
		Tone:        req.Tone,
		AIGenerated: aiGenerated,
		Status:      model.PostStatusDraft,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, userID string, p pagination.Params) ([]model.Post, int64, error) {
	posts, total, err := s.posts.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return posts, total, nil
}

func (s *postService) Get(ctx context.Context, userID, id string) (*model.Post, error) {
	return s.ownedPost(ctx, userID, id)
}

func (s *postService) Update(ctx context.Context, userID, id string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if post.Status == model.PostStatusPublished {
		return nil, apperrors.Conflict("published posts cannot be edited")
	}

	post.Content = req.Content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, userID, id string) error {
	post, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID.String()); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Publish pushes the draft to the page feed. A Graph failure marks the post
// failed so the dashboard can offer a retry.
func (s *postService) Publish(ctx context.Context, userID, id string) (*model.Post, error) {
	post, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if post.Status == model.PostStatusPublished {
		return nil, apperrors.Conflict("post is already published")
	}

	page, err := s.pages.GetByID(ctx, post.PageID.String())
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	remoteID, err := s.graph.PublishPost(ctx, page.PageID, page.AccessToken, post.Content)
	if err != nil {
		post.Status = model.PostStatusFailed
		_ = s.posts.Update(ctx, post)
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	post.Status = model.PostStatusPublished
	post.RemotePostID = remoteID
	post.PublishedAt = &now
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.hub.Publish(websocket.EventPostPublished, map[string]interface{}{
		"postId": post.ID,
		"pageId": post.PageID,
	})

	return post, nil
}
