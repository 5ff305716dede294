package service

import (
	"context"
	"errors"
	"time"

	"fbmanager/internal/facebook"
	"fbmanager/internal/model"
	"fbmanager/internal/repository"
	"fbmanager/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectPageRequest struct {
	PageID      string `json:"pageId" binding:"required"`
	AccessToken string `json:"accessToken" binding:"required"`
}

// PageService defines the interface for business logic of connected pages
type PageService interface {
	Connect(ctx context.Context, userID string, req ConnectPageRequest) (*model.FacebookPage, error)
	List(ctx context.Context, userID string) ([]model.FacebookPage, error)
	Get(ctx context.Context, userID, id string) (*model.FacebookPage, error)
	Sync(ctx context.Context, userID, id string) (*model.FacebookPage, error)
	Disconnect(ctx context.Context, userID, id string) error
}

type pageService struct {
	pages repository.PageRepository
	graph *facebook.Client
}

// NewPageService returns a new instance of PageService
func NewPageService(pages repository.PageRepository, graph *facebook.Client) PageService {
	return &pageService{pages: pages, graph: graph}
}

// ownedPage loads a page and enforces that it belongs to userID. Foreign
// pages are reported as not found so their existence is not leaked.
func (s *pageService) ownedPage(ctx context.Context, userID, id string) (*model.FacebookPage, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("page not found")
		}
		return nil, apperrors.Internal(err)
	}
	if page.UserID.String() != userID {
		return nil, apperrors.NotFound("page not found")
	}
	return page, nil
}

func (s *pageService) Connect(ctx context.Context, userID string, req ConnectPageRequest) (*model.FacebookPage, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user id")
	}

	info, err := s.graph.GetPage(ctx, req.PageID, req.AccessToken)
	if err != nil {
		return nil, apperrors.Validation("could not verify page with the provided token")
	}

	now := time.Now().UTC()
	page := &model.FacebookPage{
		UserID:      uid,
		PageID:      info.ID,
		Name:        info.Name,
		Category:    info.Category,
		AccessToken: req.AccessToken,
		FanCount:    info.FanCount,
		SyncedAt:    &now,
	}

	if err := s.pages.Create(ctx, page); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("page is already connected")
		}
		return nil, apperrors.Internal(err)
	}
	return page, nil
}

func (s *pageService) List(ctx context.Context, userID string) ([]model.FacebookPage, error) {
	pages, err := s.pages.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pages, nil
}

func (s *pageService) Get(ctx context.Context, userID, id string) (*model.FacebookPage, error) {
	return s.ownedPage(ctx, userID, id)
}

// Sync refreshes name, category and fan count from the Graph API.
func (s *pageService) Sync(ctx context.Context, userID, id string) (*model.FacebookPage, error) {
	page, err := s.ownedPage(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	info, err := s.graph.GetPage(ctx, page.PageID, page.AccessToken)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	page.Name = info.Name
	page.Category = info.Category
	page.FanCount = info.FanCount
	page.SyncedAt = &now

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, apperrors.Internal(err)
	}
	return page, nil
}

func (s *pageService) Disconnect(ctx context.Context, userID, id string) error {
	page, err := s.ownedPage(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, page.ID.String()); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
