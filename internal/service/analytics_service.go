package service

import (
	"context"
	"log/slog"

	"fbmanager/internal/facebook"
	"fbmanager/internal/repository"
	"fbmanager/internal/websocket"
	"fbmanager/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// PageAnalytics summarizes engagement across a page's published posts.
// EngagementRate is interactions per fan, as a percentage.
type PageAnalytics struct {
	PageID         string          `json:"pageId"`
	PageName       string          `json:"pageName"`
	FanCount       int64           `json:"fanCount"`
	PublishedPosts int             `json:"publishedPosts"`
	TotalLikes     int64           `json:"totalLikes"`
	TotalComments  int64           `json:"totalComments"`
	TotalShares    int64           `json:"totalShares"`
	EngagementRate decimal.Decimal `json:"engagementRate"`
}

// AnalyticsService defines the interface for engagement reporting
type AnalyticsService interface {
	PageSummary(ctx context.Context, userID, pageID string) (*PageAnalytics, error)
}

type analyticsService struct {
	pages repository.PageRepository
	posts repository.PostRepository
	graph *facebook.Client
	hub   *websocket.Hub
}

// NewAnalyticsService returns a new instance of AnalyticsService
func NewAnalyticsService(
	pages repository.PageRepository,
	posts repository.PostRepository,
	graph *facebook.Client,
	hub *websocket.Hub,
) AnalyticsService {
	return &analyticsService{pages: pages, posts: posts, graph: graph, hub: hub}
}

// PageSummary refreshes per-post counters from the Graph API and aggregates
// them. A metrics fetch failure for one post keeps its last stored counters
// rather than failing the whole report.
func (s *analyticsService) PageSummary(ctx context.Context, userID, pageID string) (*PageAnalytics, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil || page.UserID.String() != userID {
		return nil, apperrors.NotFound("page not found")
	}

	posts, err := s.posts.ListPublishedByPage(ctx, page.ID.String())
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summary := &PageAnalytics{
		PageID:         page.ID.String(),
		PageName:       page.Name,
		FanCount:       page.FanCount,
		PublishedPosts: len(posts),
	}

	for i := range posts {
		post := &posts[i]
		if post.RemotePostID != "" {
			metrics, err := s.graph.GetPostMetrics(ctx, post.RemotePostID, page.AccessToken)
			if err != nil {
				slog.Warn("metrics fetch failed", "postId", post.ID, "error", err)
			} else {
				post.Likes = metrics.Likes
				post.Comments = metrics.Comments
				post.Shares = metrics.Shares
				if err := s.posts.Update(ctx, post); err != nil {
					return nil, apperrors.Internal(err)
				}
			}
		}
		summary.TotalLikes += post.Likes
		summary.TotalComments += post.Comments
		summary.TotalShares += post.Shares
	}

	interactions := summary.TotalLikes + summary.TotalComments + summary.TotalShares
	if page.FanCount > 0 {
		summary.EngagementRate = decimal.NewFromInt(interactions).
			Div(decimal.NewFromInt(page.FanCount)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	s.hub.Publish(websocket.EventMetrics, summary)

	return summary, nil
}
