package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin wrapper over the Graph API. Requests inherit the caller's
// context deadline; no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Graph client against baseURL (the versioned Graph root).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// PageInfo is the subset of page metadata the dashboard shows.
type PageInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	FanCount int64  `json:"fan_count"`
}

// PostMetrics carries engagement counters for a published post.
type PostMetrics struct {
	Likes    int64
	Comments int64
	Shares   int64
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// GetPage fetches page metadata.
func (c *Client) GetPage(ctx context.Context, pageID, accessToken string) (*PageInfo, error) {
	var info PageInfo
	err := c.get(ctx, fmt.Sprintf("/%s", pageID), url.Values{
		"fields":       {"id,name,category,fan_count"},
		"access_token": {accessToken},
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// PublishPost creates a feed post and returns the remote post id.
func (c *Client) PublishPost(ctx context.Context, pageID, accessToken, message string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.post(ctx, fmt.Sprintf("/%s/feed", pageID), url.Values{
		"message":      {message},
		"access_token": {accessToken},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// ReplyToComment posts a reply under a comment.
func (c *Client) ReplyToComment(ctx context.Context, commentID, accessToken, message string) error {
	var out struct {
		ID string `json:"id"`
	}
	return c.post(ctx, fmt.Sprintf("/%s/comments", commentID), url.Values{
		"message":      {message},
		"access_token": {accessToken},
	}, &out)
}

// GetPostMetrics fetches engagement counters for a remote post.
func (c *Client) GetPostMetrics(ctx context.Context, remotePostID, accessToken string) (*PostMetrics, error) {
	var out struct {
		Likes struct {
			Summary struct {
				TotalCount int64 `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments struct {
			Summary struct {
				TotalCount int64 `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
		Shares struct {
			Count int64 `json:"count"`
		} `json:"shares"`
	}
	err := c.get(ctx, fmt.Sprintf("/%s", remotePostID), url.Values{
		"fields":       {"likes.summary(true),comments.summary(true),shares"},
		"access_token": {accessToken},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &PostMetrics{
		Likes:    out.Likes.Summary.TotalCount,
		Comments: out.Comments.Summary.TotalCount,
		Shares:   out.Shares.Count,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var ge graphError
		if err := json.NewDecoder(res.Body).Decode(&ge); err == nil && ge.Error.Message != "" {
			return fmt.Errorf("graph api: %s (code %d)", ge.Error.Message, ge.Error.Code)
		}
		return fmt.Errorf("graph api: unexpected status %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
