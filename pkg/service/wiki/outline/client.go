// Package outline implements the wiki service against the Outline API.
package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
	"github.com/aweos-lab/wikireminder/pkg/utils/safe"
)

const (
	defaultTimeout = 15 * time.Second
	pageLimit      = 100
)

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the Outline client.
type Option func(*client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a wiki service backed by an Outline instance.
func New(baseURL, token string, opts ...Option) (wiki.Service, error) {
	if baseURL == "" {
		return nil, goerr.New("Outline base URL is required")
	}
	if token == "" {
		return nil, goerr.New("Outline API token is required")
	}

	c := &client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type collectionData struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type documentData struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	CollectionID string    `json:"collectionId"`
	UpdatedAt    time.Time `json:"updatedAt"`
	UpdatedBy    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"updatedBy"`
}

type userData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// post issues one Outline RPC call. Outline uses POST for everything,
// including reads.
func (c *client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal request", goerr.V("path", path))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call Outline API", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("Outline API returned error",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
		}
	}

	return nil
}

func (c *client) ListCollections(ctx context.Context) ([]*wiki.Collection, error) {
	var collections []*wiki.Collection
	offset := 0

	for {
		var resp struct {
			Data       []collectionData `json:"data"`
			Pagination pagination       `json:"pagination"`
		}
		if err := c.post(ctx, "/api/collections.list", map[string]any{
			"offset": offset,
			"limit":  pageLimit,
		}, &resp); err != nil {
			return nil, err
		}

		for _, d := range resp.Data {
			collections = append(collections, &wiki.Collection{
				ID:          d.ID,
				Name:        d.Name,
				Description: d.Description,
				UpdatedAt:   d.UpdatedAt,
			})
		}

		if len(resp.Data) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return collections, nil
}

// listDocuments returns the collection's documents newest-edit first.
func (c *client) listDocuments(ctx context.Context, collectionID string, limit int) ([]documentData, error) {
	var resp struct {
		Data []documentData `json:"data"`
	}
	if err := c.post(ctx, "/api/documents.list", map[string]any{
		"collectionId": collectionID,
		"sort":         "updatedAt",
		"direction":    "DESC",
		"limit":        limit,
	}, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V("collectionID", collectionID))
	}

	return resp.Data, nil
}

func (c *client) HasActivitySince(ctx context.Context, collectionID string, since time.Time) (bool, error) {
	return c.activitySince(ctx, collectionID, "", since)
}

func (c *client) ActivityByUserSince(ctx context.Context, collectionID, userID string, since time.Time) (bool, error) {
	return c.activitySince(ctx, collectionID, userID, since)
}

func (c *client) activitySince(ctx context.Context, collectionID, userID string, since time.Time) (bool, error) {
	docs, err := c.listDocuments(ctx, collectionID, pageLimit)
	if err != nil {
		return false, err
	}

	for _, doc := range docs {
		if !doc.UpdatedAt.After(since) {
			// Sorted by updatedAt descending, the rest is older.
			break
		}
		if userID == "" || doc.UpdatedBy.ID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (c *client) RecentActivityByUser(ctx context.Context, userID string, collections []wiki.CollectionRef, since time.Time, limit int) ([]*wiki.DocumentUpdate, error) {
	var updates []*wiki.DocumentUpdate

	for _, col := range collections {
		docs, err := c.listDocuments(ctx, col.ID, pageLimit)
		if err != nil {
			// One broken collection must not hide activity in the others.
			logging.From(ctx).Warn("skipping collection in activity scan",
				"collectionID", col.ID, "error", err)
			continue
		}

		for _, doc := range docs {
			if !doc.UpdatedAt.After(since) {
				break
			}
			if userID != "" && doc.UpdatedBy.ID != userID {
				continue
			}
			updates = append(updates, &wiki.DocumentUpdate{
				DocumentID:     doc.ID,
				Title:          doc.Title,
				CollectionID:   doc.CollectionID,
				CollectionName: col.Name,
				UpdatedBy:      doc.UpdatedBy.Name,
				UpdatedAt:      doc.UpdatedAt,
				URL:            doc.URL,
			})
		}
	}

	sort.Slice(updates, func(i, j int) bool {
		if !updates[i].UpdatedAt.Equal(updates[j].UpdatedAt) {
			return updates[i].UpdatedAt.After(updates[j].UpdatedAt)
		}
		return updates[i].DocumentID < updates[j].DocumentID
	})

	if limit > 0 && len(updates) > limit {
		updates = updates[:limit]
	}

	return updates, nil
}

func (c *client) ListUsers(ctx context.Context) ([]*wiki.User, error) {
	var users []*wiki.User
	offset := 0

	for {
		var resp struct {
			Data []userData `json:"data"`
		}
		if err := c.post(ctx, "/api/users.list", map[string]any{
			"offset": offset,
			"limit":  pageLimit,
		}, &resp); err != nil {
			return nil, err
		}

		for _, d := range resp.Data {
			users = append(users, &wiki.User{
				ID:    d.ID,
				Name:  d.Name,
				Email: d.Email,
			})
		}

		if len(resp.Data) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return users, nil
}

func (c *client) TestConnection(ctx context.Context) error {
	var resp struct {
		Data struct {
			User userData `json:"user"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/api/auth.info", map[string]any{}, &resp); err != nil {
		return goerr.Wrap(err, "Outline connection test failed")
	}
	if resp.Data.User.ID == "" {
		return goerr.New("Outline auth.info returned no user")
	}

	return nil
}
