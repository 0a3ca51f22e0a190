// Package notion implements the wiki service against the Notion API.
// Each Notion database stands in for one wiki collection.
package notion

import (
	"context"
	"sort"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

type client struct {
	api *notionapi.Client
}

// New creates a wiki service backed by a Notion workspace integration.
func New(token string) (wiki.Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	return &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry on rate limit (HTTP 429)
		),
	}, nil
}

func (c *client) ListCollections(ctx context.Context) ([]*wiki.Collection, error) {
	var collections []*wiki.Collection
	var cursor notionapi.Cursor

	for {
		resp, err := c.api.Search.Do(ctx, &notionapi.SearchRequest{
			Filter: notionapi.SearchFilter{
				Value:    "database",
				Property: "object",
			},
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search databases")
		}

		for _, obj := range resp.Results {
			db, ok := obj.(*notionapi.Database)
			if !ok {
				continue
			}
			collections = append(collections, &wiki.Collection{
				ID:        db.ID.String(),
				Name:      richTextPlain(db.Title),
				UpdatedAt: time.Time(db.LastEditedTime),
			})
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return collections, nil
}

// queryUpdatedPages retrieves pages edited on or after since from a
// database, newest first as Notion returns them.
func (c *client) queryUpdatedPages(ctx context.Context, dbID string, since time.Time) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	onOrAfter := notionapi.Date(since)
	for {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseQueryRequest{
			Filter: &notionapi.TimestampFilter{
				Timestamp: "last_edited_time",
				LastEditedTime: &notionapi.DateFilterCondition{
					OnOrAfter: &onOrAfter,
				},
			},
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query database", goerr.V("dbID", dbID), goerr.V("since", since))
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return pages, nil
}

func (c *client) HasActivitySince(ctx context.Context, collectionID string, since time.Time) (bool, error) {
	return c.ActivityByUserSince(ctx, collectionID, "", since)
}

func (c *client) ActivityByUserSince(ctx context.Context, collectionID, userID string, since time.Time) (bool, error) {
	pages, err := c.queryUpdatedPages(ctx, collectionID, since)
	if err != nil {
		return false, err
	}

	for _, page := range pages {
		if !time.Time(page.LastEditedTime).After(since) {
			continue
		}
		if userID == "" || page.LastEditedBy.ID.String() == userID {
			return true, nil
		}
	}

	return false, nil
}

func (c *client) RecentActivityByUser(ctx context.Context, userID string, collections []wiki.CollectionRef, since time.Time, limit int) ([]*wiki.DocumentUpdate, error) {
	var updates []*wiki.DocumentUpdate

	for _, col := range collections {
		pages, err := c.queryUpdatedPages(ctx, col.ID, since)
		if err != nil {
			logging.From(ctx).Warn("skipping database in activity scan",
				"dbID", col.ID, "error", err)
			continue
		}

		for _, page := range pages {
			editedAt := time.Time(page.LastEditedTime)
			if !editedAt.After(since) {
				continue
			}
			if userID != "" && page.LastEditedBy.ID.String() != userID {
				continue
			}
			updates = append(updates, &wiki.DocumentUpdate{
				DocumentID:     page.ID.String(),
				Title:          pageTitle(&page),
				CollectionID:   col.ID,
				CollectionName: col.Name,
				UpdatedBy:      page.LastEditedBy.Name,
				UpdatedAt:      editedAt,
				URL:            page.URL,
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
	var cursor notionapi.Cursor

	for {
		resp, err := c.api.User.List(ctx, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list users")
		}

		for _, u := range resp.Results {
			if u.Type != notionapi.UserTypePerson {
				continue
			}
			user := &wiki.User{
				ID:   u.ID.String(),
				Name: u.Name,
			}
			if u.Person != nil {
				user.Email = u.Person.Email
			}
			users = append(users, user)
		}

		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return users, nil
}

func (c *client) TestConnection(ctx context.Context) error {
	if _, err := c.api.User.Me(ctx); err != nil {
		return goerr.Wrap(err, "Notion connection test failed")
	}
	return nil
}

func richTextPlain(texts []notionapi.RichText) string {
	var s string
	for _, t := range texts {
		s += t.PlainText
	}
	return s
}

func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return richTextPlain(title.Title)
		}
	}
	return ""
}
