// Package wiki defines the read-only interface to the documentation
// platform. Two backends exist: Outline (the primary wiki) and Notion.
package wiki

import (
	"context"
	"time"
)

// Collection is a wiki collection as reported by the backend.
type Collection struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DocumentCount int       `json:"document_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// User is a wiki account, used to map team leaders onto wiki identities.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DocumentUpdate is a single document edit visible in the activity feed.
type DocumentUpdate struct {
	DocumentID     string    `json:"document_id"`
	Title          string    `json:"title"`
	CollectionID   string    `json:"collection_id"`
	CollectionName string    `json:"collection_name,omitempty"`
	UpdatedBy      string    `json:"updated_by"`
	UpdatedAt      time.Time `json:"updated_at"`
	URL            string    `json:"url,omitempty"`
}

// CollectionRef names one collection for bulk activity queries.
type CollectionRef struct {
	ID   string
	Name string
}

// Service is the wiki backend abstraction. All calls are read-only.
type Service interface {
	// ListCollections returns all collections the integration can see.
	ListCollections(ctx context.Context) ([]*Collection, error)

	// HasActivitySince reports whether any document in the collection was
	// updated strictly after since.
	HasActivitySince(ctx context.Context, collectionID string, since time.Time) (bool, error)

	// ActivityByUserSince reports whether the given wiki user updated any
	// document in the collection strictly after since. An empty userID
	// falls back to collection-wide activity.
	ActivityByUserSince(ctx context.Context, collectionID, userID string, since time.Time) (bool, error)

	// RecentActivityByUser collects the user's latest document updates
	// across the given collections, newest first, up to limit.
	// Collections that fail to load are skipped.
	RecentActivityByUser(ctx context.Context, userID string, collections []CollectionRef, since time.Time, limit int) ([]*DocumentUpdate, error)

	// ListUsers returns the wiki's user accounts.
	ListUsers(ctx context.Context) ([]*User, error)

	// TestConnection verifies credentials against the backend.
	TestConnection(ctx context.Context) error
}
