// Package usecase implements the application logic: the periodic
// reminder check, response intake, leader administration, settings,
// and exports.
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/service/googledir"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
)

// Notifier abstracts the notification dispatcher for testing.
type Notifier interface {
	SendReminder(ctx context.Context, r *notify.Reminder) []error
	SendEscalation(ctx context.Context, e *notify.Escalation) []error
	TestChat(ctx context.Context) error
	TestMail(ctx context.Context) error
	ChatConfigured() bool
}

// UseCases bundles the application services around one repository.
type UseCases struct {
	repo      interfaces.Repository
	wiki      wiki.Service
	notifier  Notifier
	directory googledir.Service
	baseURL   string
	now       func() time.Time

	// checkMu serializes reminder checks. A cycle that finds the lock
	// taken reports overlap instead of queueing behind it.
	checkMu sync.Mutex
}

// Option configures UseCases.
type Option func(*UseCases)

// WithWiki attaches the wiki backend.
func WithWiki(svc wiki.Service) Option {
	return func(uc *UseCases) {
		uc.wiki = svc
	}
}

// WithNotifier attaches the notification dispatcher.
func WithNotifier(n Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithDirectory attaches the Workspace directory client.
func WithDirectory(svc googledir.Service) Option {
	return func(uc *UseCases) {
		uc.directory = svc
	}
}

// WithBaseURL sets the public base URL used to build response links.
func WithBaseURL(url string) Option {
	return func(uc *UseCases) {
		uc.baseURL = url
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the application services.
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		baseURL: "http://localhost:8080",
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
