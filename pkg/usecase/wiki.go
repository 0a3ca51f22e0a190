package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/service/googledir"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
)

// ListWikiCollections returns all collections of the wiki backend, for
// the assignment picker.
func (uc *UseCases) ListWikiCollections(ctx context.Context) ([]*wiki.Collection, error) {
	if uc.wiki == nil {
		return nil, goerr.New("no wiki service configured")
	}
	return uc.wiki.ListCollections(ctx)
}

// ListWikiUsers returns the wiki accounts, for linking leaders to
// their wiki identity.
func (uc *UseCases) ListWikiUsers(ctx context.Context) ([]*wiki.User, error) {
	if uc.wiki == nil {
		return nil, goerr.New("no wiki service configured")
	}
	return uc.wiki.ListUsers(ctx)
}

// ListDirectoryUsers returns Workspace directory accounts for the
// import picker.
func (uc *UseCases) ListDirectoryUsers(ctx context.Context, orgUnitPath string) ([]*googledir.User, error) {
	if uc.directory == nil {
		return nil, goerr.New("no directory service configured")
	}
	return uc.directory.ListUsers(ctx, orgUnitPath)
}

// SendTestChat posts a test message to the chat channel.
func (uc *UseCases) SendTestChat(ctx context.Context) error {
	if uc.notifier == nil {
		return goerr.New("no notifier configured")
	}
	return uc.notifier.TestChat(ctx)
}

// SendTestMail verifies the mail provider credentials.
func (uc *UseCases) SendTestMail(ctx context.Context) error {
	if uc.notifier == nil {
		return goerr.New("no notifier configured")
	}
	return uc.notifier.TestMail(ctx)
}
