package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

type tokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*model.ResponseToken
}

func newTokenRepository() *tokenRepository {
	return &tokenRepository{
		tokens: make(map[string]*model.ResponseToken),
	}
}

func copyToken(t *model.ResponseToken) *model.ResponseToken {
	copied := *t
	return &copied
}

func (r *tokenRepository) Put(ctx context.Context, token *model.ResponseToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.Token == "" {
		return goerr.New("token string is required")
	}
	if _, exists := r.tokens[token.Token]; exists {
		return goerr.New("token already exists", goerr.V("token", token.Token))
	}

	stored := copyToken(token)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.tokens[stored.Token] = stored
	return nil
}

func (r *tokenRepository) Get(ctx context.Context, token string) (*model.ResponseToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[token]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrTokenNotFound, "token not found")
	}
	return copyToken(stored), nil
}

// Consume flips unused to used under the repository lock, so exactly
// one of two concurrent calls for the same token succeeds.
func (r *tokenRepository) Consume(ctx context.Context, token string, now time.Time) (*model.ResponseToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[token]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrTokenNotFound, "token not found")
	}
	if stored.Used {
		return nil, goerr.Wrap(interfaces.ErrTokenUsed, "token already used")
	}
	if stored.Expired(now) {
		return nil, goerr.Wrap(interfaces.ErrTokenExpired, "token expired", goerr.V("expiresAt", stored.ExpiresAt))
	}

	stored.Used = true
	return copyToken(stored), nil
}

func (r *tokenRepository) DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, t := range r.tokens {
		if t.LeaderID == leaderID {
			delete(r.tokens, key)
		}
	}
	return nil
}
