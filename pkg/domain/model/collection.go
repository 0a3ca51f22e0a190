package model

import (
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// WikiCollection is an assignment of one externally hosted wiki
// collection to a team leader. The external collection ID is the source
// of truth; Name is a display cache refreshed on admin edits.
type WikiCollection struct {
	ID       types.CollectionID
	LeaderID types.LeaderID

	// WikiCollectionID is the collection's ID in the external wiki
	// service.
	WikiCollectionID string
	Name             string

	LastCheckedAt *time.Time
	CreatedAt     time.Time
}
