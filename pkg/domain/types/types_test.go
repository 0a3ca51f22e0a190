package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

func TestResponseType(t *testing.T) {
	t.Run("valid types parse", func(t *testing.T) {
		for _, rt := range types.AllResponseTypes() {
			parsed, err := types.ParseResponseType(rt.String())
			gt.NoError(t, err)
			gt.Value(t, parsed).Equal(rt)
		}
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := types.ParseResponseType("resolved")
		gt.Error(t, err)
	})

	t.Run("empty type rejected", func(t *testing.T) {
		gt.Bool(t, types.ResponseType("").IsValid()).False()
	})
}

func TestReminderStatus(t *testing.T) {
	t.Run("valid statuses parse", func(t *testing.T) {
		for _, s := range types.AllReminderStatuses() {
			parsed, err := types.ParseReminderStatus(s.String())
			gt.NoError(t, err)
			gt.Value(t, parsed).Equal(s)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := types.ParseReminderStatus("pending")
		gt.Error(t, err)
	})
}

func TestIDs(t *testing.T) {
	t.Run("generated IDs are unique and valid", func(t *testing.T) {
		a := types.NewLeaderID()
		b := types.NewLeaderID()
		gt.Value(t, a).NotEqual(b)
		gt.NoError(t, a.Validate())
	})

	t.Run("empty ID is invalid", func(t *testing.T) {
		gt.Error(t, types.LeaderID("").Validate())
		gt.Error(t, types.CollectionID("").Validate())
		gt.Error(t, types.ReminderLogID("").Validate())
	})
}
