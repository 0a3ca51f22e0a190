package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
)

func TestTeamLeaderValidate(t *testing.T) {
	t.Run("valid leader normalizes email", func(t *testing.T) {
		leader := &model.TeamLeader{
			Name:  "  Anna Schmidt ",
			Email: " Anna.Schmidt@Example.COM ",
		}
		gt.NoError(t, leader.Validate())
		gt.Value(t, leader.Name).Equal("Anna Schmidt")
		gt.Value(t, leader.Email).Equal("anna.schmidt@example.com")
	})

	t.Run("missing name rejected", func(t *testing.T) {
		leader := &model.TeamLeader{Email: "anna@example.com"}
		gt.Error(t, leader.Validate())
	})

	t.Run("missing email rejected", func(t *testing.T) {
		leader := &model.TeamLeader{Name: "Anna"}
		gt.Error(t, leader.Validate())
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		for _, email := range []string{"anna", "anna@", "@example.com", "anna@example", "an na@example.com"} {
			leader := &model.TeamLeader{Name: "Anna", Email: email}
			gt.Error(t, leader.Validate())
		}
	})

	t.Run("overlong fields rejected", func(t *testing.T) {
		leader := &model.TeamLeader{
			Name:  strings.Repeat("x", 201),
			Email: "anna@example.com",
		}
		gt.Error(t, leader.Validate())

		leader = &model.TeamLeader{
			Name:       "Anna",
			Email:      "anna@example.com",
			WikiUserID: strings.Repeat("x", 101),
		}
		gt.Error(t, leader.Validate())
	})

	t.Run("negative counter rejected", func(t *testing.T) {
		leader := &model.TeamLeader{
			Name:          "Anna",
			Email:         "anna@example.com",
			ReminderCount: -1,
		}
		gt.Error(t, leader.Validate())
	})
}

func TestTeamLeaderEligible(t *testing.T) {
	now := time.Now()

	t.Run("active without snooze", func(t *testing.T) {
		leader := &model.TeamLeader{Active: true}
		gt.Bool(t, leader.Eligible(now)).True()
	})

	t.Run("inactive excluded", func(t *testing.T) {
		leader := &model.TeamLeader{Active: false}
		gt.Bool(t, leader.Eligible(now)).False()
	})

	t.Run("future snooze excluded", func(t *testing.T) {
		until := now.Add(24 * time.Hour)
		leader := &model.TeamLeader{Active: true, SnoozeUntil: &until}
		gt.Bool(t, leader.Eligible(now)).False()
	})

	t.Run("expired snooze eligible again", func(t *testing.T) {
		until := now.Add(-time.Minute)
		leader := &model.TeamLeader{Active: true, SnoozeUntil: &until}
		gt.Bool(t, leader.Eligible(now)).True()
	})
}

func TestResponseTokenExpired(t *testing.T) {
	now := time.Now()

	tok := &model.ResponseToken{ExpiresAt: now.Add(time.Hour)}
	gt.Bool(t, tok.Expired(now)).False()

	tok = &model.ResponseToken{ExpiresAt: now.Add(-time.Second)}
	gt.Bool(t, tok.Expired(now)).True()
}

func TestSettingsFromMap(t *testing.T) {
	t.Run("defaults for empty map", func(t *testing.T) {
		s := model.SettingsFromMap(map[string]string{})
		gt.Value(t, s.EscalationThreshold).Equal(model.DefaultEscalationThreshold)
		gt.Value(t, s.CronSchedule).Equal(model.DefaultCronSchedule)
		gt.Value(t, s.ManagerEmail).Equal("")
	})

	t.Run("values override defaults", func(t *testing.T) {
		s := model.SettingsFromMap(map[string]string{
			model.SettingManagerEmail:        "boss@example.com",
			model.SettingEscalationThreshold: "5",
			model.SettingCronSchedule:        "0 8 * * 2",
		})
		gt.Value(t, s.ManagerEmail).Equal("boss@example.com")
		gt.Value(t, s.EscalationThreshold).Equal(5)
		gt.Value(t, s.CronSchedule).Equal("0 8 * * 2")
	})

	t.Run("malformed threshold falls back to default", func(t *testing.T) {
		s := model.SettingsFromMap(map[string]string{
			model.SettingEscalationThreshold: "many",
		})
		gt.Value(t, s.EscalationThreshold).Equal(model.DefaultEscalationThreshold)
	})

	t.Run("round trip through map", func(t *testing.T) {
		s := &model.Settings{ManagerEmail: "boss@example.com", EscalationThreshold: 4, CronSchedule: "0 9 * * 1"}
		got := model.SettingsFromMap(s.ToMap())
		gt.Value(t, got).Equal(s)
	})
}
