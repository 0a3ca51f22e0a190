package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// LeaderID represents a unique identifier for a team leader
type LeaderID string

// NewLeaderID generates a new random LeaderID
func NewLeaderID() LeaderID {
	return LeaderID(uuid.NewString())
}

// Validate checks if the LeaderID is valid
func (x LeaderID) Validate() error {
	if x == "" {
		return goerr.New("leader ID cannot be empty")
	}
	return nil
}

// String returns the string representation of LeaderID
func (x LeaderID) String() string {
	return string(x)
}

// CollectionID represents a unique identifier for a wiki collection assignment
type CollectionID string

// NewCollectionID generates a new random CollectionID
func NewCollectionID() CollectionID {
	return CollectionID(uuid.NewString())
}

// Validate checks if the CollectionID is valid
func (x CollectionID) Validate() error {
	if x == "" {
		return goerr.New("collection ID cannot be empty")
	}
	return nil
}

// String returns the string representation of CollectionID
func (x CollectionID) String() string {
	return string(x)
}

// ReminderLogID represents a unique identifier for a reminder log entry
type ReminderLogID string

// NewReminderLogID generates a new random ReminderLogID
func NewReminderLogID() ReminderLogID {
	return ReminderLogID(uuid.NewString())
}

// Validate checks if the ReminderLogID is valid
func (x ReminderLogID) Validate() error {
	if x == "" {
		return goerr.New("reminder log ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ReminderLogID
func (x ReminderLogID) String() string {
	return string(x)
}

// AuditID represents a unique identifier for an audit log entry
type AuditID string

// NewAuditID generates a new random AuditID
func NewAuditID() AuditID {
	return AuditID(uuid.NewString())
}

// String returns the string representation of AuditID
func (x AuditID) String() string {
	return string(x)
}
