package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a principal the agency remits net rent to. Owners referenced
// by liquidation history are never hard-deleted, only soft-deleted.
type Owner struct {
	ID          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
