// Package session models academic sessions ("2024/2025"), not to be
// confused with authentication sessions.
package session

import (
	"time"

	"github.com/uptrace/bun"
)

type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	SessionName string    `bun:"session_name,unique,notnull" json:"sessionName"`
	IsCurrent   bool      `bun:"is_current,default:false" json:"isCurrent"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
