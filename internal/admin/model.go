package admin

import (
	"time"

	"github.com/uptrace/bun"
)

// Roles an admin account can hold.
const (
	RoleExamOfficer = "exam_officer"
	RoleHOD         = "hod"
	RoleSuperAdmin  = "super_admin"
)

type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Username     string    `bun:"username,unique,notnull" json:"username"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Role         string    `bun:"role,notnull" json:"role"`
	IsActive     bool      `bun:"is_active,default:true" json:"isActive"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
