package student

import (
	"time"

	"github.com/uptrace/bun"
)

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	MatricNumber string    `bun:"matric_number,unique,notnull" json:"matricNumber"`
	Level        int       `bun:"level,notnull" json:"level"`
	Department   string    `bun:"department" json:"department"`
	Email        string    `bun:"email" json:"email"`
	Phone        string    `bun:"phone" json:"phone"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"` // Never expose password in JSON
	IsActive     bool      `bun:"is_active,default:false" json:"isActive"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// RegisterRequest is the request body for student registration
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	MatricNumber string `json:"matricNumber" validate:"required"`
	Level        int    `json:"level" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
}
