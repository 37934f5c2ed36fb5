package course

import (
	"time"

	"github.com/uptrace/bun"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	CourseCode  string    `bun:"course_code,unique,notnull" json:"courseCode"`
	CourseTitle string    `bun:"course_title,notnull" json:"courseTitle"`
	CourseUnit  int       `bun:"course_unit,notnull" json:"courseUnit"`
	Level       int       `bun:"level,notnull" json:"level"`
	Semester    int       `bun:"semester,notnull" json:"semester"` // 1 or 2
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
