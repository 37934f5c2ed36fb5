package result

import (
	"time"

	"github.com/uptrace/bun"

	"deptportal/internal/session"
	"deptportal/internal/student"
)

// Result is one uploaded course result. Rows are immutable after
// insert; the course fields are a point-in-time snapshot of the course
// catalog and are never recomputed if the catalog changes.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	StudentID   int       `bun:"student_id,notnull" json:"studentId"`
	SessionID   int       `bun:"session_id,notnull" json:"sessionId"`
	Semester    int       `bun:"semester,notnull" json:"semester"`
	CourseCode  string    `bun:"course_code,notnull" json:"courseCode"`
	CourseTitle string    `bun:"course_title,notnull" json:"courseTitle"`
	CourseUnit  int       `bun:"course_unit,notnull" json:"courseUnit"`
	Score       int       `bun:"score,notnull" json:"score"`
	Grade       string    `bun:"grade,notnull" json:"grade"`
	GradePoint  float64   `bun:"grade_point,notnull" json:"gradePoint"`
	UploadedBy  int       `bun:"uploaded_by" json:"uploadedBy"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	// Relations drive the generated foreign keys; results go with
	// their student, sessions cannot be deleted from the app.
	Student *student.Student `bun:"rel:belongs-to,join:student_id=id,on_delete:CASCADE" json:"-"`
	Session *session.Session `bun:"rel:belongs-to,join:session_id=id" json:"-"`
}

// StudentResult is a result row joined with its session name, the
// shape both result screens render.
type StudentResult struct {
	Result
	SessionName string `bun:"session_name" json:"sessionName"`
}

// UploadRequest is the admin's single-result upload form. Grade and
// grade point are computed at insert, never taken from the client.
type UploadRequest struct {
	MatricNumber string `json:"matricNumber" validate:"required"`
	SessionID    int    `json:"sessionId" validate:"required"`
	Semester     int    `json:"semester" validate:"required,oneof=1 2"`
	CourseCode   string `json:"courseCode" validate:"required"`
	CourseTitle  string `json:"courseTitle" validate:"required"`
	CourseUnit   int    `json:"courseUnit" validate:"required,min=1,max=6"`
	Score        int    `json:"score" validate:"min=0,max=100"`
}
