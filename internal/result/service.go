package result

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deptportal/internal/academic"
	"deptportal/internal/session"
	"deptportal/internal/student"
)

// ErrAccountInactive rejects dashboard access for a student whose
// approval was revoked after login; their token may still be valid.
var ErrAccountInactive = errors.New("your account is not yet approved by the admin")

// StudentDirectory is the slice of the student store this package
// needs. Satisfied by student.Repository.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int) (*student.Student, error)
	GetByMatric(ctx context.Context, matric string) (*student.Student, error)
}

// Sessions is the slice of the session store this package needs.
// Satisfied by session.Repository.
type Sessions interface {
	List(ctx context.Context) ([]session.Session, error)
	GetByID(ctx context.Context, id int) (*session.Session, error)
	GetCurrent(ctx context.Context) (*session.Session, error)
}

// PaymentChecker answers the result-visibility question. Satisfied by
// payment.Service.
type PaymentChecker interface {
	HasApprovedPayment(ctx context.Context, matric string) (bool, error)
}

// ResultGroup is one session/semester block of a transcript, with its
// own GPA.
type ResultGroup struct {
	Key         string          `json:"key"`
	SessionName string          `json:"sessionName"`
	Semester    int             `json:"semester"`
	Results     []StudentResult `json:"results"`
	TotalUnits  int             `json:"totalUnits"`
	GPA         float64         `json:"gpa"`
}

// Dashboard is everything the student result screen shows. Without an
// approved payment the groups stay empty and HasPayment tells the
// client to render the pay-first notice.
type Dashboard struct {
	Student        *student.Student  `json:"student"`
	HasPayment     bool              `json:"hasPayment"`
	Groups         []ResultGroup     `json:"groups"`
	Sessions       []session.Session `json:"sessions"`
	CurrentSession *session.Session  `json:"currentSession,omitempty"`
}

type Service interface {
	Upload(ctx context.Context, req UploadRequest, adminID int) (*Result, error)
	Dashboard(ctx context.Context, studentID int) (*Dashboard, error)
	StudentResults(ctx context.Context, studentID int) (*student.Student, []StudentResult, error)
	Count(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	students StudentDirectory
	sessions Sessions
	payments PaymentChecker
}

func NewService(repo Repository, students StudentDirectory, sessions Sessions, payments PaymentChecker) Service {
	return &service{repo: repo, students: students, sessions: sessions, payments: payments}
}

// Upload records one result. The letter grade and grade point are
// derived here from the score and the student's current level, and the
// course fields are copied in as a snapshot.
func (s *service) Upload(ctx context.Context, req UploadRequest, adminID int) (*Result, error) {
	st, err := s.students.GetByMatric(ctx, strings.TrimSpace(req.MatricNumber))
	if err != nil {
		return nil, err
	}
	ses, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Result{
		StudentID:   st.ID,
		SessionID:   ses.ID,
		Semester:    req.Semester,
		CourseCode:  strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		CourseTitle: strings.TrimSpace(req.CourseTitle),
		CourseUnit:  req.CourseUnit,
		Score:       req.Score,
		Grade:       academic.LetterGrade(req.Score),
		GradePoint:  academic.GradePoint(req.Score, st.Level),
		UploadedBy:  adminID,
	})
}

// Dashboard gates results behind account approval and an approved
// payment, both re-checked on every call.
func (s *service) Dashboard(ctx context.Context, studentID int) (*Dashboard, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrAccountInactive
	}

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.sessions.GetCurrent(ctx)
	if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return nil, err
	}

	dash := &Dashboard{
		Student:        st,
		Groups:         []ResultGroup{},
		Sessions:       sessions,
		CurrentSession: current,
	}

	hasPayment, err := s.payments.HasApprovedPayment(ctx, st.MatricNumber)
	if err != nil {
		return nil, err
	}
	dash.HasPayment = hasPayment
	if !hasPayment {
		return dash, nil
	}

	rows, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	dash.Groups = groupResults(rows)
	return dash, nil
}

// StudentResults is the admin view of one student's transcript.
func (s *service) StudentResults(ctx context.Context, studentID int) (*student.Student, []StudentResult, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	return st, rows, nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// groupResults buckets rows by "{session}_S{semester}" preserving the
// query order (session desc, then semester) and computes each bucket's
// unit-weighted GPA.
func groupResults(rows []StudentResult) []ResultGroup {
	groups := []ResultGroup{}
	index := map[string]int{}

	for _, row := range rows {
		key := fmt.Sprintf("%s_S%d", row.SessionName, row.Semester)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ResultGroup{
				Key:         key,
				SessionName: row.SessionName,
				Semester:    row.Semester,
				Results:     []StudentResult{},
			})
		}
		groups[i].Results = append(groups[i].Results, row)
	}

	for i := range groups {
		totalPoints := 0.0
		totalUnits := 0
		for _, row := range groups[i].Results {
			totalPoints += row.GradePoint * float64(row.CourseUnit)
			totalUnits += row.CourseUnit
		}
		groups[i].TotalUnits = totalUnits
		groups[i].GPA = academic.GPA(totalPoints, totalUnits)
	}
	return groups
}
