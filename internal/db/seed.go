package db

import (
	"context"
	"log/slog"

	"deptportal/internal/admin"
	"deptportal/internal/course"
	"deptportal/internal/session"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "aeeAdmin"
	defaultSessionName   = "2024/2025"
)

// Seed inserts the default admin, the current academic session and the
// sample course catalog. Each block only runs when its data is
// missing, so Seed is safe to call on every startup.
func Seed(ctx context.Context, bunDB *bun.DB, logger *slog.Logger) error {
	adminRepo := admin.NewRepository(bunDB)
	exists, err := adminRepo.ExistsByUsername(ctx, defaultAdminUsername)
	if err != nil {
		return err
	}
	if !exists {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := adminRepo.Create(ctx, &admin.Admin{
			Name:         "System Administrator",
			Username:     defaultAdminUsername,
			PasswordHash: string(hash),
			Role:         admin.RoleSuperAdmin,
			IsActive:     true,
		}); err != nil {
			return err
		}
		logger.Info("default admin created", "username", defaultAdminUsername)
	}

	sessionRepo := session.NewRepository(bunDB)
	exists, err = sessionRepo.ExistsByName(ctx, defaultSessionName)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := sessionRepo.Create(ctx, &session.Session{
			SessionName: defaultSessionName,
			IsCurrent:   true,
		}); err != nil {
			return err
		}
		logger.Info("default session created", "session", defaultSessionName)
	}

	courseRepo := course.NewRepository(bunDB)
	count, err := courseRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		for _, c := range sampleCourses {
			c := c
			if _, err := courseRepo.Create(ctx, &c); err != nil {
				return err
			}
		}
		logger.Info("sample courses inserted", "count", len(sampleCourses))
	}

	return nil
}

// sampleCourses is the department's starter catalog.
var sampleCourses = []course.Course{
	{CourseCode: "AGE 101", CourseTitle: "Introduction to Agricultural Engineering", CourseUnit: 2, Level: 100, Semester: 1},
	{CourseCode: "AGE 102", CourseTitle: "Engineering Drawing and Design", CourseUnit: 3, Level: 100, Semester: 1},
	{CourseCode: "AGE 103", CourseTitle: "Mathematics for Engineers I", CourseUnit: 3, Level: 100, Semester: 1},
	{CourseCode: "AGE 104", CourseTitle: "Physics for Engineers", CourseUnit: 3, Level: 100, Semester: 1},
	{CourseCode: "AGE 105", CourseTitle: "Chemistry for Engineers", CourseUnit: 3, Level: 100, Semester: 1},
	{CourseCode: "AGE 111", CourseTitle: "Workshop Technology", CourseUnit: 2, Level: 100, Semester: 2},
	{CourseCode: "AGE 112", CourseTitle: "Mathematics for Engineers II", CourseUnit: 3, Level: 100, Semester: 2},
	{CourseCode: "AGE 113", CourseTitle: "Engineering Mechanics", CourseUnit: 3, Level: 100, Semester: 2},
	{CourseCode: "AGE 201", CourseTitle: "Fluid Mechanics", CourseUnit: 3, Level: 200, Semester: 1},
	{CourseCode: "AGE 202", CourseTitle: "Strength of Materials", CourseUnit: 3, Level: 200, Semester: 1},
	{CourseCode: "AGE 203", CourseTitle: "Thermodynamics", CourseUnit: 3, Level: 200, Semester: 1},
	{CourseCode: "AGE 301", CourseTitle: "Farm Power and Machinery", CourseUnit: 3, Level: 300, Semester: 1},
	{CourseCode: "AGE 302", CourseTitle: "Soil and Water Engineering", CourseUnit: 3, Level: 300, Semester: 1},
	{CourseCode: "AGE 401", CourseTitle: "Agricultural Processing Engineering", CourseUnit: 3, Level: 400, Semester: 1},
	{CourseCode: "AGE 501", CourseTitle: "Project", CourseUnit: 6, Level: 500, Semester: 1},
}
