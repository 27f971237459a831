package ports

import (
	"context"

	"github.com/schoolhub/school-console/internal/core/domain"
)

// AcademicRecordSource fetches grade and attendance records of one student.
type AcademicRecordSource interface {
	Grades(ctx context.Context, studentID string) ([]domain.GradeRecord, error)
	Attendance(ctx context.Context, studentID string) ([]domain.AttendanceRecord, error)
}

// RosterSource lists the school entities managed by the console.
type RosterSource interface {
	Me(ctx context.Context) (*domain.Student, error)
	Students(ctx context.Context) ([]domain.Student, error)
	// Class fails with domain.ErrNotFound for an unknown id.
	Class(ctx context.Context, classID string) (*domain.Class, error)
	ClassStudents(ctx context.Context, classID string) ([]domain.Student, error)
	Classes(ctx context.Context) ([]domain.Class, error)
	Teachers(ctx context.Context) ([]domain.Teacher, error)
	Subjects(ctx context.Context) ([]domain.Subject, error)
}

// StandingService computes dashboards from fetched records.
type StandingService interface {
	MyStanding(ctx context.Context) (*domain.StudentStanding, error)
	StandingFor(ctx context.Context, studentID string) (*domain.StudentStanding, error)
	ClassStandings(ctx context.Context, classID string) ([]domain.StudentStanding, error)
}

// ReportService builds administrator reports.
type ReportService interface {
	Statistics(ctx context.Context) (*domain.Statistics, error)
}
