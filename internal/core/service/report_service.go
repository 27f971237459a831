package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

type reportService struct {
	session ports.SessionReader
	roster  ports.RosterSource
}

// NewReportService returns the administrator ReportService.
func NewReportService(session ports.SessionReader, roster ports.RosterSource) ports.ReportService {
	return &reportService{session: session, roster: roster}
}

// Statistics loads the four rosters in parallel and summarises them.
func (s *reportService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	if err := requireRole(s.session, domain.RoleAdministrator); err != nil {
		return nil, err
	}

	var (
		students []domain.Student
		classes  []domain.Class
		teachers []domain.Teacher
		subjects []domain.Subject
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { students, err = s.roster.Students(gctx); return })
	g.Go(func() (err error) { classes, err = s.roster.Classes(gctx); return })
	g.Go(func() (err error) { teachers, err = s.roster.Teachers(gctx); return })
	g.Go(func() (err error) { subjects, err = s.roster.Subjects(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}

	stats := BuildStatistics(students, classes, teachers, subjects)
	return &stats, nil
}

// BuildStatistics counts totals and groups students by class name, subjects
// by teacher name and classes by grade level.
func BuildStatistics(students []domain.Student, classes []domain.Class, teachers []domain.Teacher, subjects []domain.Subject) domain.Statistics {
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	stats := domain.Statistics{
		TotalStudents:        len(students),
		TotalTeachers:        len(teachers),
		TotalClasses:         len(classes),
		TotalSubjects:        len(subjects),
		StudentsPerClass:     make(map[string]int),
		SubjectsPerTeacher:   make(map[string]int),
		ClassesPerGradeLevel: make(map[string]int),
	}

	for _, st := range students {
		label := domain.LabelNoClass
		if st.ClassID != "" {
			name, ok := classNames[st.ClassID]
			if ok {
				label = name
			} else {
				label = domain.LabelUnknownClass
			}
		}
		stats.StudentsPerClass[label]++
	}

	for _, sub := range subjects {
		label := sub.TeacherName
		if label == "" {
			label = domain.LabelNoTeacher
		}
		stats.SubjectsPerTeacher[label]++
	}

	for _, c := range classes {
		label := c.GradeLevel
		if label == "" {
			label = domain.LabelNoGradeLevel
		}
		stats.ClassesPerGradeLevel[label]++
	}

	return stats
}
