package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

const defaultFanOut = 4

type standingService struct {
	session ports.SessionReader
	records ports.AcademicRecordSource
	roster  ports.RosterSource
	fanOut  int
	log     zerolog.Logger
}

// NewStandingService returns a StandingService. fanOut bounds the number of
// students fetched concurrently by ClassStandings; <= 0 uses defaultFanOut.
func NewStandingService(
	session ports.SessionReader,
	records ports.AcademicRecordSource,
	roster ports.RosterSource,
	fanOut int,
	log zerolog.Logger,
) ports.StandingService {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &standingService{
		session: session,
		records: records,
		roster:  roster,
		fanOut:  fanOut,
		log:     log.With().Str("component", "standing").Logger(),
	}
}

// MyStanding resolves the logged-in student and builds their dashboard.
func (s *standingService) MyStanding(ctx context.Context) (*domain.StudentStanding, error) {
	if err := requireRole(s.session, domain.RoleStudent); err != nil {
		return nil, err
	}

	me, err := s.roster.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("my standing: %w", err)
	}
	return s.build(ctx, me.ID, me.Name)
}

// StandingFor builds the dashboard of any student. Staff only.
func (s *standingService) StandingFor(ctx context.Context, studentID string) (*domain.StudentStanding, error) {
	if err := requireRole(s.session, domain.RoleTeacher, domain.RoleAdministrator); err != nil {
		return nil, err
	}
	return s.build(ctx, studentID, "")
}

// ClassStandings builds the dashboard of every student in a class, in roster
// order. An unknown class fails with domain.ErrNotFound and one failing
// student fails the whole call.
func (s *standingService) ClassStandings(ctx context.Context, classID string) ([]domain.StudentStanding, error) {
	if err := requireRole(s.session, domain.RoleTeacher, domain.RoleAdministrator); err != nil {
		return nil, err
	}

	if _, err := s.roster.Class(ctx, classID); err != nil {
		return nil, fmt.Errorf("class %s: %w", classID, err)
	}
	members, err := s.roster.ClassStudents(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("class standings: %w", err)
	}

	out := make([]domain.StudentStanding, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for i, st := range members {
		g.Go(func() error {
			standing, err := s.build(gctx, st.ID, st.Name)
			if err != nil {
				return err
			}
			out[i] = *standing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("class standings: %w", err)
	}

	s.log.Debug().Str("class_id", classID).Int("students", len(out)).Msg("class standings computed")
	return out, nil
}

func (s *standingService) build(ctx context.Context, studentID, name string) (*domain.StudentStanding, error) {
	var (
		grades     []domain.GradeRecord
		attendance []domain.AttendanceRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		grades, err = s.records.Grades(gctx, studentID)
		if err != nil {
			return fmt.Errorf("grades of %s: %w", studentID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		attendance, err = s.records.Attendance(gctx, studentID)
		if err != nil {
			return fmt.Errorf("attendance of %s: %w", studentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := AttendanceSummary(attendance)
	return &domain.StudentStanding{
		StudentID:             studentID,
		StudentName:           name,
		Subjects:              Subjects(grades),
		Standing:              Standing(grades, attendance),
		Attendance:            summaries,
		AverageAttendanceRate: AverageAttendanceRate(summaries),
	}, nil
}

// requireRole fails with ErrNotAuthenticated without a session and with
// ErrForbidden when the user holds none of roles.
func requireRole(session ports.SessionReader, roles ...domain.Role) error {
	if !session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	for _, r := range roles {
		if session.HasRole(r) {
			return nil
		}
	}
	return domain.ErrForbidden
}
