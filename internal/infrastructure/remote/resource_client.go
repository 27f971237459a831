package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// TokenSource hands out the current bearer token. The session manager
// satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// ResourceClient reads academic records and rosters on behalf of the
// current session.
type ResourceClient struct {
	t        transport
	tokens   TokenSource
	validate *validator.Validate
}

func NewResourceClient(cfg Config, tokens TokenSource, log zerolog.Logger) *ResourceClient {
	return &ResourceClient{
		t:        newTransport(cfg, log.With().Str("component", "remote.resource").Logger()),
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Grades returns the student's grade records. Records with a value outside
// 0..10 or without a subject are dropped and logged.
func (c *ResourceClient) Grades(ctx context.Context, studentID string) ([]domain.GradeRecord, error) {
	var dtos []gradeDTO
	path := "/notas/aluno/" + url.PathEscape(studentID)
	if err := c.get(ctx, path, "/notas/aluno/:id", &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.GradeRecord, 0, len(dtos))
	for _, d := range dtos {
		if err := c.validate.Struct(d); err != nil {
			c.t.log.Warn().Err(err).Str("student_id", studentID).Str("grade_id", string(d.ID)).Msg("grade record rejected")
			continue
		}
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *ResourceClient) Attendance(ctx context.Context, studentID string) ([]domain.AttendanceRecord, error) {
	var dtos []attendanceDTO
	path := "/frequencias/aluno/" + url.PathEscape(studentID)
	if err := c.get(ctx, path, "/frequencias/aluno/:id", &dtos); err != nil {
		return nil, err
	}

	out := make([]domain.AttendanceRecord, 0, len(dtos))
	for _, d := range dtos {
		if err := c.validate.Struct(d); err != nil {
			c.t.log.Warn().Err(err).Str("student_id", studentID).Str("attendance_id", string(d.ID)).Msg("attendance record rejected")
			continue
		}
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Me resolves the student record of the logged-in user.
func (c *ResourceClient) Me(ctx context.Context) (*domain.Student, error) {
	var d studentDTO
	if err := c.get(ctx, "/alunos/me", "/alunos/me", &d); err != nil {
		return nil, err
	}
	st := d.toDomain()
	return &st, nil
}

func (c *ResourceClient) Students(ctx context.Context) ([]domain.Student, error) {
	var dtos []studentDTO
	if err := c.get(ctx, "/alunos", "/alunos", &dtos); err != nil {
		return nil, err
	}
	return mapAll(dtos, studentDTO.toDomain), nil
}

// ClassStudents lists the members of one class as ordered by the API.
func (c *ResourceClient) ClassStudents(ctx context.Context, classID string) ([]domain.Student, error) {
	var dtos []studentDTO
	path := "/alunos/turma/" + url.PathEscape(classID)
	if err := c.get(ctx, path, "/alunos/turma/:id", &dtos); err != nil {
		return nil, err
	}
	return mapAll(dtos, studentDTO.toDomain), nil
}

func (c *ResourceClient) Class(ctx context.Context, classID string) (*domain.Class, error) {
	var d classDTO
	path := "/turmas/" + url.PathEscape(classID)
	if err := c.get(ctx, path, "/turmas/:id", &d); err != nil {
		return nil, err
	}
	cl := d.toDomain()
	return &cl, nil
}

func (c *ResourceClient) Classes(ctx context.Context) ([]domain.Class, error) {
	var dtos []classDTO
	if err := c.get(ctx, "/turmas", "/turmas", &dtos); err != nil {
		return nil, err
	}
	return mapAll(dtos, classDTO.toDomain), nil
}

func (c *ResourceClient) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	var dtos []teacherDTO
	if err := c.get(ctx, "/professores", "/professores", &dtos); err != nil {
		return nil, err
	}
	return mapAll(dtos, teacherDTO.toDomain), nil
}

func (c *ResourceClient) Subjects(ctx context.Context) ([]domain.Subject, error) {
	var dtos []subjectDTO
	if err := c.get(ctx, "/disciplinas", "/disciplinas", &dtos); err != nil {
		return nil, err
	}
	return mapAll(dtos, subjectDTO.toDomain), nil
}

func (c *ResourceClient) get(ctx context.Context, path, endpoint string, out any) error {
	token, ok := c.tokens.Token()
	if !ok {
		return domain.ErrNotAuthenticated
	}

	resp, body, err := c.t.do(ctx, http.MethodGet, path, endpoint, token, nil)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", path, domain.ErrNotAuthenticated)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", path, domain.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	default:
		return statusError(http.MethodGet, path, resp.StatusCode, body)
	}

	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func mapAll[D any, T any](in []D, fn func(D) T) []T {
	out := make([]T, 0, len(in))
	for _, d := range in {
		out = append(out, fn(d))
	}
	return out
}

var (
	_ ports.AcademicRecordSource = (*ResourceClient)(nil)
	_ ports.RosterSource         = (*ResourceClient)(nil)
)
