package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/schoolhub/school-console/internal/core/domain"
)

// ID decodes identifiers sent either as JSON numbers or strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type gradeDTO struct {
	ID             ID       `json:"id"`
	StudentID      ID       `json:"alunoId"`
	SubjectID      ID       `json:"disciplinaId"`
	SubjectName    string   `json:"disciplinaNome" validate:"required"`
	Value          *float64 `json:"valor" validate:"required,gte=0,lte=10"`
	AssessmentType string   `json:"tipoAvaliacao"`
	AssessmentDate string   `json:"dataAvaliacao"`
	Note           string   `json:"observacao"`
}

func (d gradeDTO) toDomain() domain.GradeRecord {
	return domain.GradeRecord{
		ID:             string(d.ID),
		StudentID:      string(d.StudentID),
		SubjectID:      string(d.SubjectID),
		SubjectName:    d.SubjectName,
		Value:          *d.Value,
		AssessmentType: d.AssessmentType,
		AssessmentDate: parseDate(d.AssessmentDate),
		Note:           d.Note,
	}
}

type attendanceDTO struct {
	ID          ID     `json:"id"`
	StudentID   ID     `json:"alunoId"`
	SubjectID   ID     `json:"disciplinaId"`
	SubjectName string `json:"disciplinaNome" validate:"required"`
	ClassDate   string `json:"dataAula"`
	Present     bool   `json:"presente"`
	Note        string `json:"observacao"`
}

func (d attendanceDTO) toDomain() domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:          string(d.ID),
		StudentID:   string(d.StudentID),
		SubjectID:   string(d.SubjectID),
		SubjectName: d.SubjectName,
		ClassDate:   parseDate(d.ClassDate),
		Present:     d.Present,
		Note:        d.Note,
	}
}

type classRefDTO struct {
	ID ID `json:"id"`
}

type studentDTO struct {
	ID         ID           `json:"id"`
	Name       string       `json:"nome"`
	Enrollment string       `json:"matricula"`
	BirthDate  string       `json:"dataNascimento"`
	Email      string       `json:"email"`
	ClassID    ID           `json:"turmaId"`
	Class      *classRefDTO `json:"turma"`
}

func (d studentDTO) toDomain() domain.Student {
	classID := string(d.ClassID)
	if classID == "" && d.Class != nil {
		classID = string(d.Class.ID)
	}
	return domain.Student{
		ID:         string(d.ID),
		Name:       d.Name,
		Enrollment: d.Enrollment,
		Email:      d.Email,
		BirthDate:  d.BirthDate,
		ClassID:    classID,
	}
}

type classDTO struct {
	ID         ID     `json:"id"`
	Name       string `json:"nome"`
	SchoolYear int    `json:"anoLetivo"`
	GradeLevel string `json:"serie"`
}

func (d classDTO) toDomain() domain.Class {
	return domain.Class{ID: string(d.ID), Name: d.Name, SchoolYear: d.SchoolYear, GradeLevel: d.GradeLevel}
}

type teacherDTO struct {
	ID     ID     `json:"id"`
	Name   string `json:"nome"`
	Email  string `json:"email"`
	Degree string `json:"formacaoAcademica"`
	Phone  string `json:"telefone"`
}

func (d teacherDTO) toDomain() domain.Teacher {
	return domain.Teacher{ID: string(d.ID), Name: d.Name, Email: d.Email, Degree: d.Degree, Phone: d.Phone}
}

type subjectDTO struct {
	ID          ID     `json:"id"`
	Name        string `json:"nome"`
	Workload    int    `json:"cargaHoraria"`
	TeacherID   ID     `json:"professorId"`
	TeacherName string `json:"professorNome"`
}

func (d subjectDTO) toDomain() domain.Subject {
	return domain.Subject{
		ID:          string(d.ID),
		Name:        d.Name,
		Workload:    d.Workload,
		TeacherID:   string(d.TeacherID),
		TeacherName: d.TeacherName,
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// parseDate returns the zero time for empty or unparseable input.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
