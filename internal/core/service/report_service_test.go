package service

import (
	"context"
	"errors"
	"testing"

	"github.com/schoolhub/school-console/internal/core/domain"
)

func TestBuildStatistics(t *testing.T) {
	classes := []domain.Class{
		{ID: "c1", Name: "1A", GradeLevel: "1st"},
		{ID: "c2", Name: "1B", GradeLevel: "1st"},
		{ID: "c3", Name: "Lab"},
	}
	students := []domain.Student{
		{ID: "s1", ClassID: "c1"},
		{ID: "s2", ClassID: "c1"},
		{ID: "s3", ClassID: "c2"},
		{ID: "s4"},
		{ID: "s5", ClassID: "c99"},
	}
	subjects := []domain.Subject{
		{ID: "m", Name: "Math", TeacherName: "Rui"},
		{ID: "p", Name: "Physics", TeacherName: "Rui"},
		{ID: "a", Name: "Art"},
	}
	teachers := []domain.Teacher{{ID: "t1", Name: "Rui"}}

	got := BuildStatistics(students, classes, teachers, subjects)

	if got.TotalStudents != 5 || got.TotalClasses != 3 || got.TotalSubjects != 3 || got.TotalTeachers != 1 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	wantPerClass := map[string]int{"1A": 2, "1B": 1, domain.LabelNoClass: 1, domain.LabelUnknownClass: 1}
	for k, v := range wantPerClass {
		if got.StudentsPerClass[k] != v {
			t.Fatalf("StudentsPerClass[%q] = %d, want %d (%v)", k, got.StudentsPerClass[k], v, got.StudentsPerClass)
		}
	}
	if got.SubjectsPerTeacher["Rui"] != 2 || got.SubjectsPerTeacher[domain.LabelNoTeacher] != 1 {
		t.Fatalf("unexpected SubjectsPerTeacher: %v", got.SubjectsPerTeacher)
	}
	if got.ClassesPerGradeLevel["1st"] != 2 || got.ClassesPerGradeLevel[domain.LabelNoGradeLevel] != 1 {
		t.Fatalf("unexpected ClassesPerGradeLevel: %v", got.ClassesPerGradeLevel)
	}
}

func TestBuildStatistics_Empty(t *testing.T) {
	got := BuildStatistics(nil, nil, nil, nil)
	if got.TotalStudents != 0 || got.StudentsPerClass == nil || len(got.StudentsPerClass) != 0 {
		t.Fatalf("unexpected empty statistics: %+v", got)
	}
}

func TestReportService_Statistics(t *testing.T) {
	roster := &stubRoster{
		students: []domain.Student{{ID: "s1", ClassID: "c1"}},
		classes:  []domain.Class{{ID: "c1", Name: "1A", GradeLevel: "1st"}},
	}

	svc := NewReportService(sessionAs(domain.RoleAdministrator), roster)
	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics error: %v", err)
	}
	if got.StudentsPerClass["1A"] != 1 {
		t.Fatalf("unexpected statistics: %+v", got)
	}
}

func TestReportService_Statistics_AdminOnly(t *testing.T) {
	svc := NewReportService(sessionAs(domain.RoleTeacher), &stubRoster{})
	if _, err := svc.Statistics(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReportService_Statistics_Error(t *testing.T) {
	svc := NewReportService(sessionAs(domain.RoleAdministrator), &stubRoster{err: domain.ErrConnection})
	if _, err := svc.Statistics(context.Background()); !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}
