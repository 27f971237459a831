package service

import (
	"math"
	"testing"

	"github.com/schoolhub/school-console/internal/core/domain"
)

func grade(subject string, value float64) domain.GradeRecord {
	return domain.GradeRecord{SubjectName: subject, Value: value}
}

func presence(subject string, present bool) domain.AttendanceRecord {
	return domain.AttendanceRecord{SubjectName: subject, Present: present}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAverageForSubject_Empty(t *testing.T) {
	// No grades yet reports 0, same as a real zero average.
	if got := AverageForSubject(nil, "Math"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := AverageForSubject([]domain.GradeRecord{grade("History", 9)}, "Math"); got != 0 {
		t.Fatalf("expected 0 for missing subject, got %v", got)
	}
}

func TestAverageForSubject_Mean(t *testing.T) {
	grades := []domain.GradeRecord{grade("Math", 8), grade("Math", 6), grade("History", 2)}
	if got := AverageForSubject(grades, "Math"); got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestAverageForSubject_CaseSensitive(t *testing.T) {
	grades := []domain.GradeRecord{grade("Math", 8), grade("math", 2)}
	if got := AverageForSubject(grades, "Math"); got != 8 {
		t.Fatalf("expected 8, got %v", got)
	}
}

func TestOverallAverage_AveragesSubjectAverages(t *testing.T) {
	grades := []domain.GradeRecord{
		grade("Math", 10), grade("Math", 10), grade("Math", 10),
		grade("History", 4),
	}
	// Unweighted over subjects: (10 + 4) / 2, not (30 + 4) / 4.
	if got := OverallAverage(grades); got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
	if got := OverallAverage(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestOverallAverage_DoesNotMutateInput(t *testing.T) {
	grades := []domain.GradeRecord{grade("Math", 8), grade("Art", 6)}
	before := append([]domain.GradeRecord(nil), grades...)
	_ = OverallAverage(grades)
	_ = Standing(grades, nil)
	for i := range grades {
		if grades[i] != before[i] {
			t.Fatalf("input mutated at %d: %+v", i, grades[i])
		}
	}
}

func TestSubjects_FirstSeenOrder(t *testing.T) {
	grades := []domain.GradeRecord{grade("Zoology", 5), grade("Art", 6), grade("Zoology", 7), grade("Math", 1)}
	got := Subjects(grades)
	want := []string{"Zoology", "Art", "Math"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGradesForSubject(t *testing.T) {
	grades := []domain.GradeRecord{grade("Math", 8), grade("Art", 6), grade("Math", 4)}
	got := GradesForSubject(grades, "Math")
	if len(got) != 2 || got[0].Value != 8 || got[1].Value != 4 {
		t.Fatalf("unexpected grades: %+v", got)
	}
	if got := GradesForSubject(nil, "Math"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAttendanceSummary_SingleSubject(t *testing.T) {
	records := []domain.AttendanceRecord{
		presence("Math", true), presence("Math", false), presence("Math", true),
	}
	got := AttendanceSummary(records)
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	s := got[0]
	if s.SubjectName != "Math" || s.TotalClasses != 3 || s.PresentCount != 2 || s.AbsentCount != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if !almostEqual(s.AttendanceRate, 200.0/3.0) {
		t.Fatalf("expected 66.666..., got %v", s.AttendanceRate)
	}
}

func TestAttendanceSummary_FirstSeenOrder(t *testing.T) {
	records := []domain.AttendanceRecord{
		presence("Physics", true),
		presence("Biology", false),
		presence("Physics", true),
		presence("Art", true),
		presence("Biology", true),
	}
	got := AttendanceSummary(records)
	want := []string{"Physics", "Biology", "Art"}
	if len(got) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].SubjectName != name {
			t.Fatalf("group %d: expected %s, got %s", i, name, got[i].SubjectName)
		}
		if got[i].TotalClasses < 1 {
			t.Fatalf("group %s has no classes", name)
		}
	}
	if got[1].AttendanceRate != 50 {
		t.Fatalf("expected Biology at 50%%, got %v", got[1].AttendanceRate)
	}
}

func TestAttendanceSummary_Empty(t *testing.T) {
	if got := AttendanceSummary(nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %+v", got)
	}
}

func TestMinAndAverageAttendanceRate(t *testing.T) {
	summaries := []domain.SubjectSummary{
		{SubjectName: "Math", AttendanceRate: 90},
		{SubjectName: "Art", AttendanceRate: 60},
	}
	if got := MinAttendanceRate(summaries); got != 60 {
		t.Fatalf("expected 60, got %v", got)
	}
	if got := AverageAttendanceRate(summaries); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
	if got := MinAttendanceRate(nil); got != 100 {
		t.Fatalf("expected 100 when nothing recorded, got %v", got)
	}
	if got := AverageAttendanceRate(nil); got != 0 {
		t.Fatalf("expected 0 when nothing recorded, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		avg     float64
		minRate float64
		want    domain.Classification
	}{
		{"approved", 8, 80, domain.Approved},
		{"retake", 6, 80, domain.Retake},
		{"low attendance overrides grades", 8, 60, domain.Failed},
		{"low grades", 4, 90, domain.Failed},
		{"approval boundary", 7, 75, domain.Approved},
		{"retake boundary", 5, 75, domain.Retake},
		{"just under retake", 4.999, 100, domain.Failed},
		{"just under attendance", 10, 74.999, domain.Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.avg, tt.minRate); got != tt.want {
				t.Fatalf("Classify(%v, %v) = %s, want %s", tt.avg, tt.minRate, got, tt.want)
			}
		})
	}
}

func TestStanding(t *testing.T) {
	grades := []domain.GradeRecord{grade("Math", 8), grade("Math", 6), grade("Art", 9)}
	attendance := []domain.AttendanceRecord{
		presence("Math", true), presence("Math", true), presence("Math", true), presence("Math", false),
		presence("Art", true),
	}

	got := Standing(grades, attendance)
	if got.AverageBySubject["Math"] != 7 || got.AverageBySubject["Art"] != 9 {
		t.Fatalf("unexpected subject averages: %+v", got.AverageBySubject)
	}
	if got.OverallAverage != 8 {
		t.Fatalf("expected overall 8, got %v", got.OverallAverage)
	}
	if got.MinAttendanceRate != 75 {
		t.Fatalf("expected min rate 75, got %v", got.MinAttendanceRate)
	}
	if got.Classification != domain.Approved {
		t.Fatalf("expected approved, got %s", got.Classification)
	}
}

func TestStanding_NoRecords(t *testing.T) {
	got := Standing(nil, nil)
	if got.OverallAverage != 0 || got.MinAttendanceRate != 100 {
		t.Fatalf("unexpected empty standing: %+v", got)
	}
	if got.Classification != domain.Failed {
		t.Fatalf("expected failed with no grades, got %s", got.Classification)
	}
	if len(got.AverageBySubject) != 0 {
		t.Fatalf("expected no subjects, got %+v", got.AverageBySubject)
	}
}
