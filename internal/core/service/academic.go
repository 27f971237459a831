package service

import "github.com/schoolhub/school-console/internal/core/domain"

// The functions below are pure reductions over fetched records. They never
// mutate their input and trust it to be pre-validated: a grade outside 0–10
// is averaged like any other value.

// AverageForSubject returns the mean grade of the subject with exactly the
// given name (case-sensitive). It returns 0 when the subject has no grades,
// which is indistinguishable from a real zero average; use Subjects to tell
// the two apart.
func AverageForSubject(grades []domain.GradeRecord, subjectName string) float64 {
	var sum float64
	var n int
	for _, g := range grades {
		if g.SubjectName == subjectName {
			sum += g.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// OverallAverage is the mean of the per-subject averages, so every subject
// weighs the same regardless of how many assessments it had.
func OverallAverage(grades []domain.GradeRecord) float64 {
	subjects := Subjects(grades)
	if len(subjects) == 0 {
		return 0
	}
	var sum float64
	for _, s := range subjects {
		sum += AverageForSubject(grades, s)
	}
	return sum / float64(len(subjects))
}

// Subjects lists the distinct subject names in first-seen order.
func Subjects(grades []domain.GradeRecord) []string {
	seen := make(map[string]struct{}, len(grades))
	out := make([]string, 0)
	for _, g := range grades {
		if _, ok := seen[g.SubjectName]; ok {
			continue
		}
		seen[g.SubjectName] = struct{}{}
		out = append(out, g.SubjectName)
	}
	return out
}

// GradesForSubject returns a copy of the grades recorded for subjectName.
func GradesForSubject(grades []domain.GradeRecord, subjectName string) []domain.GradeRecord {
	out := make([]domain.GradeRecord, 0)
	for _, g := range grades {
		if g.SubjectName == subjectName {
			out = append(out, g)
		}
	}
	return out
}

// AttendanceSummary groups records by subject name. Groups come out in the
// order their subject first appears in records.
func AttendanceSummary(records []domain.AttendanceRecord) []domain.SubjectSummary {
	index := make(map[string]int)
	out := make([]domain.SubjectSummary, 0)

	for _, r := range records {
		i, ok := index[r.SubjectName]
		if !ok {
			i = len(out)
			index[r.SubjectName] = i
			out = append(out, domain.SubjectSummary{SubjectName: r.SubjectName})
		}
		out[i].TotalClasses++
		if r.Present {
			out[i].PresentCount++
		} else {
			out[i].AbsentCount++
		}
	}

	for i := range out {
		out[i].AttendanceRate = float64(out[i].PresentCount) / float64(out[i].TotalClasses) * 100
	}
	return out
}

// MinAttendanceRate returns the lowest subject rate, or 100 when nothing was
// recorded so that missing attendance never blocks approval.
func MinAttendanceRate(summaries []domain.SubjectSummary) float64 {
	if len(summaries) == 0 {
		return 100
	}
	lowest := summaries[0].AttendanceRate
	for _, s := range summaries[1:] {
		if s.AttendanceRate < lowest {
			lowest = s.AttendanceRate
		}
	}
	return lowest
}

// AverageAttendanceRate is the mean of the subject rates, 0 when empty.
func AverageAttendanceRate(summaries []domain.SubjectSummary) float64 {
	if len(summaries) == 0 {
		return 0
	}
	var sum float64
	for _, s := range summaries {
		sum += s.AttendanceRate
	}
	return sum / float64(len(summaries))
}

// Classify derives the verdict from the overall average and the lowest
// subject attendance rate. Attendance below the minimum fails the student
// whatever the grades.
func Classify(overallAverage, minAttendanceRate float64) domain.Classification {
	if minAttendanceRate < domain.MinAttendanceRate {
		return domain.Failed
	}
	switch {
	case overallAverage >= domain.ApprovalAverage:
		return domain.Approved
	case overallAverage >= domain.RetakeAverage:
		return domain.Retake
	default:
		return domain.Failed
	}
}

// Standing combines grades and attendance into an OverallStanding.
func Standing(grades []domain.GradeRecord, attendance []domain.AttendanceRecord) domain.OverallStanding {
	bySubject := make(map[string]float64)
	for _, s := range Subjects(grades) {
		bySubject[s] = AverageForSubject(grades, s)
	}
	avg := OverallAverage(grades)
	minRate := MinAttendanceRate(AttendanceSummary(attendance))

	return domain.OverallStanding{
		AverageBySubject:  bySubject,
		OverallAverage:    avg,
		MinAttendanceRate: minRate,
		Classification:    Classify(avg, minRate),
	}
}
