package domain

import "time"

// GradeRecord is a single assessment result, values expected in 0–10.
type GradeRecord struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	SubjectID      string    `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	Value          float64   `json:"value"`
	AssessmentType string    `json:"assessment_type"`
	AssessmentDate time.Time `json:"assessment_date"`
	Note           string    `json:"note,omitempty"`
}

// AttendanceRecord marks presence or absence at one class.
type AttendanceRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	ClassDate   time.Time `json:"class_date"`
	Present     bool      `json:"present"`
	Note        string    `json:"note,omitempty"`
}

// SubjectSummary aggregates attendance for one subject.
type SubjectSummary struct {
	SubjectName    string  `json:"subject_name"`
	TotalClasses   int     `json:"total_classes"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Classification is the final verdict for a student.
type Classification string

const (
	Approved Classification = "approved"
	Retake   Classification = "retake"
	Failed   Classification = "failed"
)

// Policy thresholds for Classify.
const (
	ApprovalAverage   = 7.0
	RetakeAverage     = 5.0
	MinAttendanceRate = 75.0
)

// OverallStanding combines grade averages and attendance into a verdict.
type OverallStanding struct {
	AverageBySubject  map[string]float64 `json:"average_by_subject"`
	OverallAverage    float64            `json:"overall_average"`
	MinAttendanceRate float64            `json:"min_attendance_rate"`
	Classification    Classification     `json:"classification"`
}

// StudentStanding is the dashboard view for one student.
type StudentStanding struct {
	StudentID             string           `json:"student_id"`
	StudentName           string           `json:"student_name,omitempty"`
	Subjects              []string         `json:"subjects"`
	Standing              OverallStanding  `json:"standing"`
	Attendance            []SubjectSummary `json:"attendance"`
	AverageAttendanceRate float64          `json:"average_attendance_rate"`
}
