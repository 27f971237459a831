package domain

// Student is an enrolled pupil as exposed by the school API.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Enrollment string `json:"enrollment"`
	Email      string `json:"email"`
	BirthDate  string `json:"birth_date,omitempty"`
	ClassID    string `json:"class_id,omitempty"`
}

// Class groups students of one grade level in a school year.
type Class struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SchoolYear int    `json:"school_year"`
	GradeLevel string `json:"grade_level"`
}

type Teacher struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Degree string `json:"degree,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Workload    int    `json:"workload"`
	TeacherID   string `json:"teacher_id,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}

// Labels used by the statistics report when a relation is missing.
const (
	LabelNoClass      = "No class"
	LabelUnknownClass = "Unknown class"
	LabelNoTeacher    = "No teacher"
	LabelNoGradeLevel = "No grade level"
)

// Statistics is the administrator overview report.
type Statistics struct {
	TotalStudents        int            `json:"total_students"`
	TotalTeachers        int            `json:"total_teachers"`
	TotalClasses         int            `json:"total_classes"`
	TotalSubjects        int            `json:"total_subjects"`
	StudentsPerClass     map[string]int `json:"students_per_class"`
	SubjectsPerTeacher   map[string]int `json:"subjects_per_teacher"`
	ClassesPerGradeLevel map[string]int `json:"classes_per_grade_level"`
}
