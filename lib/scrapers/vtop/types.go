package vtop

import "time"

// DefaultSemester is the fall-back semesterSubId used when the caller
// doesn't pin one.
const DefaultSemester = "VL20252601"

// AuthContext carries the per-session synchronizer token and student
// registration number scraped off the landing page. It is immutable
// once captured and only re-derived by a fresh login.
type AuthContext struct {
	CsrfToken    string
	AuthorizedID string
}

func (a AuthContext) Valid() bool {
	return a.CsrfToken != "" && a.AuthorizedID != ""
}

type SafetyStatus string

const (
	StatusSafe    SafetyStatus = "safe"
	StatusCaution SafetyStatus = "caution"
	StatusDanger  SafetyStatus = "danger"
)

type AttendanceRow struct {
	SlNo         string
	CourseDetail string
	IsLab        bool
	Attended     int
	Total        int
	Percentage   float64
	DebarStatus  string
	Status       SafetyStatus
	// ClassesNeeded is how many consecutive classes must be attended to
	// climb back over the 75% line (danger only).
	ClassesNeeded int
	// CanSkip is how many classes may be missed while staying at or
	// above 75% (safe only).
	CanSkip int
	Action  string
}

type Assessment struct {
	Title     string
	Scored    string
	Max       string
	Weightage string
	Percent   string
}

type CourseMark struct {
	SlNo        string
	CourseCode  string
	CourseTitle string
	Faculty     string
	Slot        string
	Assessments []Assessment
}

type Assignment struct {
	SlNo     string
	Title    string
	DueDate  string
	DaysLeft int
	Status   string
}

type AssignmentCourse struct {
	SlNo        string
	ClassNbr    string
	CourseCode  string
	CourseTitle string
	Assignments []Assignment
}

type ExamEntry struct {
	SlNo          string
	CourseCode    string
	CourseTitle   string
	CourseType    string
	ClassID       string
	Slot          string
	Date          string
	Session       string
	ReportingTime string
	ExamTime      string
	Venue         string
	SeatLocation  string
	SeatNo        string
}

// ExamSchedule groups entries under the portal's exam type headers
// (FAT, CAT1, CAT2).
type ExamSchedule map[string][]ExamEntry

type TimetableSlot struct {
	Day         time.Weekday
	Start       string
	End         string
	Slot        string
	CourseCode  string
	CourseTitle string
	Venue       string
	Faculty     string

	startMinute int
}

// Timetable maps each weekday to its time-sorted meetings.
type Timetable map[time.Weekday][]TimetableSlot

type LeaveRecord struct {
	Place    string
	Reason   string
	From     string
	To       string
	Status   string
	Approver string
}

type GradeRecord struct {
	CourseCode  string
	CourseTitle string
	CourseType  string
	Credits     string
	Grade       string
	ExamMonth   string
}

type GradeHistory struct {
	Records           []GradeRecord
	CreditsRegistered string
	CreditsEarned     string
	CGPA              string
}

type PaymentReceipt struct {
	ReceiptNo string
	Date      string
	Amount    string
	Remarks   string
}

type FacultyProfile struct {
	Name        string
	Designation string
	School      string
	Email       string
	Cabin       string
}

type CalendarEvent struct {
	Date        string
	Day         string
	Description string
}

type LoginHistoryEntry struct {
	Date      string
	Time      string
	IPAddress string
	Status    string
}
