package studentdata

import (
	"context"
	"fmt"
	"sync"
	"vtopassist/lib/scrapers/vtop"
)

type ResourceKind string

const (
	KindCgpa         ResourceKind = "cgpa"
	KindAttendance   ResourceKind = "attendance"
	KindMarks        ResourceKind = "marks"
	KindAssignments  ResourceKind = "assignments"
	KindExamSchedule ResourceKind = "exam_schedule"
	KindTimetable    ResourceKind = "timetable"
	KindGradeHistory ResourceKind = "grade_history"
	KindLeave        ResourceKind = "leave"
	KindPayments     ResourceKind = "payments"
	KindProctor      ResourceKind = "proctor"
	KindFaculty      ResourceKind = "faculty"
	KindCounselling  ResourceKind = "counselling"
	KindCalendar     ResourceKind = "calendar"
	KindLoginHistory ResourceKind = "login_history"
)

// Result is one resource's outcome. A failed extraction carries its
// error here instead of failing the whole batch.
type Result struct {
	Data any
	Err  error
}

type FetchOptions struct {
	SemesterId string
	// Refresh bypasses the session cache for this call.
	Refresh bool
}

type fetchFunc func(ctx context.Context, client *vtop.Client, opts FetchOptions) (any, error)

var fetchers = map[ResourceKind]fetchFunc{
	KindCgpa: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.Cgpa(ctx)
	},
	KindAttendance: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.Attendance(ctx, o.SemesterId)
	},
	KindMarks: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.Marks(ctx, o.SemesterId)
	},
	KindAssignments: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.Assignments(ctx, o.SemesterId)
	},
	KindExamSchedule: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.ExamScheduleFor(ctx, o.SemesterId)
	},
	KindTimetable: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.Timetable(ctx, o.SemesterId)
	},
	KindGradeHistory: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.GradeHistory(ctx)
	},
	KindLeave: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.LeaveRequests(ctx)
	},
	KindPayments: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.PaymentReceipts(ctx)
	},
	KindProctor: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.Proctor(ctx)
	},
	KindFaculty: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.FacultyDirectory(ctx)
	},
	KindCounselling: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.CounsellingRank(ctx)
	},
	KindCalendar: func(ctx context.Context, c *vtop.Client, o FetchOptions) (any, error) {
		return c.AcademicCalendar(ctx, o.SemesterId)
	},
	KindLoginHistory: func(ctx context.Context, c *vtop.Client, _ FetchOptions) (any, error) {
		return c.LoginHistory(ctx)
	},
}

// fetchAll fans requested kinds out over goroutines and gathers every
// outcome, successes and failures alike. One extractor tripping over
// changed markup must not cost the student the rest of their data.
func (s *Service) fetchAll(ctx context.Context, session *Session, kinds []ResourceKind, opts FetchOptions) map[ResourceKind]Result {
	results := make(map[ResourceKind]Result, len(kinds))

	var misses []ResourceKind
	for _, kind := range kinds {
		if _, ok := results[kind]; ok {
			continue
		}
		if !opts.Refresh {
			if cached, ok := session.Cache.Get(kind); ok {
				results[kind] = Result{Data: cached}
				continue
			}
		}
		results[kind] = Result{}
		misses = append(misses, kind)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, kind := range misses {
		wg.Add(1)
		go func(kind ResourceKind) {
			defer wg.Done()
			data, err := s.fetchOne(ctx, session, kind, opts)

			mu.Lock()
			results[kind] = Result{Data: data, Err: err}
			mu.Unlock()

			if err == nil {
				session.Cache.Set(kind, data)
			}
		}(kind)
	}
	wg.Wait()

	return results
}

func defaultFetchOne(ctx context.Context, client *vtop.Client, kind ResourceKind, opts FetchOptions) (any, error) {
	fetch, ok := fetchers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	if opts.SemesterId == "" {
		opts.SemesterId = vtop.DefaultSemester
	}
	return fetch(ctx, client, opts)
}
