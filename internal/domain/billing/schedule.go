package billing

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// Warning describes a non-fatal issue detected while resolving or
// allocating. Warnings are surfaced to callers instead of being
// silently dropped.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScheduledMonth is one billable month within a student's schedule
type ScheduledMonth struct {
	MonthID     uuid.UUID
	CourseID    uuid.UUID
	MonthName   string
	CourseName  string
	MonthNumber int
	Fee         valueobject.Money
}

// CourseSchedule holds the applicable months for one enrollment
type CourseSchedule struct {
	CourseID   uuid.UUID
	CourseName string
	Months     []ScheduledMonth
}

// Schedule is the full fee schedule for a student: every month the
// student can be billed for, grouped per enrolled course and ordered
// by month number.
type Schedule struct {
	StudentID uuid.UUID
	Courses   []CourseSchedule
	Warnings  []Warning
}

// Months returns all scheduled months across courses in schedule order
func (s Schedule) Months() []ScheduledMonth {
	var out []ScheduledMonth
	for _, cs := range s.Courses {
		out = append(out, cs.Months...)
	}
	return out
}

// MonthByID returns the scheduled month with the given ID, or nil
func (s Schedule) MonthByID(monthID uuid.UUID) *ScheduledMonth {
	for ci := range s.Courses {
		for mi := range s.Courses[ci].Months {
			if s.Courses[ci].Months[mi].MonthID == monthID {
				return &s.Courses[ci].Months[mi]
			}
		}
	}
	return nil
}

// ScheduleResolver computes the applicable months for a student's
// enrollments. It is a pure domain service: all data is passed in.
type ScheduleResolver struct{}

// NewScheduleResolver creates a ScheduleResolver
func NewScheduleResolver() *ScheduleResolver {
	return &ScheduleResolver{}
}

// Resolve builds the fee schedule for a student. Courses and months
// are the full sets for the student's enrolled courses. Enrollments
// referencing unknown courses or months are skipped and reported as
// warnings. Output ordering is deterministic: courses by name then ID,
// months by month number then ID.
func (r *ScheduleResolver) Resolve(student *academy.Student, courses []academy.Course, months []academy.Month) Schedule {
	schedule := Schedule{StudentID: student.ID}

	courseByID := make(map[uuid.UUID]*academy.Course, len(courses))
	for i := range courses {
		courseByID[courses[i].ID] = &courses[i]
	}

	monthsByCourse := make(map[uuid.UUID][]academy.Month)
	monthByID := make(map[uuid.UUID]*academy.Month, len(months))
	for i := range months {
		monthsByCourse[months[i].CourseID] = append(monthsByCourse[months[i].CourseID], months[i])
		monthByID[months[i].ID] = &months[i]
	}

	enrollments := make([]academy.Enrollment, len(student.Enrollments))
	copy(enrollments, student.Enrollments)
	sort.SliceStable(enrollments, func(i, j int) bool {
		ci, iOK := courseByID[enrollments[i].CourseID]
		cj, jOK := courseByID[enrollments[j].CourseID]
		if !iOK || !jOK {
			return !iOK && jOK
		}
		if ci.Name != cj.Name {
			return ci.Name < cj.Name
		}
		return ci.ID.String() < cj.ID.String()
	})

	for _, e := range enrollments {
		course, ok := courseByID[e.CourseID]
		if !ok {
			schedule.Warnings = append(schedule.Warnings, Warning{
				Code:    "UNRESOLVED_COURSE",
				Message: fmt.Sprintf("Enrollment references unknown course %s", e.CourseID),
			})
			continue
		}

		start, ok := monthByID[e.StartingMonthID]
		if !ok || start.CourseID != course.ID {
			schedule.Warnings = append(schedule.Warnings, Warning{
				Code:    "UNRESOLVED_STARTING_MONTH",
				Message: fmt.Sprintf("Enrollment in course %q references unknown starting month %s", course.Name, e.StartingMonthID),
			})
			continue
		}

		endNumber := -1
		if e.EndingMonthID != nil {
			end, ok := monthByID[*e.EndingMonthID]
			if !ok || end.CourseID != course.ID {
				schedule.Warnings = append(schedule.Warnings, Warning{
					Code:    "UNRESOLVED_ENDING_MONTH",
					Message: fmt.Sprintf("Enrollment in course %q references unknown ending month %s; treating enrollment as open-ended", course.Name, *e.EndingMonthID),
				})
			} else {
				endNumber = end.MonthNumber
			}
		}

		courseMonths := make([]academy.Month, len(monthsByCourse[course.ID]))
		copy(courseMonths, monthsByCourse[course.ID])
		sort.SliceStable(courseMonths, func(i, j int) bool {
			if courseMonths[i].MonthNumber != courseMonths[j].MonthNumber {
				return courseMonths[i].MonthNumber < courseMonths[j].MonthNumber
			}
			return courseMonths[i].ID.String() < courseMonths[j].ID.String()
		})

		cs := CourseSchedule{CourseID: course.ID, CourseName: course.Name}
		for _, m := range courseMonths {
			if m.MonthNumber < start.MonthNumber {
				continue
			}
			if endNumber >= 0 && m.MonthNumber > endNumber {
				continue
			}
			cs.Months = append(cs.Months, ScheduledMonth{
				MonthID:     m.ID,
				CourseID:    course.ID,
				MonthName:   m.Name,
				CourseName:  course.Name,
				MonthNumber: m.MonthNumber,
				Fee:         m.Fee,
			})
		}

		schedule.Courses = append(schedule.Courses, cs)
	}

	return schedule
}
