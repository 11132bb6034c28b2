// file: internals/features/scheduling/schedules/service/errors.go
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/schedules/model"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// InvalidScheduleDataError: malformed slot data (bad time range, unknown room...).
type InvalidScheduleDataError struct {
	Reason string
}

func (e *InvalidScheduleDataError) Error() string {
	return "invalid schedule data: " + e.Reason
}

// ScheduleConflictError: the candidate slot overlaps existing bookings of the
// same classroom on the same day.
type ScheduleConflictError struct {
	Classroom groupModel.Classroom
	DayOfWeek int
	Conflicts []model.ScheduleModel
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("classroom %s is already booked on day %d: %s",
		e.Classroom, e.DayOfWeek, describeSlots(e.Conflicts))
}

// TeacherScheduleConflictError: the group's teacher already teaches an
// overlapping slot.
type TeacherScheduleConflictError struct {
	TeacherID uuid.UUID
	DayOfWeek int
	Conflicts []model.ScheduleModel
}

func (e *TeacherScheduleConflictError) Error() string {
	return fmt.Sprintf("teacher %s already teaches on day %d: %s",
		e.TeacherID, e.DayOfWeek, describeSlots(e.Conflicts))
}

func describeSlots(slots []model.ScheduleModel) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, fmt.Sprintf("%s-%s (%s)",
			s.ScheduleStartTime, s.ScheduleEndTime, s.ScheduleID))
	}
	return strings.Join(parts, ", ")
}
