// file: internals/features/scheduling/reservations/service/errors.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotReservationOwner = errors.New("reservation belongs to another student")
	ErrNotSessionTeacher   = errors.New("only the session's teacher or an admin may decide online requests")
)

// ReservationAlreadyExistsError: the student already holds a live reservation
// for this session.
type ReservationAlreadyExistsError struct {
	StudentID uuid.UUID
	SessionID uuid.UUID
}

func (e *ReservationAlreadyExistsError) Error() string {
	return fmt.Sprintf("student %s already has a reservation for session %s", e.StudentID, e.SessionID)
}

// SessionFullError: no in-person seats left.
type SessionFullError struct {
	SessionID uuid.UUID
	Capacity  int
}

func (e *SessionFullError) Error() string {
	return fmt.Sprintf("session %s is full (%d in-person seats)", e.SessionID, e.Capacity)
}

// CrossGroupReservationNotAllowedError: the session's group teaches a different
// subject than the student's enrollment.
type CrossGroupReservationNotAllowedError struct {
	EnrollmentID uuid.UUID
	SessionID    uuid.UUID
}

func (e *CrossGroupReservationNotAllowedError) Error() string {
	return fmt.Sprintf("enrollment %s does not cover the subject of session %s", e.EnrollmentID, e.SessionID)
}

// SubjectReservationAlreadyExistsError: the student already attends another
// session of the same subject that day; switching is the supported flow.
type SubjectReservationAlreadyExistsError struct {
	SubjectID uuid.UUID
	Date      time.Time
}

func (e *SubjectReservationAlreadyExistsError) Error() string {
	return fmt.Sprintf("student already has a reservation for subject %s on %s; use session switch instead",
		e.SubjectID, e.Date.Format("2006-01-02"))
}

// OnlineRequestTooLateError: the 6-hour cutoff before session start has passed.
type OnlineRequestTooLateError struct {
	Deadline time.Time
}

func (e *OnlineRequestTooLateError) Error() string {
	return fmt.Sprintf("online attendance must be requested at least 6h before the session (deadline was %s)",
		e.Deadline.Format(time.RFC3339))
}

// OnlineRequestAlreadyExistsError: a request was already filed for this reservation.
type OnlineRequestAlreadyExistsError struct {
	ReservationID uuid.UUID
}

func (e *OnlineRequestAlreadyExistsError) Error() string {
	return fmt.Sprintf("an online attendance request already exists for reservation %s", e.ReservationID)
}

// AttendanceAlreadyRecordedError: attendance is written exactly once.
type AttendanceAlreadyRecordedError struct {
	ReservationID uuid.UUID
}

func (e *AttendanceAlreadyRecordedError) Error() string {
	return fmt.Sprintf("attendance already recorded for reservation %s", e.ReservationID)
}

// InvalidReservationStateError: the operation is not legal for the
// reservation's current state.
type InvalidReservationStateError struct {
	Reason string
}

func (e *InvalidReservationStateError) Error() string {
	return "invalid reservation state: " + e.Reason
}
