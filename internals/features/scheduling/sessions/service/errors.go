// file: internals/features/scheduling/sessions/service/errors.go
package service

import (
	"errors"
	"fmt"
	"strings"

	"acainfo_backend/internals/features/scheduling/sessions/model"
)

var ErrSessionNotFound = errors.New("session not found")

// InvalidSessionStateError: an illegal lifecycle transition was requested.
type InvalidSessionStateError struct {
	Current   model.SessionStatus
	Operation string
}

func (e *InvalidSessionStateError) Error() string {
	return fmt.Sprintf("cannot %s a session in status %q", e.Operation, e.Current)
}

// SessionConflictError: the slot requested for a postponed/extra session
// overlaps existing sessions.
type SessionConflictError struct {
	Reason    string
	Conflicts []model.SessionModel
}

func (e *SessionConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, s := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s %s-%s (%s)",
			s.SessionDate.Format("2006-01-02"), s.SessionStartTime, s.SessionEndTime, s.SessionID))
	}
	return fmt.Sprintf("session slot conflict (%s): %s", e.Reason, strings.Join(parts, ", "))
}

// InvalidSessionDataError: malformed session payload (bad range, missing refs).
type InvalidSessionDataError struct {
	Reason string
}

func (e *InvalidSessionDataError) Error() string {
	return "invalid session data: " + e.Reason
}
