// file: internals/features/scheduling/sessions/service/lifecycle.go
package service

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/sessions/model"
	helper "acainfo_backend/internals/helpers"
	"acainfo_backend/internals/helpers/timeslot"
)

/* =========================
   Lifecycle state machine

   scheduled → in_progress → completed
   scheduled → cancelled
   scheduled → postponed (spawns a replacement scheduled session)
   completed / cancelled / postponed are terminal.
========================= */

// Start moves a scheduled session to in_progress.
func (s *Service) Start(id uuid.UUID) (*model.SessionModel, error) {
	return s.transition(id, "start", model.SessionScheduled, func(tx *gorm.DB, sess *model.SessionModel) error {
		sess.SessionStatus = model.SessionInProgress
		return nil
	})
}

// Complete closes an in_progress session, recording the topics covered.
func (s *Service) Complete(id uuid.UUID, topics []string) (*model.SessionModel, error) {
	return s.transition(id, "complete", model.SessionInProgress, func(tx *gorm.DB, sess *model.SessionModel) error {
		sess.SessionStatus = model.SessionCompleted
		if len(topics) > 0 {
			raw, err := json.Marshal(topics)
			if err != nil {
				return err
			}
			sess.SessionTopicsCovered = raw
		}
		return nil
	})
}

// Cancel aborts a scheduled session; the reason is mandatory.
func (s *Service) Cancel(id uuid.UUID, reason string) (*model.SessionModel, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &InvalidSessionDataError{Reason: "cancellation reason is required"}
	}
	sess, err := s.transition(id, "cancel", model.SessionScheduled, func(tx *gorm.DB, sess *model.SessionModel) error {
		sess.SessionStatus = model.SessionCancelled
		sess.SessionCancelReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Notify("session.cancelled", sess)
	return sess, nil
}

type PostponeInput struct {
	NewDate      time.Time
	NewStartTime *string
	NewEndTime   *string
	NewClassroom *groupModel.Classroom
	NewMode      *model.SessionMode
}

// Postpone marks a scheduled session postponed and creates its replacement at
// the new slot, copying classroom/mode unless overridden. The new slot goes
// through the same classroom/teacher overlap check, run against live sessions.
func (s *Service) Postpone(id uuid.UUID, in PostponeInput) (orig *model.SessionModel, repl *model.SessionModel, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		sess, lerr := lockSession(tx, id)
		if lerr != nil {
			return lerr
		}
		if sess.SessionStatus != model.SessionScheduled {
			return &InvalidSessionStateError{Current: sess.SessionStatus, Operation: "postpone"}
		}

		next := *sess
		next.SessionID = uuid.Nil
		next.SessionDate = timeslot.DateOnly(in.NewDate)
		next.SessionStatus = model.SessionScheduled
		next.SessionPostponedToID = nil
		next.SessionTopicsCovered = nil
		next.SessionCancelReason = nil
		next.SessionCreatedAt = time.Time{}
		next.SessionUpdatedAt = time.Time{}
		if in.NewStartTime != nil {
			next.SessionStartTime = *in.NewStartTime
		}
		if in.NewEndTime != nil {
			next.SessionEndTime = *in.NewEndTime
		}
		if in.NewClassroom != nil {
			next.SessionClassroom = *in.NewClassroom
		}
		if in.NewMode != nil {
			next.SessionMode = *in.NewMode
		}
		if !timeslot.ValidRange(next.SessionStartTime, next.SessionEndTime) {
			return &InvalidSessionDataError{Reason: "start_time must be before end_time (HH:MM)"}
		}
		// a replacement generated from a schedule would collide with the
		// (schedule, date) unique index on the next generator run; it is an
		// ad-hoc slot from here on
		next.SessionScheduleID = nil
		if next.SessionType == model.SessionRegular {
			next.SessionType = model.SessionExtra
		}

		if cerr := s.checkSessionConflicts(tx, &next, sess.SessionID); cerr != nil {
			return cerr
		}

		if cerr := tx.Create(&next).Error; cerr != nil {
			if helper.IsExclusionViolation(cerr) || helper.IsUniqueViolation(cerr) {
				return &SessionConflictError{Reason: "slot taken"}
			}
			return cerr
		}

		sess.SessionStatus = model.SessionPostponed
		sess.SessionPostponedToID = &next.SessionID
		if cerr := tx.Save(sess).Error; cerr != nil {
			return cerr
		}

		orig, repl = sess, &next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.Notify("session.postponed", orig)
	return orig, repl, nil
}

/* =========================
   Ad-hoc session creation
========================= */

type CreateExtraInput struct {
	GroupID   uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
	Classroom *groupModel.Classroom // defaults to the group's room
	Mode      *model.SessionMode    // defaults to the group's mode
}

// CreateExtra creates an ad-hoc session for a group, conflict-checked like a
// generated one.
func (s *Service) CreateExtra(in CreateExtraInput) (*model.SessionModel, error) {
	if !timeslot.ValidRange(in.StartTime, in.EndTime) {
		return nil, &InvalidSessionDataError{Reason: "start_time must be before end_time (HH:MM)"}
	}
	var created model.SessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var grp groupModel.GroupModel
		if err := tx.First(&grp, "group_id = ?", in.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &InvalidSessionDataError{Reason: "group not found"}
			}
			return err
		}

		gID := grp.GroupID
		subjID := grp.GroupSubjectID
		sess := model.SessionModel{
			SessionSubjectID: &subjID,
			SessionGroupID:   &gID,
			SessionDate:      timeslot.DateOnly(in.Date),
			SessionStartTime: in.StartTime,
			SessionEndTime:   in.EndTime,
			SessionClassroom: grp.GroupClassroom,
			SessionStatus:    model.SessionScheduled,
			SessionType:      model.SessionExtra,
			SessionMode:      sessionModeFor(grp.GroupMode),
		}
		if in.Classroom != nil {
			sess.SessionClassroom = *in.Classroom
		}
		if in.Mode != nil {
			sess.SessionMode = *in.Mode
		}
		if err := sess.ValidateShape(); err != nil {
			return &InvalidSessionDataError{Reason: err.Error()}
		}
		if err := s.checkSessionConflicts(tx, &sess, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&sess).Error; err != nil {
			return err
		}
		created = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

type CreateSchedulingInput struct {
	SubjectID uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
}

// CreateScheduling creates a subject-level one-off online meeting (no group).
func (s *Service) CreateScheduling(in CreateSchedulingInput) (*model.SessionModel, error) {
	if !timeslot.ValidRange(in.StartTime, in.EndTime) {
		return nil, &InvalidSessionDataError{Reason: "start_time must be before end_time (HH:MM)"}
	}
	subjID := in.SubjectID
	sess := model.SessionModel{
		SessionSubjectID: &subjID,
		SessionDate:      timeslot.DateOnly(in.Date),
		SessionStartTime: in.StartTime,
		SessionEndTime:   in.EndTime,
		SessionClassroom: groupModel.ClassroomOnline,
		SessionStatus:    model.SessionScheduled,
		SessionType:      model.SessionScheduling,
		SessionMode:      model.SessionModeOnline,
	}
	if err := sess.ValidateShape(); err != nil {
		return nil, &InvalidSessionDataError{Reason: err.Error()}
	}
	if err := s.DB.Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) GetByID(id uuid.UUID) (*model.SessionModel, error) {
	var sess model.SessionModel
	if err := s.DB.First(&sess, "session_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

/* =========================
   Internals
========================= */

// transition runs one guarded state change under a row lock.
func (s *Service) transition(id uuid.UUID, op string, want model.SessionStatus,
	apply func(tx *gorm.DB, sess *model.SessionModel) error) (*model.SessionModel, error) {

	var out *model.SessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, id)
		if err != nil {
			return err
		}
		if sess.SessionStatus != want {
			return &InvalidSessionStateError{Current: sess.SessionStatus, Operation: op}
		}
		if err := apply(tx, sess); err != nil {
			return err
		}
		if err := tx.Save(sess).Error; err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkSessionConflicts mirrors the schedule conflict logic, run against live
// dated sessions: same classroom + same date overlap, then same teacher with
// the online-same-subject carve-out. Cancelled and postponed sessions release
// their slot.
func (s *Service) checkSessionConflicts(tx *gorm.DB, cand *model.SessionModel, excludeID uuid.UUID) error {
	activeStatuses := []model.SessionStatus{model.SessionScheduled, model.SessionInProgress}

	// 1) Classroom
	if !cand.SessionClassroom.IsVirtual() {
		var sameRoom []model.SessionModel
		q := tx.Where("session_classroom = ? AND session_date = ? AND session_status IN ?",
			cand.SessionClassroom, cand.SessionDate, activeStatuses)
		if excludeID != uuid.Nil {
			q = q.Where("session_id <> ?", excludeID)
		}
		if err := q.Find(&sameRoom).Error; err != nil {
			return err
		}
		if conflicts := overlappingSessions(cand, sameRoom); len(conflicts) > 0 {
			return &SessionConflictError{Reason: "classroom " + string(cand.SessionClassroom), Conflicts: conflicts}
		}
	}

	// 2) Teacher (only when the candidate belongs to a group)
	if cand.SessionGroupID == nil {
		return nil
	}
	var grp groupModel.GroupModel
	if err := tx.First(&grp, "group_id = ?", *cand.SessionGroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &InvalidSessionDataError{Reason: "group not found"}
		}
		return err
	}

	type sessWithGroup struct {
		model.SessionModel
		GroupMode      groupModel.GroupMode `gorm:"column:group_mode"`
		GroupSubjectID uuid.UUID            `gorm:"column:group_subject_id"`
	}
	var sameTeacher []sessWithGroup
	q := tx.Model(&model.SessionModel{}).
		Select("sessions.*, groups.group_mode, groups.group_subject_id").
		Joins("JOIN groups ON groups.group_id = sessions.session_group_id AND groups.group_deleted_at IS NULL").
		Where("groups.group_teacher_id = ? AND sessions.session_date = ? AND sessions.session_status IN ?",
			grp.GroupTeacherID, cand.SessionDate, activeStatuses)
	if excludeID != uuid.Nil {
		q = q.Where("sessions.session_id <> ?", excludeID)
	}
	if err := q.Scan(&sameTeacher).Error; err != nil {
		return err
	}

	candOnline := cand.SessionMode == model.SessionModeOnline
	var conflicts []model.SessionModel
	for _, other := range sameTeacher {
		if !timeslot.Overlaps(cand.SessionStartTime, cand.SessionEndTime,
			other.SessionStartTime, other.SessionEndTime) {
			continue
		}
		if candOnline && other.SessionMode == model.SessionModeOnline &&
			other.GroupSubjectID == grp.GroupSubjectID {
			continue
		}
		conflicts = append(conflicts, other.SessionModel)
	}
	if len(conflicts) > 0 {
		return &SessionConflictError{Reason: "teacher " + grp.GroupTeacherID.String(), Conflicts: conflicts}
	}
	return nil
}

func overlappingSessions(cand *model.SessionModel, others []model.SessionModel) []model.SessionModel {
	var out []model.SessionModel
	for _, o := range others {
		if timeslot.Overlaps(cand.SessionStartTime, cand.SessionEndTime,
			o.SessionStartTime, o.SessionEndTime) {
			out = append(out, o)
		}
	}
	return out
}

func lockSession(tx *gorm.DB, id uuid.UUID) (*model.SessionModel, error) {
	var sess model.SessionModel
	if err := helper.LockForUpdate(tx).First(&sess, "session_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}
