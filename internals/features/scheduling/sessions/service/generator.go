// file: internals/features/scheduling/sessions/service/generator.go
package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "acainfo_backend/internals/features/academics/enrollments/model"
	groupModel "acainfo_backend/internals/features/academics/groups/model"
	reservationModel "acainfo_backend/internals/features/scheduling/reservations/model"
	scheduleModel "acainfo_backend/internals/features/scheduling/schedules/model"
	"acainfo_backend/internals/features/scheduling/sessions/model"
	helper "acainfo_backend/internals/helpers"
	"acainfo_backend/internals/helpers/timeslot"
)

/* =========================
   Service & Constructor
========================= */

// Notifier delivers fire-and-forget messages about session changes
// (postponement, cancellation). The default just logs.
type Notifier func(event string, sess *model.SessionModel)

type Service struct {
	DB     *gorm.DB
	Notify Notifier
	Now    func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{
		DB: db,
		Notify: func(event string, sess *model.SessionModel) {
			log.Printf("[NOTIFY] %s session=%s date=%s", event, sess.SessionID,
				sess.SessionDate.Format("2006-01-02"))
		},
		Now: time.Now,
	}
}

/* =========================
   Generator
========================= */

// Generate expands every schedule in scope into dated REGULAR sessions over
// [from, to] and persists the ones that do not exist yet. Re-running for an
// overlapping range is a no-op for dates already generated: the (schedule,
// date) existence check carries the idempotency, the unique index is the
// backstop for concurrent runs.
//
// Newly inserted sessions get confirmed reservations for the group's approved
// enrollments, bounded by the group's seat capacity.
func (s *Service) Generate(groupID *uuid.UUID, from, to time.Time) ([]model.SessionModel, error) {
	var created []model.SessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cands, groups, err := s.expand(tx, groupID, from, to)
		if err != nil {
			return err
		}
		for i := range cands {
			if err := tx.Create(&cands[i]).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					// a concurrent run inserted this (schedule, date) first
					continue
				}
				return err
			}
			grp := groups[*cands[i].SessionGroupID]
			if err := s.reserveForEnrolled(tx, &cands[i], grp); err != nil {
				return err
			}
			created = append(created, cands[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Preview runs the same expansion without persisting anything.
func (s *Service) Preview(groupID *uuid.UUID, from, to time.Time) ([]model.SessionModel, error) {
	cands, _, err := s.expand(s.DB, groupID, from, to)
	return cands, err
}

// expand walks the calendar and synthesizes candidates that do not already
// exist as live sessions.
func (s *Service) expand(tx *gorm.DB, groupID *uuid.UUID, from, to time.Time) ([]model.SessionModel, map[uuid.UUID]*groupModel.GroupModel, error) {
	from = timeslot.DateOnly(from)
	to = timeslot.DateOnly(to)
	if to.Before(from) {
		return nil, nil, &InvalidSessionDataError{Reason: "end date before start date"}
	}

	// Schedules in scope: one group, or every active group.
	schedQ := tx.Model(&scheduleModel.ScheduleModel{}).
		Joins("JOIN groups ON groups.group_id = schedules.schedule_group_id AND groups.group_deleted_at IS NULL").
		Where("groups.group_is_active = ?", true)
	if groupID != nil {
		schedQ = schedQ.Where("schedules.schedule_group_id = ?", *groupID)
	}
	var scheds []scheduleModel.ScheduleModel
	if err := schedQ.Find(&scheds).Error; err != nil {
		return nil, nil, err
	}
	if len(scheds) == 0 {
		return nil, map[uuid.UUID]*groupModel.GroupModel{}, nil
	}

	schedIDs := make([]uuid.UUID, 0, len(scheds))
	groupIDs := make([]uuid.UUID, 0, len(scheds))
	for _, sc := range scheds {
		schedIDs = append(schedIDs, sc.ScheduleID)
		groupIDs = append(groupIDs, sc.ScheduleGroupID)
	}

	groups, err := loadGroups(tx, groupIDs)
	if err != nil {
		return nil, nil, err
	}

	// Existing live sessions keyed by (schedule, date).
	var existing []model.SessionModel
	if err := tx.
		Where("session_schedule_id IN ?", schedIDs).
		Where("session_date >= ? AND session_date <= ?", from, to).
		Find(&existing).Error; err != nil {
		return nil, nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.SessionScheduleID.String()+"|"+timeslot.DateKey(e.SessionDate)] = struct{}{}
	}

	var cands []model.SessionModel
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		wd := timeslot.ISOWeekday(day)
		for i := range scheds {
			sc := &scheds[i]
			if sc.ScheduleDayOfWeek != wd {
				continue
			}
			if _, dup := seen[sc.ScheduleID.String()+"|"+timeslot.DateKey(day)]; dup {
				continue
			}
			grp := groups[sc.ScheduleGroupID]
			if grp == nil {
				continue
			}
			schedID := sc.ScheduleID
			gID := sc.ScheduleGroupID
			subjID := grp.GroupSubjectID
			cands = append(cands, model.SessionModel{
				SessionSubjectID:  &subjID,
				SessionGroupID:    &gID,
				SessionScheduleID: &schedID,
				SessionDate:       day,
				SessionStartTime:  sc.ScheduleStartTime,
				SessionEndTime:    sc.ScheduleEndTime,
				SessionClassroom:  sc.ScheduleClassroom,
				SessionStatus:     model.SessionScheduled,
				SessionType:       model.SessionRegular,
				SessionMode:       sessionModeFor(grp.GroupMode),
			})
		}
	}
	return cands, groups, nil
}

// reserveForEnrolled seats the group's approved students on a fresh session.
// In-person seats fill up to capacity; dual groups overflow to online, pure
// in-person groups skip the overflow (students reserve manually or switch).
func (s *Service) reserveForEnrolled(tx *gorm.DB, sess *model.SessionModel, grp *groupModel.GroupModel) error {
	if grp == nil {
		return nil
	}
	var enrollments []enrollmentModel.EnrollmentModel
	if err := tx.
		Where("enrollment_group_id = ? AND enrollment_status = ?",
			grp.GroupID, enrollmentModel.EnrollmentApproved).
		Order("enrollment_requested_at").
		Find(&enrollments).Error; err != nil {
		return err
	}

	capacity := grp.EffectiveCapacity()
	inPerson := 0
	for _, e := range enrollments {
		mode := reservationModel.ReservationModeInPerson
		switch {
		case grp.GroupMode == groupModel.GroupModeOnline:
			mode = reservationModel.ReservationModeOnline
		case capacity > 0 && inPerson >= capacity:
			if grp.GroupMode != groupModel.GroupModeDual {
				continue
			}
			mode = reservationModel.ReservationModeOnline
		}
		res := reservationModel.ReservationModel{
			ReservationStudentID:    e.EnrollmentStudentID,
			ReservationSessionID:    sess.SessionID,
			ReservationEnrollmentID: e.EnrollmentID,
			ReservationMode:         mode,
			ReservationStatus:       reservationModel.ReservationConfirmed,
		}
		if err := tx.Create(&res).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				continue
			}
			return err
		}
		if mode == reservationModel.ReservationModeInPerson {
			inPerson++
		}
	}
	return nil
}

func sessionModeFor(gm groupModel.GroupMode) model.SessionMode {
	switch gm {
	case groupModel.GroupModeOnline:
		return model.SessionModeOnline
	case groupModel.GroupModeDual:
		return model.SessionModeDual
	default:
		return model.SessionModeInPerson
	}
}

func loadGroups(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*groupModel.GroupModel, error) {
	var rows []groupModel.GroupModel
	if err := tx.Where("group_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*groupModel.GroupModel, len(rows))
	for i := range rows {
		out[rows[i].GroupID] = &rows[i]
	}
	return out, nil
}
