// file: internals/features/scheduling/schedules/service/schedule_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/schedules/model"
	helper "acainfo_backend/internals/helpers"
	"acainfo_backend/internals/helpers/timeslot"
)

/* =========================
   Service & Constructor
========================= */

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{DB: db} }

/* =========================
   Inputs
========================= */

type CreateInput struct {
	GroupID   uuid.UUID
	DayOfWeek int
	StartTime string
	EndTime   string
	Classroom groupModel.Classroom
}

type UpdateInput struct {
	DayOfWeek *int
	StartTime *string
	EndTime   *string
	Classroom *groupModel.Classroom
}

/* =========================
   Operations
========================= */

// Create validates the slot, runs the global conflict checks and persists the
// schedule. Check-then-insert happens inside one transaction; the exclusion
// constraint in the schema is the backstop for concurrent writers.
func (s *Service) Create(in CreateInput) (*model.ScheduleModel, error) {
	if err := validateSlot(in.DayOfWeek, in.StartTime, in.EndTime, in.Classroom); err != nil {
		return nil, err
	}

	var created model.ScheduleModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		grp, err := loadGroup(tx, in.GroupID)
		if err != nil {
			return err
		}

		cand := model.ScheduleModel{
			ScheduleGroupID:   in.GroupID,
			ScheduleDayOfWeek: in.DayOfWeek,
			ScheduleStartTime: in.StartTime,
			ScheduleEndTime:   in.EndTime,
			ScheduleClassroom: in.Classroom,
		}
		if err := s.checkConflicts(tx, &cand, grp, uuid.Nil); err != nil {
			return err
		}

		if err := tx.Create(&cand).Error; err != nil {
			return translateStoreErr(err, &cand)
		}
		created = cand
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial change and re-runs the conflict checks, excluding
// the schedule being updated from the search.
func (s *Service) Update(id uuid.UUID, in UpdateInput) (*model.ScheduleModel, error) {
	var updated model.ScheduleModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.ScheduleModel
		if err := tx.First(&existing, "schedule_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}

		if in.DayOfWeek != nil {
			existing.ScheduleDayOfWeek = *in.DayOfWeek
		}
		if in.StartTime != nil {
			existing.ScheduleStartTime = *in.StartTime
		}
		if in.EndTime != nil {
			existing.ScheduleEndTime = *in.EndTime
		}
		if in.Classroom != nil {
			existing.ScheduleClassroom = *in.Classroom
		}

		if err := validateSlot(existing.ScheduleDayOfWeek, existing.ScheduleStartTime,
			existing.ScheduleEndTime, existing.ScheduleClassroom); err != nil {
			return err
		}

		grp, err := loadGroup(tx, existing.ScheduleGroupID)
		if err != nil {
			return err
		}
		if err := s.checkConflicts(tx, &existing, grp, existing.ScheduleID); err != nil {
			return err
		}

		if err := tx.Save(&existing).Error; err != nil {
			return translateStoreErr(err, &existing)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete soft-deletes a schedule. Sessions already generated from it stay.
func (s *Service) Delete(id uuid.UUID) (*model.ScheduleModel, error) {
	var existing model.ScheduleModel
	if err := s.DB.First(&existing, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if err := s.DB.Delete(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Service) ListByGroup(groupID uuid.UUID) ([]model.ScheduleModel, error) {
	var out []model.ScheduleModel
	err := s.DB.
		Where("schedule_group_id = ?", groupID).
		Order("schedule_day_of_week, schedule_start_time").
		Find(&out).Error
	return out, err
}

func (s *Service) GetByID(id uuid.UUID) (*model.ScheduleModel, error) {
	var out model.ScheduleModel
	if err := s.DB.First(&out, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &out, nil
}

/* =========================
   Conflict detection
========================= */

// checkConflicts is the global resource-booking check: classroom first, then
// teacher. Both search ALL live schedules, not just the group's own.
func (s *Service) checkConflicts(tx *gorm.DB, cand *model.ScheduleModel, grp *groupModel.GroupModel, excludeID uuid.UUID) error {
	// 1) Classroom: a physical room can host one group at a time.
	if !cand.ScheduleClassroom.IsVirtual() {
		var sameRoom []model.ScheduleModel
		q := tx.Where("schedule_classroom = ? AND schedule_day_of_week = ?",
			cand.ScheduleClassroom, cand.ScheduleDayOfWeek)
		if excludeID != uuid.Nil {
			q = q.Where("schedule_id <> ?", excludeID)
		}
		if err := q.Find(&sameRoom).Error; err != nil {
			return err
		}
		conflicts := overlapping(cand, sameRoom)
		if len(conflicts) > 0 {
			return &ScheduleConflictError{
				Classroom: cand.ScheduleClassroom,
				DayOfWeek: cand.ScheduleDayOfWeek,
				Conflicts: conflicts,
			}
		}
	}

	// 2) Teacher: one person cannot teach two overlapping slots, except
	// simultaneous online lectures of the same subject to several groups.
	type slotWithGroup struct {
		model.ScheduleModel
		GroupMode      groupModel.GroupMode `gorm:"column:group_mode"`
		GroupSubjectID uuid.UUID            `gorm:"column:group_subject_id"`
	}
	var sameTeacher []slotWithGroup
	q := tx.Model(&model.ScheduleModel{}).
		Select("schedules.*, groups.group_mode, groups.group_subject_id").
		Joins("JOIN groups ON groups.group_id = schedules.schedule_group_id AND groups.group_deleted_at IS NULL").
		Where("groups.group_teacher_id = ? AND schedules.schedule_day_of_week = ?",
			grp.GroupTeacherID, cand.ScheduleDayOfWeek)
	if excludeID != uuid.Nil {
		q = q.Where("schedules.schedule_id <> ?", excludeID)
	}
	if err := q.Scan(&sameTeacher).Error; err != nil {
		return err
	}

	candOnline := grp.GroupMode == groupModel.GroupModeOnline
	var conflicts []model.ScheduleModel
	for _, other := range sameTeacher {
		if !timeslot.Overlaps(cand.ScheduleStartTime, cand.ScheduleEndTime,
			other.ScheduleStartTime, other.ScheduleEndTime) {
			continue
		}
		// carve-out: both online, same subject
		if candOnline && other.GroupMode == groupModel.GroupModeOnline &&
			other.GroupSubjectID == grp.GroupSubjectID {
			continue
		}
		conflicts = append(conflicts, other.ScheduleModel)
	}
	if len(conflicts) > 0 {
		return &TeacherScheduleConflictError{
			TeacherID: grp.GroupTeacherID,
			DayOfWeek: cand.ScheduleDayOfWeek,
			Conflicts: conflicts,
		}
	}
	return nil
}

func overlapping(cand *model.ScheduleModel, others []model.ScheduleModel) []model.ScheduleModel {
	var out []model.ScheduleModel
	for _, o := range others {
		if timeslot.Overlaps(cand.ScheduleStartTime, cand.ScheduleEndTime,
			o.ScheduleStartTime, o.ScheduleEndTime) {
			out = append(out, o)
		}
	}
	return out
}

/* =========================
   Helpers
========================= */

func validateSlot(day int, start, end string, room groupModel.Classroom) error {
	if day < 1 || day > 7 {
		return &InvalidScheduleDataError{Reason: "day_of_week must be 1..7"}
	}
	if !timeslot.ValidRange(start, end) {
		return &InvalidScheduleDataError{Reason: "start_time must be before end_time (HH:MM)"}
	}
	if !room.Valid() {
		return &InvalidScheduleDataError{Reason: "unknown classroom " + string(room)}
	}
	return nil
}

func loadGroup(tx *gorm.DB, id uuid.UUID) (*groupModel.GroupModel, error) {
	var grp groupModel.GroupModel
	if err := tx.First(&grp, "group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &InvalidScheduleDataError{Reason: "group not found"}
		}
		return nil, err
	}
	return &grp, nil
}

// translateStoreErr turns constraint violations that slip past the in-transaction
// check (concurrent writers) into the matching domain error.
func translateStoreErr(err error, cand *model.ScheduleModel) error {
	if helper.IsExclusionViolation(err) || helper.IsUniqueViolation(err) {
		return &ScheduleConflictError{
			Classroom: cand.ScheduleClassroom,
			DayOfWeek: cand.ScheduleDayOfWeek,
		}
	}
	return err
}
