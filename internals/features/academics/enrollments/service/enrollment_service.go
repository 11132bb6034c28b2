// file: internals/features/academics/enrollments/service/enrollment_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"acainfo_backend/internals/features/academics/enrollments/model"
	groupModel "acainfo_backend/internals/features/academics/groups/model"
	reservationModel "acainfo_backend/internals/features/scheduling/reservations/model"
	reservationService "acainfo_backend/internals/features/scheduling/reservations/service"
	sessionModel "acainfo_backend/internals/features/scheduling/sessions/model"
	helper "acainfo_backend/internals/helpers"
	"acainfo_backend/internals/helpers/timeslot"
)

/* =========================
   Errors
========================= */

var ErrEnrollmentNotFound = errors.New("enrollment not found")

type EnrollmentAlreadyExistsError struct {
	StudentID uuid.UUID
	GroupID   uuid.UUID
}

func (e *EnrollmentAlreadyExistsError) Error() string {
	return fmt.Sprintf("student %s already has an enrollment in group %s", e.StudentID, e.GroupID)
}

type GroupFullError struct {
	GroupID  uuid.UUID
	Capacity int
}

func (e *GroupFullError) Error() string {
	return fmt.Sprintf("group %s is full (%d seats)", e.GroupID, e.Capacity)
}

type InvalidEnrollmentStateError struct {
	Current model.EnrollmentStatus
	Op      string
}

func (e *InvalidEnrollmentStateError) Error() string {
	return fmt.Sprintf("cannot %s an enrollment in status %q", e.Op, e.Current)
}

/* =========================
   Service & Constructor
========================= */

type Service struct {
	DB           *gorm.DB
	Reservations *reservationService.Service
	Now          func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{
		DB:           db,
		Reservations: reservationService.New(db),
		Now:          time.Now,
	}
}

/* =========================
   Operations
========================= */

// Request files a pending enrollment of a student into a group.
func (s *Service) Request(studentID, groupID uuid.UUID) (*model.EnrollmentModel, error) {
	var created model.EnrollmentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var grp groupModel.GroupModel
		if err := tx.First(&grp, "group_id = ? AND group_is_active = ?", groupID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("group not found or inactive")
			}
			return err
		}

		var dup int64
		if err := tx.Model(&model.EnrollmentModel{}).
			Where("enrollment_student_id = ? AND enrollment_group_id = ? AND enrollment_status IN ?",
				studentID, groupID, []model.EnrollmentStatus{model.EnrollmentPending, model.EnrollmentApproved}).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return &EnrollmentAlreadyExistsError{StudentID: studentID, GroupID: groupID}
		}

		enr := model.EnrollmentModel{
			EnrollmentStudentID: studentID,
			EnrollmentGroupID:   groupID,
			EnrollmentStatus:    model.EnrollmentPending,
		}
		if err := tx.Create(&enr).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return &EnrollmentAlreadyExistsError{StudentID: studentID, GroupID: groupID}
			}
			return err
		}
		created = enr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve accepts a pending enrollment, checks the group's seat ceiling and
// seats the student on all of the group's future scheduled sessions, in one
// transaction.
func (s *Service) Approve(id, deciderID uuid.UUID) (*model.EnrollmentModel, error) {
	return s.decide(id, deciderID, "approve", func(tx *gorm.DB, enr *model.EnrollmentModel, grp *groupModel.GroupModel) error {
		// dual groups enroll past the room: the overflow watches the stream
		if capacity := grp.EffectiveCapacity(); capacity > 0 && grp.GroupMode != groupModel.GroupModeDual {
			var approved int64
			if err := tx.Model(&model.EnrollmentModel{}).
				Where("enrollment_group_id = ? AND enrollment_status = ?",
					grp.GroupID, model.EnrollmentApproved).
				Count(&approved).Error; err != nil {
				return err
			}
			if approved >= int64(capacity) {
				return &GroupFullError{GroupID: grp.GroupID, Capacity: capacity}
			}
		}

		enr.EnrollmentStatus = model.EnrollmentApproved
		if err := tx.Save(enr).Error; err != nil {
			return err
		}
		return s.reserveFutureSessions(tx, enr, grp)
	})
}

// Reject declines a pending enrollment.
func (s *Service) Reject(id, deciderID uuid.UUID) (*model.EnrollmentModel, error) {
	return s.decide(id, deciderID, "reject", func(tx *gorm.DB, enr *model.EnrollmentModel, grp *groupModel.GroupModel) error {
		enr.EnrollmentStatus = model.EnrollmentRejected
		return tx.Save(enr).Error
	})
}

// CancelOwn lets a student withdraw a pending or approved enrollment.
func (s *Service) CancelOwn(id, studentID uuid.UUID) (*model.EnrollmentModel, error) {
	var out model.EnrollmentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enr model.EnrollmentModel
		if err := tx.First(&enr, "enrollment_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		if enr.EnrollmentStudentID != studentID {
			return ErrEnrollmentNotFound
		}
		if enr.EnrollmentStatus != model.EnrollmentPending && enr.EnrollmentStatus != model.EnrollmentApproved {
			return &InvalidEnrollmentStateError{Current: enr.EnrollmentStatus, Op: "cancel"}
		}
		enr.EnrollmentStatus = model.EnrollmentCancelled
		if err := tx.Save(&enr).Error; err != nil {
			return err
		}
		out = enr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) ListByStudent(studentID uuid.UUID) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	err := s.DB.
		Where("enrollment_student_id = ?", studentID).
		Order("enrollment_requested_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByGroup(groupID uuid.UUID) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	err := s.DB.
		Where("enrollment_group_id = ?", groupID).
		Order("enrollment_requested_at").
		Find(&out).Error
	return out, err
}

/* =========================
   Internals
========================= */

func (s *Service) decide(id, deciderID uuid.UUID, op string,
	apply func(tx *gorm.DB, enr *model.EnrollmentModel, grp *groupModel.GroupModel) error) (*model.EnrollmentModel, error) {

	var out model.EnrollmentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enr model.EnrollmentModel
		if err := helper.LockForUpdate(tx).First(&enr, "enrollment_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		if enr.EnrollmentStatus != model.EnrollmentPending {
			return &InvalidEnrollmentStateError{Current: enr.EnrollmentStatus, Op: op}
		}
		var grp groupModel.GroupModel
		if err := tx.First(&grp, "group_id = ?", enr.EnrollmentGroupID).Error; err != nil {
			return err
		}

		now := s.Now()
		enr.EnrollmentDecidedAt = &now
		enr.EnrollmentDecidedBy = &deciderID
		if err := apply(tx, &enr, &grp); err != nil {
			return err
		}
		out = enr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// reserveFutureSessions seats a newly approved student on every scheduled
// future session of the group. A full session is skipped for in-person groups
// and overflows to online for dual groups; the student can still switch later.
func (s *Service) reserveFutureSessions(tx *gorm.DB, enr *model.EnrollmentModel, grp *groupModel.GroupModel) error {
	today := timeslot.DateOnly(s.Now())
	var sessions []sessionModel.SessionModel
	if err := tx.
		Where("session_group_id = ? AND session_status = ? AND session_date >= ?",
			grp.GroupID, sessionModel.SessionScheduled, today).
		Order("session_date").
		Find(&sessions).Error; err != nil {
		return err
	}

	mode := reservationModel.ReservationModeInPerson
	if grp.GroupMode == groupModel.GroupModeOnline {
		mode = reservationModel.ReservationModeOnline
	}

	for i := range sessions {
		_, err := s.Reservations.CreateTx(tx, reservationService.CreateInput{
			StudentID:    enr.EnrollmentStudentID,
			SessionID:    sessions[i].SessionID,
			EnrollmentID: enr.EnrollmentID,
			Mode:         mode,
		})
		if err == nil {
			continue
		}
		var full *reservationService.SessionFullError
		if errors.As(err, &full) {
			if grp.GroupMode == groupModel.GroupModeDual {
				if _, oerr := s.Reservations.CreateTx(tx, reservationService.CreateInput{
					StudentID:    enr.EnrollmentStudentID,
					SessionID:    sessions[i].SessionID,
					EnrollmentID: enr.EnrollmentID,
					Mode:         reservationModel.ReservationModeOnline,
				}); oerr != nil && !isDomainSkip(oerr) {
					return oerr
				}
			}
			continue
		}
		if isDomainSkip(err) {
			continue
		}
		return err
	}
	return nil
}

// isDomainSkip filters the reservation failures that should not abort an
// approval (duplicate seat from an earlier enrollment etc).
func isDomainSkip(err error) bool {
	var dup *reservationService.ReservationAlreadyExistsError
	var subj *reservationService.SubjectReservationAlreadyExistsError
	return errors.As(err, &dup) || errors.As(err, &subj)
}
