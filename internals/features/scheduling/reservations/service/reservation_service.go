// file: internals/features/scheduling/reservations/service/reservation_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	enrollmentModel "acainfo_backend/internals/features/academics/enrollments/model"
	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/reservations/model"
	sessionModel "acainfo_backend/internals/features/scheduling/sessions/model"
	sessionService "acainfo_backend/internals/features/scheduling/sessions/service"
	helper "acainfo_backend/internals/helpers"
)

// OnlineRequestCutoff is how long before session start a student may still
// request to attend online.
const OnlineRequestCutoff = 6 * time.Hour

/* =========================
   Service & Constructor
========================= */

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

/* =========================
   Seat claims
========================= */

type CreateInput struct {
	StudentID    uuid.UUID
	SessionID    uuid.UUID
	EnrollmentID uuid.UUID
	Mode         model.ReservationMode
}

// Create claims a seat. The session row is locked for the duration of the
// capacity check so concurrent claims cannot overbook; the partial unique
// index on live (student, session) rows is the backstop for duplicates.
func (s *Service) Create(in CreateInput) (*model.ReservationModel, error) {
	var created model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res, err := s.createLocked(tx, in)
		if err != nil {
			return err
		}
		created = *res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Switch atomically cancels the current reservation and claims a seat on the
// new session, subject to the same capacity and subject checks.
func (s *Service) Switch(studentID, currentReservationID, newSessionID uuid.UUID) (*model.ReservationModel, error) {
	var created model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cur model.ReservationModel
		if err := tx.First(&cur, "reservation_id = ?", currentReservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if cur.ReservationStudentID != studentID {
			return ErrNotReservationOwner
		}
		if cur.ReservationStatus != model.ReservationConfirmed {
			return &InvalidReservationStateError{Reason: "only a confirmed reservation can be switched"}
		}
		if cur.ReservationAttendanceStatus != nil {
			return &InvalidReservationStateError{Reason: "attendance already recorded"}
		}

		cur.ReservationStatus = model.ReservationCancelled
		if err := tx.Save(&cur).Error; err != nil {
			return err
		}

		res, err := s.createLocked(tx, CreateInput{
			StudentID:    studentID,
			SessionID:    newSessionID,
			EnrollmentID: cur.ReservationEnrollmentID,
			Mode:         cur.ReservationMode,
		})
		if err != nil {
			return err
		}
		created = *res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Cancel releases a seat. Only legal while confirmed and before attendance.
func (s *Service) Cancel(reservationID, studentID uuid.UUID) (*model.ReservationModel, error) {
	var out model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res model.ReservationModel
		if err := tx.First(&res, "reservation_id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.ReservationStudentID != studentID {
			return ErrNotReservationOwner
		}
		if res.ReservationStatus != model.ReservationConfirmed {
			return &InvalidReservationStateError{Reason: "reservation is not confirmed"}
		}
		if res.ReservationAttendanceStatus != nil {
			return &InvalidReservationStateError{Reason: "attendance already recorded"}
		}
		res.ReservationStatus = model.ReservationCancelled
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// createLocked runs the full seat-claim rule chain inside the caller's
// transaction, holding a lock on the session row.
func (s *Service) createLocked(tx *gorm.DB, in CreateInput) (*model.ReservationModel, error) {
	var sess sessionModel.SessionModel
	if err := helper.LockForUpdate(tx).First(&sess, "session_id = ?", in.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionService.ErrSessionNotFound
		}
		return nil, err
	}
	if sess.SessionStatus != sessionModel.SessionScheduled {
		return nil, &sessionService.InvalidSessionStateError{Current: sess.SessionStatus, Operation: "reserve"}
	}

	// one live reservation per (student, session)
	var dup int64
	if err := tx.Model(&model.ReservationModel{}).
		Where("reservation_student_id = ? AND reservation_session_id = ? AND reservation_status = ?",
			in.StudentID, in.SessionID, model.ReservationConfirmed).
		Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, &ReservationAlreadyExistsError{StudentID: in.StudentID, SessionID: in.SessionID}
	}

	mode := in.Mode
	var sessGroup *groupModel.GroupModel

	if sess.SessionGroupID != nil {
		var grp groupModel.GroupModel
		if err := tx.First(&grp, "group_id = ?", *sess.SessionGroupID).Error; err != nil {
			return nil, err
		}
		sessGroup = &grp

		enr, err := loadEnrollment(tx, in.EnrollmentID, in.StudentID)
		if err != nil {
			return nil, err
		}

		if enr.EnrollmentGroupID != grp.GroupID {
			var enrGroup groupModel.GroupModel
			if err := tx.First(&enrGroup, "group_id = ?", enr.EnrollmentGroupID).Error; err != nil {
				return nil, err
			}
			if enrGroup.GroupSubjectID != grp.GroupSubjectID {
				return nil, &CrossGroupReservationNotAllowedError{
					EnrollmentID: in.EnrollmentID,
					SessionID:    in.SessionID,
				}
			}
		}

		// one seat per subject and date, whichever group hosts the session.
		// Moving between parallel sessions goes through Switch.
		taken, err := s.hasSubjectReservationOn(tx, in.StudentID, grp.GroupSubjectID, sess.SessionDate, sess.SessionID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &SubjectReservationAlreadyExistsError{
				SubjectID: grp.GroupSubjectID,
				Date:      sess.SessionDate,
			}
		}
	} else {
		// subject-level scheduling meeting: always online, no seat ceiling
		mode = model.ReservationModeOnline
	}

	if mode == model.ReservationModeInPerson {
		if sess.SessionMode == sessionModel.SessionModeOnline {
			return nil, &InvalidReservationStateError{Reason: "session is online only"}
		}
		capacity := 0
		if sessGroup != nil {
			capacity = sessGroup.EffectiveCapacity()
		} else {
			capacity = sess.SessionClassroom.Capacity()
		}
		if capacity > 0 {
			count, err := s.countInPerson(tx, sess.SessionID)
			if err != nil {
				return nil, err
			}
			if count >= int64(capacity) {
				return nil, &SessionFullError{SessionID: sess.SessionID, Capacity: capacity}
			}
		}
	}

	res := model.ReservationModel{
		ReservationStudentID:    in.StudentID,
		ReservationSessionID:    in.SessionID,
		ReservationEnrollmentID: in.EnrollmentID,
		ReservationMode:         mode,
		ReservationStatus:       model.ReservationConfirmed,
	}
	if err := tx.Create(&res).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, &ReservationAlreadyExistsError{StudentID: in.StudentID, SessionID: in.SessionID}
		}
		return nil, err
	}
	return &res, nil
}

/* =========================
   Online-attendance requests
========================= */

// RequestOnline files a student's request to attend an in-person reservation
// online. Allowed until 6h before session start.
func (s *Service) RequestOnline(reservationID, studentID uuid.UUID) (*model.ReservationModel, error) {
	var out model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res model.ReservationModel
		if err := tx.First(&res, "reservation_id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.ReservationStudentID != studentID {
			return ErrNotReservationOwner
		}
		if res.ReservationStatus != model.ReservationConfirmed {
			return &InvalidReservationStateError{Reason: "reservation is not confirmed"}
		}
		if res.ReservationMode != model.ReservationModeInPerson {
			return &InvalidReservationStateError{Reason: "reservation is already online"}
		}
		if res.ReservationOnlineRequestStatus != nil {
			return &OnlineRequestAlreadyExistsError{ReservationID: reservationID}
		}

		var sess sessionModel.SessionModel
		if err := tx.First(&sess, "session_id = ?", res.ReservationSessionID).Error; err != nil {
			return err
		}
		deadline := sess.StartAt().Add(-OnlineRequestCutoff)
		if s.Now().After(deadline) {
			return &OnlineRequestTooLateError{Deadline: deadline}
		}

		now := s.Now()
		pending := model.OnlineRequestPending
		res.ReservationOnlineRequestStatus = &pending
		res.ReservationOnlineRequestedAt = &now
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessOnline lets the session's teacher (or an admin) decide a pending
// request. Approval flips the reservation online, freeing an in-person seat.
func (s *Service) ProcessOnline(reservationID, deciderID uuid.UUID, deciderIsAdmin, approved bool) (*model.ReservationModel, error) {
	var out model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res model.ReservationModel
		if err := tx.First(&res, "reservation_id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.ReservationOnlineRequestStatus == nil ||
			*res.ReservationOnlineRequestStatus != model.OnlineRequestPending {
			return &InvalidReservationStateError{Reason: "no pending online request"}
		}

		if !deciderIsAdmin {
			var sess sessionModel.SessionModel
			if err := tx.First(&sess, "session_id = ?", res.ReservationSessionID).Error; err != nil {
				return err
			}
			if sess.SessionGroupID == nil {
				return ErrNotSessionTeacher
			}
			var grp groupModel.GroupModel
			if err := tx.First(&grp, "group_id = ?", *sess.SessionGroupID).Error; err != nil {
				return err
			}
			if grp.GroupTeacherID != deciderID {
				return ErrNotSessionTeacher
			}
		}

		decision := model.OnlineRequestRejected
		if approved {
			decision = model.OnlineRequestApproved
			res.ReservationMode = model.ReservationModeOnline
		}
		res.ReservationOnlineRequestStatus = &decision
		res.ReservationOnlineDecidedBy = &deciderID
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================
   Attendance
========================= */

// RecordAttendance writes attendance exactly once per reservation. Whether the
// session actually started is the lifecycle's concern; callers pass sessions
// that are in_progress or completed.
func (s *Service) RecordAttendance(reservationID uuid.UUID, status model.AttendanceStatus, recordedBy uuid.UUID) (*model.ReservationModel, error) {
	if !status.Valid() {
		return nil, &InvalidReservationStateError{Reason: "unknown attendance status " + string(status)}
	}
	var out model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res model.ReservationModel
		if err := tx.First(&res, "reservation_id = ?", reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.ReservationStatus != model.ReservationConfirmed {
			return &InvalidReservationStateError{Reason: "reservation is not confirmed"}
		}
		if res.ReservationAttendanceStatus != nil {
			return &AttendanceAlreadyRecordedError{ReservationID: reservationID}
		}
		now := s.Now()
		res.ReservationAttendanceStatus = &status
		res.ReservationAttendanceRecordedBy = &recordedBy
		res.ReservationAttendanceRecordedAt = &now
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type AttendanceItem struct {
	ReservationID uuid.UUID
	Status        model.AttendanceStatus
}

// RecordAttendanceBulk records a whole register in one transaction. The first
// failing item aborts the batch.
func (s *Service) RecordAttendanceBulk(items []AttendanceItem, recordedBy uuid.UUID) ([]model.ReservationModel, error) {
	var out []model.ReservationModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			res, err := s.recordAttendanceTx(tx, it.ReservationID, it.Status, recordedBy)
			if err != nil {
				return err
			}
			out = append(out, *res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) recordAttendanceTx(tx *gorm.DB, reservationID uuid.UUID, status model.AttendanceStatus, recordedBy uuid.UUID) (*model.ReservationModel, error) {
	if !status.Valid() {
		return nil, &InvalidReservationStateError{Reason: "unknown attendance status " + string(status)}
	}
	var res model.ReservationModel
	if err := tx.First(&res, "reservation_id = ?", reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.ReservationStatus != model.ReservationConfirmed {
		return nil, &InvalidReservationStateError{Reason: "reservation is not confirmed"}
	}
	if res.ReservationAttendanceStatus != nil {
		return nil, &AttendanceAlreadyRecordedError{ReservationID: reservationID}
	}
	now := s.Now()
	res.ReservationAttendanceStatus = &status
	res.ReservationAttendanceRecordedBy = &recordedBy
	res.ReservationAttendanceRecordedAt = &now
	if err := tx.Save(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

/* =========================
   Queries
========================= */

// CountInPerson is the session's confirmed in-person headcount.
func (s *Service) CountInPerson(sessionID uuid.UUID) (int64, error) {
	return s.countInPerson(s.DB, sessionID)
}

func (s *Service) countInPerson(tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.ReservationModel{}).
		Where("reservation_session_id = ? AND reservation_status = ? AND reservation_mode = ?",
			sessionID, model.ReservationConfirmed, model.ReservationModeInPerson).
		Count(&n).Error
	return n, err
}

func (s *Service) ListBySession(sessionID uuid.UUID) ([]model.ReservationModel, error) {
	var out []model.ReservationModel
	err := s.DB.
		Where("reservation_session_id = ?", sessionID).
		Order("reservation_created_at").
		Find(&out).Error
	return out, err
}

func (s *Service) ListByStudent(studentID uuid.UUID) ([]model.ReservationModel, error) {
	var out []model.ReservationModel
	err := s.DB.
		Where("reservation_student_id = ?", studentID).
		Order("reservation_created_at DESC").
		Find(&out).Error
	return out, err
}

/* =========================
   Internals
========================= */

func loadEnrollment(tx *gorm.DB, id, studentID uuid.UUID) (*enrollmentModel.EnrollmentModel, error) {
	var enr enrollmentModel.EnrollmentModel
	if err := tx.First(&enr, "enrollment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &InvalidReservationStateError{Reason: "enrollment not found"}
		}
		return nil, err
	}
	if enr.EnrollmentStudentID != studentID {
		return nil, &InvalidReservationStateError{Reason: "enrollment belongs to another student"}
	}
	if enr.EnrollmentStatus != enrollmentModel.EnrollmentApproved {
		return nil, &InvalidReservationStateError{Reason: "enrollment is not approved"}
	}
	return &enr, nil
}

// hasSubjectReservationOn reports whether the student already holds a confirmed
// reservation for another session of the subject on the given date.
func (s *Service) hasSubjectReservationOn(tx *gorm.DB, studentID, subjectID uuid.UUID, date time.Time, excludeSessionID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.ReservationModel{}).
		Joins("JOIN sessions ON sessions.session_id = session_reservations.reservation_session_id AND sessions.session_deleted_at IS NULL").
		Where("session_reservations.reservation_student_id = ?", studentID).
		Where("session_reservations.reservation_status = ?", model.ReservationConfirmed).
		Where("sessions.session_subject_id = ? AND sessions.session_date = ?", subjectID, date).
		Where("sessions.session_id <> ?", excludeSessionID).
		Count(&n).Error
	return n > 0, err
}
