// file: internals/features/scheduling/reservations/service/reservation_service_test.go
package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	enrollmentModel "acainfo_backend/internals/features/academics/enrollments/model"
	groupModel "acainfo_backend/internals/features/academics/groups/model"
	subjectModel "acainfo_backend/internals/features/academics/subjects/model"
	"acainfo_backend/internals/features/scheduling/reservations/model"
	scheduleModel "acainfo_backend/internals/features/scheduling/schedules/model"
	sessionModel "acainfo_backend/internals/features/scheduling/sessions/model"
	sessionService "acainfo_backend/internals/features/scheduling/sessions/service"
	userModel "acainfo_backend/internals/features/users/user/model"
)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&userModel.UserModel{},
		&subjectModel.SubjectModel{},
		&groupModel.GroupModel{},
		&enrollmentModel.EnrollmentModel{},
		&scheduleModel.ScheduleModel{},
		&sessionModel.SessionModel{},
		&model.ReservationModel{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

type fixture struct {
	gdb       *gorm.DB
	subjectID uuid.UUID
	teacherID uuid.UUID
	groupID   uuid.UUID
}

func newFixture(t *testing.T, room groupModel.Classroom, mode groupModel.GroupMode, maxCapacity int) *fixture {
	t.Helper()
	gdb := openTestDB(t)

	subj := subjectModel.SubjectModel{
		SubjectCode: "ALG", SubjectName: "Algebra", SubjectCourseYear: 1, SubjectIsActive: true,
	}
	if err := gdb.Create(&subj).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	teach := userModel.UserModel{
		UserEmail: "teacher@acainfo.es", UserPassword: "x", UserFullName: "Teacher",
		UserRole: "teacher", UserIsActive: true,
	}
	if err := gdb.Create(&teach).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	grp := groupModel.GroupModel{
		GroupSubjectID: subj.SubjectID, GroupTeacherID: teach.UserID,
		GroupName: "Algebra A", GroupClassroom: room, GroupMode: mode,
		GroupMaxCapacity: maxCapacity, GroupIsActive: true,
	}
	if err := gdb.Create(&grp).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return &fixture{gdb: gdb, subjectID: subj.SubjectID, teacherID: teach.UserID, groupID: grp.GroupID}
}

func (f *fixture) addSession(t *testing.T, day time.Time, start, end string, room groupModel.Classroom, mode sessionModel.SessionMode) *sessionModel.SessionModel {
	t.Helper()
	gID := f.groupID
	subjID := f.subjectID
	sess := sessionModel.SessionModel{
		SessionSubjectID: &subjID,
		SessionGroupID:   &gID,
		SessionDate:      day,
		SessionStartTime: start,
		SessionEndTime:   end,
		SessionClassroom: room,
		SessionStatus:    sessionModel.SessionScheduled,
		SessionType:      sessionModel.SessionExtra,
		SessionMode:      mode,
	}
	if err := f.gdb.Create(&sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &sess
}

func (f *fixture) addApprovedStudent(t *testing.T, email string) (studentID, enrollmentID uuid.UUID) {
	t.Helper()
	return f.addApprovedStudentIn(t, email, f.groupID)
}

func (f *fixture) addApprovedStudentIn(t *testing.T, email string, groupID uuid.UUID) (studentID, enrollmentID uuid.UUID) {
	t.Helper()
	u := userModel.UserModel{
		UserEmail: email, UserPassword: "x", UserFullName: "Student",
		UserRole: "student", UserIsActive: true,
	}
	if err := f.gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	e := enrollmentModel.EnrollmentModel{
		EnrollmentStudentID: u.UserID,
		EnrollmentGroupID:   groupID,
		EnrollmentStatus:    enrollmentModel.EnrollmentApproved,
	}
	if err := f.gdb.Create(&e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return u.UserID, e.EnrollmentID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate_CapacityEnforced(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula5, groupModel.GroupModeInPerson, 2)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula5, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	for i := 0; i < 2; i++ {
		sid, eid := f.addApprovedStudent(t, fmt.Sprintf("s%d@acainfo.es", i))
		if _, err := svc.Create(CreateInput{
			StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
			Mode: model.ReservationModeInPerson,
		}); err != nil {
			t.Fatalf("seat %d: %v", i, err)
		}
	}

	sid, eid := f.addApprovedStudent(t, "late@acainfo.es")
	_, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	var full *SessionFullError
	if !errors.As(err, &full) {
		t.Fatalf("want SessionFullError, got %v", err)
	}
	if full.Capacity != 2 {
		t.Fatalf("reported capacity = %d, want 2", full.Capacity)
	}

	// cancelling one seat frees it for the waiting student
	var victim model.ReservationModel
	if err := f.gdb.First(&victim, "reservation_session_id = ?", sess.SessionID).Error; err != nil {
		t.Fatalf("load reservation: %v", err)
	}
	if _, err := svc.Cancel(victim.ReservationID, victim.ReservationStudentID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	}); err != nil {
		t.Fatalf("seat after cancel: %v", err)
	}
}

func TestCreate_DuplicateRejected(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	in := CreateInput{StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson}
	if _, err := svc.Create(in); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := svc.Create(in)
	var dup *ReservationAlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("want ReservationAlreadyExistsError, got %v", err)
	}
}

func TestCreate_RequiresApprovedEnrollment(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	u := userModel.UserModel{UserEmail: "p@acainfo.es", UserPassword: "x",
		UserFullName: "Pending", UserRole: "student", UserIsActive: true}
	if err := f.gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	e := enrollmentModel.EnrollmentModel{
		EnrollmentStudentID: u.UserID,
		EnrollmentGroupID:   f.groupID,
		EnrollmentStatus:    enrollmentModel.EnrollmentPending,
	}
	if err := f.gdb.Create(&e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	_, err := svc.Create(CreateInput{
		StudentID: u.UserID, SessionID: sess.SessionID, EnrollmentID: e.EnrollmentID,
		Mode: model.ReservationModeInPerson,
	})
	var state *InvalidReservationStateError
	if !errors.As(err, &state) {
		t.Fatalf("want InvalidReservationStateError, got %v", err)
	}
}

func TestCreate_CrossGroupRules(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	// a second group of the same subject and one of a different subject
	sameSubj := groupModel.GroupModel{
		GroupSubjectID: f.subjectID, GroupTeacherID: f.teacherID,
		GroupName: "Algebra B", GroupClassroom: groupModel.ClassroomAula2,
		GroupMode: groupModel.GroupModeInPerson, GroupIsActive: true,
	}
	if err := f.gdb.Create(&sameSubj).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	otherSubject := subjectModel.SubjectModel{
		SubjectCode: "FIS", SubjectName: "Physics", SubjectCourseYear: 1, SubjectIsActive: true,
	}
	if err := f.gdb.Create(&otherSubject).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	otherGrp := groupModel.GroupModel{
		GroupSubjectID: otherSubject.SubjectID, GroupTeacherID: f.teacherID,
		GroupName: "Physics A", GroupClassroom: groupModel.ClassroomAula3,
		GroupMode: groupModel.GroupModeInPerson, GroupIsActive: true,
	}
	if err := f.gdb.Create(&otherGrp).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}

	day := date(2025, time.May, 5)
	own := f.addSession(t, day, "09:00", "11:00", groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)

	sbID := sameSubj.GroupID
	sbSess := sessionModel.SessionModel{
		SessionSubjectID: &f.subjectID, SessionGroupID: &sbID,
		SessionDate: day, SessionStartTime: "16:00", SessionEndTime: "18:00",
		SessionClassroom: groupModel.ClassroomAula2,
		SessionStatus:    sessionModel.SessionScheduled,
		SessionType:      sessionModel.SessionExtra,
		SessionMode:      sessionModel.SessionModeInPerson,
	}
	if err := f.gdb.Create(&sbSess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	ogID := otherGrp.GroupID
	ogSess := sessionModel.SessionModel{
		SessionSubjectID: &otherSubject.SubjectID, SessionGroupID: &ogID,
		SessionDate: day, SessionStartTime: "12:00", SessionEndTime: "14:00",
		SessionClassroom: groupModel.ClassroomAula3,
		SessionStatus:    sessionModel.SessionScheduled,
		SessionType:      sessionModel.SessionExtra,
		SessionMode:      sessionModel.SessionModeInPerson,
	}
	if err := f.gdb.Create(&ogSess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")

	// enrollment is for Algebra A; a Physics session is off limits
	_, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: ogSess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	var cross *CrossGroupReservationNotAllowedError
	if !errors.As(err, &cross) {
		t.Fatalf("want CrossGroupReservationNotAllowedError, got %v", err)
	}

	// attending Algebra B instead of Algebra A is fine when nothing is held yet
	if _, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sbSess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	}); err != nil {
		t.Fatalf("sibling-group seat: %v", err)
	}

	// but not a second Algebra session on the same date
	_, err = svc.Create(CreateInput{
		StudentID: sid, SessionID: own.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	var subj *SubjectReservationAlreadyExistsError
	if !errors.As(err, &subj) {
		t.Fatalf("want SubjectReservationAlreadyExistsError, got %v", err)
	}
}

func TestRequestOnline_CutoffSixHours(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeDual, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "10:00", "12:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeDual)
	svc := New(f.gdb)

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	res, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	deadline := sess.StartAt().Add(-OnlineRequestCutoff)

	// 1 minute past the cutoff: rejected
	svc.Now = func() time.Time { return deadline.Add(time.Minute) }
	_, err = svc.RequestOnline(res.ReservationID, sid)
	var late *OnlineRequestTooLateError
	if !errors.As(err, &late) {
		t.Fatalf("want OnlineRequestTooLateError, got %v", err)
	}

	// 1 hour before the cutoff: accepted and pending
	svc.Now = func() time.Time { return deadline.Add(-time.Hour) }
	out, err := svc.RequestOnline(res.ReservationID, sid)
	if err != nil {
		t.Fatalf("request online: %v", err)
	}
	if out.ReservationOnlineRequestStatus == nil ||
		*out.ReservationOnlineRequestStatus != model.OnlineRequestPending {
		t.Fatalf("request status = %v", out.ReservationOnlineRequestStatus)
	}

	// only one open request per reservation
	_, err = svc.RequestOnline(res.ReservationID, sid)
	var dup *OnlineRequestAlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("want OnlineRequestAlreadyExistsError, got %v", err)
	}
}

func TestProcessOnline_TeacherDecides(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeDual, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "10:00", "12:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeDual)
	svc := New(f.gdb)
	svc.Now = func() time.Time { return sess.StartAt().Add(-24 * time.Hour) }

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	res, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := svc.RequestOnline(res.ReservationID, sid); err != nil {
		t.Fatalf("request online: %v", err)
	}

	// a random user is not the session's teacher
	stranger := uuid.New()
	if _, err := svc.ProcessOnline(res.ReservationID, stranger, false, true); !errors.Is(err, ErrNotSessionTeacher) {
		t.Fatalf("want ErrNotSessionTeacher, got %v", err)
	}

	// the group's teacher approves; the seat flips online
	out, err := svc.ProcessOnline(res.ReservationID, f.teacherID, false, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if out.ReservationMode != model.ReservationModeOnline {
		t.Fatalf("mode after approval = %s", out.ReservationMode)
	}
	if out.ReservationOnlineRequestStatus == nil ||
		*out.ReservationOnlineRequestStatus != model.OnlineRequestApproved {
		t.Fatalf("request status = %v", out.ReservationOnlineRequestStatus)
	}

	// an approved in-person seat no longer counts against capacity
	n, err := svc.CountInPerson(sess.SessionID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("in-person count = %d, want 0", n)
	}
}

func TestRecordAttendance_Once(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	res, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	out, err := svc.RecordAttendance(res.ReservationID, model.AttendancePresent, f.teacherID)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if out.ReservationAttendanceStatus == nil || *out.ReservationAttendanceStatus != model.AttendancePresent {
		t.Fatalf("attendance = %v", out.ReservationAttendanceStatus)
	}

	_, err = svc.RecordAttendance(res.ReservationID, model.AttendanceLate, f.teacherID)
	var already *AttendanceAlreadyRecordedError
	if !errors.As(err, &already) {
		t.Fatalf("want AttendanceAlreadyRecordedError, got %v", err)
	}

	// attendance pins the reservation: no cancel afterwards
	_, err = svc.Cancel(res.ReservationID, sid)
	var state *InvalidReservationStateError
	if !errors.As(err, &state) {
		t.Fatalf("want InvalidReservationStateError, got %v", err)
	}
}

func TestRecordAttendanceBulk_AbortsOnFirstFailure(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	var items []AttendanceItem
	for i := 0; i < 2; i++ {
		sid, eid := f.addApprovedStudent(t, fmt.Sprintf("s%d@acainfo.es", i))
		res, err := svc.Create(CreateInput{
			StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
			Mode: model.ReservationModeInPerson,
		})
		if err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
		items = append(items, AttendanceItem{ReservationID: res.ReservationID, Status: model.AttendancePresent})
	}
	items = append(items, AttendanceItem{ReservationID: uuid.New(), Status: model.AttendancePresent})

	_, err := svc.RecordAttendanceBulk(items, f.teacherID)
	if !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("want ErrReservationNotFound, got %v", err)
	}

	// the batch is atomic: nothing was written
	var n int64
	f.gdb.Model(&model.ReservationModel{}).
		Where("reservation_attendance_status IS NOT NULL").Count(&n)
	if n != 0 {
		t.Fatalf("attendance rows after failed batch = %d, want 0", n)
	}
}

func TestSwitch_MovesSeatAtomically(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula5, groupModel.GroupModeInPerson, 1)
	day := date(2025, time.May, 5)
	a := f.addSession(t, day, "09:00", "11:00", groupModel.ClassroomAula5, sessionModel.SessionModeInPerson)
	b := f.addSession(t, date(2025, time.May, 6), "09:00", "11:00", groupModel.ClassroomAula5, sessionModel.SessionModeInPerson)
	svc := New(f.gdb)

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	res, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: a.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	moved, err := svc.Switch(sid, res.ReservationID, b.SessionID)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if moved.ReservationSessionID != b.SessionID {
		t.Fatalf("moved to %s, want %s", moved.ReservationSessionID, b.SessionID)
	}

	// the old seat was released
	nA, _ := svc.CountInPerson(a.SessionID)
	nB, _ := svc.CountInPerson(b.SessionID)
	if nA != 0 || nB != 1 {
		t.Fatalf("counts a=%d b=%d, want 0/1", nA, nB)
	}

	// only the owner may switch
	_, err = svc.Switch(uuid.New(), moved.ReservationID, a.SessionID)
	if !errors.Is(err, ErrNotReservationOwner) {
		t.Fatalf("want ErrNotReservationOwner, got %v", err)
	}
}

func TestCreate_OnScheduledSessionOnly(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.May, 5), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	if err := f.gdb.Model(sess).Update("session_status", sessionModel.SessionCancelled).Error; err != nil {
		t.Fatalf("cancel session: %v", err)
	}
	svc := New(f.gdb)

	sid, eid := f.addApprovedStudent(t, "s@acainfo.es")
	_, err := svc.Create(CreateInput{
		StudentID: sid, SessionID: sess.SessionID, EnrollmentID: eid,
		Mode: model.ReservationModeInPerson,
	})
	var state *sessionService.InvalidSessionStateError
	if !errors.As(err, &state) {
		t.Fatalf("want InvalidSessionStateError, got %v", err)
	}
}
