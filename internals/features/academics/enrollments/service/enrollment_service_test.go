// file: internals/features/academics/enrollments/service/enrollment_service_test.go
package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"acainfo_backend/internals/features/academics/enrollments/model"
	groupModel "acainfo_backend/internals/features/academics/groups/model"
	subjectModel "acainfo_backend/internals/features/academics/subjects/model"
	reservationModel "acainfo_backend/internals/features/scheduling/reservations/model"
	scheduleModel "acainfo_backend/internals/features/scheduling/schedules/model"
	sessionModel "acainfo_backend/internals/features/scheduling/sessions/model"
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
		&model.EnrollmentModel{},
		&scheduleModel.ScheduleModel{},
		&sessionModel.SessionModel{},
		&reservationModel.ReservationModel{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

type fixture struct {
	gdb     *gorm.DB
	adminID uuid.UUID
	groupID uuid.UUID
	subjID  uuid.UUID
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
	admin := userModel.UserModel{
		UserEmail: "admin@acainfo.es", UserPassword: "x", UserFullName: "Admin",
		UserRole: "admin", UserIsActive: true,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	grp := groupModel.GroupModel{
		GroupSubjectID: subj.SubjectID, GroupTeacherID: teach.UserID,
		GroupName: "Algebra A", GroupClassroom: room, GroupMode: mode,
		GroupMaxCapacity: maxCapacity, GroupIsActive: true,
	}
	if err := gdb.Create(&grp).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return &fixture{gdb: gdb, adminID: admin.UserID, groupID: grp.GroupID, subjID: subj.SubjectID}
}

func (f *fixture) addStudent(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		UserEmail: email, UserPassword: "x", UserFullName: "Student",
		UserRole: "student", UserIsActive: true,
	}
	if err := f.gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return u.UserID
}

func (f *fixture) addSession(t *testing.T, day time.Time, start, end string, room groupModel.Classroom, mode sessionModel.SessionMode) *sessionModel.SessionModel {
	t.Helper()
	gID := f.groupID
	subjID := f.subjID
	sess := sessionModel.SessionModel{
		SessionSubjectID: &subjID,
		SessionGroupID:   &gID,
		SessionDate:      day,
		SessionStartTime: start,
		SessionEndTime:   end,
		SessionClassroom: room,
		SessionStatus:    sessionModel.SessionScheduled,
		SessionType:      sessionModel.SessionRegular,
		SessionMode:      mode,
	}
	if err := f.gdb.Create(&sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &sess
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRequest_PendingAndDuplicate(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)
	sid := f.addStudent(t, "s@acainfo.es")

	enr, err := svc.Request(sid, f.groupID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if enr.EnrollmentStatus != model.EnrollmentPending {
		t.Fatalf("status = %s, want pending", enr.EnrollmentStatus)
	}

	_, err = svc.Request(sid, f.groupID)
	var dup *EnrollmentAlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("want EnrollmentAlreadyExistsError, got %v", err)
	}

	// a cancelled enrollment does not block a fresh request
	if _, err := svc.CancelOwn(enr.EnrollmentID, sid); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Request(sid, f.groupID); err != nil {
		t.Fatalf("re-request after cancel: %v", err)
	}
}

func TestRequest_InactiveGroupRejected(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	if err := f.gdb.Model(&groupModel.GroupModel{}).
		Where("group_id = ?", f.groupID).
		Update("group_is_active", false).Error; err != nil {
		t.Fatalf("deactivate group: %v", err)
	}
	svc := New(f.gdb)
	sid := f.addStudent(t, "s@acainfo.es")

	if _, err := svc.Request(sid, f.groupID); err == nil {
		t.Fatal("want error for inactive group")
	}
}

func TestApprove_SeatsFutureSessions(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	past := f.addSession(t, date(2025, time.March, 3), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)
	future := f.addSession(t, date(2025, time.March, 17), "09:00", "11:00",
		groupModel.ClassroomAula1, sessionModel.SessionModeInPerson)

	svc := New(f.gdb)
	svc.Now = func() time.Time { return date(2025, time.March, 10) }
	svc.Reservations.Now = svc.Now

	sid := f.addStudent(t, "s@acainfo.es")
	enr, err := svc.Request(sid, f.groupID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	approved, err := svc.Approve(enr.EnrollmentID, f.adminID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.EnrollmentStatus != model.EnrollmentApproved {
		t.Fatalf("status = %s, want approved", approved.EnrollmentStatus)
	}
	if approved.EnrollmentDecidedBy == nil || *approved.EnrollmentDecidedBy != f.adminID {
		t.Fatalf("decided by = %v, want admin", approved.EnrollmentDecidedBy)
	}

	// only the future session gets a seat
	var seats []reservationModel.ReservationModel
	if err := f.gdb.Where("reservation_student_id = ?", sid).Find(&seats).Error; err != nil {
		t.Fatalf("load seats: %v", err)
	}
	if len(seats) != 1 {
		t.Fatalf("seats = %d, want 1", len(seats))
	}
	if seats[0].ReservationSessionID != future.SessionID {
		t.Fatalf("seated on %s, want %s (not %s)", seats[0].ReservationSessionID, future.SessionID, past.SessionID)
	}
	if seats[0].ReservationMode != reservationModel.ReservationModeInPerson {
		t.Fatalf("mode = %s, want in_person", seats[0].ReservationMode)
	}
}

func TestApprove_GroupFull(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula5, groupModel.GroupModeInPerson, 1)
	svc := New(f.gdb)

	first := f.addStudent(t, "first@acainfo.es")
	e1, err := svc.Request(first, f.groupID)
	if err != nil {
		t.Fatalf("request 1: %v", err)
	}
	if _, err := svc.Approve(e1.EnrollmentID, f.adminID); err != nil {
		t.Fatalf("approve 1: %v", err)
	}

	second := f.addStudent(t, "second@acainfo.es")
	e2, err := svc.Request(second, f.groupID)
	if err != nil {
		t.Fatalf("request 2: %v", err)
	}
	_, err = svc.Approve(e2.EnrollmentID, f.adminID)
	var full *GroupFullError
	if !errors.As(err, &full) {
		t.Fatalf("want GroupFullError, got %v", err)
	}
	if full.Capacity != 1 {
		t.Fatalf("reported capacity = %d, want 1", full.Capacity)
	}

	// the failed approval left the enrollment pending
	var reloaded model.EnrollmentModel
	if err := f.gdb.First(&reloaded, "enrollment_id = ?", e2.EnrollmentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.EnrollmentStatus != model.EnrollmentPending {
		t.Fatalf("status after failed approve = %s, want pending", reloaded.EnrollmentStatus)
	}
}

func TestApprove_DualGroupOverflowsToOnline(t *testing.T) {
	// one in-person seat; the second approved student watches the stream
	f := newFixture(t, groupModel.ClassroomAula5, groupModel.GroupModeDual, 1)
	f.addSession(t, date(2025, time.March, 17), "09:00", "11:00",
		groupModel.ClassroomAula5, sessionModel.SessionModeDual)

	svc := New(f.gdb)
	svc.Now = func() time.Time { return date(2025, time.March, 10) }
	svc.Reservations.Now = svc.Now

	first := f.addStudent(t, "first@acainfo.es")
	e1, err := svc.Request(first, f.groupID)
	if err != nil {
		t.Fatalf("request 1: %v", err)
	}
	if _, err := svc.Approve(e1.EnrollmentID, f.adminID); err != nil {
		t.Fatalf("approve 1: %v", err)
	}

	second := f.addStudent(t, "second@acainfo.es")
	e2, err := svc.Request(second, f.groupID)
	if err != nil {
		t.Fatalf("request 2: %v", err)
	}
	if _, err := svc.Approve(e2.EnrollmentID, f.adminID); err != nil {
		t.Fatalf("approve 2: %v", err)
	}

	var firstSeat, secondSeat reservationModel.ReservationModel
	if err := f.gdb.First(&firstSeat, "reservation_student_id = ?", first).Error; err != nil {
		t.Fatalf("load first seat: %v", err)
	}
	if err := f.gdb.First(&secondSeat, "reservation_student_id = ?", second).Error; err != nil {
		t.Fatalf("load second seat: %v", err)
	}
	if firstSeat.ReservationMode != reservationModel.ReservationModeInPerson {
		t.Fatalf("first seat mode = %s, want in_person", firstSeat.ReservationMode)
	}
	if secondSeat.ReservationMode != reservationModel.ReservationModeOnline {
		t.Fatalf("second seat mode = %s, want online overflow", secondSeat.ReservationMode)
	}
}

func TestReject_ThenDecideAgain(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	sid := f.addStudent(t, "s@acainfo.es")
	enr, err := svc.Request(sid, f.groupID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	rejected, err := svc.Reject(enr.EnrollmentID, f.adminID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.EnrollmentStatus != model.EnrollmentRejected {
		t.Fatalf("status = %s, want rejected", rejected.EnrollmentStatus)
	}

	// a decided enrollment cannot be decided again
	_, err = svc.Approve(enr.EnrollmentID, f.adminID)
	var state *InvalidEnrollmentStateError
	if !errors.As(err, &state) {
		t.Fatalf("want InvalidEnrollmentStateError, got %v", err)
	}
}

func TestCancelOwn_Rules(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	sid := f.addStudent(t, "s@acainfo.es")
	enr, err := svc.Request(sid, f.groupID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// another student cannot see, let alone cancel, this enrollment
	if _, err := svc.CancelOwn(enr.EnrollmentID, uuid.New()); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Fatalf("want ErrEnrollmentNotFound for foreign student, got %v", err)
	}

	out, err := svc.CancelOwn(enr.EnrollmentID, sid)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.EnrollmentStatus != model.EnrollmentCancelled {
		t.Fatalf("status = %s, want cancelled", out.EnrollmentStatus)
	}

	_, err = svc.CancelOwn(enr.EnrollmentID, sid)
	var state *InvalidEnrollmentStateError
	if !errors.As(err, &state) {
		t.Fatalf("want InvalidEnrollmentStateError on double cancel, got %v", err)
	}
}
