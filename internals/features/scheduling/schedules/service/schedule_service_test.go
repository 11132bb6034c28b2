// file: internals/features/scheduling/schedules/service/schedule_service_test.go
package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	subjectModel "acainfo_backend/internals/features/academics/subjects/model"
	"acainfo_backend/internals/features/scheduling/schedules/model"
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
		&model.ScheduleModel{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func seedTeacher(t *testing.T, gdb *gorm.DB, email string) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		UserEmail:    email,
		UserPassword: "x",
		UserFullName: "Teacher",
		UserRole:     "teacher",
		UserIsActive: true,
	}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	return u.UserID
}

func seedSubject(t *testing.T, gdb *gorm.DB, code string) uuid.UUID {
	t.Helper()
	s := subjectModel.SubjectModel{
		SubjectCode:       code,
		SubjectName:       "Subject " + code,
		SubjectCourseYear: 1,
		SubjectIsActive:   true,
	}
	if err := gdb.Create(&s).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	return s.SubjectID
}

func seedGroup(t *testing.T, gdb *gorm.DB, subjectID, teacherID uuid.UUID, room groupModel.Classroom, mode groupModel.GroupMode) uuid.UUID {
	t.Helper()
	g := groupModel.GroupModel{
		GroupSubjectID: subjectID,
		GroupTeacherID: teacherID,
		GroupName:      "Group " + uuid.NewString()[:8],
		GroupClassroom: room,
		GroupMode:      mode,
		GroupIsActive:  true,
	}
	if err := gdb.Create(&g).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return g.GroupID
}

func TestCreateSchedule_ClassroomConflict(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "ALG")
	t1 := seedTeacher(t, gdb, "t1@acainfo.es")
	t2 := seedTeacher(t, gdb, "t2@acainfo.es")
	g1 := seedGroup(t, gdb, subj, t1, groupModel.ClassroomAula1, groupModel.GroupModeInPerson)
	g2 := seedGroup(t, gdb, subj, t2, groupModel.ClassroomAula1, groupModel.GroupModeInPerson)

	if _, err := svc.Create(CreateInput{
		GroupID: g1, DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00",
		Classroom: groupModel.ClassroomAula1,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// overlapping slot in the same room, different teacher
	_, err := svc.Create(CreateInput{
		GroupID: g2, DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00",
		Classroom: groupModel.ClassroomAula1,
	})
	var conflict *ScheduleConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want ScheduleConflictError, got %v", err)
	}
	if len(conflict.Conflicts) != 1 {
		t.Fatalf("want 1 conflicting slot, got %d", len(conflict.Conflicts))
	}

	// back-to-back is allowed: 11:00 touches but does not overlap
	if _, err := svc.Create(CreateInput{
		GroupID: g2, DayOfWeek: 1, StartTime: "11:00", EndTime: "13:00",
		Classroom: groupModel.ClassroomAula1,
	}); err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}

	// same times on another day are fine too
	if _, err := svc.Create(CreateInput{
		GroupID: g2, DayOfWeek: 2, StartTime: "09:00", EndTime: "11:00",
		Classroom: groupModel.ClassroomAula1,
	}); err != nil {
		t.Fatalf("other day booking: %v", err)
	}
}

func TestCreateSchedule_TeacherConflict(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "CAL")
	teach := seedTeacher(t, gdb, "t@acainfo.es")
	g1 := seedGroup(t, gdb, subj, teach, groupModel.ClassroomAula1, groupModel.GroupModeInPerson)
	g2 := seedGroup(t, gdb, subj, teach, groupModel.ClassroomAula2, groupModel.GroupModeInPerson)

	if _, err := svc.Create(CreateInput{
		GroupID: g1, DayOfWeek: 3, StartTime: "16:00", EndTime: "18:00",
		Classroom: groupModel.ClassroomAula1,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// different room, same teacher, overlapping time
	_, err := svc.Create(CreateInput{
		GroupID: g2, DayOfWeek: 3, StartTime: "17:00", EndTime: "19:00",
		Classroom: groupModel.ClassroomAula2,
	})
	var conflict *TeacherScheduleConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want TeacherScheduleConflictError, got %v", err)
	}
	if conflict.TeacherID != teach {
		t.Fatalf("conflict teacher = %s, want %s", conflict.TeacherID, teach)
	}
}

func TestCreateSchedule_OnlineSameSubjectCarveOut(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "FIS")
	other := seedSubject(t, gdb, "QUI")
	teach := seedTeacher(t, gdb, "t@acainfo.es")
	g1 := seedGroup(t, gdb, subj, teach, groupModel.ClassroomOnline, groupModel.GroupModeOnline)
	g2 := seedGroup(t, gdb, subj, teach, groupModel.ClassroomOnline, groupModel.GroupModeOnline)
	g3 := seedGroup(t, gdb, other, teach, groupModel.ClassroomOnline, groupModel.GroupModeOnline)

	if _, err := svc.Create(CreateInput{
		GroupID: g1, DayOfWeek: 5, StartTime: "10:00", EndTime: "12:00",
		Classroom: groupModel.ClassroomOnline,
	}); err != nil {
		t.Fatalf("first online slot: %v", err)
	}

	// same teacher may lecture the same subject online to two groups at once
	if _, err := svc.Create(CreateInput{
		GroupID: g2, DayOfWeek: 5, StartTime: "10:00", EndTime: "12:00",
		Classroom: groupModel.ClassroomOnline,
	}); err != nil {
		t.Fatalf("parallel same-subject online slot: %v", err)
	}

	// but not a different subject
	_, err := svc.Create(CreateInput{
		GroupID: g3, DayOfWeek: 5, StartTime: "11:00", EndTime: "13:00",
		Classroom: groupModel.ClassroomOnline,
	})
	var conflict *TeacherScheduleConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want TeacherScheduleConflictError, got %v", err)
	}
}

func TestUpdateSchedule_ExcludesItself(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "ALG")
	teach := seedTeacher(t, gdb, "t@acainfo.es")
	grp := seedGroup(t, gdb, subj, teach, groupModel.ClassroomAula3, groupModel.GroupModeInPerson)

	created, err := svc.Create(CreateInput{
		GroupID: grp, DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00",
		Classroom: groupModel.ClassroomAula3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// shifting the same slot by 30 minutes must not conflict with itself
	start, end := "09:30", "11:30"
	updated, err := svc.Update(created.ScheduleID, UpdateInput{StartTime: &start, EndTime: &end})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ScheduleStartTime != "09:30" || updated.ScheduleEndTime != "11:30" {
		t.Fatalf("slot = %s-%s, want 09:30-11:30", updated.ScheduleStartTime, updated.ScheduleEndTime)
	}
}

func TestCreateSchedule_InvalidData(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "ALG")
	teach := seedTeacher(t, gdb, "t@acainfo.es")
	grp := seedGroup(t, gdb, subj, teach, groupModel.ClassroomAula1, groupModel.GroupModeInPerson)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"day out of range", CreateInput{GroupID: grp, DayOfWeek: 8, StartTime: "09:00", EndTime: "10:00", Classroom: groupModel.ClassroomAula1}},
		{"inverted range", CreateInput{GroupID: grp, DayOfWeek: 1, StartTime: "11:00", EndTime: "09:00", Classroom: groupModel.ClassroomAula1}},
		{"zero-length range", CreateInput{GroupID: grp, DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00", Classroom: groupModel.ClassroomAula1}},
		{"unknown room", CreateInput{GroupID: grp, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Classroom: "AULA_9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.in)
			var invalid *InvalidScheduleDataError
			if !errors.As(err, &invalid) {
				t.Fatalf("want InvalidScheduleDataError, got %v", err)
			}
		})
	}
}

func TestDeleteSchedule(t *testing.T) {
	gdb := openTestDB(t)
	svc := New(gdb)

	subj := seedSubject(t, gdb, "ALG")
	teach := seedTeacher(t, gdb, "t@acainfo.es")
	grp := seedGroup(t, gdb, subj, teach, groupModel.ClassroomAula1, groupModel.GroupModeInPerson)

	created, err := svc.Create(CreateInput{
		GroupID: grp, DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00",
		Classroom: groupModel.ClassroomAula1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Delete(created.ScheduleID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(created.ScheduleID); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("want ErrScheduleNotFound after delete, got %v", err)
	}

	// a deleted slot releases the room
	if _, err := svc.Create(CreateInput{
		GroupID: grp, DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00",
		Classroom: groupModel.ClassroomAula1,
	}); err != nil {
		t.Fatalf("rebooking freed slot: %v", err)
	}
}
