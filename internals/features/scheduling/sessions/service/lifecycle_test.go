// file: internals/features/scheduling/sessions/service/lifecycle_test.go
package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	groupModel "acainfo_backend/internals/features/academics/groups/model"
	"acainfo_backend/internals/features/scheduling/sessions/model"
)

func (f *fixture) addSession(t *testing.T, day time.Time, start, end string, room groupModel.Classroom) *model.SessionModel {
	t.Helper()
	gID := f.groupID
	subjID := f.subjectID
	sess := model.SessionModel{
		SessionSubjectID: &subjID,
		SessionGroupID:   &gID,
		SessionDate:      day,
		SessionStartTime: start,
		SessionEndTime:   end,
		SessionClassroom: room,
		SessionStatus:    model.SessionScheduled,
		SessionType:      model.SessionExtra,
		SessionMode:      model.SessionModeInPerson,
	}
	if err := f.gdb.Create(&sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &sess
}

func TestLifecycle_HappyPath(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.March, 3), "09:00", "11:00", groupModel.ClassroomAula1)
	svc := New(f.gdb)

	started, err := svc.Start(sess.SessionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.SessionStatus != model.SessionInProgress {
		t.Fatalf("status after start = %s", started.SessionStatus)
	}

	done, err := svc.Complete(sess.SessionID, []string{"limits", "derivatives"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.SessionStatus != model.SessionCompleted {
		t.Fatalf("status after complete = %s", done.SessionStatus)
	}
	var topics []string
	if err := json.Unmarshal(done.SessionTopicsCovered, &topics); err != nil {
		t.Fatalf("topics json: %v", err)
	}
	if len(topics) != 2 || topics[0] != "limits" {
		t.Fatalf("topics = %v", topics)
	}
}

func TestLifecycle_IllegalTransitions(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	// complete before start
	sess := f.addSession(t, date(2025, time.March, 3), "09:00", "11:00", groupModel.ClassroomAula1)
	_, err := svc.Complete(sess.SessionID, nil)
	var state *InvalidSessionStateError
	if !errors.As(err, &state) {
		t.Fatalf("complete scheduled: want InvalidSessionStateError, got %v", err)
	}

	// cancel after completion
	if _, err := svc.Start(sess.SessionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Complete(sess.SessionID, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err = svc.Cancel(sess.SessionID, "room flooded")
	if !errors.As(err, &state) {
		t.Fatalf("cancel completed: want InvalidSessionStateError, got %v", err)
	}

	// double start
	other := f.addSession(t, date(2025, time.March, 4), "09:00", "11:00", groupModel.ClassroomAula1)
	if _, err := svc.Start(other.SessionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err = svc.Start(other.SessionID)
	if !errors.As(err, &state) {
		t.Fatalf("double start: want InvalidSessionStateError, got %v", err)
	}
}

func TestCancel_RequiresReason(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	sess := f.addSession(t, date(2025, time.March, 3), "09:00", "11:00", groupModel.ClassroomAula1)
	svc := New(f.gdb)

	_, err := svc.Cancel(sess.SessionID, "   ")
	var invalid *InvalidSessionDataError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidSessionDataError for blank reason, got %v", err)
	}

	var notified []string
	svc.Notify = func(event string, s *model.SessionModel) { notified = append(notified, event) }

	out, err := svc.Cancel(sess.SessionID, "teacher ill")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.SessionStatus != model.SessionCancelled {
		t.Fatalf("status = %s", out.SessionStatus)
	}
	if out.SessionCancelReason == nil || *out.SessionCancelReason != "teacher ill" {
		t.Fatalf("cancel reason = %v", out.SessionCancelReason)
	}
	if len(notified) != 1 || notified[0] != "session.cancelled" {
		t.Fatalf("notifications = %v", notified)
	}
}

func TestPostpone_CreatesReplacement(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)
	svc.Notify = func(string, *model.SessionModel) {}

	// generated-looking session with a schedule reference
	schedID := f.addSchedule(t, 1, "09:00", "11:00", groupModel.ClassroomAula1)
	gID := f.groupID
	subjID := f.subjectID
	orig := model.SessionModel{
		SessionSubjectID:  &subjID,
		SessionGroupID:    &gID,
		SessionScheduleID: &schedID,
		SessionDate:       date(2025, time.March, 3),
		SessionStartTime:  "09:00",
		SessionEndTime:    "11:00",
		SessionClassroom:  groupModel.ClassroomAula1,
		SessionStatus:     model.SessionScheduled,
		SessionType:       model.SessionRegular,
		SessionMode:       model.SessionModeInPerson,
	}
	if err := f.gdb.Create(&orig).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	newStart, newEnd := "16:00", "18:00"
	got, repl, err := svc.Postpone(orig.SessionID, PostponeInput{
		NewDate:      date(2025, time.March, 5),
		NewStartTime: &newStart,
		NewEndTime:   &newEnd,
	})
	if err != nil {
		t.Fatalf("postpone: %v", err)
	}

	if got.SessionStatus != model.SessionPostponed {
		t.Fatalf("original status = %s", got.SessionStatus)
	}
	if got.SessionPostponedToID == nil || *got.SessionPostponedToID != repl.SessionID {
		t.Fatalf("original does not point at the replacement")
	}
	if repl.SessionStatus != model.SessionScheduled {
		t.Fatalf("replacement status = %s", repl.SessionStatus)
	}
	if repl.SessionScheduleID != nil {
		t.Fatalf("replacement still references the schedule")
	}
	if repl.SessionType != model.SessionExtra {
		t.Fatalf("replacement type = %s, want extra", repl.SessionType)
	}
	if repl.SessionDate.Format("2006-01-02") != "2025-03-05" ||
		repl.SessionStartTime != "16:00" || repl.SessionEndTime != "18:00" {
		t.Fatalf("replacement slot = %s %s-%s", repl.SessionDate, repl.SessionStartTime, repl.SessionEndTime)
	}

	// a postponed session cannot be postponed again
	_, _, err = svc.Postpone(orig.SessionID, PostponeInput{NewDate: date(2025, time.March, 7)})
	var state *InvalidSessionStateError
	if !errors.As(err, &state) {
		t.Fatalf("double postpone: want InvalidSessionStateError, got %v", err)
	}
}

func TestPostpone_TargetSlotConflict(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)
	svc.Notify = func(string, *model.SessionModel) {}

	// the target slot is already occupied in the same room
	f.addSession(t, date(2025, time.March, 5), "16:00", "18:00", groupModel.ClassroomAula1)
	victim := f.addSession(t, date(2025, time.March, 3), "09:00", "11:00", groupModel.ClassroomAula1)

	newStart, newEnd := "17:00", "19:00"
	_, _, err := svc.Postpone(victim.SessionID, PostponeInput{
		NewDate:      date(2025, time.March, 5),
		NewStartTime: &newStart,
		NewEndTime:   &newEnd,
	})
	var conflict *SessionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want SessionConflictError, got %v", err)
	}

	// the original keeps its slot untouched after the failed postpone
	reloaded, err := svc.GetByID(victim.SessionID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.SessionStatus != model.SessionScheduled {
		t.Fatalf("original status after failed postpone = %s", reloaded.SessionStatus)
	}
}

func TestCreateExtra_ConflictChecked(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula2, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	created, err := svc.CreateExtra(CreateExtraInput{
		GroupID:   f.groupID,
		Date:      date(2025, time.April, 10),
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	if err != nil {
		t.Fatalf("create extra: %v", err)
	}
	if created.SessionType != model.SessionExtra || created.SessionScheduleID != nil {
		t.Fatalf("extra session shape: type=%s schedule=%v", created.SessionType, created.SessionScheduleID)
	}
	if created.SessionClassroom != groupModel.ClassroomAula2 {
		t.Fatalf("classroom defaulted to %s", created.SessionClassroom)
	}

	// same room, overlapping time on the same date
	_, err = svc.CreateExtra(CreateExtraInput{
		GroupID:   f.groupID,
		Date:      date(2025, time.April, 10),
		StartTime: "11:00",
		EndTime:   "13:00",
	})
	var conflict *SessionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("want SessionConflictError, got %v", err)
	}
}

func TestCreateScheduling_ShapeEnforced(t *testing.T) {
	f := newFixture(t, groupModel.ClassroomAula1, groupModel.GroupModeInPerson, 0)
	svc := New(f.gdb)

	created, err := svc.CreateScheduling(CreateSchedulingInput{
		SubjectID: f.subjectID,
		Date:      date(2025, time.April, 11),
		StartTime: "18:00",
		EndTime:   "18:30",
	})
	if err != nil {
		t.Fatalf("create scheduling: %v", err)
	}
	if created.SessionType != model.SessionScheduling {
		t.Fatalf("type = %s", created.SessionType)
	}
	if created.SessionMode != model.SessionModeOnline || created.SessionClassroom != groupModel.ClassroomOnline {
		t.Fatalf("scheduling sessions must be online: mode=%s room=%s", created.SessionMode, created.SessionClassroom)
	}
	if created.SessionGroupID != nil || created.SessionScheduleID != nil {
		t.Fatal("scheduling session must not reference a group or schedule")
	}
}
