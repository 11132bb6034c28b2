// file: internals/features/academics/groups/model/classroom.go
package model

/* =========================
   Classroom (immutable value)
========================= */

// Classroom identifies one of the academy's rooms. ONLINE_ROOM is the virtual
// pseudo-room used for purely online groups and one-off online meetings.
type Classroom string

const (
	ClassroomAula1  Classroom = "AULA_1"
	ClassroomAula2  Classroom = "AULA_2"
	ClassroomAula3  Classroom = "AULA_3"
	ClassroomAula4  Classroom = "AULA_4"
	ClassroomAula5  Classroom = "AULA_5"
	ClassroomAula6  Classroom = "AULA_6"
	ClassroomOnline Classroom = "ONLINE_ROOM"
)

var AllClassrooms = []Classroom{
	ClassroomAula1,
	ClassroomAula2,
	ClassroomAula3,
	ClassroomAula4,
	ClassroomAula5,
	ClassroomAula6,
	ClassroomOnline,
}

// Seat counts per physical room. ONLINE_ROOM has no ceiling.
var classroomCapacity = map[Classroom]int{
	ClassroomAula1: 24,
	ClassroomAula2: 24,
	ClassroomAula3: 18,
	ClassroomAula4: 18,
	ClassroomAula5: 12,
	ClassroomAula6: 12,
}

func (r Classroom) Valid() bool {
	_, ok := classroomCapacity[r]
	return ok || r == ClassroomOnline
}

func (r Classroom) IsVirtual() bool { return r == ClassroomOnline }

// Capacity returns the seat count of a physical room, 0 for the virtual room
// (callers treat 0 as unbounded).
func (r Classroom) Capacity() int { return classroomCapacity[r] }
