package timeslot

import (
	"testing"
	"time"
)

func TestMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{" 10:30 ", 630, false},
		{"9:00", 540, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"monday", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := Minutes(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Minutes(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Minutes(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Minutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"partial overlap", "09:00", "11:00", "10:00", "12:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "11:00", "09:00", "11:00", true},
		{"boundary touch is not overlap", "09:00", "11:00", "11:00", "13:00", false},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
		{"reverse boundary touch", "11:00", "13:00", "09:00", "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// symmetry
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestValidRange(t *testing.T) {
	if !ValidRange("09:00", "11:00") {
		t.Error("09:00-11:00 should be valid")
	}
	if ValidRange("11:00", "09:00") {
		t.Error("11:00-09:00 should be invalid")
	}
	if ValidRange("09:00", "09:00") {
		t.Error("zero-length range should be invalid")
	}
	if ValidRange("x", "11:00") {
		t.Error("unparseable start should be invalid")
	}
}

func TestISOWeekday(t *testing.T) {
	// 2025-01-06 is a Monday, 2025-01-12 a Sunday.
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	if got := ISOWeekday(mon); got != 1 {
		t.Errorf("ISOWeekday(monday) = %d, want 1", got)
	}
	if got := ISOWeekday(sun); got != 7 {
		t.Errorf("ISOWeekday(sunday) = %d, want 7", got)
	}
}
