package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNewBatch(t *testing.T) {
	b := NewBatch(DefaultBatchCapacity)

	if b.Cap() != 10 {
		t.Errorf("Cap() = %d, want 10", b.Cap())
	}
	if !b.Empty() {
		t.Error("new batch should be empty")
	}

	if got := NewBatch(0).Cap(); got != 1 {
		t.Errorf("NewBatch(0).Cap() = %d, want 1", got)
	}
}

func TestBatch_AddNeverExceedsCapacity(t *testing.T) {
	b := NewBatch(3)

	for i := 0; i < 3; i++ {
		if !b.Add(Reading{Temperature: int8(i)}) {
			t.Fatalf("Add #%d rejected before capacity", i)
		}
	}
	if !b.Full() {
		t.Fatal("batch should be full")
	}
	if b.Add(Reading{Temperature: 99}) {
		t.Error("Add accepted a reading into a full batch")
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}

	b.Reset()
	if !b.Empty() || b.Cap() != 3 {
		t.Errorf("after Reset: Len=%d Cap=%d, want 0/3", b.Len(), b.Cap())
	}
}

func TestBatch_ReadingsIsACopy(t *testing.T) {
	b := NewBatch(2)
	b.Add(Reading{Temperature: 1})

	got := b.Readings()
	got[0].Temperature = 42

	if b.Readings()[0].Temperature != 1 {
		t.Error("mutating Readings() result changed the batch")
	}
}

func TestBatch_Compact(t *testing.T) {
	tests := []struct {
		name  string
		in    []Reading
		same  func(a, b Reading) bool
		want  []Reading
	}{
		{
			name: "temperature tie collapses, next compared against kept neighbor",
			in: []Reading{
				{25, 60, "t3"},
				{20, 60, "t2"},
				{20, 50, "t1"},
			},
			same: SharesField,
			want: []Reading{
				{20, 50, "t1"},
				{25, 60, "t3"},
			},
		},
		{
			name: "humidity tie collapses readings with different temperature",
			in: []Reading{
				{22, 40, "a"},
				{21, 40, "b"},
			},
			same: SharesField,
			want: []Reading{
				{21, 40, "b"},
			},
		},
		{
			name: "run of matches collapses onto first element",
			in: []Reading{
				{20, 1, "a"},
				{20, 2, "b"},
				{20, 3, "c"},
				{30, 4, "d"},
			},
			same: SharesField,
			want: []Reading{
				{20, 1, "a"},
				{30, 4, "d"},
			},
		},
		{
			name: "non-adjacent ties survive",
			in: []Reading{
				{10, 50, "a"},
				{20, 60, "b"},
				{30, 50, "c"},
			},
			same: SharesField,
			want: []Reading{
				{10, 50, "a"},
				{20, 60, "b"},
				{30, 50, "c"},
			},
		},
		{
			name: "exact policy keeps single-field ties",
			in: []Reading{
				{20, 60, "t2"},
				{20, 50, "t1"},
				{20, 50, "t1"},
			},
			same: Identical,
			want: []Reading{
				{20, 50, "t1"},
				{20, 60, "t2"},
			},
		},
		{
			name: "timestamp breaks ties in ordering",
			in: []Reading{
				{5, 5, "02-01-2024 00:00:00"},
				{5, 5, "01-01-2024 00:00:00"},
			},
			same: Identical,
			want: []Reading{
				{5, 5, "01-01-2024 00:00:00"},
				{5, 5, "02-01-2024 00:00:00"},
			},
		},
		{
			name: "empty",
			in:   nil,
			same: SharesField,
			want: []Reading{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch(10)
			for _, r := range tt.in {
				b.Add(r)
			}

			got := b.Compact(tt.same)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compact() = %v, want %v", got, tt.want)
			}
			if b.Len() != len(tt.in) {
				t.Errorf("Compact modified the batch: Len() = %d, want %d", b.Len(), len(tt.in))
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Reading
		want int
	}{
		{Reading{-5, 90, "z"}, Reading{3, 10, "a"}, -1},
		{Reading{3, 10, "a"}, Reading{3, 11, "a"}, -1},
		{Reading{3, 10, "b"}, Reading{3, 10, "a"}, 1},
		{Reading{3, 10, "a"}, Reading{3, 10, "a"}, 0},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestReading_Touch(t *testing.T) {
	var r Reading
	ts := time.Date(2024, time.March, 5, 22, 30, 7, 0, time.UTC)

	r.Touch(ts, Zone(DefaultUTCOffset))

	if r.CapturedAt != "06-03-2024 00:30:07" {
		t.Errorf("CapturedAt = %q, want 06-03-2024 00:30:07", r.CapturedAt)
	}
}

func TestReading_Record(t *testing.T) {
	r := Reading{Temperature: -3, Humidity: 200, CapturedAt: "01-02-2024 10:00:00"}

	want := []string{"-3", "200", "01-02-2024 10:00:00"}
	if got := r.Record(); !reflect.DeepEqual(got, want) {
		t.Errorf("Record() = %v, want %v", got, want)
	}
}

func TestZone(t *testing.T) {
	tests := []struct {
		offset time.Duration
		name   string
	}{
		{2 * time.Hour, "UTC+2"},
		{-5 * time.Hour, "UTC-5"},
		{5*time.Hour + 30*time.Minute, "UTC+5:30"},
	}

	for _, tt := range tests {
		name, secs := time.Date(2024, 1, 1, 0, 0, 0, 0, Zone(tt.offset)).Zone()
		if name != tt.name {
			t.Errorf("Zone(%v) name = %s, want %s", tt.offset, name, tt.name)
		}
		if secs != int(tt.offset.Seconds()) {
			t.Errorf("Zone(%v) offset = %d, want %d", tt.offset, secs, int(tt.offset.Seconds()))
		}
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(ErrDeviceOpen) || !IsFatal(ErrStorageMissing) {
		t.Error("device open and storage missing must be fatal")
	}
	if IsFatal(ErrMalformedFrame) || IsFatal(nil) {
		t.Error("frame errors must not be fatal")
	}
}
