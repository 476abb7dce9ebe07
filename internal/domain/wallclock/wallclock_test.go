package wallclock

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateTimeToleratesSuffixes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "2024-03-15T09:30:00", "2024-03-15T09:30:00"},
		{"fractional seconds", "2024-03-15T09:30:00.123456", "2024-03-15T09:30:00"},
		{"zone suffix", "2024-03-15T09:30:00+08:00", "2024-03-15T09:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDateTime(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if d.String() != tt.want {
				t.Errorf("got %q, want %q", d, tt.want)
			}
		})
	}

	if _, err := ParseDateTime("not a time"); err == nil {
		t.Error("garbage input accepted")
	}
}

func TestDateTimeJSONRoundTrip(t *testing.T) {
	d, err := ParseDateTime("2024-03-15T09:30:00")
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-03-15T09:30:00"` {
		t.Errorf("marshal = %s", data)
	}

	var back DateTime
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip changed value: %s != %s", back, d)
	}

	var zero DateTime
	data, _ = json.Marshal(zero)
	if string(data) != "null" {
		t.Errorf("zero value marshals to %s, want null", data)
	}
	if err := json.Unmarshal([]byte("null"), &back); err != nil || !back.IsZero() {
		t.Errorf("null should unmarshal to the zero value, got %s (err %v)", back, err)
	}
}

func TestAtDropsSubsecondPrecision(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 30, 0, 123456789, time.Local)
	if got := At(now).String(); got != "2024-03-15T09:30:00" {
		t.Errorf("got %q", got)
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2024, 3, 15, 14, 45, 12, 0, time.Local)
	start, end := DayBounds(at)
	if start.String() != "2024-03-15T00:00:00" {
		t.Errorf("start = %q", start)
	}
	if end.String() != "2024-03-15T23:59:59" {
		t.Errorf("end = %q", end)
	}
}

func TestDateUnmarshalTruncatesDatetime(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-15T09:30:00"`), &d); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("got %q", d)
	}
}

func TestDateOf(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 59, 59, 0, time.Local)
	if got := DateOf(at).String(); got != "2024-03-15" {
		t.Errorf("got %q", got)
	}
}
