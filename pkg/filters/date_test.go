package filters

import (
	"errors"
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		layouts []string
		input   string
		want    time.Time
	}{
		{
			name:    "iso",
			layouts: []string{LayoutISO},
			input:   "2023-03-12",
			want:    time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "day first",
			layouts: []string{LayoutDayFirst},
			input:   "12/03/2023",
			want:    time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "second layout wins",
			layouts: []string{LayoutISO, LayoutDayFirst},
			input:   "31/01/2024",
			want:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "surrounding whitespace",
			layouts: []string{LayoutISO},
			input:   " 2023-03-12 ",
			want:    time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.layouts...).Filter(tt.input)
			if err != nil {
				t.Fatalf("Filter(%q) error = %v", tt.input, err)
			}
			if !got.(time.Time).Equal(tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("no layout matched", func(t *testing.T) {
		_, err := Date(LayoutISO).Filter("12/03/2023")
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FormatError, got %v", err)
		}
	})
}

func TestFuzzyDate_DayFirstIsExplicit(t *testing.T) {
	// The same text parses differently under the two declared orders;
	// nothing is guessed from the value.
	dayFirst, err := FuzzyDate(true).Filter("03/04/2023")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	monthFirst, err := FuzzyDate(false).Filter("03/04/2023")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}

	if d := dayFirst.(time.Time); d.Day() != 3 || d.Month() != time.April {
		t.Errorf("day-first: got %v, want April 3", d)
	}
	if d := monthFirst.(time.Time); d.Day() != 4 || d.Month() != time.March {
		t.Errorf("month-first: got %v, want March 4", d)
	}
}

func TestUnixDate(t *testing.T) {
	got, err := UnixDate().Filter("1678579200")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	want := time.Date(2023, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.(time.Time).Equal(want) {
		t.Errorf("Filter() = %v, want %v", got, want)
	}

	_, err = UnixDate().Filter("soon")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "03:25", want: 3*time.Minute + 25*time.Second},
		{input: "1:02:03", want: time.Hour + 2*time.Minute + 3*time.Second},
		{input: "0:59", want: 59 * time.Second},
		{input: "90", wantErr: true},
		{input: "1:2:3:4", wantErr: true},
		{input: "x:y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Duration().Filter(tt.input)
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("Filter(%q) = %v, want FormatError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Filter(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Filter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
