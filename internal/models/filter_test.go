package models

import "testing"

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"active", FilterActive},
		{"Completed", FilterCompleted},
		{"", FilterAll},
		{"bogus", FilterAll},
	}

	for _, tt := range tests {
		if got := ParseFilter(tt.in); got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilter_Includes(t *testing.T) {
	open := Task{Completed: false}
	done := Task{Completed: true}

	tests := []struct {
		filter   Filter
		openWant bool
		doneWant bool
	}{
		{FilterAll, true, true},
		{FilterActive, true, false},
		{FilterCompleted, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := tt.filter.Includes(open); got != tt.openWant {
				t.Errorf("open task: expected %v, got %v", tt.openWant, got)
			}
			if got := tt.filter.Includes(done); got != tt.doneWant {
				t.Errorf("done task: expected %v, got %v", tt.doneWant, got)
			}
		})
	}
}
