package catalog_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mulhim/planner/internal/catalog"
)

func TestParseReps(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.Reps
		wantErr bool
	}{
		{in: "12", want: catalog.Count(12)},
		{in: "8-12", want: catalog.Range(8, 12)},
		{in: "5 min", want: catalog.Timed(5, "min")},
		{in: " 45 sec ", want: catalog.Timed(45, "sec")},
		{in: "", wantErr: true},
		{in: "many", wantErr: true},
		{in: "12-8", wantErr: true},
		{in: "0", wantErr: true},
		{in: "8-x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := catalog.ParseReps(tt.in)
			if tt.wantErr {
				if !errors.Is(err, catalog.ErrInvalidReps) {
					t.Fatalf("ParseReps(%q) error = %v, want ErrInvalidReps", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReps(%q) unexpected error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseReps(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestReps_Kinds(t *testing.T) {
	if !catalog.Range(8, 12).IsRange() {
		t.Error("8-12 should be a range")
	}
	if catalog.Count(10).IsRange() {
		t.Error("10 should not be a range")
	}
	if !catalog.Timed(5, "min").IsTimed() || catalog.Timed(5, "min").IsRange() {
		t.Error("5 min should be timed and not a range")
	}
}

func TestReps_JSON(t *testing.T) {
	type wrapper struct {
		Reps catalog.Reps `json:"reps"`
	}
	data, err := json.Marshal(wrapper{Reps: catalog.Range(10, 15)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"reps":"10-15"}`; got != want {
		t.Errorf("marshal = %s, want %s", got, want)
	}

	var w wrapper
	if err = json.Unmarshal([]byte(`{"reps":"3 min"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Reps != catalog.Timed(3, "min") {
		t.Errorf("unmarshal = %+v, want 3 min", w.Reps)
	}
	if err = json.Unmarshal([]byte(`{"reps":"lots"}`), &w); err == nil {
		t.Error("expected error for invalid reps")
	}
}
