package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Josh-Grafman/boatrental/internal/logging"
)

func TestTargets(t *testing.T) {
	tests := []struct {
		name string
		got  Target
		want Target
	}{
		{"boat", BoatRecord("b-1"), Target{Page: BoatPage, ID: "b-1"}},
		{"new boat", NewBoat(), Target{Page: NewBoatPage}},
		{"user", UserRecord("u-9"), Target{Page: UserPage, ID: "u-9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	if _, ok := r.Last(); ok {
		t.Error("Last() on empty recorder should report false")
	}

	r.Notice(Notice{Title: "Success", Message: "Ship it!", Variant: Success})
	r.Notice(Notice{Title: "Error", Message: "nope", Variant: Error})
	r.Navigate(BoatRecord("b-1"))

	if got := len(r.Notices()); got != 2 {
		t.Errorf("Notices() len = %d, want 2", got)
	}
	if r.Count(Error) != 1 || r.Count(Success) != 1 || r.Count(Info) != 0 {
		t.Error("Count() mismatch")
	}
	last, _ := r.Last()
	if last.Message != "nope" {
		t.Errorf("Last() = %+v", last)
	}
	if targets := r.Targets(); len(targets) != 1 || targets[0].ID != "b-1" {
		t.Errorf("Targets() = %+v", targets)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logging.NewWriterLogger(&buf, logging.LevelInfo))

	n.Notice(Notice{Title: "Review Created!", Variant: Success})
	n.Notice(Notice{Title: "Error", Message: "fetch failed", Variant: Error})

	out := buf.String()
	for _, want := range []string{"Review Created!", "fetch failed", `"level":"ERROR"`, `"component":"notice"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestFuncAdapters(t *testing.T) {
	var gotNotice Notice
	var gotTarget Target
	var n Notifier = NotifierFunc(func(no Notice) { gotNotice = no })
	var nav Navigator = NavigatorFunc(func(tg Target) { gotTarget = tg })

	n.Notice(Notice{Title: "x"})
	nav.Navigate(NewBoat())

	if gotNotice.Title != "x" || gotTarget.Page != NewBoatPage {
		t.Error("adapters should forward their argument")
	}
}
