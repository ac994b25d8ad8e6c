package moonlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestGuardRecoversPanic(t *testing.T) {
	err := guard(func() error { panic("boom") })
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PanicError", err)
	}
	if pe.Value != "boom" {
		t.Errorf("value = %v", pe.Value)
	}
	if !strings.Contains(pe.Stack, "goroutine") {
		t.Error("stack missing")
	}
	if !strings.Contains(pe.Error(), "boom") {
		t.Errorf("Error() = %q", pe.Error())
	}
}

func TestGuardPassesErrors(t *testing.T) {
	want := errors.New("plain")
	if err := guard(func() error { return want }); err != want {
		t.Errorf("err = %v, want %v", err, want)
	}
	if err := guard(func() error { return nil }); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestOverlayReporter(t *testing.T) {
	r := &OverlayReporter{}
	dst := ebiten.NewImage(320, 240)
	r.Draw(dst) // no-op before a report
	if r.Reported() {
		t.Fatal("fresh reporter should be empty")
	}
	r.Report("nil moon", strings.Repeat("frame\n", overlayMaxLines+10))
	if !r.Reported() || r.Message != "nil moon" {
		t.Errorf("report not stored: %+v", r)
	}
	r.Draw(dst)
}
