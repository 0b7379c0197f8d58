package term

import (
	"testing"

	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
)

func transientCaptureErr(target string) error {
	return spyerrors.NewWatchError(target, spyerrors.New("capture failed"))
}

func detachedCaptureErr(target string) error {
	return spyerrors.NewWatchError(target, spyerrors.ErrGridDetached)
}

func TestTmuxGrid_CapturePopulatesGrid(t *testing.T) {
	g := NewTmuxGrid("demo:0.0")
	g.captureFn = func(string) (string, error) { return "alpha\nbeta\ngamma\n", nil }

	var gotStart, gotEnd int
	g.OnRangeChanged(func(start, end int) { gotStart, gotEnd = start, end })

	g.capture()

	if g.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", g.Rows())
	}
	if g.Line(1) != "beta" {
		t.Errorf("Line(1) = %q, want beta", g.Line(1))
	}
	if gotStart != 0 || gotEnd != 2 {
		t.Errorf("range = [%d, %d], want [0, 2]", gotStart, gotEnd)
	}
}

func TestTmuxGrid_TransientFailuresDetachAtThreshold(t *testing.T) {
	g := NewTmuxGrid("demo:0.0")
	g.captureFn = func(target string) (string, error) { return "", transientCaptureErr(target) }

	var detaches []error
	g.OnDetached(func(err error) { detaches = append(detaches, err) })

	for i := 0; i < maxConsecutiveCaptureFailures-1; i++ {
		g.capture()
	}
	if len(detaches) != 0 {
		t.Fatalf("detached after %d failures, want threshold %d",
			maxConsecutiveCaptureFailures-1, maxConsecutiveCaptureFailures)
	}

	g.capture()

	if g.Rows() != 0 {
		t.Error("Rows() != 0 after detachment")
	}
	if len(detaches) != 1 {
		t.Fatalf("detach notifications = %d, want 1", len(detaches))
	}
	if !spyerrors.Is(detaches[0], spyerrors.ErrGridDetached) {
		t.Errorf("detach error = %v, want to wrap ErrGridDetached", detaches[0])
	}

	// Further failures must not re-notify.
	g.capture()
	if len(detaches) != 1 {
		t.Errorf("detach notifications = %d after extra failure, want 1", len(detaches))
	}
}

func TestTmuxGrid_GoneTargetDetachesImmediately(t *testing.T) {
	g := NewTmuxGrid("demo:0.0")
	g.captureFn = func(target string) (string, error) { return "", detachedCaptureErr(target) }

	var count int
	g.OnDetached(func(err error) { count++ })

	g.capture()

	if g.Rows() != 0 {
		t.Error("Rows() != 0 after the target vanished")
	}
	if count != 1 {
		t.Errorf("detach notifications = %d, want 1", count)
	}
}

func TestTmuxGrid_SuccessResetsFailureCount(t *testing.T) {
	failing := true
	g := NewTmuxGrid("demo:0.0")
	g.captureFn = func(target string) (string, error) {
		if failing {
			return "", transientCaptureErr(target)
		}
		return "recovered\n", nil
	}

	var count int
	g.OnDetached(func(err error) { count++ })

	for i := 0; i < maxConsecutiveCaptureFailures-1; i++ {
		g.capture()
	}
	failing = false
	g.capture()

	if g.Rows() != 1 || g.Line(0) != "recovered" {
		t.Errorf("grid = %d rows, Line(0)=%q", g.Rows(), g.Line(0))
	}

	// The counter restarted; the next failure streak needs the full
	// threshold again.
	failing = true
	for i := 0; i < maxConsecutiveCaptureFailures-1; i++ {
		g.capture()
	}
	if count != 0 {
		t.Errorf("detach notifications = %d, want 0", count)
	}
}

func TestTmuxGrid_NoDetachNotificationAfterStop(t *testing.T) {
	g := NewTmuxGrid("demo:0.0")
	g.captureFn = func(target string) (string, error) { return "", detachedCaptureErr(target) }

	var count int
	g.OnDetached(func(err error) { count++ })

	g.Stop()
	g.capture()

	if count != 0 {
		t.Errorf("detach notifications after Stop = %d, want 0", count)
	}
}
