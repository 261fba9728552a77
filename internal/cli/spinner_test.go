package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	statusOut = &buf
	defer func() { statusOut = testStatusOut }()

	s := startSpinner(context.Background(), "Fetching...")
	time.Sleep(200 * time.Millisecond)
	s.stop()
	s.stop() // second stop is a no-op

	if !strings.Contains(buf.String(), "Fetching...") {
		t.Errorf("spinner output %q should contain the message", buf.String())
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, "Exporting...")
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.stop()
}
