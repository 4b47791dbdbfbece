// internal/integration/pipe_integration_test.go
package integration

import (
	"bytes"
	"errors"
	"syscall"
	"testing"

	"abm/internal/app"
)

// errWriter fails every write with a fixed error.
type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestBrokenPipeExitsZero(t *testing.T) {
	clearEnv(t)
	var errBuf bytes.Buffer
	code := app.Run(smallBatch, errWriter{syscall.EPIPE}, &errBuf)
	if code != 0 {
		t.Fatalf("exit %d on broken pipe, want 0 (stderr %q)", code, errBuf.String())
	}
}

func TestWriteErrorExitsThree(t *testing.T) {
	clearEnv(t)
	var errBuf bytes.Buffer
	code := app.Run(smallBatch, errWriter{errors.New("disk full")}, &errBuf)
	if code != 3 {
		t.Fatalf("exit %d on write error, want 3 (stderr %q)", code, errBuf.String())
	}
}
