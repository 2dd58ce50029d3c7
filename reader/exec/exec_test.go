package exec

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sonnes/actionlog/command"
	"github.com/sonnes/actionlog/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sh(script string) *Reader {
	return &Reader{Name: "sh", Args: []string{"-c", script}}
}

func TestReadStdout(t *testing.T) {
	got, err := reader.Collect(context.Background(), sh(`echo Building...; echo "::notice::ok"; echo Done`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Building...", "::notice::ok", "Done"}, got)
}

func TestReadMergesStderr(t *testing.T) {
	got, err := reader.Collect(context.Background(), sh(`echo out; echo err >&2`))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"out", "err"}, got)
}

func TestReadRewritesScriptErrors(t *testing.T) {
	r := sh(`echo "/tmp/x.sh: line 3: foo: command not found" >&2`)
	r.ErrorFormat = command.V2

	got, err := reader.Collect(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"::error title=foo::At Line 3: command not found"}, got)
}

func TestReadEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	r := sh(`echo "$GREETING"; pwd`)
	r.Env = []string{"GREETING=hello"}
	r.Dir = dir

	got, err := reader.Collect(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0])
	assert.Contains(t, got[1], dir)
}

func TestReadExitCode(t *testing.T) {
	got, err := reader.Collect(context.Background(), sh(`echo partial; exit 3`))
	require.Error(t, err)
	assert.Equal(t, []string{"partial"}, got)
	assert.Equal(t, 3, ExitCode(err))
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, -1, ExitCode(errors.New("boom")))
}

func TestReadStopsOnEmitError(t *testing.T) {
	stop := errors.New("stop")
	r := sh(`i=0; while true; do echo $i; i=$((i+1)); done`)
	err := r.Read(context.Background(), func(string) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestReadOversizedLine(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r := sh(`head -c 2000000 /dev/zero | tr '\0' a; echo
i=0; while [ $i -lt 5000 ]; do echo "line $i"; i=$((i+1)); done
echo done`)
	got, err := reader.Collect(ctx, r)
	require.NoError(t, err)
	require.Len(t, got, 5002)
	assert.Len(t, got[0], reader.MaxLineSize)
	assert.Equal(t, "line 4999", got[5000])
	assert.Equal(t, "done", got[5001])
}

// flakyReader fails its first read and then serves data until EOF.
type flakyReader struct {
	failed bool
	data   *strings.Reader
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if !f.failed {
		f.failed = true
		return 0, errors.New("read failed")
	}
	return f.data.Read(p)
}

func TestPumpDrainsAfterReadError(t *testing.T) {
	rd := &flakyReader{data: strings.NewReader(strings.Repeat("x\n", 100000))}
	out := make(chan string)

	err := pump(context.Background(), rd, out, nil)
	require.Error(t, err)
	assert.Zero(t, rd.data.Len(), "remaining output is discarded")
}

func TestReadStartError(t *testing.T) {
	r := &Reader{Name: "/nonexistent/actionlog-binary"}
	err := r.Read(context.Background(), func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}
