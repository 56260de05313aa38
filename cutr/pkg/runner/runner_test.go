package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/cutr-cli/cutr/cutr/pkg/clilog"
	"github.com/cutr-cli/cutr/cutr/pkg/clipper"
	"github.com/cutr-cli/cutr/cutr/pkg/cutconf"
)

func config(t *testing.T, e func(clipper.SelectionList) clipper.Extraction, spec string) cutconf.Config {
	t.Helper()
	list, err := clipper.ParseSelection(spec)
	require.NoError(t, err)
	return cutconf.Config{
		Extraction:      e(list),
		Delimiter:       '\t',
		OutputDelimiter: '\t',
		Jobs:            1,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, cfg cutconf.Config, stdin string, files ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rn := New(cfg,
		WithStdin(strings.NewReader(stdin)),
		WithStdout(&stdout),
		WithStderr(&stderr),
	)
	err := rn.Run(context.Background(), files)
	return stdout.String(), stderr.String(), err
}

func TestRunChars(t *testing.T) {
	out, _, err := run(t, config(t, clipper.Chars, "1-3,7"), "abcdefgh\nábc\n", "-")
	require.NoError(t, err)
	require.Equal(t, "abcg\nábc\n", out)
}

func TestRunBytes(t *testing.T) {
	out, _, err := run(t, config(t, clipper.Bytes, "1"), "ábc\nxyz\n", "-")
	require.NoError(t, err)
	require.Equal(t, "�\nx\n", out)
}

func TestRunLineEndings(t *testing.T) {
	out, _, err := run(t, config(t, clipper.Chars, "1-10"), "one\r\ntwo\n\nlast", "-")
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\n\nlast\n", out)
}

func TestRunOutOfRangeGivesEmptyLines(t *testing.T) {
	out, _, err := run(t, config(t, clipper.Chars, "10"), "abc\nde\n", "-")
	require.NoError(t, err)
	require.Equal(t, "\n\n", out)
}

func TestRunFields(t *testing.T) {
	out, _, err := run(t, config(t, clipper.Fields, "2"), "x\ty\tz\na\tb\nsolo\n", "-")
	require.NoError(t, err)
	require.Equal(t, "y\nb\n\n", out)
}

func TestRunFieldsDelimiters(t *testing.T) {
	cfg := config(t, clipper.Fields, "3,1")
	cfg.Delimiter = ','
	cfg.OutputDelimiter = '|'

	out, _, err := run(t, cfg, "a,b,c\n\"d,e\",f,\"g|h\"\n", "-")
	require.NoError(t, err)
	require.Equal(t, "c|a\n\"g|h\"|d,e\n", out)
}

func TestRunFieldsKeepsDelimiterInsideQuotes(t *testing.T) {
	cfg := config(t, clipper.Fields, "1")
	cfg.Delimiter = ','
	cfg.OutputDelimiter = ','

	out, _, err := run(t, cfg, "\"Sham, Captain\",12345\n", "-")
	require.NoError(t, err)
	require.Equal(t, "\"Sham, Captain\"\n", out)
}

func TestRunFilesInOrderAndSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha\n")
	b := writeFile(t, dir, "b.txt", "bravo\n")
	missing := filepath.Join(dir, "missing.txt")

	out, stderr, err := run(t, config(t, clipper.Chars, "1"), "stdin\n", b, missing, "-", a)
	require.NoError(t, err)
	require.Equal(t, "b\ns\na\n", out)
	require.True(t, strings.HasPrefix(stderr, missing+": "))
	require.Contains(t, stderr, "no such file or directory")
}

func TestRunReadErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")

	for _, e := range []func(clipper.SelectionList) clipper.Extraction{clipper.Chars, clipper.Fields} {
		var stdout bytes.Buffer
		rn := New(config(t, e, "2"),
			WithStdin(io.MultiReader(strings.NewReader("a\tb\n"), iotest.ErrReader(boom))),
			WithStdout(&stdout),
			WithStderr(io.Discard),
		)

		err := rn.Run(context.Background(), []string{"-", "-"})
		require.Error(t, err)
		require.True(t, errors.Is(err, boom))
		require.True(t, strings.HasPrefix(err.Error(), "-: "))
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rn := New(config(t, clipper.Chars, "1"),
		WithStdin(strings.NewReader("abc\n")),
		WithStdout(io.Discard),
	)
	err := rn.Run(ctx, []string{"-"})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRunParallelMatchesSequential(t *testing.T) {
	var input strings.Builder
	for i := 0; i < 3*batchSize+17; i++ {
		fmt.Fprintf(&input, "%d\tline-%d\tü%d\n", i, i, i%7)
	}

	for _, tt := range []struct {
		e    func(clipper.SelectionList) clipper.Extraction
		spec string
	}{
		{clipper.Chars, "3-6,1,1"},
		{clipper.Bytes, "2-4"},
		{clipper.Fields, "3,1"},
	} {
		cfg := config(t, tt.e, tt.spec)
		want, _, err := run(t, cfg, input.String(), "-")
		require.NoError(t, err)

		cfg.Jobs = 4
		got, _, err := run(t, cfg, input.String(), "-")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestNewDefaultsJobs(t *testing.T) {
	rn := New(cutconf.Config{Jobs: 0})
	require.Equal(t, 1, rn.cfg.Jobs)
}

// readLine reads one line of output, failing the test if none arrives in time.
func readLine(t *testing.T, out *bufio.Reader) string {
	t.Helper()
	got := make(chan string, 1)
	go func() {
		line, _ := out.ReadString('\n')
		got <- line
	}()
	select {
	case line := <-got:
		return line
	case <-time.After(5 * time.Second):
		t.Fatal("no output while input is still open")
		return ""
	}
}

func TestRunStreamsOpenInput(t *testing.T) {
	for _, tt := range []struct {
		e     func(clipper.SelectionList) clipper.Extraction
		jobs  int
		first string
		next  string
	}{
		{clipper.Chars, 1, "a\n", "d\n"},
		{clipper.Chars, 4, "a\n", "d\n"},
		{clipper.Fields, 1, "abc\n", "def\n"},
		{clipper.Fields, 4, "abc\n", "def\n"},
	} {
		cfg := config(t, tt.e, "1")
		cfg.Jobs = tt.jobs

		stdinR, stdinW := io.Pipe()
		stdoutR, stdoutW := io.Pipe()
		ctx, cancel := context.WithCancel(context.Background())

		rn := New(cfg, WithStdin(stdinR), WithStdout(stdoutW), WithStderr(io.Discard))
		done := make(chan error, 1)
		go func() { done <- rn.Run(ctx, []string{"-"}) }()

		out := bufio.NewReader(stdoutR)
		_, err := io.WriteString(stdinW, "abc\txyz\n")
		require.NoError(t, err)
		require.Equal(t, tt.first, readLine(t, out))
		_, err = io.WriteString(stdinW, "def\tuvw\n")
		require.NoError(t, err)
		require.Equal(t, tt.next, readLine(t, out))

		cancel()
		_, err = io.WriteString(stdinW, "1\n2\n3\n4\n5\n")
		require.NoError(t, err)

		select {
		case err := <-done:
			require.True(t, errors.Is(err, context.Canceled))
		case <-time.After(5 * time.Second):
			t.Fatal("run kept reading after cancel")
		}
		stdinW.Close()
		stdoutR.Close()
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRunReportsLostOutputOnReadError(t *testing.T) {
	var logs bytes.Buffer
	rn := New(config(t, clipper.Chars, "1"),
		WithStdin(io.MultiReader(strings.NewReader("abc\n"), iotest.ErrReader(errors.New("boom")))),
		WithStdout(failingWriter{}),
		WithStderr(io.Discard),
		WithLogger(clilog.New(&logs, false)),
	)

	err := rn.Run(context.Background(), []string{"-"})
	require.Error(t, err)
	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "disk full")
}

func TestReadBatchStopsWhenNothingBuffered(t *testing.T) {
	items := []int{1, 2, 3}
	next := func() (int, error) {
		if len(items) == 0 {
			return 0, io.EOF
		}
		n := items[0]
		items = items[1:]
		return n, nil
	}
	buffered := func() bool { return len(items) != 2 }

	batch, err := readBatch(next, buffered)
	require.NoError(t, err)
	require.Equal(t, []int{1}, batch)

	batch, err = readBatch(next, buffered)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, batch)

	batch, err = readBatch(next, buffered)
	require.NoError(t, err)
	require.Empty(t, batch)
}
