package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linejournal/internal/journal"
)

// seededPath is the tracked file of the seeded journal. Its absolute form
// is fixed, so the journal id is stable across machines.
const (
	seededPath = "/watched/notes.txt"
	seededID   = "j1_notes.txt_b8621f.DAT"
)

type cliEnv struct {
	watchDir   string
	journalDir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	return cliEnv{watchDir: t.TempDir(), journalDir: t.TempDir()}
}

// execute runs the root command with the env's directories and args.
func (c cliEnv) execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return c.executeContext(context.Background(), t, args...)
}

func (c cliEnv) executeContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--watch-dir", c.watchDir, "--journal-dir", c.journalDir}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// seed writes three versions of seededPath into the file backend.
func (c cliEnv) seed(t *testing.T) {
	t.Helper()
	backend, err := journal.NewDirBackend(c.journalDir)
	require.NoError(t, err)
	js, err := journal.New(backend, journal.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	versions := []struct {
		ts    string
		lines []string
	}{
		{"2024-12-09 10:00:00", []string{"a", "b"}},
		{"2024-12-09 10:05:00", []string{"a", "c"}},
		{"2024-12-09 10:10:00", []string{"a", "c", "d"}},
	}
	prior := []string{}
	for _, v := range versions {
		res, err := js.Append(ctx, seededPath, v.ts, prior, v.lines)
		require.NoError(t, err)
		require.Equal(t, seededID, res.JournalID)
		prior = v.lines
	}
}

func (c cliEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(c.watchDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestList_Empty(t *testing.T) {
	c := newCLIEnv(t)

	out, _, err := c.execute(t, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestList_JSON(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "--format", "json", "list")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "list_json", []byte(out))
}

func TestShow_Text(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "show", seededID)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "show_text", []byte(out))
}

func TestShow_NotFound(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "show", "j1_other.txt_000000.DAT")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]")
	assert.Contains(t, out, "j1_other.txt_000000.DAT")
}

func TestShow_InvalidID(t *testing.T) {
	c := newCLIEnv(t)

	out, _, err := c.execute(t, "--format", "json", "show", "../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"code":"E_INVALID_ID"`)
}

func TestShow_RequiresArgument(t *testing.T) {
	c := newCLIEnv(t)

	_, _, err := c.execute(t, "show")
	require.Error(t, err)
}

func TestRebuild_Text(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "rebuild", seededID)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "rebuild_text", []byte(out))
}

// Entries before the threshold are skipped, not used as a base.
func TestRebuild_Since(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "rebuild", seededID, "--since", "2024-12-09 10:05:00")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "rebuild_since", []byte(out))
}

func TestRebuild_SinceAfterEverything(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "rebuild", seededID, "--since", "2030-01-01 00:00:00")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRebuild_InvalidSince(t *testing.T) {
	c := newCLIEnv(t)
	c.seed(t)

	out, _, err := c.execute(t, "rebuild", seededID, "--since", "yesterday")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_INVALID_SINCE]")
}

func TestRebuild_NotFound(t *testing.T) {
	c := newCLIEnv(t)

	_, _, err := c.execute(t, "rebuild", seededID)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRebuild_MalformedJournal(t *testing.T) {
	c := newCLIEnv(t)
	id := "j1_bad.txt_000000.DAT"
	require.NoError(t, os.WriteFile(filepath.Join(c.journalDir, id), []byte("not a record\n"), 0o644))

	out, _, err := c.execute(t, "--format", "json", "rebuild", id)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `"code":"E_FORMAT"`)
}

func TestRecord_ThenRebuild(t *testing.T) {
	c := newCLIEnv(t)
	path := c.writeFile(t, "notes.txt", "first\nsecond\n")
	id := journal.Identify(journal.DefaultPrefix, path)

	out, _, err := c.execute(t, "record", path)
	require.NoError(t, err)
	assert.Contains(t, out, id+": +2 entries")

	c.writeFile(t, "notes.txt", "first\nSECOND\nthird\n")
	_, _, err = c.execute(t, "record", path)
	require.NoError(t, err)

	out, _, err = c.execute(t, "rebuild", id)
	require.NoError(t, err)
	assert.Equal(t, "first\nSECOND\nthird\n", out)
}

func TestRecord_DeletedFile(t *testing.T) {
	c := newCLIEnv(t)
	path := c.writeFile(t, "gone.txt", "x\ny\n")
	id := journal.Identify(journal.DefaultPrefix, path)

	_, _, err := c.execute(t, "record", path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	out, _, err := c.execute(t, "--format", "json", "record", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind":"deleted"`)
	assert.Contains(t, out, `"added":2`)

	out, _, err = c.execute(t, "rebuild", id)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRecord_FailureExitCode(t *testing.T) {
	c := newCLIEnv(t)
	dir := filepath.Join(c.watchDir, "dir.txt")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, _, err := c.execute(t, "record", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCompare(t *testing.T) {
	c := newCLIEnv(t)
	path := c.writeFile(t, "cmp.txt", "a\nb\nc\n")

	_, _, err := c.execute(t, "record", path)
	require.NoError(t, err)

	out, _, err := c.execute(t, "compare", path)
	require.NoError(t, err)
	assert.Empty(t, out, "unchanged file should produce no diff")

	c.writeFile(t, "cmp.txt", "a\nx\nc\n")
	out, _, err = c.execute(t, "compare", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--- "+journal.Identify(journal.DefaultPrefix, path))
	assert.Contains(t, out, "-b\n")
	assert.Contains(t, out, "+x\n")
}

func TestSQLiteBackend(t *testing.T) {
	c := newCLIEnv(t)
	path := c.writeFile(t, "db.txt", "one\ntwo\n")
	id := journal.Identify(journal.DefaultPrefix, path)

	_, _, err := c.execute(t, "--backend", "sqlite", "record", path)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(c.journalDir, "journals.db"))
	require.NoError(t, err, "database should default to the journal dir")

	out, _, err := c.execute(t, "--backend", "sqlite", "list")
	require.NoError(t, err)
	assert.Equal(t, id+"\n", out)

	out, _, err = c.execute(t, "--backend", "sqlite", "rebuild", id)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out)

	// The file backend holds nothing.
	out, _, err = c.execute(t, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigFile(t *testing.T) {
	c := newCLIEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "linejournal.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("retention: 2\nformat: legacy\nprefix: j2\n"), 0o644))

	path := c.writeFile(t, "cfg.txt", "l1\nl2\nl3\n")
	_, _, err := c.execute(t, "--config", cfgPath, "record", path)
	require.NoError(t, err)

	id := journal.Identify("j2", path)
	out, _, err := c.execute(t, "--config", cfgPath, "show", id)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ", added, l2: l2"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ", added, l3: l3"), lines[1])
}

func TestInvalidConfig(t *testing.T) {
	c := newCLIEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("retention: 0\n"), 0o644))

	out, _, err := c.execute(t, "--config", cfgPath, "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_CONFIG]")
}

func TestWatch_RecordsChanges(t *testing.T) {
	c := newCLIEnv(t)
	path := filepath.Join(c.watchDir, "live.txt")
	id := journal.Identify(journal.DefaultPrefix, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := c.executeContext(ctx, t, "watch")
		done <- err
	}()

	// The watcher may not be registered yet; keep writing until a journal
	// shows up.
	journalFile := filepath.Join(c.journalDir, id)
	deadline := time.Now().Add(10 * time.Second)
	for i := 0; ; i++ {
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("line\n", i+1)), 0o644))
		if _, err := os.Stat(journalFile); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watch never created a journal")
		}
		time.Sleep(100 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
