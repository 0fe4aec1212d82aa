package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var (
	memfsBin string
	projRoot string
	testEnv  *E2ETestEnvironment
)

func TestMain(m *testing.M) {
	var err error

	// Build memfs binary once for all tests
	tmpBinDir, err := os.MkdirTemp("", "memfs-bin")
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := os.RemoveAll(tmpBinDir); err != nil {
			panic(err)
		}
	}()

	memfsBin = filepath.Join(tmpBinDir, "memfs")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot = filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", memfsBin, "./cmd")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	testEnv, err = NewE2ETestEnvironment(memfsBin)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testEnv.Close()
	os.Exit(code)
}

func TestE2EPersistsAcrossRuns(t *testing.T) {
	for _, backend := range []string{"bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			store := testEnv.NewStore(t, backend)

			store.MustRun(t, "mkdir", "docs")
			store.MustRun(t, "touch", "readme.md", "--parent", "root/docs", "--content", "# memfs")
			store.MustRun(t, "touch")
			store.MustRun(t, "touch")

			got := store.MustRun(t, "tree")
			expected := "root/\n  docs/\n    readme.md\n  new file.txt\n  new file.txt(1)\n"
			if got != expected {
				t.Fatalf("tree mismatch:\nexpected: %q\ngot:      %q", expected, got)
			}

			got = store.MustRun(t, "cat", "root/docs/readme.md")
			if got != "# memfs\n" {
				t.Fatalf("content mismatch: got %q", got)
			}
		})
	}
}

func TestE2ERenameAndDelete(t *testing.T) {
	store := testEnv.NewStore(t, "bolt")

	store.MustRun(t, "mkdir", "a")
	store.MustRun(t, "mkdir", "b")
	store.MustRun(t, "touch", "x.txt", "-p", "root/a")
	store.MustRun(t, "rename", "root/a", "c")

	got := store.MustRun(t, "ls")
	if got != "   2  b/\n   1  c/\n" {
		t.Fatalf("listing not re-sorted after rename: got %q", got)
	}

	store.MustRun(t, "rm", "root/c")
	got = store.MustRun(t, "tree")
	if got != "root/\n  b/\n" {
		t.Fatalf("subtree not removed: got %q", got)
	}
}

func TestE2EErrors(t *testing.T) {
	store := testEnv.NewStore(t, "bolt")
	store.MustRun(t, "mkdir", "docs")

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"collision", []string{"mkdir", "docs"}, "already exists"},
		{"missing", []string{"cat", "root/nope"}, "item not found"},
		{"slash in name", []string{"rename", "root/docs", "a/b"}, "invalid name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := store.Run(t, "", tt.args...)
			if err == nil {
				t.Fatalf("expected %v to fail", tt.args)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Fatalf("stderr %q does not mention %q", stderr, tt.stderr)
			}
		})
	}
}

func TestE2EApplyScript(t *testing.T) {
	store := testEnv.NewStore(t, "sqlite")
	script := filepath.Join(t.TempDir(), "ops.yaml")
	body := `
- op: addFolder
  name: projects
  request_id: p
- op: addFile
  path: root/projects
  name: todo.txt
  content: ship it
- op: rename
  path: root/projects/todo.txt
  name: done.txt
`
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	got := store.MustRun(t, "apply", script)
	if lines := strings.Split(strings.TrimSpace(got), "\n"); len(lines) != 3 {
		t.Fatalf("expected one result line per op, got %q", got)
	}
	if !strings.HasPrefix(got, "p\taddFolder\t1\tok\n") {
		t.Fatalf("unexpected first result: %q", got)
	}

	got = store.MustRun(t, "cat", "root/projects/done.txt")
	if got != "ship it\n" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestE2EShell(t *testing.T) {
	store := testEnv.NewStore(t, "bolt")

	input := strings.Join([]string{
		"mkdir music",
		"cd music",
		"touch song.txt la",
		"open song.txt",
		"back",
		"rm song.txt",
		"forward",
		"pwd",
		"exit",
	}, "\n")
	stdout, stderr, err := store.Run(t, input, "shell")
	if err != nil {
		t.Fatalf("shell failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "root/music/song.txt\nla\n") {
		t.Fatalf("open did not print the file: %q", stdout)
	}
	if !strings.Contains(stdout, "error: no next entry in history") {
		t.Fatalf("forward onto a deleted file should fail: %q", stdout)
	}

	got := store.MustRun(t, "tree")
	if got != "root/\n  music/\n" {
		t.Fatalf("shell changes not persisted: got %q", got)
	}
}

// E2ETestEnvironment manages shared resources for all e2e tests
type E2ETestEnvironment struct {
	MemfsBin string
	BaseDir  string
}

// Store is one on-disk tree that successive CLI runs operate on
type Store struct {
	env     *E2ETestEnvironment
	backend string
	path    string
}

// NewE2ETestEnvironment creates the shared scratch directory
func NewE2ETestEnvironment(memfsBinary string) (*E2ETestEnvironment, error) {
	baseDir, err := os.MkdirTemp("", "memfs-e2e-tests")
	if err != nil {
		return nil, err
	}
	return &E2ETestEnvironment{MemfsBin: memfsBinary, BaseDir: baseDir}, nil
}

// Close cleans up the test environment
func (env *E2ETestEnvironment) Close() {
	if env.BaseDir != "" {
		_ = os.RemoveAll(env.BaseDir) // Best effort cleanup
	}
}

// NewStore allocates a fresh store file for backend
func (env *E2ETestEnvironment) NewStore(t *testing.T, backend string) *Store {
	t.Helper()
	dir, err := os.MkdirTemp(env.BaseDir, strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		t.Fatalf("failed to create store dir: %v", err)
	}
	return &Store{env: env, backend: backend, path: filepath.Join(dir, "memfs.db")}
}

// Run executes the binary against the store with stdin as input
func (s *Store) Run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	full := append([]string{"--backend", s.backend, "--store", s.path, "-v", "2"}, args...)
	cmd := exec.Command(s.env.MemfsBin, full...)
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// MustRun is Run without input that fails the test on a non-zero exit
func (s *Store) MustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := s.Run(t, "", args...)
	if err != nil {
		t.Fatalf("%s failed: %v\nstderr:\n%s", fmt.Sprint(args), err, stderr)
	}
	return stdout
}
