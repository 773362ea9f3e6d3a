package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func executeCommand(args ...string) (string, string, error) {
	root := newRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

type runnerServer struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
}

func newRunnerServer(t *testing.T, status int, reply string) (*httptest.Server, *runnerServer) {
	t.Helper()
	rs := &runnerServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.paths = append(rs.paths, r.URL.Path)
		rs.bodies = append(rs.bodies, string(body))
		rs.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, rs
}

func TestCLIHelp(t *testing.T) {
	out, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, phrase := range []string{"coderunner", "run", "languages", "history", "theme", "--endpoint-base", "--ephemeral"} {
		if !strings.Contains(out, phrase) {
			t.Errorf("help output should contain %q", phrase)
		}
	}
}

func TestCLILanguages(t *testing.T) {
	out, _, err := executeCommand("languages", "--ephemeral")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, phrase := range []string{"main.js", "main.py", "main.c", "main.cpp", "main.java", "https://java-app-e7h2.onrender.com/run-java"} {
		if !strings.Contains(out, phrase) {
			t.Errorf("languages output should contain %q", phrase)
		}
	}
}

func TestCLIRunFileInfersLanguage(t *testing.T) {
	srv, rs := newRunnerServer(t, http.StatusOK, "Hello, World!\n")
	file := filepath.Join(t.TempDir(), "hello.py")
	if err := os.WriteFile(file, []byte(`print("Hello, World!")`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := executeCommand("run", "--ephemeral", "--endpoint-base", srv.URL, file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello, World!\n" {
		t.Fatalf("expected verbatim output, got %q", out)
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.paths) != 1 || rs.paths[0] != "/api/run-python" || rs.bodies[0] != `print("Hello, World!")` {
		t.Fatalf("unexpected requests %v %v", rs.paths, rs.bodies)
	}
}

func TestCLIRunStdinHTTPError(t *testing.T) {
	srv, _ := newRunnerServer(t, http.StatusInternalServerError, "boom")
	root := newRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader("int main() { return 0; }"))
	root.SetArgs([]string{"run", "--ephemeral", "--endpoint-base", srv.URL, "--lang", "c"})

	err := root.Execute()
	if err != errRunFailed {
		t.Fatalf("expected errRunFailed, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no stdout, got %q", stdout.String())
	}
	if stderr.String() != "HTTP error! status: 500\n" {
		t.Fatalf("expected only the runner message on stderr, got %q", stderr.String())
	}
}

func TestCLIRunBlankCodeMakesNoRequest(t *testing.T) {
	srv, rs := newRunnerServer(t, http.StatusOK, "x")
	_, stderr, err := executeCommand("run", "--ephemeral", "--endpoint-base", srv.URL, "-l", "js", "-c", "   ")
	if err != errRunFailed {
		t.Fatalf("expected errRunFailed, got %v", err)
	}
	if !strings.Contains(stderr, "Please enter some code to run") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.paths) != 0 {
		t.Fatalf("expected no request, got %v", rs.paths)
	}
}

func TestCLIRunNeedsLanguage(t *testing.T) {
	_, _, err := executeCommand("run", "--ephemeral", "-c", "  ")
	if err == nil || !strings.Contains(err.Error(), "language required") {
		t.Fatalf("expected language error, got %v", err)
	}
}

func TestCLIRunDetectsShebang(t *testing.T) {
	srv, rs := newRunnerServer(t, http.StatusOK, "1\n")
	stdout, _, err := executeCommand("run", "--ephemeral", "--endpoint-base", srv.URL,
		"-c", "#!/usr/bin/env python3\nprint(1)\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "1\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.paths) != 1 || !strings.Contains(rs.paths[0], "python") {
		t.Fatalf("expected python endpoint, got %v", rs.paths)
	}
}

func TestCLIThemeAndHistoryPersist(t *testing.T) {
	dir := t.TempDir()

	out, _, err := executeCommand("theme", "--data-dir", dir)
	if err != nil || strings.TrimSpace(out) != "dark" {
		t.Fatalf("expected default dark, got %q (%v)", out, err)
	}
	if _, _, err := executeCommand("theme", "--data-dir", dir, "light"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	out, _, err = executeCommand("theme", "--data-dir", dir)
	if err != nil || strings.TrimSpace(out) != "light" {
		t.Fatalf("expected light, got %q (%v)", out, err)
	}
	if _, _, err := executeCommand("theme", "--data-dir", dir, "sepia"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}

	srv, _ := newRunnerServer(t, http.StatusOK, "3\n")
	if _, _, err := executeCommand("run", "--data-dir", dir, "--endpoint-base", srv.URL, "-l", "cpp", "-c", "int main(){}"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, _, err = executeCommand("history", "--data-dir", dir)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "runs: 1  succeeded: 1") || !strings.Contains(out, "cpp") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errRunFailed)
	if buf.Len() != 0 {
		t.Fatalf("expected run failure left to the run output, got %q", buf.String())
	}
	reportError(&buf, errors.New("bad flag"))
	if buf.String() != "Error: bad flag\n" {
		t.Fatalf("unexpected report %q", buf.String())
	}
}
