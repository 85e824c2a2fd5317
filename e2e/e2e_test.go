//go:build e2e

package e2e_test

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// carveBin is the binary every script runs, built once for the whole suite.
var carveBin string

func TestMain(m *testing.M) {
	os.Exit(runSuite(m))
}

func runSuite(m *testing.M) int {
	binDir, err := os.MkdirTemp("", "carve-e2e-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(binDir) }()

	carveBin = filepath.Join(binDir, "carve")
	//nolint:gosec // Static arguments.
	build := exec.Command("go", "build", "-o", carveBin, "./cmd/carve")
	build.Dir = ".."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("building carve: " + err.Error())
	}
	return m.Run()
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: scriptWorkspace,
		Cmds:  map[string]func(*testscript.TestScript, bool, []string){"facets": facets},
	})
}

// scriptWorkspace puts carve on PATH and keeps linear, uncoloured output so
// scripts can match on it. The worker socket default lands in $WORK.
func scriptWorkspace(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "true")
	env.Setenv("PATH", filepath.Dir(carveBin)+string(os.PathListSeparator)+env.Getenv("PATH"))

	home := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(home, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", home)
	return nil
}

// facets checks the number of triangles in an exported ASCII STL file.
//
//	facets part.stl 12
func facets(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: facets file.stl count")
	}
	want, err := strconv.Atoi(args[1])
	ts.Check(err)

	f, err := os.Open(ts.MkAbs(args[0]))
	ts.Check(err)
	defer func() { _ = f.Close() }()

	got := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.HasPrefix(strings.TrimSpace(sc.Text()), "facet normal") {
			got++
		}
	}
	ts.Check(sc.Err())

	switch {
	case neg && got == want:
		ts.Fatalf("%s has %d facets, want any other count", args[0], got)
	case !neg && got != want:
		ts.Fatalf("%s has %d facets, want %d", args[0], got, want)
	}
}
