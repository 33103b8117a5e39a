package runtimepath

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	assert.NilError(t, err)
	assert.Equal(t, got, td)
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	assert.NilError(t, err)

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/antiafk-runtime-%d", os.Getuid())
	assert.Assert(t, got == wantRun || got == wantTmp, "Dir() = %q, want %q or %q", got, wantRun, wantTmp)
}

func TestSocketPathAndLockPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	assert.NilError(t, err)
	assert.Assert(t, strings.HasSuffix(socket, "/antiafk.sock"), "SocketPath() = %q", socket)

	lock, err := LockPath()
	assert.NilError(t, err)
	assert.Assert(t, strings.HasSuffix(lock, "/antiafk.lock"), "LockPath() = %q", lock)
	assert.Assert(t, strings.HasPrefix(lock, td))
}
