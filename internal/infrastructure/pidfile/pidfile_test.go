package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidfleet/controller/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-daemon.TEST.r1.pid")
	pf := pidfile.New(path)

	require.NoError(t, pf.Acquire())
	assert.FileExists(t, path)

	require.NoError(t, pf.Release())
	assert.NoFileExists(t, path)
}

func TestPIDFile_Release_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-daemon.TEST.r2.pid")
	pf := pidfile.New(path)

	assert.NoError(t, pf.Release())
}

func TestPIDFile_Acquire_ReclaimsStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-daemon.TEST.r3.pid")

	// A PID unlikely to belong to a live process.
	require.NoError(t, os.WriteFile(path, []byte("999999\n"), 0644))

	pf := pidfile.New(path)
	require.NoError(t, pf.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "999999\n", string(data))

	require.NoError(t, pf.Release())
}

func TestPIDFile_Acquire_RefusesWhileHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet-daemon.TEST.r4.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644))

	pf := pidfile.New(path)
	err := pf.Acquire()

	// os.Getpid() names this very test process, which is unambiguously
	// alive, so Acquire must refuse rather than reclaim the file.
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}
