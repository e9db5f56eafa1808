// Package fixtures loads compiled contract artifacts and deployment
// manifests shared by the integration tests.
package fixtures

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func dir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

func read(t *testing.T, parts ...string) []byte {
	t.Helper()
	path := filepath.Join(append([]string{dir()}, parts...)...)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "loading fixture %s", path)
	return data
}

// MiningArtifact parses the compiler ABI of the mining contract for a users()
// layout version (abis/mining_<version>.json).
func MiningArtifact(t *testing.T, version string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(bytes.NewReader(read(t, "abis", "mining_"+version+".json")))
	require.NoError(t, err)
	return parsed
}

// Manifest returns the raw bytes of a deployments manifest under manifests/.
func Manifest(t *testing.T, name string) []byte {
	t.Helper()
	return read(t, "manifests", name)
}
