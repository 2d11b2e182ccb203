//go:build unit
// +build unit

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAsset(t *testing.T) {
	qasm, err := GetAsset("bell_pair.qasm")
	assert.Nil(t, err)
	assert.Equal(t, "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n\nqreg q[2];\ncreg c[2];\n\nh q[0];\ncx q[0],q[1];\nmeasure q -> c;", qasm)
}

func TestGetAssetNotFound(t *testing.T) {
	_, err := GetAsset("no_such_file.qasm")
	assert.NotNil(t, err)
}

func TestIsDirWritable(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, IsDirWritable(dir))

	file := filepath.Join(dir, "file.txt")
	require.Nil(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.EqualError(t, IsDirWritable(file), file+" is not a directory")
	assert.EqualError(t, IsDirWritable(filepath.Join(dir, "missing")),
		"directory does not exist: "+filepath.Join(dir, "missing"))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.Nil(t, WriteFile(path, "{}"))
	s, err := ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, "{}", s)
}
