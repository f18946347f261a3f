package sysaccess

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSystem_RunCommand(t *testing.T) {
	m := NewMockSystem()
	m.SeedCommand([]string{"lscpu"}, CommandResult{Success: true, Stdout: "Architecture: x86_64\n"})

	res := m.RunCommand(context.Background(), []string{"lscpu"})
	require.True(t, res.Success)
	require.Contains(t, res.Stdout, "x86_64")
}

func TestMockSystem_RunCommand_NotSeeded(t *testing.T) {
	m := NewMockSystem()
	res := m.RunCommand(context.Background(), []string{"nope"})
	require.False(t, res.Success)
	require.NotEmpty(t, res.Error)
}

func TestMockSystem_ReadFile(t *testing.T) {
	m := NewMockSystem()
	m.SeedFile("/proc/cpuinfo", "model name: Foo\n")

	content, ok := m.ReadFile("/proc/cpuinfo")
	require.True(t, ok)
	require.Contains(t, content, "Foo")

	_, ok = m.ReadFile("/missing")
	require.False(t, ok)
}

func TestMockSystem_FileExists(t *testing.T) {
	m := NewMockSystem()
	m.SeedFile("/sys/class/net/eth0/speed", "1000")
	require.True(t, m.FileExists("/sys/class/net/eth0/speed"))
	require.False(t, m.FileExists("/sys/class/net/eth1/speed"))
}

func TestLinuxSystem_ReadFile_TrimsOneNewline(t *testing.T) {
	s := NewLinuxSystem()
	dir := t.TempDir()
	path := dir + "/f.txt"
	require.NoError(t, writeFile(path, "hello\n\n"))

	content, ok := s.ReadFile(path)
	require.True(t, ok)
	require.Equal(t, "hello\n", content)
}

func TestLinuxSystem_FileExists(t *testing.T) {
	s := NewLinuxSystem()
	dir := t.TempDir()
	path := dir + "/f.txt"
	require.NoError(t, writeFile(path, "x"))
	require.True(t, s.FileExists(path))
	require.False(t, s.FileExists(dir+"/nope.txt"))
}

func TestLinuxSystem_RunCommand_SpawnFailure(t *testing.T) {
	s := NewLinuxSystem()
	res := s.RunCommand(context.Background(), []string{"/no/such/binary-xyz"})
	require.False(t, res.Success)
	require.NotEmpty(t, res.Error)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
