package engine

import (
	"context"
	"testing"

	"github.com/infenix/sysdiag/internal/config"
	"github.com/infenix/sysdiag/internal/sysaccess"
	"github.com/stretchr/testify/require"
)

func TestDiagnose_RejectsEmptyLogSources(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	eng := New(sys, config.DefaultRoots(), nil)

	opts := config.DefaultDiagnoseOptions()
	opts.LogSources = nil
	env := eng.Diagnose(context.Background(), opts)

	require.False(t, env.Success)
	require.Contains(t, env.Error, "log_sources")
}

func TestDiagnose_HardwareOnlySmoke(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	eng := New(sys, config.DefaultRoots(), nil)

	opts := config.DiagnoseOptions{IncludeHardware: true}
	env := eng.Diagnose(context.Background(), opts)

	require.True(t, env.Success)
	d, ok := env.Payload.(Diagnostic)
	require.True(t, ok)
	require.NotNil(t, d.Hardware)
	require.Contains(t, d.Hardware, "cpu")
	require.NotEmpty(t, d.Explanation)
}

func TestGenerateRecommendations_NilDiagnostic(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	eng := New(sys, config.DefaultRoots(), nil)

	env := eng.GenerateRecommendations(nil)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "invalid diagnostic")
}

func TestRunHardwareDiagnostics_FiltersByComponent(t *testing.T) {
	sys := sysaccess.NewMockSystem()
	eng := New(sys, config.DefaultRoots(), nil)

	env := eng.RunHardwareDiagnostics(context.Background(), map[string]bool{"cpu": true})
	require.True(t, env.Success)
	report, ok := env.Payload.(HealthReport)
	require.True(t, ok)
	require.Contains(t, report.Results, "cpu")
	require.NotContains(t, report.Results, "memory")
	require.NotEmpty(t, report.Timestamp)
}
