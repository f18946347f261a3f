package engine

import (
	"context"

	"github.com/infenix/sysdiag/internal/analyzer"
	"github.com/infenix/sysdiag/internal/config"
	"github.com/infenix/sysdiag/internal/errs"
	"github.com/infenix/sysdiag/internal/logpipeline"
	"github.com/infenix/sysdiag/internal/probe"
	"github.com/infenix/sysdiag/internal/recommend"
	"github.com/infenix/sysdiag/internal/sysaccess"
	"github.com/infenix/sysdiag/internal/telemetry"
)

// hardwareAnalyzers is every non-kernel-config analyzer diagnose()
// runs when include_hardware is set.
var hardwareAnalyzers = []analyzer.Analyzer{
	analyzer.CPUAnalyzer{},
	analyzer.MemoryAnalyzer{},
	analyzer.StorageAnalyzer{},
	analyzer.NetworkAnalyzer{},
	analyzer.PCIAnalyzer{},
	analyzer.USBAnalyzer{},
	analyzer.GraphicsAnalyzer{},
}

// Engine is the façade: Diagnose, InterpretQuery,
// GenerateRecommendations, RunHardwareDiagnostics, the Go counterparts
// of DiagnosticsProvider. Every operation returns an Envelope and no Go
// error crosses the boundary: an InvalidArgument from options
// validation also comes back as a failed Envelope, before any
// collection starts.
type Engine struct {
	src Source
	log *telemetry.Logger
}

// Source bundles what every analyzer/probe call needs.
type Source struct {
	Sys      sysaccess.SystemInterface
	ProcRoot string
	SysRoot  string
}

func (s Source) probeSource() probe.Source {
	return probe.Source{Sys: s.Sys, ProcRoot: s.ProcRoot, SysRoot: s.SysRoot}
}

// New builds an Engine over the given system-access handle.
func New(sys sysaccess.SystemInterface, roots config.Roots, log *telemetry.Logger) *Engine {
	if log == nil {
		log = telemetry.Discard()
	}
	return &Engine{
		src: Source{Sys: sys, ProcRoot: roots.ProcRoot, SysRoot: roots.SysRoot},
		log: log,
	}
}

// Diagnose runs diagnose(options) -> Diagnostic, wrapped in the
// uniform envelope.
func (e *Engine) Diagnose(ctx context.Context, opts config.DiagnoseOptions) Envelope {
	if err := opts.Validate(); err != nil {
		return failed(err)
	}

	var d Diagnostic

	if opts.IncludeHardware {
		d.Hardware = e.runHardwareAnalyzers(ctx)
	}
	if opts.IncludeKernel {
		d.KernelConfig = analyzer.KernelConfigAnalyzer{}.Analyze(ctx, e.src.probeSource())
	}
	if opts.IncludeLogs {
		la, err := logpipeline.Run(ctx, e.src.probeSource(), logpipeline.Options{Sources: opts.LogSources})
		if err != nil {
			e.log.Warn("log pipeline failed", "error", err)
		} else {
			d.LogAnalysis = &la
		}
	}
	if opts.GenerateRecommendations {
		d.Recommendations = e.recommendationsFor(d.Hardware, d.KernelConfig, d.LogAnalysis)
	}
	d.Explanation = explanation(d.Hardware, d.LogAnalysis, d.Recommendations)

	return ok(d)
}

// InterpretQuery classifies a free-form query into QueryInterpretation.
func (e *Engine) InterpretQuery(query string) Envelope {
	return ok(InterpretQuery(query))
}

// GenerateRecommendations runs generate_recommendations(diagnostic) ->
// RecommendationReport. A nil Diagnostic is rejected with
// InvalidDiagnostic, the one validation spec.md §7 names for this
// entry point.
func (e *Engine) GenerateRecommendations(d *Diagnostic) Envelope {
	if d == nil {
		return failed(&errs.InvalidDiagnostic{Reason: "nil diagnostic"})
	}
	result := recommend.Run(buildInput(d.Hardware, d.KernelConfig, d.LogAnalysis))
	return ok(RecommendationReport{
		Recommendations: result.Recommendations,
		Guides:          result.Guides,
		Summary:         result.Summary,
	})
}

// RunHardwareDiagnostics runs run_hardware_diagnostics(components) ->
// HealthReport, limited to the named components (empty set means
// every hardware analyzer).
func (e *Engine) RunHardwareDiagnostics(ctx context.Context, components map[string]bool) Envelope {
	results := map[string]analyzer.Result{}
	var issues []string

	for _, a := range hardwareAnalyzers {
		if len(components) > 0 && !components[a.Name()] {
			continue
		}
		res := a.Analyze(ctx, e.src.probeSource())
		results[a.Name()] = res
		for key, v := range res {
			if errMsg, isErr := v.(string); isErr && hasErrorSuffix(key) {
				issues = append(issues, a.Name()+": "+errMsg)
			}
		}
	}

	status := "passed"
	if len(issues) > 0 {
		status = "failed"
	}

	recs := e.recommendationsFor(results, analyzer.Result{}, nil)

	return ok(HealthReport{
		Status:          status,
		Results:         results,
		Issues:          issues,
		Recommendations: recs,
		Timestamp:       nowISO(),
	})
}

func (e *Engine) runHardwareAnalyzers(ctx context.Context) map[string]analyzer.Result {
	out := make(map[string]analyzer.Result, len(hardwareAnalyzers))
	for _, a := range hardwareAnalyzers {
		out[a.Name()] = a.Analyze(ctx, e.src.probeSource())
	}
	return out
}

func (e *Engine) recommendationsFor(hw map[string]analyzer.Result, kernelConfig analyzer.Result, la *logpipeline.LogAnalysis) []recommend.Recommendation {
	result := recommend.Run(buildInput(hw, kernelConfig, la))
	return result.Recommendations
}

func buildInput(hw map[string]analyzer.Result, kernelConfig analyzer.Result, la *logpipeline.LogAnalysis) recommend.Input {
	return recommend.Input{
		Hardware: buildHardwareInfo(hw),
		Metrics:  buildMetrics(hw),
		KConfig:  buildKConfigFindings(kernelConfig),
		Logs:     buildLogSummary(la),
	}
}

func hasErrorSuffix(key string) bool {
	const suffix = "_error"
	return len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix
}
