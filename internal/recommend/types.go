package recommend

// Recommendation is spec's Recommendation type: one actionable,
// explained item the pipeline emits.
type Recommendation struct {
	Component   string
	Category    string // security, performance, stability, optimization, maintenance
	Priority    string // critical, high, medium, low
	Action      string
	Details     string
	Impact      string
	Urgency     string // immediate, soon, when_convenient, ongoing
	Explanation string
}

// KConfigFinding is the subset of analyzer.ConfigFinding the kconfig
// rule-base layers need.
type KConfigFinding struct {
	Option       string
	Category     string // "security" or "performance"
	Present      bool
	Compliant    bool
	CurrentValue string
	Recommended  string
	Description  string
}

// Metrics is the live-value subset of a diagnostic snapshot the
// hardware-threshold generator evaluates against Thresholds.
type Metrics struct {
	CPULoadPerCore    float64
	CPUTempC          float64
	HasCPUTemp        bool
	MemoryUsedPercent float64
	SwapUsedPercent   float64
	DiskUsagePercent  map[string]float64 // mount point -> used %
	ErrorFrequency    int                // log error count within the analysis window
}

// LogSummary is the subset of a logpipeline.LogAnalysis the logs
// generator needs.
type LogSummary struct {
	CriticalCount int
	HighCount     int
}

// ImplementationGuide is the top-5 guide spec's pipeline step 5 emits.
type ImplementationGuide struct {
	RecommendationIndex int
	Title               string
	Steps               []string
	EstimatedTime        string
	Difficulty          string // Beginner, Intermediate, Advanced
	Prerequisites       []string
	Risks               []string
}

// Result is the full pipeline output.
type Result struct {
	Recommendations []Recommendation
	Guides          []ImplementationGuide
	Summary         map[string]int
}
