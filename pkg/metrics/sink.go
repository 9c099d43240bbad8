package metrics

// Sink adapts Metrics to the hook interfaces the domain packages accept
// (inventory.MetricsSink, jobs.ScanMetrics).
type Sink struct {
	m *Metrics
}

// NewSink wraps a Metrics for use as a domain metrics sink.
func NewSink(m *Metrics) *Sink {
	return &Sink{m: m}
}

// UsageLogged counts one usage event.
func (s *Sink) UsageLogged() {
	s.m.UsageLogged.Inc()
}

// DamageReported counts one damage report.
func (s *Sink) DamageReported() {
	s.m.DamageReports.Inc()
}

// RequestFiled counts one maintenance request by category.
func (s *Sink) RequestFiled(category string) {
	s.m.RequestsFiled.WithLabelValues(category).Inc()
}

// ScanJobRun counts one processed scan job by outcome.
func (s *Sink) ScanJobRun(outcome string) {
	s.m.ScanJobsRun.WithLabelValues(outcome).Inc()
}
