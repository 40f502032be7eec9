package persist

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks issuance and persistence outcomes.
type Metrics struct {
	issued         *prometheus.CounterVec
	backupFailures prometheus.Counter
}

// NewMetrics creates and registers the pipeline's metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storygate_credentials_issued_total",
			Help: "Credentials issued, by tier and score source.",
		}, []string{"tier", "source"}),
		backupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storygate_backup_failures_total",
			Help: "Advisory backup writes that failed.",
		}),
	}
	reg.MustRegister(m.issued, m.backupFailures)
	return m
}

// RecordIssued counts one issued credential.
func (m *Metrics) RecordIssued(tier, source string) {
	m.issued.WithLabelValues(tier, source).Inc()
}

// RecordBackupFailure counts one failed advisory backup write.
func (m *Metrics) RecordBackupFailure() {
	m.backupFailures.Inc()
}
