package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the provisioning and release counters. Registration
// failures are logged and the collector kept, so callers can always
// record.
type Metrics struct {
	SitesProvisioned  prometheus.Counter
	ProvisionFailures *prometheus.CounterVec
	OutcomeMails      *prometheus.CounterVec
	ReleasePolls      prometheus.Counter
	CachePurges       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SitesProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "provisioner_sites_provisioned_total",
			Help: "Total number of successfully provisioned sites.",
		}),
		ProvisionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_provision_failures_total",
			Help: "Total number of provisioning failures, by pipeline step.",
		}, []string{"step"}),
		OutcomeMails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_outcome_mails_total",
			Help: "Total number of outcome notifications, by flavour and delivery.",
		}, []string{"outcome", "delivery"}),
		ReleasePolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "provisioner_release_polls_total",
			Help: "Total number of deploy status checks by the release gate.",
		}),
		CachePurges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "provisioner_cache_purges_total",
			Help: "Total number of successful edge cache purges.",
		}),
	}

	register(reg, m.SitesProvisioned)
	register(reg, m.ProvisionFailures)
	register(reg, m.OutcomeMails)
	register(reg, m.ReleasePolls)
	register(reg, m.CachePurges)
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) {
	if reg == nil {
		return
	}
	if err := reg.Register(c); err != nil {
		slog.Warn("metric registration failed", "err", err)
	}
}
