package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineStats provides the collector access to the live engine's data sizes.
type EngineStats interface {
	LexiconWords() int
	PriorWords() int
}

// Collector implements prometheus.Collector to read live gauges at scrape time.
type Collector struct {
	stats EngineStats

	lexiconWords *prometheus.Desc
	priorWords   *prometheus.Desc
}

// NewCollector creates a collector that reads engine state at scrape time.
// stats may be nil (metrics will report 0).
func NewCollector(stats EngineStats) *Collector {
	return &Collector{
		stats: stats,
		lexiconWords: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "lexicon", "words"),
			"Words in the loaded pronunciation lexicon (0 for a database-backed lexicon).",
			nil, nil,
		),
		priorWords: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "priors", "words"),
			"Function words in the loaded prior table.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lexiconWords
	ch <- c.priorWords
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var lex, pri int
	if c.stats != nil {
		lex, pri = c.stats.LexiconWords(), c.stats.PriorWords()
	}
	ch <- prometheus.MustNewConstMetric(c.lexiconWords, prometheus.GaugeValue, float64(lex))
	ch <- prometheus.MustNewConstMetric(c.priorWords, prometheus.GaugeValue, float64(pri))
}
