package match_api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
)

const metricsNamespace = "busmatch"

//---------------------
// Collector
//---------------------

// brokerCollector reads broker counters at scrape time.
type brokerCollector struct {
	broker *match_bus.Broker

	peers      *prometheus.Desc
	rules      *prometheus.Desc
	references *prometheus.Desc
	registries *prometheus.Desc
	dispatched *prometheus.Desc
	delivered  *prometheus.Desc
}

func newBrokerCollector(b *match_bus.Broker) *brokerCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "broker", name), help, nil, nil)
	}
	return &brokerCollector{
		broker:     b,
		peers:      desc("peers", "Connected peers."),
		rules:      desc("rules", "Distinct match rules across all peers."),
		references: desc("rule_references", "Match rule references including duplicates."),
		registries: desc("registries", "Sender registries plus the wildcard registry."),
		dispatched: desc("dispatched_total", "Messages dispatched."),
		delivered:  desc("delivered_total", "Peer deliveries produced by dispatch."),
	}
}

func (c *brokerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.peers
	ch <- c.rules
	ch <- c.references
	ch <- c.registries
	ch <- c.dispatched
	ch <- c.delivered
}

func (c *brokerCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.broker.Stats()
	ch <- prometheus.MustNewConstMetric(c.peers, prometheus.GaugeValue, float64(s.Peers))
	ch <- prometheus.MustNewConstMetric(c.rules, prometheus.GaugeValue, float64(s.Rules))
	ch <- prometheus.MustNewConstMetric(c.references, prometheus.GaugeValue, float64(s.References))
	ch <- prometheus.MustNewConstMetric(c.registries, prometheus.GaugeValue, float64(s.Registries))
	ch <- prometheus.MustNewConstMetric(c.dispatched, prometheus.CounterValue, float64(s.Dispatched))
	ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(s.Delivered))
}

// metricsHandler serves broker and runtime metrics from a private registry.
func metricsHandler(b *match_bus.Broker) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(newBrokerCollector(b))
	registry.MustRegister(collectors.NewGoCollector())
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
