package metrics

import (
	"net/http"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus records into its own registry so tests and multiple servers
// never collide on the global one.
type Prometheus struct {
	registry     *prom.Registry
	buildTotal   *prom.CounterVec
	buildSeconds *prom.HistogramVec
	graphNodes   prom.Gauge
	graphEdges   prom.Gauge
	requestTotal *prom.CounterVec
}

// NewPrometheus creates a recorder with all collectors registered.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prom.NewRegistry(),
		buildTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "loregraph_builds_total",
			Help: "Total number of graph builds",
		}, []string{"success"}),
		buildSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "loregraph_build_seconds",
			Help:    "Graph build duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"success"}),
		graphNodes: prom.NewGauge(prom.GaugeOpts{
			Name: "loregraph_graph_nodes",
			Help: "Number of nodes in the served graph",
		}),
		graphEdges: prom.NewGauge(prom.GaugeOpts{
			Name: "loregraph_graph_edges",
			Help: "Number of edges in the served graph",
		}),
		requestTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "loregraph_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
	}

	p.registry.MustRegister(p.buildTotal, p.buildSeconds, p.graphNodes, p.graphEdges, p.requestTotal)
	return p
}

func (p *Prometheus) IncBuildTotal(success bool) {
	p.buildTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (p *Prometheus) ObserveBuildSeconds(success bool, seconds float64) {
	p.buildSeconds.WithLabelValues(strconv.FormatBool(success)).Observe(seconds)
}

func (p *Prometheus) SetGraphSize(nodes, edges int) {
	p.graphNodes.Set(float64(nodes))
	p.graphEdges.Set(float64(edges))
}

func (p *Prometheus) IncRequestTotal(route string, status int) {
	p.requestTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
