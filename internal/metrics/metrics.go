// Package metrics exposes Prometheus collectors for the bot's core flows.
//
// Every collector lives on the Registry passed to New so tests can use a
// fresh registry and read counters with prometheus/testutil. Label values
// are drawn from small fixed sets (flow, state, outcome) to keep cardinality
// bounded.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors.
type Metrics struct {
	Registry *prometheus.Registry

	// DialogueCommits counts flushed sessions by flow and result (ok|error).
	DialogueCommits *prometheus.CounterVec
	// DialogueRejects counts inputs re-prompted without mutation, by state.
	DialogueRejects *prometheus.CounterVec
	// Candidates counts nextCandidate outcomes (served|empty|quota|no_location).
	Candidates *prometheus.CounterVec
	// Likes counts like outcomes (no_match|match|duplicate|quota).
	Likes *prometheus.CounterVec
	// MatchesCreated counts materialised matches.
	MatchesCreated prometheus.Counter
	// Notifications counts delivery attempts by result (sent|skipped|failed|retry).
	Notifications *prometheus.CounterVec
	// InboundThrottled counts events dropped by per-user flood control.
	InboundThrottled prometheus.Counter
	// HTTPRequests counts webhook/health traffic by route and status.
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
// Go runtime and process collectors are included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		DialogueCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_dialogue_commits_total",
			Help: "Dialogue sessions flushed to the profile store.",
		}, []string{"flow", "result"}),
		DialogueRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_dialogue_rejects_total",
			Help: "Dialogue inputs rejected and re-prompted.",
		}, []string{"state"}),
		Candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_discovery_candidates_total",
			Help: "Candidate requests by outcome.",
		}, []string{"outcome"}),
		Likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_likes_total",
			Help: "Like actions by outcome.",
		}, []string{"outcome"}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habesha_matches_created_total",
			Help: "Matches materialised.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_notifications_total",
			Help: "Match notification deliveries by result.",
		}, []string{"result"}),
		InboundThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habesha_inbound_throttled_total",
			Help: "Inbound events dropped by per-user flood control.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habesha_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(
		m.DialogueCommits, m.DialogueRejects, m.Candidates, m.Likes,
		m.MatchesCreated, m.Notifications, m.InboundThrottled, m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
