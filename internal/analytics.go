package internal

import "github.com/prometheus/client_golang/prometheus"

var (
	chordEventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chord_events_total",
			Help: "Chord Events",
		},
		[]string{"identifier"},
	)

	chordEventInflightCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_events_inflight_count",
			Help: "Count of dispatch events currently being processed",
		},
	)

	chordDispatchEventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chord_dispatch_events_by_type_total",
			Help: "Chord Dispatch Events",
		},
		[]string{"identifier", "type"},
	)

	chordDiscardedEventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chord_discarded_events_total",
			Help: "Chord payload fragments skipped instead of applied to state",
		},
		[]string{"identifier", "reason"},
	)

	chordGatewayLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chord_discord_gateway_latency",
			Help: "Chord Discord Gateway Latency",
		},
		[]string{"identifier", "shard"},
	)

	chordUnavailableGuildCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chord_unavailable_guilds_count",
			Help: "Chord Unavailable Guilds",
		},
		[]string{"identifier"},
	)

	chordStateTotalCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_count",
			Help: "Chord State Total Count",
		},
	)

	chordStateGuildCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_guild_count",
			Help: "Chord State Guild Count",
		},
	)

	chordStateChannelCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_channel_count",
			Help: "Chord State Channel Count",
		},
	)

	chordStateThreadCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_thread_count",
			Help: "Chord State Thread Count",
		},
	)

	chordStateVoiceStateCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_voice_state_count",
			Help: "Chord State Voice State Count",
		},
	)

	chordStateStageInstanceCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_stage_instance_count",
			Help: "Chord State Stage Instance Count",
		},
	)

	chordStateDMChannelCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_dm_channel_count",
			Help: "Chord State DM Channel Count",
		},
	)

	chordStateUserCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chord_state_user_count",
			Help: "Chord State User Count",
		},
	)

	chordRestRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chord_rest_requests_total",
			Help: "Chord REST API Requests",
		},
	)

	chordRestHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chord_rest_cache_hits_total",
			Help: "Chord REST API Cache Hits",
		},
		[]string{"resource"},
	)

	chordRestMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chord_rest_cache_misses_total",
			Help: "Chord REST API Cache Misses",
		},
		[]string{"resource"},
	)
)
