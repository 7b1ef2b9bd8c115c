package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/RealRock/bucketstore"
	"github.com/WelcomerTeam/RealRock/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"
	"nhooyr.io/websocket"
)

// VERSION follows semantic versioning.
const VERSION = "1.3.1"

const (
	PermissionsDefault = 0o744
	PermissionWrite    = 0o600

	prometheusGatherInterval = 10 * time.Second
	cacheEjectorInterval     = 1 * time.Minute

	// DM channels are ejected from the state this long after their last use.
	dmChannelExpiration = 30 * time.Minute

	// Identifies are paced to one per bucket duration.
	identifyRateLimit    = 1
	identifyRateDuration = 5 * time.Second
)

var defaultGatewayURL = url.URL{
	Scheme:   "wss",
	Host:     "gateway.discord.gg",
	RawQuery: "v=10&encoding=json",
}

type Daemon struct {
	Logger zerolog.Logger `json:"-"`

	// Received GatewayPayload pool
	receivedPool sync.Pool
	// SentPayload pool
	sentPool sync.Pool
	// Produced ChordPayload pool
	payloadPool sync.Pool

	gatewayLimiter limiter.DurationLimiter

	StartTime time.Time `json:"start_time" yaml:"start_time"`

	ctx    context.Context
	cancel func()

	// Identifier is the name this daemon goes by in logs, metrics and
	// payload metadata.
	Identifier *atomic.String `json:"-"`

	ProducerClient MQClient `json:"-"`

	Consumer *atomic.Pointer[Consumer] `json:"-"`

	EventsInflight *atomic.Int32 `json:"-"`

	State  *ChordState    `json:"-"`
	Client *chord.Session `json:"-"`

	webhookBuckets *bucketstore.BucketStore

	eventBlacklistMu sync.RWMutex
	eventBlacklist   []string

	produceBlacklistMu sync.RWMutex
	produceBlacklist   []string

	ConfigurationLocation string `json:"configuration_location"`

	Options DaemonOptions `json:"options" yaml:"options"`

	Configuration DaemonConfiguration `json:"configuration" yaml:"configuration"`

	configurationMu sync.RWMutex
	sync.Mutex
}

// DaemonConfiguration represents the configuration file.
type DaemonConfiguration struct {
	// Unique name used in logs and metrics.
	Identifier string `json:"identifier" yaml:"identifier"`
	// Non-unique name that is sent to consumers.
	ProducerIdentifier string `json:"producer_identifier" yaml:"producer_identifier"`

	// Friendly application name included in payload metadata.
	Application string `json:"application" yaml:"application"`

	Token string `json:"token" yaml:"token"`

	Bot struct {
		DefaultPresence *chord.UpdateStatus `json:"default_presence" yaml:"default_presence"`
		Intents         int32               `json:"intents" yaml:"intents"`
	} `json:"bot" yaml:"bot"`

	Caching struct {
		CacheUsers bool `json:"cache_users" yaml:"cache_users"`
	} `json:"caching" yaml:"caching"`

	Events struct {
		EventBlacklist   []string `json:"event_blacklist" yaml:"event_blacklist"`
		ProduceBlacklist []string `json:"produce_blacklist" yaml:"produce_blacklist"`
	} `json:"events" yaml:"events"`

	Messaging struct {
		ClientName      string `json:"client_name" yaml:"client_name"`
		ChannelName     string `json:"channel_name" yaml:"channel_name"`
		UseRandomSuffix bool   `json:"use_random_suffix" yaml:"use_random_suffix"`
	} `json:"messaging" yaml:"messaging"`

	Producer struct {
		Configuration map[string]interface{} `json:"configuration" yaml:"configuration"`
		Type          string                 `json:"type" yaml:"type"`
	} `json:"producer" yaml:"producer"`

	Sharding struct {
		ShardID    int32 `json:"shard_id" yaml:"shard_id"`
		ShardCount int32 `json:"shard_count" yaml:"shard_count"`
	} `json:"sharding" yaml:"sharding"`

	Webhooks []string `json:"webhooks" yaml:"webhooks"`
}

// DaemonOptions represents any options passable when creating the daemon.
type DaemonOptions struct {
	ConfigurationLocation string  `json:"configuration_location" yaml:"configuration_location"`
	PrometheusAddress     string  `json:"prometheus_address" yaml:"prometheus_address"`
	GatewayURL            url.URL `json:"gateway_url" yaml:"gateway_url"`

	// BaseURL to send HTTP requests to. If empty, will use https://discord.com
	BaseURL url.URL `json:"base_url" yaml:"base_url"`

	HTTPHost    string `json:"http_host" yaml:"http_host"`
	HTTPEnabled bool   `json:"http_enabled" yaml:"http_enabled"`
}

// NewDaemon creates the application state and initializes it.
func NewDaemon(logger io.Writer, options DaemonOptions) (d *Daemon, err error) {
	d = &Daemon{
		Logger: zerolog.New(logger).With().Timestamp().Logger(),

		ConfigurationLocation: options.ConfigurationLocation,

		configurationMu: sync.RWMutex{},
		Configuration:   DaemonConfiguration{},

		Options: options,

		gatewayLimiter: *limiter.NewDurationLimiter(identifyRateLimit, identifyRateDuration),

		Identifier: &atomic.String{},

		Consumer: atomic.NewPointer[Consumer](nil),

		EventsInflight: atomic.NewInt32(0),

		State: NewChordState(),

		webhookBuckets: bucketstore.NewBucketStore(),

		receivedPool: sync.Pool{
			New: func() interface{} { return new(chord.GatewayPayload) },
		},

		sentPool: sync.Pool{
			New: func() interface{} { return new(chord.SentPayload) },
		},

		payloadPool: sync.Pool{
			New: func() interface{} { return new(ChordPayload) },
		},
	}

	d.ctx, d.cancel = context.WithCancel(context.Background())

	d.Lock()
	defer d.Unlock()

	configuration, err := d.LoadConfiguration(d.ConfigurationLocation)
	if err != nil {
		return nil, err
	}

	d.configurationMu.Lock()
	defer d.configurationMu.Unlock()

	d.Configuration = configuration

	d.Identifier.Store(configuration.Identifier)

	d.eventBlacklistMu.Lock()
	d.eventBlacklist = configuration.Events.EventBlacklist
	d.eventBlacklistMu.Unlock()

	d.produceBlacklistMu.Lock()
	d.produceBlacklist = configuration.Events.ProduceBlacklist
	d.produceBlacklistMu.Unlock()

	if baseURL := options.BaseURL.String(); baseURL != "" {
		d.Client = chord.NewSession(d.ctx, "", chord.NewInterface(&http.Client{
			Timeout: 20 * time.Second,
		}, baseURL, chord.APIVersion, chord.UserAgent))
	} else {
		d.Client = chord.NewSession(d.ctx, "", chord.NewBaseInterface())
	}

	return d, nil
}

// gatewayURL returns the websocket origin the consumer dials. Options take
// priority over the default gateway.
func (d *Daemon) gatewayURL() string {
	if originURL := d.Options.GatewayURL.String(); originURL != "" {
		return originURL
	}

	return defaultGatewayURL.String()
}

// LoadConfiguration handles loading the configuration file.
func (d *Daemon) LoadConfiguration(path string) (configuration DaemonConfiguration, err error) {
	d.Logger.Debug().
		Str("path", path).
		Msg("Loading configuration")

	defer func() {
		if err == nil {
			d.Logger.Info().Msg("Configuration loaded")
		}
	}()

	file, err := os.ReadFile(path)
	if err != nil {
		return configuration, ErrReadConfigurationFailure
	}

	err = yaml.Unmarshal(file, &configuration)
	if err != nil {
		return configuration, ErrLoadConfigurationFailure
	}

	err = d.validateConfiguration(&configuration)
	if err != nil {
		return configuration, err
	}

	configuration.Identifier = replaceIfEmpty(
		configuration.Identifier, replaceIfEmpty(configuration.Application, "chord"))

	return configuration, nil
}

func (d *Daemon) validateConfiguration(configuration *DaemonConfiguration) error {
	if configuration.Token == "" {
		return ErrConfigurationValidateToken
	}

	if d.Options.PrometheusAddress == "" {
		return ErrConfigurationValidatePrometheus
	}

	if d.Options.HTTPEnabled && d.Options.HTTPHost == "" {
		return ErrConfigurationValidateHTTP
	}

	return nil
}

// SaveConfiguration handles saving the configuration file.
func (d *Daemon) SaveConfiguration(configuration *DaemonConfiguration, path string) error {
	d.Logger.Debug().Msg("Saving configuration")

	data, err := yaml.Marshal(configuration)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	err = os.WriteFile(path, data, PermissionWrite)
	if err != nil {
		return fmt.Errorf("failed to write configuration to file: %w", err)
	}

	return nil
}

// Open starts up any listeners, connects the producer and starts the gateway
// consumer.
func (d *Daemon) Open() error {
	d.StartTime = time.Now().UTC()
	d.Logger.Info().Msgf("Starting chord. Version %s", VERSION)

	go d.PublishSimpleWebhook("Starting chord", "", "Version "+VERSION, EmbedColourChord)

	// Setup Prometheus
	go d.setupPrometheus()

	// Setup HTTP
	if d.Options.HTTPEnabled {
		go d.setupHTTP()
	}

	d.configurationMu.RLock()
	producerType := d.Configuration.Producer.Type
	producerArguments := d.Configuration.Producer.Configuration
	clientName := d.Configuration.Messaging.ClientName
	useRandomSuffix := d.Configuration.Messaging.UseRandomSuffix
	shardID := d.Configuration.Sharding.ShardID
	shardCount := d.Configuration.Sharding.ShardCount
	d.configurationMu.RUnlock()

	producerClient, err := NewMQClient(producerType)
	if err != nil {
		return err
	}

	if useRandomSuffix {
		clientName = clientName + "-" + randomHex(6)
	}

	err = producerClient.Connect(d.ctx, clientName, producerArguments)
	if err != nil {
		d.Logger.Error().Err(err).Msg("Failed to connect producer client")

		go d.PublishSimpleWebhook("Failed to connect producer client", "`"+err.Error()+"`", "", EmbedColourDanger)

		return fmt.Errorf("failed to connect producer client: %w", err)
	}

	d.ProducerClient = producerClient

	if shardCount < 1 {
		shardCount = 1
	}

	consumer := d.NewConsumer(shardID, shardCount)
	d.Consumer.Store(consumer)

	err = consumer.Connect()
	if err != nil {
		d.Logger.Error().Err(err).Msg("Failed to connect consumer")

		go d.PublishSimpleWebhook("Failed to connect consumer", "`"+err.Error()+"`", consumer.shardText(), EmbedColourDanger)

		return fmt.Errorf("failed to connect consumer: %w", err)
	}

	go consumer.Open()

	return nil
}

// Close closes the daemon gracefully.
func (d *Daemon) Close() error {
	d.Logger.Info().Msg("Closing chord")

	go d.PublishSimpleWebhook("Chord closing", "", "", EmbedColourChord)

	if consumer := d.Consumer.Load(); consumer != nil {
		consumer.Close(websocket.StatusNormalClosure)
	}

	if d.ProducerClient != nil {
		d.ProducerClient.Close()
	}

	if d.cancel != nil {
		d.cancel()
	}

	return nil
}

func (d *Daemon) setupPrometheus() error {
	prometheus.MustRegister(chordEventCount)
	prometheus.MustRegister(chordEventInflightCount)
	prometheus.MustRegister(chordDispatchEventCount)
	prometheus.MustRegister(chordDiscardedEventCount)
	prometheus.MustRegister(chordGatewayLatency)
	prometheus.MustRegister(chordUnavailableGuildCount)
	prometheus.MustRegister(chordStateTotalCount)
	prometheus.MustRegister(chordStateGuildCount)
	prometheus.MustRegister(chordStateChannelCount)
	prometheus.MustRegister(chordStateThreadCount)
	prometheus.MustRegister(chordStateVoiceStateCount)
	prometheus.MustRegister(chordStateStageInstanceCount)
	prometheus.MustRegister(chordStateDMChannelCount)
	prometheus.MustRegister(chordStateUserCount)
	prometheus.MustRegister(chordRestRequests)
	prometheus.MustRegister(chordRestHits)
	prometheus.MustRegister(chordRestMisses)

	http.Handle("/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{},
	))

	go d.prometheusGatherer()
	go d.cacheEjector()

	d.Logger.Info().Msgf("Serving prometheus at %s", d.Options.PrometheusAddress)

	err := http.ListenAndServe(d.Options.PrometheusAddress, nil)
	if err != nil {
		d.Logger.Error().Str("host", d.Options.PrometheusAddress).Err(err).Msg("Failed to serve prometheus server")

		return fmt.Errorf("failed to serve prometheus: %w", err)
	}

	return nil
}

func (d *Daemon) setupHTTP() error {
	d.Logger.Info().Msgf("Serving http at %s", d.Options.HTTPHost)

	restRouter := d.newRestRouter()

	err := fasthttp.ListenAndServe(d.Options.HTTPHost, restRouter.Handler)
	if err != nil {
		d.Logger.Error().Str("host", d.Options.HTTPHost).Err(err).Msg("Failed to serve http server")

		return fmt.Errorf("failed to serve webserver: %w", err)
	}

	return nil
}

// cacheEjector drops guilds the consumer no longer sees along with DM
// channels past their expiry.
func (d *Daemon) cacheEjector() {
	t := time.NewTicker(cacheEjectorInterval)

	for range t.C {
		allGuildIDs := make(map[chord.GuildID]bool)

		if consumer := d.Consumer.Load(); consumer != nil {
			consumer.Guilds.Range(func(guildID chord.GuildID, _ bool) bool {
				allGuildIDs[guildID] = true

				return false
			})
		}

		ejectedGuilds := make([]chord.GuildID, 0)

		d.State.GuildChannels.Range(func(guildID chord.GuildID, _ Cache[chord.ChannelID, chord.GuildChannel]) bool {
			if val, ok := allGuildIDs[guildID]; !val || !ok {
				ejectedGuilds = append(ejectedGuilds, guildID)
			}

			return false
		})

		for _, guildID := range ejectedGuilds {
			d.State.RemoveGuild(guildID)
		}

		ejectedDMChannels := d.State.EjectExpiredDMChannels()

		d.Logger.Debug().
			Int("guildsEjected", len(ejectedGuilds)).
			Int("guildsTotal", len(allGuildIDs)).
			Int("dmChannelsEjected", ejectedDMChannels).
			Msg("Ejected cache")
	}
}

func (d *Daemon) prometheusGatherer() {
	t := time.NewTicker(prometheusGatherInterval)

	for range t.C {
		stateChannels := 0
		stateThreads := 0

		d.State.GuildChannels.Range(func(_ chord.GuildID, guildChannels Cache[chord.ChannelID, chord.GuildChannel]) bool {
			guildChannels.Range(func(_ chord.ChannelID, guildChannel chord.GuildChannel) bool {
				if _, isThread := guildChannel.(*chord.Thread); isThread {
					stateThreads++
				} else {
					stateChannels++
				}

				return false
			})

			return false
		})

		stateVoiceStates := d.State.GuildVoiceStates.TotalCount()
		stateStageInstances := d.State.StageInstances.TotalCount()
		stateDMChannels := d.State.DMChannels.Count()
		stateUsers := d.State.Users.Count()

		stateGuilds := 0
		unavailableGuilds := 0

		if consumer := d.Consumer.Load(); consumer != nil {
			stateGuilds = consumer.Guilds.Count()

			consumer.Unavailable.Range(func(_ chord.GuildID, unavailable bool) bool {
				if unavailable {
					unavailableGuilds++
				}

				return false
			})
		}

		chordStateTotalCount.Set(float64(
			stateGuilds + stateChannels + stateThreads + stateVoiceStates + stateStageInstances + stateDMChannels + stateUsers,
		))

		eventsInflight := d.EventsInflight.Load()

		chordStateGuildCount.Set(float64(stateGuilds))
		chordStateChannelCount.Set(float64(stateChannels))
		chordStateThreadCount.Set(float64(stateThreads))
		chordStateVoiceStateCount.Set(float64(stateVoiceStates))
		chordStateStageInstanceCount.Set(float64(stateStageInstances))
		chordStateDMChannelCount.Set(float64(stateDMChannels))
		chordStateUserCount.Set(float64(stateUsers))

		chordUnavailableGuildCount.WithLabelValues(d.Identifier.Load()).Set(float64(unavailableGuilds))

		chordEventInflightCount.Set(float64(eventsInflight))

		d.Logger.Debug().
			Int("guilds", stateGuilds).
			Int("channels", stateChannels).
			Int("threads", stateThreads).
			Int("voiceStates", stateVoiceStates).
			Int("stageInstances", stateStageInstances).
			Int("dmChannels", stateDMChannels).
			Int("users", stateUsers).
			Int32("eventsInflight", eventsInflight).
			Msg("Updated prometheus gauges")
	}
}
