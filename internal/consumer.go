package internal

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	"github.com/WelcomerTeam/RealRock/deadlock"
	"github.com/WelcomerTeam/RealRock/limiter"
	"github.com/WelcomerTeam/czlib"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"github.com/rs/zerolog"
	gotils_strconv "github.com/savsgio/gotils/strconv"
	"go.uber.org/atomic"
	"nhooyr.io/websocket"
)

const (
	WebsocketReadLimit          = 512 << 20
	WebsocketReconnectCloseCode = 4000

	MessageChannelBuffer = 64

	// Number of retries attempted before considering the consumer broken.
	ConsumerConnectRetries = 10

	// We use 110 both to allow heartbeating to not be limited and to allow
	// bursts of 10 messages to be sent.
	ConsumerWSRateLimit   = 110
	GatewayLargeThreshold = 250

	FirstEventTimeout = 5 * time.Second

	WaitForReadyTimeout = 15 * time.Second
	ReadyTimeout        = 5 * time.Second

	MaxReconnectWait = 60 * time.Second

	// Heartbeat ACKs missed in a row before the connection is considered dead.
	ConsumerMaxHeartbeatFailures = 5
)

// Consumer represents a single gateway connection feeding the producer.
type Consumer struct {
	ctx    context.Context
	cancel func()

	RoutineDeadSignal   deadlock.DeadSignal `json:"-"`
	HeartbeatDeadSignal deadlock.DeadSignal `json:"-"`

	Start            *atomic.Time  `json:"start"`
	Init             *atomic.Time  `json:"init"`
	RetriesRemaining *atomic.Int32 `json:"-"`

	Logger zerolog.Logger `json:"-"`

	ShardID    int32 `json:"shard_id"`
	ShardCount int32 `json:"shard_count"`

	ResumeGatewayURL *atomic.String `json:"resume_gateway_url"`
	ConnectionURL    *atomic.String `json:"connection_url"`

	Daemon *Daemon `json:"-"`

	userMu sync.RWMutex
	User   chord.User `json:"user"`

	UserID *atomic.Int64 `json:"user_id"`

	HeartbeatActive   *atomic.Bool `json:"-"`
	LastHeartbeatAck  *atomic.Time `json:"-"`
	LastHeartbeatSent *atomic.Time `json:"-"`

	Heartbeater       *time.Ticker  `json:"-"`
	HeartbeatInterval time.Duration `json:"-"`

	// Duration since last heartbeat Ack before reconnecting.
	HeartbeatFailureInterval time.Duration `json:"-"`

	// Map of guilds that are currently unavailable.
	Unavailable *csmap.CsMap[chord.GuildID, bool] `json:"unavailable"`

	// Map of guilds that were present in ready and have not arrived yet.
	Lazy *csmap.CsMap[chord.GuildID, bool] `json:"lazy"`

	// Local list of all guilds the consumer is in.
	Guilds *csmap.CsMap[chord.GuildID, bool] `json:"guilds"`

	statusMu sync.RWMutex
	Status   ConsumerStatus `json:"status"`

	channelMu sync.RWMutex
	MessageCh chan chord.GatewayPayload `json:"-"`
	ErrorCh   chan error                `json:"-"`

	Sequence  *atomic.Int32  `json:"-"`
	SessionID *atomic.String `json:"-"`

	wsConnMu sync.RWMutex
	wsConn   *websocket.Conn

	wsRatelimit *limiter.DurationLimiter

	ready chan void

	IsReady bool `json:"is_ready"`
}

// NewConsumer creates a new gateway consumer.
func (d *Daemon) NewConsumer(shardID, shardCount int32) (c *Consumer) {
	logger := d.Logger.With().Int32("shardId", shardID).Logger()
	c = &Consumer{
		RoutineDeadSignal:   deadlock.DeadSignal{},
		HeartbeatDeadSignal: deadlock.DeadSignal{},

		RetriesRemaining: atomic.NewInt32(ConsumerConnectRetries),

		Logger: logger,

		ShardID:    shardID,
		ShardCount: shardCount,

		Daemon: d,

		UserID: &atomic.Int64{},

		Start: &atomic.Time{},
		Init:  atomic.NewTime(time.Now().UTC()),

		HeartbeatActive:   atomic.NewBool(false),
		LastHeartbeatAck:  &atomic.Time{},
		LastHeartbeatSent: &atomic.Time{},

		Unavailable: csmap.Create(
			csmap.WithSize[chord.GuildID, bool](1000),
		),

		Lazy: csmap.Create(
			csmap.WithSize[chord.GuildID, bool](1000),
		),

		Guilds: csmap.Create(
			csmap.WithSize[chord.GuildID, bool](1000),
		),

		statusMu: sync.RWMutex{},
		Status:   ConsumerStatusIdle,

		channelMu: sync.RWMutex{},

		Sequence:         &atomic.Int32{},
		SessionID:        &atomic.String{},
		ResumeGatewayURL: &atomic.String{},
		ConnectionURL:    &atomic.String{},

		wsConnMu: sync.RWMutex{},

		wsRatelimit: limiter.NewDurationLimiter(ConsumerWSRateLimit, 2*time.Minute),

		ready: make(chan void, 1),
	}

	c.ctx, c.cancel = context.WithCancel(d.ctx)

	return c
}

// Open starts listening to the gateway.
func (c *Consumer) Open() {
	c.Logger.Debug().Msg("Started listening to consumer")

	for {
		err := c.Listen(c.ctx)
		if errors.Is(err, context.Canceled) {
			c.Logger.Debug().Msg("Consumer context canceled")

			return
		}

		select {
		case <-c.RoutineDeadSignal.Dead():
			return
		case <-c.ctx.Done():
			return
		default:
		}
	}
}

// Connect connects to the gateway and handles identifying.
func (c *Consumer) Connect() error {
	c.Logger.Debug().Msg("Connecting consumer")

	// Do not override status if it is currently Reconnecting.
	if c.GetStatus() != ConsumerStatusReconnecting {
		c.SetStatus(ConsumerStatusConnecting)
	}

	var err error

	defer func() {
		if err != nil {
			c.SetStatus(ConsumerStatusErroring)
		}
	}()

	// Empty ready channel.
readyConsumer:
	for {
		select {
		case <-c.ready:
			c.IsReady = true
		default:
			break readyConsumer
		}
	}

	select {
	case <-c.ctx.Done():
	default:
		c.cancel()
	}

	c.RoutineDeadSignal.Close("CONNECT")
	c.RoutineDeadSignal.Revive()

	c.HeartbeatDeadSignal.Close("HB")
	c.HeartbeatDeadSignal.Revive()

	c.ctx, c.cancel = context.WithCancel(c.Daemon.ctx)

	defer func() {
		if err != nil && c.hasWsConn() {
			c.CloseWS(websocket.StatusNormalClosure)
		}
	}()

	originURL := c.Daemon.gatewayURL()
	resumeURL := c.ResumeGatewayURL.Load()

	var websocketURL string

	if resumeURL != "" {
		websocketURL = resumeURL

		c.Logger.Debug().Str("url", websocketURL).Msg("Resuming consumer")
		c.ResumeGatewayURL.Store("")
	} else {
		c.SessionID.Store("")
		websocketURL = originURL
	}

	if !c.hasWsConn() || c.ConnectionURL.Load() != websocketURL {
		if c.hasWsConn() {
			c.Logger.Debug().Msg("Closing existing websocket connection")

			err = c.CloseWS(websocket.StatusInternalError)
			if err != nil {
				c.Logger.Error().Err(err).Msg("Failed to close existing websocket connection")
			}

			c.ConnectionURL.Store("")
		}

		c.ConnectionURL.Store(websocketURL)

		errorCh, messageCh, dialErr := c.FeedWebsocket(c.ctx, websocketURL, nil)
		if dialErr != nil {
			err = dialErr
			c.Logger.Error().Err(err).Msg("Failed to dial gateway")

			go c.Daemon.PublishSimpleWebhook(
				fmt.Sprintf("Failed to dial `%s`", websocketURL),
				"`"+err.Error()+"`",
				c.shardText(),
				EmbedColourDanger,
			)

			return err
		}

		c.channelMu.Lock()
		c.ErrorCh = errorCh
		c.MessageCh = messageCh
		c.channelMu.Unlock()
	} else {
		c.Logger.Info().Msg("Reusing websocket connection")
	}

	c.Logger.Trace().Msg("Reading from gateway")

	// Read a message from the gateway, this should be Hello.
	msg, err := c.readMessage()
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to read message")

		return err
	}

	var helloResponse chord.Hello

	err = c.decodeContent(msg, &helloResponse)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	c.Start.Store(now)
	c.LastHeartbeatAck.Store(now)
	c.LastHeartbeatSent.Store(now)

	intervalWithJitter := int32(float32(helloResponse.HeartbeatInterval) * 0.8)

	c.HeartbeatInterval = time.Duration(intervalWithJitter) * time.Millisecond
	c.HeartbeatFailureInterval = c.HeartbeatInterval * ConsumerMaxHeartbeatFailures

	c.Heartbeater = time.NewTicker(c.HeartbeatInterval)

	go c.Heartbeat(c.ctx)

	sequence := c.Sequence.Load()
	sessionID := c.SessionID.Load()

	c.Logger.Debug().
		Dur("interval", c.HeartbeatInterval).
		Int32("sequence", sequence).
		Msg("Received HELLO event")

	if sessionID == "" || sequence == 0 {
		err = c.Identify(c.ctx)
		if err != nil {
			c.Logger.Error().Err(err).Msg("Failed to identify")

			go c.Daemon.PublishSimpleWebhook(
				"Failed to Identify",
				"`"+err.Error()+"`",
				c.shardText(),
				EmbedColourDanger,
			)

			return err
		}
	} else {
		err = c.Resume(c.ctx)
		if err != nil {
			c.Logger.Error().Err(err).Msg("Failed to resume")

			go c.Daemon.PublishSimpleWebhook(
				"Failed to Resume",
				"`"+err.Error()+"`",
				c.shardText(),
				EmbedColourDanger,
			)

			return err
		}
	}

	t := time.NewTicker(FirstEventTimeout)
	defer t.Stop()

	// We wait until we either receive a first event, an error or we hit the
	// FirstEventTimeout. We do nothing when hitting the timeout.

	c.SetStatus(ConsumerStatusConnected)

	c.Logger.Trace().Msg("Waiting for first event")

	c.channelMu.RLock()
	errorCh := c.ErrorCh
	messageCh := c.MessageCh
	c.channelMu.RUnlock()

	select {
	case err = <-errorCh:
		if err == nil {
			err = fmt.Errorf("error channel closed")
		}

		c.Logger.Error().Err(err).Msg("Encountered error whilst connecting")

		go c.Daemon.PublishSimpleWebhook(
			"Encountered error during connection",
			"`"+err.Error()+"`",
			c.shardText(),
			EmbedColourDanger,
		)

		return err
	case msg = <-messageCh:
		c.Logger.Debug().Msgf("Received first event %d %s", msg.Op, msg.Type)

		messageCh <- msg
	case <-t.C:
	}

	return err
}

// Heartbeat maintains a heartbeat with discord.
func (c *Consumer) Heartbeat(ctx context.Context) {
	c.HeartbeatActive.Store(true)
	c.HeartbeatDeadSignal.Started()

	defer func() {
		c.HeartbeatActive.Store(false)
		c.HeartbeatDeadSignal.Done()
	}()

	for {
		select {
		case <-c.HeartbeatDeadSignal.Dead():
			return
		case <-ctx.Done():
			return
		case <-c.Heartbeater.C:
			seq := c.Sequence.Load()

			err := c.SendEvent(ctx, chord.GatewayOpHeartbeat, seq)

			now := time.Now().UTC()
			c.LastHeartbeatSent.Store(now)

			if err != nil || (now.Sub(c.LastHeartbeatAck.Load()) > c.HeartbeatFailureInterval) {
				if err != nil {
					c.Logger.Error().Err(err).Msg("Failed to heartbeat. Reconnecting")

					go c.Daemon.PublishSimpleWebhook(
						"Failed to heartbeat. Reconnecting",
						"`"+err.Error()+"`",
						c.shardText(),
						EmbedColourDanger,
					)
				} else {
					c.Logger.Warn().Msg("Failed to ack and passed heartbeat failure interval")
					err = fmt.Errorf("failed to ack and passed heartbeat failure interval")

					go c.Daemon.PublishSimpleWebhook(
						"Failed to ack and passed heartbeat failure interval",
						"",
						c.shardText(),
						EmbedColourWarning,
					)
				}

				c.channelMu.RLock()
				errorCh := c.ErrorCh
				c.channelMu.RUnlock()

				errorCh <- err

				return
			}
		}
	}
}

// Listen to the gateway and process accordingly.
func (c *Consumer) Listen(ctx context.Context) error {
	c.wsConnMu.RLock()
	wsConn := c.wsConn
	c.wsConnMu.RUnlock()

	for {
		select {
		case <-c.RoutineDeadSignal.Dead():
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := c.readMessage()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}

			c.Logger.Error().Err(err).Msg("Error reading from gateway")

			var closeError websocket.CloseError

			if errors.As(err, &closeError) {
				switch int(closeError.Code) {
				case chord.CloseNotAuthenticated,
					chord.CloseInvalidShard,
					chord.CloseShardingRequired,
					chord.CloseInvalidAPIVersion,
					chord.CloseInvalidIntents,
					chord.CloseDisallowedIntents:
					// A retry will never recover from these.
					c.Logger.Error().Int("code", int(closeError.Code)).Msg("Consumer received closure code")

					go c.Daemon.PublishSimpleWebhook(
						"Consumer received closure code",
						"`"+strconv.Itoa(int(closeError.Code))+"` - `"+err.Error()+"`",
						c.shardText(),
						EmbedColourWarning,
					)

					return err
				default:
					c.Logger.Warn().Msgf("Websocket was closed with code %d", closeError.Code)
				}
			}

			c.wsConnMu.RLock()
			connEqual := wsConn == c.wsConn
			c.wsConnMu.RUnlock()

			if connEqual {
				// We have likely closed so we should attempt to reconnect.
				c.Logger.Warn().Msg("Encountered error whilst in the same connection. Reconnecting")

				err = c.Reconnect(websocket.StatusNormalClosure)
				if err != nil {
					return err
				}

				return nil
			}

			c.wsConnMu.RLock()
			wsConn = c.wsConn
			c.wsConnMu.RUnlock()
		}

		trace := ChordTrace{
			"receive": chord.Int64(time.Now().Unix()),
		}

		c.OnEvent(ctx, msg, trace)

		c.wsConnMu.RLock()
		connNotEqual := wsConn != c.wsConn
		c.wsConnMu.RUnlock()

		// In the event we have reconnected, the wsConn could have changed,
		// we will use the new wsConn if this is the case.
		if connNotEqual {
			c.Logger.Debug().Msg("New wsConn was assigned to consumer")

			c.wsConnMu.RLock()
			wsConn = c.wsConn
			c.wsConnMu.RUnlock()
		}
	}

	return nil
}

// FeedWebsocket reads websocket events and feeds them through a channel.
func (c *Consumer) FeedWebsocket(ctx context.Context, u string,
	opts *websocket.DialOptions,
) (errorCh chan error, messageCh chan chord.GatewayPayload, err error) {
	messageCh = make(chan chord.GatewayPayload, MessageChannelBuffer)
	errorCh = make(chan error, 1)

	conn, _, err := websocket.Dial(ctx, u, opts)
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to dial websocket")

		return errorCh, messageCh, fmt.Errorf("failed to connect to websocket: %w", err)
	}

	conn.SetReadLimit(WebsocketReadLimit)

	c.wsConnMu.Lock()
	c.wsConn = conn
	c.wsConnMu.Unlock()

	go func() {
		c.RoutineDeadSignal.Started()
		defer c.RoutineDeadSignal.Done()

		for {
			messageType, data, connectionErr := conn.Read(ctx)

			select {
			case <-c.RoutineDeadSignal.Dead():
				return
			case <-ctx.Done():
				return
			default:
			}

			chordEventCount.WithLabelValues(c.Daemon.Identifier.Load()).Add(1)

			if connectionErr != nil {
				c.Logger.Error().Err(connectionErr).Msg("Failed to read from gateway")
				errorCh <- connectionErr

				return
			}

			if messageType == websocket.MessageBinary {
				data, connectionErr = czlib.Decompress(data)
				if connectionErr != nil {
					c.Logger.Error().Err(connectionErr).Msg("Failed to decompress data")
					errorCh <- connectionErr

					return
				}
			}

			msg, _ := c.Daemon.receivedPool.Get().(*chord.GatewayPayload)
			*msg = chord.GatewayPayload{}

			connectionErr = chordjson.Unmarshal(data, msg)
			if connectionErr != nil {
				c.Logger.Error().Err(connectionErr).Msg("Failed to unmarshal message")
				c.Daemon.receivedPool.Put(msg)

				continue
			}

			payload := *msg
			c.Daemon.receivedPool.Put(msg)

			if payload.Sequence > 0 {
				c.Sequence.Store(payload.Sequence)
			}

			select {
			case messageCh <- payload:
				continue
			case <-c.RoutineDeadSignal.Dead():
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return errorCh, messageCh, nil
}

// Identify sends the identify packet to discord.
func (c *Consumer) Identify(ctx context.Context) error {
	c.Daemon.gatewayLimiter.Lock()

	c.Daemon.configurationMu.RLock()
	token := c.Daemon.Configuration.Token
	presence := c.Daemon.Configuration.Bot.DefaultPresence
	intents := c.Daemon.Configuration.Bot.Intents
	c.Daemon.configurationMu.RUnlock()

	c.Logger.Debug().Msg("Sending identify")

	return c.SendEvent(ctx, chord.GatewayOpIdentify, chord.Identify{
		Token: token,
		Properties: &chord.IdentifyProperties{
			OS:      runtime.GOOS,
			Browser: "Chord " + VERSION,
			Device:  "Chord " + VERSION,
		},
		Compress:       true,
		LargeThreshold: GatewayLargeThreshold,
		Shard:          [2]int32{c.ShardID, c.ShardCount},
		Presence:       presence,
		Intents:        intents,
	})
}

// Resume sends the resume packet to discord.
func (c *Consumer) Resume(ctx context.Context) error {
	c.Daemon.configurationMu.RLock()
	token := c.Daemon.Configuration.Token
	c.Daemon.configurationMu.RUnlock()

	c.Logger.Debug().Msg("Sending resume")

	return c.SendEvent(ctx, chord.GatewayOpResume, chord.Resume{
		Token:     token,
		SessionID: c.SessionID.Load(),
		Sequence:  c.Sequence.Load(),
	})
}

// SendEvent sends an event to discord.
func (c *Consumer) SendEvent(ctx context.Context, op chord.GatewayOp, data interface{}) error {
	packet, _ := c.Daemon.sentPool.Get().(*chord.SentPayload)
	defer c.Daemon.sentPool.Put(packet)

	packet.Op = op
	packet.Data = data

	err := c.WriteJSON(ctx, op, packet)
	if err != nil {
		return fmt.Errorf("sendEvent writeJson: %w", err)
	}

	return nil
}

// WriteJSON writes json data to the websocket.
func (c *Consumer) WriteJSON(ctx context.Context, op chord.GatewayOp, i interface{}) error {
	// In very rare circumstances, we can be writing to the websocket whilst
	// context is being remade. We will recover and dismiss any SIGSEGVs that
	// are raised.
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if ok {
				c.Logger.Warn().Err(err).Bool("hasWsConn", c.hasWsConn()).Msg("Recovered panic in WriteJSON")
			} else {
				c.Logger.Warn().Interface("recovered", r).Bool("hasWsConn", c.hasWsConn()).Msg("Recovered panic in WriteJSON")
			}
		}
	}()

	if !c.hasWsConn() {
		err := c.Reconnect(websocket.StatusNormalClosure)

		return fmt.Errorf("no websocket connection: %w", err)
	}

	res, err := chordjson.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if op != chord.GatewayOpHeartbeat {
		c.wsRatelimit.Lock()
	}

	c.wsConnMu.RLock()
	wsConn := c.wsConn
	c.wsConnMu.RUnlock()

	c.Logger.Trace().Msg("<<< " + gotils_strconv.B2S(res))

	err = wsConn.Write(ctx, websocket.MessageText, res)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// decodeContent converts the stored msg into the passed interface.
func (c *Consumer) decodeContent(msg chord.GatewayPayload, out interface{}) error {
	err := chordjson.Unmarshal(msg.Data, out)
	if err != nil {
		c.Logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to decode event")

		return fmt.Errorf("failed to decode %s: %w", msg.Type, err)
	}

	return nil
}

// readMessage fills the consumer msg buffer from a websocket message.
func (c *Consumer) readMessage() (msg chord.GatewayPayload, err error) {
	c.channelMu.RLock()
	errorCh := c.ErrorCh
	messageCh := c.MessageCh
	c.channelMu.RUnlock()

	select {
	case err = <-errorCh:
		return msg, err
	case msg = <-messageCh:
		return msg, nil
	}
}

// Close closes the consumer connection.
func (c *Consumer) Close(code websocket.StatusCode) {
	c.Logger.Info().Int("code", int(code)).Msg("Closing consumer")

	c.IsReady = false

	c.SetStatus(ConsumerStatusClosing)

	c.RoutineDeadSignal.Close("CLOSE")
	c.RoutineDeadSignal.Revive()

	if c.ctx != nil {
		c.cancel()
	}

	if c.hasWsConn() {
		if err := c.CloseWS(code); err != nil {
			c.Logger.Debug().Err(err).Msg("Encountered error closing websocket")
		}
	}

	c.SetStatus(ConsumerStatusClosed)
}

// CloseWS closes the websocket. The error is always suppressed.
func (c *Consumer) CloseWS(statusCode websocket.StatusCode) error {
	if c.hasWsConn() {
		c.Logger.Debug().Int("code", int(statusCode)).Msg("Closing websocket connection")

		c.wsConnMu.Lock()
		wsConn := c.wsConn

		if wsConn != nil {
			err := wsConn.Close(statusCode, "")
			if err != nil && !errors.Is(err, context.Canceled) {
				c.Logger.Warn().Err(err).Msg("Failed to close websocket connection")
			}
		}

		c.wsConn = nil
		c.wsConnMu.Unlock()
	}

	return nil
}

// WaitForReady blocks until the consumer is ready.
func (c *Consumer) WaitForReady() {
	if c.IsReady {
		return
	}

	since := time.Now().UTC()
	t := time.NewTicker(WaitForReadyTimeout)

	defer t.Stop()

	c.RoutineDeadSignal.Started()
	defer c.RoutineDeadSignal.Done()

	for {
		if c.IsReady {
			return
		}

		select {
		case <-c.ready:
		case <-c.RoutineDeadSignal.Dead():
			return
		case <-t.C:
			c.Logger.Debug().
				Dur("since", time.Now().UTC().Sub(since).Round(time.Second)).
				Msg("Still waiting for consumer to be ready")
		}
	}
}

// Reconnect attempts to reconnect to the gateway.
func (c *Consumer) Reconnect(code websocket.StatusCode) error {
	wait := time.Second

	c.SetStatus(ConsumerStatusReconnecting)

	c.Close(code)

	for {
		c.Logger.Info().Msg("Trying to reconnect to gateway")

		err := c.Connect()
		if err == nil {
			c.RetriesRemaining.Store(ConsumerConnectRetries)
			c.Logger.Info().Msg("Successfully reconnected to gateway")

			return nil
		}

		retries := c.RetriesRemaining.Sub(1)
		if retries <= 0 {
			c.Logger.Warn().Msg("Ran out of retries whilst connecting. Attempting to reconnect client")
			c.Close(code)

			err = c.Connect()
			if err != nil {
				go c.Daemon.PublishSimpleWebhook(
					"Failed to connect to gateway",
					"`"+err.Error()+"`",
					c.shardText(),
					EmbedColourDanger,
				)
			}

			return err
		}

		c.Logger.Warn().Err(err).Dur("retry", wait).Msg("Failed to reconnect to gateway")
		<-time.After(wait)

		wait *= 2
		if wait > MaxReconnectWait {
			wait = MaxReconnectWait
		}
	}
}

// OnDispatchEvent is called during the dispatch event to call analytics.
func (c *Consumer) OnDispatchEvent(eventType string) {
	c.OnGuildDispatchEvent(eventType, chord.GuildID(0))
}

// OnGuildDispatchEvent is called during the dispatch event to call analytics
// with a guild Id.
func (c *Consumer) OnGuildDispatchEvent(eventType string, guildID chord.GuildID) {
	chordDispatchEventCount.WithLabelValues(c.Daemon.Identifier.Load(), eventType).Inc()
}

// SafeOnGuildDispatchEvent takes a guildID pointer and handles guild event
// counts if nil.
func (c *Consumer) SafeOnGuildDispatchEvent(eventType string, guildIDPtr *chord.GuildID) {
	if guildIDPtr != nil {
		c.OnGuildDispatchEvent(eventType, *guildIDPtr)
	} else {
		c.OnDispatchEvent(eventType)
	}
}

// OnDiscardEvent is called when a payload fragment is skipped instead of
// applied to the state.
func (c *Consumer) OnDiscardEvent(reason string) {
	chordDiscardedEventCount.WithLabelValues(c.Daemon.Identifier.Load(), reason).Inc()
}

// SetStatus sets the status of the consumer.
func (c *Consumer) SetStatus(status ConsumerStatus) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()

	c.Logger.Debug().Int("status", int(status)).Msg("Consumer status changed")

	c.Status = status
}

// GetStatus returns the status of the consumer.
func (c *Consumer) GetStatus() (status ConsumerStatus) {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()

	return c.Status
}

func (c *Consumer) shardText() string {
	return fmt.Sprintf(
		"Identifier: %s ShardID: %d/%d",
		c.Daemon.Identifier.Load(),
		c.ShardID,
		c.ShardCount,
	)
}

func (c *Consumer) hasWsConn() (hasWsConn bool) {
	c.wsConnMu.RLock()
	hasWsConn = c.wsConn != nil
	c.wsConnMu.RUnlock()

	return
}
