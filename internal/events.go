package internal

import (
	"context"
	"errors"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	gotils_strconv "github.com/savsgio/gotils/strconv"
	gotils_strings "github.com/savsgio/gotils/strings"
)

// ConsumerStatus represents the connection state of the gateway consumer.
type ConsumerStatus uint8

const (
	ConsumerStatusIdle ConsumerStatus = iota
	ConsumerStatusConnecting
	ConsumerStatusConnected

	// Set when the consumer has received its READY event and handled it.
	ConsumerStatusReady
	ConsumerStatusReconnecting

	ConsumerStatusClosing
	ConsumerStatusClosed
	ConsumerStatusErroring
)

// List of handlers for gateway events.
var gatewayHandlers = make(map[chord.GatewayOp]func(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error))

// List of handlers for dispatch events.
var dispatchHandlers = make(map[string]func(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error))

// StateResult carries what a dispatch handler wants sent to consumers.
type StateResult struct {
	Data  chordjson.RawMessage
	Extra map[string]chordjson.RawMessage
}

type StateCtx struct {
	CacheUsers bool
	Stateless  bool

	context context.Context
	*Consumer
}

func (c *Consumer) OnEvent(ctx context.Context, msg chord.GatewayPayload, trace ChordTrace) {
	err := GatewayDispatch(ctx, c, msg, trace)
	if err != nil {
		if errors.Is(err, ErrNoGatewayHandler) {
			c.Logger.Warn().
				Int("op", int(msg.Op)).
				Str("type", msg.Type).
				Msg("Gateway sent unknown packet")
		}
	}
}

// OnDispatch handles routing of a discord dispatch event.
func (c *Consumer) OnDispatch(ctx context.Context, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	if c.Daemon.ProducerClient == nil {
		return ErrProducerMissing
	}

	c.Daemon.eventBlacklistMu.RLock()
	contains := gotils_strings.Include(c.Daemon.eventBlacklist, msg.Type)
	c.Daemon.eventBlacklistMu.RUnlock()

	if contains {
		return nil
	}

	c.Daemon.configurationMu.RLock()
	cacheUsers := c.Daemon.Configuration.Caching.CacheUsers
	c.Daemon.configurationMu.RUnlock()

	trace["state"] = chord.Int64(time.Now().Unix())

	result, continuable, err := StateDispatch(&StateCtx{
		context:    ctx,
		Consumer:   c,
		CacheUsers: cacheUsers,
	}, msg, trace)
	if err != nil {
		if !errors.Is(err, ErrNoDispatchHandler) {
			c.Logger.Error().Err(err).Str("data", gotils_strconv.B2S(msg.Data)).Msg("Encountered error whilst handling " + msg.Type)
		}

		return err
	}

	if !continuable {
		return nil
	}

	c.Daemon.produceBlacklistMu.RLock()
	contains = gotils_strings.Include(c.Daemon.produceBlacklist, msg.Type)
	c.Daemon.produceBlacklistMu.RUnlock()

	if contains {
		return nil
	}

	packet, _ := c.Daemon.payloadPool.Get().(*ChordPayload)
	defer c.Daemon.payloadPool.Put(packet)

	// Directly copy op, sequence and type from original message.
	packet.Op = msg.Op
	packet.Sequence = msg.Sequence
	packet.Type = msg.Type

	// Setting result.Data will override what is sent to consumers.
	packet.Data = result.Data

	// Extra contains any extra information such as before state.
	packet.Extra = result.Extra

	packet.Trace = trace

	return c.PublishEvent(ctx, packet)
}

func registerGatewayEvent(op chord.GatewayOp, handler func(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error)) {
	gatewayHandlers[op] = handler
}

func registerDispatch(eventType string, handler func(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error)) {
	dispatchHandlers[eventType] = handler
}

// GatewayDispatch handles selecting the proper gateway handler and executing it.
func GatewayDispatch(ctx context.Context, c *Consumer,
	event chord.GatewayPayload, trace ChordTrace,
) error {
	if f, ok := gatewayHandlers[event.Op]; ok {
		return f(ctx, c, event, trace)
	}

	c.Logger.Warn().Int("op", int(event.Op)).Msg("No gateway handler found")

	return ErrNoGatewayHandler
}

// StateDispatch handles selecting the proper state handler and executing it.
func StateDispatch(ctx *StateCtx,
	event chord.GatewayPayload, trace ChordTrace,
) (result StateResult, ok bool, err error) {
	if f, ok := dispatchHandlers[event.Type]; ok {
		ctx.Logger.Trace().Str("type", event.Type).Msg("State Dispatch")

		return f(ctx, event, trace)
	}

	ctx.Logger.Warn().Str("type", event.Type).Msg("No dispatch handler found")

	return result, false, ErrNoDispatchHandler
}
