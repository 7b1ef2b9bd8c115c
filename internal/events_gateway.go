package internal

import (
	"context"
	"errors"
	"strconv"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	"nhooyr.io/websocket"
)

func gatewayOpDispatch(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) error {
	go func(msg chord.GatewayPayload, trace ChordTrace) {
		c.Daemon.EventsInflight.Inc()
		defer c.Daemon.EventsInflight.Dec()

		err := c.OnDispatch(ctx, msg, trace)
		if err != nil && !errors.Is(err, ErrNoDispatchHandler) {
			c.Logger.Error().Err(err).Msg("State dispatch failed")
		}
	}(msg, trace)

	return nil
}

func gatewayOpHeartbeat(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	err = c.SendEvent(ctx, chord.GatewayOpHeartbeat, c.Sequence.Load())
	if err != nil {
		go c.Daemon.PublishSimpleWebhook(
			"Failed to send heartbeat",
			"`"+err.Error()+"`",
			c.shardText(),
			EmbedColourDanger,
		)

		err = c.Reconnect(websocket.StatusNormalClosure)
		if err != nil {
			c.Logger.Error().Err(err).Msg("Failed to reconnect")
		}
	}

	return
}

func gatewayOpReconnect(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	c.Logger.Info().Msg("Reconnecting in response to gateway")

	err = c.Reconnect(WebsocketReconnectCloseCode)
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to reconnect")
	}

	return
}

func gatewayOpInvalidSession(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	var resumable bool

	_ = chordjson.Unmarshal(msg.Data, &resumable)

	if !resumable {
		c.SessionID.Store("")
		c.Sequence.Store(0)
	}

	c.Logger.Warn().Bool("resumable", resumable).Msg("Received invalid session")

	go c.Daemon.PublishSimpleWebhook(
		"Received invalid session from gateway",
		"",
		c.shardText(),
		EmbedColourChord,
	)

	err = c.Reconnect(WebsocketReconnectCloseCode)
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to reconnect")
	}

	return
}

func gatewayOpHello(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	var hello chord.Hello

	err = c.decodeContent(msg, &hello)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	c.LastHeartbeatSent.Store(now)
	c.LastHeartbeatAck.Store(now)

	c.HeartbeatInterval = time.Duration(hello.HeartbeatInterval) * time.Millisecond
	c.HeartbeatFailureInterval = c.HeartbeatInterval * ConsumerMaxHeartbeatFailures
	c.Heartbeater = time.NewTicker(c.HeartbeatInterval)

	c.Logger.Debug().
		Dur("interval", c.HeartbeatInterval).
		Msg("Received HELLO event from discord")

	return
}

func gatewayOpHeartbeatACK(ctx context.Context, c *Consumer, msg chord.GatewayPayload, trace ChordTrace) (err error) {
	c.LastHeartbeatAck.Store(time.Now().UTC())

	heartbeatRTT := c.LastHeartbeatAck.Load().Sub(c.LastHeartbeatSent.Load()).Milliseconds()

	c.Logger.Debug().
		Int64("RTT", heartbeatRTT).
		Msg("Received heartbeat ACK")

	chordGatewayLatency.WithLabelValues(
		c.Daemon.Identifier.Load(),
		strconv.Itoa(int(c.ShardID)),
	).Set(float64(heartbeatRTT))

	return
}

func init() {
	registerGatewayEvent(chord.GatewayOpDispatch, gatewayOpDispatch)
	registerGatewayEvent(chord.GatewayOpHeartbeat, gatewayOpHeartbeat)
	registerGatewayEvent(chord.GatewayOpReconnect, gatewayOpReconnect)
	registerGatewayEvent(chord.GatewayOpInvalidSession, gatewayOpInvalidSession)
	registerGatewayEvent(chord.GatewayOpHello, gatewayOpHello)
	registerGatewayEvent(chord.GatewayOpHeartbeatACK, gatewayOpHeartbeatACK)
}
