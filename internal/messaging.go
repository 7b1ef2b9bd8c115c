package internal

import (
	"context"
	"fmt"
	"strings"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
)

// MQClients lists all current mqclients we have available.
var MQClients = []string{}

type MQClient interface {
	String() string
	Channel() string

	Connect(ctx context.Context, clientName string, args map[string]interface{}) error
	Publish(ctx context.Context, packet *ChordPayload, channelName string) error

	IsClosed() bool
	Close()
}

func NewMQClient(mqType string) (MQClient, error) {
	switch mqType {
	case "stan":
		return &StanMQClient{}, nil
	case "kafka":
		return &KafkaMQClient{}, nil
	case "redis":
		return &RedisMQClient{}, nil
	case "jetstream":
		return &JetStreamMQClient{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMQClient, mqType)
	}
}

// GetEntry returns the first match from a map and handles keys as non case sensitive.
func GetEntry(m map[string]interface{}, key string) interface{} {
	key = strings.ToLower(key)
	for i, k := range m {
		if strings.ToLower(i) == key {
			return k
		}
	}

	return nil
}

// ChordMetadata represents the identification information that consumers will use.
type ChordMetadata struct {
	Version       string          `json:"v"`
	Identifier    string          `json:"i"`
	Application   string          `json:"a"`
	ApplicationID chord.Snowflake `json:"id"`
	// Shard ID, Shard Count
	Shard [2]int32 `json:"s"`
}

type ChordTrace map[string]chord.Int64

// ChordPayload represents the data that is sent to consumers.
type ChordPayload struct {
	Op       chord.GatewayOp      `json:"op"`
	Data     chordjson.RawMessage `json:"d"`
	Sequence int32                `json:"s"`
	Type     string               `json:"t"`

	Extra    map[string]chordjson.RawMessage `json:"__extra"`
	Metadata ChordMetadata                   `json:"__chord"`
	Trace    ChordTrace                      `json:"__chord_trace"`
}

// PublishEvent publishes a ChordPayload to the configured producer.
func (c *Consumer) PublishEvent(ctx context.Context, packet *ChordPayload) error {
	c.Daemon.configurationMu.RLock()
	identifier := c.Daemon.Configuration.ProducerIdentifier
	application := c.Daemon.Configuration.Application
	channelName := c.Daemon.Configuration.Messaging.ChannelName
	c.Daemon.configurationMu.RUnlock()

	userID := c.UserID.Load()

	packet.Metadata = ChordMetadata{
		Version:       VERSION,
		Identifier:    identifier,
		Application:   application,
		ApplicationID: chord.Snowflake(userID),
		Shard: [2]int32{
			c.ShardID,
			c.ShardCount,
		},
	}

	err := c.Daemon.ProducerClient.Publish(
		ctx,
		packet,
		channelName,
	)
	if err != nil {
		return fmt.Errorf("publishEvent publish: %w", err)
	}

	return nil
}
