package chord

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/WelcomerTeam/Chord/chordjson"
)

const (
	MaxInt64        = 9007199254740991
	DiscordCreation = 1420070400000
)

var null = []byte("null")

// Placeholder type for easy identification.
type Snowflake int64

func (s *Snowflake) IsNil() bool {
	return *s == 0
}

func toSnowflake(b []byte, s *Snowflake) error {
	if !bytes.Equal(b, null) {
		if b[0] == '"' && len(b) >= 2 {
			i, err := strconv.ParseInt(string(b[1:len(b)-1]), 10, 64)
			if err != nil {
				return fmt.Errorf("failed to unmarshal json: %v", err)
			}

			*s = Snowflake(i)
		} else {
			i, err := strconv.ParseInt(string(b), 10, 64)
			if err != nil {
				return fmt.Errorf("failed to unmarshal json: %v", err)
			}

			*s = Snowflake(i)
		}
	} else {
		*s = 0
	}

	return nil
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, s)
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return int64ToStringBytes(int64(s)), nil
}

func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// Time returns the creation time of the Snowflake.
func (s Snowflake) Time() time.Time {
	nsec := (int64(s) >> 22) + DiscordCreation

	return time.Unix(0, nsec*1000000)
}

// int64 to allow for marshalling support.
type Int64 int64

func (in *Int64) UnmarshalJSON(b []byte) error {
	if b[0] == '"' && len(b) >= 2 {
		i, err := strconv.ParseInt(string(b[1:len(b)-1]), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to unmarshal json: %v", err)
		}

		*in = Int64(i)
	} else {
		i, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to unmarshal json: %v", err)
		}

		*in = Int64(i)
	}

	return nil
}

func (in Int64) MarshalJSON() ([]byte, error) {
	return int64ToStringBytes(int64(in)), nil
}

func (in Int64) String() string {
	return strconv.FormatInt(int64(in), 10)
}

func int64ToStringBytes(s int64) []byte {
	buf := make([]byte, 0, 24) // maxInt64JsonLength + 2

	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, s, 10)
	buf = append(buf, '"')

	return buf
}

type Timestamp string

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return null, nil
	}

	if _, err := time.Parse(time.RFC3339, string(t)); err != nil {
		return nil, fmt.Errorf("timestamp is corrupted (is %v): %v", t, err)
	}

	return chordjson.Marshal(string(t))
}

// NewTimestamp formats a time in the wire representation.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(time.RFC3339))
}

type List[T any] []T

func (l List[T]) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}

	return chordjson.Marshal([]T(l))
}

type SnowflakeList = List[Snowflake]
type StringList = List[string]
type ChannelIDList = List[ChannelID]
type UserIDList = List[UserID]
type MessageIDList = List[MessageID]
type ChannelOverwriteList = List[ChannelOverwrite]
type ThreadMemberList = List[ThreadMember]
type ForumTagList = List[ForumTag]
type VoiceStateList = List[VoiceState]
type EmbedList = List[Embed]
type EmbedFieldList = List[EmbedField]
type WebhookList = List[Webhook]
type InviteList = List[Invite]
type MessageList = List[Message]
type StageInstanceList = List[StageInstance]
type UserList = List[User]
type UnavailableGuildList = List[UnavailableGuild]
