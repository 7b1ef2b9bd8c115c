package chord

type GuildID Snowflake

func (s *GuildID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s GuildID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

func (s GuildID) String() string {
	return Snowflake(s).String()
}

func (s *GuildID) IsNil() bool {
	return *s == 0
}

type ChannelID Snowflake

func (s *ChannelID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s ChannelID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

func (s ChannelID) String() string {
	return Snowflake(s).String()
}

func (s *ChannelID) IsNil() bool {
	return *s == 0
}

type MessageID Snowflake

func (s *MessageID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s MessageID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

func (s MessageID) String() string {
	return Snowflake(s).String()
}

type UserID Snowflake

func (s *UserID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s UserID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

func (s UserID) String() string {
	return Snowflake(s).String()
}

type RoleID Snowflake

func (s *RoleID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s RoleID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type EmojiID Snowflake

func (s *EmojiID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s EmojiID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type ApplicationID Snowflake

func (s *ApplicationID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s ApplicationID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type WebhookID Snowflake

func (s *WebhookID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s WebhookID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type StickerID Snowflake

func (s *StickerID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s StickerID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type TagID Snowflake

func (s *TagID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s TagID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}

type StageInstanceID Snowflake

func (s *StageInstanceID) UnmarshalJSON(b []byte) error {
	return toSnowflake(b, (*Snowflake)(s))
}

func (s StageInstanceID) MarshalJSON() ([]byte, error) {
	return Snowflake(s).MarshalJSON()
}
