package chord

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// thread.go contains threads, their metadata and archived thread pagination.

// ThreadMetadata contains thread-specific channel fields.
type ThreadMetadata struct {
	ArchiveTimestamp    Timestamp  `json:"archive_timestamp"`
	CreateTimestamp     *Timestamp `json:"create_timestamp,omitempty"`
	AutoArchiveDuration int32      `json:"auto_archive_duration"`
	Archived            bool       `json:"archived"`
	Locked              bool       `json:"locked"`
	Invitable           bool       `json:"invitable,omitempty"`
}

// ThreadMember is used to indicate whether a user has joined a thread or not.
type ThreadMember struct {
	ID            *ChannelID `json:"id,omitempty"`
	UserID        *UserID    `json:"user_id,omitempty"`
	GuildID       *GuildID   `json:"guild_id,omitempty"`
	JoinTimestamp Timestamp  `json:"join_timestamp"`
	Flags         int32      `json:"flags"`
}

// ForumTag represents a tag usable on forum posts.
type ForumTag struct {
	EmojiID   *EmojiID `json:"emoji_id"`
	EmojiName *string  `json:"emoji_name"`
	Name      string   `json:"name"`
	// ID is 0 until the platform assigns one.
	ID        TagID `json:"id,omitempty"`
	Moderated bool  `json:"moderated"`
}

const forumTagNameLimit = 20

// NewForumTag returns a client-constructed tag. A tag carries an emoji id or
// an emoji name, never both.
func NewForumTag(name string, moderated bool, emojiID *EmojiID, emojiName *string) (ForumTag, error) {
	if name == "" || utf8.RuneCountInString(name) > forumTagNameLimit {
		return ForumTag{}, ErrInvalidForumTagName
	}

	if emojiID != nil && emojiName != nil {
		return ForumTag{}, ErrInvalidForumTagEmoji
	}

	return ForumTag{
		Name:      name,
		Moderated: moderated,
		EmojiID:   emojiID,
		EmojiName: emojiName,
	}, nil
}

// ForumDefaultReaction is the emoji shown on the add-reaction button of forum
// posts.
type ForumDefaultReaction struct {
	EmojiID   *EmojiID `json:"emoji_id"`
	EmojiName *string  `json:"emoji_name"`
}

// Thread is a thread inside a text, announcement or forum channel. It keeps
// the original wire code, so announcement, public and private threads are
// distinguishable. Threads never hold their own permission overwrites.
type Thread struct {
	BaseChannel

	Member           *ThreadMember  `json:"member,omitempty"`
	LastMessageID    *MessageID     `json:"last_message_id,omitempty"`
	Name             string         `json:"name"`
	AppliedTags      List[TagID]    `json:"applied_tags,omitempty"`
	Metadata         ThreadMetadata `json:"thread_metadata"`
	GuildID          GuildID        `json:"guild_id"`
	ParentID         ChannelID      `json:"parent_id"`
	OwnerID          UserID         `json:"owner_id"`
	RateLimitPerUser int32          `json:"rate_limit_per_user"`
	MessageCount     int32          `json:"message_count"`
	MemberCount      int32          `json:"member_count"`
	TotalMessageSent int32          `json:"total_message_sent"`
	Flags            ChannelFlags   `json:"flags,omitempty"`
}

func (t *Thread) ChannelGuildID() GuildID {
	return t.GuildID
}

func (t *Thread) ChannelName() string {
	return t.Name
}

func (t *Thread) ChannelParentID() *ChannelID {
	return &t.ParentID
}

func (t *Thread) isGuildChannel() {}

// Overwrites returns the empty set: threads inherit permissions from their
// parent channel and never carry their own overwrites.
func (t *Thread) Overwrites() []ChannelOverwrite {
	return nil
}

func (t *Thread) OverwriteFor(id Snowflake) (ChannelOverwrite, bool) {
	return ChannelOverwrite{}, false
}

func (t *Thread) Category(state StateProvider) (*CategoryChannel, bool) {
	return resolveCategory(state, t.GuildID, &t.ParentID)
}

func (t *Thread) PermissionsSynced(state StateProvider) bool {
	category, ok := t.Category(state)
	if !ok {
		return false
	}

	return OverwritesEqual(t.Overwrites(), category.Overwrites())
}

func (t *Thread) Invites(s *Session) ([]Invite, error) {
	return channelInvites(s, t.ID)
}

func (t *Thread) CreateInvite(s *Session, params InviteParams, reason string) (*Invite, error) {
	return createChannelInvite(s, t.ID, params, reason)
}

// UpdateOverwrites is a no-op: threads never carry their own permission
// overwrites. No request is issued.
func (t *Thread) UpdateOverwrites(s *Session, overwrites []ChannelOverwrite, reason string) error {
	return nil
}

func (t *Thread) DeleteOverwrite(s *Session, overwriteID Snowflake, reason string) error {
	return deleteChannelOverwrite(s, t.ID, overwriteID, reason)
}

func (t *Thread) Delete(s *Session, reason string) error {
	return deleteChannel(s, t.ID, reason)
}

// Parent resolves the thread's parent channel through the given cache.
func (t *Thread) Parent(state StateProvider) (GuildChannel, bool) {
	return state.GetGuildChannel(t.GuildID, t.ParentID)
}

// Join adds the current user to the thread.
func (t *Thread) Join(s *Session) error {
	endpoint := fmt.Sprintf("/channels/%s/thread-members/@me", t.ID)

	return s.Interface.FetchBJ(s, http.MethodPut, endpoint, "", nil, nil, nil)
}

// Leave removes the current user from the thread.
func (t *Thread) Leave(s *Session) error {
	endpoint := fmt.Sprintf("/channels/%s/thread-members/@me", t.ID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, nil, nil)
}

// AddMember adds another member to the thread.
func (t *Thread) AddMember(s *Session, userID UserID) error {
	endpoint := fmt.Sprintf("/channels/%s/thread-members/%s", t.ID, userID)

	return s.Interface.FetchBJ(s, http.MethodPut, endpoint, "", nil, nil, nil)
}

// RemoveMember removes another member from the thread.
func (t *Thread) RemoveMember(s *Session, userID UserID) error {
	endpoint := fmt.Sprintf("/channels/%s/thread-members/%s", t.ID, userID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, nil, nil)
}

// FetchMember returns the thread member entry for the given user.
func (t *Thread) FetchMember(s *Session, userID UserID) (*ThreadMember, error) {
	endpoint := fmt.Sprintf("/channels/%s/thread-members/%s", t.ID, userID)

	var member ThreadMember

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &member)
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// Members lists the members of the thread.
func (t *Thread) Members(s *Session) ([]ThreadMember, error) {
	endpoint := fmt.Sprintf("/channels/%s/thread-members", t.ID)

	var members []ThreadMember

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &members)
	if err != nil {
		return nil, err
	}

	return members, nil
}

// ThreadParams are the arguments for starting a thread without a message.
type ThreadParams struct {
	Name                string      `json:"name"`
	AutoArchiveDuration int32       `json:"auto_archive_duration,omitempty"`
	Type                ChannelType `json:"type"`
	Invitable           bool        `json:"invitable,omitempty"`
	RateLimitPerUser    int32       `json:"rate_limit_per_user,omitempty"`
}

// StartThreadWithMessage starts a thread on an existing message.
func (c *TextChannel) StartThreadWithMessage(s *Session, messageID MessageID, name string, autoArchiveDuration int32, reason string) (*Thread, error) {
	endpoint := fmt.Sprintf("/channels/%s/messages/%s/threads", c.ID, messageID)

	payload := map[string]any{
		"name": name,
	}
	if autoArchiveDuration > 0 {
		payload["auto_archive_duration"] = autoArchiveDuration
	}

	return fetchThread(s, http.MethodPost, endpoint, payload, auditLogReason(reason), c.GuildID)
}

// StartThread starts a thread that is not attached to a message. The params
// type selects between public, private and announcement threads.
func (c *TextChannel) StartThread(s *Session, params ThreadParams, reason string) (*Thread, error) {
	endpoint := fmt.Sprintf("/channels/%s/threads", c.ID)

	return fetchThread(s, http.MethodPost, endpoint, params, auditLogReason(reason), c.GuildID)
}

// ForumThreadParams are the arguments for creating a forum post. Forum posts
// are threads whose starter message is created in the same request.
type ForumThreadParams struct {
	Name                string        `json:"name"`
	AutoArchiveDuration int32         `json:"auto_archive_duration,omitempty"`
	RateLimitPerUser    int32         `json:"rate_limit_per_user,omitempty"`
	Message             MessageParams `json:"-"`
	AppliedTags         List[TagID]   `json:"applied_tags,omitempty"`
}

// StartForumThread creates a forum post: a thread and its starter message.
func (c *ForumChannel) StartForumThread(s *Session, params ForumThreadParams, reason string) (*Thread, error) {
	endpoint := fmt.Sprintf("/channels/%s/threads", c.ID)

	payload := map[string]any{
		"name":    params.Name,
		"message": buildMessagePayload(params.Message),
	}
	if params.AutoArchiveDuration > 0 {
		payload["auto_archive_duration"] = params.AutoArchiveDuration
	}
	if params.RateLimitPerUser > 0 {
		payload["rate_limit_per_user"] = params.RateLimitPerUser
	}
	if len(params.AppliedTags) > 0 {
		payload["applied_tags"] = params.AppliedTags
	}

	return fetchThread(s, http.MethodPost, endpoint, payload, auditLogReason(reason), c.GuildID)
}

func fetchThread(s *Session, method, endpoint string, payload any, headers http.Header, guildID GuildID) (*Thread, error) {
	body, err := chordjson.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := s.Interface.Fetch(s, method, endpoint, "application/json", body, headers)
	if err != nil {
		return nil, err
	}

	channel, ok, err := DecodeGuildChannel(response, guildID)
	if err != nil {
		return nil, err
	}

	thread, isThread := channel.(*Thread)
	if !ok || !isThread {
		return nil, fmt.Errorf("response was not a thread: %w", ErrUnsupportedChannelType)
	}

	return thread, nil
}

const archivedThreadsPageLimit = 50

// archivedThreadsPayload is the wire envelope of the archived thread listing
// routes. Threads stay raw so the pager can construct validated variants.
type archivedThreadsPayload struct {
	Threads []json.RawMessage `json:"threads"`
	Members ThreadMemberList  `json:"members"`
	HasMore bool              `json:"has_more"`
}

// ArchivedThreadPager pages through a channel's archived threads, newest
// archive timestamp first. It is a single-consumer cursor: calls to Next must
// not be made concurrently.
type ArchivedThreadPager struct {
	before    Timestamp
	channelID ChannelID
	guildID   GuildID
	remaining int32
	joined    bool
	private   bool
	hasMore   bool
}

func newArchivedThreadPager(channelID ChannelID, guildID GuildID, before Timestamp, limit int32, joined, private bool) *ArchivedThreadPager {
	remaining := limit
	if limit < 0 {
		remaining = -1
	}

	return &ArchivedThreadPager{
		before:    before,
		channelID: channelID,
		guildID:   guildID,
		remaining: remaining,
		joined:    joined,
		private:   private,
		hasMore:   remaining != 0,
	}
}

// PublicArchivedThreads returns a pager over the channel's public archived
// threads. A negative limit paginates until the platform runs out.
func (c *TextChannel) PublicArchivedThreads(before Timestamp, limit int32) *ArchivedThreadPager {
	return newArchivedThreadPager(c.ID, c.GuildID, before, limit, false, false)
}

// PrivateArchivedThreads returns a pager over the channel's private archived
// threads.
func (c *TextChannel) PrivateArchivedThreads(before Timestamp, limit int32) *ArchivedThreadPager {
	return newArchivedThreadPager(c.ID, c.GuildID, before, limit, false, true)
}

// JoinedPrivateArchivedThreads returns a pager over the private archived
// threads the current user has joined.
func (c *TextChannel) JoinedPrivateArchivedThreads(before Timestamp, limit int32) *ArchivedThreadPager {
	return newArchivedThreadPager(c.ID, c.GuildID, before, limit, true, true)
}

// PublicArchivedThreads returns a pager over the forum's archived posts.
func (c *ForumChannel) PublicArchivedThreads(before Timestamp, limit int32) *ArchivedThreadPager {
	return newArchivedThreadPager(c.ID, c.GuildID, before, limit, false, false)
}

// HasMore reports whether another call to Next may yield threads.
func (p *ArchivedThreadPager) HasMore() bool {
	return p.hasMore
}

// Next fetches and decodes the next batch of archived threads. An exhausted
// pager returns a nil batch and issues no request. The pager is exhausted
// once the platform reports no further data, a batch comes back short, or
// the requested limit is reached; the batch in hand is still returned and
// exhaustion surfaces on the following call.
func (p *ArchivedThreadPager) Next(s *Session) ([]Thread, error) {
	if !p.hasMore {
		return nil, nil
	}

	requestSize := int32(archivedThreadsPageLimit)
	if p.remaining >= 0 && p.remaining < requestSize {
		requestSize = p.remaining
	}

	payload, err := fetchArchivedThreads(s, p.channelID, p.before, requestSize, p.joined, p.private)
	if err != nil {
		return nil, err
	}

	members := make(map[ChannelID]ThreadMember, len(payload.Members))

	for _, member := range payload.Members {
		if member.ID != nil {
			members[*member.ID] = member
		}
	}

	threads := make([]Thread, 0, len(payload.Threads))

	for _, raw := range payload.Threads {
		if p.remaining == 0 {
			break
		}

		channel, ok, err := DecodeGuildChannel(raw, p.guildID)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		thread, isThread := channel.(*Thread)
		if !isThread {
			return nil, fmt.Errorf("archived thread listing returned a non-thread channel: %w", ErrUnsupportedChannelType)
		}

		if thread.Member == nil {
			if member, ok := members[thread.ID]; ok {
				thread.Member = &member
			}
		}

		threads = append(threads, *thread)

		if p.remaining > 0 {
			p.remaining--
		}
	}

	if p.remaining == 0 {
		p.hasMore = false

		return threads, nil
	}

	if !payload.HasMore || len(payload.Threads) < archivedThreadsPageLimit {
		p.hasMore = false
	}

	return threads, nil
}

func fetchArchivedThreads(s *Session, channelID ChannelID, before Timestamp, limit int32, joined, private bool) (archivedThreadsPayload, error) {
	var endpoint string

	switch {
	case joined:
		endpoint = fmt.Sprintf("/channels/%s/users/@me/threads/archived/private", channelID)
	case private:
		endpoint = fmt.Sprintf("/channels/%s/threads/archived/private", channelID)
	default:
		endpoint = fmt.Sprintf("/channels/%s/threads/archived/public", channelID)
	}

	values := url.Values{}

	if before != "" {
		values.Set("before", string(before))
	}

	if limit > 0 {
		values.Set("limit", strconv.FormatInt(int64(limit), 10))
	}

	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	var payload archivedThreadsPayload

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &payload)

	return payload, err
}
