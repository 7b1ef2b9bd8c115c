package chord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// messageable.go contains the operations shared by message-holding channels.

// Messageable is implemented by channel variants that exchange messages:
// text and announcement channels, direct messages and threads.
type Messageable interface {
	Channel

	Send(s *Session, params MessageParams) (*Message, error)
	History(s *Session, params HistoryParams) ([]Message, error)
	FetchMessage(s *Session, messageID MessageID) (*Message, error)
	DeleteMessage(s *Session, messageID MessageID, reason string) error
	BulkDeleteMessages(s *Session, messageIDs []MessageID, reason string) error
	PurgeMessages(s *Session, limit int32, cursor HistoryCursor, filter func(Message) bool, bulk bool, reason string) ([]MessageID, error)
	TriggerTyping(s *Session) error
	TypingWhile(s *Session, fn func(ctx context.Context) error) error
}

const historyLimitDefault = 50

// HistoryCursor anchors a history request around a message. The zero value
// requests the newest messages. A cursor holds at most one anchor mode by
// construction.
type HistoryCursor struct {
	mode string
	id   MessageID
}

// CursorBefore anchors history to messages older than the given message.
func CursorBefore(id MessageID) HistoryCursor {
	return HistoryCursor{mode: "before", id: id}
}

// CursorAfter anchors history to messages newer than the given message.
func CursorAfter(id MessageID) HistoryCursor {
	return HistoryCursor{mode: "after", id: id}
}

// CursorAround anchors history to messages surrounding the given message.
func CursorAround(id MessageID) HistoryCursor {
	return HistoryCursor{mode: "around", id: id}
}

// HistoryParams are the arguments for fetching channel history. Limit
// defaults to 50; the platform accepts 1 to 100.
type HistoryParams struct {
	Cursor HistoryCursor
	Limit  int32
}

// typingInterval is the cadence the typing indicator is re-fired on while a
// TypingWhile block runs. The platform expires an indicator after 10s.
var typingInterval = 9500 * time.Millisecond

func sendMessage(s *Session, channelID ChannelID, params MessageParams) (*Message, error) {
	endpoint := fmt.Sprintf("/channels/%s/messages", channelID)

	payload := buildMessagePayload(params)

	var message Message

	if len(params.Files) > 0 {
		payloadJSON, err := chordjson.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}

		contentType, body, err := encodeMultipart(payloadJSON, params.Files)
		if err != nil {
			return nil, err
		}

		err = s.Interface.FetchBJ(s, http.MethodPost, endpoint, contentType, body, nil, &message)
		if err != nil {
			return nil, err
		}

		return &message, nil
	}

	err := s.Interface.FetchJJ(s, http.MethodPost, endpoint, payload, nil, &message)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func channelHistory(s *Session, channelID ChannelID, params HistoryParams) ([]Message, error) {
	limit := params.Limit
	if limit == 0 {
		limit = historyLimitDefault
	}

	values := url.Values{}
	values.Set("limit", strconv.FormatInt(int64(limit), 10))

	if params.Cursor.mode != "" {
		values.Set(params.Cursor.mode, params.Cursor.id.String())
	}

	endpoint := fmt.Sprintf("/channels/%s/messages?%s", channelID, values.Encode())

	var messages []Message

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &messages)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func fetchMessage(s *Session, channelID ChannelID, messageID MessageID) (*Message, error) {
	endpoint := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)

	var message Message

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &message)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func deleteMessage(s *Session, channelID ChannelID, messageID MessageID, reason string) error {
	endpoint := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, auditLogReason(reason), nil)
}

// bulkDeleteMessages issues a single bulk-delete request. The platform
// accepts 2 to 100 messages no older than two weeks, and rejects anything
// else.
func bulkDeleteMessages(s *Session, channelID ChannelID, messageIDs []MessageID, reason string) error {
	endpoint := fmt.Sprintf("/channels/%s/messages/bulk-delete", channelID)

	payload := map[string]any{
		"messages": List[MessageID](messageIDs),
	}

	return s.Interface.FetchJJ(s, http.MethodPost, endpoint, payload, auditLogReason(reason), nil)
}

// purgeMessages deletes the filtered slice of recent history. Matches go
// through the bulk path when allowed and at least two messages matched;
// otherwise they are deleted one by one in history order. The ids actually
// deleted are returned, even when a later deletion fails.
func purgeMessages(s *Session, channelID ChannelID, limit int32, cursor HistoryCursor, filter func(Message) bool, bulk bool, reason string) ([]MessageID, error) {
	messages, err := channelHistory(s, channelID, HistoryParams{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	matched := make([]MessageID, 0, len(messages))

	for _, message := range messages {
		if filter == nil || filter(message) {
			matched = append(matched, message.ID)
		}
	}

	if len(matched) == 0 {
		return nil, nil
	}

	if bulk && len(matched) >= 2 {
		err = bulkDeleteMessages(s, channelID, matched, reason)
		if err != nil {
			return nil, err
		}

		return matched, nil
	}

	deleted := make([]MessageID, 0, len(matched))

	for _, messageID := range matched {
		err = deleteMessage(s, channelID, messageID, reason)
		if err != nil {
			return deleted, err
		}

		deleted = append(deleted, messageID)
	}

	return deleted, nil
}

func triggerTyping(s *Session, channelID ChannelID) error {
	endpoint := fmt.Sprintf("/channels/%s/typing", channelID)

	return s.Interface.FetchBJ(s, http.MethodPost, endpoint, "", nil, nil, nil)
}

// typingWhile keeps the typing indicator alive while fn runs. The indicator
// fires once up front, then a background task re-fires it every 9.5s
// concurrently with fn. The task is cancelled on every exit path, including
// fn failing.
func typingWhile(s *Session, channelID ChannelID, fn func(ctx context.Context) error) error {
	err := triggerTyping(s, channelID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(s.Context)
	defer cancel()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := triggerTyping(s, channelID); err != nil {
					return
				}
			}
		}
	}()

	return fn(ctx)
}

func (c *TextChannel) Send(s *Session, params MessageParams) (*Message, error) {
	return sendMessage(s, c.ID, params)
}

func (c *TextChannel) History(s *Session, params HistoryParams) ([]Message, error) {
	return channelHistory(s, c.ID, params)
}

func (c *TextChannel) FetchMessage(s *Session, messageID MessageID) (*Message, error) {
	return fetchMessage(s, c.ID, messageID)
}

func (c *TextChannel) DeleteMessage(s *Session, messageID MessageID, reason string) error {
	return deleteMessage(s, c.ID, messageID, reason)
}

func (c *TextChannel) BulkDeleteMessages(s *Session, messageIDs []MessageID, reason string) error {
	return bulkDeleteMessages(s, c.ID, messageIDs, reason)
}

func (c *TextChannel) PurgeMessages(s *Session, limit int32, cursor HistoryCursor, filter func(Message) bool, bulk bool, reason string) ([]MessageID, error) {
	return purgeMessages(s, c.ID, limit, cursor, filter, bulk, reason)
}

func (c *TextChannel) TriggerTyping(s *Session) error {
	return triggerTyping(s, c.ID)
}

func (c *TextChannel) TypingWhile(s *Session, fn func(ctx context.Context) error) error {
	return typingWhile(s, c.ID, fn)
}

func (c *DMChannel) Send(s *Session, params MessageParams) (*Message, error) {
	return sendMessage(s, c.ID, params)
}

func (c *DMChannel) History(s *Session, params HistoryParams) ([]Message, error) {
	return channelHistory(s, c.ID, params)
}

func (c *DMChannel) FetchMessage(s *Session, messageID MessageID) (*Message, error) {
	return fetchMessage(s, c.ID, messageID)
}

func (c *DMChannel) DeleteMessage(s *Session, messageID MessageID, reason string) error {
	return deleteMessage(s, c.ID, messageID, reason)
}

func (c *DMChannel) BulkDeleteMessages(s *Session, messageIDs []MessageID, reason string) error {
	return bulkDeleteMessages(s, c.ID, messageIDs, reason)
}

func (c *DMChannel) PurgeMessages(s *Session, limit int32, cursor HistoryCursor, filter func(Message) bool, bulk bool, reason string) ([]MessageID, error) {
	return purgeMessages(s, c.ID, limit, cursor, filter, bulk, reason)
}

func (c *DMChannel) TriggerTyping(s *Session) error {
	return triggerTyping(s, c.ID)
}

func (c *DMChannel) TypingWhile(s *Session, fn func(ctx context.Context) error) error {
	return typingWhile(s, c.ID, fn)
}

func (t *Thread) Send(s *Session, params MessageParams) (*Message, error) {
	return sendMessage(s, t.ID, params)
}

func (t *Thread) History(s *Session, params HistoryParams) ([]Message, error) {
	return channelHistory(s, t.ID, params)
}

func (t *Thread) FetchMessage(s *Session, messageID MessageID) (*Message, error) {
	return fetchMessage(s, t.ID, messageID)
}

func (t *Thread) DeleteMessage(s *Session, messageID MessageID, reason string) error {
	return deleteMessage(s, t.ID, messageID, reason)
}

func (t *Thread) BulkDeleteMessages(s *Session, messageIDs []MessageID, reason string) error {
	return bulkDeleteMessages(s, t.ID, messageIDs, reason)
}

func (t *Thread) PurgeMessages(s *Session, limit int32, cursor HistoryCursor, filter func(Message) bool, bulk bool, reason string) ([]MessageID, error) {
	return purgeMessages(s, t.ID, limit, cursor, filter, bulk, reason)
}

func (t *Thread) TriggerTyping(s *Session) error {
	return triggerTyping(s, t.ID)
}

func (t *Thread) TypingWhile(s *Session, fn func(ctx context.Context) error) error {
	return typingWhile(s, t.ID, fn)
}
