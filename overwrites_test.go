package chord_test

import (
	"testing"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
	"github.com/stretchr/testify/assert"
)

// guildChannelMap resolves cached guild channels from a plain map, standing in
// for the real state layer.
type guildChannelMap map[chord.ChannelID]chord.GuildChannel

func (m guildChannelMap) GetGuildChannel(guildID chord.GuildID, channelID chord.ChannelID) (chord.GuildChannel, bool) {
	channel, ok := m[channelID]

	return channel, ok
}

func newCategory(id chord.ChannelID, overwrites ...chord.ChannelOverwrite) *chord.CategoryChannel {
	category := &chord.CategoryChannel{}
	category.ID = id
	category.Type = chord.ChannelTypeGuildCategory
	category.PermissionOverwrites = overwrites

	return category
}

func newTextUnderCategory(id chord.ChannelID, parentID chord.ChannelID, overwrites ...chord.ChannelOverwrite) *chord.TextChannel {
	channel := &chord.TextChannel{}
	channel.ID = id
	channel.Type = chord.ChannelTypeGuildText
	channel.ParentID = &parentID
	channel.PermissionOverwrites = overwrites

	return channel
}

func TestOverwritesMaterializeCopy(t *testing.T) {
	t.Parallel()

	records := []chord.ChannelOverwrite{
		{ID: 10, Type: chord.ChannelOverrideTypeRole, Allow: 1024, Deny: 0},
		{ID: 11, Type: chord.ChannelOverrideTypeMember, Allow: 0, Deny: 2048},
		{ID: 12, Type: chord.ChannelOverrideTypeRole, Allow: 8, Deny: 16},
	}

	channel := newTextUnderCategory(200, 204, records...)

	overwrites := channel.Overwrites()

	assertEqual(t, len(records), len(overwrites))
	assert.Equal(t, records, overwrites)

	// The materialized view is a copy: writing through it must not touch the
	// channel.
	overwrites[0].Allow = 0

	assertEqual(t, chord.Int64(1024), channel.PermissionOverwrites[0].Allow)

	// The view is rebuilt on every access, so backing mutations show up.
	channel.PermissionOverwrites = append(channel.PermissionOverwrites, chord.ChannelOverwrite{ID: 13})

	assertEqual(t, 4, len(channel.Overwrites()))
}

func TestOverwriteForFirstMatch(t *testing.T) {
	t.Parallel()

	channel := newTextUnderCategory(200, 204,
		chord.ChannelOverwrite{ID: 10, Allow: 1024},
		chord.ChannelOverwrite{ID: 10, Allow: 2048},
		chord.ChannelOverwrite{ID: 11, Allow: 8},
	)

	overwrite, ok := channel.OverwriteFor(10)

	assert.True(t, ok)
	assertEqual(t, chord.Int64(1024), overwrite.Allow)

	_, ok = channel.OverwriteFor(99)

	assert.False(t, ok)
}

func TestOverwritesEqual(t *testing.T) {
	t.Parallel()

	a := chord.ChannelOverwrite{ID: 10, Type: chord.ChannelOverrideTypeRole, Allow: 1024}
	b := chord.ChannelOverwrite{ID: 11, Type: chord.ChannelOverrideTypeMember, Deny: 2048}
	c := chord.ChannelOverwrite{ID: 12, Type: chord.ChannelOverrideTypeRole, Allow: 8}

	assert.True(t, chord.OverwritesEqual(nil, nil))
	assert.True(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a, b}, []chord.ChannelOverwrite{a, b}))

	// Ordering between a channel and its category is not guaranteed, so
	// equality ignores it.
	assert.True(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a, b, c}, []chord.ChannelOverwrite{c, a, b}))

	assert.False(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a}, []chord.ChannelOverwrite{a, b}))
	assert.False(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a, b}, []chord.ChannelOverwrite{a, c}))

	// Multisets: a duplicate on one side cannot pair twice on the other.
	assert.False(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a, a, b}, []chord.ChannelOverwrite{a, b, b}))
	assert.True(t, chord.OverwritesEqual([]chord.ChannelOverwrite{a, a, b}, []chord.ChannelOverwrite{b, a, a}))
}

func TestPermissionsSynced(t *testing.T) {
	t.Parallel()

	shared := []chord.ChannelOverwrite{
		{ID: 10, Type: chord.ChannelOverrideTypeRole, Allow: 1024},
		{ID: 11, Type: chord.ChannelOverrideTypeMember, Deny: 2048},
	}

	category := newCategory(204, shared...)

	synced := newTextUnderCategory(200, 204, shared[1], shared[0])
	desynced := newTextUnderCategory(201, 204, shared[0])

	state := guildChannelMap{204: category}

	assert.True(t, synced.PermissionsSynced(state))
	assert.False(t, desynced.PermissionsSynced(state))
}

func TestPermissionsSyncedNoCategory(t *testing.T) {
	t.Parallel()

	category := newCategory(204)

	// No parent at all.
	orphan := &chord.TextChannel{}
	orphan.ID = 200

	// Parent not in the cache.
	missing := newTextUnderCategory(201, 205)

	// Parent resolves to a non-category channel.
	nested := newTextUnderCategory(202, 203)
	notCategory := newTextUnderCategory(203, 204)

	state := guildChannelMap{204: category, 203: notCategory}

	assert.False(t, orphan.PermissionsSynced(state))
	assert.False(t, missing.PermissionsSynced(state))
	assert.False(t, nested.PermissionsSynced(state))
}

func TestCategoryResolution(t *testing.T) {
	t.Parallel()

	category := newCategory(204)
	channel := newTextUnderCategory(200, 204)

	state := guildChannelMap{204: category}

	resolved, ok := channel.Category(state)

	assert.True(t, ok)
	assertEqual(t, category, resolved)

	_, ok = category.Category(state)

	assert.False(t, ok)
}

func TestThreadOverwritesAlwaysEmpty(t *testing.T) {
	t.Parallel()

	thread := &chord.Thread{}
	thread.ID = 206
	thread.ParentID = 200

	assert.Empty(t, thread.Overwrites())

	_, ok := thread.OverwriteFor(10)

	assert.False(t, ok)

	// A thread's parent is a text or forum channel, never a category, so a
	// thread is never considered synced.
	parent := newTextUnderCategory(200, 204)
	state := guildChannelMap{200: parent}

	assert.False(t, thread.PermissionsSynced(state))
}

func TestChannelOverrideTypeUnmarshal(t *testing.T) {
	t.Parallel()

	var overwrite chord.ChannelOverwrite

	err := chordjson.Unmarshal([]byte(`{"id": "10", "type": 1, "allow": "0", "deny": "0"}`), &overwrite)

	assert.NoError(t, err)
	assertEqual(t, chord.ChannelOverrideTypeMember, overwrite.Type)

	// Audit log payloads carry the type as a string.
	err = chordjson.Unmarshal([]byte(`{"id": "10", "type": "0", "allow": "0", "deny": "0"}`), &overwrite)

	assert.NoError(t, err)
	assertEqual(t, chord.ChannelOverrideTypeRole, overwrite.Type)
}
