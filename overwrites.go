package chord

import (
	"bytes"
	"fmt"
	"strconv"
)

// overwrites.go contains the permission overwrite records channels carry.

// ChannelOverrideType represents the target of a channel override.
type ChannelOverrideType uint16

const (
	ChannelOverrideTypeRole ChannelOverrideType = iota
	ChannelOverrideTypeMember
)

func (in *ChannelOverrideType) IsNil() bool {
	return *in == 0
}

func (in *ChannelOverrideType) UnmarshalJSON(b []byte) error {
	if !bytes.Equal(b, null) {
		// Discord will pass ChannelOverrideType as a string if it is in an audit log.
		if b[0] == '"' {
			i, err := strconv.ParseInt(string(b[1:len(b)-1]), 10, 64)
			if err != nil {
				return fmt.Errorf("failed to unmarshal json: %v", err)
			}

			*in = ChannelOverrideType(i)
		} else {
			i, err := strconv.ParseInt(string(b), 10, 64)
			if err != nil {
				return fmt.Errorf("failed to unmarshal json: %v", err)
			}

			*in = ChannelOverrideType(i)
		}
	}

	return nil
}

func (in ChannelOverrideType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(in))), nil
}

func (in ChannelOverrideType) String() string {
	return strconv.FormatInt(int64(in), 10)
}

// ChannelOverwrite represents a permission overwrite for a channel.
type ChannelOverwrite struct {
	Type  ChannelOverrideType `json:"type"`
	ID    Snowflake           `json:"id"`
	Allow Int64               `json:"allow"`
	Deny  Int64               `json:"deny"`
}

// OverwritesEqual reports whether two overwrite sets are structurally equal.
// Sets are compared without regard to order: the platform does not guarantee
// a stable ordering between a channel and its parent category.
func OverwritesEqual(a, b []ChannelOverwrite) bool {
	if len(a) != len(b) {
		return false
	}

	matched := make([]bool, len(b))

outer:
	for i := range a {
		for j := range b {
			if !matched[j] && a[i] == b[j] {
				matched[j] = true

				continue outer
			}
		}

		return false
	}

	return true
}
