package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// Empty structure.
type void struct{}

func replaceIfEmpty(v string, s string) string {
	if v == "" {
		return s
	}

	return v
}

func returnError(err error) string {
	if err != nil {
		return err.Error()
	}

	return ""
}

func randomHex(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)

	_, err := rand.Read(buf)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(buf)
}

// webhookTime returns a formatted time.Time as a time accepted by webhooks.
func webhookTime(_time time.Time) string {
	return _time.Format("2006-01-02T15:04:05Z")
}

// makeExtra marshals each value so it can travel in a payload extra block.
func makeExtra(extra map[string]interface{}) (map[string]chordjson.RawMessage, error) {
	out := make(map[string]chordjson.RawMessage, len(extra))

	for key, value := range extra {
		raw, err := chordjson.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal extra %s: %w", key, err)
		}

		out[key] = raw
	}

	return out, nil
}
