package internal

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/WelcomerTeam/Chord/chordjson"
)

func TestReplaceIfEmpty(t *testing.T) {
	v := replaceIfEmpty("", "default")
	expected := "default"

	if v != expected {
		t.Errorf("Expected %q, but got %q", expected, v)
	}

	v = replaceIfEmpty("value", "default")
	expected = "value"

	if v != expected {
		t.Errorf("Expected %q, but got %q", expected, v)
	}
}

func TestReturnError(t *testing.T) {
	v := returnError(errors.New("failed"))
	expected := "failed"

	if v != expected {
		t.Errorf("Expected %q, but got %q", expected, v)
	}

	v = returnError(nil)
	expected = ""

	if v != expected {
		t.Errorf("Expected %q, but got %q", expected, v)
	}
}

func TestRandomHex(t *testing.T) {
	length := 16
	result := randomHex(length)
	if len(result) != length*2 {
		t.Errorf("Expected length %d, but got %d", length*2, len(result))
	}
}

func TestRandomHexZeroLength(t *testing.T) {
	length := 0
	result := randomHex(length)
	if len(result) != length*2 {
		t.Errorf("Expected length %d, but got %d", length*2, len(result))
	}
}

func TestRandomHexNegativeLength(t *testing.T) {
	length := -10
	result := randomHex(length)

	if len(result) != 0 {
		t.Errorf("Expected length 0, but got %d", len(result))
	}
}

func TestWebhookTime(t *testing.T) {
	moment := time.Date(2023, time.June, 1, 12, 30, 45, 0, time.UTC)
	expected := "2023-06-01T12:30:45Z"

	result := webhookTime(moment)

	if result != expected {
		t.Errorf("Expected %q, but got %q", expected, result)
	}
}

func TestMakeExtra(t *testing.T) {
	extra := map[string]interface{}{
		"key1": "value1",
		"key2": 123,
		"key3": true,
	}

	expected := map[string]chordjson.RawMessage{
		"key1": []byte(`"value1"`),
		"key2": []byte(`123`),
		"key3": []byte(`true`),
	}

	result, err := makeExtra(extra)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, but got %v", expected, result)
	}
}

func TestMakeExtraEmpty(t *testing.T) {
	extra := map[string]interface{}{}

	expected := map[string]chordjson.RawMessage{}

	result, err := makeExtra(extra)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, but got %v", expected, result)
	}
}

func TestMakeExtraRaw(t *testing.T) {
	extra := map[string]interface{}{
		"key1": "Hello world",
	}

	out, err := makeExtra(extra)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if out == nil {
		t.Errorf("Expected out, but got nil")
	}

	expected := chordjson.RawMessage("\"Hello world\"")
	if !reflect.DeepEqual(out["key1"], expected) {
		t.Errorf("Expected %v, but got %v", string(expected), string(out["key1"]))
	}
}
