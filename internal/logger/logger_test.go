package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)

	l.Info().Str("appointment_id", "a-1").Msg("appointment booked")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log: %v\nraw: %s", err, buf.String())
	}
	if entry["message"] != "appointment booked" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["env"] != "production" {
		t.Errorf("env = %v", entry["env"])
	}
	if entry["appointment_id"] != "a-1" {
		t.Errorf("appointment_id = %v", entry["appointment_id"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestNewWithWriter_ProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)

	l.Debug().Msg("noise")
	if buf.Len() != 0 {
		t.Errorf("debug written in production: %s", buf.String())
	}

	buf.Reset()
	dev := NewWithWriter("development", &buf)
	dev.Debug().Msg("detail")
	if buf.Len() == 0 {
		t.Error("debug suppressed in development")
	}
}
