package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/gobounce/internal/testutil"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr {
				testutil.AssertEqual(t, got, tt.want)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(zerolog.WarnLevel, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("wrapper", "debounce").Msg("timed out")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "timed out") || !strings.Contains(out, "wrapper=debounce") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(zerolog.DebugLevel, &buf)
	log.Debug().Int("n", 3).Msg("invoked")

	var entry map[string]interface{}
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &entry))
	testutil.AssertEqual(t, entry["message"], interface{}("invoked"))
	testutil.AssertEqual(t, entry["level"], interface{}("debug"))
	testutil.AssertEqual(t, entry["n"], interface{}(3.0))
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error().Msg("dropped")
	testutil.AssertEqual(t, log.GetLevel(), zerolog.Disabled)
}

func TestConcurrentLogging(t *testing.T) {
	const goroutines, events = 8, 50

	builders := map[string]func(zerolog.Level, io.Writer) zerolog.Logger{
		"console": New,
		"json":    NewJSON,
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			log := build(zerolog.InfoLevel, &buf)

			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < events; i++ {
						log.Info().Int("i", i).Msg("event")
					}
				}()
			}
			wg.Wait()

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			testutil.AssertEqual(t, len(lines), goroutines*events)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	testutil.AssertEqual(t, isTerminal(&bytes.Buffer{}), false)

	f, err := os.CreateTemp(t.TempDir(), "log")
	testutil.AssertNoError(t, err)
	defer f.Close()
	testutil.AssertEqual(t, isTerminal(f), false)
}
