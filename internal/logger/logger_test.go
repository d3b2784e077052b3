package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_BuildsForBothEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New(env)
		require.NoError(t, err, env)
		require.NotNil(t, log)
		log.Sync()
	}
}

func TestNop_DiscardsSilently(t *testing.T) {
	log := Nop()
	log.Error("nothing should happen")
}

// Property: every entry is one JSON object carrying level, timestamp and
// message
func TestProperty_EntriesAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("entries decode as JSON with the expected keys", prop.ForAll(
		func(message string) bool {
			var buf bytes.Buffer

			encoderConfig := zap.NewProductionEncoderConfig()
			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			log := zap.New(core)
			log.Info(message, zap.String("component", "cart"))
			log.Sync()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			if entry["msg"] != message {
				return false
			}
			if entry["component"] != "cart" {
				return false
			}
			_, hasLevel := entry["level"]
			_, hasTime := entry["ts"]
			return hasLevel && hasTime
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
