package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileURL(t *testing.T) {
	assert.Equal(t, "file://migrations", fileURL("migrations"))
	assert.Equal(t, "file:///srv/migrations", fileURL("/srv/migrations"))
	assert.Equal(t, "file:///srv/migrations", fileURL("file:///srv/migrations"))
}

func TestMigrateLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := migrateLog{zap.New(core)}

	assert.True(t, l.Verbose())
	l.Printf("Finished 000002/u catalog_and_orders (read %v)\n", "4ms")
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "Finished 000002/u catalog_and_orders (read 4ms)", logs.All()[0].Message)
	}

	quiet := migrateLog{zap.NewNop()}
	assert.False(t, quiet.Verbose())
}
