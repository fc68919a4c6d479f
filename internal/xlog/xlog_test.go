package xlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest/observer"

	"go.uber.org/zap"
)

func TestNopLoggerDiscards(t *testing.T) {
	l := NopLogger()
	assert.False(t, l.IsEnabled(LevelError))
	l.Log(Entry{Level: LevelError, Message: "should not panic"})
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewZapLogger(zap.New(core), LevelInfo)

	assert.False(t, l.IsEnabled(LevelDebug))
	l.Log(Entry{Level: LevelDebug, Category: "reactor", Message: "ignored"})
	assert.Equal(t, 0, logs.Len())

	assert.True(t, l.IsEnabled(LevelInfo))
	l.Log(Entry{Level: LevelInfo, Category: "reactor", Message: "spawned task"})
	entries := logs.TakeAll()
	assert.Len(t, entries, 1)
	assert.Equal(t, "spawned task", entries[0].Message)
}
