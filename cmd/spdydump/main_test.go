package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amikey/spdyframe/decoder"
)

func TestRunLogsOneLinePerEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ping := []byte{0x80, 0x03, 0x00, 0x06, 0x00, 0x00, 0x00, 0x04, 0, 0, 0, 1}
	data := []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00, 0x02, 'h', 'i'}
	stream := append(append([]byte{}, ping...), data...)

	err := run(log, bytes.NewReader(stream), decoder.SPDYVersion, 3)
	require.NoError(t, err)

	messages := make([]string, logs.Len())
	for i, entry := range logs.All() {
		messages[i] = entry.Message
	}
	// The data frame's 2-byte payload ('h', 'i') straddles a 3-byte read
	// boundary (stream indices 20 and 21), so stepDataPayload emits it as
	// two separate readDataFrame calls rather than one.
	assert.Equal(t, []string{"PING", "DATA", "DATA"}, messages)
}

func TestRunLogsFrameErrorAtWarnLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	badPing := []byte{0x80, 0x03, 0x00, 0x06, 0x00, 0x00, 0x00, 0x08, 1, 2, 3, 4, 5, 6, 7, 8}

	err := run(log, bytes.NewReader(badPing), decoder.SPDYVersion, 4096)
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "FRAME_ERROR", entry.Message)
}

func TestRunDefaultsChunkSize(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ping := []byte{0x80, 0x03, 0x00, 0x06, 0x00, 0x00, 0x00, 0x04, 0, 0, 0, 9}
	err := run(log, bytes.NewReader(ping), decoder.SPDYVersion, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}
