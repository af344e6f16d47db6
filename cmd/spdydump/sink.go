package main

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/amikey/spdyframe/decoder"
)

// logSink embeds NopSink and overrides every event with a structured log
// line, the way spdydump renders a decoded stream to the terminal.
type logSink struct {
	decoder.NopSink
	log *zap.Logger
}

func newLogSink(log *zap.Logger) *logSink {
	return &logSink{log: log}
}

func (s *logSink) ReadDataFrame(streamID uint32, fin bool, data []byte) {
	s.log.Info("DATA",
		zap.Uint32("stream_id", streamID),
		zap.Bool("fin", fin),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)
}

func (s *logSink) ReadSynStreamFrame(streamID, assocStreamID uint32, priority uint8, fin, unidirectional bool) {
	s.log.Info("SYN_STREAM",
		zap.Uint32("stream_id", streamID),
		zap.Uint32("assoc_stream_id", assocStreamID),
		zap.Uint8("priority", priority),
		zap.Bool("fin", fin),
		zap.Bool("unidirectional", unidirectional),
	)
}

func (s *logSink) ReadSynReplyFrame(streamID uint32, fin bool) {
	s.log.Info("SYN_REPLY", zap.Uint32("stream_id", streamID), zap.Bool("fin", fin))
}

func (s *logSink) ReadRstStreamFrame(streamID uint32, statusCode uint32) {
	s.log.Info("RST_STREAM", zap.Uint32("stream_id", streamID), zap.Uint32("status_code", statusCode))
}

func (s *logSink) ReadSettingsFrame(clearPersisted bool) {
	s.log.Info("SETTINGS", zap.Bool("clear_persisted", clearPersisted))
}

func (s *logSink) ReadSetting(id uint32, value uint32, persistValue, persisted bool) {
	s.log.Info("SETTING",
		zap.Uint32("id", id),
		zap.Uint32("value", value),
		zap.Bool("persist_value", persistValue),
		zap.Bool("persisted", persisted),
	)
}

func (s *logSink) ReadSettingsEnd() {
	s.log.Info("SETTINGS_END")
}

func (s *logSink) ReadPingFrame(id uint32) {
	s.log.Info("PING", zap.Uint32("id", id))
}

func (s *logSink) ReadGoAwayFrame(lastGoodStreamID uint32, statusCode uint32) {
	s.log.Info("GOAWAY",
		zap.Uint32("last_good_stream_id", lastGoodStreamID),
		zap.Uint32("status_code", statusCode),
	)
}

func (s *logSink) ReadHeadersFrame(streamID uint32, fin bool) {
	s.log.Info("HEADERS", zap.Uint32("stream_id", streamID), zap.Bool("fin", fin))
}

func (s *logSink) ReadWindowUpdateFrame(streamID uint32, deltaWindowSize uint32) {
	s.log.Info("WINDOW_UPDATE",
		zap.Uint32("stream_id", streamID),
		zap.Uint32("delta_window_size", deltaWindowSize),
	)
}

func (s *logSink) ReadHeaderBlock(data []byte) {
	s.log.Info("HEADER_BLOCK", zap.String("size", humanize.Bytes(uint64(len(data)))))
}

func (s *logSink) ReadHeaderBlockEnd() {
	s.log.Info("HEADER_BLOCK_END")
}

func (s *logSink) ReadFrameError(reason string) {
	s.log.Warn("FRAME_ERROR", zap.String("reason", reason))
}

var _ decoder.Sink = &logSink{}
