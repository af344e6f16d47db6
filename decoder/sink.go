package decoder

// Sink receives decoded frame events. Every method is synchronous, returns
// nothing, and must not panic; the decoder calls these in strict protocol
// order (spec.md §5). Slices passed to a Sink method are borrowed: they
// alias the caller's input buffer for the duration of the call only, and
// must be copied by the Sink if it needs the bytes to outlive the call.
//
// This is deliberately a flat set of one-method-per-event capabilities
// rather than a single "HandleFrame(Event)" dispatch, so a caller can
// compose partial sinks (e.g. by embedding NopSink and overriding only the
// events it cares about) instead of growing a type switch.
type Sink interface {
	ReadDataFrame(streamID uint32, fin bool, data []byte)
	ReadSynStreamFrame(streamID, assocStreamID uint32, priority uint8, fin, unidirectional bool)
	ReadSynReplyFrame(streamID uint32, fin bool)
	ReadRstStreamFrame(streamID uint32, statusCode uint32)
	ReadSettingsFrame(clearPersisted bool)
	ReadSetting(id uint32, value uint32, persistValue, persisted bool)
	ReadSettingsEnd()
	ReadPingFrame(id uint32)
	ReadGoAwayFrame(lastGoodStreamID uint32, statusCode uint32)
	ReadHeadersFrame(streamID uint32, fin bool)
	ReadWindowUpdateFrame(streamID uint32, deltaWindowSize uint32)
	ReadHeaderBlock(data []byte)
	ReadHeaderBlockEnd()
	ReadFrameError(reason string)
}

// NopSink implements Sink with every method a no-op. Embed it to build a
// sink that only cares about a handful of events.
type NopSink struct{}

func (NopSink) ReadDataFrame(streamID uint32, fin bool, data []byte)                            {}
func (NopSink) ReadSynStreamFrame(streamID, assocStreamID uint32, priority uint8, fin, uni bool) {}
func (NopSink) ReadSynReplyFrame(streamID uint32, fin bool)                                      {}
func (NopSink) ReadRstStreamFrame(streamID uint32, statusCode uint32)                            {}
func (NopSink) ReadSettingsFrame(clearPersisted bool)                                            {}
func (NopSink) ReadSetting(id uint32, value uint32, persistValue, persisted bool)                {}
func (NopSink) ReadSettingsEnd()                                                                 {}
func (NopSink) ReadPingFrame(id uint32)                                                          {}
func (NopSink) ReadGoAwayFrame(lastGoodStreamID uint32, statusCode uint32)                       {}
func (NopSink) ReadHeadersFrame(streamID uint32, fin bool)                                       {}
func (NopSink) ReadWindowUpdateFrame(streamID uint32, deltaWindowSize uint32)                    {}
func (NopSink) ReadHeaderBlock(data []byte)                                                      {}
func (NopSink) ReadHeaderBlockEnd()                                                               {}
func (NopSink) ReadFrameError(reason string)                                                     {}

var _ Sink = NopSink{}
