// Package decoder implements the SPDY/3.1 frame-layer decoder: a
// resumable, push-style state machine that turns an arbitrarily chunked
// byte stream into a sequence of validated events delivered to a Sink.
//
// The decoder performs no I/O and holds no goroutines; a caller drives it
// entirely by calling Decode with whatever bytes are currently available.
// Decode always consumes every byte it is given: a partial common header,
// fixed prefix or SETTINGS entry is copied into small fixed-size scratch
// buffers inside the Decoder, while payload bytes are forwarded to the sink
// or discarded directly from the caller's slice.
package decoder

import "github.com/amikey/spdyframe/common"

// state names the step the FSM is currently resuming at. See spec.md §4.1
// for the full transition table. FrameError has no value of its own here:
// fail reports the error and moves straight to stateDiscard (or stateHeader).
type state uint8

const (
	stateHeader state = iota
	stateControlFixed
	stateSettingsEntries
	stateHeaderBlock
	stateDataPayload
	stateDiscard
)

// maxFixedPrefix is the largest frame-type-specific fixed prefix the
// decoder ever needs to buffer before it can validate and emit: the
// SYN_STREAM frame's streamID+assocStreamID+priority+unused fields.
const maxFixedPrefix = 10

// Decoder is a single-session SPDY/3.1 frame decoder. It is not safe for
// concurrent use by multiple goroutines; see the session package for a
// locking wrapper.
type Decoder struct {
	version uint16
	sink    Sink

	state state

	// scratch accumulates the common header (8 bytes) or the current
	// frame type's fixed prefix (up to maxFixedPrefix bytes) across
	// however many Decode calls it takes to arrive.
	scratch     [maxFixedPrefix]byte
	scratchLen  int
	scratchNeed int

	frameType int
	flags     byte
	length    uint32 // payload bytes of the current frame not yet consumed
	streamID  uint32

	// SETTINGS-only scratch.
	settingsRemaining uint32
	entry             [settingEntrySize]byte
	entryLen          int
}

// New creates a Decoder bound to the given protocol version and sink. The
// sink must not be nil.
func New(version uint16, sink Sink) *Decoder {
	d := &Decoder{version: version, sink: sink}
	d.gotoHeader()
	return d
}

// Decode consumes all of p, across as many frames as it contains, emitting
// events to the sink as frames complete or fail validation. Bytes of a frame
// that is still incomplete when p runs out are kept in the Decoder's state
// and the frame resumes on the next call; Decode never retains a reference
// to p after it returns.
func (d *Decoder) Decode(p []byte) {
	for len(p) > 0 {
		switch d.state {
		case stateHeader:
			p = d.stepHeader(p)
		case stateControlFixed:
			p = d.stepControlFixed(p)
		case stateSettingsEntries:
			p = d.stepSettingsEntries(p)
		case stateHeaderBlock:
			p = d.stepHeaderBlock(p)
		case stateDataPayload:
			p = d.stepDataPayload(p)
		case stateDiscard:
			p = d.stepDiscard(p)
		}
	}
}

// gotoHeader arms the scratch buffer to accumulate the next frame's common
// header and switches to ReadCommonHeader. Every transition back to
// ReadCommonHeader goes through here so the scratch buffer never carries
// stale bytes from the previous frame into the next header read.
func (d *Decoder) gotoHeader() {
	d.state = stateHeader
	d.scratchLen = 0
	d.scratchNeed = common.HeaderSize
}

// fillScratch copies as many bytes of p as needed to satisfy scratchNeed,
// returning the unconsumed remainder of p and whether scratch is now full.
func (d *Decoder) fillScratch(p []byte) ([]byte, bool) {
	n := copy(d.scratch[d.scratchLen:d.scratchNeed], p)
	d.scratchLen += n
	p = p[n:]
	return p, d.scratchLen >= d.scratchNeed
}

// beginControlFixed arms the scratch buffer for a frame-type-specific
// fixed prefix of need bytes and switches to ReadControlFramePayload.
func (d *Decoder) beginControlFixed(need int) {
	d.scratchLen = 0
	d.scratchNeed = need
	d.state = stateControlFixed
}

// enterDiscard transitions to DiscardFrame with the given number of
// remaining payload bytes still to be drained, or directly back to
// ReadCommonHeader if none remain.
func (d *Decoder) enterDiscard(remaining uint32) {
	if remaining == 0 {
		d.gotoHeader()
		return
	}
	d.length = remaining
	d.state = stateDiscard
}

// fail emits a single readFrameError for the current frame and then
// discards whatever payload bytes the frame declared but the decoder has
// not yet consumed.
func (d *Decoder) fail(err error, consumed uint32) {
	d.sink.ReadFrameError(err.Error())
	d.enterDiscard(d.length - consumed)
}

func (d *Decoder) stepHeader(p []byte) []byte {
	p, full := d.fillScratch(p)
	if !full {
		return p
	}
	d.dispatchHeader(d.scratch[:common.HeaderSize])
	return p
}

func (d *Decoder) dispatchHeader(h []byte) {
	if h[0]&0x80 == 0 {
		d.dispatchDataHeader(h)
		return
	}
	d.dispatchControlHeader(h)
}

func (d *Decoder) dispatchDataHeader(h []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(h[0:4]))
	flags := h[4]
	length := common.BytesToUint24(h[5:8])

	d.length = length

	if streamID.Zero() {
		d.fail(&zeroStreamID{"DATA"}, 0)
		return
	}

	d.streamID = uint32(streamID)
	d.flags = flags

	if length == 0 {
		d.sink.ReadDataFrame(d.streamID, flags&flagFin != 0, nil)
		d.gotoHeader()
		return
	}
	d.state = stateDataPayload
}

func (d *Decoder) dispatchControlHeader(h []byte) {
	version := uint16(h[0]&0x7f)<<8 | uint16(h[1])
	frameType := int(common.BytesToUint16(h[2:4]))
	flags := h[4]
	length := common.BytesToUint24(h[5:8])

	d.length = length

	if version != d.version {
		d.fail(unsupportedVersion(version), 0)
		return
	}

	d.frameType = frameType
	d.flags = flags

	switch frameType {
	case typeSynStream:
		if length < 10 {
			d.fail(&incorrectDataLength{"SYN_STREAM", int(length), 10}, 0)
			return
		}
		d.beginControlFixed(10)
	case typeSynReply:
		if length < 4 {
			d.fail(&incorrectDataLength{"SYN_REPLY", int(length), 4}, 0)
			return
		}
		d.beginControlFixed(4)
	case typeHeaders:
		if length < 4 {
			d.fail(&incorrectDataLength{"HEADERS", int(length), 4}, 0)
			return
		}
		d.beginControlFixed(4)
	case typeRstStream:
		if length != 8 {
			d.fail(&incorrectDataLength{"RST_STREAM", int(length), 8}, 0)
			return
		}
		if flags != 0 {
			d.fail(&invalidField{"RST_STREAM", "flags", int(flags), 0}, 0)
			return
		}
		d.beginControlFixed(8)
	case typeSettings:
		if length < 4 {
			d.fail(&incorrectDataLength{"SETTINGS", int(length), 4}, 0)
			return
		}
		if (length-4)%8 != 0 {
			d.fail(&incorrectDataLength{"SETTINGS", int(length), 4}, 0)
			return
		}
		d.beginControlFixed(4)
	case typePing:
		if length != 4 {
			d.fail(&incorrectDataLength{"PING", int(length), 4}, 0)
			return
		}
		d.beginControlFixed(4)
	case typeGoAway:
		if length != 8 {
			d.fail(&incorrectDataLength{"GOAWAY", int(length), 8}, 0)
			return
		}
		d.beginControlFixed(8)
	case typeWindowUpdate:
		if length != 8 {
			d.fail(&incorrectDataLength{"WINDOW_UPDATE", int(length), 8}, 0)
			return
		}
		d.beginControlFixed(8)
	default:
		// Unrecognized frame type: not an error, silently discarded.
		d.enterDiscard(length)
	}
}

func (d *Decoder) stepControlFixed(p []byte) []byte {
	p, full := d.fillScratch(p)
	if !full {
		return p
	}
	buf := d.scratch[:d.scratchNeed]
	switch d.frameType {
	case typeSynStream:
		d.finishSynStream(buf)
	case typeSynReply:
		d.finishSynReply(buf)
	case typeHeaders:
		d.finishHeaders(buf)
	case typeRstStream:
		d.finishRstStream(buf)
	case typeSettings:
		d.finishSettingsPrefix(buf)
	case typePing:
		d.finishPing(buf)
	case typeGoAway:
		d.finishGoAway(buf)
	case typeWindowUpdate:
		d.finishWindowUpdate(buf)
	}
	return p
}

func (d *Decoder) finishSynStream(b []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	assocStreamID := common.MaskStreamID(common.BytesToUint32(b[4:8]))
	priority := (b[8] >> 5) & 0x07

	if streamID.Zero() {
		d.fail(&zeroStreamID{"SYN_STREAM"}, 10)
		return
	}

	fin := d.flags&flagFin != 0
	unidirectional := d.flags&flagUnidirectional != 0
	d.sink.ReadSynStreamFrame(uint32(streamID), uint32(assocStreamID), priority, fin, unidirectional)
	d.enterHeaderBlock(d.length - 10)
}

func (d *Decoder) finishSynReply(b []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	if streamID.Zero() {
		d.fail(&zeroStreamID{"SYN_REPLY"}, 4)
		return
	}
	d.sink.ReadSynReplyFrame(uint32(streamID), d.flags&flagFin != 0)
	d.enterHeaderBlock(d.length - 4)
}

func (d *Decoder) finishHeaders(b []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	if streamID.Zero() {
		d.fail(&zeroStreamID{"HEADERS"}, 4)
		return
	}
	d.sink.ReadHeadersFrame(uint32(streamID), d.flags&flagFin != 0)
	d.enterHeaderBlock(d.length - 4)
}

func (d *Decoder) finishRstStream(b []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	statusCode := common.BytesToUint32(b[4:8])

	if streamID.Zero() {
		d.fail(&zeroStreamID{"RST_STREAM"}, 8)
		return
	}
	if statusCode == 0 {
		d.fail(&zeroField{"RST_STREAM", "status code"}, 8)
		return
	}
	d.sink.ReadRstStreamFrame(uint32(streamID), statusCode)
	d.gotoHeader()
}

func (d *Decoder) finishPing(b []byte) {
	id := common.BytesToUint32(b[0:4])
	d.sink.ReadPingFrame(id)
	d.gotoHeader()
}

func (d *Decoder) finishGoAway(b []byte) {
	lastGoodStreamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	statusCode := common.BytesToUint32(b[4:8])
	d.sink.ReadGoAwayFrame(uint32(lastGoodStreamID), statusCode)
	d.gotoHeader()
}

func (d *Decoder) finishWindowUpdate(b []byte) {
	streamID := common.MaskStreamID(common.BytesToUint32(b[0:4]))
	delta := common.MaskStreamID(common.BytesToUint32(b[4:8]))

	if delta.Zero() {
		d.fail(&zeroField{"WINDOW_UPDATE", "delta window size"}, 8)
		return
	}
	d.sink.ReadWindowUpdateFrame(uint32(streamID), uint32(delta))
	d.gotoHeader()
}

func (d *Decoder) finishSettingsPrefix(b []byte) {
	numSettings := common.BytesToUint32(b[0:4])
	if uint64(numSettings)*8 != uint64(d.length-4) {
		d.fail(&settingsCountMismatch{int(numSettings), int(d.length)}, 4)
		return
	}

	d.sink.ReadSettingsFrame(d.flags&flagSettingsClearSettings != 0)

	if numSettings == 0 {
		d.sink.ReadSettingsEnd()
		d.gotoHeader()
		return
	}

	d.settingsRemaining = numSettings
	d.entryLen = 0
	d.state = stateSettingsEntries
}

func (d *Decoder) stepSettingsEntries(p []byte) []byte {
	n := copy(d.entry[d.entryLen:], p)
	d.entryLen += n
	p = p[n:]
	if d.entryLen < settingEntrySize {
		return p
	}

	idFlags := d.entry[0]
	id := common.BytesToUint24(d.entry[1:4])
	value := common.BytesToUint32(d.entry[4:8])
	d.sink.ReadSetting(id, value, idFlags&flagSettingsPersistValue != 0, idFlags&flagSettingsPersisted != 0)

	d.entryLen = 0
	d.settingsRemaining--
	if d.settingsRemaining == 0 {
		d.sink.ReadSettingsEnd()
		d.gotoHeader()
	}
	return p
}

// enterHeaderBlock transitions to ReadHeaderBlock with the given number of
// remaining bytes, or emits the terminal event immediately when there are
// none (the SYN_STREAM/SYN_REPLY/HEADERS frame carried no header bytes).
func (d *Decoder) enterHeaderBlock(remaining uint32) {
	if remaining == 0 {
		d.sink.ReadHeaderBlockEnd()
		d.gotoHeader()
		return
	}
	d.length = remaining
	d.state = stateHeaderBlock
}

func (d *Decoder) stepHeaderBlock(p []byte) []byte {
	n := uint32(len(p))
	if n > d.length {
		n = d.length
	}
	if n > 0 {
		d.sink.ReadHeaderBlock(p[:n])
		d.length -= n
	}
	if d.length == 0 {
		d.sink.ReadHeaderBlockEnd()
		d.gotoHeader()
	}
	return p[n:]
}

func (d *Decoder) stepDataPayload(p []byte) []byte {
	n := uint32(len(p))
	if n > d.length {
		n = d.length
	}
	d.length -= n
	fin := d.length == 0 && d.flags&flagFin != 0
	d.sink.ReadDataFrame(d.streamID, fin, p[:n])
	if d.length == 0 {
		d.gotoHeader()
	}
	return p[n:]
}

func (d *Decoder) stepDiscard(p []byte) []byte {
	n := uint32(len(p))
	if n > d.length {
		n = d.length
	}
	d.length -= n
	if d.length == 0 {
		d.gotoHeader()
	}
	return p[n:]
}
