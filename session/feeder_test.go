package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amikey/spdyframe/decoder"
)

type countingSink struct {
	decoder.NopSink
	mu    sync.Mutex
	pings int
}

func (c *countingSink) ReadPingFrame(id uint32) {
	c.mu.Lock()
	c.pings++
	c.mu.Unlock()
}

func TestFeederSerializesConcurrentFeeds(t *testing.T) {
	sink := &countingSink{}
	dec := decoder.New(decoder.SPDYVersion, sink)
	feeder := NewFeeder(dec)

	ping := []byte{0x80, 0x03, 0x00, 0x06, 0x00, 0x00, 0x00, 0x04, 0, 0, 0, 1}

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			feeder.Feed(ping)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, sink.pings)
}
