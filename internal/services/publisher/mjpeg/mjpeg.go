package mjpeg

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const boundary = "frame"

// Publisher keeps the latest JPEG frame and fans it out to HTTP clients as a
// multipart/x-mixed-replace stream.
type Publisher struct {
	jpegMutex  sync.RWMutex
	latestJPEG []byte
	frameID    int64

	notifyMutex sync.Mutex
	subscribers map[chan struct{}]struct{}

	keepalive time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[chan struct{}]struct{}),
		keepalive:   2 * time.Second,
		done:        make(chan struct{}),
	}
}

// PublishJPEG stores a copy of jpeg as the latest frame and wakes the streamers.
func (p *Publisher) PublishJPEG(jpeg []byte) {
	jpegCopy := make([]byte, len(jpeg))
	copy(jpegCopy, jpeg)

	p.jpegMutex.Lock()
	p.latestJPEG = jpegCopy
	p.frameID++
	p.jpegMutex.Unlock()

	p.notifyStreamers()
}

// Latest returns the last published frame, or nil before the first one.
func (p *Publisher) Latest() []byte {
	p.jpegMutex.RLock()
	defer p.jpegMutex.RUnlock()
	return p.latestJPEG
}

func (p *Publisher) notifyStreamers() {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()

	for notify := range p.subscribers {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

func (p *Publisher) subscribe() chan struct{} {
	notify := make(chan struct{}, 1)
	p.notifyMutex.Lock()
	p.subscribers[notify] = struct{}{}
	p.notifyMutex.Unlock()
	return notify
}

func (p *Publisher) unsubscribe(notify chan struct{}) {
	p.notifyMutex.Lock()
	delete(p.subscribers, notify)
	p.notifyMutex.Unlock()
}

// Clients returns the number of connected streamers.
func (p *Publisher) Clients() int {
	p.notifyMutex.Lock()
	defer p.notifyMutex.Unlock()
	return len(p.subscribers)
}

func (p *Publisher) StreamMJPEGHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	select {
	case <-p.done:
		http.Error(w, "stream closed", http.StatusServiceUnavailable)
		return
	default:
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	notify := p.subscribe()
	defer p.unsubscribe(notify)

	writePart := func(jpeg []byte) bool {
		if _, err := io.WriteString(w, "--"+boundary+"\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "Content-Type: image/jpeg\r\n"); err != nil {
			return false
		}
		if _, err := io.WriteString(w, fmt.Sprintf("Content-Length: %d\r\n\r\n", len(jpeg))); err != nil {
			return false
		}
		if _, err := w.Write(jpeg); err != nil {
			return false
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if first := p.Latest(); len(first) > 0 {
		if !writePart(first) {
			return
		}
	} else {
		flusher.Flush()
	}

	keepaliveTicker := time.NewTicker(p.keepalive)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-notify:
		case <-keepaliveTicker.C:
		}
		if buf := p.Latest(); len(buf) > 0 {
			if !writePart(buf) {
				return
			}
		}
	}
}

// Shutdown ends every open stream. Streams requested afterwards are refused.
func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		log.Info().Int("clients", p.Clients()).Msg("MJPEG Publisher shutting down")
		close(p.done)
	})
}
