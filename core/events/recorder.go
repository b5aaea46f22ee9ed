package events

import (
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"sync"

	"nftswap/core/types"
	"nftswap/storage"
)

var (
	eventSeqKey    = []byte("events/seq")
	eventKeyPrefix = []byte("events/log/")
)

// payloadCarrier is implemented by emitted events that wrap a full payload.
type payloadCarrier interface {
	Event() *types.Event
}

// Recorder is a durable event sink. Every emitted event is appended to the
// backing database under a monotonically increasing sequence number and
// mirrored to the structured log for off-system monitoring.
type Recorder struct {
	mu  sync.Mutex
	db  storage.Database
	seq uint64
	log *slog.Logger
}

type eventRecord struct {
	Sequence   uint64            `json:"sequence"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewRecorder constructs a recorder resuming from the last persisted sequence.
func NewRecorder(db storage.Database, logger *slog.Logger) *Recorder {
	rec := &Recorder{db: db, log: logger}
	if raw, err := db.Get(eventSeqKey); err == nil && len(raw) == 8 {
		rec.seq = binary.BigEndian.Uint64(raw)
	}
	return rec
}

// Emit implements the Emitter interface. Persistence failures are logged but
// do not propagate: by the time an event is emitted the originating operation
// has already committed.
func (r *Recorder) Emit(evt Event) {
	if r == nil || evt == nil {
		return
	}
	record := eventRecord{Type: evt.EventType()}
	if carrier, ok := evt.(payloadCarrier); ok {
		if payload := carrier.Event(); payload != nil {
			record.Type = payload.Type
			record.Attributes = payload.Attributes
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	record.Sequence = r.seq

	encoded, err := json.Marshal(record)
	if err != nil {
		r.logError("encode event", record.Type, err)
		return
	}
	key := make([]byte, len(eventKeyPrefix)+8)
	copy(key, eventKeyPrefix)
	binary.BigEndian.PutUint64(key[len(eventKeyPrefix):], r.seq)
	if err := r.db.Put(key, encoded); err != nil {
		r.logError("persist event", record.Type, err)
		return
	}
	r.seq++
	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], r.seq)
	if err := r.db.Put(eventSeqKey, seqBuf[:]); err != nil {
		r.logError("persist event cursor", record.Type, err)
	}
	if r.log != nil {
		attrs := make([]any, 0, 2+2*len(record.Attributes))
		attrs = append(attrs, "event", record.Type, "sequence", record.Sequence)
		for k, v := range record.Attributes {
			attrs = append(attrs, k, v)
		}
		r.log.Info("audit event", attrs...)
	}
}

// Sequence returns the next sequence number to be assigned.
func (r *Recorder) Sequence() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Recorder) logError(msg, eventType string, err error) {
	if r.log == nil {
		return
	}
	r.log.Error(msg, "event", eventType, "error", err)
}
