package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var leadsBucket = []byte("leads")

// BoltStore keeps the lead log as one JSON array under a fixed key in a
// bbolt file. Every append is a read-modify-write inside a single update
// transaction, and bbolt allows one writer at a time, so appends never race.
type BoltStore struct {
	db     *bolt.DB
	key    []byte
	tracer trace.Tracer
}

// OpenBoltStore opens (or creates) the bbolt file at path.
func OpenBoltStore(path, key string) (*BoltStore, error) {
	if key == "" {
		key = DefaultLogKey
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("leads: create log dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("leads: open bolt log: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(leadsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leads: create bucket: %w", err)
	}
	return &BoltStore{
		db:     db,
		key:    []byte(key),
		tracer: otel.Tracer("realestate.internal.leads.bolt"),
	}, nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Append adds lead to the end of the stored array.
func (s *BoltStore) Append(ctx context.Context, lead *Lead) error {
	_, span := s.tracer.Start(ctx, "leads.bolt.append")
	defer span.End()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(leadsBucket)
		list, err := decodeLeads(b.Get(s.key))
		if err != nil {
			return err
		}
		cp := *lead
		if n := len(list); n > 0 {
			cp.Timestamp = notBefore(cp.Timestamp, list[n-1].Timestamp)
		}
		list = append(list, &cp)
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("leads: encode log: %w", err)
		}
		return b.Put(s.key, data)
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("leads: bolt append: %w", err)
	}
	return nil
}

// List returns every lead, oldest first.
func (s *BoltStore) List(ctx context.Context) ([]*Lead, error) {
	_, span := s.tracer.Start(ctx, "leads.bolt.list")
	defer span.End()

	var out []*Lead
	err := s.db.View(func(tx *bolt.Tx) error {
		list, err := decodeLeads(tx.Bucket(leadsBucket).Get(s.key))
		out = list
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("leads: bolt list: %w", err)
	}
	if out == nil {
		out = []*Lead{}
	}
	return out, nil
}

// Len returns the number of logged leads.
func (s *BoltStore) Len(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// decodeLeads parses a stored array. The bytes are only valid inside the
// transaction, so callers must decode before it ends.
func decodeLeads(raw []byte) ([]*Lead, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []*Lead
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.Join(errors.New("leads: stored log is not a JSON array"), err)
	}
	return list, nil
}
