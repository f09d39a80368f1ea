package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/sitemapd/internal/retry"
)

const (
	natsNodePrefix = "node."
	natsPropPrefix = "prop."

	// natsPayloadHeadroom is reserved out of the server's max payload for
	// message headers.
	natsPayloadHeadroom = 4 << 10
)

// NATSBackend stores a node as one JetStream KV marker key plus one key per
// property, so a value never holds more than a single sitemap document.
//
// KV has no multi-key transactions: operations are applied in order and a
// failure leaves earlier operations of the change set in place. A property
// write first bumps the node marker with a revision check, so concurrent
// writers to one node fail instead of interleaving. Readers may briefly see
// new properties next to ones a replacing write has not removed yet.
type NATSBackend struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

// NewNATSBackend connects to url and opens (or creates) bucket. Connection
// attempts follow policy.
func NewNATSBackend(ctx context.Context, url, bucket string, policy retry.Policy) (*NATSBackend, error) {
	var conn *nats.Conn
	err := policy.Do(ctx, func(context.Context) error {
		c, err := nats.Connect(url, nats.Name("sitemapd"))
		if err != nil {
			slog.Warn("NATS connect failed", slog.String("url", url), slog.String("error", err.Error()))
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	b := &NATSBackend{conn: conn, bucket: bucket}
	if err := b.initKVBucket(ctx, js); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
	}

	slog.Info("NATS store initialized", slog.String("url", url), slog.String("bucket", bucket))
	return b, nil
}

func (b *NATSBackend) initKVBucket(ctx context.Context, js jetstream.JetStream) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, err := js.KeyValue(ctx, b.bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      b.bucket,
			Description: "sitemapd cache locations",
			History:     1,
		})
		if err != nil {
			return fmt.Errorf("failed to create KV bucket: %w", err)
		}
		slog.Info("Created KV bucket for sitemap cache", slog.String("bucket", b.bucket))
	}
	b.kv = kv

	if _, err := kv.Create(ctx, natsNodeKey(RootPath), []byte(RootPath)); err != nil && !errors.Is(err, jetstream.ErrKeyExists) {
		return fmt.Errorf("failed to create root node: %w", err)
	}
	return nil
}

func natsToken(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func natsNodeKey(path string) string {
	return natsNodePrefix + natsToken(path)
}

func natsPropKey(path, name string) string {
	return natsPropPrefix + natsToken(path) + "." + natsToken(name)
}

func natsPath(key string) (string, bool) {
	enc, ok := strings.CutPrefix(key, natsNodePrefix)
	if !ok {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func natsPropPath(key string) (path, name string, ok bool) {
	rest, ok := strings.CutPrefix(key, natsPropPrefix)
	if !ok {
		return "", "", false
	}
	encPath, encName, ok := strings.Cut(rest, ".")
	if !ok {
		return "", "", false
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encPath)
	if err != nil {
		return "", "", false
	}
	rawName, err := base64.RawURLEncoding.DecodeString(encName)
	if err != nil {
		return "", "", false
	}
	return string(rawPath), string(rawName), true
}

// Ping implements Pinger.
func (b *NATSBackend) Ping(context.Context) error {
	if !b.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", b.conn.Status())
	}
	return nil
}

// Load implements Backend.
func (b *NATSBackend) Load(ctx context.Context, path string) (Node, bool, error) {
	_, ok, err := b.marker(ctx, path)
	if err != nil || !ok {
		return Node{}, false, err
	}
	keys, err := b.propertyKeys(ctx, path)
	if err != nil {
		return Node{}, false, err
	}
	props := make(map[string]string, len(keys))
	for name, key := range keys {
		entry, err := b.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return Node{}, false, fmt.Errorf("failed to get property %s: %w", name, err)
		}
		props[name] = string(entry.Value())
	}
	return Node{Path: path, Properties: props}, true, nil
}

// marker returns the revision of the node's marker key.
func (b *NATSBackend) marker(ctx context.Context, path string) (uint64, bool, error) {
	entry, err := b.kv.Get(ctx, natsNodeKey(path))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get node: %w", err)
	}
	return entry.Revision(), true, nil
}

// propertyKeys maps each property name stored for path to its KV key.
func (b *NATSBackend) propertyKeys(ctx context.Context, path string) (map[string]string, error) {
	lister, err := b.kv.ListKeysFiltered(ctx, natsPropPrefix+natsToken(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	keys := make(map[string]string)
	for key := range lister.Keys() {
		if _, name, ok := natsPropPath(key); ok {
			keys[name] = key
		}
	}
	return keys, nil
}

// Apply implements Backend.
func (b *NATSBackend) Apply(ctx context.Context, cs ChangeSet) error {
	for _, op := range cs.Ops {
		if err := b.apply(ctx, op); err != nil {
			return fmt.Errorf("%s %s: %w", op.Kind, op.Path, err)
		}
	}
	return nil
}

func (b *NATSBackend) apply(ctx context.Context, op Op) error {
	switch op.Kind {
	case OpCreate:
		if _, err := b.kv.Create(ctx, natsNodeKey(op.Path), []byte(op.Path)); err != nil && !errors.Is(err, jetstream.ErrKeyExists) {
			return err
		}
		return nil
	case OpSetProperties:
		return b.setProperties(ctx, op)
	case OpDelete:
		lister, err := b.kv.ListKeys(ctx)
		if err != nil {
			return err
		}
		var doomed []string
		for key := range lister.Keys() {
			p, ok := natsPath(key)
			if !ok {
				p, _, ok = natsPropPath(key)
			}
			if ok && p != RootPath && IsWithin(p, op.Path) {
				doomed = append(doomed, key)
			}
		}
		_ = lister.Stop()
		for _, key := range doomed {
			if err := b.kv.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown operation %q", op.Kind)
}

func (b *NATSBackend) setProperties(ctx context.Context, op Op) error {
	rev, ok, err := b.marker(ctx, op.Path)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound.Wrap(nil, "path", op.Path)
	}
	limit := b.conn.MaxPayload() - natsPayloadHeadroom
	for name, value := range op.Properties {
		if name == "" {
			return ErrInvalidProperty.Wrap(nil, "path", op.Path)
		}
		if int64(len(value)) > limit {
			return ErrValueTooLarge.Wrap(nil, "path", op.Path, "property", name, "size", len(value), "limit", limit)
		}
	}

	if _, err := b.kv.Update(ctx, natsNodeKey(op.Path), []byte(op.Path), rev); err != nil {
		return err
	}

	var stale map[string]string
	if op.Replace {
		if stale, err = b.propertyKeys(ctx, op.Path); err != nil {
			return err
		}
	}
	for name, value := range op.Properties {
		if _, err := b.kv.Put(ctx, natsPropKey(op.Path, name), []byte(value)); err != nil {
			return err
		}
		delete(stale, name)
	}
	for _, key := range stale {
		if err := b.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Backend.
func (b *NATSBackend) Close() error {
	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}
