package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/bencode"
	"github.com/unkn0wn-root/bencode/codec"
	"github.com/unkn0wn-root/bencode/internal/util"
	"github.com/unkn0wn-root/bencode/internal/wire"
	pr "github.com/unkn0wn-root/bencode/provider"
)

const defaultTTL = time.Hour

// ErrCodecRoundTrip is returned by Put when the configured codec cannot
// give the document back unchanged, e.g. JSON without an advisor for its
// text leaves, or CBOR with duplicate dictionary keys.
var ErrCodecRoundTrip = errors.New("store: codec does not round-trip document")

// SetCostFunc returns the cost reported to the provider for a frame.
type SetCostFunc func(storageKey string, frame []byte) int64

// Options tune a Store. Only Namespace and Provider are required.
type Options struct {
	Namespace string // logical namespace to avoid collisions, e.g. "torrents"
	Provider  pr.Provider

	// Codec serializes payloads; nil => codec.Bencode{} (canonical bencode).
	// Set an Advisor on it to get text classification back from Get.
	Codec codec.Codec[bencode.Value]

	Logger         bencode.Logger // nil => NopLogger
	Hooks          Hooks          // nil => NopHooks
	DefaultTTL     time.Duration  // 0 => 1h; negative => no expiry
	ComputeSetCost SetCostFunc    // nil => frame length
	MaxInput       int            // PutEncoded size limit in bytes; 0 => unlimited
	Disabled       bool           // default false (enabled)
}

type Store struct {
	ns       string
	provider pr.Provider
	codec    codec.Codec[bencode.Value]
	log      bencode.Logger
	hooks    Hooks
	ttl      time.Duration
	cost     SetCostFunc
	maxInput int
	enabled  bool
}

func New(opts Options) (*Store, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("store: provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("store: namespace is required")
	}

	s := &Store{
		ns:       opts.Namespace,
		provider: opts.Provider,
		maxInput: opts.MaxInput,
		enabled:  !opts.Disabled,
	}

	// defaults
	s.codec = opts.Codec
	if s.codec == nil {
		s.codec = codec.Bencode{}
	}
	s.log = coalesce[bencode.Logger](opts.Logger, bencode.NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.ttl = coalesce(opts.DefaultTTL, defaultTTL)
	if s.ttl < 0 {
		s.ttl = 0
	}
	if opts.ComputeSetCost != nil {
		s.cost = opts.ComputeSetCost
	} else {
		s.cost = func(_ string, frame []byte) int64 { return int64(len(frame)) }
	}
	return s, nil
}

func (s *Store) Enabled() bool { return s.enabled }

func (s *Store) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

// Put stores v and returns its digest. A disabled store still returns the
// digest but writes nothing.
func (s *Store) Put(ctx context.Context, v bencode.Value) (bencode.Digest, error) {
	return s.put(ctx, v, 0)
}

// PutWithTTL is Put with an explicit TTL; 0 uses the default.
func (s *Store) PutWithTTL(ctx context.Context, v bencode.Value, ttl time.Duration) (bencode.Digest, error) {
	return s.put(ctx, v, ttl)
}

// PutEncoded validates data as exactly one bencoded value and stores its
// canonical form. The returned digest hashes the canonical form, which
// differs from a hash of data when data has unsorted keys.
func (s *Store) PutEncoded(ctx context.Context, data []byte) (bencode.Digest, error) {
	v, err := bencode.NewDecoder(bencode.DecoderOptions{MaxSize: s.maxInput, Logger: s.log}).Decode(data)
	if err != nil {
		s.hooks.InputRejected(len(data), err)
		return bencode.Digest{}, fmt.Errorf("store: invalid document: %w", err)
	}
	return s.put(ctx, v, 0)
}

func (s *Store) put(ctx context.Context, v bencode.Value, ttl time.Duration) (bencode.Digest, error) {
	canon, err := codec.Bencode{}.Encode(v)
	if err != nil {
		return bencode.Digest{}, err
	}
	d := bencode.SumEncoded(canon)
	if !s.enabled {
		return d, nil
	}
	if ttl == 0 {
		ttl = s.ttl
	}

	payload := canon
	if _, native := s.codec.(codec.Bencode); !native {
		if payload, err = s.codec.Encode(v); err != nil {
			return bencode.Digest{}, err
		}
		// Get verifies the digest of what comes back; refuse writes that
		// would only ever read back as a miss.
		back, err := s.codec.Decode(payload)
		if err != nil {
			return bencode.Digest{}, fmt.Errorf("%w: %w", ErrCodecRoundTrip, err)
		}
		if bencode.Sum(back) != d {
			return bencode.Digest{}, ErrCodecRoundTrip
		}
	}

	k := s.key(d)
	frame := wire.EncodeDocument(d, payload)
	ok, err := s.provider.Set(ctx, k, frame, s.cost(k, frame), ttl)
	if err != nil {
		return bencode.Digest{}, err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k)
		s.log.Debug("store: Set rejected by provider (pressure)", bencode.Fields{"key": k})
	}
	return d, nil
}

// Get returns the document stored under d. Damaged entries are deleted and
// reported as a miss; only provider errors are returned.
func (s *Store) Get(ctx context.Context, d bencode.Digest) (bencode.Value, bool, error) {
	if !s.enabled {
		return bencode.Value{}, false, nil
	}
	k := s.key(d)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return bencode.Value{}, false, err
	}
	fd, payload, err := wire.DecodeDocument(raw)
	if err != nil {
		s.selfHeal(ctx, k, "corrupt", err)
		return bencode.Value{}, false, nil
	}
	if fd != d {
		s.selfHeal(ctx, k, "digest_mismatch", nil)
		return bencode.Value{}, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k, "value_decode", err)
		return bencode.Value{}, false, nil
	}
	if bencode.Sum(v) != d {
		s.selfHeal(ctx, k, "digest_mismatch", nil)
		return bencode.Value{}, false, nil
	}
	return v, true, nil
}

// Delete removes the document stored under d.
func (s *Store) Delete(ctx context.Context, d bencode.Digest) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, s.key(d))
}

func (s *Store) selfHeal(ctx context.Context, k, reason string, cause error) {
	delErr := s.provider.Del(ctx, k)
	s.hooks.SelfHeal(k, reason)
	f := bencode.Fields{"key": k, "reason": reason}
	if cause != nil && !errors.Is(cause, wire.ErrCorrupt) {
		f["err"] = cause
	}
	if delErr != nil {
		f["del_err"] = delErr
		s.log.Warn("store: self-heal delete failed", f)
		return
	}
	s.log.Debug("store: self-healed entry", f)
}

func (s *Store) key(d bencode.Digest) string {
	// isolate by namespace
	return util.DocKey(s.ns, d[:])
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
