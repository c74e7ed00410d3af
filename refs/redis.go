package refs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/bencode"
)

// Redis shares refs across processes and survives restarts. Values are hex
// digests under "ref:<ns>:<name>". With a TTL, every Set refreshes expiry
// and an expired ref resolves as missing.
type Redis struct {
	rdb redis.UniversalClient
	ns  string        // logical namespace; should match the store's Namespace
	ttl time.Duration // 0 disables expiry
}

var _ Refs = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace}
}

// NewRedisWithTTL is NewRedis with expiring refs. If ttl <= 0, keys do not expire.
func NewRedisWithTTL(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(name string) string { return "ref:" + s.ns + ":" + name }

func (s *Redis) Resolve(ctx context.Context, name string) (bencode.Digest, bool, error) {
	res, err := s.rdb.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return bencode.Digest{}, false, nil
	}
	if err != nil {
		return bencode.Digest{}, false, err
	}
	d, err := bencode.ParseDigest(res)
	if err != nil {
		return bencode.Digest{}, false, fmt.Errorf("refs: %s: %w", name, err)
	}
	return d, true, nil
}

func (s *Redis) ResolveMany(ctx context.Context, names []string) (map[string]bencode.Digest, error) {
	if len(names) == 0 {
		return map[string]bencode.Digest{}, nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = s.key(n)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	return parseMGet(names, vals)
}

func parseMGet(names []string, vals []any) (map[string]bencode.Digest, error) {
	out := make(map[string]bencode.Digest, len(names))
	for i, v := range vals {
		var str string
		switch vv := v.(type) {
		case nil:
			continue
		case string:
			str = vv
		case []byte:
			str = string(vv)
		default:
			str = fmt.Sprint(vv)
		}
		d, err := bencode.ParseDigest(str)
		if err != nil {
			return nil, fmt.Errorf("refs: %s: %w", names[i], err)
		}
		out[names[i]] = d
	}
	return out, nil
}

func (s *Redis) Set(ctx context.Context, name string, d bencode.Digest) error {
	return s.rdb.Set(ctx, s.key(name), d.String(), s.ttl).Err()
}

func (s *Redis) Delete(ctx context.Context, name string) error {
	return s.rdb.Del(ctx, s.key(name)).Err()
}

// Cleanup is not applicable for Redis (expiry handles it when a TTL is set).
func (s *Redis) Cleanup(time.Duration) {}

// Close closes the underlying Redis client.
func (s *Redis) Close(context.Context) error { return s.rdb.Close() }
