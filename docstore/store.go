package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable marks Redis-level failures, as opposed to an empty result.
var ErrUnavailable = errors.New("document store unavailable")

// Filter selects documents by exact field equality. An empty filter matches
// every document in the collection.
type Filter map[string]any

// Store is a Redis-backed document store namespaced under a key prefix.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Store on the given Redis client. prefix sets the key
// namespace shared by all collections.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

// Collection returns a handle for the named collection. Handles are cheap
// and safe to create per call site.
func (s *Store) Collection(name string) *Collection {
	return &Collection{
		redis:  s.redis,
		prefix: s.prefix,
		name:   name,
	}
}

// Collection addresses one named set of documents.
type Collection struct {
	redis  redis.UniversalClient
	prefix string
	name   string
}

func (c *Collection) docKey(id string) string {
	return c.prefix + ":doc:" + c.name + ":" + id
}

func (c *Collection) indexKey() string {
	return c.prefix + ":idx:" + c.name
}

// Save inserts or replaces the document with the given id.
func (c *Collection) Save(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	pipe := c.redis.TxPipeline()
	pipe.Set(ctx, c.docKey(id), data, 0)
	pipe.SAdd(ctx, c.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// FindOne decodes the first document matching filter into dest and reports
// whether one was found. Iteration order over the collection is by sorted id,
// so results are deterministic.
func (c *Collection) FindOne(ctx context.Context, filter Filter, dest any) (bool, error) {
	raw, _, err := c.findRaw(ctx, filter, 1)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if dest != nil {
		if err := json.Unmarshal(raw[0], dest); err != nil {
			return false, err
		}
	}
	return true, nil
}

// FindMany decodes every matching document into dest, which must be a
// pointer to a slice.
func (c *Collection) FindMany(ctx context.Context, filter Filter, dest any) error {
	raw, _, err := c.findRaw(ctx, filter, 0)
	if err != nil {
		return err
	}

	combined := make([]byte, 0, 2)
	combined = append(combined, '[')
	for i, r := range raw {
		if i > 0 {
			combined = append(combined, ',')
		}
		combined = append(combined, r...)
	}
	combined = append(combined, ']')

	return json.Unmarshal(combined, dest)
}

// UpdateOne applies patch fields to the first matching document and reports
// whether one was updated. The patch is a plain field overwrite, mirroring an
// equality $set; absent fields are left untouched.
func (c *Collection) UpdateOne(ctx context.Context, filter Filter, patch Filter) (bool, error) {
	raw, ids, err := c.findRaw(ctx, filter, 1)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw[0], &doc); err != nil {
		return false, err
	}
	for k, v := range patch {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return false, err
	}
	if err := c.redis.Set(ctx, c.docKey(ids[0]), data, 0).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

// DeleteOne removes the first matching document, decoding it into dest when
// dest is non-nil, and reports whether one was deleted.
func (c *Collection) DeleteOne(ctx context.Context, filter Filter, dest any) (bool, error) {
	raw, ids, err := c.findRaw(ctx, filter, 1)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if dest != nil {
		if err := json.Unmarshal(raw[0], dest); err != nil {
			return false, err
		}
	}
	if err := c.remove(ctx, ids[0]); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteMany removes every matching document and returns how many went away.
func (c *Collection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	_, ids, err := c.findRaw(ctx, filter, 0)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, id := range ids {
		if err := c.remove(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (c *Collection) remove(ctx context.Context, id string) error {
	pipe := c.redis.TxPipeline()
	pipe.Del(ctx, c.docKey(id))
	pipe.SRem(ctx, c.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// findRaw returns raw JSON blobs and their ids for documents matching
// filter, up to limit (0 = unlimited).
func (c *Collection) findRaw(ctx context.Context, filter Filter, limit int) ([][]byte, []string, error) {
	want, err := normalizeFilter(filter)
	if err != nil {
		return nil, nil, err
	}

	// Direct key path when the filter pins the id.
	if id, ok := want["_id"].(string); ok {
		data, err := c.redis.Get(ctx, c.docKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		// The key already resolved the id; only the remaining fields need
		// to match, so documents are not required to carry _id in the body.
		delete(want, "_id")
		ok, err := matches(data, want)
		if err != nil || !ok {
			return nil, nil, err
		}
		return [][]byte{data}, []string{id}, nil
	}

	ids, err := c.redis.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	sort.Strings(ids)

	var (
		out      [][]byte
		matchIDs []string
	)
	for _, id := range ids {
		data, err := c.redis.Get(ctx, c.docKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // index entry raced a delete
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		ok, err := matches(data, want)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		out = append(out, data)
		matchIDs = append(matchIDs, id)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, matchIDs, nil
}

// normalizeFilter round-trips filter values through JSON so comparisons see
// the same representation the stored documents decode to (numbers become
// float64, structs become maps).
func normalizeFilter(filter Filter) (map[string]any, error) {
	if len(filter) == 0 {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(data []byte, want map[string]any) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, err
	}
	for k, v := range want {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, v) {
			return false, nil
		}
	}
	return true, nil
}
