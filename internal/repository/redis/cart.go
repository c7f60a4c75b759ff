package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chamarodfai/POS/internal/domain"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

// CartRepository stores carts in Redis as JSON blobs keyed by session ID.
// Optimistic locking rides on the version field inside the blob, checked
// atomically with a Lua script.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. TTL bounds how
// long an idle cart survives; every save refreshes it.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// saveIfVersionScript compares the stored cart's version against the
// caller's expected version and writes only on match. A missing key counts
// as version zero so a brand-new cart saves cleanly.
var saveIfVersionScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local expected = tonumber(ARGV[2])
if current then
	local stored = cjson.decode(current)
	if tonumber(stored['version']) ~= expected then
		return 0
	end
elseif expected ~= 0 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// Get returns the cart for the session or a not-found error.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("get cart %s: %w", sessionID, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart %s: %w", sessionID, err)
	}

	return &cart, nil
}

// Save stores the cart unconditionally, bumping its version and refreshing
// the TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.Version++

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart %s: %w", cart.SessionID, err)
	}

	if err := r.client.Set(ctx, cartKey(cart.SessionID), data, r.ttl).Err(); err != nil {
		cart.Version--
		return fmt.Errorf("save cart %s: %w", cart.SessionID, err)
	}

	return nil
}

// SaveIfVersion stores the cart only if the stored version still equals
// expectedVersion. Two terminals mutating the same session race here; the
// loser gets a conflict and retries on fresh state.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int64) error {
	cart.Version = expectedVersion + 1

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart %s: %w", cart.SessionID, err)
	}

	ok, err := saveIfVersionScript.Run(ctx, r.client,
		[]string{cartKey(cart.SessionID)},
		data, expectedVersion, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("save cart %s with version check: %w", cart.SessionID, err)
	}
	if ok == 0 {
		return apperrors.Conflict(fmt.Sprintf("cart %s was modified concurrently", cart.SessionID))
	}

	return nil
}

// Delete removes the cart. Deleting an absent cart is not an error.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}
