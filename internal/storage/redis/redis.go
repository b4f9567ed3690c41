// Package redis backs the ledger with Redis. Decrement and increment run
// as Lua scripts so the check and the write are one atomic step per row,
// with the lazy default supplied as a script argument.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oblipix/viagemimpacta/internal/inventory"
)

const availabilityKeyPrefix = "availability:"

var decrementScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	current = ARGV[2]
end

current = tonumber(current)
local quantity = tonumber(ARGV[1])

if current - quantity < 0 then
	return -1
end

redis.call('SET', KEYS[1], current - quantity)
return current - quantity
`)

var incrementScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	current = ARGV[2]
end

local total = tonumber(ARGV[2])
local next = tonumber(current) + tonumber(ARGV[1])

if next > total then
	next = total
end

redis.call('SET', KEYS[1], next)
return next
`)

type Adapter struct {
	client *redis.Client
}

func New(client *redis.Client) *Adapter {
	return &Adapter{client: client}
}

func availabilityKey(roomTypeID string, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", availabilityKeyPrefix, roomTypeID, date.Format("2006-01-02"))
}

func (a *Adapter) GetAvailability(ctx context.Context, roomTypeID string, date time.Time) (int, bool, error) {
	val, err := a.client.Get(ctx, availabilityKey(roomTypeID, date)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("get availability key: %w: %v", inventory.ErrStorage, err)
	}

	return val, true, nil
}

func (a *Adapter) Decrement(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	result, err := decrementScript.Run(ctx, a.client, []string{availabilityKey(roomTypeID, date)}, quantity, total).Int()
	if err != nil {
		return fmt.Errorf("run decrement script: %w: %v", inventory.ErrStorage, err)
	}

	if result < 0 {
		return fmt.Errorf(
			"room type '%v' on %v, requested %v: %w",
			roomTypeID, date.Format("2006-01-02"), quantity, inventory.ErrInsufficientCapacity,
		)
	}

	return nil
}

func (a *Adapter) Increment(ctx context.Context, roomTypeID string, date time.Time, quantity, total int) error {
	if err := incrementScript.Run(ctx, a.client, []string{availabilityKey(roomTypeID, date)}, quantity, total).Err(); err != nil {
		return fmt.Errorf("run increment script: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}

func (a *Adapter) SetAvailability(ctx context.Context, roomTypeID string, date time.Time, quantity int) error {
	if err := a.client.Set(ctx, availabilityKey(roomTypeID, date), quantity, 0).Err(); err != nil {
		return fmt.Errorf("set availability key: %w: %v", inventory.ErrStorage, err)
	}

	return nil
}
