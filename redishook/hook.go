// Package redishook throttles every command sent by one go-redis client.
package redishook

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Waiter admits one call. *callthrottle.AsyncThrottle implements it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Hook is a redis.Hook that admits each command, and each pipeline as a
// whole, through one throttle before it is sent.
type Hook struct {
	throttle Waiter
}

var _ redis.Hook = (*Hook)(nil)

// New returns a Hook backed by w.
func New(w Waiter) *Hook {
	return &Hook{throttle: w}
}

// Install adds a Hook backed by w to rdb and returns rdb.
func Install(rdb *redis.Client, w Waiter) *redis.Client {
	rdb.AddHook(New(w))
	return rdb
}

// BeforeProcess implements redis.Hook. A rejected or cancelled admission
// aborts the command with the throttle's error.
func (h *Hook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	if err := h.throttle.Wait(ctx); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// AfterProcess implements redis.Hook.
func (h *Hook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	return nil
}

// BeforeProcessPipeline implements redis.Hook. A pipeline counts as one call.
func (h *Hook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	if err := h.throttle.Wait(ctx); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// AfterProcessPipeline implements redis.Hook.
func (h *Hook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	return nil
}
