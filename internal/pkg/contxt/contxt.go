// Package contxt builds bounded contexts for publish calls, so a slow broker
// can never block a scan callback indefinitely.
package contxt

import (
	"context"
	"time"
)

func NewContext(timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
