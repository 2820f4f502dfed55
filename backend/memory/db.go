package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Transaction runs fn on a client bound to a new transaction. The transaction
// commits only if fn succeeds while ctx is still live; otherwise it is rolled
// back and fn's error, or ctx's, is returned. A panic in fn rolls back and is
// re-raised.
func Transaction[T any](ctx context.Context, client *Client, fn func(tx *Client) (*T, error)) (*T, error) {
	tx, err := client.Tx(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if v := recover(); v != nil {
			if rerr := tx.Rollback(); rerr != nil {
				slog.ErrorContext(ctx, "rolling back transaction after panic", "error", rerr)
			}
			panic(v)
		}
	}()

	result, err := fn(tx.Client())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back transaction: %w", rerr))
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return result, nil
}
