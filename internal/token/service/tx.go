package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	dErrors "geostake/pkg/domain-errors"
	"geostake/pkg/platform/tx"
)

// TxRunner provides the atomic boundary every lifecycle operation runs
// inside: all writes of one operation apply together, or none do.
// Implementations may wrap a database transaction or, in-memory, a coarse
// lock.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// numShards spreads in-memory transactions across mutexes hashed by token id
// so unrelated tokens do not contend.
const numShards = 128

// defaultTxTimeout is the maximum duration for one lifecycle transaction.
const defaultTxTimeout = 5 * time.Second

type txTokenKey struct{}

// withTxToken tags the context with the token a transaction is about, used
// for shard selection. Mint has no id yet and lands on shard 0.
func withTxToken(ctx context.Context, tokenID uint64) context.Context {
	return context.WithValue(ctx, txTokenKey{}, tokenID)
}

// ShardedTx serializes same-token operations with sharded mutexes. It is the
// transactional boundary for the in-memory stores, which apply writes
// immediately; serial application per token is what keeps a failed
// precondition from observing half-applied state.
type ShardedTx struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

func NewShardedTx() *ShardedTx {
	return &ShardedTx{}
}

func (t *ShardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.selectShard(ctx)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

func (t *ShardedTx) selectShard(ctx context.Context) int {
	if tokenID, ok := ctx.Value(txTokenKey{}).(uint64); ok && tokenID != 0 {
		return int(tokenID % numShards)
	}
	return 0
}

// SQLTx wraps each operation in a database transaction. Stores pick the
// transaction up from the context via pkg/platform/tx.
type SQLTx struct {
	db *sql.DB
}

func NewSQLTx(db *sql.DB) *SQLTx {
	return &SQLTx{db: db}
}

func (t *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
