package memory

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/cenkalti/backoff/v5"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

type Client struct {
	driver dialect.Driver
	db     *stdsql.DB

	Schema    *Schema
	User      *UserClient
	Agent     *AgentClient
	Subagent  *SubagentClient
	Tool      *ToolClient
	Template  *TemplateClient
	Execution *ExecutionClient
}

type OpenOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingAttempts    uint
}

type OpenOption func(*OpenOptions)

func WithMaxOpenConns(n int) OpenOption {
	return func(o *OpenOptions) {
		o.MaxOpenConns = n
	}
}

func WithMaxIdleConns(n int) OpenOption {
	return func(o *OpenOptions) {
		o.MaxIdleConns = n
	}
}

func WithConnMaxLifetime(d time.Duration) OpenOption {
	return func(o *OpenOptions) {
		o.ConnMaxLifetime = d
	}
}

func WithPingAttempts(n uint) OpenOption {
	return func(o *OpenOptions) {
		o.PingAttempts = n
	}
}

// Open connects to the SQLite database described by dsn. The connection is
// verified with a ping that is retried with exponential backoff.
func Open(ctx context.Context, dsn string, opts ...OpenOption) (*Client, error) {
	options := &OpenOptions{
		PingAttempts: 5,
	}
	for _, opt := range opts {
		opt(options)
	}

	db, err := stdsql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if options.MaxOpenConns > 0 {
		db.SetMaxOpenConns(options.MaxOpenConns)
	}
	if options.MaxIdleConns > 0 {
		db.SetMaxIdleConns(options.MaxIdleConns)
	}
	if options.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(options.ConnMaxLifetime)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(options.PingAttempts),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	client := newClient(entsql.OpenDB(dialect.SQLite, db))
	client.db = db
	return client, nil
}

func newClient(driver dialect.Driver) *Client {
	c := &Client{driver: driver}
	c.Schema = &Schema{driver: driver}
	c.User = &UserClient{driver: driver}
	c.Agent = &AgentClient{driver: driver}
	c.Subagent = &SubagentClient{driver: driver}
	c.Tool = &ToolClient{driver: driver}
	c.Template = &TemplateClient{driver: driver}
	c.Execution = &ExecutionClient{driver: driver}
	return c
}

func (c *Client) Ping(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.driver.Close()
}

func (c *Client) Dialect() string {
	return c.driver.Dialect()
}

// Tx starts a transaction. The returned Tx exposes a Client bound to it.
func (c *Client) Tx(ctx context.Context) (*Tx, error) {
	if _, ok := c.driver.(*txDriver); ok {
		return nil, errors.New("memory: cannot start a transaction within a transaction")
	}

	tx, err := c.driver.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: starting a transaction: %w", err)
	}

	return &Tx{
		tx:     tx,
		client: newClient(&txDriver{drv: c.driver, tx: tx}),
	}, nil
}

type Tx struct {
	tx     dialect.Tx
	client *Client
}

func (tx *Tx) Client() *Client {
	return tx.client
}

func (tx *Tx) Commit() error {
	return tx.tx.Commit()
}

func (tx *Tx) Rollback() error {
	return tx.tx.Rollback()
}

// txDriver routes every statement of a transactional client through the
// underlying dialect.Tx.
type txDriver struct {
	drv dialect.Driver
	tx  dialect.Tx
}

var _ dialect.Driver = (*txDriver)(nil)

func (d *txDriver) Exec(ctx context.Context, query string, args, v any) error {
	return d.tx.Exec(ctx, query, args, v)
}

func (d *txDriver) Query(ctx context.Context, query string, args, v any) error {
	return d.tx.Query(ctx, query, args, v)
}

func (d *txDriver) Tx(context.Context) (dialect.Tx, error) {
	return dialect.NopTx(d), nil
}

func (d *txDriver) Close() error {
	return nil
}

func (d *txDriver) Dialect() string {
	return d.drv.Dialect()
}

func builder(driver dialect.Driver) *entsql.DialectBuilder {
	return entsql.Dialect(driver.Dialect())
}

func execResult(ctx context.Context, driver dialect.Driver, query string, args []any) (stdsql.Result, error) {
	var res stdsql.Result
	if err := driver.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func affected(ctx context.Context, driver dialect.Driver, query string, args []any) (int64, error) {
	res, err := execResult(ctx, driver, query, args)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// queryRows runs query and calls scan for every returned row.
func queryRows(ctx context.Context, driver dialect.Driver, query string, args []any, scan func(*entsql.Rows) error) error {
	rows := &entsql.Rows{}
	if err := driver.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func count(ctx context.Context, driver dialect.Driver, selector *entsql.Selector) (int, error) {
	query, args := selector.Query()
	var n int
	err := queryRows(ctx, driver, query, args, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

func now() time.Time {
	return time.Now().UTC()
}
