package memory

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/user"
	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id,omitempty"`
	CreateTime     time.Time `json:"create_time,omitempty"`
	UpdateTime     time.Time `json:"update_time,omitempty"`
	Email          string    `json:"email,omitempty"`
	Username       string    `json:"username,omitempty"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name,omitempty"`
	IsActive       bool      `json:"is_active,omitempty"`
	IsSuperuser    bool      `json:"is_superuser,omitempty"`
}

func scanUser(rows *entsql.Rows) (*User, error) {
	u := &User{}
	err := rows.Scan(
		&u.ID,
		&u.CreateTime,
		&u.UpdateTime,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.IsActive,
		&u.IsSuperuser,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

type UserClient struct {
	driver dialect.Driver
}

func (c *UserClient) Create() *UserCreate {
	return &UserCreate{
		driver: c.driver,
		user:   &User{IsActive: true},
	}
}

func (c *UserClient) Query() *UserQuery {
	return &UserQuery{query[predicate.User, User]{
		driver:  c.driver,
		label:   "user",
		table:   user.Table,
		columns: user.Columns,
		scan:    scanUser,
	}}
}

func (c *UserClient) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return c.Query().Where(user.ID(id)).First(ctx)
}

func (c *UserClient) UpdateOneID(id uuid.UUID) *UserUpdateOne {
	return &UserUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

func (c *UserClient) DeleteOneID(id uuid.UUID) *DeleteOne {
	return &DeleteOne{driver: c.driver, label: "user", table: user.Table, pred: entsql.EQ(user.FieldID, id)}
}

type UserQuery struct {
	query[predicate.User, User]
}

func (q *UserQuery) Where(ps ...predicate.User) *UserQuery {
	q.where(ps...)
	return q
}

type UserCreate struct {
	driver dialect.Driver
	user   *User
}

func (c *UserCreate) SetID(id uuid.UUID) *UserCreate {
	c.user.ID = id
	return c
}

func (c *UserCreate) SetEmail(v string) *UserCreate {
	c.user.Email = v
	return c
}

func (c *UserCreate) SetUsername(v string) *UserCreate {
	c.user.Username = v
	return c
}

func (c *UserCreate) SetHashedPassword(v string) *UserCreate {
	c.user.HashedPassword = v
	return c
}

func (c *UserCreate) SetFullName(v string) *UserCreate {
	c.user.FullName = v
	return c
}

func (c *UserCreate) SetIsActive(v bool) *UserCreate {
	c.user.IsActive = v
	return c
}

func (c *UserCreate) SetIsSuperuser(v bool) *UserCreate {
	c.user.IsSuperuser = v
	return c
}

func (c *UserCreate) Save(ctx context.Context) (*User, error) {
	u := *c.user
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV7())
	}
	u.CreateTime = now()
	u.UpdateTime = u.CreateTime

	_, err := insert(ctx, c.driver, user.Table, user.Columns, []any{
		u.ID,
		u.CreateTime,
		u.UpdateTime,
		u.Email,
		u.Username,
		u.HashedPassword,
		u.FullName,
		u.IsActive,
		u.IsSuperuser,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type UserUpdateOne struct {
	driver   dialect.Driver
	id       uuid.UUID
	mutation *mutation
}

func (u *UserUpdateOne) SetEmail(v string) *UserUpdateOne {
	u.mutation.set(user.FieldEmail, v)
	return u
}

func (u *UserUpdateOne) SetFullName(v string) *UserUpdateOne {
	u.mutation.set(user.FieldFullName, v)
	return u
}

func (u *UserUpdateOne) SetHashedPassword(v string) *UserUpdateOne {
	u.mutation.set(user.FieldHashedPassword, v)
	return u
}

func (u *UserUpdateOne) SetIsActive(v bool) *UserUpdateOne {
	u.mutation.set(user.FieldIsActive, v)
	return u
}

func (u *UserUpdateOne) SetIsSuperuser(v bool) *UserUpdateOne {
	u.mutation.set(user.FieldIsSuperuser, v)
	return u
}

func (u *UserUpdateOne) Save(ctx context.Context) (*User, error) {
	if err := updateOne(ctx, u.driver, "user", user.Table, user.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	return (&UserClient{driver: u.driver}).Get(ctx, u.id)
}
