package core

import (
	"context"
	"time"
)

// Env execution environment of a call
type Env struct {
	Sender string
	Time   time.Time
}

// NewEnv env at the current time
func NewEnv(sender string) Env {
	return Env{Sender: sender, Time: time.Now()}
}

// Unix block time in seconds
func (e Env) Unix() int64 {
	return e.Time.Unix()
}

// Transactor runs fn as one indivisible unit; nested calls join the outer unit
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
