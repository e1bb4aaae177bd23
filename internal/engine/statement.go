package engine

import (
	"context"

	"github.com/gocql/gocql"
)

type PreparedStatement struct {
	name        string
	compiled    Compiled
	consistency gocql.Consistency
	idempotent  bool
}

func (stmt *PreparedStatement) Name() string { return stmt.name }
func (stmt *PreparedStatement) Query() string { return stmt.compiled.Query() }
func (stmt *PreparedStatement) Compiled() Compiled { return stmt.compiled }
func (stmt *PreparedStatement) Consistency() gocql.Consistency { return stmt.consistency }
func (stmt *PreparedStatement) Idempotent() bool { return stmt.idempotent }

// Prepare compiles query on the session and binds it to a consistency level
// and an idempotency flag. It does not retry.
func Prepare(
	ctx context.Context,
	session Session,
	name string,
	query string,
	consistency gocql.Consistency,
	idempotent bool,
) (*PreparedStatement, error) {
	compiled, err := session.Prepare(ctx, query)

	if err != nil {
		return nil, &PreparationError{Statement: name, Query: query, Err: err}
	}

	return &PreparedStatement{
		name:        name,
		compiled:    compiled,
		consistency: consistency,
		idempotent:  idempotent,
	}, nil
}
