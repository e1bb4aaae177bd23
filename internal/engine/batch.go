package engine

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

// BatchPlan is a batch of exactly Size() copies of one prepared statement.
type BatchPlan struct {
	typ         gocql.BatchType
	consistency gocql.Consistency
	idempotent  bool
	statements  []*PreparedStatement
	compiled    any
}

func (plan *BatchPlan) Type() gocql.BatchType { return plan.typ }
func (plan *BatchPlan) Consistency() gocql.Consistency { return plan.consistency }
func (plan *BatchPlan) Idempotent() bool { return plan.idempotent }
func (plan *BatchPlan) Size() int { return len(plan.statements) }
func (plan *BatchPlan) Statement(i int) *PreparedStatement { return plan.statements[i] }

// Compiled returns what the session's BatchCompiler built for plan, or nil.
func (plan *BatchPlan) Compiled() any { return plan.compiled }

// BatchFamily maps every size in [min, max] to a BatchPlan of that size.
type BatchFamily struct {
	min   int
	plans []*BatchPlan
}

// Plan returns the plan holding exactly size statements.
func (fam *BatchFamily) Plan(size int) (*BatchPlan, bool) {
	var i = size - fam.min

	if i < 0 || i >= len(fam.plans) {
		return nil, false
	}

	return fam.plans[i], true
}

func (fam *BatchFamily) Range() (int, int) {
	return fam.min, fam.min + len(fam.plans) - 1
}

type BatchConfig struct {
	MinSize     int
	MaxSize     int
	Consistency gocql.Consistency
	Idempotent  bool
	Type        gocql.BatchType
}

// PrepareBatchFamily compiles query once and builds a batch plan for every size
// in [conf.MinSize, conf.MaxSize], so that no batch is assembled at write time.
func PrepareBatchFamily(
	ctx context.Context,
	session Session,
	name string,
	query string,
	conf BatchConfig,
) (*BatchFamily, error) {
	if conf.MinSize < 1 || conf.MaxSize < conf.MinSize {
		return nil, &PreparationError{
			Statement: name,
			Query:     query,
			Err:       fmt.Errorf("invalid batch size range [%d, %d]", conf.MinSize, conf.MaxSize),
		}
	}

	stmt, err := Prepare(ctx, session, name, query, conf.Consistency, conf.Idempotent)

	if err != nil {
		return nil, err
	}

	var fam = &BatchFamily{
		min:   conf.MinSize,
		plans: make([]*BatchPlan, 0, conf.MaxSize-conf.MinSize+1),
	}

	for size := conf.MinSize; size <= conf.MaxSize; size++ {
		var plan = &BatchPlan{
			typ:         conf.Type,
			consistency: conf.Consistency,
			idempotent:  conf.Idempotent,
			statements:  make([]*PreparedStatement, size),
		}

		for i := range plan.statements {
			plan.statements[i] = stmt
		}

		if bc, ok := session.(BatchCompiler); ok {
			compiled, err := bc.CompileBatch(ctx, plan)

			if err != nil {
				return nil, &PreparationError{
					Statement: name,
					Query:     query,
					Err:       fmt.Errorf("failed to compile batch of size %d: %w", size, err),
				}
			}

			plan.compiled = compiled
		}

		fam.plans = append(fam.plans, plan)
	}

	return fam, nil
}
