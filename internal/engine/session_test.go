package engine

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

type fakeCompiled string

func (c fakeCompiled) Query() string { return string(c) }

type batchCall struct {
	plan   *BatchPlan
	values [][]any
}

// fakeSession records every request and keeps written rows in memory, keyed by
// the table named in the query text.
type fakeSession struct {
	lock        sync.Mutex
	prepareErrs map[string]error
	prepared    []string
	batches     []batchCall
	execs       int
	failOnBatch int
	batchErr    error
	tables      map[string][][]any
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		prepareErrs: make(map[string]error),
		tables:      make(map[string][][]any),
	}
}

func (s *fakeSession) Prepare(ctx context.Context, query string) (Compiled, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.prepared = append(s.prepared, query)

	if err, ok := s.prepareErrs[query]; ok {
		return nil, err
	}

	return fakeCompiled(query), nil
}

func (s *fakeSession) Batch(ctx context.Context, plan *BatchPlan, values [][]any) (BatchResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(values) != plan.Size() {
		return BatchResult{}, fmt.Errorf("plan of size %d bound to %d rows", plan.Size(), len(values))
	}

	s.batches = append(s.batches, batchCall{plan: plan, values: values})

	if s.failOnBatch > 0 && len(s.batches) == s.failOnBatch {
		return BatchResult{}, s.batchErr
	}

	for i, v := range values {
		var table = tableOf(plan.Statement(i).Query())
		s.tables[table] = append(s.tables[table], v)
	}

	return BatchResult{Attempts: 1, Latency: time.Millisecond}, nil
}

func (s *fakeSession) Exec(ctx context.Context, stmt *PreparedStatement, values []any) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.execs++

	var table = tableOf(stmt.Query())

	for i, row := range s.tables[table] {
		if reflect.DeepEqual(row[0], values[0]) {
			s.tables[table][i] = values
			return nil
		}
	}

	s.tables[table] = append(s.tables[table], values)
	return nil
}

func (s *fakeSession) Iter(ctx context.Context, stmt *PreparedStatement, values []any) (RowStream, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var rows [][]any

	for _, row := range s.tables[tableOf(stmt.Query())] {
		if reflect.DeepEqual(row[0], values[0]) {
			rows = append(rows, row)
		}
	}

	return &sliceStream{rows: rows, pos: -1}, nil
}

func (s *fakeSession) batchSizes() []int {
	s.lock.Lock()
	defer s.lock.Unlock()

	var res []int

	for _, b := range s.batches {
		res = append(res, b.plan.Size())
	}

	return res
}

// tableOf returns the word following INTO, FROM or UPDATE.
func tableOf(query string) string {
	var fields = strings.Fields(query)

	for i, f := range fields {
		switch strings.ToUpper(f) {
		case "INTO", "FROM", "UPDATE":
			if i+1 < len(fields) {
				return fields[i+1]
			}
		}
	}

	return ""
}

type sliceStream struct {
	rows   [][]any
	pos    int
	err    error
	closed bool
}

func (s *sliceStream) Next() bool {
	if s.closed || s.pos+1 >= len(s.rows) {
		return false
	}

	s.pos++
	return true
}

func (s *sliceStream) Scan(dest ...any) error {
	var row = s.rows[s.pos]

	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}

	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}

	return nil
}

func (s *sliceStream) Err() error { return s.err }

func (s *sliceStream) Close() error {
	s.closed = true
	return s.err
}

// testQueries names one table per kind, except that TXOs are read back from
// the table the ada inserts write to.
func testQueries() QuerySet {
	var q = make(QuerySet)

	for _, kind := range BulkInsertKinds() {
		q[kind.String()] = "INSERT INTO " + kind.String()
	}

	for _, kind := range SelectKinds() {
		q[kind.String()] = "SELECT * FROM " + kind.String()
	}

	for _, kind := range UpsertKinds() {
		q[kind.String()] = "INSERT INTO " + kind.String()
	}

	q[TxoByStakeAddress.String()] = "SELECT * FROM " + TxoAdaInsert.String()
	return q
}
