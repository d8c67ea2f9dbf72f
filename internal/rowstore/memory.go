package rowstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is a slice-backed Store used by tests and local runs. It mirrors
// the production adapter's behavior: server-assigned ids, timestamp
// stamping, uniqueness conflicts worded like the database's own, and the
// ownership policy on every write.
type Memory struct {
	schema Schema

	mu     sync.Mutex
	tables map[string][]Row
	nextID map[string]int64
}

func NewMemory(schema Schema) *Memory {
	return &Memory{
		schema: schema,
		tables: make(map[string][]Row),
		nextID: make(map[string]int64),
	}
}

func (m *Memory) collection(name string) (Collection, error) {
	col, ok := m.schema[name]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return col, nil
}

func (m *Memory) Select(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.collection(q.Collection); err != nil {
		return nil, err
	}

	var out []Row
	for _, row := range m.tables[q.Collection] {
		if matchesAll(row, q.Filters) {
			out = append(out, copyRow(row))
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(out[i][q.OrderBy], out[j][q.OrderBy])
			if q.Desc {
				return less > 0
			}
			return less < 0
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *Memory) SelectOne(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	rows, err := m.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (m *Memory) Insert(ctx context.Context, collection string, row Row) error {
	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	if err := checkOwner(ctx, col, row); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(col, row, -1); err != nil {
		return err
	}
	m.insertLocked(col, row)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection string, set Row, filters []Filter) error {
	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	own, err := ownerFilter(ctx, col)
	if err != nil {
		return err
	}
	filters = append(filters, own)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.tables[collection] {
		if !matchesAll(row, filters) {
			continue
		}
		for k, v := range set {
			row[k] = v
		}
		if col.HasUpdatedAt {
			row["updated_at"] = time.Now().UTC()
		}
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection string, filters []Filter) error {
	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	own, err := ownerFilter(ctx, col)
	if err != nil {
		return err
	}
	filters = append(filters, own)

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[collection]
	kept := rows[:0]
	for _, row := range rows {
		if !matchesAll(row, filters) {
			kept = append(kept, row)
		}
	}
	m.tables[collection] = kept
	return nil
}

func (m *Memory) Upsert(ctx context.Context, collection string, row Row, conflictColumns []string) error {
	col, err := m.collection(collection)
	if err != nil {
		return err
	}
	if err := checkOwner(ctx, col, row); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var key []Filter
	for _, c := range conflictColumns {
		key = append(key, Eq(c, row[c]))
	}

	for _, existing := range m.tables[collection] {
		if matchesAll(existing, key) {
			// Replace content; id, created_at and the conflict key stay.
			for k, v := range row {
				existing[k] = v
			}
			if col.HasUpdatedAt {
				existing["updated_at"] = time.Now().UTC()
			}
			return nil
		}
	}

	m.insertLocked(col, row)
	return nil
}

func (m *Memory) insertLocked(col Collection, row Row) {
	stored := copyRow(row)
	m.nextID[col.Name]++
	stored["id"] = m.nextID[col.Name]
	now := time.Now().UTC()
	stored["created_at"] = now
	if col.HasUpdatedAt {
		stored["updated_at"] = now
	}
	m.tables[col.Name] = append(m.tables[col.Name], stored)
}

func (m *Memory) checkUnique(col Collection, row Row, skipID int64) error {
	for _, key := range col.UniqueKeys {
		var filters []Filter
		for _, c := range key {
			filters = append(filters, Eq(c, row[c]))
		}
		for _, existing := range m.tables[col.Name] {
			if id, ok := existing["id"].(int64); ok && id == skipID {
				continue
			}
			if matchesAll(existing, filters) {
				return fmt.Errorf("duplicate key value violates unique constraint %q", col.Name+"_"+strings.Join(key, "_")+"_key")
			}
		}
	}
	return nil
}

func matchesAll(row Row, filters []Filter) bool {
	for _, f := range filters {
		if compareValues(row[f.Column], f.Value) != 0 {
			return false
		}
	}
	return true
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// compareValues orders two loosely typed cell values. Numeric types compare
// across int/int64/float64 since callers mix them freely.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			default:
				return 0
			}
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	// Incomparable values are treated as unequal.
	if fmt.Sprint(a) == fmt.Sprint(b) {
		return 0
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
