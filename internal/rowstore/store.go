package rowstore

import (
	"context"
	"errors"
)

// Row is the store's wire shape. It is loose on purpose; callers coerce it
// into typed entities at the read boundary and never pass it further in.
type Row = map[string]any

// Filter is an equality constraint on one column.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Query describes a filtered, ordered, limited read over one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Desc       bool
	Limit      int
}

// Store is the contract consumed from the row store. Writes are constrained
// by the per-collection ownership policy carried in the schema; that policy
// is the authority of last resort and holds even when a client-side check
// was bypassed or stale.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	// SelectOne returns (nil, nil) when no row matches.
	SelectOne(ctx context.Context, q Query) (Row, error)

	Insert(ctx context.Context, collection string, row Row) error
	Update(ctx context.Context, collection string, set Row, filters []Filter) error
	Delete(ctx context.Context, collection string, filters []Filter) error
	// Upsert inserts the row or replaces the one matched by conflictColumns.
	Upsert(ctx context.Context, collection string, row Row, conflictColumns []string) error
}

// Collection declares what the store needs to know about one table.
type Collection struct {
	Name string
	// OwnerColumn is the column writes are policy-checked against.
	// Update and delete are silently restricted to the actor's own rows,
	// the same way row-level security filters them out server-side.
	OwnerColumn string
	// UniqueKeys are the column sets whose violation signals a conflict.
	UniqueKeys [][]string
	// HasUpdatedAt marks collections whose rows carry an updated_at stamp.
	HasUpdatedAt bool
}

// Schema maps collection names to their declarations.
type Schema map[string]Collection

// DefaultSchema covers the two collections this client persists to.
func DefaultSchema() Schema {
	return Schema{
		"restaurants": {
			Name:        "restaurants",
			OwnerColumn: "created_by",
			UniqueKeys:  [][]string{{"name"}},
		},
		"reviews": {
			Name:         "reviews",
			OwnerColumn:  "user_id",
			UniqueKeys:   [][]string{{"restaurant_id", "user_id"}},
			HasUpdatedAt: true,
		},
	}
}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	// errPermissionDenied is deliberately generic; the store does not
	// guarantee a distinguishable "forbidden" error shape.
	errPermissionDenied = errors.New("permission denied by row policy")
)

type actorKey struct{}

// WithActor binds the acting identity's uid to the context. Mutating calls
// without an actor are rejected.
func WithActor(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, actorKey{}, uid)
}

// ActorFrom extracts the acting uid, if any.
func ActorFrom(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(actorKey{}).(string)
	return uid, ok && uid != ""
}

// checkOwner verifies an insert/upsert row claims the actor as its owner.
func checkOwner(ctx context.Context, col Collection, row Row) error {
	if col.OwnerColumn == "" {
		return nil
	}
	uid, ok := ActorFrom(ctx)
	if !ok {
		return errPermissionDenied
	}
	if owner, _ := row[col.OwnerColumn].(string); owner != uid {
		return errPermissionDenied
	}
	return nil
}

// ownerFilter returns the implicit filter restricting update/delete to the
// actor's own rows.
func ownerFilter(ctx context.Context, col Collection) (Filter, error) {
	uid, ok := ActorFrom(ctx)
	if !ok {
		return Filter{}, errPermissionDenied
	}
	return Eq(col.OwnerColumn, uid), nil
}
