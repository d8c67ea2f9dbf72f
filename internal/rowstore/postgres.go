package rowstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LeapSeeker/matzip-demo/internal/models"
)

// Postgres adapts the Store contract onto a Postgres database through gorm.
// Rows cross the boundary as maps; the typed entities only exist on the
// caller's side.
type Postgres struct {
	db     *gorm.DB
	schema Schema
}

// Open connects and migrates the two collections this client persists to.
func Open(databaseURL string, schema Schema) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Restaurant{}, &models.Review{}); err != nil {
		return nil, err
	}

	return &Postgres{db: db, schema: schema}, nil
}

func (p *Postgres) collection(name string) (Collection, error) {
	col, ok := p.schema[name]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return col, nil
}

func (p *Postgres) Select(ctx context.Context, q Query) ([]Row, error) {
	if _, err := p.collection(q.Collection); err != nil {
		return nil, err
	}

	tx := p.db.WithContext(ctx).Table(q.Collection)
	for _, f := range q.Filters {
		tx = tx.Where(map[string]any{f.Column: f.Value})
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.OrderBy},
			Desc:   q.Desc,
		})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

func (p *Postgres) SelectOne(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	rows, err := p.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (p *Postgres) Insert(ctx context.Context, collection string, row Row) error {
	col, err := p.collection(collection)
	if err != nil {
		return err
	}
	if err := checkOwner(ctx, col, row); err != nil {
		return err
	}

	stored := copyRow(row)
	now := time.Now().UTC()
	stored["created_at"] = now
	if col.HasUpdatedAt {
		stored["updated_at"] = now
	}

	return p.db.WithContext(ctx).Table(collection).Create(stored).Error
}

func (p *Postgres) Update(ctx context.Context, collection string, set Row, filters []Filter) error {
	col, err := p.collection(collection)
	if err != nil {
		return err
	}
	own, err := ownerFilter(ctx, col)
	if err != nil {
		return err
	}
	filters = append(filters, own)

	values := copyRow(set)
	if col.HasUpdatedAt {
		values["updated_at"] = time.Now().UTC()
	}

	tx := p.db.WithContext(ctx).Table(collection)
	for _, f := range filters {
		tx = tx.Where(map[string]any{f.Column: f.Value})
	}
	return tx.Updates(values).Error
}

func (p *Postgres) Delete(ctx context.Context, collection string, filters []Filter) error {
	col, err := p.collection(collection)
	if err != nil {
		return err
	}
	own, err := ownerFilter(ctx, col)
	if err != nil {
		return err
	}
	filters = append(filters, own)

	tx := p.db.WithContext(ctx).Table(collection)
	for _, f := range filters {
		tx = tx.Where(map[string]any{f.Column: f.Value})
	}
	return tx.Delete(nil).Error
}

func (p *Postgres) Upsert(ctx context.Context, collection string, row Row, conflictColumns []string) error {
	col, err := p.collection(collection)
	if err != nil {
		return err
	}
	if err := checkOwner(ctx, col, row); err != nil {
		return err
	}

	stored := copyRow(row)
	now := time.Now().UTC()
	stored["created_at"] = now
	if col.HasUpdatedAt {
		stored["updated_at"] = now
	}

	conflict := make([]clause.Column, len(conflictColumns))
	skip := make(map[string]bool, len(conflictColumns))
	for i, c := range conflictColumns {
		conflict[i] = clause.Column{Name: c}
		skip[c] = true
	}

	// Only the mutable content columns are reassigned on conflict; the
	// conflict key and created_at stay as first written.
	assignments := map[string]any{}
	for k, v := range stored {
		if skip[k] || k == "created_at" || k == "id" {
			continue
		}
		assignments[k] = v
	}

	return p.db.WithContext(ctx).Table(collection).Clauses(clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.Assignments(assignments),
	}).Create(stored).Error
}
