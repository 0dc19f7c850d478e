package dbhelper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

type FieldKind int

const (
	TextField FieldKind = iota
	NumberField
	BoolField
	TimeField
	UUIDField
	// ArrayField is a text[] column; eq tests membership, in tests overlap.
	ArrayField
)

// Field maps a client-facing attribute to a column.
type Field struct {
	Column string
	Kind   FieldKind
}

// Expansion adds a joined relation's columns to each row.
type Expansion struct {
	Join    string
	Columns []string
}

// Collection describes how a resource can be filtered, sorted and paged.
// Only attributes listed in Fields may be used in filters or sort keys.
type Collection struct {
	Name       string
	From       string
	Columns    string
	Fields     map[string]Field
	Expansions map[string]Expansion

	// row allocates one result and the scan destinations for Columns.
	row func() (item any, dest []any)
	// expandDest returns the scan destinations for one expansion's Columns.
	expandDest func(item any, name string) []any
	// after runs once per page, e.g. to load child rows.
	after func(ctx context.Context, db SQLExecutor, items []any) error
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (f Field) parse(raw string) (any, error) {
	switch f.Kind {
	case NumberField:
		return strconv.ParseFloat(raw, 64)
	case BoolField:
		return strconv.ParseBool(raw)
	case TimeField:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid time %q", raw)
	case UUIDField:
		return uuid.Parse(raw)
	default:
		return raw, nil
	}
}

var comparisons = map[models.FilterOp]string{
	models.OpEq:  "=",
	models.OpGt:  ">",
	models.OpGte: ">=",
	models.OpLt:  "<",
	models.OpLte: "<=",
}

type queryBuilder struct {
	args []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func invalidFilter(field string) error {
	return utils.NewValidationError(fmt.Sprintf("Invalid filter value for %s", field))
}

func (c *Collection) condition(b *queryBuilder, f models.Filter) (string, error) {
	field, ok := c.Fields[f.Field]
	if !ok {
		return "", utils.NewValidationError(fmt.Sprintf("Unknown filter field %s", f.Field))
	}
	if !f.Op.IsValid() || len(f.Values) == 0 {
		return "", invalidFilter(f.Field)
	}

	values := make([]any, 0, len(f.Values))
	for _, raw := range f.Values {
		if field.Kind == ArrayField {
			values = append(values, raw)
			continue
		}
		v, err := field.parse(raw)
		if err != nil {
			return "", invalidFilter(f.Field)
		}
		values = append(values, v)
	}

	switch {
	case field.Kind == ArrayField && f.Op == models.OpEq:
		return b.bind(values[0]) + " = ANY(" + field.Column + ")", nil
	case field.Kind == ArrayField && f.Op == models.OpIn:
		return field.Column + " && " + b.bind(pq.Array(f.Values)), nil
	case field.Kind == ArrayField, field.Kind == BoolField && f.Op != models.OpEq && f.Op != models.OpIn:
		return "", invalidFilter(f.Field)
	case f.Op == models.OpIn:
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = b.bind(v)
		}
		return field.Column + " IN (" + strings.Join(placeholders, ", ") + ")", nil
	default:
		if len(values) != 1 {
			return "", invalidFilter(f.Field)
		}
		return field.Column + " " + comparisons[f.Op] + " " + b.bind(values[0]), nil
	}
}

func (c *Collection) orderBy(sort []models.SortField) (string, error) {
	if len(sort) == 0 {
		sort = []models.SortField{{Field: "createdAt", Desc: true}}
	}
	parts := make([]string, 0, len(sort))
	for _, s := range sort {
		field, ok := c.Fields[s.Field]
		if !ok || field.Kind == ArrayField {
			return "", utils.NewValidationError(fmt.Sprintf("Invalid sort field %s", s.Field))
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, field.Column+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// Build renders the count and page queries for q. Both share the same
// arguments; the page query appends LIMIT and OFFSET parameters.
func (c *Collection) Build(q models.ListQuery, expand []string) (countSQL, pageSQL string, countArgs, pageArgs []any, err error) {
	b := &queryBuilder{}
	conds := make([]string, 0, len(q.Filters))
	for _, f := range q.Filters {
		cond, err := c.condition(b, f)
		if err != nil {
			return "", "", nil, nil, err
		}
		conds = append(conds, cond)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	order, err := c.orderBy(q.Sort)
	if err != nil {
		return "", "", nil, nil, err
	}

	columns := c.Columns
	joins := ""
	for _, name := range expand {
		exp, ok := c.Expansions[name]
		if !ok {
			return "", "", nil, nil, fmt.Errorf("collection %s has no expansion %q", c.Name, name)
		}
		joins += " " + exp.Join
		columns += ", " + strings.Join(exp.Columns, ", ")
	}

	countSQL = "SELECT COUNT(*) FROM " + c.From + where
	countArgs = append([]any(nil), b.args...)

	limit := b.bind(q.Limit)
	offset := b.bind(q.Offset())
	pageSQL = "SELECT " + columns + " FROM " + c.From + joins + where + order + " LIMIT " + limit + " OFFSET " + offset
	return countSQL, pageSQL, countArgs, b.args, nil
}

// Find returns one page of the collection plus the total number of matching records.
func (c *Collection) Find(ctx context.Context, db SQLExecutor, q models.ListQuery, expand []string) ([]any, int, error) {
	countSQL, pageSQL, countArgs, pageArgs, err := c.Build(q, expand)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]any, 0, min(q.Limit, total))
	for rows.Next() {
		item, dest := c.row()
		for _, name := range expand {
			dest = append(dest, c.expandDest(item, name)...)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if c.after != nil && len(items) > 0 {
		if err := c.after(ctx, db, items); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}
