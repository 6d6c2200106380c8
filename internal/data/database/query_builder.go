// Package database builds parameterized list queries for the repositories.
// Identifiers pass through pgx sanitization; values always travel as
// positional arguments, never interpolated.
package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is a SQL comparison operator for a WHERE condition.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	Custom             ConditionType = "CUSTOM"
)

// unset marks limit/offset as "not requested" so zero stays usable.
const unset = -1

// Condition is one WHERE predicate. Standard conditions compare a
// sanitized field against a single bound value; Custom conditions carry
// raw SQL with their own placeholders.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery *string
}

// WhereCond builds a standard field-operator-value condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // panic prevents misuse; custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a raw-SQL condition. Placeholders in rawQuery are
// numbered locally ($1, $2, ...) and renumbered against the final query.
// The raw SQL itself is not sanitized; callers own its correctness.
func WhereRawCond(rawQuery string, params ...any) Condition {
	var value any
	switch len(params) {
	case 0:
		value = nil
	case 1:
		value = params[0]
	default:
		value = params
	}
	return Condition{Type: Custom, rawQuery: &rawQuery, Value: value}
}

// ListQueryOptions accumulates the pieces of a filtered list query.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions during construction.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions builds options for a list query on table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly switches the query to SELECT COUNT(*).
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// BuildListQuery constructs the SQL string and positional arguments from
// options. Identifiers are sanitized; condition values become $n args.
//
//	options := NewListQueryOptions("transactions",
//		WithColumns("id", "reference", "status"),
//		WithCondition(WhereCond("status", Equal, "pending")),
//		WithCondition(WhereCond("risk_score", GreaterThanOrEqual, 0.8)),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(50),
//	)
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(selectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	whereClause, args, nextParam := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	if options.CountOnly {
		return query.String(), args
	}

	if options.OrderBy != "" {
		query.WriteString(" ORDER BY ")
		query.WriteString(sanitizeQualifiedIdentifier(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			query.WriteString(" ")
			query.WriteString(dir)
		}
	}
	if options.Limit != unset {
		query.WriteString(fmt.Sprintf(" LIMIT $%d", nextParam))
		args = append(args, options.Limit)
		nextParam++
	}
	if options.Offset != unset {
		query.WriteString(fmt.Sprintf(" OFFSET $%d", nextParam))
		args = append(args, options.Offset)
	}

	return query.String(), args
}

func selectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = sanitizeQualifiedIdentifier(col)
	}
	return fmt.Sprintf("SELECT %s ", strings.Join(cols, ", "))
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier handles dotted identifiers like
// "transactions.created_at" by quoting each part.
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

func buildWhereClause(input []Condition, startParam int) (string, []any, int) {
	clauses := make([]string, 0, len(input))
	args := []any{}
	param := startParam

	for _, cond := range input {
		var clause string
		var condArgs []any
		clause, condArgs, param = renderCondition(cond, param)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
	}

	if len(clauses) == 0 {
		return "", args, param
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, param
}

func renderCondition(cond Condition, param int) (string, []any, int) {
	if cond.Type == Custom {
		return renderRawCondition(cond, param)
	}
	if cond.Field == "" {
		return "", nil, param
	}
	clause := fmt.Sprintf("%s %s $%d", sanitizeIdentifier(cond.Field), cond.Type, param)
	return clause, []any{cond.Value}, param + 1
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// renderRawCondition renumbers a raw condition's local placeholders into
// the query's parameter sequence. Repeated local placeholders map to the
// same final parameter; out-of-range ones are left untouched.
func renderRawCondition(cond Condition, param int) (string, []any, int) {
	if cond.rawQuery == nil || *cond.rawQuery == "" {
		return "", nil, param
	}

	var params []any
	switch v := cond.Value.(type) {
	case nil:
	case []any:
		params = v
	default:
		params = []any{v}
	}

	args := []any{}
	seen := make(map[int]int)
	clause := placeholderRe.ReplaceAllStringFunc(*cond.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, ok := seen[n]; !ok {
			seen[n] = param
			args = append(args, params[n-1])
			param++
		}
		return fmt.Sprintf("$%d", seen[n])
	})

	return clause, args, param
}
