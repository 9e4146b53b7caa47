package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gexlang/gex/internal/ctxlog"
	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/parser"
	"github.com/gexlang/gex/internal/resolve"
	"github.com/gexlang/gex/internal/types"
)

func cmdQuery(args []string) error {
	fs := flag.NewFlagSet("gex query", flag.ExitOnError)
	var gf genomeFlags
	gf.register(fs)
	dbPath := fs.String("db", "", "sqlite database `file`")
	table := fs.String("table", "", "`table` to read")
	filter := fs.String("filter", "", "boolean `expr` keeping rows")
	sel := fs.String("select", "", "named expression `list` evaluated per row")
	agg := fs.String("agg", "", "named expression `list` folding the table as rows")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *table == "" {
		return errors.New("gex query: -db and -table are required")
	}
	if *agg != "" && *sel != "" {
		return errors.New("gex query: -agg and -select are mutually exclusive")
	}

	ctx := newRunContext(*verbose)
	opts, err := gf.options(ctx)
	if err != nil {
		return err
	}
	q := &query{
		db:     *dbPath,
		table:  *table,
		filter: *filter,
		sel:    *sel,
		agg:    *agg,
		opts:   opts,
	}
	return q.run(ctx, os.Stdout)
}

// query evaluates expressions over one sqlite table. Each row's columns
// bind as symbols, the expressions compile once and run per row. With
// -agg the table instead binds as a single aggregable of row structs
// named rows.
type query struct {
	db     string
	table  string
	filter string
	sel    string
	agg    string
	opts   eval.Options
}

type column struct {
	name string
	typ  types.Type
}

func (q *query) run(ctx context.Context, out io.Writer) error {
	sqldb, err := sql.Open("sqlite", q.db)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	cols, err := tableColumns(ctx, sqldb, q.table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s has no columns of a supported type", q.table)
	}
	ctxlog.FromContext(ctx).Debug("resolved table schema", "table", q.table, "columns", len(cols))

	if q.agg != "" {
		return q.runAgg(ctx, sqldb, cols, out)
	}
	return q.runPerRow(ctx, sqldb, cols, out)
}

// tableColumns introspects the table, keeping the columns whose
// declared type maps to an engine type.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, declType   string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &declType, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		if t, ok := columnType(declType); ok {
			cols = append(cols, column{name: name, typ: t})
		}
	}
	return cols, rows.Err()
}

// columnType maps a declared sqlite column type to an engine type by
// sqlite's affinity rules: INT anywhere in the declaration means
// integer, then CHAR/CLOB/TEXT means text, then REAL/FLOA/DOUB means
// real. Everything else (blobs, numeric) is skipped.
func columnType(decl string) (types.Type, bool) {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "INT"):
		return types.TInt64, true
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return types.TString, true
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"):
		return types.TFloat64, true
	}
	return nil, false
}

func (q *query) selectStmt(cols []column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = fmt.Sprintf("%q", c.name)
	}
	return fmt.Sprintf("SELECT %s FROM %q", strings.Join(names, ", "), q.table)
}

// scanTargets allocates one nullable scan destination per column.
func scanTargets(cols []column) []any {
	targets := make([]any, len(cols))
	for i, c := range cols {
		switch c.typ.(type) {
		case types.Int64:
			targets[i] = new(sql.NullInt64)
		case types.Float64:
			targets[i] = new(sql.NullFloat64)
		default:
			targets[i] = new(sql.NullString)
		}
	}
	return targets
}

// targetValue converts a scanned destination to an engine value, NULL
// to missing.
func targetValue(t any) any {
	switch v := t.(type) {
	case *sql.NullInt64:
		if v.Valid {
			return v.Int64
		}
	case *sql.NullFloat64:
		if v.Valid {
			return v.Float64
		}
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	}
	return nil
}

// compileFilter compiles -filter against the row context. The result
// must check to Boolean.
func compileFilter(src string, ectx *eval.EvalContext, opts eval.Options) (*eval.Program, error) {
	expr, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	checked, err := eval.Check(expr, ectx, opts)
	if err != nil {
		return nil, err
	}
	if !types.Same(types.Optional(checked.Type()), types.TBoolean) {
		return nil, fmt.Errorf("filter must be Boolean, got %s", checked.Type())
	}
	return eval.Compile(checked), nil
}

// compileSelection compiles -select, defaulting to every column. The
// default quotes names with backticks so columns that collide with
// keywords still resolve.
func (q *query) compileSelection(cols []column, ectx *eval.EvalContext) (*resolve.List, error) {
	src := q.sel
	if src == "" {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = "`" + c.name + "`"
		}
		src = strings.Join(names, ", ")
	}
	entries, err := parser.ParseNamedList(src)
	if err != nil {
		return nil, err
	}
	return resolve.Compile(entries, ectx, resolve.Options{Eval: q.opts})
}

func (q *query) runPerRow(ctx context.Context, db *sql.DB, cols []column, out io.Writer) error {
	ectx := eval.NewContext()
	slots := make([]int, len(cols))
	for i, c := range cols {
		slots[i] = ectx.Bind(c.name, c.typ)
	}

	var filter *eval.Program
	if q.filter != "" {
		var err error
		if filter, err = compileFilter(q.filter, ectx, q.opts); err != nil {
			return err
		}
	}
	list, err := q.compileSelection(cols, ectx)
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, q.selectStmt(cols))
	if err != nil {
		return err
	}
	defer rows.Close()

	writeHeader(out, list)
	frame := eval.NewFrame(ectx)
	targets := scanTargets(cols)
	typs := list.Types()
	n := 0
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return err
		}
		for i, slot := range slots {
			frame.Set(slot, targetValue(targets[i]))
		}
		if filter != nil {
			keep, err := filter.Run(frame)
			if err != nil {
				return err
			}
			// A missing filter value drops the row, like false.
			if keep != true {
				continue
			}
		}
		vals, err := list.Evaluate(frame)
		if err != nil {
			return err
		}
		writeRow(out, typs, vals)
		n++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("query finished", "rows", n)
	return nil
}

// runAgg materializes the table (after -filter) as one aggregable of
// row structs bound as rows, then evaluates -agg once.
func (q *query) runAgg(ctx context.Context, db *sql.DB, cols []column, out io.Writer) error {
	names := make([]string, len(cols))
	typs := make([]types.Type, len(cols))
	for i, c := range cols {
		names[i], typs[i] = c.name, c.typ
	}
	rowType := types.NewStruct(names, typs)

	rowCtx := eval.NewContext()
	rowSlots := make([]int, len(cols))
	for i, c := range cols {
		rowSlots[i] = rowCtx.Bind(c.name, c.typ)
	}
	var filter *eval.Program
	if q.filter != "" {
		var err error
		if filter, err = compileFilter(q.filter, rowCtx, q.opts); err != nil {
			return err
		}
	}

	ectx := eval.NewContext()
	rowsSlot := ectx.Bind("rows", types.Aggregable{Elem: rowType})
	entries, err := parser.ParseNamedList(q.agg)
	if err != nil {
		return err
	}
	list, err := resolve.Compile(entries, ectx, resolve.Options{Eval: q.opts})
	if err != nil {
		return err
	}

	records, err := q.readAll(ctx, db, cols, rowCtx, rowSlots, filter)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("materialized table", "rows", len(records))

	frame := eval.NewFrame(ectx)
	frame.Set(rowsSlot, eval.FromSlice(rowType, records))
	vals, err := list.Evaluate(frame)
	if err != nil {
		return err
	}
	writeHeader(out, list)
	writeRow(out, list.Types(), vals)
	return nil
}

func (q *query) readAll(ctx context.Context, db *sql.DB, cols []column, rowCtx *eval.EvalContext, rowSlots []int, filter *eval.Program) ([]any, error) {
	rows, err := db.QueryContext(ctx, q.selectStmt(cols))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frame := eval.NewFrame(rowCtx)
	targets := scanTargets(cols)
	var records []any
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		rec := make([]any, len(cols))
		for i := range cols {
			rec[i] = targetValue(targets[i])
		}
		if filter != nil {
			for i, slot := range rowSlots {
				frame.Set(slot, rec[i])
			}
			keep, err := filter.Run(frame)
			if err != nil {
				return nil, err
			}
			if keep != true {
				continue
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func writeHeader(out io.Writer, list *resolve.List) {
	paths := list.Names()
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = strings.Join(p, ".")
	}
	fmt.Fprintln(out, strings.Join(names, "\t"))
}

func writeRow(out io.Writer, typs []types.Type, vals []any) {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = eval.Render(typs[i], v)
	}
	fmt.Fprintln(out, strings.Join(parts, "\t"))
}
