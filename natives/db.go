package natives

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// driverName maps the Str a script passes to db_open to the registered
// database/sql driver name (SPEC_FULL.md DOMAIN STACK: go-sql-driver/mysql,
// lib/pq, modernc.org/sqlite).
func driverName(kind string) (string, error) {
	switch kind {
	case "mysql":
		return "mysql", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", vmerr.New(vmerr.ValueError, "db_open(): unknown driver '%s' (want mysql, postgres, or sqlite)", kind)
	}
}

type handleRegistry struct {
	next int
	open map[int]*sql.DB
}

// RegisterDB installs db_open/db_query/db_exec/db_close. Handles are
// represented as small Int tokens rather than Native closures so a script
// can hold, pass, and compare them like any other value; the registry
// itself lives in the closures captured by these four natives.
func RegisterDB(register func(name string, minArgs, maxArgs int, fn values.NativeFn)) {
	reg := &handleRegistry{open: make(map[int]*sql.DB)}

	register("db_open", 2, 2, func(args []values.Value) (values.Value, error) {
		if args[0].Kind != values.KindStr || args[1].Kind != values.KindStr {
			return values.Value{}, vmerr.New(vmerr.TypeError, "db_open(driver, dsn) expects two strings")
		}
		driver, err := driverName(args[0].AsStr())
		if err != nil {
			return values.Value{}, err
		}
		db, err := sql.Open(driver, args[1].AsStr())
		if err != nil {
			return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_open(): %s", err)
		}
		reg.next++
		reg.open[reg.next] = db
		return values.Int(int64(reg.next)), nil
	})

	register("db_query", 2, -1, func(args []values.Value) (values.Value, error) {
		db, err := reg.lookup(args[0])
		if err != nil {
			return values.Value{}, err
		}
		if args[1].Kind != values.KindStr {
			return values.Value{}, vmerr.New(vmerr.TypeError, "db_query() expects a SQL string")
		}
		rows, err := db.Query(args[1].AsStr(), sqlArgs(args[2:])...)
		if err != nil {
			return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_query(): %s", err)
		}
		defer rows.Close()
		return rowsToList(rows)
	})

	register("db_exec", 2, -1, func(args []values.Value) (values.Value, error) {
		db, err := reg.lookup(args[0])
		if err != nil {
			return values.Value{}, err
		}
		if args[1].Kind != values.KindStr {
			return values.Value{}, vmerr.New(vmerr.TypeError, "db_exec() expects a SQL string")
		}
		result, err := db.Exec(args[1].AsStr(), sqlArgs(args[2:])...)
		if err != nil {
			return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_exec(): %s", err)
		}
		affected, _ := result.RowsAffected()
		return values.Int(affected), nil
	})

	register("db_close", 1, 1, func(args []values.Value) (values.Value, error) {
		db, err := reg.lookup(args[0])
		if err != nil {
			return values.Value{}, err
		}
		if err := db.Close(); err != nil {
			return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_close(): %s", err)
		}
		delete(reg.open, int(args[0].AsInt()))
		return values.Nil(), nil
	})
}

func (r *handleRegistry) lookup(v values.Value) (*sql.DB, error) {
	if v.Kind != values.KindInt {
		return nil, vmerr.New(vmerr.TypeError, "expected a database handle, got '%s'", v.TypeName())
	}
	db, ok := r.open[int(v.AsInt())]
	if !ok {
		return nil, vmerr.New(vmerr.ValueError, "database handle is not open")
	}
	return db, nil
}

func sqlArgs(vals []values.Value) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		switch v.Kind {
		case values.KindInt:
			out[i] = v.AsInt()
		case values.KindFloat:
			out[i] = v.AsFloat()
		case values.KindStr:
			out[i] = v.AsStr()
		case values.KindBool:
			out[i] = v.AsBool()
		case values.KindNil:
			out[i] = nil
		default:
			out[i] = nil
		}
	}
	return out
}

// rowsToList drains rows into a List of Dict, one per row, column name to
// coerced Value (Str/Int/Float/Nil from the driver's raw scan targets).
func rowsToList(rows *sql.Rows) (values.Value, error) {
	cols, err := rows.Columns()
	if err != nil {
		return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_query(): %s", err)
	}

	out := make([]values.Value, 0)
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return values.Value{}, vmerr.New(vmerr.RuntimeError, "db_query(): %s", err)
		}

		rowDict := values.NewDict()
		dd := rowDict.AsDict()
		for i, col := range cols {
			dd.Set(col, coerceSQLValue(raw[i]))
		}
		out = append(out, rowDict)
	}
	return values.NewList(out...), nil
}

func coerceSQLValue(v interface{}) values.Value {
	switch t := v.(type) {
	case nil:
		return values.Nil()
	case int64:
		return values.Int(t)
	case float64:
		return values.Float(t)
	case bool:
		return values.Bool(t)
	case []byte:
		return values.Str(string(t))
	case string:
		return values.Str(t)
	default:
		return values.Nil()
	}
}
