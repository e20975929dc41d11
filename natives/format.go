package natives

import (
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// RegisterFormat installs humanize_bytes, humanize_time, humanize_ordinal,
// and humanize_comma (SPEC_FULL.md DOMAIN STACK: github.com/dustin/go-humanize).
func RegisterFormat(register func(name string, minArgs, maxArgs int, fn values.NativeFn)) {
	register("humanize_bytes", 1, 1, func(args []values.Value) (values.Value, error) {
		n, err := argInt(args, 0, "humanize_bytes")
		if err != nil {
			return values.Value{}, err
		}
		return values.Str(humanize.Bytes(uint64(n))), nil
	})

	register("humanize_time", 1, 1, func(args []values.Value) (values.Value, error) {
		n, err := argInt(args, 0, "humanize_time")
		if err != nil {
			return values.Value{}, err
		}
		then := time.Now().Add(-time.Duration(n) * time.Second)
		return values.Str(humanize.Time(then)), nil
	})

	register("humanize_ordinal", 1, 1, func(args []values.Value) (values.Value, error) {
		n, err := argInt(args, 0, "humanize_ordinal")
		if err != nil {
			return values.Value{}, err
		}
		return values.Str(humanize.Ordinal(int(n))), nil
	})

	register("humanize_comma", 1, 1, func(args []values.Value) (values.Value, error) {
		if args[0].Kind != values.KindInt {
			return values.Value{}, vmerr.New(vmerr.TypeError, "humanize_comma() expects an int, got '%s'", args[0].TypeName())
		}
		return values.Str(humanize.Comma(args[0].AsInt())), nil
	})
}

func argInt(args []values.Value, i int, fnName string) (int64, error) {
	if args[i].Kind != values.KindInt {
		return 0, vmerr.New(vmerr.TypeError, "%s() expects an int argument, got '%s'", fnName, args[i].TypeName())
	}
	return args[i].AsInt(), nil
}
