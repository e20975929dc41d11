package natives

import (
	stdtime "time"

	strftime "github.com/ncruces/go-strftime"
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// RegisterTime installs now() and strftime(format, unix_seconds)
// (SPEC_FULL.md DOMAIN STACK: github.com/ncruces/go-strftime).
func RegisterTime(register func(name string, minArgs, maxArgs int, fn values.NativeFn)) {
	register("now", 0, 0, func(args []values.Value) (values.Value, error) {
		return values.Int(stdtime.Now().Unix()), nil
	})

	register("strftime", 2, 2, func(args []values.Value) (values.Value, error) {
		if args[0].Kind != values.KindStr {
			return values.Value{}, vmerr.New(vmerr.TypeError, "strftime() expects a format str, got '%s'", args[0].TypeName())
		}
		if args[1].Kind != values.KindInt {
			return values.Value{}, vmerr.New(vmerr.TypeError, "strftime() expects an int unix timestamp, got '%s'", args[1].TypeName())
		}
		t := stdtime.Unix(args[1].AsInt(), 0).UTC()
		return values.Str(strftime.Format(args[0].AsStr(), t)), nil
	})
}
