package object

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/ecmago/ecma/internal/gc"
	"github.com/ecmago/ecma/internal/value"
)

// RegExpData is the [[Data]] payload for RegExp exotic objects.
// dlclark/regexp2 is used instead of the standard library's regexp
// because it implements .NET-flavored backtracking (backreferences,
// lookaround) that RE2's linear-time engine cannot, matching the
// ECMAScript regular expression grammar far more closely.
type RegExpData struct {
	Source    string
	Flags     string
	Re        *regexp2.Regexp
	LastIndex int
}

func regexp2Options(flags string) regexp2.RegexOptions {
	opts := regexp2.None
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 's') {
		opts |= regexp2.Singleline
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	return opts
}

// NewRegExp compiles source/flags and wraps the result as a RegExp
// exotic object. A compile error is returned as a plain Go error (not a
// *errors.JsError, to keep this package independent of internal/errors'
// JS-error taxonomy); the caller in internal/vm turns it into a
// SyntaxError.
func NewRegExp(regexpProto *Object, source, flags string) (*Object, error) {
	re, err := regexp2.Compile(source, regexp2Options(flags))
	if err != nil {
		return nil, err
	}
	o := New(regexpProto)
	o.SetDataKind(DataRegExp)
	o.SetClassName("RegExp")
	o.Data = &RegExpData{Source: source, Flags: flags, Re: re}
	o.DefineDataProperty(StringKey(value.NewStringFromGo("source")), value.StringValue(value.NewStringFromGo(source)), false, false, false)
	o.DefineDataProperty(StringKey(value.NewStringFromGo("flags")), value.StringValue(value.NewStringFromGo(flags)), false, false, false)
	o.DefineDataProperty(StringKey(value.NewStringFromGo("lastIndex")), value.Number(0), true, false, false)
	return o, nil
}

// RegExpDataOf returns o's RegExpData, or nil if o isn't a RegExp.
func RegExpDataOf(o *Object) *RegExpData {
	if o == nil {
		return nil
	}
	rd, _ := o.Data.(*RegExpData)
	return rd
}

func (rd *RegExpData) Trace(visit func(gc.Traceable)) {}
