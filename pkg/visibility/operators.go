package visibility

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
)

var patternCache sync.Map // map[string]*regexp.Regexp, nil entries for bad patterns

func compare(op schema.Operator, value answers.Value, present bool, target any) bool {
	switch op {
	case schema.OperatorEmpty:
		return !present
	case schema.OperatorNotEmpty:
		return present
	}
	if !present {
		return false
	}

	switch op {
	case schema.OperatorEquals:
		return equals(value, target)
	case schema.OperatorNotEquals:
		return !equals(value, target)
	case schema.OperatorContains:
		needle, ok := target.(string)
		if !ok {
			return false
		}
		if text, ok := value.Text(); ok {
			return strings.Contains(text, needle)
		}
		if list, ok := value.List(); ok {
			for _, item := range list {
				if item == needle {
					return true
				}
			}
		}
		return false
	case schema.OperatorStartsWith:
		text, ok1 := value.Text()
		prefix, ok2 := target.(string)
		return ok1 && ok2 && strings.HasPrefix(text, prefix)
	case schema.OperatorEndsWith:
		text, ok1 := value.Text()
		suffix, ok2 := target.(string)
		return ok1 && ok2 && strings.HasSuffix(text, suffix)
	case schema.OperatorIn:
		return in(value, target)
	case schema.OperatorMatches:
		text, ok := value.Text()
		if !ok {
			return false
		}
		pattern, ok := target.(string)
		if !ok {
			return false
		}
		re := compiled(pattern)
		return re != nil && re.MatchString(text)
	case schema.OperatorGT, schema.OperatorGTE, schema.OperatorLT, schema.OperatorLTE:
		got, ok1 := numeric(value)
		want, ok2 := numericTarget(target)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case schema.OperatorGT:
			return got > want
		case schema.OperatorGTE:
			return got >= want
		case schema.OperatorLT:
			return got < want
		default:
			return got <= want
		}
	default:
		return false
	}
}

// equals is strict: the answer kind must match the literal kind.
func equals(value answers.Value, target any) bool {
	switch want := target.(type) {
	case string:
		got, ok := value.Text()
		return ok && got == want
	case float64:
		got, ok := value.Num()
		return ok && got == want
	case bool:
		got, ok := value.Flag()
		return ok && got == want
	case int:
		return equals(value, float64(want))
	default:
		return false
	}
}

func in(value answers.Value, target any) bool {
	raw, ok := target.(string)
	if !ok {
		return false
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		set[strings.TrimSpace(part)] = struct{}{}
	}
	switch value.Kind() {
	case answers.KindStrings:
		list, _ := value.List()
		for _, item := range list {
			if _, ok := set[item]; ok {
				return true
			}
		}
		return false
	case answers.KindString, answers.KindNumber, answers.KindBool:
		_, ok := set[value.String()]
		return ok
	default:
		return false
	}
}

func numeric(value answers.Value) (float64, bool) {
	if n, ok := value.Num(); ok {
		return n, true
	}
	if text, ok := value.Text(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		return f, err == nil
	}
	return 0, false
}

func numericTarget(target any) (float64, bool) {
	switch v := target.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func compiled(pattern string) *regexp.Regexp {
	if cached, ok := patternCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	patternCache.Store(pattern, re)
	return re
}
