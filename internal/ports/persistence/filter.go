package persistence

// Op вид условия фильтра
type Op int

const (
	OpEquals Op = iota
	OpNotEquals
	OpIn
	OpNotIn
	OpILike
	OpNotILike
)

func (o Op) String() string {
	switch o {
	case OpEquals:
		return "eq"
	case OpNotEquals:
		return "neq"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not_in"
	case OpILike:
		return "ilike"
	case OpNotILike:
		return "not_ilike"
	default:
		return "unknown"
	}
}

// Filter одно условие WHERE, условия объединяются через AND
type Filter struct {
	Field  string
	Op     Op
	Value  any   // для Equals/NotEquals/ILike/NotILike; nil означает IS NULL
	Values []any // для In/NotIn
}

func Equals(field string, value any) Filter {
	return Filter{Field: field, Op: OpEquals, Value: value}
}

func NotEquals(field string, value any) Filter {
	return Filter{Field: field, Op: OpNotEquals, Value: value}
}

func In[T any](field string, values ...T) Filter {
	return Filter{Field: field, Op: OpIn, Values: toAny(values)}
}

func NotIn[T any](field string, values ...T) Filter {
	return Filter{Field: field, Op: OpNotIn, Values: toAny(values)}
}

// ILike регистронезависимый LIKE, шаблон передаётся как есть (с % и _)
func ILike(field string, pattern string) Filter {
	return Filter{Field: field, Op: OpILike, Value: pattern}
}

func NotILike(field string, pattern string) Filter {
	return Filter{Field: field, Op: OpNotILike, Value: pattern}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
