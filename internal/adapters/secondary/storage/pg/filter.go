package pg

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/anastasia-gushchina/topdj-bot/internal/ports/persistence"
)

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdentifier(name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// buildWhere собирает WHERE с плейсхолдерами ?, пустой список - пустая строка
func buildWhere(filters []persistence.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))

	for _, f := range filters {
		if err := checkIdentifier(f.Field); err != nil {
			return "", nil, err
		}

		switch f.Op {
		case persistence.OpEquals:
			if f.Value == nil {
				conds = append(conds, f.Field+" IS NULL")
				continue
			}
			conds = append(conds, f.Field+" = ?")
			args = append(args, f.Value)
		case persistence.OpNotEquals:
			if f.Value == nil {
				conds = append(conds, f.Field+" IS NOT NULL")
				continue
			}
			conds = append(conds, f.Field+" <> ?")
			args = append(args, f.Value)
		case persistence.OpIn, persistence.OpNotIn:
			if len(f.Values) == 0 {
				// пустой IN ничего не находит, пустой NOT IN не ограничивает
				if f.Op == persistence.OpIn {
					conds = append(conds, "1 = 0")
				} else {
					conds = append(conds, "1 = 1")
				}
				continue
			}
			op := "IN"
			if f.Op == persistence.OpNotIn {
				op = "NOT IN"
			}
			conds = append(conds, fmt.Sprintf("%s %s (%s)", f.Field, op, placeholders(len(f.Values))))
			args = append(args, f.Values...)
		case persistence.OpILike:
			conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", f.Field))
			args = append(args, f.Value)
		case persistence.OpNotILike:
			conds = append(conds, fmt.Sprintf("LOWER(%s) NOT LIKE LOWER(?)", f.Field))
			args = append(args, f.Value)
		default:
			return "", nil, fmt.Errorf("unsupported filter op %d on %s", f.Op, f.Field)
		}
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func buildOrder(sorts []persistence.Sort) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		if err := checkIdentifier(s.Field); err != nil {
			return "", err
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Field+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// splitValues колонки в детерминированном порядке
func splitValues(values persistence.Values) ([]string, []any, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no values")
	}
	cols := make([]string, 0, len(values))
	for col := range values {
		if err := checkIdentifier(col); err != nil {
			return nil, nil, err
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}
	return cols, args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
