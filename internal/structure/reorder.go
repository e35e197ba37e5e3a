package structure

import "strings"

// RoleKeywords drives the identity-first column reorder. The sets are
// matched as case-insensitive substrings of the header text.
type RoleKeywords struct {
	ID        []string
	FirstName []string
	LastName  []string
}

// DefaultRoleKeywords covers the Hebrew and English header variants seen
// in practice.
func DefaultRoleKeywords() RoleKeywords {
	return RoleKeywords{
		ID:        []string{"תז", "ת.ז", "id"},
		FirstName: []string{"שם פרטי", "first"},
		LastName:  []string{"שם משפחה", "last", "surname"},
	}
}

// Reorder moves identity columns to the front in the order ID, First Name,
// Last Name, keeping all remaining columns in their original relative
// order. The first header matching a role claims it. Rows shorter than the
// header row read as empty in the missing positions. Applying Reorder to
// its own output is a no-op.
func Reorder(headers []string, rows [][]string) ([]string, [][]string) {
	return ReorderWith(DefaultRoleKeywords(), headers, rows)
}

// ReorderWith is Reorder with caller-supplied role keywords.
func ReorderWith(kw RoleKeywords, headers []string, rows [][]string) ([]string, [][]string) {
	idCol, firstCol, lastCol := -1, -1, -1
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case idCol == -1 && matchAny(lower, kw.ID):
			idCol = i
		case firstCol == -1 && matchAny(lower, kw.FirstName):
			firstCol = i
		case lastCol == -1 && matchAny(lower, kw.LastName):
			lastCol = i
		}
	}

	claimed := map[int]bool{}
	var order []int
	for _, col := range []int{idCol, firstCol, lastCol} {
		if col != -1 {
			order = append(order, col)
			claimed[col] = true
		}
	}
	for i := range headers {
		if !claimed[i] {
			order = append(order, i)
		}
	}

	newHeaders := make([]string, len(order))
	for i, col := range order {
		newHeaders[i] = headers[col]
	}
	newRows := make([][]string, len(rows))
	for r, row := range rows {
		out := make([]string, len(order))
		for i, col := range order {
			if col < len(row) {
				out[i] = row[col]
			}
		}
		newRows[r] = out
	}
	return newHeaders, newRows
}

func matchAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
