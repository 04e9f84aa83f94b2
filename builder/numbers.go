package builder

import (
	"regexp"
	"strings"
)

var (
	fragTrailingComma = regexp.MustCompile(`[,，]$`)
	fragShortGroup    = regexp.MustCompile(`^[\(（]?\d{1,3}[,，]?\)?$`)
	fragTwoGroups     = regexp.MustCompile(`^[\(（]?\d{1,3}[,，]\d{1,2}\)?$`)
	bareShortNumber   = regexp.MustCompile(`^\d{1,3}$`)
	nonDigit          = regexp.MustCompile(`[^0-9]`)
)

// mergeSplitNumbers repairs numbers that the cell grid split across adjacent
// columns, like "95,88" and "8" becoming "95,888". A parenthesis on either
// piece marks the whole number negative. The first column holds labels and is
// never touched. Up to three passes catch numbers split across three cells.
func (b *Builder) mergeSplitNumbers(columns []string, grid [][]string) [][]string {
	if len(columns) <= 2 || len(grid) == 0 {
		return grid
	}

	for pass := 0; pass < 3; pass++ {
		changed := false
		for col := 1; col < len(columns)-1; col++ {
			for _, row := range grid {
				if col+1 >= len(row) {
					continue
				}
				a := strings.TrimSpace(row[col])
				next := strings.TrimSpace(row[col+1])
				if a == "" && next == "" {
					continue
				}
				if !mergeable(a, next) {
					continue
				}

				negA, digitsA := cleanNumber(a)
				negB, digitsB := cleanNumber(next)
				joined := digitsA + digitsB
				if joined == "" {
					continue
				}

				row[col] = formatNumber(negA || negB, joined)
				row[col+1] = ""
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return grid
}

// isNumberFragment reports whether a cell looks like a broken-off piece of a
// thousands-separated number.
func isNumberFragment(s string) bool {
	if s == "" {
		return false
	}
	return fragShortGroup.MatchString(s) ||
		fragTwoGroups.MatchString(s) ||
		fragTrailingComma.MatchString(s)
}

// mergeable reports whether two adjacent cells should merge into one number.
func mergeable(a, b string) bool {
	switch {
	case isNumberFragment(a) && bareShortNumber.MatchString(b):
		return true
	case bareShortNumber.MatchString(a) && isNumberFragment(b):
		return true
	case isNumberFragment(a) && isNumberFragment(b):
		return true
	}
	return false
}

// cleanNumber strips everything but digits and reports whether the cell was
// parenthesized (negative).
func cleanNumber(s string) (neg bool, digits string) {
	neg = strings.Contains(s, "(") || strings.Contains(s, "（")
	return neg, nonDigit.ReplaceAllString(s, "")
}

// formatNumber regroups digits with thousands separators, wrapping negatives
// in parentheses.
func formatNumber(neg bool, digits string) string {
	if digits == "" {
		return ""
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		return "(" + out + ")"
	}
	return out
}
