package domain

import "fmt"

// FormatBRL renders a money value the way the history view displays totals.
func FormatBRL(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
