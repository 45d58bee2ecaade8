package menu

import (
	"fmt"
	"io"
	"strings"
)

// Report 產生純文字報表
func (r *Result) Report() string {
	var sb strings.Builder
	_ = r.WriteReport(&sb)
	return sb.String()
}

// WriteReport 將報表寫入 w
func (r *Result) WriteReport(w io.Writer) error {
	var sb strings.Builder

	writeSection(&sb, "아이 메뉴", r.KidFriendly, r.KidFriendlyCount())
	sb.WriteString("\n")
	writeSection(&sb, "미분류 메뉴", r.NotKidFriendly, r.PendingCount())
	sb.WriteString("\n")
	sb.WriteString(r.SummaryLine())
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// SummaryLine 報表最後一行的統計
func (r *Result) SummaryLine() string {
	s := r.Summary()
	return fmt.Sprintf("총 %d개: 아이 메뉴 %d개 / 미분류 %d개 / 매운 메뉴 제외 %d개",
		s.Total, s.KidFriendly, s.Pending, s.Spicy)
}

func writeSection(sb *strings.Builder, title string, items map[Category][]string, total int) {
	fmt.Fprintf(sb, "=== %s (%d) ===\n", title, total)
	for _, c := range DisplayCategories {
		names := items[c]
		fmt.Fprintf(sb, "[%s] %d개\n", c.Label(), len(names))
		for _, name := range names {
			fmt.Fprintf(sb, "  - %s\n", name)
		}
	}
}
