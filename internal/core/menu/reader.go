package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	fieldDelimiter = ','
	quoteChar      = '"'
	maxLineBytes   = 1 << 20
)

// ReadRows 逐行讀取逗號分隔表格，列長度可以不一致
// 每個引號切換引號狀態，引號內的逗號視為欄位內容；
// 引號內連續兩個引號代表一個字面引號。引號狀態不跨行
func ReadRows(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows [][]string
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		rows = append(rows, SplitRow(text))
	}
	if err := scanner.Err(); err != nil {
		return rows, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}
	return rows, nil
}

// SplitRow 以逗號切分一行，只有在引號外的逗號才是分隔符
func SplitRow(line string) []string {
	var (
		fields  []string
		field   strings.Builder
		inQuote bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == quoteChar && inQuote && i+1 < len(runes) && runes[i+1] == quoteChar:
			field.WriteRune(quoteChar)
			i++
		case ch == quoteChar:
			inQuote = !inQuote
		case ch == fieldDelimiter && !inQuote:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
	return append(fields, field.String())
}

// ReadRecords 讀取表格並轉為 MenuRecord
// 標題列的分類欄無法對應，分類時會被自然略過
func ReadRecords(r io.Reader) ([]MenuRecord, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return FromRows(rows), nil
}
