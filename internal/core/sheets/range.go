package sheets

import (
	"fmt"
	"strings"
)

// HeaderRows 資料列之前的標題列數
const HeaderRows = 1

// ColumnLetter 0 起算的欄位索引轉成 A1 欄名（0 → A、26 → AA）
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var sb []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		sb = append([]byte{byte('A' + (n-1)%26)}, sb...)
	}
	return string(sb)
}

// quoteSheet 含空白或特殊字元的工作表名稱需要以單引號包起來
func quoteSheet(sheet string) string {
	if strings.ContainsAny(sheet, " '!:") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet
}

// SheetRange 整張工作表（含標題列）的前 columns 欄
func SheetRange(sheet string, columns int) string {
	return fmt.Sprintf("%s!A:%s", quoteSheet(sheet), ColumnLetter(columns-1))
}

// DataRowNumber 0 起算的資料列索引對應到試算表的列號（1 起算，跳過標題列）
func DataRowNumber(row int) int {
	return row + HeaderRows + 1
}

// RowRange 單一資料列
func RowRange(sheet string, row, columns int) string {
	n := DataRowNumber(row)
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheet(sheet), n, ColumnLetter(columns-1), n)
}

// ColumnRange 單一欄位從 fromRow 到 toRow（皆為試算表列號，1 起算）
func ColumnRange(sheet string, column, fromRow, toRow int) string {
	col := ColumnLetter(column)
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(sheet), col, fromRow, col, toRow)
}

// AppendRange 新增資料列時使用的範圍
func AppendRange(sheet string, columns int) string {
	return fmt.Sprintf("%s!A1:%s", quoteSheet(sheet), ColumnLetter(columns-1))
}
