package menu

import (
	"strings"

	"github.com/spf13/cast"
)

// 表格欄位位置（0 起算）
const (
	ColCategory = 1
	ColName     = 2
	ColCode     = 4
	ColUnused   = 9
	ColSpicy    = 10
)

// MenuRecord 菜單資料表中的一列
type MenuRecord struct {
	RawCategory string `json:"category"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Unused      bool   `json:"unused"`
	Spicy       bool   `json:"spicy"`
}

// FromRow 依欄位位置將一列轉成 MenuRecord，缺少的欄位視為空值
func FromRow(row []string) MenuRecord {
	return MenuRecord{
		RawCategory: cell(row, ColCategory),
		Name:        cell(row, ColName),
		Code:        strings.TrimSpace(cell(row, ColCode)),
		Unused:      parseFlag(cell(row, ColUnused)),
		Spicy:       parseFlag(cell(row, ColSpicy)),
	}
}

// FromRows 批次轉換
func FromRows(rows [][]string) []MenuRecord {
	records := make([]MenuRecord, len(rows))
	for i, row := range rows {
		records[i] = FromRow(row)
	}
	return records
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseFlag 試算表核取方塊匯出為 TRUE/FALSE，無法解析的值視為 false
func parseFlag(v string) bool {
	return cast.ToBool(strings.TrimSpace(v))
}
