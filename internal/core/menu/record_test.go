package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(category, name, code string, unused, spicy string) []string {
	r := make([]string, 11)
	r[ColCategory] = category
	r[ColName] = name
	r[ColCode] = code
	r[ColUnused] = unused
	r[ColSpicy] = spicy
	return r
}

func TestFromRow(t *testing.T) {
	rec := FromRow(row("메인", "아이들 고추장제육", " X1 ", "FALSE", "TRUE"))
	assert.Equal(t, MenuRecord{
		RawCategory: "메인",
		Name:        "아이들 고추장제육",
		Code:        "X1",
		Unused:      false,
		Spicy:       true,
	}, rec)
}

func TestFromRowShortRow(t *testing.T) {
	rec := FromRow([]string{"1", "국", "미역국"})
	assert.Equal(t, "국", rec.RawCategory)
	assert.Equal(t, "미역국", rec.Name)
	assert.Empty(t, rec.Code)
	assert.False(t, rec.Unused)
	assert.False(t, rec.Spicy)
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"TRUE", "true", " True ", "1"} {
		assert.True(t, parseFlag(v), v)
	}
	for _, v := range []string{"FALSE", "", "예", "x"} {
		assert.False(t, parseFlag(v), v)
	}
}

func TestReadRecordsQuotedFields(t *testing.T) {
	input := strings.Join([]string{
		"번호,분류,메뉴명,가격,코드,a,b,c,d,미사용,매운맛",
		`1,메인,"돈까스, 소스 포함",5000,M1,,,,,FALSE,FALSE`,
		`2,국,"""특"" 미역국",3000,S1,,,,,FALSE,FALSE`,
		`3,반찬,계란말이`,
	}, "\n")

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "돈까스, 소스 포함", records[1].Name)
	assert.Equal(t, "M1", records[1].Code)
	assert.Equal(t, `"특" 미역국`, records[2].Name)
	assert.Equal(t, "계란말이", records[3].Name)
	assert.Empty(t, records[3].Code)
}

func TestReadRowsQuoteToggle(t *testing.T) {
	input := strings.Join([]string{
		`1,메인,"돈까스, 소스"추가,x,C1,,,,,FALSE,FALSE`,
		`2,메인,돈"까스,x",C2,,,,,FALSE,FALSE`,
		`3,반찬,"계란말이`,
		`4,국,미역국,,S1`,
	}, "\r\n")

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 4, "each line stays its own row")

	// 引號後接文字仍屬同一欄
	assert.Equal(t, "돈까스, 소스추가", rows[0][2])
	assert.Equal(t, "C1", rows[0][4])

	// 欄位中間的引號開啟引號狀態，逗號成為內容
	assert.Equal(t, "돈까스,x", rows[1][2])
	assert.Equal(t, "C2", rows[1][3])

	// 行尾未關閉的引號不吞掉下一行
	assert.Equal(t, []string{"3", "반찬", "계란말이"}, rows[2])
	assert.Equal(t, "S1", rows[3][4])
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"quoted delimiter", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"doubled quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"empty quoted", `"",x`, []string{"", "x"}},
		{"trailing quote", `a,b"`, []string{"a", "b"}},
		{"reopened quote", `"a,"b,"c",d`, []string{"a,b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRow(tt.line))
		})
	}
}

func TestReadRowsSkipsBlankLinesAndBOM(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeff번호,분류\n\n  \n1,국\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"번호", "분류"}, {"1", "국"}}, rows)
}

func TestReadRowsEmptyInput(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
