package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "번호,분류,메뉴명,,코드,,,,,미사용,매운맛\n" +
	"1,메인,돈까스,,A1,,,,,FALSE,FALSE\n" +
	"2,국,육개장,,A2,,,,,FALSE,FALSE\n" +
	"3,반찬,청양고추무침,,A3,,,,,FALSE,TRUE\n" +
	"4,메인,돈까스 정식,,A1,,,,,FALSE,FALSE\n"

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKidcheckFile(t *testing.T) {
	path := writeCSV(t, "menu.csv", sampleCSV)

	out, err := run(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "=== 아이 메뉴 (1) ===")
	assert.Contains(t, out, "  - 돈까스\n")
	assert.NotContains(t, out, "돈까스 정식")
	assert.NotContains(t, out, "청양고추무침")
	assert.Contains(t, out, "총 3개: 아이 메뉴 1개 / 미분류 1개 / 매운 메뉴 제외 1개")
	assert.NotContains(t, out, "# ")
}

func TestKidcheckStdinJSON(t *testing.T) {
	out, err := run(t, sampleCSV, "--json", "-")
	require.NoError(t, err)

	var report struct {
		File    string `json:"file"`
		Summary struct {
			Total       int `json:"total"`
			KidFriendly int `json:"kid_friendly"`
			Pending     int `json:"pending"`
			Spicy       int `json:"spicy"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "-", report.File)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Spicy)
}

func TestKidcheckMultipleFiles(t *testing.T) {
	first := writeCSV(t, "a.csv", sampleCSV)
	second := writeCSV(t, "b.csv", "1,디저트,푸딩,,D1\n2,국,미역국,,S1\n")

	out, err := run(t, "", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+first)
	assert.Contains(t, out, "# "+second)
	assert.Less(t, strings.Index(out, "# "+first), strings.Index(out, "# "+second))
	assert.Contains(t, out, "  - 미역국\n")
	assert.NotContains(t, out, "푸딩")
}

func TestKidcheckMissingFile(t *testing.T) {
	_, err := run(t, "", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestKidcheckSheetRejectsFiles(t *testing.T) {
	_, err := run(t, "", "--sheet", "menu.csv")
	assert.Error(t, err)
}
