package menu

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// 規則名稱，Evaluate 回傳命中的規則
const (
	RuleSpicy   = "spicy"
	RulePrefix  = "kid_prefix"
	RuleExclude = "exclude_keyword"
	RuleInclude = "include_keyword"
	RuleDefault = "default"
)

// candidate 規則判斷的輸入
type candidate struct {
	raw        string
	normalized string
	spicy      bool
}

// rule 決策清單中的一條規則
type rule struct {
	name   string
	match  func(c candidate) bool
	result bool
}

// kidRules 由上而下判斷，第一條命中的規則決定結果
// 兒童前綴排在關鍵字之前，可以覆蓋排除清單
var kidRules = []rule{
	{
		name:   RuleSpicy,
		match:  func(c candidate) bool { return c.spicy },
		result: false,
	},
	{
		name:   RulePrefix,
		match:  func(c candidate) bool { return strings.HasPrefix(strings.TrimLeftFunc(c.raw, unicode.IsSpace), kidPrefix) },
		result: true,
	},
	{
		name:   RuleExclude,
		match:  func(c candidate) bool { return containsAny(c.normalized, exclusionKeywords) },
		result: false,
	},
	{
		name:   RuleInclude,
		match:  func(c candidate) bool { return containsAny(c.normalized, inclusionKeywords) },
		result: true,
	},
}

// Normalize 移除所有空白並轉小寫，用於關鍵字比對
func Normalize(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.ToLower(stripped)
}

// containsAny 子字串比對，不考慮詞邊界
func containsAny(s string, keywords []string) bool {
	return lo.ContainsBy(keywords, func(k string) bool {
		return strings.Contains(s, k)
	})
}

// Evaluate 判斷菜色是否適合兒童，並回傳命中的規則名稱
func Evaluate(name string, spicy bool) (bool, string) {
	c := candidate{
		raw:        name,
		normalized: Normalize(name),
		spicy:      spicy,
	}
	for _, r := range kidRules {
		if r.match(c) {
			return r.result, r.name
		}
	}
	return false, RuleDefault
}

// IsKidFriendly 判斷菜色是否適合兒童
func IsKidFriendly(name string, spicy bool) bool {
	ok, _ := Evaluate(name, spicy)
	return ok
}
