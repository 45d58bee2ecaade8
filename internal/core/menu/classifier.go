package menu

import "strings"

// Verdict 單一菜色的分類結果
type Verdict string

const (
	VerdictKidFriendly Verdict = "kid_friendly"
	VerdictPending     Verdict = "pending"
	VerdictSpicy       Verdict = "spicy"
)

// Decision 被計入結果的列
// Index 為輸入中的位置，用於回寫試算表
type Decision struct {
	Index    int      `json:"index"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Verdict  Verdict  `json:"verdict"`
	Rule     string   `json:"rule"`
}

// Result 一次批次分類的結果
type Result struct {
	KidFriendly    map[Category][]string `json:"kid_friendly"`
	NotKidFriendly map[Category][]string `json:"not_kid_friendly"`
	Decisions      []Decision            `json:"decisions"`
}

// Summary 結果統計
type Summary struct {
	Total       int `json:"total"`
	KidFriendly int `json:"kid_friendly"`
	Pending     int `json:"pending"`
	Spicy       int `json:"spicy"`
}

func newResult() *Result {
	return &Result{
		KidFriendly:    make(map[Category][]string, len(DisplayCategories)),
		NotKidFriendly: make(map[Category][]string, len(DisplayCategories)),
	}
}

// Classify 依輸入順序分類整批菜色
// 不合格的列直接略過，不會回傳錯誤
func Classify(records []MenuRecord) *Result {
	result := newResult()
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		code := strings.TrimSpace(rec.Code)

		category, ok := MapCategory(rec.RawCategory)
		if !ok || name == "" || code == "" || rec.Unused {
			continue
		}

		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		if !category.Retained() {
			continue
		}

		kid, ruleName := Evaluate(rec.Name, rec.Spicy)
		decision := Decision{
			Index:    i,
			Code:     code,
			Name:     name,
			Category: category,
			Rule:     ruleName,
		}

		switch {
		case kid:
			decision.Verdict = VerdictKidFriendly
			result.KidFriendly[category] = append(result.KidFriendly[category], name)
		case !rec.Spicy:
			decision.Verdict = VerdictPending
			result.NotKidFriendly[category] = append(result.NotKidFriendly[category], name)
		default:
			decision.Verdict = VerdictSpicy
		}
		result.Decisions = append(result.Decisions, decision)
	}

	return result
}

// Total 去重且未被排除的列數
func (r *Result) Total() int {
	return len(r.Decisions)
}

// KidFriendlyCount 兒童菜總數
func (r *Result) KidFriendlyCount() int {
	return countAll(r.KidFriendly)
}

// PendingCount 尚未標記（非辣、非兒童）總數
func (r *Result) PendingCount() int {
	return countAll(r.NotKidFriendly)
}

// SpicyCount 因辣味排除的殘餘數量
func (r *Result) SpicyCount() int {
	return r.Total() - r.KidFriendlyCount() - r.PendingCount()
}

// Summary 回傳統計
func (r *Result) Summary() Summary {
	return Summary{
		Total:       r.Total(),
		KidFriendly: r.KidFriendlyCount(),
		Pending:     r.PendingCount(),
		Spicy:       r.SpicyCount(),
	}
}

// VerdictAt 依輸入位置查詢分類結果
func (r *Result) VerdictAt(index int) (Verdict, bool) {
	for _, d := range r.Decisions {
		if d.Index == index {
			return d.Verdict, true
		}
	}
	return "", false
}

func countAll(m map[Category][]string) int {
	n := 0
	for _, names := range m {
		n += len(names)
	}
	return n
}
