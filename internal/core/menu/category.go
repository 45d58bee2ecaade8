package menu

import "strings"

// Category 顯示分類
type Category string

const (
	CategorySoup    Category = "soup"
	CategoryMain    Category = "main"
	CategorySide    Category = "side"
	CategoryDessert Category = "dessert"
)

// DisplayCategories 報表中保留的分類，依輸出順序排列
var DisplayCategories = []Category{CategorySoup, CategoryMain, CategorySide}

var categoryLabels = map[Category]string{
	CategorySoup:    "국/찌개",
	CategoryMain:    "메인",
	CategorySide:    "반찬",
	CategoryDessert: "디저트",
}

// Label 分類的韓文顯示名稱
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Retained 是否為報表保留的分類（甜點一律丟棄）
func (c Category) Retained() bool {
	return c == CategorySoup || c == CategoryMain || c == CategorySide
}

// categoryTable 試算表原始分類 → 顯示分類
var categoryTable = map[string]Category{
	"국":    CategorySoup,
	"국물":   CategorySoup,
	"찌개":   CategorySoup,
	"탕":    CategorySoup,
	"국/찌개": CategorySoup,
	"메인":   CategoryMain,
	"메인요리": CategoryMain,
	"일품":   CategoryMain,
	"주찬":   CategoryMain,
	"반찬":   CategorySide,
	"밑반찬":  CategorySide,
	"볶음":   CategorySide,
	"무침":   CategorySide,
	"조림":   CategorySide,
	"나물":   CategorySide,
	"전":    CategorySide,
	"구이":   CategorySide,
	"김치":   CategorySide,
	"디저트":  CategoryDessert,
	"후식":   CategoryDessert,
	"간식":   CategoryDessert,
}

// MapCategory 將原始分類對應到顯示分類，未知分類回傳 false
func MapCategory(raw string) (Category, bool) {
	c, ok := categoryTable[strings.TrimSpace(raw)]
	return c, ok
}
