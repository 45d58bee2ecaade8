package menu

// kidPrefix 名稱以此開頭的菜色一律視為兒童菜，不經過關鍵字判斷
const kidPrefix = "아이들"

// exclusionKeywords 辣味、刺激性或偏成人口味的菜色與食材
var exclusionKeywords = []string{
	"고추장", "고춧가루", "고추", "청양", "매운", "매콤", "얼큰", "칼칼", "불닭",
	"김치", "깍두기", "겉절이", "제육", "닭볶음탕", "육개장", "짬뽕", "낙지", "쭈꾸미", "골뱅이", "닭발",
	"마늘쫑", "고들빼기", "두릅", "취나물", "곰취", "달래", "냉이", "쑥갓", "미나리", "명이", "씀바귀",
	"젓갈", "겨자", "와사비", "홍어",
}

// inclusionKeywords 兒童偏好的菜色類型與食材
var inclusionKeywords = []string{
	"볶음밥", "오므라이스", "돈까스", "돈가스", "카레", "짜장", "함박", "미트볼", "너겟", "동그랑땡",
	"계란", "달걀", "에그", "스크램블", "두부", "어묵", "소시지", "비엔나", "햄",
	"감자", "고구마", "옥수수", "불고기", "장조림", "멸치볶음", "잡채", "만두", "떡국",
	"미역국", "콩나물국", "북엇국", "갈비탕", "곰탕", "맑은", "크림",
}
