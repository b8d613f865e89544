package habit

import "fmt"

// Kind groups categories by how they are logged.
type Kind string

const (
	KindActivity    Kind = "activity"
	KindConsumption Kind = "consumption"
	KindLanguage    Kind = "language"
)

// Category is one of the fixed things the bot tracks.
type Category string

const (
	Prayer     Category = "prayer"
	QiGong     Category = "qigong"
	Ball       Category = "ball"
	RunStretch Category = "run_stretch"
	Strength   Category = "strength"

	Coffee Category = "coffee"
	Sugary Category = "sugary"
	Flour  Category = "flour"

	Chinese Category = "chinese"
	Hebrew  Category = "hebrew"
	Tatar   Category = "tatar"
)

type categoryInfo struct {
	kind  Kind
	token string
	name  string
	icon  string
}

var categories = map[Category]categoryInfo{
	Prayer:     {KindActivity, "1", "Prayer with first water", "🙏"},
	QiGong:     {KindActivity, "2", "Qi Gong routine", "🌀"},
	Ball:       {KindActivity, "3", "Ball freestyling", "⚽"},
	RunStretch: {KindActivity, "4", "Run and stretch (20 min)", "🏃"},
	Strength:   {KindActivity, "5", "Strength and stretch", "💪"},
	Coffee:     {KindConsumption, "x", "Coffee", "☕"},
	Sugary:     {KindConsumption, "y", "Sugary drinks", "🥤"},
	Flour:      {KindConsumption, "z", "Flour products", "🥐"},
	Chinese:    {KindLanguage, "ch", "Chinese", "🀄"},
	Hebrew:     {KindLanguage, "he", "Hebrew", "✡️"},
	Tatar:      {KindLanguage, "ta", "Tatar", "🌙"},
}

var ordered = []Category{
	Prayer, QiGong, Ball, RunStretch, Strength,
	Coffee, Sugary, Flour,
	Chinese, Hebrew, Tatar,
}

// Categories returns every known category: routines, then consumption, then languages.
func Categories() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

// CategoriesOfKind returns the known categories of one kind, in display order.
func CategoriesOfKind(k Kind) []Category {
	var out []Category
	for _, c := range ordered {
		if categories[c].kind == k {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory maps a stored category id back to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ByToken finds the category a command token stands for ("1", "x", "ch", ...).
func ByToken(token string) (Category, bool) {
	for _, c := range ordered {
		if categories[c].token == token {
			return c, true
		}
	}
	return "", false
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

func (c Category) Kind() Kind    { return categories[c].kind }
func (c Category) Token() string { return categories[c].token }
func (c Category) Name() string  { return categories[c].name }
func (c Category) Icon() string  { return categories[c].icon }

func (c Category) String() string { return string(c) }
