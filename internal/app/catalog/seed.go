package catalog

import "github.com/mixit-delights/storefront/internal/domain"

// DefaultMenu is the launch catalog, inserted once when the store comes up
// with an empty menu table.
func DefaultMenu() []*domain.MenuItem {
	return []*domain.MenuItem{
		{
			Name:        "Cyber Berry",
			Category:    domain.CategorySmoothie,
			Price:       2500,
			Description: "Antioxidant power blend.",
			Color:       "from-fuchsia-600 to-purple-600",
			Image:       "https://images.unsplash.com/photo-1623595619137-b44f248bb829?auto=format&fit=crop&w=800&q=80",
			InStock:     true,
			BaseIngredients: []domain.Ingredient{
				{Name: "Almond Milk", Emoji: "🥛"},
				{Name: "Blueberries", Emoji: "🫐"},
			},
			AddOns: []domain.AddOn{
				{Name: "Protein", Price: 1000, Color: "#e5e7eb", Emoji: "💪"},
			},
		},
		{
			Name:        "Titan Stack",
			Category:    domain.CategoryBurger,
			Price:       3500,
			Description: "Heavyweight champion.",
			Color:       "from-orange-500 to-red-600",
			Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=800&q=80",
			InStock:     true,
			BaseIngredients: []domain.Ingredient{
				{Name: "Angus Patty", Emoji: "🥩"},
				{Name: "Lettuce", Emoji: "🥬"},
			},
			AddOns: []domain.AddOn{
				{Name: "Extra Beef", Price: 1000, Color: "#7f1d1d", Emoji: "🥩"},
				{Name: "Cheese", Price: 500, Color: "#fbbf24", Emoji: "🧀"},
			},
		},
		{
			Name:        "JoJo Pasta",
			Category:    domain.CategorySpaghetti,
			Price:       3000,
			Description: "Italian classic with a spicy kick.",
			Color:       "from-red-600 to-rose-700",
			Image:       "https://images.unsplash.com/photo-1626844131082-256783844137?auto=format&fit=crop&w=800&q=80",
			InStock:     true,
			BaseIngredients: []domain.Ingredient{
				{Name: "Spaghetti", Emoji: "🍝"},
				{Name: "Tomato Sauce", Emoji: "🍅"},
			},
			AddOns: []domain.AddOn{
				{Name: "Meatballs", Price: 1200, Color: "#7f1d1d", Emoji: "🧆"},
			},
		},
	}
}
