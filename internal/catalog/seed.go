package catalog

import (
	"context"
	"fmt"

	"github.com/artisanmarket/storefront/internal/domain"
)

// starterCatalog is the handful of products a fresh install starts with.
var starterCatalog = []domain.Product{
	{
		ID:           "1",
		Title:        "Handmade Ceramic Mug Set",
		Description:  "Beautiful handcrafted ceramic mugs perfect for your morning coffee. Set of 2 mugs with unique glazing.",
		Price:        45.99,
		Image:        "https://images.unsplash.com/photo-1544787219-7f47ccb76574?w=400&h=400&fit=crop",
		Category:     "Home & Living",
		Seller:       "PotteryStudio",
		Rating:       4.8,
		ReviewCount:  127,
		InStock:      true,
		Badge:        "Bestseller",
		FreeShipping: true,
	},
	{
		ID:          "2",
		Title:       "Vintage Leather Journal",
		Description: "Authentic vintage leather journal with aged paper. Perfect for writing, sketching, or as a gift.",
		Price:       32.50,
		Image:       "https://images.unsplash.com/photo-1531346878377-a5be20888e57?w=400&h=400&fit=crop",
		Category:    "Art & Collectibles",
		Seller:      "VintageFinds",
		Rating:      4.9,
		ReviewCount: 89,
		InStock:     true,
		Badge:       "Editor's Pick",
	},
	{
		ID:           "3",
		Title:        "Macrame Wall Hanging",
		Description:  "Handwoven macrame wall hanging that adds bohemian charm to any space. Made with natural cotton cord.",
		Price:        78.00,
		Image:        "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400&h=400&fit=crop",
		Category:     "Home & Living",
		Seller:       "BohoDecor",
		Rating:       4.7,
		ReviewCount:  203,
		InStock:      true,
		Badge:        "FREE shipping",
		FreeShipping: true,
	},
	{
		ID:           "4",
		Title:        "Sterling Silver Ring",
		Description:  "Elegant sterling silver ring with intricate detailing. Handcrafted by skilled artisans.",
		Price:        125.00,
		Image:        "https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=400&h=400&fit=crop",
		Category:     "Jewelry & Accessories",
		Seller:       "SilverCraft",
		Rating:       4.9,
		ReviewCount:  156,
		InStock:      true,
		Badge:        "Star Seller",
		FreeShipping: true,
	},
	{
		ID:          "5",
		Title:       "Handwoven Scarf",
		Description: "Luxurious handwoven scarf made from premium wool. Soft, warm, and stylish for any season.",
		Price:       89.99,
		Image:       "https://images.unsplash.com/photo-1601924994987-69e26d50dc26?w=400&h=400&fit=crop",
		Category:    "Clothing & Shoes",
		Seller:      "TextileArt",
		Rating:      4.6,
		ReviewCount: 74,
		InStock:     true,
	},
	{
		ID:           "6",
		Title:        "Wooden Cutting Board",
		Description:  "Premium hardwood cutting board with beautiful grain patterns. Food-safe finish and durable construction.",
		Price:        55.00,
		Image:        "https://images.unsplash.com/photo-1594736797933-d0401ba2fe65?w=400&h=400&fit=crop",
		Category:     "Home & Living",
		Seller:       "WoodCrafters",
		Rating:       4.8,
		ReviewCount:  92,
		InStock:      true,
		FreeShipping: true,
	},
}

// Seed inserts the starter catalog into an empty product collection.
// A non-empty collection is left untouched.
func Seed(ctx context.Context, repo ProductRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalog size: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range starterCatalog {
		p := starterCatalog[i]
		if err := repo.Insert(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
