// Package catalog is the hardcoded product catalog. Prices are display
// strings straight from merchandising; AsCartProduct parses them into minor
// units once, at the cart boundary.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Waggeh13/Perfume/cart"
	"github.com/Waggeh13/Perfume/money"
)

// ErrProductNotFound is returned for an unknown product id.
var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string
	Image       string
	Size        string
}

// AsCartProduct converts the entry for cart use, parsing the display price.
func (p Product) AsCartProduct() (cart.Product, error) {
	unitPrice, err := money.ParseDisplay(p.Price)
	if err != nil {
		return cart.Product{}, fmt.Errorf("product %d: %w", p.ID, err)
	}
	return cart.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: unitPrice,
		Image: p.Image,
		Size:  p.Size,
	}, nil
}

var products = []Product{
	{ID: 1, Name: "Velour Mist", Description: "Soft and captivating - a blend of white florals and warm musk that lingers like silk on the skin.", Price: "$72.00", Image: "/perfume-removebg-preview (1).png", Size: "100ml"},
	{ID: 2, Name: "Eclat d'Aube", Description: "(Glow of Dawn) - a radiant mix of citrus and amber, inspired by the quiet elegance of early morning light.", Price: "$83.00", Image: "/perfume10-removebg-preview.png", Size: "100ml"},
	{ID: 3, Name: "Whispered Iris", Description: "Delicate yet confident - notes of iris and vanilla wrapped in subtle wood, a scent that speaks in whispers.", Price: "$90.00", Image: "/perfume4-removebg-preview.png", Size: "100ml"},
	{ID: 4, Name: "Noir Amara", Description: "Darkly elegant - amber, patchouli, and rose intertwined in a sensual harmony of mystery and grace.", Price: "$65.00", Image: "/perfume9-removebg-preview.png", Size: "100ml"},
	{ID: 5, Name: "Midnight Bloom", Description: "A mysterious blend of dark florals and rich vanilla that captivates the senses.", Price: "$88.00", Image: "/perfume2-removebg-preview.png", Size: "100ml"},
	{ID: 6, Name: "Sunset Serenade", Description: "Warm and inviting - notes of amber, sandalwood, and a hint of citrus create an unforgettable evening scent.", Price: "$75.00", Image: "/perfume3-removebg-preview.png", Size: "100ml"},
	{ID: 7, Name: "Arcadia Musk", Description: "A sophisticated blend of musk and soft florals that creates an aura of timeless elegance.", Price: "$95.00", Image: "/Arcadia20620Musk-removebg-preview.png", Size: "100ml"},
	{ID: 101, Name: "Body Lotion", Description: "Nourishing body lotion infused with natural ingredients for silky smooth skin.", Price: "$45.00", Image: "/body_product-removebg-preview.png", Size: "250ml"},
	{ID: 102, Name: "Body Wash", Description: "Gentle cleansing body wash with aromatic fragrances for a luxurious shower experience.", Price: "$38.00", Image: "/body_product1-removebg-preview.png", Size: "300ml"},
	{ID: 103, Name: "Body Oil", Description: "Hydrating body oil that leaves your skin glowing and beautifully scented.", Price: "$52.00", Image: "/body_product2-removebg-preview.png", Size: "100ml"},
}

// All returns every catalog entry.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID looks up a single product.
func ByID(id int64) (Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// Search returns products whose name or description contains the query,
// case-insensitively. A blank query matches nothing.
func Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}
