package enums

import "fmt"

// ProductCategory classifies catalog listings. Accessories is load-bearing:
// orders containing any accessory are not return eligible.
type ProductCategory string

const (
	ProductCategoryTshirts     ProductCategory = "Tshirts"
	ProductCategoryShirts      ProductCategory = "Shirts"
	ProductCategoryJeans       ProductCategory = "Jeans"
	ProductCategoryJackets     ProductCategory = "Jackets"
	ProductCategoryFootwear    ProductCategory = "Footwear"
	ProductCategoryAccessories ProductCategory = "Accessories"
)

var validProductCategories = []ProductCategory{
	ProductCategoryTshirts,
	ProductCategoryShirts,
	ProductCategoryJeans,
	ProductCategoryJackets,
	ProductCategoryFootwear,
	ProductCategoryAccessories,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
