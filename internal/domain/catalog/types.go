package catalog

import "time"

// Category is the root of the hierarchy. Subcategories hang off categories,
// groups hang off subcategories; products can point at any of the three
// levels (see Product).
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Subcategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CategoryID  int64     `json:"category_id"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Group struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Icon          *string   `json:"icon,omitempty"`
	Description   *string   `json:"description,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	SubcategoryID int64     `json:"subcategory_id"`
	Featured      bool      `json:"featured"`
	Active        bool      `json:"active"`
	SortOrder     int       `json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Product may be linked to the hierarchy at any of the three levels. The
// linkage level is not uniform across the data: some rows carry category_id
// directly, others only subcategory_id or group_id. ResolveCategoryID walks
// the tree to find the ancestor category; the deletion workflow deliberately
// checks only the direct category_id column (see store.go).
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	PriceCents    int64     `json:"price_cents"`
	OldPriceCents *int64    `json:"old_price_cents,omitempty"`
	Discount      *int      `json:"discount,omitempty"`
	Stock         int       `json:"stock"`
	InStock       bool      `json:"in_stock"`
	Image         *string   `json:"image,omitempty"`
	Images        []string  `json:"images,omitempty"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	SubcategoryID *int64    `json:"subcategory_id,omitempty"`
	GroupID       *int64    `json:"group_id,omitempty"`
	Active        bool      `json:"active"`
	Featured      bool      `json:"featured"`
	Popular       bool      `json:"popular"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
