package domain

import "time"

// Artisan is a seller account. Email is the unique key and the session identity.
type Artisan struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Skills     string    `json:"skills"`
	ProfilePic string    `json:"profile_pic"`
	BankInfo   string    `json:"bank_info,omitempty"` // opaque, no consumer yet
	CreatedAt  time.Time `json:"created_at"`
}

type Customization struct {
	Color    string `json:"color,omitempty" csv:"color"`
	Material string `json:"material,omitempty" csv:"material"`
	Design   string `json:"design,omitempty" csv:"design"`
}

type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Price         string        `json:"price"` // canonical decimal, two places
	ArtisanEmail  string        `json:"artisan_email"`
	Image         string        `json:"product_img"`
	Model         string        `json:"product_3dfile,omitempty"`
	Story         string        `json:"story"`
	Customization Customization `json:"customization"`
	CreatedAt     time.Time     `json:"created_at"`
}

// HasModel reports whether a 3D asset was uploaded with the product.
func (p Product) HasModel() bool { return p.Model != "" }
