package repos

import (
	"artisanhub/internal/config"
	"artisanhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

// Collection names, shared by every document backend.
const (
	ArtisansCollection = "artisans"
	UsersCollection    = "users"
	ProductsCollection = "products"
)

// Stores bundles the three collections. DB is nil for the memory policy.
type Stores struct {
	Artisans Collection[domain.Artisan]
	Users    Collection[domain.User]
	Products Collection[domain.Product]
	DB       *sqlx.DB
}

func artisanKey(a domain.Artisan) string { return a.Email }
func userKey(u domain.User) string       { return u.Email }
func productKey(p domain.Product) string { return p.ID }

func NewMemoryStores() *Stores {
	return &Stores{
		Artisans: NewMemoryCollection(artisanKey),
		Users:    NewMemoryCollection(userKey),
		Products: NewMemoryCollection(productKey),
	}
}

func NewDocumentStores(db *sqlx.DB) *Stores {
	return &Stores{
		Artisans: NewDocumentCollection(db, ArtisansCollection, artisanKey),
		Users:    NewDocumentCollection(db, UsersCollection, userKey),
		Products: NewDocumentCollection(db, ProductsCollection, productKey),
		DB:       db,
	}
}

// Open builds the collections for the configured storage policy.
func Open(cfg config.Config) (*Stores, error) {
	if cfg.Storage != config.StorageDocument {
		return NewMemoryStores(), nil
	}
	db, err := OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	return NewDocumentStores(db), nil
}

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
