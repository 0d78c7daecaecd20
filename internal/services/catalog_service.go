package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"artisanhub/internal/domain"
	"artisanhub/internal/repos"
	"artisanhub/internal/story"
	"artisanhub/internal/validate"
)

type CatalogService struct {
	Products repos.Collection[domain.Product]
	Uploads  *UploadService
	Stories  story.Generator
	Now      func() time.Time
}

func NewCatalogService(products repos.Collection[domain.Product], up *UploadService, gen story.Generator) *CatalogService {
	return &CatalogService{Products: products, Uploads: up, Stories: gen, Now: time.Now}
}

type ProductInput struct {
	Name          string
	Price         string
	Image         *File
	Model         *File // optional
	Customization domain.Customization
}

// Create validates the upload, stores its files, generates the story and
// appends the product. Files are removed again if the record is not created.
func (s *CatalogService) Create(ctx context.Context, artisanEmail string, in ProductInput) (domain.Product, error) {
	var p domain.Product
	var ok bool
	if p.Name, ok = validate.Text(in.Name, 120); !ok {
		return p, fieldErr("product_name", "Product name is required")
	}
	if p.Price, ok = validate.Price(in.Price); !ok {
		return p, fieldErr("price", "Enter a valid price")
	}
	if err := s.Uploads.Check(in.Image, validate.ImageExts, "product_img", "Product image"); err != nil {
		return p, err
	}
	hasModel := in.Model != nil && in.Model.Name != ""
	if hasModel {
		if err := s.Uploads.Check(in.Model, validate.ModelExts, "product_3dfile", "3D model"); err != nil {
			return p, err
		}
	}

	imgKey, err := s.Uploads.Save(ctx, in.Image, false)
	if err != nil {
		return p, err
	}
	var modelKey string
	if hasModel {
		if modelKey, err = s.Uploads.Save(ctx, in.Model, false); err != nil {
			s.Uploads.Discard(ctx, imgKey)
			return p, err
		}
	}

	p.ID = uuid.NewString()
	p.ArtisanEmail = artisanEmail
	p.Image = imgKey
	p.Model = modelKey
	p.Customization = domain.Customization{
		Color:    validate.Optional(in.Customization.Color, 200),
		Material: validate.Optional(in.Customization.Material, 200),
		Design:   validate.Optional(in.Customization.Design, 200),
	}
	p.Story = s.Stories.Generate(ctx, p.Name)
	p.CreatedAt = s.now()

	if err := s.Products.Insert(ctx, p); err != nil {
		s.Uploads.Discard(ctx, imgKey, modelKey)
		return p, err
	}
	return p, nil
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

// At resolves a 0-based display index to the product created index-th.
func (s *CatalogService) At(ctx context.Context, index int) (domain.Product, error) {
	all, err := s.Products.List(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if index < 0 || index >= len(all) {
		return domain.Product{}, ErrProductNotFound
	}
	return all[index], nil
}

type productRow struct {
	Index    int    `csv:"index"`
	Name     string `csv:"name"`
	Price    string `csv:"price"`
	Artisan  string `csv:"artisan_email"`
	Image    string `csv:"image"`
	Model    string `csv:"model"`
	Color    string `csv:"color"`
	Material string `csv:"material"`
	Design   string `csv:"design"`
	Story    string `csv:"story"`
}

// cell keeps spreadsheets from evaluating free text as a formula.
func cell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// ExportCSV writes the listing in display order.
func (s *CatalogService) ExportCSV(ctx context.Context, w io.Writer) error {
	all, err := s.Products.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]*productRow, 0, len(all))
	for i, p := range all {
		rows = append(rows, &productRow{
			Index: i, Name: cell(p.Name), Price: p.Price, Artisan: cell(p.ArtisanEmail),
			Image: p.Image, Model: p.Model,
			Color: cell(p.Customization.Color), Material: cell(p.Customization.Material), Design: cell(p.Customization.Design),
			Story: cell(p.Story),
		})
	}
	return gocsv.Marshal(rows, w)
}
