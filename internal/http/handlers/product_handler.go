package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"artisanhub/internal/domain"
	applog "artisanhub/internal/log"
	"artisanhub/internal/services"
	"artisanhub/internal/sessions"
)

const (
	msgNoProduct   = "Product does not exist!"
	msgOrderPlaced = "Order placed! Payment flow to be implemented."
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// productView is the listing shape shared by templates and the JSON API.
type productView struct {
	Index         int                  `json:"index"`
	Name          string               `json:"name"`
	Price         string               `json:"price"`
	ArtisanEmail  string               `json:"artisan_email"`
	ImageURL      string               `json:"image_url"`
	ModelURL      string               `json:"model_url,omitempty"`
	Story         string               `json:"story"`
	Customization domain.Customization `json:"customization"`
}

func toView(i int, p domain.Product) productView {
	v := productView{
		Index:         i,
		Name:          p.Name,
		Price:         p.Price,
		ArtisanEmail:  p.ArtisanEmail,
		ImageURL:      "/uploads/" + p.Image,
		Story:         p.Story,
		Customization: p.Customization,
	}
	if p.HasModel() {
		v.ModelURL = "/uploads/" + p.Model
	}
	return v
}

func (h *ProductHandler) views(c *fiber.Ctx) ([]productView, error) {
	ps, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return nil, err
	}
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = toView(i, p)
	}
	return out, nil
}

func (h *ProductHandler) ShowUpload(c *fiber.Ctx) error {
	return render(c, "upload_product", fiber.Map{"Form": fiber.Map{}})
}

func (h *ProductHandler) DoUpload(c *fiber.Ctx) error {
	img, closeImg, err := formFile(c, "product_img")
	if err != nil {
		return err
	}
	defer closeImg()
	model, closeModel, err := formFile(c, "product_3dfile")
	if err != nil {
		return err
	}
	defer closeModel()

	in := services.ProductInput{
		Name:  c.FormValue("product_name"),
		Price: c.FormValue("price"),
		Image: img,
		Model: model,
		Customization: domain.Customization{
			Color:    c.FormValue("color_options"),
			Material: c.FormValue("material_options"),
			Design:   c.FormValue("design_options"),
		},
	}
	artisan := sessions.From(c).Artisan()

	p, err := h.Catalog.Create(c.UserContext(), artisan, in)
	if err != nil {
		var fe *services.FieldError
		if errors.As(err, &fe) {
			applog.Info(c, "product.create.invalid", map[string]any{"field": fe.Field})
			c.Status(fiber.StatusBadRequest)
			return render(c, "upload_product", fiber.Map{
				"Err":  fe.Msg,
				"Form": formValues(c, "product_name", "price", "color_options", "material_options", "design_options"),
			})
		}
		applog.Error(c, "product.create.fail", err, nil)
		return err
	}
	applog.Audit(c, "product.create.success", map[string]any{"id": p.ID, "artisan": artisan})
	return c.Redirect("/products")
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	vs, err := h.views(c)
	if err != nil {
		return err
	}
	return render(c, "product_list", fiber.Map{"Products": vs})
}

// lookup resolves the 0-based :index param; ok is false when it doesn't name a product.
func (h *ProductHandler) lookup(c *fiber.Ctx) (int, domain.Product, bool, error) {
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, domain.Product{}, false, nil
	}
	p, err := h.Catalog.At(c.UserContext(), idx)
	if errors.Is(err, services.ErrProductNotFound) {
		return idx, p, false, nil
	}
	if err != nil {
		return idx, p, false, err
	}
	return idx, p, true, nil
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	idx, p, ok, err := h.lookup(c)
	if err != nil {
		return err
	}
	if !ok {
		return h.missing(c)
	}
	return render(c, "product_detail", fiber.Map{"Product": toView(idx, p)})
}

// Order acknowledges the request. No order is stored and no payment is taken.
func (h *ProductHandler) Order(c *fiber.Ctx) error {
	idx, p, ok, err := h.lookup(c)
	if err != nil {
		return err
	}
	if !ok {
		return h.missing(c)
	}
	applog.Audit(c, "order.placeholder", map[string]any{"index": idx, "id": p.ID, "user": sessions.From(c).User()})
	sessions.From(c).AddFlash(msgOrderPlaced)
	return c.Redirect("/products")
}

func (h *ProductHandler) missing(c *fiber.Ctx) error {
	applog.Info(c, "product.detail.missing", map[string]any{"index": c.Params("index")})
	sessions.From(c).AddFlash(msgNoProduct)
	return c.Redirect("/products")
}

func (h *ProductHandler) ExportCSV(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.csv"`)
	if err := h.Catalog.ExportCSV(c.UserContext(), c); err != nil {
		applog.Error(c, "product.export.fail", err, nil)
		return err
	}
	return nil
}

func (h *ProductHandler) ListJSON(c *fiber.Ctx) error {
	vs, err := h.views(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": vs, "count": len(vs)})
}
