package handlers

import (
	"artisanhub/internal/blob"
	"artisanhub/internal/repos"
	"artisanhub/internal/services"
	"artisanhub/internal/sessions"
	"artisanhub/internal/story"
)

type Deps struct {
	Sessions       *sessions.Manager
	HomeHandler    *HomeHandler
	AuthHandler    *AuthHandler
	ArtisanHandler *ArtisanHandler
	ProductHandler *ProductHandler
	UploadsHandler *UploadsHandler
}

func NewDeps(st *repos.Stores, blobs blob.Store, gen story.Generator, sess *sessions.Manager) *Deps {
	up := services.NewUploadService(blobs)
	authSvc := services.NewAuthService(st, up)
	catalogSvc := services.NewCatalogService(st.Products, up, gen)

	return &Deps{
		Sessions:       sess,
		HomeHandler:    &HomeHandler{},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ArtisanHandler: &ArtisanHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		UploadsHandler: &UploadsHandler{Blobs: blobs},
	}
}
