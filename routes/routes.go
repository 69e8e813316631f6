package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pdfshelf/pdfshelf-backend/auth/middleware"
	"github.com/pdfshelf/pdfshelf-backend/handlers"
)

func Register(r *gin.Engine) {
	r.GET("/robots.txt", handlers.RobotsTxt)
	r.GET("/sitemap.xml", handlers.Sitemap)

	api := r.Group("/api")

	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/refresh", handlers.RefreshToken)

	docs := api.Group("/documents")
	docs.GET("", handlers.ListDocuments)
	docs.GET("/:slug", handlers.GetDocument)
	docs.GET("/:slug/download", middleware.AuthOptional(), handlers.DownloadDocument)
	docs.GET("/:slug/qr", handlers.DocumentQR)
	docs.POST("/:slug/vote", handlers.VoteDocument)
	docs.POST("/:slug/favorite", middleware.AuthRequired(), handlers.ToggleFavorite)

	api.GET("/favorites", middleware.AuthRequired(), handlers.ListFavorites)

	api.GET("/categories", handlers.ListCategories)
	api.GET("/categories/:slug/documents", handlers.ListCategoryDocuments)

	api.POST("/dmca", handlers.SubmitDmca)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())

	admin.POST("/documents", handlers.UploadDocument)
	admin.PUT("/documents/:id", handlers.UpdateDocument)
	admin.GET("/redirects", handlers.ListRedirects)

	admin.POST("/categories", handlers.CreateCategory)
	admin.PUT("/categories/:id", handlers.UpdateCategory)
	admin.DELETE("/categories/:id", handlers.DeleteCategory)

	admin.GET("/dmca", handlers.ListDmcaRequests)
	admin.PUT("/dmca/:id", handlers.UpdateDmcaStatus)

	admin.GET("/settings/seo", handlers.GetSeoSettings)
	admin.PUT("/settings/seo", handlers.UpdateSeoSettings)
	admin.GET("/settings/site", handlers.GetSiteSettings)
	admin.PUT("/settings/site", handlers.UpdateSiteSettings)
}
