package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/config"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/session"
)

type ProductController struct {
	Products *clients.ProductClient
	Sessions *session.Manager
	Cfg      *config.Config
}

func NewProductController(products *clients.ProductClient, sessions *session.Manager, cfg *config.Config) *ProductController {
	return &ProductController{Products: products, Sessions: sessions, Cfg: cfg}
}

func (c *ProductController) GetProducts(ctx *gin.Context) {
	products, err := c.Products.List(ctx.Request.Context())
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Products fetched", products)
}

func (c *ProductController) GetProduct(ctx *gin.Context) {
	productID := ctx.Param("id")
	product, err := c.Products.Get(ctx.Request.Context(), productID)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product fetched", product)
}

func (c *ProductController) SearchProducts(ctx *gin.Context) {
	filters := models.SearchFilters{
		Category: ctx.Query("category"),
		Brand:    ctx.Query("brand"),
		MinPrice: ctx.Query("minPrice"),
		MaxPrice: ctx.Query("maxPrice"),
	}
	products, err := c.Products.Search(ctx.Request.Context(), ctx.Query("q"), filters)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Search results", products)
}

func (c *ProductController) CreateProduct(ctx *gin.Context) {
	var form models.ProductFormData
	if err := ctx.ShouldBindJSON(&form); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	product, err := c.Products.Create(clients.WithToken(ctx.Request.Context(), s.Token), form)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Product created", product)
}

func (c *ProductController) UpdateProduct(ctx *gin.Context) {
	var form models.ProductFormData
	if err := ctx.ShouldBindJSON(&form); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	product, err := c.Products.Update(clients.WithToken(ctx.Request.Context(), s.Token), ctx.Param("id"), form)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product updated", product)
}

func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	if err := c.Products.Delete(clients.WithToken(ctx.Request.Context(), s.Token), ctx.Param("id")); err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product deleted", nil)
}

func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductImages pushes product photos to S3 and returns the public
// URLs for the merchant to attach to a listing.
func (c *ProductController) UploadProductImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No files uploaded")
		return
	}

	productID := ctx.Param("id")
	if productID == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing product ID")
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		log.Println("AWS config error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to configure image storage")
		return
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key to prevent overwrites across merchants and retries.
		uniqueFilename := fmt.Sprintf("%s-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(ctx.Request.Context(), &s3.PutObjectInput{
			Bucket:      awssdk.String(c.Cfg.ImageBucket),
			Key:         awssdk.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: awssdk.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)
	}

	if len(uploadedUrls) > 0 {
		s := middlewares.SessionFrom(ctx)
		attachCtx := clients.WithToken(ctx.Request.Context(), s.Token)
		if err := c.Products.AttachImages(attachCtx, productID, uploadedUrls); err != nil {
			// The files are already in the bucket; the URLs still go back to
			// the caller.
			log.Printf("Failed to register images with product %s: %v", productID, err)
		}
	}

	data := gin.H{"urls": uploadedUrls}
	if len(failedUploads) > 0 {
		data["failed"] = failedUploads
	}
	sendJSONResponse(ctx, http.StatusOK, "Files processed", data)
}
