package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/cart"
	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/config"
	"github.com/markethub/storefront-gateway/consumers"
	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/events"
	"github.com/markethub/storefront-gateway/initializers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/routes"
	"github.com/markethub/storefront-gateway/session"
	"github.com/markethub/storefront-gateway/store"
)

func main() {
	initializers.LoadEnv()
	cfg := config.LoadConfig()

	db, err := initializers.ConnectToDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	initializers.SyncDatabase(db)

	rdb, err := initializers.ConnectToRedis(cfg)
	if err != nil {
		log.Fatal(err)
	}

	authClient := clients.NewAuthClient(cfg.AuthServiceURL, cfg.BackendTimeout)
	productClient := clients.NewProductClient(cfg.ProductServiceURL, cfg.BackendTimeout)
	inventoryClient := clients.NewInventoryClient(cfg.InventoryServiceURL, cfg.BackendTimeout)
	orderClient := clients.NewOrderClient(cfg.OrderServiceURL, cfg.BackendTimeout)
	reviewClient := clients.NewReviewClient(cfg.ReviewServiceURL, cfg.BackendTimeout)
	notificationClient := clients.NewNotificationClient(cfg.NotificationServiceURL, cfg.BackendTimeout)

	// The event bus is optional: without it checkout still works, only the
	// email notifications are skipped.
	var bus *events.RabbitMQ
	if bus, err = events.NewRabbitMQ(cfg); err != nil {
		log.Println("Order event bus unavailable:", err)
		bus = nil
	} else {
		defer bus.Close()
		if err := bus.SetupQueues(); err != nil {
			log.Fatal("Failed to declare order queues: ", err)
		}
		consumers.StartOrderConsumer(bus.Channel, cfg, notificationClient)
	}

	sessionStore := store.NewRedisSessionStore(rdb, cfg.SessionTTL)
	orderCache := store.NewGormOrderCache(db)

	sessions := session.NewManager(authClient, sessionStore)
	var publisher cart.Publisher
	if bus != nil {
		publisher = bus
	}
	carts := cart.NewManager(orderClient, orderCache, publisher)

	authController := controllers.NewAuthController(sessions, carts)
	cartController := controllers.NewCartController(carts, sessions)
	orderController := controllers.NewOrderController(orderClient, orderCache, carts, sessions, publisher)
	productController := controllers.NewProductController(productClient, sessions, cfg)
	inventoryController := controllers.NewInventoryController(inventoryClient, sessions)
	reviewController := controllers.NewReviewController(reviewClient, sessions)
	rankingController := controllers.NewRankingController(orderClient, sessions)
	notificationController := controllers.NewNotificationController(notificationClient, sessions)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.Use(middlewares.RequestID(), middlewares.PrometheusMiddleware())

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server, authController, sessions)
	routes.ProductRoutes(server, productController, inventoryController, sessions)
	routes.CartRoutes(server, cartController, sessions)
	routes.OrderRoutes(server, orderController, sessions)
	routes.ReviewRoutes(server, reviewController, sessions)
	routes.RankingRoutes(server, rankingController, inventoryController)
	routes.NotificationRoutes(server, notificationController, sessions)

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
