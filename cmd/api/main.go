package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rentwheels/rentwheels-backend/internal/database"
	"github.com/rentwheels/rentwheels-backend/internal/handlers"
	"github.com/rentwheels/rentwheels-backend/internal/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/reservations"
	"github.com/rentwheels/rentwheels-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Reservation engine over the Postgres store
	store := database.NewStore(db)
	engine := reservations.NewEngine(store, store, store)

	// WebSocket hub for booking event pushes
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/cars", handlers.GetCars(db))
		api.GET("/cars/:id", handlers.GetCar(db))
		api.GET("/cars/:id/quote", handlers.QuoteBooking(engine))
		api.GET("/search", handlers.SearchDeals(db, store))
		api.GET("/locations", handlers.GetLocations(db))
		api.GET("/promos/:code", handlers.GetPromo(store))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			cars := protected.Group("/cars")
			{
				cars.POST("", handlers.CreateCar(db))
				cars.GET("/mine", handlers.GetMyCars(db))
				cars.PUT("/:id", handlers.UpdateCar(db))
				cars.DELETE("/:id", handlers.DeleteCar(db))
				cars.GET("/:id/availability", handlers.CheckAvailability(engine))
			}

			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, engine, hub))
				bookings.GET("/mine", handlers.GetMyBookings(db))
				bookings.GET("/received", handlers.GetReceivedBookings(db))
				bookings.GET("/car/:carId", handlers.GetCarBookings(engine))
				bookings.POST("/:id/confirm", handlers.ConfirmBooking(db, engine, hub))
				bookings.POST("/:id/cancel", handlers.CancelBooking(db, engine, hub))
				bookings.PATCH("/:id", handlers.ModifyBooking(db, engine, hub))
			}

			protected.POST("/uploads", handlers.UploadCarImage())
			protected.POST("/promos", handlers.CreatePromo(db))
			protected.POST("/feedback", handlers.CreateFeedback(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
