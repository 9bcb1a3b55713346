package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/zain100000/bookheaven-backend/config"
	"github.com/zain100000/bookheaven-backend/handlers"
	"github.com/zain100000/bookheaven-backend/middleware"
	"github.com/zain100000/bookheaven-backend/models"
	"github.com/zain100000/bookheaven-backend/service"
	"github.com/zain100000/bookheaven-backend/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	var media *service.MediaService
	if cfg.S3Bucket != "" {
		media, err = service.NewMediaService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; book uploads will fail")
	}

	orderService := service.NewOrderService(db, db, db)
	reviewService := service.NewReviewService(db, db, db)

	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	usersHandler := &handlers.UsersHandler{DB: db}
	booksHandler := &handlers.BooksHandler{DB: db, Media: media, MaxBytes: cfg.MaxUploadMB * 1024 * 1024}
	cartHandler := &handlers.CartHandler{DB: db}
	favoritesHandler := &handlers.FavoritesHandler{DB: db}
	ordersHandler := &handlers.OrdersHandler{Orders: orderService}
	reviewsHandler := &handlers.ReviewsHandler{Reviews: reviewService}

	auth := middleware.Auth(cfg.JWTSecret, db)
	adminOnly := middleware.RequireRole(models.RoleSuperAdmin)

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"welcome to book heaven."}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", authHandler.UserSignup)
		r.Post("/signin", authHandler.UserSignin)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/get-user-by-id/{id}", usersHandler.GetUserByID)
			r.Post("/reset-password", usersHandler.ResetPassword)
			r.Post("/logout", usersHandler.Logout)
		})
	})

	r.Route("/super-admin", func(r chi.Router) {
		r.Post("/signup", authHandler.SuperAdminSignup)
		r.Post("/signin", authHandler.SuperAdminSignin)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/get-super-admin-by-id/{id}", usersHandler.GetSuperAdminByID)
			r.Post("/reset-password", usersHandler.ResetPassword)
			r.Post("/logout", usersHandler.Logout)
		})
	})

	r.Route("/book", func(r chi.Router) {
		r.Use(auth)
		r.Get("/get-all-books", booksHandler.List)
		r.Get("/get-book-by-id/{id}", booksHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/upload-book", booksHandler.UploadBook)
			r.Patch("/update-book/{id}", booksHandler.Update)
			r.Delete("/delete-book/{id}", booksHandler.Delete)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(auth)
		r.Post("/add-to-cart", cartHandler.AddToCart)
		r.Post("/remove-from-cart", cartHandler.RemoveFromCart)
	})

	r.Route("/favorite", func(r chi.Router) {
		r.Use(auth)
		r.Post("/add-to-favorite", favoritesHandler.AddToFavorites)
		r.Post("/remove-from-favorite", favoritesHandler.RemoveFromFavorites)
	})

	r.Route("/order", func(r chi.Router) {
		r.Use(auth)
		r.Post("/place-order", ordersHandler.PlaceOrder)
		r.Get("/get-all-orders", ordersHandler.GetAllOrders)
		r.Get("/get-my-orders", ordersHandler.GetMyOrders)
		r.Put("/cancel-order/{id}", ordersHandler.CancelOrder)
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/get-order-by-id/{id}", ordersHandler.GetOrderByID)
			r.Patch("/update-order-status/{id}", ordersHandler.UpdateOrderStatus)
			r.Patch("/update-payment-status/{id}", ordersHandler.UpdatePaymentStatus)
			r.Delete("/delete-order/{id}", ordersHandler.DeleteOrder)
		})
	})

	r.Route("/review", func(r chi.Router) {
		r.Use(auth)
		r.Post("/add-review/{bookId}", reviewsHandler.AddReview)
		r.Get("/get-all-reviews", reviewsHandler.GetAllReviews)
		r.Get("/get-review-by-id/{reviewId}", reviewsHandler.GetReviewByID)
		r.Patch("/update-review/{reviewId}", reviewsHandler.UpdateReview)
		r.Delete("/delete-review/{bookId}/{reviewId}", reviewsHandler.DeleteReview)
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
