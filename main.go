package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"shareit-backend/internal/platform/admin"
	"shareit-backend/internal/platform/auth"
	"shareit-backend/internal/platform/db"
	"shareit-backend/internal/sharing/bookings"
	"shareit-backend/internal/sharing/items"
	"shareit-backend/internal/sharing/requests"
	"shareit-backend/internal/sharing/users"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		fmt.Println("Usage: set mode to dev or release in config/config.yaml")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Sharer-User-Id"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// 共有API。呼び出しユーザーは X-Sharer-User-Id ヘッダで受ける（gateway 検証済み前提）
	users.RegisterRoutes(r, users.NewService(conn))
	items.RegisterRoutes(r, items.NewService(conn))
	requests.RegisterRoutes(r, requests.NewService(conn))
	bookings.RegisterRoutes(r, bookings.NewService(conn))

	// 運用API。こちらだけJWT認証
	secret := []byte(cfg.Admin.JWTSecret)
	adminGroup := r.Group("/admin")
	auth.RegisterRoutes(adminGroup, auth.NewService(conn, secret), secret)
	statsGroup := adminGroup.Group("", auth.RequireAuth(secret))
	admin.RegisterRoutes(statsGroup, admin.NewService(conn))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on http://0.0.0.0:%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
