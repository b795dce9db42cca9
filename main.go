package main

import (
	"net/http"
	"os"

	"stock-analyzer/alphavantage"
	"stock-analyzer/config"
	"stock-analyzer/handlers"
	"stock-analyzer/middleware"
	"stock-analyzer/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnln("no .env file found, using process environment")
	}

	config.InitDB()
	config.InitRedis()

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.WithError(err).Fatalln("failed to get database instance")
	}
	defer sqlDB.Close()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Stock{},
		&models.Watchlist{},
		&models.Transaction{},
		&models.StockPrice{},
	); err != nil {
		log.WithError(err).Fatalln("failed to migrate models")
	}

	// One shared client so the rate limiter covers every upstream request.
	handlers.Init(alphavantage.NewClient())

	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Stock Market Analysis API", "status": "running"})
	})

	api := router.Group("/api")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)

		api.GET("/stocks/search/:query", handlers.SearchStocks)
		api.GET("/stocks/:symbol/quote", handlers.GetStockQuote)
		api.GET("/stocks/:symbol/chart", handlers.GetStockChart)
		api.GET("/stocks/:symbol/overview", handlers.GetCompanyOverview)

		auth := api.Group("/")
		auth.Use(middleware.JWTAuth())
		{
			auth.GET("/me", handlers.Me)
			auth.POST("/logout", handlers.Logout)

			auth.GET("/watchlist", handlers.GetWatchlist)
			auth.POST("/watchlist/add", handlers.AddToWatchlist)
			auth.DELETE("/watchlist/:symbol", handlers.RemoveFromWatchlist)

			auth.GET("/portfolio", handlers.GetPortfolio)
			auth.POST("/portfolio/transaction", handlers.AddTransaction)
			auth.DELETE("/portfolio/clear-all", handlers.ClearPortfolio)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}
