package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"bakery-backend/internal/config"
)

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := cfg.Server.CorsAllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	headers := cfg.Server.CorsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Authorization", "Content-Type"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
