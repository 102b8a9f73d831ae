package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/recipe-catalog/internal/middleware"
)

// NewRouter creates a new HTTP router with all routes
func NewRouter(h *Handler, uploadsDir string) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Users
	mux.HandleFunc("POST /users", h.RegisterUser)
	mux.HandleFunc("POST /users/admin", h.RegisterAdmin)
	mux.HandleFunc("POST /login", h.Login)

	// Recipes
	mux.HandleFunc("GET /recipes", h.ListRecipes)
	mux.HandleFunc("POST /recipes", h.CreateRecipe)
	mux.HandleFunc("GET /recipes/{id}", h.GetRecipe)
	mux.HandleFunc("PUT /recipes/{id}", h.UpdateRecipe)
	mux.HandleFunc("DELETE /recipes/{id}", h.DeleteRecipe)
	mux.HandleFunc("PUT /recipes/{id}/image", h.UploadRecipeImage)

	// Stored recipe images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	mux.HandleFunc("GET /health", h.Health)

	// Apply global middleware
	return middleware.CORS(middleware.JSON(middleware.Logger(mux)))
}
