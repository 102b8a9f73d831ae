package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/recipe-catalog/internal/auth"
	"github.com/recipe-catalog/internal/config"
	"github.com/recipe-catalog/internal/model"
	"github.com/recipe-catalog/internal/rules"
)

// UserStore is the persistence surface the handlers need for users.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// RecipeStore is the persistence surface the handlers need for recipes.
type RecipeStore interface {
	Create(ctx context.Context, req *model.RecipeRequest, userID string) (*model.Recipe, error)
	FindAll(ctx context.Context) ([]model.Recipe, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	Update(ctx context.Context, id string, req *model.RecipeRequest) (*model.Recipe, error)
	Delete(ctx context.Context, id string) error
	SetImage(ctx context.Context, id, image string) (*model.Recipe, error)
}

// Handler contains all API handlers
type Handler struct {
	users   UserStore
	recipes RecipeStore
	rules   *rules.Rules
	tokens  *auth.TokenService
	uploads config.UploadsConfig
}

// NewHandler creates a new API handler
func NewHandler(users UserStore, recipes RecipeStore, rl *rules.Rules, tokens *auth.TokenService, uploads config.UploadsConfig) *Handler {
	return &Handler{
		users:   users,
		recipes: recipes,
		rules:   rl,
		tokens:  tokens,
		uploads: uploads,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// requestToken returns the caller's token. Clients send it raw in the
// Authorization header; an optional Bearer prefix is tolerated.
func requestToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// User handlers

// RegisterUser godoc
// @Summary Register a new user
// @Description Create a user account with name, email, and password
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration details"
// @Success 201 {object} map[string]model.User
// @Failure 400 {object} map[string]string "Invalid entries"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	h.registerWithRole(w, r, model.UserRoleUser)
}

// RegisterAdmin godoc
// @Summary Register a new admin
// @Description Create an admin account; callers must hold an admin token
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Admin token"
// @Param request body model.RegisterRequest true "Registration details"
// @Success 201 {object} map[string]model.User
// @Failure 400 {object} map[string]string "Invalid entries"
// @Failure 403 {object} map[string]string "Not an admin"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users/admin [post]
func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	// Admin creation is privileged, not merely authenticated: any
	// missing, malformed, or non-admin token is a 403.
	if !h.rules.CanCreateAdmin(r.Context(), requestToken(r)) {
		respondError(w, http.StatusForbidden, rules.MsgAdminsOnly)
		return
	}

	h.registerWithRole(w, r, model.UserRoleAdmin)
}

func (h *Handler) registerWithRole(w http.ResponseWriter, r *http.Request, role model.UserRole) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, rules.MsgInvalidEntries)
		return
	}

	if !rules.ValidNewUser(req.Name, req.Email, req.Password) {
		respondError(w, http.StatusBadRequest, rules.MsgInvalidEntries)
		return
	}

	existing, _ := h.users.FindByEmail(r.Context(), req.Email)
	if existing != nil {
		respondError(w, http.StatusConflict, rules.MsgEmailRegistered)
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]*model.User{"user": user})
}

// Login godoc
// @Summary User login
// @Description Authenticate and receive a token valid for one hour
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} map[string]string "Missing fields or bad credentials"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnauthorized, rules.MsgFieldsMissing)
		return
	}

	token, outcome := h.rules.Login(r.Context(), req.Email, req.Password)
	if !outcome.Allowed() {
		respondError(w, outcome.Status, outcome.Message)
		return
	}

	respondJSON(w, http.StatusOK, model.LoginResponse{Token: token})
}

// Recipe handlers

// ListRecipes godoc
// @Summary List all recipes
// @Description Get every recipe in the catalog
// @Tags Recipes
// @Produce json
// @Success 200 {array} model.Recipe
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.FindAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	respondJSON(w, http.StatusOK, recipes)
}

// GetRecipe godoc
// @Summary Get a recipe
// @Description Get a single recipe by ID
// @Tags Recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} model.Recipe
// @Failure 404 {object} map[string]string "Recipe not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes/{id} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusNotFound, rules.MsgRecipeNotFound)
		return
	}

	recipe, err := h.recipes.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch recipe")
		return
	}
	if recipe == nil {
		respondError(w, http.StatusNotFound, rules.MsgRecipeNotFound)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Create a recipe owned by the token's user
// @Tags Recipes
// @Accept json
// @Produce json
// @Param Authorization header string true "Token"
// @Param request body model.RecipeRequest true "Recipe fields"
// @Success 201 {object} map[string]model.Recipe
// @Failure 400 {object} map[string]string "Invalid entries"
// @Failure 401 {object} map[string]string "Malformed token"
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req model.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, rules.MsgInvalidEntries)
		return
	}

	// The field check runs before the token check: invalid entries are
	// a 400 regardless of token validity.
	if !rules.ValidRecipeFields(req.Name, req.Ingredients, req.Preparation) {
		respondError(w, http.StatusBadRequest, rules.MsgInvalidEntries)
		return
	}

	userID := h.tokens.Verify(requestToken(r))
	if userID == "" {
		respondError(w, http.StatusUnauthorized, rules.MsgMalformedToken)
		return
	}

	recipe, err := h.recipes.Create(r.Context(), &req, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]*model.Recipe{"recipe": recipe})
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Replace a recipe's fields; owner or admin only
// @Tags Recipes
// @Accept json
// @Produce json
// @Param Authorization header string true "Token"
// @Param id path string true "Recipe ID"
// @Param request body model.RecipeRequest true "Recipe fields"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Missing or malformed token"
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes/{id} [put]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	outcome := h.rules.CanModify(r.Context(), id, requestToken(r))
	if !outcome.Allowed() {
		respondError(w, outcome.Status, outcome.Message)
		return
	}

	var req model.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recipe, err := h.recipes.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	if recipe == nil {
		respondError(w, http.StatusUnauthorized, rules.MsgMalformedToken)
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Description Delete a recipe; owner or admin only
// @Tags Recipes
// @Produce json
// @Param Authorization header string true "Token"
// @Param id path string true "Recipe ID"
// @Success 204 "Deleted"
// @Failure 401 {object} map[string]string "Missing or malformed token"
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes/{id} [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	outcome := h.rules.CanModify(r.Context(), id, requestToken(r))
	if !outcome.Allowed() {
		respondError(w, outcome.Status, outcome.Message)
		return
	}

	if err := h.recipes.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadRecipeImage godoc
// @Summary Attach an image to a recipe
// @Description Store a JPEG image for the recipe; owner or admin only. Other content types are ignored and the recipe is returned unchanged.
// @Tags Recipes
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Token"
// @Param id path string true "Recipe ID"
// @Param image formData file false "JPEG image"
// @Success 200 {object} model.Recipe
// @Failure 401 {object} map[string]string "Missing or malformed token"
// @Failure 500 {object} map[string]string "Server error"
// @Router /recipes/{id}/image [put]
func (h *Handler) UploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	outcome := h.rules.CanModify(r.Context(), id, requestToken(r))
	if !outcome.Allowed() {
		respondError(w, outcome.Status, outcome.Message)
		return
	}

	if recipe, ok := h.storeImage(w, r, id); ok {
		respondJSON(w, http.StatusOK, recipe)
		return
	}

	// Rejected content type or no file: nothing stored, nothing
	// changed, but the request was authorized so it still succeeds.
	recipe, err := h.recipes.FindByID(r.Context(), id)
	if err != nil || recipe == nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch recipe")
		return
	}

	respondJSON(w, http.StatusOK, recipe)
}

// storeImage persists an accepted JPEG part and points the recipe's
// image at it. It reports false whenever nothing was stored.
func (h *Handler) storeImage(w http.ResponseWriter, r *http.Request, id string) (*model.Recipe, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, false
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" {
		return nil, false
	}

	// Files are keyed by recipe id plus the extension taken from the
	// content type, so a re-upload overwrites the previous image.
	parts := strings.Split(contentType, "/")
	filename := id + "." + parts[len(parts)-1]

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		return nil, false
	}
	dst, err := os.Create(filepath.Join(h.uploads.Dir, filename))
	if err != nil {
		return nil, false
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return nil, false
	}

	image := r.Host + "/uploads/" + filename
	recipe, err := h.recipes.SetImage(r.Context(), id, image)
	if err != nil || recipe == nil {
		return nil, false
	}

	return recipe, true
}

// Health godoc
// @Summary Health check
// @Description Check if the API is running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
