package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saveplate/backend/internal/domain"
	"github.com/saveplate/backend/internal/usecase"
)

const (
	serviceName    = "saveplate-backend"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	auth        *usecase.AuthService
	recipes     *usecase.RecipeService
	catalog     *usecase.CatalogService
	ingredients *usecase.IngredientService
	graphReady  func() bool
}

// Services groups the usecases served over HTTP
type Services struct {
	Auth        *usecase.AuthService
	Recipes     *usecase.RecipeService
	Catalog     *usecase.CatalogService
	Ingredients *usecase.IngredientService
	// GraphReady reports whether the graph driver is up; nil means always.
	GraphReady func() bool
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	ready := s.GraphReady
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Handler{
		auth:        s.Auth,
		recipes:     s.Recipes,
		catalog:     s.Catalog,
		ingredients: s.Ingredients,
		graphReady:  ready,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	graph := "up"
	if !h.graphReady() {
		graph = "down"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
		"graph":   graph,
	})
}

type tokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register creates an account and returns its first token pair
func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

// Token exchanges form credentials for a token pair
func (h *Handler) Token(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// CurrentUser returns the authenticated user
func (h *Handler) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, mustUser(c))
}

// Autocomplete suggests ingredient or sauce names for a prefix
func (h *Handler) Autocomplete(c *gin.Context) {
	var q domain.AutocompleteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	names, err := h.catalog.Autocomplete(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// AvailableRecipes scores recipes against the ingredients in the body
func (h *Handler) AvailableRecipes(c *gin.Context) {
	var req domain.AvailableRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	matches, err := h.recipes.AvailableRecipes(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// UserAvailableRecipes scores recipes against the caller's own ingredients
func (h *Handler) UserAvailableRecipes(c *gin.Context) {
	user := mustUser(c)

	matches, err := h.recipes.AvailableRecipesForUser(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// PartialRecipes lists recipes the body's ingredients partly cover
func (h *Handler) PartialRecipes(c *gin.Context) {
	var req domain.AvailableRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	partial, err := h.recipes.PartialRecipes(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partial)
}

// UserIngredients lists the caller's ingredients and sauces
func (h *Handler) UserIngredients(c *gin.Context) {
	user := mustUser(c)

	owned, err := h.ingredients.ListIngredients(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}

// AddUserIngredients records ingredients the caller owns
func (h *Handler) AddUserIngredients(c *gin.Context) {
	user := mustUser(c)

	var req domain.AddIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	owned, err := h.ingredients.AddIngredients(c.Request.Context(), user.Email, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owned)
}
