package rules

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/recipe-catalog/internal/auth"
	"github.com/recipe-catalog/internal/model"
)

// Response messages are part of the published API contract.
const (
	MsgFieldsMissing   = "All fields must be filled"
	MsgBadCredentials  = "Incorrect username or password"
	MsgMissingToken    = "missing auth token"
	MsgMalformedToken  = "jwt malformed"
	MsgInvalidEntries  = "Invalid entries. Try again."
	MsgEmailRegistered = "Email already registered"
	MsgAdminsOnly      = "Only admins can register new admins"
	MsgRecipeNotFound  = "recipe not found"
)

// Outcome is a rule decision already mapped onto the transport
// contract: an HTTP status and, when denied, the message to return.
type Outcome struct {
	Status  int
	Message string
}

func (o Outcome) Allowed() bool { return o.Status == http.StatusOK }

var allowed = Outcome{Status: http.StatusOK}

func denied(status int, message string) Outcome {
	return Outcome{Status: status, Message: message}
}

// UserFinder resolves stored users. Absent users surface as (nil, nil).
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// RecipeFinder resolves stored recipes. Absent recipes surface as
// (nil, nil).
type RecipeFinder interface {
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
}

// Rules evaluates login, admin-creation eligibility, and recipe
// ownership against the stores and the token service.
type Rules struct {
	users   UserFinder
	recipes RecipeFinder
	tokens  *auth.TokenService
}

func New(users UserFinder, recipes RecipeFinder, tokens *auth.TokenService) *Rules {
	return &Rules{users: users, recipes: recipes, tokens: tokens}
}

// Login checks credentials and returns a fresh token on success.
// Missing fields and wrong credentials both deny with 401 but carry
// distinct messages.
func (r *Rules) Login(ctx context.Context, email, password string) (string, Outcome) {
	if email == "" || password == "" {
		return "", denied(http.StatusUnauthorized, MsgFieldsMissing)
	}
	// Bad email syntax is folded into the generic credential failure.
	if !IsValidEmail(email) {
		return "", denied(http.StatusUnauthorized, MsgBadCredentials)
	}

	user, err := r.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return "", denied(http.StatusUnauthorized, MsgBadCredentials)
	}

	// Passwords are stored and compared verbatim: the catalog inherits
	// unhashed legacy rows. Known weakness, kept for contract parity.
	if user.Password != password {
		return "", denied(http.StatusUnauthorized, MsgBadCredentials)
	}

	token, err := r.tokens.Issue(user.ID)
	if err != nil {
		return "", denied(http.StatusUnauthorized, MsgBadCredentials)
	}

	return token, allowed
}

// CanCreateAdmin reports whether the holder of token is an admin.
// Only admins may mint other admins; callers map denial to 403.
func (r *Rules) CanCreateAdmin(ctx context.Context, token string) bool {
	userID := r.tokens.Verify(token)
	if userID == "" {
		return false
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return false
	}

	return user.Role == model.UserRoleAdmin
}

// CanModify decides whether the holder of token may mutate or delete
// the recipe: permitted iff the token resolves to the recipe's owner
// or to an admin. Every other case, including an unresolvable recipe
// or user, denies with 401 "jwt malformed". The same predicate governs
// update, delete, and image attachment.
func (r *Rules) CanModify(ctx context.Context, recipeID, token string) Outcome {
	if token == "" {
		return denied(http.StatusUnauthorized, MsgMissingToken)
	}

	userID := r.tokens.Verify(token)
	if userID == "" || uuid.Validate(userID) != nil {
		return denied(http.StatusUnauthorized, MsgMalformedToken)
	}
	if uuid.Validate(recipeID) != nil {
		return denied(http.StatusUnauthorized, MsgMalformedToken)
	}

	recipe, err := r.recipes.FindByID(ctx, recipeID)
	if err != nil || recipe == nil {
		return denied(http.StatusUnauthorized, MsgMalformedToken)
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return denied(http.StatusUnauthorized, MsgMalformedToken)
	}

	if recipe.UserID != userID && user.Role != model.UserRoleAdmin {
		return denied(http.StatusUnauthorized, MsgMalformedToken)
	}

	return allowed
}

// ValidRecipeFields reports whether a recipe submission carries all
// required fields.
func ValidRecipeFields(name, ingredients, preparation string) bool {
	return name != "" && ingredients != "" && preparation != ""
}

// ValidNewUser reports whether a registration carries all required
// fields and a syntactically valid email.
func ValidNewUser(name, email, password string) bool {
	return name != "" && email != "" && password != "" && IsValidEmail(email)
}

// IsValidEmail performs a basic email syntax check: one @ with text on
// both sides and a dotted domain.
func IsValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}
