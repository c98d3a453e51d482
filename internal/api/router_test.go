package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe_api/internal/api"
	"recipe_api/internal/api/middleware"
	"recipe_api/internal/app/service"
	"recipe_api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server      *httptest.Server
	userService *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := testutil.NewMemoryUserRepository()
	tagRepo := testutil.NewMemoryTagRepository()
	ingredientRepo := testutil.NewMemoryIngredientRepository()
	recipeRepo := testutil.NewMemoryRecipeRepository(tagRepo, ingredientRepo)
	tokens := testutil.NewMemoryTokenStore()

	userService := service.NewUserService(userRepo, tokens, bcrypt.MinCost, time.Hour)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, testutil.NewStubDB())
	adminService := service.NewAdminService(userRepo)

	auth := middleware.NewAuth(tokens, userRepo)
	router := api.NewRouter(auth, userService, tagService, ingredientService, recipeService, adminService)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, userService: userService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// register + token in one call; most private-endpoint tests start here.
func (e *testEnv) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{
		"email":    email,
		"password": "TestP.",
		"name":     "Test Name",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := e.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email":    email,
		"password": "TestP.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &tokenResp))
	require.NotEmpty(t, tokenResp.Token)
	return tokenResp.Token
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(raw))
}

func TestCreateUserNeverReturnsPassword(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{
		"email":    "mehmet@mehmettest.com",
		"password": "TestP.",
		"name":     "Test Name",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "mehmet@mehmettest.com", fields["email"])
	assert.Equal(t, "Test Name", fields["name"])
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, string(raw), "TestP.")
}

func TestCreateUserDuplicateFails(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"email": "mehmet_exists@mehmettest.com", "password": "TestP."}
	resp, _ := env.do(t, http.MethodPost, "/api/v1/user/create", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/user/create", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateUserEmptyEmailFails(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/v1/user/create", "", map[string]string{"password": "TestP."})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTokenEndpointFailures(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin(t, "mehmettoken@mehmettest.com")

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"wrong password", map[string]string{"email": "mehmettoken@mehmettest.com", "password": "wrongP."}},
		{"absent user", map[string]string{"email": "mehmetnouser@mehmettest.com", "password": "TestP."}},
		{"empty password", map[string]string{"email": "mehmettoken@mehmettest.com", "password": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, "/api/v1/user/token", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotContains(t, string(raw), `"token"`)
		})
	}
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []string{
		"/api/v1/user/me",
		"/api/v1/recipe/tags/",
		"/api/v1/recipe/ingredients/",
		"/api/v1/recipe/recipes/",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, _ := env.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	// A garbage token is as good as none.
	resp, _ := env.do(t, http.MethodGet, "/api/v1/user/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileReadAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "profile@test.com")

	resp, raw := env.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "profile@test.com", me["email"])
	assert.Equal(t, "Test Name", me["name"])

	resp, raw = env.do(t, http.MethodPatch, "/api/v1/user/me", token, map[string]string{
		"name":     "New Name",
		"password": "NewPass.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "New Name", me["name"])

	// New password works at the token endpoint, old one does not.
	resp, _ = env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "profile@test.com", "password": "NewPass.",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "profile@test.com", "password": "TestP.",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "logout@test.com")

	resp, _ := env.do(t, http.MethodPost, "/api/v1/user/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTagsListAndCreateScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.signupAndLogin(t, "usera@test.com")
	tokenB := env.signupAndLogin(t, "userb@test.com")

	resp, _ := env.do(t, http.MethodPost, "/api/v1/recipe/tags/", tokenA, map[string]string{"name": "Vegan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/recipe/tags/", tokenB, map[string]string{"name": "Vegan"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/recipe/tags/", tokenB, map[string]string{"name": "Dessert"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := env.do(t, http.MethodGet, "/api/v1/recipe/tags/", tokenA, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tags []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "Vegan", tags[0]["name"])
}

func TestTagCreateEmptyNameFails(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "tags@test.com")

	resp, _ := env.do(t, http.MethodPost, "/api/v1/recipe/tags/", token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTagDeleteIsMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "verbs@test.com")

	resp, _ := env.do(t, http.MethodDelete, "/api/v1/recipe/tags/", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestIngredientsListScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.signupAndLogin(t, "inga@test.com")
	tokenB := env.signupAndLogin(t, "ingb@test.com")

	resp, _ := env.do(t, http.MethodPost, "/api/v1/recipe/ingredients/", tokenB, map[string]string{"name": "Cucumber"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/recipe/ingredients/", tokenA, map[string]string{"name": "Chocolate"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := env.do(t, http.MethodGet, "/api/v1/recipe/ingredients/", tokenA, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ingredients []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Chocolate", ingredients[0]["name"])
}

func (e *testEnv) createTag(t *testing.T, token, name string) string {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/api/v1/recipe/tags/", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tag struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &tag))
	return tag.ID
}

func (e *testEnv) createIngredient(t *testing.T, token, name string) string {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/api/v1/recipe/ingredients/", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ing struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &ing))
	return ing.ID
}

func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "recipe@user.com")

	tagID := env.createTag(t, token, "Dessert")
	ingredientID := env.createIngredient(t, token, "Chocolate")

	resp, raw := env.do(t, http.MethodPost, "/api/v1/recipe/recipes/", token, map[string]interface{}{
		"title":        "Sample Recipe",
		"time_minutes": 10,
		"price":        5.00,
		"tags":         []string{tagID},
		"ingredients":  []string{ingredientID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID   string `json:"id"`
		Tags []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "Dessert", created.Tags[0].Name)

	// Detail view expands relations to id+name.
	resp, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipe/recipes/%s", created.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, "Sample Recipe", detail["title"])

	// List view is thin: relation ids only.
	resp, raw = env.do(t, http.MethodGet, "/api/v1/recipe/recipes/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []struct {
		ID     string   `json:"id"`
		TagIDs []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, []string{tagID}, listed[0].TagIDs)

	// Patch: replace tag set, other fields stay.
	newTagID := env.createTag(t, token, "Dinner")
	resp, raw = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipe/recipes/%s", created.ID), token, map[string]interface{}{
		"tags": []string{newTagID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var patched struct {
		Title string `json:"title"`
		Tags  []struct {
			ID string `json:"id"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(raw, &patched))
	assert.Equal(t, "Sample Recipe", patched.Title)
	require.Len(t, patched.Tags, 1)
	assert.Equal(t, newTagID, patched.Tags[0].ID)

	// Delete removes it from subsequent lists.
	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipe/recipes/%s", created.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/v1/recipe/recipes/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))
}

func TestRecipeOfOtherUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.signupAndLogin(t, "owner@test.com")
	tokenB := env.signupAndLogin(t, "intruder@test.com")

	resp, raw := env.do(t, http.MethodPost, "/api/v1/recipe/recipes/", tokenA, map[string]interface{}{
		"title":        "Private Recipe",
		"time_minutes": 10,
		"price":        5.00,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipe/recipes/%s", created.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipe/recipes/%s", created.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// List only ever shows the caller's rows.
	resp, raw = env.do(t, http.MethodGet, "/api/v1/recipe/recipes/", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(bytes.TrimSpace(raw)))
}

func TestRecipeCreateValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "validation@test.com")

	resp, _ := env.do(t, http.MethodPost, "/api/v1/recipe/recipes/", token, map[string]interface{}{
		"time_minutes": 10,
		"price":        5.00,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/recipe/recipes/", token, map[string]interface{}{
		"title":        "Bad tags",
		"time_minutes": 10,
		"price":        5.00,
		"tags":         []string{"no-such-tag"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminEndpointsRequireStaff(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "plain@test.com")

	resp, _ := env.do(t, http.MethodGet, "/api/v1/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUserBrowser(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin(t, "listed@test.com")

	_, err := env.userService.CreateSuperuser(context.Background(), "superuser@mehmettest.com", "SuperTestPass.", "")
	require.NoError(t, err)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "superuser@mehmettest.com", "password": "SuperTestPass.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokenResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &tokenResp))

	resp, raw = env.do(t, http.MethodGet, "/api/v1/admin/users", tokenResp.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "hashed_password")
	}
}
