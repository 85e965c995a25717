package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"plateplanner/internal/auth"
	"plateplanner/internal/grocery"
	"plateplanner/internal/planner"
	"plateplanner/internal/recipe"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memoryUsers struct {
	users map[string]auth.User
}

func (m *memoryUsers) Create(ctx context.Context, user auth.User) error {
	m.users[user.Username] = user
	return nil
}

func (m *memoryUsers) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (*auth.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, nil
}

type memoryCatalog struct {
	recipes []recipe.Recipe
}

func (m *memoryCatalog) List(ctx context.Context) ([]recipe.Recipe, error) {
	return m.recipes, nil
}

func (m *memoryCatalog) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	for _, rec := range m.recipes {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memoryCatalog) Save(ctx context.Context, rec recipe.Recipe) error {
	m.recipes = append(m.recipes, rec)
	return nil
}

func (m *memoryCatalog) Count(ctx context.Context) (int, error) {
	return len(m.recipes), nil
}

type memoryPlans struct {
	plans map[string]planner.WeekPlan
}

func (m *memoryPlans) LoadPlan(ctx context.Context, userID string) (planner.WeekPlan, error) {
	week, ok := m.plans[userID]
	if !ok {
		return nil, nil
	}
	return week.Clone(), nil
}

func (m *memoryPlans) SavePlan(ctx context.Context, userID string, week planner.WeekPlan) error {
	m.plans[userID] = week.Clone()
	return nil
}

type memoryChecks struct {
	states map[string]grocery.CheckState
}

func (m *memoryChecks) LoadChecks(ctx context.Context, userID string) (grocery.CheckState, error) {
	state, ok := m.states[userID]
	if !ok {
		return grocery.CheckState{}, nil
	}
	return state, nil
}

func (m *memoryChecks) SaveChecks(ctx context.Context, userID string, state grocery.CheckState) error {
	m.states[userID] = state
	return nil
}

type testEnv struct {
	router  *gin.Engine
	catalog *memoryCatalog
	token   string
	userID  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authSvc := auth.NewService(&memoryUsers{users: make(map[string]auth.User)}, "test-secret", time.Hour)
	catalog := &memoryCatalog{}
	server := NewServer(zap.NewNop(), authSvc, catalog,
		&memoryPlans{plans: make(map[string]planner.WeekPlan)},
		&memoryChecks{states: make(map[string]grocery.CheckState)},
		nil)
	router := NewRouter(server, zap.NewNop(), []string{"http://localhost:5173"})

	env := &testEnv{router: router, catalog: catalog}

	resp := env.do(t, "POST", "/auth/register", `{"username": "alice", "password": "hunter2"}`, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", resp.Code, resp.Body.String())
	}
	var creds auth.Credentials
	if err := json.Unmarshal(resp.Body.Bytes(), &creds); err != nil {
		t.Fatalf("failed to parse credentials: %v", err)
	}
	env.token = creds.Token
	env.userID = creds.UserID
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func weekJSON() string {
	week := planner.NewWeekPlan()
	week["monday"] = []recipe.Recipe{{
		ID:    "a",
		Title: "Paneer Bhurji",
		Ingredients: []recipe.Ingredient{
			{Name: "Milk", Quantity: "1 cup"},
			{Name: "Paneer", Quantity: "200g"},
		},
	}}
	week["tuesday"] = []recipe.Recipe{{
		ID:    "b",
		Title: "Milk Shake",
		Ingredients: []recipe.Ingredient{
			{Name: "Milk", Quantity: "2 cups"},
		},
	}}
	data, _ := json.Marshal(map[string]interface{}{"week": week})
	return string(data)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(t, "GET", "/mealplan", "", ""); resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", resp.Code)
	}
	if resp := env.do(t, "GET", "/grocery", "", "bad-token"); resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with a bad token, got %d", resp.Code)
	}
}

func TestMealPlanRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	// No plan saved yet: the week is null, not an error.
	resp := env.do(t, "GET", "/mealplan", "", env.token)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.Code)
	}
	var before struct {
		Week *planner.WeekPlan `json:"week"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &before); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if before.Week != nil {
		t.Error("Expected a null week before any save")
	}

	if resp := env.do(t, "POST", "/mealplan/save", weekJSON(), env.token); resp.Code != http.StatusOK {
		t.Fatalf("Save returned %d: %s", resp.Code, resp.Body.String())
	}

	resp = env.do(t, "GET", "/mealplan", "", env.token)
	var after struct {
		Week planner.WeekPlan `json:"week"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &after); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(after.Week["monday"]) != 1 || after.Week["monday"][0].Title != "Paneer Bhurji" {
		t.Errorf("Saved plan did not round-trip: %+v", after.Week["monday"])
	}
}

func TestSaveMealPlanRejectsInvalidDay(t *testing.T) {
	env := newTestEnv(t)

	body := `{"week": {"someday": []}}`
	resp := env.do(t, "POST", "/mealplan/save", body, env.token)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid day label, got %d", resp.Code)
	}
}

func TestAutoGenerate(t *testing.T) {
	env := newTestEnv(t)

	// Too few recipes: actionable error, nothing saved.
	resp := env.do(t, "POST", "/mealplan/autogenerate", "", env.token)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 with an empty catalog, got %d", resp.Code)
	}

	for i := 0; i < 7; i++ {
		env.catalog.recipes = append(env.catalog.recipes, recipe.Recipe{
			ID:          string(rune('a' + i)),
			Title:       "Recipe",
			Ingredients: []recipe.Ingredient{{Name: "Rice", Quantity: "1 cup"}},
		})
	}

	resp = env.do(t, "POST", "/mealplan/autogenerate", "", env.token)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Week planner.WeekPlan `json:"week"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	for _, day := range planner.Days {
		if len(out.Week[day]) != 1 {
			t.Errorf("Expected 1 generated meal on %s, got %d", day, len(out.Week[day]))
		}
	}
}

func TestGroceryFlow(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(t, "POST", "/mealplan/save", weekJSON(), env.token); resp.Code != http.StatusOK {
		t.Fatalf("Save returned %d", resp.Code)
	}

	resp := env.do(t, "GET", "/grocery", "", env.token)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.Code)
	}
	var list struct {
		Items []grocery.Item `json:"items"`
		Empty bool           `json:"empty"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if list.Empty {
		t.Error("Expected a non-empty plan")
	}
	if len(list.Items) != 2 || list.Items[0].Name != "milk" || list.Items[1].Name != "paneer" {
		t.Fatalf("Unexpected aggregation: %+v", list.Items)
	}
	if len(list.Items[0].Quantities) != 2 {
		t.Errorf("Expected milk to carry 2 quantities, got %v", list.Items[0].Quantities)
	}

	// Toggle, then re-derive: the flag must stick.
	if resp := env.do(t, "POST", "/grocery/toggle", `{"name": "Milk"}`, env.token); resp.Code != http.StatusOK {
		t.Fatalf("Toggle returned %d", resp.Code)
	}
	resp = env.do(t, "GET", "/grocery", "", env.token)
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !list.Items[0].Checked {
		t.Error("Expected milk to be checked after toggle")
	}

	// Clear-all resets every flag.
	if resp := env.do(t, "POST", "/grocery/clear", "", env.token); resp.Code != http.StatusOK {
		t.Fatalf("Clear returned %d", resp.Code)
	}
	resp = env.do(t, "GET", "/grocery", "", env.token)
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if list.Items[0].Checked {
		t.Error("Expected milk to be unchecked after clear-all")
	}

	resp = env.do(t, "GET", "/grocery/export", "", env.token)
	if resp.Code != http.StatusOK {
		t.Fatalf("Export returned %d", resp.Code)
	}
	want := "milk — 1 cup + 2 cups\npaneer — 200g"
	if strings.TrimSpace(resp.Body.String()) != want {
		t.Errorf("Export = %q, want %q", resp.Body.String(), want)
	}
}

func TestRecipeSearchAndFilter(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.recipes = []recipe.Recipe{
		{ID: "a", Title: "Toor Dal Tadka", Tags: []string{"veg", "budget"}},
		{ID: "b", Title: "Paneer Bhurji", Tags: []string{"veg", "high-protein"}},
		{ID: "c", Title: "Chicken Curry", Tags: []string{"high-protein"}},
	}

	var matches []recipe.Recipe
	resp := env.do(t, "GET", "/recipes/search/dal", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("Search returned %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &matches); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "a" {
		t.Errorf("Expected the dal recipe, got %+v", matches)
	}

	// Search is case-insensitive on the title.
	resp = env.do(t, "GET", "/recipes/search/PANEER", "", "")
	if err := json.Unmarshal(resp.Body.Bytes(), &matches); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "b" {
		t.Errorf("Expected the paneer recipe, got %+v", matches)
	}

	resp = env.do(t, "GET", "/recipes/filter/tag/veg", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("Filter returned %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &matches); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(matches) != 2 || matches[0].ID != "a" || matches[1].ID != "b" {
		t.Errorf("Expected the two veg recipes, got %+v", matches)
	}

	// No match is an empty list, not an error.
	resp = env.do(t, "GET", "/recipes/filter/tag/vegan", "", "")
	if err := json.Unmarshal(resp.Body.Bytes(), &matches); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no vegan recipes, got %+v", matches)
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/auth/profile/"+env.userID, "", env.token)
	if resp.Code != http.StatusOK {
		t.Fatalf("Profile returned %d: %s", resp.Code, resp.Body.String())
	}
	var profile struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if profile.UserID != env.userID || profile.Username != "alice" {
		t.Errorf("Unexpected profile: %+v", profile)
	}

	if resp := env.do(t, "GET", "/auth/profile/"+env.userID, "", ""); resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", resp.Code)
	}
	if resp := env.do(t, "GET", "/auth/profile/someone-else", "", env.token); resp.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for another user's profile, got %d", resp.Code)
	}
}

func TestRecipeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(t, "GET", "/recipes/missing", "", ""); resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown recipe, got %d", resp.Code)
	}

	body := `{"title": "Dal", "cookTime": 30, "calories": 200, "ingredients": [{"name": "Toor Dal", "quantity": "1 cup"}]}`
	resp := env.do(t, "POST", "/recipes", body, env.token)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create returned %d: %s", resp.Code, resp.Body.String())
	}
	var created recipe.Recipe
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected an assigned recipe ID")
	}

	if resp := env.do(t, "GET", "/recipes/"+created.ID, "", ""); resp.Code != http.StatusOK {
		t.Errorf("Expected 200 fetching the created recipe, got %d", resp.Code)
	}

	if resp := env.do(t, "POST", "/recipes/import", `{"url": "https://example.com"}`, env.token); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 when import is not configured, got %d", resp.Code)
	}

	if resp := env.do(t, "POST", "/recipes", `{"title": ""}`, ""); resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 creating a recipe without a token, got %d", resp.Code)
	}
}
