package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pennywise/internal/crypto"
	"pennywise/internal/handlers"
	"pennywise/internal/logger"
	"pennywise/internal/middleware"
	"pennywise/internal/models"
	"pennywise/internal/services"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared&_foreign_keys=on", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Budget{},
		&models.Expense{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	fieldCipher, err := crypto.New("integration-test-secret")
	if err != nil {
		t.Fatalf("failed to create field cipher: %v", err)
	}

	// Services
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, 0)
	budgetService := services.NewBudgetService(db, fieldCipher)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, auditService)
	accountHandler := handlers.NewAccountHandler(userService, sessionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	// Public routes
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/register", authHandler.RegisterForm)
	router.POST("/register", authHandler.Register)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.SessionGate(sessionService))

	protected.GET("/", budgetHandler.Index)
	protected.GET("/budget/:id", budgetHandler.GetBudget)
	protected.GET("/create", budgetHandler.NewBudgetForm)
	protected.POST("/create", budgetHandler.CreateBudget)
	protected.POST("/update", budgetHandler.UpdateBudget)
	protected.POST("/delete", budgetHandler.DeleteBudget)

	protected.GET("/account", accountHandler.GetAccount)
	protected.POST("/change-password", accountHandler.ChangePassword)
	protected.POST("/delete-account", accountHandler.DeleteAccount)

	router.NoRoute(handlers.NotFound)

	return &testApp{DB: db, Router: router}
}

// request makes a JSON request to the test router and returns the recorder.
// An empty session means no cookie is attached.
func (app *testApp) request(method, path, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// formRequest makes a form-encoded request to the test router.
func (app *testApp) formRequest(method, path string, form url.Values, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// sessionCookie extracts the session cookie value from a response, or "" if
// none was set.
func sessionCookie(rec *httptest.ResponseRecorder) string {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	return ""
}

// registerUser registers a new user through the registration form. The
// email is derived from the username.
func (app *testApp) registerUser(t *testing.T, username, password string) {
	t.Helper()
	form := url.Values{
		"username":     {username},
		"email":        {username + "@test.com"},
		"password":     {password},
		"confirmation": {password},
	}
	rec := app.formRequest("POST", "/register", form, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
}

// loginUser logs in through the login form and returns the session cookie.
func (app *testApp) loginUser(t *testing.T, identifier, password string) string {
	t.Helper()
	form := url.Values{
		"username": {identifier},
		"password": {password},
	}
	rec := app.formRequest("POST", "/login", form, "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	session := sessionCookie(rec)
	if session == "" {
		t.Fatal("login did not set a session cookie")
	}
	return session
}

// createBudget creates a budget through the create endpoint and returns its URL.
func (app *testApp) createBudget(t *testing.T, session, name string) string {
	t.Helper()
	body := fmt.Sprintf(`{
		"info": {"name": %q, "total": 1000, "result": 200},
		"categories": {"food": {"lunch": 50}}
	}`, name)
	rec := app.request("POST", "/create", body, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	budgetURL, _ := result["url"].(string)
	if budgetURL == "" {
		t.Fatalf("expected a budget url, got %s", rec.Body.String())
	}
	return budgetURL
}
