package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"

	"github.com/anshvert/Book-Review/models"
	"github.com/anshvert/Book-Review/storage"
	"github.com/anshvert/Book-Review/utils"
)

// buildTestApp wires the real routes against an in-memory database,
// mirroring the party layout in main.go.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db pool: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Book{}, &models.Review{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	storage.DB = db
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	authMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
	}

	books := app.Party("/api/books")
	{
		books.Post("/", authMiddleware, utils.UserIDFromTokenMiddleware, CreateBook)
		books.Get("/", ListBooks)
		books.Get("/search", SearchBooks)
		books.Get("/{id:uint}", GetBook)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Post("/{id:uint}/reviews", authMiddleware, utils.UserIDFromTokenMiddleware, CreateReview)
		reviews.Put("/{id:uint}", authMiddleware, utils.UserIDFromTokenMiddleware, UpdateReview)
		reviews.Delete("/{id:uint}", authMiddleware, utils.UserIDFromTokenMiddleware, DeleteReview)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build test app: %v", err)
	}
	return app
}

// signAccessToken returns a signed bearer token for the given user ID.
func signAccessToken(t *testing.T, id uint) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 15*time.Minute)
	token, err := signer.Sign(utils.AccessToken{ID: id})
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return string(token)
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestBook(t *testing.T, title, author, genre string) models.Book {
	t.Helper()
	book := models.Book{Title: title, Author: author, Genre: genre}
	if err := storage.DB.Create(&book).Error; err != nil {
		t.Fatalf("create test book: %v", err)
	}
	return book
}

func doRequest(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
}
