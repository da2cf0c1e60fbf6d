package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"gameplan-server/models"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
)

// newTestApp builds an Iris app with the full route table over a fresh
// in-memory database.
func newTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")
	storage.InitializeTestDB()

	app := iris.New()
	app.Validator = validator.New()

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	auth := verifier.Verify(func() interface{} { return new(utils.AccessToken) })
	optionalAuth := utils.OptionalAuthMiddleware(verifier)

	user := app.Party("/api/users")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Get("/me", auth, GetMe)
		user.Get("/search", auth, SearchUsers)
		user.Get("/{id:uint}/calendar", optionalAuth, GetCalendar)
		user.Get("/{id:uint}/calendar/export.ics", optionalAuth, ExportCalendarICS)
	}

	event := app.Party("/api/events")
	{
		event.Post("/", auth, CreateEvent)
		event.Get("/{id:uint}", optionalAuth, GetEvent)
		event.Patch("/{id:uint}", auth, UpdateEvent)
		event.Delete("/{id:uint}", auth, DeleteEvent)
	}

	game := app.Party("/api/games", auth)
	{
		game.Post("/", CreateGame)
		game.Get("/", ListGames)
		game.Patch("/{id:uint}", UpdateGame)
	}

	friend := app.Party("/api/friends", auth)
	{
		friend.Get("/", ListFriends)
		friend.Delete("/{userID:uint}", DeleteFriend)
		friend.Post("/requests", SendFriendRequest)
		friend.Get("/requests", ListIncomingRequests)
		friend.Post("/requests/{id:uint}/accept", AcceptFriendRequest)
		friend.Post("/requests/{id:uint}/decline", DeclineFriendRequest)
		friend.Delete("/requests/{id:uint}", CancelFriendRequest)
	}

	calendar := app.Party("/api/calendar", auth)
	{
		calendar.Post("/share", CreateShareLink)
	}

	notification := app.Party("/api/notifications", auth)
	{
		notification.Get("/", ListNotifications)
		notification.Post("/{id:uint}/read", MarkNotificationRead)
	}

	app.Get("/api/todo", auth, GetTodoList)

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := models.User{Username: username, Email: username + "@example.com", Password: string(hashed)}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func signTestToken(t *testing.T, user models.User) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: user.ID, Username: user.Username})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return string(token)
}

// doRequest performs a JSON request; an empty token leaves the request
// anonymous.
func doRequest(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
}

func expectStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.Code, resp.Body.String())
	}
}

func seedEvent(t *testing.T, userID uint, title string, start time.Time, rule string, recurrenceEnd *time.Time) models.Event {
	t.Helper()
	ev := models.Event{
		UserID:        userID,
		Title:         title,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Priority:      models.PriorityMedium,
		Recurrence:    rule,
		RecurrenceEnd: recurrenceEnd,
	}
	if err := storage.DB.Create(&ev).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return ev
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func seedFriendship(t *testing.T, from, to uint) {
	t.Helper()
	now := time.Now().UTC()
	req := models.FriendRequest{FromUserID: from, ToUserID: to, Status: models.FriendStatusAccepted, RespondedAt: &now}
	if err := storage.DB.Create(&req).Error; err != nil {
		t.Fatalf("failed to seed friendship: %v", err)
	}
}
