package main

import (
	"log"
	"os"

	"gameplan-server/routes"
	"gameplan-server/services"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	reminders := services.NewReminderService()
	if err := reminders.Start(); err != nil {
		log.Fatal("failed to start reminder service: ", err)
	}
	defer reminders.Stop()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	optionalAuth := utils.OptionalAuthMiddleware(accessTokenVerifier)

	user := app.Party("/api/users")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
		user.Get("/search", accessTokenVerifierMiddleware, routes.SearchUsers)

		// Calendar views allow anonymous share-token access; the gate inside
		// decides, not the router.
		user.Get("/{id:uint}/calendar", optionalAuth, routes.GetCalendar)
		user.Get("/{id:uint}/calendar/export.ics", optionalAuth, routes.ExportCalendarICS)
	}

	event := app.Party("/api/events")
	{
		event.Post("/", accessTokenVerifierMiddleware, routes.CreateEvent)
		event.Get("/{id:uint}", optionalAuth, routes.GetEvent)
		event.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateEvent)
		event.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteEvent)
	}

	game := app.Party("/api/games", accessTokenVerifierMiddleware)
	{
		game.Post("/", routes.CreateGame)
		game.Get("/", routes.ListGames)
		game.Patch("/{id:uint}", routes.UpdateGame)
	}

	friend := app.Party("/api/friends", accessTokenVerifierMiddleware)
	{
		friend.Get("/", routes.ListFriends)
		friend.Delete("/{userID:uint}", routes.DeleteFriend)
		friend.Post("/requests", routes.SendFriendRequest)
		friend.Get("/requests", routes.ListIncomingRequests)
		friend.Post("/requests/{id:uint}/accept", routes.AcceptFriendRequest)
		friend.Post("/requests/{id:uint}/decline", routes.DeclineFriendRequest)
		friend.Delete("/requests/{id:uint}", routes.CancelFriendRequest)
	}

	calendar := app.Party("/api/calendar", accessTokenVerifierMiddleware)
	{
		calendar.Post("/share", routes.CreateShareLink)
	}

	notification := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notification.Get("/", routes.ListNotifications)
		notification.Post("/{id:uint}/read", routes.MarkNotificationRead)
	}

	app.Get("/api/todo", accessTokenVerifierMiddleware, routes.GetTodoList)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
