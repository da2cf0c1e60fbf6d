package routes

import (
	"errors"
	"net/http"
	"strings"

	"gameplan-server/models"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	err := storage.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		utils.CreateConflict(ctx, "username or email already registered")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashed, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{Username: username, Email: email, Password: hashed}
	if err := storage.DB.Create(&user).Error; err != nil {
		// Unique index race between the existence check and the insert.
		utils.CreateConflict(ctx, "username or email already registered")
		return
	}

	returnUser(user, ctx)
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.JSONError(ctx, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	returnUser(user, ctx)
}

// GetMe returns the authenticated user's own record.
func GetMe(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx, "user not found")
		return
	}

	ctx.JSON(iris.Map{
		"ID":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"avatarURL": user.AvatarURL,
	})
}

// SearchUsers finds users by username substring so they can be sent friend
// requests. The caller is excluded from the results.
func SearchUsers(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if q == "" {
		ctx.JSON(iris.Map{"users": []models.PublicUser{}})
		return
	}

	var users []models.User
	storage.DB.Limit(limit).
		Where("lower(username) LIKE lower(?) AND id <> ?", "%"+q+"%", userID).
		Find(&users)

	results := make([]iris.Map, 0, len(users))
	for i := range users {
		results = append(results, iris.Map{
			"user":   users[i].Public(),
			"status": friendStatusLabel(userID, users[i].ID),
		})
	}
	ctx.JSON(iris.Map{"users": results})
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, err := utils.CreateTokenPair(user.ID, user.Username)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
