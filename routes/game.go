package routes

import (
	"fmt"
	"slices"
	"time"

	"gameplan-server/models"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
)

type GameInput struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Genre       string     `json:"genre" validate:"omitempty,max=100"`
	Platform    string     `json:"platform"`
	Developer   string     `json:"developer" validate:"omitempty,max=100"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Color       string     `json:"color"`
	PictureLink string     `json:"pictureLink" validate:"omitempty,max=1000"`
	// Picture is an optional base64-encoded image; when set it is uploaded
	// and wins over PictureLink.
	Picture string `json:"picture"`
}

func validateGameInput(input *GameInput, ctx iris.Context) bool {
	if input.Platform != "" && !slices.Contains(models.GamePlatforms, input.Platform) {
		utils.CreateValidationError(ctx, "platform must be one of PC, PS, XBOX, NS")
		return false
	}
	if input.Color == "" {
		input.Color = "#FFFFFF"
	}
	if !slices.Contains(models.GameColors, input.Color) {
		utils.CreateValidationError(ctx, "unsupported color")
		return false
	}
	return true
}

func CreateGame(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var input GameInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateGameInput(&input, ctx) {
		return
	}

	game := models.Game{
		UserID:      userID,
		Name:        input.Name,
		Genre:       input.Genre,
		Platform:    input.Platform,
		Developer:   input.Developer,
		ReleaseDate: input.ReleaseDate,
		Color:       input.Color,
		PictureLink: input.PictureLink,
	}
	if err := storage.DB.Create(&game).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if input.Picture != "" {
		if url := storage.UploadGameImage(input.Picture, fmt.Sprintf("game-%d", game.ID)); url != "" {
			game.PictureLink = url
			storage.DB.Model(&game).Update("picture_link", url)
		}
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(game)
}

func UpdateGame(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "game not found")
		return
	}

	var game models.Game
	if storage.DB.First(&game, id).Error != nil {
		utils.CreateNotFound(ctx, "game not found")
		return
	}
	if game.UserID != userID {
		utils.CreateForbidden(ctx, "you do not own this game")
		return
	}

	var input GameInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateGameInput(&input, ctx) {
		return
	}

	game.Name = input.Name
	game.Genre = input.Genre
	game.Platform = input.Platform
	game.Developer = input.Developer
	game.ReleaseDate = input.ReleaseDate
	game.Color = input.Color
	if input.PictureLink != "" {
		game.PictureLink = input.PictureLink
	}
	if input.Picture != "" {
		if url := storage.UploadGameImage(input.Picture, fmt.Sprintf("game-%d", game.ID)); url != "" {
			game.PictureLink = url
		}
	}

	if err := storage.DB.Save(&game).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(game)
}

// ListGames returns the caller's games, most recently created first.
func ListGames(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var games []models.Game
	storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&games)
	ctx.JSON(iris.Map{"games": games})
}
