package routes

import (
	"github.com/SameerManjrekar/hotel-booking/storage"
	"github.com/SameerManjrekar/hotel-booking/utils"
	"github.com/kataras/iris/v12"
)

type UploadImageInput struct {
	Image    string `json:"image" validate:"required"`
	PublicID string `json:"publicId"`
}

// UploadImage pushes a base64-encoded image to the upload service and returns
// the hosted URL for the client to attach to a hotel or room.
func UploadImage(ctx iris.Context) {
	var input UploadImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result := storage.UploadBase64Image(input.Image, input.PublicID)
	if result["url"] == "" {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to upload image", ctx)
		return
	}

	ctx.JSON(result)
}

type DeleteImageInput struct {
	ImageKey string `json:"imageKey" validate:"required"`
}

// DeleteUploadedImage removes an image from the upload service; called when a
// client discards an image before its owning record is saved.
func DeleteUploadedImage(ctx iris.Context) {
	var input DeleteImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !storage.DeleteImage(input.ImageKey) {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to delete image", ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
