package routes

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/anshvert/Book-Review/models"
	"github.com/anshvert/Book-Review/storage"
	"github.com/anshvert/Book-Review/utils"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse carries a review with its author reduced to a display
// name; nothing from the user row beyond that leaves the service.
type ReviewResponse struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"bookID"`
	UserID    uint      `json:"userID"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	User      struct {
		Username string `json:"username"`
	} `json:"user"`
}

func newReviewResponse(review models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        review.ID,
		BookID:    review.BookID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		resp.User.Username = review.User.Username
	}
	return resp
}

func authenticatedUserID(ctx iris.Context) (uint, bool) {
	userIDValue := ctx.Values().Get("userID")
	userID, ok := userIDValue.(uint)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return userID, true
}

func CreateReview(ctx iris.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	bookID := ctx.Params().GetUintDefault("id", 0)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var book models.Book
	if err := storage.DB.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusNotFound, "Book not found")
			return
		}
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error submitting review")
		return
	}

	review := models.Review{
		BookID:  book.ID,
		UserID:  userID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}

	// No prior existence check: the insert itself is the serialization
	// point, so two concurrent submissions cannot both succeed.
	if err := storage.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(ctx, iris.StatusBadRequest, "You have already reviewed this book")
			return
		}
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error submitting review")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

func UpdateReview(ctx iris.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	reviewID := ctx.Params().GetUintDefault("id", 0)

	var input UpdateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusNotFound, "Review not found")
			return
		}
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error updating review")
		return
	}

	if review.UserID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "Not authorized to update this review")
		return
	}

	// Zero values mean "keep what is stored": a rating of 0 or an empty
	// comment cannot be set through this endpoint.
	if input.Rating != 0 {
		review.Rating = input.Rating
	}
	if input.Comment != "" {
		review.Comment = input.Comment
	}

	if err := storage.DB.Save(&review).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error updating review")
		return
	}

	ctx.JSON(review)
}

func DeleteReview(ctx iris.Context) {
	userID, ok := authenticatedUserID(ctx)
	if !ok {
		return
	}
	reviewID := ctx.Params().GetUintDefault("id", 0)

	var review models.Review
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusNotFound, "Review not found")
			return
		}
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error deleting review")
		return
	}

	if review.UserID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "Not authorized to delete this review")
		return
	}

	// Hard delete: a soft-deleted row would keep holding the
	// (book_id, user_id) slot and block a future review.
	if err := storage.DB.Unscoped().Delete(&review).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error deleting review")
		return
	}

	ctx.JSON(iris.Map{"message": "Review deleted"})
}
