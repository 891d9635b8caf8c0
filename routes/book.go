package routes

import (
	"errors"
	"strings"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/anshvert/Book-Review/models"
	"github.com/anshvert/Book-Review/storage"
	"github.com/anshvert/Book-Review/utils"
)

type CreateBookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// likePattern builds a case-insensitive LIKE pattern from raw user input.
// LIKE metacharacters are escaped so they match literally instead of
// letting callers smuggle wildcards into the query.
func likePattern(input string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(input)
	return "%" + strings.ToLower(escaped) + "%"
}

func CreateBook(ctx iris.Context) {
	var input CreateBookInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	book := models.Book{
		Title:  input.Title,
		Author: input.Author,
		Genre:  input.Genre,
	}
	if err := storage.DB.Create(&book).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error adding book")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(book)
}

func ListBooks(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 10)
	author := ctx.URLParam("author")
	genre := ctx.URLParam("genre")

	query := storage.DB.Model(&models.Book{})
	if author != "" {
		query = query.Where(`lower(author) LIKE ? ESCAPE '\'`, likePattern(author))
	}
	if genre != "" {
		query = query.Where(`lower(genre) LIKE ? ESCAPE '\'`, likePattern(genre))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching books")
		return
	}

	books := make([]models.Book, 0)
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&books).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching books")
		return
	}

	ctx.JSON(iris.Map{
		"books": books,
		"total": total,
		"page":  page,
		"pages": utils.TotalPages(total, limit),
	})
}

// GetBook returns a book together with a page of its reviews. The review
// count and average rating cover every review of the book, not just the
// requested page, and both come from the store rather than from walking
// rows in the handler.
func GetBook(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 5)

	var book models.Book
	if err := storage.DB.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusNotFound, "Book not found")
			return
		}
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching book details")
		return
	}

	var reviews []models.Review
	if err := storage.DB.Preload("User").
		Where("book_id = ?", book.ID).
		Order("created_at, id").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching book details")
		return
	}

	var totalReviews int64
	if err := storage.DB.Model(&models.Review{}).
		Where("book_id = ?", book.ID).
		Count(&totalReviews).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching book details")
		return
	}

	var averageRating float64
	if err := storage.DB.Model(&models.Review{}).
		Where("book_id = ?", book.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&averageRating).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error fetching book details")
		return
	}

	reviewResponses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		reviewResponses = append(reviewResponses, newReviewResponse(review))
	}

	ctx.JSON(iris.Map{
		"book":          book,
		"reviews":       reviewResponses,
		"totalReviews":  totalReviews,
		"averageRating": averageRating,
		"page":          page,
		"pages":         utils.TotalPages(totalReviews, limit),
	})
}

func SearchBooks(ctx iris.Context) {
	q := strings.TrimSpace(ctx.URLParam("q"))
	if q == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "Search query is required")
		return
	}

	books := make([]models.Book, 0)
	pattern := likePattern(q)
	if err := storage.DB.
		Where(`lower(title) LIKE ? ESCAPE '\' OR lower(author) LIKE ? ESCAPE '\'`, pattern, pattern).
		Find(&books).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "Error searching books")
		return
	}

	ctx.JSON(books)
}
