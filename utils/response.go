package utils

import (
	"github.com/kataras/iris/v12"
)

// TotalPages is ceil(total/limit); 0 when nothing matched.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

func JSONError(ctx iris.Context, status int, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"message": message})
}
