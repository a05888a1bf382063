package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
)

const maxPageSize = 100

func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, aegis_errors.ErrInvalidPagination
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, aegis_errors.ErrInvalidPagination
	}
	if limit <= 0 || offset < 0 {
		return 0, 0, aegis_errors.ErrInvalidPagination
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, offset, nil
}
