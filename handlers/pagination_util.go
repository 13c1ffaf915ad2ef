package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/boyuanitsm/fort/utils"
)

// parsePageable builds a Pageable from the request's page/size query
// parameters.
func parsePageable(c *fiber.Ctx) utils.Pageable {
	return utils.NewPageable(c.Query("page"), c.Query("size"))
}

// parseID parses the :id path parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// setPaginationHeaders writes the X-Total-Count and Link headers for one page
// of a listing.
func setPaginationHeaders(c *fiber.Ctx, page utils.Pageable, total int64, baseURL string) {
	c.Set("X-Total-Count", strconv.FormatInt(total, 10))

	lastPage := page.TotalPages(total) - 1
	if lastPage < 0 {
		lastPage = 0
	}

	link := ""
	if page.Page < lastPage {
		link += pageLink(baseURL, page.Page+1, page.Size, "next") + ","
	}
	if page.Page > 0 {
		link += pageLink(baseURL, page.Page-1, page.Size, "prev") + ","
	}
	link += pageLink(baseURL, lastPage, page.Size, "last") + ","
	link += pageLink(baseURL, 0, page.Size, "first")
	c.Set("Link", link)
}

// setSearchPaginationHeaders is setPaginationHeaders with the search query
// preserved in the page links.
func setSearchPaginationHeaders(c *fiber.Ctx, query string, page utils.Pageable, total int64, baseURL string) {
	setPaginationHeaders(c, page, total, baseURL+"?query="+url.QueryEscape(query))
}

func pageLink(baseURL string, page, size int, rel string) string {
	sep := "?"
	if containsQuery(baseURL) {
		sep = "&"
	}
	return fmt.Sprintf("<%s%spage=%d&size=%d>; rel=\"%s\"", baseURL, sep, page, size, rel)
}

func containsQuery(baseURL string) bool {
	for _, r := range baseURL {
		if r == '?' {
			return true
		}
	}
	return false
}
