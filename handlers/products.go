package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/store"
)

type ProductCatalog interface {
	Query(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
}

type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

func ListProducts(products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.Query(c.Request.Context(), productFilter(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// productFilter reads the catalog query string. Malformed or non-positive
// values are treated as absent rather than rejected.
func productFilter(c *gin.Context) store.ProductFilter {
	var f store.ProductFilter
	if id, err := strconv.ParseInt(c.Query("categoryId"), 10, 64); err == nil && id > 0 {
		f.CategoryID = &id
	}
	f.Search = strings.TrimSpace(c.Query("search"))
	f.Brand = strings.TrimSpace(c.Query("brand"))
	f.MinPrice = positiveDecimal(c.Query("minPrice"))
	f.MaxPrice = positiveDecimal(c.Query("maxPrice"))
	if key, ok := store.ParseSortKey(c.Query("sortBy")); ok {
		f.SortBy = key
	}
	f.Descending = strings.EqualFold(c.Query("sortOrder"), "desc")
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	f.Offset, _ = strconv.Atoi(c.Query("offset"))
	return f
}

func positiveDecimal(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func FeaturedProducts(products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.Featured(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

func GetProduct(products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, err := products.Get(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func ListCategories(categories CategoryLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// nonNil keeps empty collections encoding as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
