package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/landregistry/internal/errors"
)

// dateLayout is the calendar date format accepted in request bodies and queries.
const dateLayout = "2006-01-02"

var (
	parcelIDPattern = regexp.MustCompile(`^LP-\d{4}-\d{4,}$`)
	registerOnce    sync.Once
)

// RegisterValidators installs the custom binding tags used by the request
// DTOs and reports field names by their json or form key. It is safe to call
// more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("wallet", validWallet)
		_ = v.RegisterValidation("parcel_id", validParcelID)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// validWallet accepts 0x-prefixed 20 byte hex addresses.
func validWallet(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	return common.IsHexAddress(s)
}

func validParcelID(fl validator.FieldLevel) bool {
	return parcelIDPattern.MatchString(fl.Field().String())
}

// respondBindError writes the envelope for a failed ShouldBind call.
func respondBindError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, nil)
}

// parseDate parses an optional YYYY-MM-DD value as midnight UTC.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// endOfDay returns the last instant of the day starting at t.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+param, map[string]interface{}{
			param: "Must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// PageInfo describes the page returned by a list endpoint.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// ListResponse is the envelope for every paginated list endpoint.
type ListResponse[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

func newPageInfo(page, limit int, total int64) PageInfo {
	info := PageInfo{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		info.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return info
}
