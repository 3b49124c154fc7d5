package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus("TENANT_BLOCKED"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_PAID"))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("INSUFFICIENT_STOCK"))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus("REMOTE_PURGE_FAILED"))
}

func TestGetHTTPStatus_InvalidPrefixFallback(t *testing.T) {
	// Domain validation codes not in the table still map to 400
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_CPF"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_MONTH_REF"))
}

func TestGetHTTPStatus_UnknownCodeIsInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestListRequestToFilter(t *testing.T) {
	f := ListRequest{}.ToFilter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)

	f = ListRequest{Page: 3, PageSize: 50, Search: "maria"}.ToFilter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, "maria", f.Search)
}
