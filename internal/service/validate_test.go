package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCollectionDate(t *testing.T) {
	assert.Nil(t, validateCollectionDate("2026-08-14"))
	assert.Nil(t, validateCollectionDate("2026-12-31"))

	for _, bad := range []string{"", "14-08-2026", "2026/08/14", "2026-13-01", "tomorrow"} {
		t.Run(bad, func(t *testing.T) {
			apiErr := validateCollectionDate(bad)
			require.NotNil(t, apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Code)
		})
	}
}

func TestUpstreamDateFormat(t *testing.T) {
	assert.Equal(t, "14-08-2026", upstreamDateFormat("2026-08-14"))
	assert.Equal(t, "01-01-2027", upstreamDateFormat("2027-01-01"))
}
