package render

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendex/core"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(core.ErrMarketNotFound))
	assert.Equal(t, http.StatusConflict, StatusOf(core.ErrMarketAlreadyExists))
	assert.Equal(t, http.StatusConflict, StatusOf(core.ErrVersionConflict))
	assert.Equal(t, http.StatusBadRequest, StatusOf(core.ErrLiquidationNotAllowed))
}

func TestErr(t *testing.T) {
	w := httptest.NewRecorder()
	Err(w, fmt.Errorf("position: %w", core.ErrVersionConflict))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":100400`)

	w = httptest.NewRecorder()
	Err(w, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":100000`)
	assert.NotContains(t, w.Body.String(), "boom")
}
