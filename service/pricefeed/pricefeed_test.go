package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendex/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullAllPriceTickers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/price", r.URL.Path)

		switch r.URL.Query().Get("sell") {
		case "native:ustake":
			_, _ = w.Write([]byte(`{"rate":"0.5"}`))
		case "native:ucosm":
			_, _ = w.Write([]byte(`{"rate":"2"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := New(core.PriceFeed{
		EndPoint: srv.URL,
		Pairs: []core.PricePair{
			{Sell: core.Native("ustake"), Buy: core.Native("ucosm")},
			{Sell: core.Native("ucosm"), Buy: core.Native("ustake")},
		},
	})

	tickers, err := s.PullAllPriceTickers(context.Background())
	require.Nil(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, "0.5", tickers[0].Rate.String())
	assert.Equal(t, "2", tickers[1].Rate.String())
	assert.Equal(t, "native:ustake", tickers[1].Buy.Key())

	_, err = s.PullPriceTicker(context.Background(), core.PricePair{Sell: core.Native("uatom"), Buy: core.Native("ucosm")})
	assert.NotNil(t, err)
}
