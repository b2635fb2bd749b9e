package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lendex/core"
	"lendex/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PriceService pulls tickers from a http price source
type PriceService struct {
	Config core.PriceFeed
}

// New new price feed service
func New(cfg core.PriceFeed) core.IPriceFeedService {
	return &PriceService{
		Config: cfg,
	}
}

type tickerResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// PullPriceTicker pull price ticker of a pair
func (s *PriceService) PullPriceTicker(ctx context.Context, pair core.PricePair) (*core.PriceTicker, error) {
	if s.Config.EndPoint == "" {
		return nil, errors.New("price feed end point not set")
	}

	url := strings.TrimSuffix(s.Config.EndPoint, "/") + "/api/v1/price"
	logger.FromContext(ctx).Debugln("pull price:", url, pair.Sell, pair.Buy)

	resp, err := resthttp.Request(ctx).
		SetQueryParam("sell", pair.Sell.Key()).
		SetQueryParam("buy", pair.Buy.Key()).
		Get(url)
	if err != nil {
		return nil, err
	}

	var ticker tickerResponse
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	if !ticker.Rate.IsPositive() {
		return nil, fmt.Errorf("invalid ticker rate %s for %s -> %s", ticker.Rate, pair.Sell, pair.Buy)
	}

	return &core.PriceTicker{
		Sell: pair.Sell,
		Buy:  pair.Buy,
		Rate: ticker.Rate,
	}, nil
}

// PullAllPriceTickers pull the tickers of every configured pair concurrently
func (s *PriceService) PullAllPriceTickers(ctx context.Context) ([]*core.PriceTicker, error) {
	tickers := make([]*core.PriceTicker, len(s.Config.Pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, pair := range s.Config.Pairs {
		i, pair := i, pair
		g.Go(func() error {
			ticker, err := s.PullPriceTicker(ctx, pair)
			if err != nil {
				return err
			}

			tickers[i] = ticker
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tickers, nil
}
