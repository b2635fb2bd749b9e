package cmd

import (
	"context"
	"time"

	"lendex/core"
	"lendex/handler/hc"
	agencyservice "lendex/service/agency"
	marketservice "lendex/service/market"
	oracleservice "lendex/service/oracle"
	"lendex/service/pricefeed"
	"lendex/store/market"
	"lendex/store/memory"
	"lendex/store/position"
	"lendex/store/price"
	"lendex/store/session"
	"lendex/store/transfer"

	"github.com/fox-one/pkg/store/db"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// backend stores and transactor sharing one database
type backend struct {
	Name       string
	Ping       hc.Pinger
	Transactor core.Transactor
	Prices     core.IPriceStore
	Markets    core.IMarketStore
	Positions  core.IPositionStore
	Transfers  core.ITransferStore

	close func() error
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// provideBackend sql stores when a dialect is configured, in memory otherwise
func provideBackend() *backend {
	exp := time.Duration(cfg.PriceCacheSeconds) * time.Second

	if cfg.UseMemory() {
		d := memory.New()
		return &backend{
			Name:       "memory",
			Transactor: d,
			Prices:     price.Cache(d.Prices(), exp),
			Markets:    d.Markets(),
			Positions:  d.Positions(),
			Transfers:  d.Transfers(),
		}
	}

	database := provideDatabase()
	return &backend{
		Name: cfg.DB.Dialect,
		Ping: func(ctx context.Context) error {
			return database.Update().DB().PingContext(ctx)
		},
		Transactor: session.New(database),
		Prices:     price.Cache(price.New(database), exp),
		Markets:    market.New(database),
		Positions:  position.New(database),
		Transfers:  transfer.New(database),
		close: func() error {
			database.Close()
			return nil
		},
	}
}

type services struct {
	Oracle  core.IOracleService
	Agency  core.IAgencyService
	Markets core.IMarketService
}

func provideServices(b *backend) *services {
	oracle := oracleservice.New(b.Prices, b.Transactor, cfg.Oracle)
	agency := agencyservice.New(b.Markets, b.Positions, oracle, b.Transactor, cfg.Agency)
	markets := marketservice.New(b.Markets, b.Positions, b.Transfers, oracle, agency, b.Transactor)

	return &services{
		Oracle:  oracle,
		Agency:  agency,
		Markets: markets,
	}
}

func providePriceFeedService() core.IPriceFeedService {
	return pricefeed.New(cfg.PriceFeed)
}
