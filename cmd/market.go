package cmd

import (
	"strconv"
	"strings"

	"lendex/core"
	"lendex/handler/param"
	"lendex/handler/views"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var createMarketCmd = &cobra.Command{
	Use:     "create-market",
	Aliases: []string{"cm"},
	Short:   "create a market through the credit agency",
	Long: `flags->
	asset: market token, native denom or cw20:<addr>
	name, symbol, decimals: ltoken metadata
	cr: collateral ratio
	rf: reserve factor
	br, sr: base and slope of the linear interest rate
	period: interest charge period in seconds
	cap: optional upper bound of deposits
	oracle: price oracle address
	sender: governance account`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		asset, err := tokenFlag(cmd, "asset")
		if err != nil {
			return err
		}

		params := core.MarketParams{
			MarketToken: asset,
		}

		params.Name, _ = cmd.Flags().GetString("name")
		params.Symbol, _ = cmd.Flags().GetString("symbol")
		params.Symbol = strings.ToUpper(params.Symbol)
		params.Decimals, _ = cmd.Flags().GetUint8("decimals")
		params.TokenID, _ = cmd.Flags().GetUint64("token-id")
		params.InterestChargePeriod, _ = cmd.Flags().GetInt64("period")
		params.PriceOracle, _ = cmd.Flags().GetString("oracle")
		if params.PriceOracle == "" {
			params.PriceOracle = cfg.Oracle.Oracle
		}

		for flag, dst := range map[string]*decimal.Decimal{
			"cr": &params.CollateralRatio,
			"rf": &params.ReserveFactor,
			"br": &params.InterestRate.Base,
			"sr": &params.InterestRate.Slope,
		} {
			v, _ := cmd.Flags().GetString(flag)
			d, err := decimal.NewFromString(v)
			if err != nil {
				return err
			}
			*dst = d
		}

		if v, _ := cmd.Flags().GetString("cap"); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return err
			}
			params.MarketCap = decimal.NullDecimal{Decimal: d, Valid: true}
		}

		sender, _ := cmd.Flags().GetString("sender")
		if sender == "" {
			sender = cfg.Agency.GovContract
		}

		body := param.AgencyExecute{
			Sender: sender,
			Msg: param.AgencyMsg{
				CreateMarket: &params,
			},
		}

		var resp struct {
			Market   views.Market `json:"market"`
			Warnings []string     `json:"warnings"`
		}
		if err := postExecute(ctx, apiURL(cmd, "/agency/execute"), body, &resp); err != nil {
			return err
		}

		printStruct(cmd, resp.Market)
		for _, w := range resp.Warnings {
			cmd.PrintErrln("warning:", w)
		}

		return nil
	},
}

var liquidateCmd = &cobra.Command{
	Use:   "liquidate",
	Short: "repay an undercollateralised account's debt in exchange for its collateral",
	RunE: func(cmd *cobra.Command, args []string) error {
		debt, err := tokenFlag(cmd, "denom")
		if err != nil {
			return err
		}

		collateral, err := tokenFlag(cmd, "collateral")
		if err != nil {
			return err
		}

		v, _ := cmd.Flags().GetString("amount")
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}

		body := param.AgencyExecute{
			Funds: []core.Coin{core.NewCoin(debt, amount)},
			Msg: param.AgencyMsg{
				Liquidate: &param.LiquidateMsg{CollateralDenom: collateral},
			},
		}
		body.Sender, _ = cmd.Flags().GetString("sender")
		body.Msg.Liquidate.Account, _ = cmd.Flags().GetString("account")

		var resp core.Liquidation
		if err := postExecute(cmd.Context(), apiURL(cmd, "/agency/execute"), body, &resp); err != nil {
			return err
		}

		printStruct(cmd, resp)
		return nil
	},
}

var listMarketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "list markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		startAfter, _ := cmd.Flags().GetString("start-after")
		limit, _ := cmd.Flags().GetInt("limit")

		query := map[string]string{"limit": strconv.Itoa(limit)}
		if startAfter != "" {
			query["start_after"] = startAfter
		}

		var resp struct {
			Markets []views.Market `json:"markets"`
		}
		if err := getQuery(cmd.Context(), apiURL(cmd, "/agency/markets"), query, &resp); err != nil {
			return err
		}

		for idx, m := range resp.Markets {
			if idx > 0 {
				cmd.Println()
			}
			printStruct(cmd, m)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(createMarketCmd)
	rootCmd.AddCommand(listMarketsCmd)
	rootCmd.AddCommand(liquidateCmd)
	addAPIFlag(createMarketCmd, listMarketsCmd, liquidateCmd)

	createMarketCmd.Flags().String("asset", "", "market token")
	createMarketCmd.Flags().String("name", "", "ltoken name")
	createMarketCmd.Flags().String("symbol", "", "ltoken symbol")
	createMarketCmd.Flags().Uint8("decimals", 6, "ltoken decimals")
	createMarketCmd.Flags().Uint64("token-id", 0, "ltoken id")
	createMarketCmd.Flags().String("cr", "0.5", "collateral ratio")
	createMarketCmd.Flags().String("rf", "0", "reserve factor")
	createMarketCmd.Flags().String("br", "0", "base rate")
	createMarketCmd.Flags().String("sr", "0", "slope rate")
	createMarketCmd.Flags().Int64("period", 3600, "interest charge period in seconds")
	createMarketCmd.Flags().String("cap", "", "market cap, unbounded when empty")
	createMarketCmd.Flags().String("oracle", "", "price oracle, default the configured oracle")
	createMarketCmd.Flags().String("sender", "", "governance account, default the configured gov contract")

	liquidateCmd.Flags().String("account", "", "account to liquidate")
	liquidateCmd.Flags().String("collateral", "", "collateral market token to seize")
	liquidateCmd.Flags().String("denom", "", "debt market token to repay")
	liquidateCmd.Flags().String("amount", "0", "amount to repay")
	liquidateCmd.Flags().String("sender", "", "liquidator")

	listMarketsCmd.Flags().String("start-after", "", "market token to start after")
	listMarketsCmd.Flags().Int("limit", 10, "page size")
}
