package cmd

import (
	"lendex/core"
	"lendex/handler/param"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type priceView struct {
	Sell        string `json:"sell"`
	Buy         string `json:"buy"`
	Rate        string `json:"rate"`
	LastUpdated int64  `json:"last_updated"`
}

var setPriceCmd = &cobra.Command{
	Use:     "set-price",
	Aliases: []string{"sp"},
	Short:   "set the exchange rate of a pair",
	Long: `flags->
	sell: token sold, native denom or cw20:<addr>
	buy: token bought
	rate: amount of buy per one sell
	sender: oracle account`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sell, err := tokenFlag(cmd, "sell")
		if err != nil {
			return err
		}

		buy, err := tokenFlag(cmd, "buy")
		if err != nil {
			return err
		}

		flag, _ := cmd.Flags().GetString("rate")
		rate, err := decimal.NewFromString(flag)
		if err != nil {
			return err
		}

		sender, _ := cmd.Flags().GetString("sender")
		if sender == "" {
			sender = cfg.Oracle.Oracle
		}

		body := param.OracleExecute{
			Sender: sender,
			Msg: param.OracleMsg{
				SetPrice: &param.SetPriceMsg{Sell: sell, Buy: buy, Rate: rate},
			},
		}

		var price core.Price
		if err := postExecute(ctx, apiURL(cmd, "/oracle/execute"), body, &price); err != nil {
			return err
		}

		printStruct(cmd, priceView{
			Sell:        price.Sell.Key(),
			Buy:         price.Buy.Key(),
			Rate:        price.Rate.String(),
			LastUpdated: price.LastUpdated,
		})
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "query the exchange rate of a pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		sell, _ := cmd.Flags().GetString("sell")
		buy, _ := cmd.Flags().GetString("buy")

		var resp struct {
			Rate decimal.Decimal `json:"rate"`
		}
		if err := getQuery(cmd.Context(), apiURL(cmd, "/oracle/price"), map[string]string{
			"sell": sell,
			"buy":  buy,
		}, &resp); err != nil {
			return err
		}

		cmd.Println(resp.Rate.String())
		return nil
	},
}

func tokenFlag(cmd *cobra.Command, name string) (core.Token, error) {
	v, _ := cmd.Flags().GetString(name)
	return core.ParseToken(v)
}

func init() {
	rootCmd.AddCommand(setPriceCmd)
	rootCmd.AddCommand(priceCmd)
	addAPIFlag(setPriceCmd, priceCmd)

	setPriceCmd.Flags().String("sell", "", "sell token")
	setPriceCmd.Flags().String("buy", "", "buy token")
	setPriceCmd.Flags().String("rate", "", "exchange rate")
	setPriceCmd.Flags().String("sender", "", "oracle account, default the configured oracle")

	priceCmd.Flags().String("sell", "", "sell token")
	priceCmd.Flags().String("buy", "", "buy token")
}
