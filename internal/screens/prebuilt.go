package screens

import "time"

var prebuiltCreated = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var prebuiltScreens = []Screen{
	{
		ID:          "quality-large-caps",
		Title:       "Quality Large Caps",
		Description: "Large companies with high return on equity and capital employed",
		Query:       "market_cap > 20000 AND roe_per > 15 AND roce_per > 15",
	},
	{
		ID:          "low-debt-compounders",
		Title:       "Low Debt Compounders",
		Description: "Consistent earnings growth with little leverage",
		Query:       "debt_to_equity < 0.5 AND eps_growth_5y > 15 AND rev_growth_5y > 10",
	},
	{
		ID:          "near-52-week-low",
		Title:       "Near 52 Week Low",
		Description: "Stocks trading within ten percent of their 52 week low",
		Query:       "current_price <= low_52w * 1.1 AND market_cap > 5000",
	},
	{
		ID:          "high-dividend-yield",
		Title:       "High Dividend Yield",
		Description: "Dividend payers with a yield above four percent and a sustainable payout",
		Query:       "dividend_yield_per > 4 AND payout_ratio_ttm < 80",
	},
	{
		ID:          "cheap-on-ev-ebitda",
		Title:       "Cheap on EV/EBITDA",
		Description: "Profitable companies valued below eight times EBITDA",
		Query:       "ev_ebitda_ttm < 8 AND ev_ebitda_ttm > 0 AND opm_per > 10",
	},
	{
		ID:          "momentum-leaders",
		Title:       "Momentum Leaders",
		Description: "Strong six month and one year price returns",
		Query:       "price_ret_daily_26w > 20 AND price_ret_daily_52w > 30",
	},
	{
		ID:          "graham-value",
		Title:       "Graham Value",
		Description: "Low price to earnings and price to book with a margin of safety",
		Query:       "stock_p_e < 15 AND price_to_book_value < 1.5 AND current_price < book_value * 1.5",
	},
}

// Prebuilt returns the built-in screens. They are published and read-only.
func Prebuilt() []Screen {
	out := make([]Screen, len(prebuiltScreens))
	for i, sc := range prebuiltScreens {
		sc.Category = CategoryPrebuilt
		sc.Publish = true
		sc.CreatedAt = prebuiltCreated
		out[i] = sc
	}
	return out
}
