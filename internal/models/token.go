package models

import "time"

// Token is one entry from the provider's token list. Field names follow the
// wire format; values are passed through unmodified.
type Token struct {
	Address           string  `json:"address"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Decimals          int     `json:"decimals"`
	Price             float64 `json:"price"`
	Volume24hUSD      float64 `json:"v24hUSD"`
	Change24hPercent  float64 `json:"v24hChangePercent"`
	Liquidity         float64 `json:"liquidity"`
	MarketCap         float64 `json:"mc"`
	LastTradeUnixTime int64   `json:"lastTradeUnixTime"`
	LogoURI           string  `json:"logoURI"`
}

func (t Token) LastTradeTime() time.Time {
	return time.Unix(t.LastTradeUnixTime, 0).UTC()
}
