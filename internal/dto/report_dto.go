package dto

import "github.com/shopspring/decimal"

// FinancialsEntry is one purchase with the names of the items sold in it.
type FinancialsEntry struct {
	ID        string          `json:"id"`
	TotalCost decimal.Decimal `json:"total_cost"`
	ItemCount int             `json:"item_count"`
	CreatedAt string          `json:"created_at"`
	Items     []string        `json:"items"`
}

type TopItem struct {
	ItemName string `json:"item_name"`
	Count    int64  `json:"count"`
}

type StatsResponse struct {
	Circulation     decimal.Decimal `json:"circulation"`
	UserCount       int64           `json:"userCount"`
	AvgPerPerson    decimal.Decimal `json:"avgPerPerson"`
	TopItems        []TopItem       `json:"topItems"`
	LifetimeRevenue decimal.Decimal `json:"lifetimeRevenue"`
}
