package server

import "github.com/sig-0/flip/storage/types"

type CurrencyInfo struct {
	Name types.Currency `json:"name"`
	ID   int            `json:"id"`
	Tier int            `json:"tier"`
}

type CurrenciesResponse struct {
	Results []CurrencyInfo `json:"results"`
}

type LeaguesResponse struct {
	Results []string `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
