package models

// Intent is the structured result of speech intent extraction
type Intent struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
	Biller string `json:"biller"`
}
