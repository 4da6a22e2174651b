package models

type CardStatus string

const (
	CardActive   CardStatus = "active"
	CardFrozen   CardStatus = "frozen"
	CardToFreeze CardStatus = "to_be_frozen"
)

// Card links back to its account by IBAN only; the account owns the card.
type Card struct {
	Number       string     `json:"number"`
	AccountIBAN  string     `json:"account"`
	Status       CardStatus `json:"status"`
	CreatorEmail string     `json:"creator"`
	OneTime      bool       `json:"one_time"`
}
