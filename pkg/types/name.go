package types

// NameClaim is the ownership assertion carried by a name-update script.
type NameClaim struct {
	Name    []byte
	Data    []byte
	Address Address
}

// NameOwnership is the output that currently holds a name and the coin
// locked in it.
type NameOwnership struct {
	Reference OutputReference
	Amount    Amount
}
