package handler

// MintRequest stakes a new token at the given scaled coordinates.
type MintRequest struct {
	Latitude    int64  `json:"latitude"`
	Longitude   int64  `json:"longitude"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnlockRequest carries the claimed physical position of the caller.
type UnlockRequest struct {
	Latitude  int64 `json:"latitude"`
	Longitude int64 `json:"longitude"`
}

// TransferRequest names the identity receiving the token.
type TransferRequest struct {
	Recipient string `json:"recipient"`
}

// RestakeRequest moves the token's staked location.
type RestakeRequest struct {
	Latitude  int64 `json:"latitude"`
	Longitude int64 `json:"longitude"`
}
