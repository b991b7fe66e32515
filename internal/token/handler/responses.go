package handler

// MintResponse returns the id assigned to a freshly staked token.
type MintResponse struct {
	TokenID uint64 `json:"token_id"`
}

// TokenResponse is the public view of a staked token.
type TokenResponse struct {
	TokenID       uint64 `json:"token_id"`
	Latitude      int64  `json:"latitude"`
	Longitude     int64  `json:"longitude"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Locked        bool   `json:"locked"`
	StakeSequence uint64 `json:"stake_sequence"`
}

// OwnerResponse names the current holder of a token.
type OwnerResponse struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
}

// UnlockedResponse reports the lock state of a token.
type UnlockedResponse struct {
	TokenID  uint64 `json:"token_id"`
	Unlocked bool   `json:"unlocked"`
}

// HasUnlockedResponse reports whether an identity has ever unlocked a token.
type HasUnlockedResponse struct {
	TokenID  uint64 `json:"token_id"`
	Identity string `json:"identity"`
	Unlocked bool   `json:"unlocked"`
}

// LastTokenIDResponse reports the most recently minted token id; zero means
// nothing has been minted yet.
type LastTokenIDResponse struct {
	LastTokenID uint64 `json:"last_token_id"`
}

// TokenURIResponse carries the token's metadata reference.
type TokenURIResponse struct {
	TokenID uint64 `json:"token_id"`
	URI     string `json:"uri"`
}
