package dto

type WebAppAuthRequest struct {
	InitData string `json:"init_data"`
}

type RegisterRequest struct {
	TelegramID int64   `json:"telegram_id"`
	UsernameTG *string `json:"username_tg,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	// Внутренний uuid реферера; неизвестный или чужой id молча игнорируется.
	ReferredByID *string `json:"referred_by_id,omitempty"`
}

type RegisterAddressRequest struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

type UpsertChatRequest struct {
	TelegramChatID int64   `json:"telegram_chat_id"`
	Title          string  `json:"title"`
	Username       *string `json:"username,omitempty"`
	IsPublic       bool    `json:"is_public"`
}

type CreateSquadRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

// Amounts travel as strings to keep decimal precision intact.
type DepositRequest struct {
	TokenID     string  `json:"token_id"`
	Amount      string  `json:"amount"`
	FromAddress string  `json:"from_address,omitempty"`
	Hash        *string `json:"hash,omitempty"`
}

type WithdrawRequest struct {
	TokenID   string `json:"token_id"`
	Amount    string `json:"amount"`
	ToAddress string `json:"to_address,omitempty"`
}

type RewardRequest struct {
	RecipientTelegramID int64   `json:"recipient_telegram_id"`
	TokenID             string  `json:"token_id"`
	Amount              string  `json:"amount"`
	Reason              *string `json:"reason,omitempty"`
}

type DropRequest struct {
	MemberUserID string  `json:"member_user_id"`
	TokenID      string  `json:"token_id"`
	Amount       string  `json:"amount"`
	Reason       *string `json:"reason,omitempty"`
}

// FreezeRequest targets any balance record; staff-only escrow control.
type FreezeRequest struct {
	OwnerKind string `json:"owner_kind"`
	OwnerID   string `json:"owner_id"`
	TokenID   string `json:"token_id"`
	Amount    string `json:"amount"`
}

type RewardPolicyRequest struct {
	TokenID string `json:"token_id"`
	Enabled bool   `json:"enabled"`
	Min     string `json:"min_reward_amount"`
	Max     string `json:"max_reward_amount"`
}
