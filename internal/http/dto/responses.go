package dto

// Response is the API envelope: result is "success" or "error",
// data carries the payload, error_message the failure text.
type Response struct {
	Result       string `json:"result"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func Success(data any) Response {
	return Response{Result: "success", Data: data}
}

func Error(msg string) Response {
	return Response{Result: "error", ErrorMessage: msg}
}

type RegisterResponse struct {
	Created bool   `json:"created"`
	Token   string `json:"token"`
	Beta    bool   `json:"beta"`
	Alpha   bool   `json:"alpha"`
	// Telegram id реферера — сигнал боту на выплату бонуса.
	ReferredByTelegramID *int64 `json:"referred_by_telegram_id,omitempty"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh,omitempty"`
	User    any    `json:"user"`
}

type ProfileResponse struct {
	User      any `json:"user"`
	Addresses any `json:"addresses"`
}

type MembersResponse struct {
	Members any `json:"members"`
	// Owner counts toward membership but is not listed.
	Count int `json:"count"`
}

type JoinResponse struct {
	Joined bool `json:"joined"`
	Member any  `json:"member,omitempty"`
}

type AddressAddedResponse struct {
	Added  bool `json:"added"`
	Wallet any  `json:"wallet,omitempty"`
}
