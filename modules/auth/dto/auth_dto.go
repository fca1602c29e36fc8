package dto

type AuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type ConnectResponse struct {
	Connected    bool   `json:"connected"`
	Provider     string `json:"provider"`
	NextStep     string `json:"next_step,omitempty"`
	ConnectionID string `json:"connection_id"`
}
