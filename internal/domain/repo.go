package domain

// RepoReference describes one repository returned by the listing endpoint.
type RepoReference struct {
	Name            string `json:"name"`
	FullName        string `json:"fullName"`
	Description     string `json:"description,omitempty"`
	Private         bool   `json:"isPrivate"`
	CloneURL        string `json:"cloneUrl"`
	PrimaryLanguage string `json:"primaryLanguage,omitempty"`
}

// KeyCheck is the response of the api-key-check endpoint. When HasKey is
// false, Provider names the missing provider.
type KeyCheck struct {
	HasKey    bool   `json:"hasKey"`
	Provider  string `json:"provider"`
	AgentName string `json:"agentName"`
}
