package domain

// Workspace is the resolved handle of the ML workspace the pipeline works in.
type Workspace struct {
	SubscriptionID string `json:"subscription_id"`
	ResourceGroup  string `json:"resource_group"`
	Name           string `json:"name"`
	Location       string `json:"location,omitempty"`
	ResourceID     string `json:"resource_id,omitempty"`
}
