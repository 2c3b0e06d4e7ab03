package api

import (
	"encoding/json"
	"fmt"
)

// Account is the backend's view of a connected messaging account. The
// controller never mutates one in place; it re-fetches the collection after
// every write.
type Account struct {
	ID      string `json:"_id,omitempty"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
	AddedOn string `json:"added_on,omitempty"`
}

type ForwardingRule struct {
	ID              string `json:"_id,omitempty"`
	AccountPhone    string `json:"account_phone"`
	SourceChat      string `json:"source_chat"`
	DestinationChat string `json:"destination_chat"`
	Filters         string `json:"filters,omitempty"`
	Status          string `json:"status,omitempty"`
}

type Plan struct {
	ID           string  `json:"_id,omitempty"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

type AdminUser struct {
	ID              string `json:"_id,omitempty"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	PlanID          string `json:"plan_id,omitempty"`
	SubscriptionEnd string `json:"subscription_end_date,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

type JoinResult struct {
	Link   string `json:"link"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type AutoReplySettings struct {
	AccountPhone string `json:"account_phone"`
	Message      string `json:"message"`
	Keywords     string `json:"keywords,omitempty"`
}

type SmartSellingSettings struct {
	AccountPhone string `json:"account_phone"`
	Enabled      bool   `json:"enabled"`
	MustContain  string `json:"must_contain,omitempty"`
	MaybeContain string `json:"maybe_contain,omitempty"`
	Message      string `json:"message"`
}

type ValidationResult struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

type ExtractionRequest struct {
	AccountPhone string `json:"account_phone"`
	ChannelLink  string `json:"channel_link"`
	ExtractType  string `json:"extract_type"`
	Limit        int    `json:"limit"`
}

// ExtractionResult's data field is a list of matches on success but a bare
// error string on failure, so it gets a forgiving decoder.
type ExtractionResult struct {
	Status string
	Data   []string
	Detail string
}

func (r *ExtractionResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Status = raw.Status
	r.Data = nil
	r.Detail = ""
	if len(raw.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw.Data, &r.Data); err == nil {
		return nil
	}
	if err := json.Unmarshal(raw.Data, &r.Detail); err != nil {
		return fmt.Errorf("extraction data is neither list nor string: %w", err)
	}
	return nil
}

type ForwardingJob struct {
	AccountPhone string   `json:"account_phone"`
	MessageLink  string   `json:"message_link"`
	Delay        int      `json:"delay"`
	CycleDelay   int      `json:"cycle_delay"`
	Targets      []string `json:"targets"`
	HideSender   bool     `json:"hide_sender"`
}

type JobResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Subscription struct {
	PlanID string `json:"plan_id"`
}

// statusResponse covers the `{status, message}` envelopes most write
// endpoints answer with.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
