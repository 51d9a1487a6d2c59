package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// VerifyStatus classifies the outcome of a deliverability check.
type VerifyStatus int

const (
	// VerifyValid means the service reports the address deliverable with a
	// quality score above the acceptance threshold.
	VerifyValid VerifyStatus = iota
	// VerifyInvalid means the service answered but the address failed the
	// acceptance rule. This is a business rejection, not a fault.
	VerifyInvalid
	// VerifyUnavailable means the check could not be completed. Callers
	// treat this as non-blocking.
	VerifyUnavailable
)

// UnavailableMessage is stored as the validation status when the
// deliverability service cannot be reached.
const UnavailableMessage = "Validation unavailable"

// qualityThreshold is the minimum score (exclusive) for a deliverable
// address to be accepted.
const qualityThreshold = 0.7

// VerifyResult is the classified outcome of one deliverability check.
type VerifyResult struct {
	Status  VerifyStatus
	Message string
}

// EmailVerifier checks addresses against the external deliverability
// service. One best-effort call per check, no retries.
type EmailVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewEmailVerifier creates an EmailVerifier for the given service endpoint.
func NewEmailVerifier(baseURL, apiKey string) *EmailVerifier {
	return &EmailVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Check queries the deliverability service for one address. Any transport
// failure or malformed response degrades to VerifyUnavailable.
func (v *EmailVerifier) Check(ctx context.Context, address string) VerifyResult {
	unavailable := VerifyResult{Status: VerifyUnavailable, Message: UnavailableMessage}

	q := url.Values{}
	q.Set("api_key", v.apiKey)
	q.Set("email", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return unavailable
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailable
	}

	// quality_score arrives as a JSON string from the service.
	var body struct {
		Deliverability string      `json:"deliverability"`
		QualityScore   json.Number `json:"quality_score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return unavailable
	}
	if body.Deliverability == "" {
		return unavailable
	}

	score, err := body.QualityScore.Float64()
	if err != nil {
		return unavailable
	}

	if body.Deliverability == "DELIVERABLE" && score > qualityThreshold {
		return VerifyResult{
			Status:  VerifyValid,
			Message: fmt.Sprintf("Email verified: %s (score %.2f)", body.Deliverability, score),
		}
	}
	return VerifyResult{
		Status:  VerifyInvalid,
		Message: fmt.Sprintf("Email rejected: %s (score %.2f)", body.Deliverability, score),
	}
}
