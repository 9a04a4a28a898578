// internal/clients/gamification_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"autogestor/internal/gamification"
)

// GamificationClient calls the gamification service over HTTP. It satisfies
// the ScoreKeeper interfaces of the inventory and leads services.
type GamificationClient struct {
	baseURL string
}

func NewGamificationClient(baseURL string) *GamificationClient {
	return &GamificationClient{baseURL: baseURL}
}

// GetVendor fetches one vendor record.
func (c *GamificationClient) GetVendor(ctx context.Context, id uuid.UUID) (*gamification.Vendor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/vendors/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var vendor gamification.Vendor
	if err := json.NewDecoder(resp.Body).Decode(&vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// VendorExists reports whether the vendor id is registered.
func (c *GamificationClient) VendorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/vendors/%s", c.baseURL, id), nil)
	if err != nil {
		return false, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// CreditSale credits a completed sale to the vendor.
func (c *GamificationClient) CreditSale(ctx context.Context, vendorID uuid.UUID, saleValue int64) error {
	body, err := json.Marshal(map[string]int64{"sale_value": saleValue})
	if err != nil {
		return err
	}
	return c.post(ctx, fmt.Sprintf("%s/vendors/%s/credit-sale", c.baseURL, vendorID), body)
}

// CreditLead credits a converted lead to the vendor.
func (c *GamificationClient) CreditLead(ctx context.Context, vendorID uuid.UUID) error {
	return c.post(ctx, fmt.Sprintf("%s/vendors/%s/credit-lead", c.baseURL, vendorID), []byte("{}"))
}

func (c *GamificationClient) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
