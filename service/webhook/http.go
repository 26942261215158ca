package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/khaledhikmat/vs-analyzer/service/config"
	"golang.org/x/xerrors"
)

type httpService struct {
	CfgSvc config.IService
	client *http.Client
}

// New returns an HTTP webhook when a URL is configured and a fake otherwise.
func New(cfgsvc config.IService) IService {
	if cfgsvc.GetWebhookURL() == "" {
		return NewFake()
	}
	return &httpService{
		CfgSvc: cfgsvc,
		client: &http.Client{
			Timeout: cfgsvc.GetWebhookTimeout(),
		},
	}
}

func (svc *httpService) Post(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return xerrors.Errorf("marshalling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.CfgSvc.GetWebhookURL(), bytes.NewReader(body))
	if err != nil {
		return xerrors.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return xerrors.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return xerrors.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
