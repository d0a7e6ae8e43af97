package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/apierror"
	"buildhub-state/internal/slice/contractor"

	"github.com/go-resty/resty/v2"
)

type contractorAPI struct {
	client *resty.Client
}

var _ contractor.API = (*contractorAPI)(nil)

// NewContractorAPI returns the REST client for the marketplace contractor
// endpoints. Requests are never retried.
func NewContractorAPI(baseURL string, timeout time.Duration) contractor.API {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &contractorAPI{client: c}
}

// NewContractorAPIWithClient is used by tests to point at a local server.
func NewContractorAPIWithClient(client *resty.Client) contractor.API {
	return &contractorAPI{client: client}
}

// envelope is the {success, data} wrapper some endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    any             `json:"code"`
	Details map[string]any  `json:"details"`
}

func (a *contractorAPI) ListContractors(ctx context.Context, params dto.ListContractorsParams) (dto.ContractorListResponse, error) {
	body, err := a.get(ctx, "/api/contractors", map[string]string{
		"page":  strconv.Itoa(params.Page),
		"limit": strconv.Itoa(params.Limit),
	})
	if err != nil {
		return dto.ContractorListResponse{}, err
	}

	var resp dto.ContractorListResponse
	if isArray(body) {
		if err := json.Unmarshal(body, &resp.Contractors); err != nil {
			return resp, fmt.Errorf("decode contractors: %w", err)
		}
		return resp, nil
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode contractors: %w", err)
	}
	return resp, nil
}

func (a *contractorAPI) SearchContractors(ctx context.Context, query string) ([]entity.Contractor, error) {
	body, err := a.get(ctx, "/api/contractors/search", map[string]string{"q": query})
	if err != nil {
		return nil, err
	}

	var list []entity.Contractor
	if isArray(body) {
		err = json.Unmarshal(body, &list)
	} else {
		var resp dto.ContractorListResponse
		err = json.Unmarshal(body, &resp)
		list = resp.Contractors
	}
	if err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return list, nil
}

func (a *contractorAPI) GetContractor(ctx context.Context, id string) (*entity.Contractor, error) {
	body, err := a.get(ctx, "/api/contractors/{id}", nil, id)
	if err != nil {
		return nil, err
	}
	var c entity.Contractor
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("decode contractor: %w", err)
	}
	return &c, nil
}

// get performs a GET and returns the unwrapped payload.
func (a *contractorAPI) get(ctx context.Context, path string, query map[string]string, id ...string) (json.RawMessage, error) {
	req := a.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if len(id) > 0 {
		req.SetPathParam("id", id[0])
	}

	resp, err := req.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apierror.Network(err)
	}

	raw := resp.Body()
	env, wrapped := unwrap(raw)
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, toAPIError(resp.StatusCode(), env, wrapped)
	}
	if wrapped {
		if env.Success != nil && !*env.Success {
			return nil, toAPIError(resp.StatusCode(), env, wrapped)
		}
		return env.Data, nil
	}
	return raw, nil
}

func unwrap(raw []byte) (envelope, bool) {
	var env envelope
	if isArray(raw) || json.Unmarshal(raw, &env) != nil {
		return envelope{}, false
	}
	return env, env.Success != nil
}

func toAPIError(status int, env envelope, wrapped bool) *apierror.ApiError {
	msg := env.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "Request failed"
	}
	apiErr := apierror.New(status, msg)
	apiErr.Details = env.Details
	if wrapped && env.Code != nil {
		if apiErr.Details == nil {
			apiErr.Details = map[string]any{}
		}
		apiErr.Details["code"] = env.Code
	}
	return apiErr
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
