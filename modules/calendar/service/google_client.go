package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gig-roster-api/core/errors"
	"gig-roster-api/core/logger"
	"gig-roster-api/modules/calendar/dto"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleEventsPath      = "/calendars/primary/events"
	googleChannelStopPath = "/channels/stop"

	transientRetryDelay = 500 * time.Millisecond
)

// GoogleClient is the raw HTTP surface against the Google Calendar v3 API.
// Callers pass a valid access token; token refresh is the calendar service's
// job.
type GoogleClient interface {
	ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time) ([]dto.GoogleEvent, *errors.AppError)
	GetEvent(ctx context.Context, accessToken, eventID string) (*dto.GoogleEvent, *errors.AppError)
	CreateEvent(ctx context.Context, accessToken string, input *dto.GoogleEventInput, sendUpdates bool) (*dto.GoogleEvent, *errors.AppError)
	PatchEvent(ctx context.Context, accessToken, eventID string, input *dto.GoogleEventInput) (*dto.GoogleEvent, *errors.AppError)
	DeleteEvent(ctx context.Context, accessToken, eventID string) *errors.AppError
	WatchEvents(ctx context.Context, accessToken, channelID, address string) (*dto.WatchResponse, *errors.AppError)
	StopChannel(ctx context.Context, accessToken, channelID, resourceID string) *errors.AppError
}

type googleClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient creates a client against the real Google API
func NewGoogleClient() GoogleClient {
	return NewGoogleClientWithBaseURL(googleCalendarAPIBase)
}

// NewGoogleClientWithBaseURL creates a client against an arbitrary base URL,
// used by tests to point at a local server.
func NewGoogleClientWithBaseURL(baseURL string) GoogleClient {
	return &googleClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *googleClient) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time) ([]dto.GoogleEvent, *errors.AppError) {
	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	params.Set("timeMax", timeMax.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")
	params.Set("maxResults", "250")

	var result struct {
		Items []dto.GoogleEvent `json:"items"`
	}
	endpoint := c.baseURL + googleEventsPath + "?" + params.Encode()
	if appErr := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &result); appErr != nil {
		return nil, appErr
	}
	return result.Items, nil
}

func (c *googleClient) GetEvent(ctx context.Context, accessToken, eventID string) (*dto.GoogleEvent, *errors.AppError) {
	var event dto.GoogleEvent
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, googleEventsPath, eventID)
	if appErr := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &event); appErr != nil {
		return nil, appErr
	}
	return &event, nil
}

func (c *googleClient) CreateEvent(ctx context.Context, accessToken string, input *dto.GoogleEventInput, sendUpdates bool) (*dto.GoogleEvent, *errors.AppError) {
	endpoint := c.baseURL + googleEventsPath
	if sendUpdates {
		endpoint += "?sendUpdates=all"
	}

	var event dto.GoogleEvent
	if appErr := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, input, &event); appErr != nil {
		return nil, appErr
	}
	return &event, nil
}

func (c *googleClient) PatchEvent(ctx context.Context, accessToken, eventID string, input *dto.GoogleEventInput) (*dto.GoogleEvent, *errors.AppError) {
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, googleEventsPath, eventID)

	var event dto.GoogleEvent
	if appErr := c.doJSON(ctx, http.MethodPatch, endpoint, accessToken, input, &event); appErr != nil {
		return nil, appErr
	}
	return &event, nil
}

func (c *googleClient) DeleteEvent(ctx context.Context, accessToken, eventID string) *errors.AppError {
	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, googleEventsPath, eventID)
	return c.doJSON(ctx, http.MethodDelete, endpoint, accessToken, nil, nil)
}

func (c *googleClient) WatchEvents(ctx context.Context, accessToken, channelID, address string) (*dto.WatchResponse, *errors.AppError) {
	endpoint := c.baseURL + googleEventsPath + "/watch"
	body := &dto.WatchRequest{
		ID:      channelID,
		Type:    "web_hook",
		Address: address,
	}

	var resp dto.WatchResponse
	if appErr := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, body, &resp); appErr != nil {
		return nil, appErr
	}
	return &resp, nil
}

func (c *googleClient) StopChannel(ctx context.Context, accessToken, channelID, resourceID string) *errors.AppError {
	endpoint := c.baseURL + googleChannelStopPath
	body := map[string]string{
		"id":         channelID,
		"resourceId": resourceID,
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, accessToken, body, nil)
}

// doJSON issues one API call, retrying once after a short delay when the
// failure looks transient.
func (c *googleClient) doJSON(ctx context.Context, method, endpoint, accessToken string, body any, out any) *errors.AppError {
	appErr := c.doJSONOnce(ctx, method, endpoint, accessToken, body, out)
	if appErr == nil || appErr.Code != errors.ErrRemoteTransient {
		return appErr
	}

	select {
	case <-time.After(transientRetryDelay):
	case <-ctx.Done():
		return appErr
	}
	return c.doJSONOnce(ctx, method, endpoint, accessToken, body, out)
}

func (c *googleClient) doJSONOnce(ctx context.Context, method, endpoint, accessToken string, body any, out any) *errors.AppError {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrRemoteTransient, "Calendar provider unreachable", err)
	}
	defer resp.Body.Close()

	if appErr := mapStatus(resp); appErr != nil {
		return appErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to decode provider response", err)
		}
	}
	return nil
}

func mapStatus(resp *http.Response) *errors.AppError {
	if resp.StatusCode < 400 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := fmt.Sprintf("Google API error %d: %s", resp.StatusCode, string(raw))
	logger.Warn("GoogleClient:APIError", "status", resp.StatusCode, "body", string(raw))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.NewAppError(errors.ErrRemotePermanent, msg, nil)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return errors.NewAppError(errors.ErrRemoteNotFound, msg, nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return errors.NewAppError(errors.ErrRemoteTransient, msg, nil)
	default:
		return errors.NewAppError(errors.ErrRemotePermanent, msg, nil)
	}
}
