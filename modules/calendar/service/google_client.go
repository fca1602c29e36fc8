package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/modules/calendar/dto"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"

	// eventsPageSize is Google's documented maximum for events.list.
	eventsPageSize = 2500
)

// CalendarClient is the thin, stateless provider API surface. Every call is
// independently retryable; none of them touch local state.
type CalendarClient interface {
	ListCalendars(ctx context.Context, accessToken string) ([]dto.Calendar, error)
	ListEvents(ctx context.Context, accessToken, calendarID string, windowStart, windowEnd time.Time) ([]dto.CalendarEvent, error)
	CreateEvent(ctx context.Context, accessToken, calendarID string, event *dto.EventInput) (*dto.CalendarEvent, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
	RegisterWebhook(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*dto.WebhookChannel, error)
	DeregisterWebhook(ctx context.Context, accessToken, channelID, resourceID string) error
}

type googleCalendarClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleCalendarClient builds the production client against the Google
// Calendar v3 REST API.
func NewGoogleCalendarClient() CalendarClient {
	return &googleCalendarClient{
		baseURL:    googleCalendarAPIBase,
		httpClient: &http.Client{Timeout: constants.ExternalAPITimeout},
	}
}

// NewGoogleCalendarClientWithBaseURL is used by tests to point the client at
// a local server.
func NewGoogleCalendarClientWithBaseURL(baseURL string) CalendarClient {
	return &googleCalendarClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: constants.ExternalAPITimeout},
	}
}

func (c *googleCalendarClient) ListCalendars(ctx context.Context, accessToken string) ([]dto.Calendar, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/users/me/calendarList", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Summary string `json:"summary"`
			Primary bool   `json:"primary"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse calendar list", err)
	}

	calendars := make([]dto.Calendar, 0, len(result.Items))
	for _, item := range result.Items {
		calendars = append(calendars, dto.Calendar{
			ID:          item.ID,
			DisplayName: item.Summary,
			IsPrimary:   item.Primary,
		})
	}
	return calendars, nil
}

// googleEventTime is the provider's polymorphic time shape: dateTime for
// timed events, date for all-day events.
type googleEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleEvent struct {
	ID      string          `json:"id"`
	Summary string          `json:"summary"`
	Status  string          `json:"status"`
	Start   googleEventTime `json:"start"`
	End     googleEventTime `json:"end"`
}

// ListEvents fetches single-instance-expanded events inside the window,
// ordered by start time, following pagination. Cancelled events and all-day
// events are filtered out: neither can be mapped to a concrete busy interval.
func (c *googleCalendarClient) ListEvents(ctx context.Context, accessToken, calendarID string, windowStart, windowEnd time.Time) ([]dto.CalendarEvent, error) {
	var events []dto.CalendarEvent
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("singleEvents", "true")
		params.Set("orderBy", "startTime")
		params.Set("timeMin", windowStart.Format(time.RFC3339))
		params.Set("timeMax", windowEnd.Format(time.RFC3339))
		params.Set("maxResults", strconv.Itoa(eventsPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		apiURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(calendarID), params.Encode())
		body, err := c.do(ctx, http.MethodGet, apiURL, accessToken, nil)
		if err != nil {
			return nil, err
		}

		var result struct {
			Items         []googleEvent `json:"items"`
			NextPageToken string        `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse events response", err)
		}

		for _, item := range result.Items {
			if item.Status == "cancelled" {
				continue
			}
			if item.Start.DateTime == "" || item.End.DateTime == "" {
				// All-day event: date-only, no start/end instants.
				continue
			}
			start, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				logger.Warn("GoogleCalendarClient:ListEvents:BadStartTime", "event_id", item.ID, "value", item.Start.DateTime)
				continue
			}
			end, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				logger.Warn("GoogleCalendarClient:ListEvents:BadEndTime", "event_id", item.ID, "value", item.End.DateTime)
				continue
			}
			events = append(events, dto.CalendarEvent{
				ID:       item.ID,
				Title:    item.Summary,
				Start:    start,
				End:      end,
				TimeZone: item.Start.TimeZone,
			})
		}

		if result.NextPageToken == "" {
			return events, nil
		}
		pageToken = result.NextPageToken
	}
}

func (c *googleCalendarClient) CreateEvent(ctx context.Context, accessToken, calendarID string, event *dto.EventInput) (*dto.CalendarEvent, error) {
	payload := map[string]any{
		"summary":     event.Summary,
		"description": event.Description,
		"start": map[string]string{
			"dateTime": event.Start.Format(time.RFC3339),
			"timeZone": event.TimeZone,
		},
		"end": map[string]string{
			"dateTime": event.End.Format(time.RFC3339),
			"timeZone": event.TimeZone,
		},
	}

	apiURL := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	body, err := c.do(ctx, http.MethodPost, apiURL, accessToken, payload)
	if err != nil {
		return nil, err
	}

	var created googleEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse created event", err)
	}
	if created.ID == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "provider returned event without id", nil)
	}

	return &dto.CalendarEvent{
		ID:       created.ID,
		Title:    created.Summary,
		Start:    event.Start,
		End:      event.End,
		TimeZone: event.TimeZone,
	}, nil
}

// DeleteEvent removes an external event. Not-found and gone responses are
// success: the event is already absent, which is the state we wanted.
func (c *googleCalendarClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	apiURL := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, url.PathEscape(calendarID), url.PathEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, apiURL, nil)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrProviderUnavailable, "failed to delete event", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	return c.statusError(resp.StatusCode, respBody)
}

func (c *googleCalendarClient) RegisterWebhook(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*dto.WebhookChannel, error) {
	payload := map[string]any{
		"id":      channelID,
		"type":    "web_hook",
		"address": callbackURL,
		"token":   channelToken,
		"params": map[string]string{
			"ttl": strconv.FormatInt(int64(ttl.Seconds()), 10),
		},
	}

	apiURL := fmt.Sprintf("%s/calendars/%s/events/watch", c.baseURL, url.PathEscape(calendarID))
	body, err := c.do(ctx, http.MethodPost, apiURL, accessToken, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		ID         string `json:"id"`
		ResourceID string `json:"resourceId"`
		Expiration string `json:"expiration"` // unix millis, as a string
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse watch response", err)
	}

	expiresAt := time.Now().Add(ttl)
	if millis, err := strconv.ParseInt(result.Expiration, 10, 64); err == nil {
		expiresAt = time.UnixMilli(millis)
	}

	return &dto.WebhookChannel{
		ChannelID:  result.ID,
		ResourceID: result.ResourceID,
		ExpiresAt:  expiresAt,
	}, nil
}

// DeregisterWebhook is best-effort: the channel may already have expired
// server-side, so failures are logged rather than raised.
func (c *googleCalendarClient) DeregisterWebhook(ctx context.Context, accessToken, channelID, resourceID string) error {
	payload := map[string]any{
		"id":         channelID,
		"resourceId": resourceID,
	}

	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/channels/stop", accessToken, payload)
	if err != nil {
		logger.Warn("GoogleCalendarClient:DeregisterWebhook:Failed", "channel_id", channelID, "error", err)
	}
	return nil
}

func (c *googleCalendarClient) do(ctx context.Context, method, apiURL, accessToken string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to marshal request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "provider request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *googleCalendarClient) statusError(status int, body []byte) error {
	msg := fmt.Sprintf("Google Calendar API error: %d", status)
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return errors.NewAppError(errors.ErrUnauthorized, msg, fmt.Errorf("%s", string(body)))
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		return errors.NewAppError(errors.ErrProviderUnavailable, msg, fmt.Errorf("%s", string(body)))
	}
	return errors.NewAppError(errors.ErrInternalServer, msg, fmt.Errorf("%s", string(body)))
}
