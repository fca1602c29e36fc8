package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"clinic-booking-api/modules/calendar/dto"
)

func TestListEventsFiltersCancelledAndAllDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("singleEvents") != "true" {
			t.Errorf("expected singleEvents=true, got %q", r.URL.Query().Get("singleEvents"))
		}
		resp := map[string]any{
			"items": []map[string]any{
				{
					"id":      "ev-timed",
					"summary": "Consultation",
					"status":  "confirmed",
					"start":   map[string]string{"dateTime": "2026-09-02T14:00:00Z"},
					"end":     map[string]string{"dateTime": "2026-09-02T16:00:00Z"},
				},
				{
					"id":     "ev-cancelled",
					"status": "cancelled",
					"start":  map[string]string{"dateTime": "2026-09-03T10:00:00Z"},
					"end":    map[string]string{"dateTime": "2026-09-03T11:00:00Z"},
				},
				{
					"id":     "ev-allday",
					"status": "confirmed",
					"start":  map[string]string{"date": "2026-09-04"},
					"end":    map[string]string{"date": "2026-09-05"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewGoogleCalendarClientWithBaseURL(srv.URL)
	events, err := client.ListEvents(context.Background(), "tok", "primary", time.Now(), time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event after filtering, got %d", len(events))
	}
	if events[0].ID != "ev-timed" {
		t.Errorf("expected ev-timed to survive filtering, got %q", events[0].ID)
	}
	if events[0].End.Sub(events[0].Start) != 2*time.Hour {
		t.Errorf("expected a 2h interval, got %v", events[0].End.Sub(events[0].Start))
	}
}

func TestListEventsFollowsPagination(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var resp map[string]any
		if r.URL.Query().Get("pageToken") == "" {
			resp = map[string]any{
				"items": []map[string]any{{
					"id":    "ev-1",
					"start": map[string]string{"dateTime": "2026-09-02T09:00:00Z"},
					"end":   map[string]string{"dateTime": "2026-09-02T10:00:00Z"},
				}},
				"nextPageToken": "page-2",
			}
		} else {
			resp = map[string]any{
				"items": []map[string]any{{
					"id":    "ev-2",
					"start": map[string]string{"dateTime": "2026-09-03T09:00:00Z"},
					"end":   map[string]string{"dateTime": "2026-09-03T10:00:00Z"},
				}},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewGoogleCalendarClientWithBaseURL(srv.URL)
	events, err := client.ListEvents(context.Background(), "tok", "primary", time.Now(), time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 page fetches, got %d", calls)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events across pages, got %d", len(events))
	}
}

func TestDeleteEventToleratesGone(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		client := NewGoogleCalendarClientWithBaseURL(srv.URL)
		if err := client.DeleteEvent(context.Background(), "tok", "primary", "ev-1"); err != nil {
			t.Errorf("status %d: expected nil error, got %v", status, err)
		}
		srv.Close()
	}
}

func TestDeleteEventSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGoogleCalendarClientWithBaseURL(srv.URL)
	if err := client.DeleteEvent(context.Background(), "tok", "primary", "ev-1"); err == nil {
		t.Fatal("expected error on 500, got nil")
	}
}

func TestCreateEventFailsWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"summary": "created but no id"})
	}))
	defer srv.Close()

	client := NewGoogleCalendarClientWithBaseURL(srv.URL)
	_, err := client.CreateEvent(context.Background(), "tok", "primary", &dto.EventInput{
		Summary:  "Jane Doe - consultation",
		Start:    time.Now(),
		End:      time.Now().Add(time.Hour),
		TimeZone: "UTC",
	})
	if err == nil {
		t.Fatal("expected error when provider omits event id")
	}
}

func TestRegisterWebhookParsesExpiration(t *testing.T) {
	expiry := time.Now().Add(6 * 24 * time.Hour).UnixMilli()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "web_hook" {
			t.Errorf("expected type web_hook, got %v", body["type"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         body["id"],
			"resourceId": "res-123",
			"expiration": strconv.FormatInt(expiry, 10),
		})
	}))
	defer srv.Close()

	client := NewGoogleCalendarClientWithBaseURL(srv.URL)
	channel, err := client.RegisterWebhook(context.Background(), "tok", "primary", "chan-abc", "signed-token", "https://example.com/hook", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("RegisterWebhook returned error: %v", err)
	}
	if channel.ChannelID != "chan-abc" {
		t.Errorf("expected channel id chan-abc, got %q", channel.ChannelID)
	}
	if channel.ResourceID != "res-123" {
		t.Errorf("expected resource id res-123, got %q", channel.ResourceID)
	}
	if channel.ExpiresAt.UnixMilli() != expiry {
		t.Errorf("expected expiry %d, got %d", expiry, channel.ExpiresAt.UnixMilli())
	}
}
