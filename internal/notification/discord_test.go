package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendDiscordSuccessNotification(t *testing.T) {
	var got DiscordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", server.URL)

	err := SendDiscordSuccessNotification("scene.csv classified", DiscordField{Name: "water", Value: "12.5%"})
	if err != nil {
		t.Fatalf("SendDiscordSuccessNotification: %v", err)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Description != "scene.csv classified" || got.Embeds[0].Color != colorGreen {
		t.Fatalf("message = %+v", got)
	}
	if len(got.Embeds[0].Fields) != 1 || got.Embeds[0].Fields[0].Value != "12.5%" {
		t.Fatalf("fields = %+v", got.Embeds[0].Fields)
	}
}

func TestSendDiscordErrorNotificationStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", server.URL)

	if err := SendDiscordErrorNotification("boom"); err == nil {
		t.Fatal("expected an error for a 400 response")
	}
}

func TestSendWithoutWebhook(t *testing.T) {
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", "")
	if err := SendDiscordErrorNotification("ignored"); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}
