package oracle_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/oracle"
	"github.com/pders01/interview/internal/testutil"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantURL string
		wantErr bool
	}{
		{name: "with custom url", url: "http://oracle.local:9000/", wantURL: "http://oracle.local:9000"},
		{name: "with default url", url: "", wantURL: oracle.DefaultURL},
		{name: "unsupported scheme", url: "ftp://oracle.local", wantErr: true},
		{name: "missing host", url: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := oracle.NewClient(tt.url)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if client.BaseURL() != tt.wantURL {
				t.Errorf("expected url %s, got %s", tt.wantURL, client.BaseURL())
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	server := testutil.NewOracleServer(t)
	defer server.Cleanup()

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "available server", url: server.URL, expected: true},
		{name: "unavailable server", url: "http://localhost:99999", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oracle.IsAvailable(tt.url); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNext(t *testing.T) {
	first := testutil.Question("living-arrangement", models.TypeSelect, "Vivez-vous seul(e) ou en couple ?", "Seul(e)", "En couple")
	second := testutil.Question("rent", models.TypeNumber, "Loyer mensuel")

	server := testutil.NewOracleServer(t, first, second)
	defer server.Cleanup()

	client, err := oracle.NewClient(server.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ctx := context.Background()

	resp, err := client.Next(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Done() || resp.Question.ID != first.ID {
		t.Fatalf("expected first question, got %+v", resp)
	}
	if len(resp.Question.Options) != 2 || resp.Question.Options[1].Value != "En couple" {
		t.Errorf("unexpected options: %v", resp.Question.Options)
	}

	resp, err = client.Next(ctx, models.Answers{first.ID: models.String("En couple")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Done() || resp.Question.ID != second.ID {
		t.Fatalf("expected second question, got %+v", resp)
	}

	resp, err = client.Next(ctx, models.Answers{first.ID: models.String("En couple"), second.ID: models.Number(650)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Done() {
		t.Errorf("expected completion, got %+v", resp.Question)
	}

	requests := server.Requests()
	if len(requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(requests))
	}
	if len(requests[0]) != 0 {
		t.Errorf("expected first request to carry an empty answer set, got %v", requests[0])
	}
	if got, _ := requests[2].Get(second.ID); got.Num() != 650 {
		t.Errorf("expected rent to be sent as a number, got %v", got)
	}
}

func TestNextNullQuestionWinsOverCompletedFlag(t *testing.T) {
	server := testutil.NewOracleServer(t)
	defer server.Cleanup()
	server.RespondRaw(`{"question": null, "completed": false}`)

	client, _ := oracle.NewClient(server.URL)
	resp, err := client.Next(context.Background(), models.Answers{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Done() {
		t.Error("expected a null question to end the interview")
	}
}

func TestNextErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		raw    string
		want   errors.Kind
	}{
		{name: "server error", status: http.StatusInternalServerError, want: errors.KindTransport},
		{name: "not found", status: http.StatusNotFound, want: errors.KindTransport},
		{name: "invalid json", raw: `{"question": `, want: errors.KindMalformed},
		{name: "question missing label", raw: `{"question": {"id": "x", "type": "text"}, "completed": false}`, want: errors.KindMalformed},
		{name: "question with unknown type", raw: `{"question": {"id": "x", "type": "slider", "label": "X"}}`, want: errors.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewOracleServer(t)
			defer server.Cleanup()
			if tt.status != 0 {
				server.FailWith(tt.status)
			}
			if tt.raw != "" {
				server.RespondRaw(tt.raw)
			}

			client, _ := oracle.NewClient(server.URL)
			_, err := client.Next(context.Background(), models.Answers{})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.KindOf(err); got != tt.want {
				t.Errorf("expected kind %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestNextUnreachable(t *testing.T) {
	client, _ := oracle.NewClient("http://localhost:99999", oracle.WithTimeout(time.Second))
	_, err := client.Next(context.Background(), models.Answers{})
	if errors.KindOf(err) != errors.KindTransport {
		t.Errorf("expected transport failure, got %v", err)
	}
}

func TestNextCancelled(t *testing.T) {
	server := testutil.NewOracleServer(t, testutil.Question("x", models.TypeText, "X"))
	defer server.Cleanup()

	client, _ := oracle.NewClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Next(ctx, models.Answers{})
	if errors.KindOf(err) != errors.KindCancelled {
		t.Errorf("expected cancellation, got %v", err)
	}
	if !errors.Is(err, errors.ErrTransport) {
		t.Error("expected cancellation to also be a transport failure")
	}
}

func TestDescribe(t *testing.T) {
	server := testutil.NewOracleServer(t)
	defer server.Cleanup()
	server.SetDescription(oracle.Description{
		Meta:            oracle.Meta{Title: "Simulateur", Description: "Estimez vos droits"},
		Sections:        []models.Section{{ID: "foyer", Title: "Votre foyer"}},
		StartQuestionID: "living-arrangement",
	})

	client, _ := oracle.NewClient(server.URL, oracle.WithPaths("", oracle.DefaultQuestionnairePath))
	desc, err := client.Describe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Meta.Title != "Simulateur" || desc.StartQuestionID != "living-arrangement" {
		t.Errorf("unexpected description: %+v", desc)
	}

	server.FailWith(http.StatusServiceUnavailable)
	if _, err := client.Describe(context.Background()); errors.KindOf(err) != errors.KindTransport {
		t.Errorf("expected transport failure, got %v", err)
	}
}
