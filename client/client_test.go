package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/itreb/portal/internal/domain"
)

func TestListingRevalidation(t *testing.T) {
	fullResponses := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("ETag", `"abc123"`)
		if r.Header.Get("If-None-Match") == `"abc123"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		fullResponses++
		json.NewEncoder(w).Encode([]domain.Event{{ID: "event-0", Title: "Seminar"}})
	}))
	defer server.Close()

	c := New(server.URL)

	for i := 0; i < 3; i++ {
		events, err := c.ListEvents(context.Background())
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(events) != 1 || events[0].Title != "Seminar" {
			t.Fatalf("fetch %d: unexpected events %v", i, events)
		}
	}

	if fullResponses != 1 {
		t.Errorf("expected one full download, got %d", fullResponses)
	}
}

func TestSubmitApplicationForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("first_name"); got != "Aly" {
			t.Errorf("first_name = %q", got)
		}
		if got := r.FormValue("portfolio"); got != "Youth" {
			t.Errorf("portfolio = %q", got)
		}
		if _, ok := r.MultipartForm.Value["opportunity_id"]; ok {
			t.Error("empty fields must be omitted")
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			t.Fatalf("resume missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "cv.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Application{ID: "app-0", FirstName: "Aly"})
	}))
	defer server.Close()

	c := New(server.URL)

	created, err := c.SubmitApplication(context.Background(), ApplicationForm{
		FirstName:     "Aly",
		LastName:      "Khan",
		Email:         "aly@example.com",
		ContactNumber: "0712345678",
		Age:           "25",
		Portfolio:     "Youth",
		ResumeName:    "cv.pdf",
		Resume:        strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "app-0" {
		t.Errorf("id = %q", created.ID)
	}
}

func TestSigninAttachesToken(t *testing.T) {
	var seenAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/signin":
			json.NewEncoder(w).Encode(Session{Token: "session-token"})
		case "/api/v1/applications":
			seenAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]domain.Application{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL)

	if _, err := c.Signin(context.Background(), "board@example.com", "password123"); err != nil {
		t.Fatalf("signin: %v", err)
	}
	if _, err := c.ListApplications(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if seenAuth != "Bearer session-token" {
		t.Errorf("authorization header = %q", seenAuth)
	}
}
