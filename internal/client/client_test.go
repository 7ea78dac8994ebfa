package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"careerkit-backend/internal/keys"
)

const resultJSON = `{"cover_letter":"x","learning_roadmap":"y","study_notes":"z","youtube_links":[]}`

func validPayload() Payload {
	return Payload{
		FileName:       "resume.pdf",
		File:           []byte("%PDF-1.4 fake resume content"),
		JobTitle:       "Backend Engineer",
		JobDescription: strings.Repeat("d", 25),
	}
}

func TestDispatchServerDefaultUsesMultipart(t *testing.T) {
	var gotContentType, gotHeaderKey, gotJobTitle string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotHeaderKey = r.Header.Get("x-api-key")

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotJobTitle = r.FormValue("jobTitle")
		file, _, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, resultJSON)
	}))
	defer srv.Close()

	payload := validPayload()
	result, err := New(srv.URL).Dispatch(context.Background(), payload, keys.Credential{Key: "env-key", Origin: keys.OriginServer})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.CoverLetter != "x" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("expected multipart encoding, got %q", gotContentType)
	}
	if gotHeaderKey != "env-key" {
		t.Fatalf("expected credential in x-api-key header, got %q", gotHeaderKey)
	}
	if gotJobTitle != "Backend Engineer" {
		t.Fatalf("unexpected jobTitle: %q", gotJobTitle)
	}
	if string(gotFile) != string(payload.File) {
		t.Fatal("file part does not match payload bytes; expected raw binary, not base64")
	}
}

func TestDispatchUserKeyUsesBase64JSON(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, resultJSON)
	}))
	defer srv.Close()

	payload := validPayload()
	_, err := New(srv.URL).Dispatch(context.Background(), payload, keys.Credential{Key: "user-key", Origin: keys.OriginClient})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Fatalf("expected JSON encoding, got %q", gotContentType)
	}
	if gotBody["apiKey"] != "user-key" {
		t.Fatalf("expected apiKey in body, got %v", gotBody["apiKey"])
	}
	resume, ok := gotBody["resume"].(map[string]any)
	if !ok {
		t.Fatalf("missing resume object: %v", gotBody)
	}
	data, _ := resume["data"].(string)
	const prefix = "data:application/pdf;base64,"
	if !strings.HasPrefix(data, prefix) {
		t.Fatalf("resume.data not a pdf data URI: %q", data)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(data, prefix))
	if err != nil {
		t.Fatalf("decode resume.data: %v", err)
	}
	if string(decoded) != string(payload.File) {
		t.Fatal("decoded resume.data does not round-trip the payload bytes")
	}
}

func TestDispatchClassifiesKeyRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"API key is required","requiresApiKey":true}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Dispatch(context.Background(), validPayload(), keys.Credential{Key: "k", Origin: keys.OriginClient})
	var cerr *ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassifiedError, got %v", err)
	}
	if cerr.Status != http.StatusUnauthorized || !cerr.RequiresAPIKey {
		t.Fatalf("unexpected classification: %+v", cerr)
	}
}

func TestDispatchClassifiesQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "86400")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"Daily free tier quota exceeded.","type":"QUOTA_EXCEEDED"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Dispatch(context.Background(), validPayload(), keys.Credential{Key: "k", Origin: keys.OriginClient})
	var cerr *ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassifiedError, got %v", err)
	}
	if cerr.Type != "QUOTA_EXCEEDED" {
		t.Fatalf("unexpected type: %q", cerr.Type)
	}
	if cerr.RetryAfter != 24*time.Hour {
		t.Fatalf("unexpected retry-after: %v", cerr.RetryAfter)
	}
}

func TestDispatchRejectsInvalidPayloadLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be reached for an invalid payload")
	}))
	defer srv.Close()

	c := New(srv.URL)
	cred := keys.Credential{Key: "k", Origin: keys.OriginClient}

	p := validPayload()
	p.File = []byte("plain text, not a pdf")
	if _, err := c.Dispatch(context.Background(), p, cred); err == nil {
		t.Fatal("expected error for non-PDF payload")
	}

	p = validPayload()
	p.JobDescription = strings.Repeat("d", 19)
	if _, err := c.Dispatch(context.Background(), p, cred); err == nil {
		t.Fatal("expected error for short job description")
	}
}

func TestDispatchSingleOutstandingRequest(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(inFlight)
		<-release
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, resultJSON)
	}))
	defer srv.Close()

	c := New(srv.URL)
	cred := keys.Credential{Key: "k", Origin: keys.OriginClient}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := c.Dispatch(context.Background(), validPayload(), cred); err != nil {
			t.Errorf("first dispatch: %v", err)
		}
	}()

	<-inFlight
	_, busyErr := c.Dispatch(context.Background(), validPayload(), cred)
	close(release)
	wg.Wait()

	if !errors.Is(busyErr, ErrBusy) {
		t.Fatalf("expected ErrBusy while a submission is in flight, got %v", busyErr)
	}
}
