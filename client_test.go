package kurir

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET on the wire, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("hello")); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	resp, err := client.Get(context.Background(), "/greeting", nil)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("expected body %q, got %q", "hello", string(resp.Body))
	}
}

func TestClientPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST on the wire, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		if string(body) != `{"name":"kurir"}` {
			t.Errorf("unexpected body %q", string(body))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(WithDefaults(&RequestConfig{
		BaseURL: server.URL,
		Header:  http.Header{"Content-Type": {"application/json"}},
	}))

	resp, err := client.Post(context.Background(), "/things", []byte(`{"name":"kurir"}`), nil)
	if err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected status 201, got %d", resp.StatusCode)
	}
}

func TestClientMethodAliases(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (*Response, error)
		want string
	}{
		{"delete", func() (*Response, error) { return client.Delete(ctx, "/", nil) }, http.MethodDelete},
		{"head", func() (*Response, error) { return client.Head(ctx, "/", nil) }, http.MethodHead},
		{"options", func() (*Response, error) { return client.Options(ctx, "/", nil) }, http.MethodOptions},
		{"put", func() (*Response, error) { return client.Put(ctx, "/", []byte("x"), nil) }, http.MethodPut},
		{"patch", func() (*Response, error) { return client.Patch(ctx, "/", []byte("x"), nil) }, http.MethodPatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := test.call(); err != nil {
				t.Fatalf("%s alias returned error: %v", test.name, err)
			}
			if method != test.want {
				t.Errorf("expected %s on the wire, got %s", test.want, method)
			}
		})
	}
}

func TestClientDefaultHeadersReachServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Default") != "yes" {
			t.Error("default header missing")
		}
		if r.Header.Get("X-Call") != "yes" {
			t.Error("per-call header missing")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithDefaults(&RequestConfig{
		BaseURL: server.URL,
		Header:  http.Header{"X-Default": {"yes"}},
	}))

	_, err := client.Get(context.Background(), "/", &RequestConfig{
		Header: http.Header{"X-Call": {"yes"}},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGetURI(t *testing.T) {
	client := New(WithBaseURL("https://api.example.com"))

	uri, err := client.GetURI(&RequestConfig{
		URL:    "/users",
		Params: url.Values{"page": {"2"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if uri != "https://api.example.com/users?page=2" {
		t.Errorf("unexpected uri %q", uri)
	}
}

func TestGetURIStripsLeadingQuestionMark(t *testing.T) {
	client := New()

	uri, err := client.GetURI(&RequestConfig{
		Params: url.Values{"q": {"term"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if uri != "q=term" {
		t.Errorf("expected leading ? stripped, got %q", uri)
	}
}

func TestInterceptorsEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Error("authorization header missing at server")
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("payload")); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	client.Interceptors().Request.Use(func(cfg *RequestConfig) (*RequestConfig, error) {
		if cfg.Header == nil {
			cfg.Header = http.Header{}
		}
		cfg.Header.Set("Authorization", "Bearer token")
		return cfg, nil
	}, nil, &InterceptorOptions{Synchronous: true})
	client.Interceptors().Response.Use(func(resp *Response) (*Response, error) {
		resp.Header.Set("X-Seen", "1")
		return resp, nil
	}, nil, nil)

	resp, err := client.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Seen") != "1" {
		t.Error("response interceptor did not run")
	}
}

func TestClientDefaultTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithTimeout(30*time.Millisecond))

	_, err := client.Get(context.Background(), "/", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
