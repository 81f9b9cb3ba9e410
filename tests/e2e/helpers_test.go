package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// apiURL is the base URL of a running subnets API.
// Override with SUBNETS_API_URL env var.
var apiURL = "http://localhost:3001"

func TestMain(m *testing.M) {
	if os.Getenv("SUBNETS_E2E") == "" {
		fmt.Println("Skipping e2e tests (set SUBNETS_E2E=1 to run)")
		os.Exit(0)
	}
	if u := os.Getenv("SUBNETS_API_URL"); u != "" {
		apiURL = u
	}
	http.DefaultClient.Timeout = 30 * time.Second
	os.Exit(m.Run())
}

// uniqueName returns a project name that will not collide with earlier runs.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func httpDo(t *testing.T, method, url string, body any) (*http.Response, string) {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal %s body: %v", method, err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("create %s request %s: %v", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func httpGet(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	return httpDo(t, http.MethodGet, url, nil)
}

func httpPost(t *testing.T, url string, body any) (*http.Response, string) {
	t.Helper()
	return httpDo(t, http.MethodPost, url, body)
}

func httpPut(t *testing.T, url string, body any) (*http.Response, string) {
	t.Helper()
	return httpDo(t, http.MethodPut, url, body)
}

func httpDelete(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	return httpDo(t, http.MethodDelete, url, nil)
}

// parseJSON unmarshals a JSON response body into a map.
func parseJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// parseJSONArray unmarshals a JSON array response body.
func parseJSONArray(t *testing.T, body string) []map[string]any {
	t.Helper()
	var result []map[string]any
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("parse JSON array: %v\nbody: %s", err, body)
	}
	return result
}

// createTestProject creates a project and registers its deletion.
func createTestProject(t *testing.T, prefix string) map[string]any {
	t.Helper()
	resp, body := httpPost(t, apiURL+"/api/projects", map[string]any{
		"name":     uniqueName(prefix),
		"provider": "AWS",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project: status %d body=%s", resp.StatusCode, body)
	}
	p := parseJSON(t, body)
	t.Cleanup(func() {
		httpDelete(t, apiURL+"/api/projects/"+p["id"].(string))
	})
	return p
}
