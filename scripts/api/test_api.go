// Minimal end-to-end integration test for the verification API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

var baseURL = getenv("API_URL", "http://localhost:8080")

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	client := &http.Client{Timeout: 120 * time.Second}

	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		log.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("healthz: status %d", resp.StatusCode)
	}
	log.Printf("healthz ok")

	payload, _ := json.Marshal(map[string]interface{}{
		"text":          "The Eiffel Tower was completed in 1889. The earth is flat.",
		"question":      "Tell me about the Eiffel Tower",
		"lang":          "en",
		"evidenceCheck": true,
	})

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/v1/verify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token := os.Getenv("API_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err = client.Do(req)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("verify: status %d: %s", resp.StatusCode, body)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		log.Fatalf("verify: bad JSON: %v", err)
	}
	fmt.Println(out.String())
}
