package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	email   = flag.String("email", env("EMAIL", "demo@example.com"), "User e-mail")
	pass    = flag.String("pass", env("PASSWORD", "Password123"), "User password")
	nVideos = flag.Int("videos", envInt("VIDEOS", 5), "How many videos to register")
	nAnnots = flag.Int("n", envInt("COUNT", 50), "How many annotations per video")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		i, err := fmt.Sscan(v, &i)
		if err != nil {
			return def
		}
		if i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// HTTP helpers ---------------------------------------------------------------
func doJSON(method, path string, body any, hdr map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, *baseURL+path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func must(body io.ReadCloser) []byte {
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Init account %s (videos=%d, annotations=%d each) on %s\n", *email, *nVideos, *nAnnots, *baseURL)

	token, err := ensureUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	for i := 1; i <= *nVideos; i++ {
		publicID, err := registerVideo(token)
		if err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		if err := createAnnotations(token, publicID, *nAnnots); err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		fmt.Printf("• video %s seeded (%d/%d)\n", publicID, i, *nVideos)
	}

	fmt.Println("✔ done")
}

// ----------------------------------------------------------------------------
// Step 1 – make sure the user exists -----------------------------------------
func ensureUser() (string, error) {
	payload := map[string]string{"email": *email, "password": *pass}

	// Try sign-up first …
	if resp, err := doJSON(http.MethodPost, "/api/v1/auth/sign-up", payload, nil); err == nil && resp.StatusCode < 300 {
		var r struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal(must(resp.Body), &r)
		fmt.Println("• signed-up new user")
		return r.Token, nil
	}

	// … otherwise fall back to sign-in.
	resp, err := doJSON(http.MethodPost, "/api/v1/auth/sign-in", payload, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	var r struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(must(resp.Body), &r)
	fmt.Println("• signed-in existing user")
	return r.Token, nil
}

// ----------------------------------------------------------------------------
// Step 2 – register a video --------------------------------------------------
func registerVideo(token string) (string, error) {
	h := map[string]string{"Authorization": "Bearer " + token}
	publicID := gofakeit.UUID()

	resp, err := doJSON(http.MethodPut, "/api/v1/videos/"+publicID, nil, h)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("register video failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	must(resp.Body)
	return publicID, nil
}

// ----------------------------------------------------------------------------
// Step 3 – create annotations, publish every other one -----------------------
func createAnnotations(token, publicID string, total int) error {
	h := map[string]string{"Authorization": "Bearer " + token}

	for i := 1; i <= total; i++ {
		annotation := map[string]any{
			"payload": map[string]any{
				"kind": "comment",
				"text": gofakeit.Sentence(8),
				"user": gofakeit.Username(),
			},
		}

		resp, err := doJSON(http.MethodPost, "/api/v1/videos/"+publicID+"/annotations", annotation, h)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create annotation %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}

		var created struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(must(resp.Body), &created)

		// Half the annotations stay drafts.
		if i%2 == 0 {
			publish := map[string]any{"position": gofakeit.Float64Range(0, 7200)}
			resp, err := doJSON(http.MethodPost, "/api/v1/annotations/"+created.ID+"/publish", publish, h)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("publish annotation %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
			}
			must(resp.Body)
		}

		if i%25 == 0 || i == total {
			fmt.Printf("  … %d/%d\n", i, total)
		}
	}
	return nil
}
