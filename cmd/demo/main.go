// Command demo walks through the comment API end to end against a running
// server: register a user, create a task, then create, list, update and delete
// comments on it.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type authResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type task struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type comment struct {
	ID      uint   `json:"id"`
	TaskID  uint   `json:"task_id"`
	Content string `json:"content"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) do(method, path string, body interface{}, out interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("encode body: %w", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	c := &client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}

	log.Println("=== Task Board Comment API Demo ===")

	// Register a throwaway user for the walkthrough
	username := fmt.Sprintf("demo-%d", time.Now().Unix())
	var authResp authResponse
	status, err := c.do(http.MethodPost, "/register", map[string]string{
		"username": username,
		"password": "demo-password",
	}, &authResp)
	if err != nil || status != http.StatusCreated {
		log.Fatalf("register: status=%d err=%v (is the server running?)", status, err)
	}
	c.token = authResp.AccessToken
	log.Printf("registered user %q", authResp.Username)

	// Create a task to comment on
	var t task
	status, err = c.do(http.MethodPost, "/tasks", map[string]string{
		"title":       "Demo Task",
		"description": "A task to demonstrate comment functionality",
	}, &t)
	if err != nil || status != http.StatusCreated {
		log.Fatalf("create task: status=%d err=%v", status, err)
	}
	log.Printf("created task %d: %s", t.ID, t.Title)

	// Create comments
	contents := []string{
		"This is the first comment",
		"This is a second comment with more details",
		"Final comment for testing",
	}
	var created []comment
	for _, content := range contents {
		var cm comment
		status, err = c.do(http.MethodPost, "/comments", map[string]interface{}{
			"task_id": t.ID,
			"content": content,
		}, &cm)
		if err != nil || status != http.StatusCreated {
			log.Fatalf("create comment: status=%d err=%v", status, err)
		}
		created = append(created, cm)
		log.Printf("created comment %d", cm.ID)
	}

	// List comments for the task
	var listed []comment
	status, err = c.do(http.MethodGet, fmt.Sprintf("/comments?task_id=%d", t.ID), nil, &listed)
	if err != nil || status != http.StatusOK {
		log.Fatalf("list comments: status=%d err=%v", status, err)
	}
	log.Printf("retrieved %d comments:", len(listed))
	for _, cm := range listed {
		log.Printf("  - %d: %s", cm.ID, cm.Content)
	}

	// Update the first comment
	var updated comment
	status, err = c.do(http.MethodPut, fmt.Sprintf("/comments/%d", created[0].ID), map[string]string{
		"content": "This comment has been updated!",
	}, &updated)
	if err != nil || status != http.StatusOK {
		log.Fatalf("update comment: status=%d err=%v", status, err)
	}
	log.Printf("updated comment %d: %s", updated.ID, updated.Content)

	// Delete the last comment
	status, err = c.do(http.MethodDelete, fmt.Sprintf("/comments/%d", created[len(created)-1].ID), nil, nil)
	if err != nil || status != http.StatusNoContent {
		log.Fatalf("delete comment: status=%d err=%v", status, err)
	}
	log.Printf("deleted comment %d", created[len(created)-1].ID)

	// Final count
	listed = nil
	status, err = c.do(http.MethodGet, fmt.Sprintf("/comments?task_id=%d", t.ID), nil, &listed)
	if err != nil || status != http.StatusOK {
		log.Fatalf("list comments: status=%d err=%v", status, err)
	}
	log.Printf("final count: %d comments remaining", len(listed))

	log.Println("=== Demo Complete ===")
}
