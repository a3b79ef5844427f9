// Smoke test: drives the full task lifecycle against a running server
// through the API client. Needs JWT_SECRET matching the server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/client"
)

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	verifier := auth.NewJWTVerifier(secret)
	token, err := verifier.Issue("smoke_user", time.Hour)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	// 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	c := client.New(fmt.Sprintf("http://127.0.0.1:%s", port), token)
	ctx := context.Background()

	desc := "created by smoke test"
	completed := false
	created, err := c.CreateTask(ctx, client.CreateTaskParams{
		Title:       "smoke task",
		Description: &desc,
		Completed:   &completed,
	})
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	log.Printf("created task %d", created.ID)

	page, err := c.ListTasks(ctx, client.ListOptions{Filter: "pending", Text: "smoke"})
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	log.Printf("list: %d tasks, total=%d", len(page.Tasks), page.Pagination.Total)

	toggled, err := c.ToggleTask(ctx, created.ID)
	if err != nil {
		log.Fatalf("toggle: %v", err)
	}
	if toggled == nil || !toggled.Completed {
		log.Fatalf("expected toggled task to be completed, got %+v", toggled)
	}
	log.Printf("toggled task %d to completed=%v", toggled.ID, toggled.Completed)

	deleted, err := c.DeleteTask(ctx, created.ID)
	if err != nil {
		log.Fatalf("delete: %v", err)
	}
	if deleted == nil {
		log.Fatal("expected deleted task data")
	}

	// second delete must be a null-data no-op
	again, err := c.DeleteTask(ctx, created.ID)
	if err != nil {
		log.Fatalf("second delete: %v", err)
	}
	if again != nil {
		log.Fatalf("expected null data on second delete, got %+v", again)
	}

	log.Println("smoke test finished")
}
