package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"goose_server/internal/db"
	"goose_server/internal/domain"
	"goose_server/internal/repository"
	"goose_server/internal/service"
)

// Smoke test for a running server: two users connect, one creates a game,
// the other joins, and they roll until somebody wins or the timeout hits.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ur := repository.NewUserRepository(pool)
	ctx := context.Background()

	userA := ensureUser(ctx, ur, "smokeA")
	userB := ensureUser(ctx, ur, "smokeB")

	service.InitJWT()
	tokenA, err := service.GenerateJWT(userA.ID)
	if err != nil {
		log.Fatalf("gen token A: %v", err)
	}
	tokenB, err := service.GenerateJWT(userB.ID)
	if err != nil {
		log.Fatalf("gen token B: %v", err)
	}

	dialer := websocket.DefaultDialer

	// 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	connA, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenA), nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenB), nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	send(connA, map[string]any{"type": "createGame"})
	gameID := waitForGameID(connA)
	log.Printf("created game %s", gameID)

	send(connB, map[string]any{"type": "joinGame", "gameId": gameID})
	waitFor(connB, "gameState")

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		send(connA, map[string]any{"type": "makeMove", "gameId": gameID})
		if finished(waitFor(connA, "gameState")) {
			log.Println("smoke ok: game finished")
			return
		}
		send(connB, map[string]any{"type": "makeMove", "gameId": gameID})
		if finished(waitFor(connB, "gameState")) {
			log.Println("smoke ok: game finished")
			return
		}
	}
	log.Fatal("smoke failed: game did not finish in time")
}

func ensureUser(ctx context.Context, ur *repository.UserRepository, name string) *domain.User {
	u, err := ur.GetByUsername(ctx, name)
	if err == nil {
		return u
	}
	u = &domain.User{Username: name}
	if err := ur.Create(ctx, u); err != nil {
		log.Fatalf("create %s: %v", name, err)
	}
	return u
}

func send(conn *websocket.Conn, msg map[string]any) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Fatalf("write: %v", err)
	}
}

// waitFor drains frames until one with the wanted action arrives.
func waitFor(conn *websocket.Conn, action string) map[string]any {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var obj map[string]any
		if json.Unmarshal(raw, &obj) != nil {
			continue
		}
		if a, ok := obj["action"].(string); ok && a == action {
			return obj
		}
		if a, ok := obj["action"].(string); ok && a == "error" {
			log.Fatalf("server error: %v", obj["data"])
		}
	}
	log.Fatalf("timed out waiting for %q", action)
	return nil
}

func waitForGameID(conn *websocket.Conn) string {
	obj := waitFor(conn, "gameCreated")
	data, _ := obj["data"].(map[string]any)
	game, _ := data["game"].(map[string]any)
	id, _ := game["id"].(string)
	if id == "" {
		log.Fatalf("gameCreated without id: %v", obj)
	}
	return id
}

func finished(obj map[string]any) bool {
	data, _ := obj["data"].(map[string]any)
	game, _ := data["game"].(map[string]any)
	status, _ := game["status"].(string)
	return status == string(domain.GameFinished)
}
