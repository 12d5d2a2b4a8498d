package main

import (
	"log"
	"net/http"

	"skat-game/internal/config"
	"skat-game/internal/database"
	"skat-game/internal/server"
)

func main() {
	log.Println("Starting Skat server...")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.DatabaseDriver, err)
	}
	defer db.Close()

	hub := server.NewHub(db)
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", fs)

	server.HandleRoutes(mux, db)

	log.Printf("Listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}
