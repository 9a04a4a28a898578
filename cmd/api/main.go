// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	upstreams := map[string]string{
		"inventory":    getEnv("INVENTORY_SERVICE_URL", "http://localhost:8081"),
		"leads":        getEnv("LEADS_SERVICE_URL", "http://localhost:8082"),
		"gamification": getEnv("GAMIFICATION_SERVICE_URL", "http://localhost:8083"),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	for name, raw := range upstreams {
		target, err := url.Parse(raw)
		if err != nil {
			log.Fatalf("Invalid upstream URL for %s: %v", name, err)
		}
		prefix := "/api/v1/" + name
		router.Mount(prefix, http.StripPrefix(prefix, httputil.NewSingleHostReverseProxy(target)))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	port := getEnv("PORT", "8080")
	log.Printf("API gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
