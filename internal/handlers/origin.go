package handlers

import (
	"net/http"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func timestamp(now time.Time) string {
	return now.UTC().Format(timestampLayout)
}

// requestOrigin returns protocol://host as the client addressed us. Cloud Run
// terminates TLS, so X-Forwarded-Proto wins over r.TLS.
func requestOrigin(r *http.Request) string {
	proto := "http"
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		proto = strings.TrimSpace(strings.Split(fwd, ",")[0])
	} else if r.TLS != nil {
		proto = "https"
	}
	return proto + "://" + r.Host
}
