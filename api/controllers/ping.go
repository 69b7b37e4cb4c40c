package controllers

import (
	"net/http"

	"github.com/abronee/devex/api/responses"
)

// PublicPing answers unauthenticated reachability probes.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}
