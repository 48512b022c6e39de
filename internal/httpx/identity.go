package httpx

import "net/http"

// Authentication lives outside this service; the gateway injects the verified
// member id.
const headerMemberID = "X-Member-ID"

func memberID(r *http.Request) string { return r.Header.Get(headerMemberID) }

// requireMember writes a 401 and returns "" when the identity header is absent.
func requireMember(w http.ResponseWriter, r *http.Request) string {
	id := memberID(r)
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing member identity"})
	}
	return id
}
