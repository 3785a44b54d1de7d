package middleware

import (
	"net/http"

	"cloudid/pkg/requestcontext"
)

// CertSubjectHeader carries the already-validated certificate subject
// extracted by the TLS terminator. This service performs no certificate
// parsing or trust validation itself.
const CertSubjectHeader = "X-Certificate-Subject"

// CertSubject copies the certificate subject header into the request context
// so the resolver endpoints can consume it.
func CertSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject := r.Header.Get(CertSubjectHeader); subject != "" {
			r = r.WithContext(requestcontext.WithCertSubject(r.Context(), subject))
		}
		next.ServeHTTP(w, r)
	})
}
