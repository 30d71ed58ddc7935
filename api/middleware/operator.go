/*
 * @module api/middleware/operator
 * @description Carries the shop-floor operator identity from the X-Operator-Name header into the request context
 * @architecture Middleware pattern - request decoration
 * @stateFlow header extraction -> context injection -> next handler
 * @rules Identity only, no verification; a body operator_name always wins over the header
 * @dependencies net/http, context
 * @refs api/controllers/measurement_controller.go, api/routes.go
 */

package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

const (
	// OperatorHeader names the header read by Operator.
	OperatorHeader = "X-Operator-Name"
	// OperatorKey holds the operator name in the request context.
	OperatorKey ContextKey = "operator_name"
)

// Operator copies a non-empty X-Operator-Name header into the context.
func Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := strings.TrimSpace(r.Header.Get(OperatorHeader)); name != "" {
			r = r.WithContext(context.WithValue(r.Context(), OperatorKey, name))
		}
		next.ServeHTTP(w, r)
	})
}

// OperatorFrom returns the operator set by Operator, or "".
func OperatorFrom(ctx context.Context) string {
	name, _ := ctx.Value(OperatorKey).(string)
	return name
}

// OperatorOr returns name if set, else the operator from ctx.
func OperatorOr(ctx context.Context, name string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return OperatorFrom(ctx)
}
