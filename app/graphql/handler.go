package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

type cookieWriterKey struct{}

// cookieWriter returns the ResponseWriter planted by Handler, so the
// auth mutations can set or clear the session cookie.
func cookieWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(cookieWriterKey{}).(http.ResponseWriter)
	return w
}

type gqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves POST /graphql against the given schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Fault(w, faults.New(faults.Validation, "invalid request body"))
			return
		}
		if req.Query == "" {
			response.Fault(w, faults.New(faults.Validation, "query is required"))
			return
		}

		ctx := context.WithValue(r.Context(), cookieWriterKey{}, w)
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})

		if len(result.Errors) > 0 {
			logger.WithCtx(r.Context()).Debug("graphql request returned errors",
				"operation", req.OperationName, "errors", len(result.Errors))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
