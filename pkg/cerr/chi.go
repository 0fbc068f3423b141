package cerr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sourcegraph/conc/panics"
)

type responseReceiverKey struct{}

// responseReceiver collects what a handler wants written. The error wins
// when both are set.
type responseReceiver struct {
	response any
	err      error
}

func responseReceiverFromContext(ctx context.Context) *responseReceiver {
	rr, _ := ctx.Value(responseReceiverKey{}).(*responseReceiver)
	return rr
}

func SetJSONResponse(ctx context.Context, response any) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.response = response
	}
}

func SetJSONError(ctx context.Context, err error) {
	if rr := responseReceiverFromContext(ctx); rr != nil {
		rr.err = err
	}
}

func SetNewJSONError(ctx context.Context, code Code, msg string, err error) {
	SetJSONError(ctx, NewError(code, msg, err))
}

// DecodeJSON reads one JSON value of at most limit bytes from the request
// body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) *Error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewError(InvalidArgument, "request body too large", err)
	}
	return NewError(InvalidArgument, "invalid request body", err)
}

// NewJSONChiMiddleware lets handlers report results with SetJSONResponse and
// SetJSONError instead of writing to the ResponseWriter themselves. A
// handler that sets nothing answers {}; a panicking one answers internal.
func NewJSONChiMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rr := &responseReceiver{}
			ctx := context.WithValue(r.Context(), responseReceiverKey{}, rr)

			var catcher panics.Catcher
			catcher.Try(func() {
				next.ServeHTTP(rw, r.WithContext(ctx))
			})
			if recovered := catcher.Recovered(); recovered != nil {
				rr.err = NewError(Internal, "server error", recovered.AsError())
			}
			if rr.err == nil && rr.response == nil {
				rr.response = struct{}{}
			}
			ExtractToHTTPResponse(ctx, rw, rr)
		})
	}
}
