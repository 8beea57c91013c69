package mcpserver

import "log/slog"

// Middleware is a function that wraps a request handler.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc handles one decoded JSON-RPC request. A nil response means
// the request was a notification and nothing is emitted.
type HandlerFunc func(req *Request) *Response

// LoggingMiddleware logs all incoming requests and their error outcomes.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(req *Request) *Response {
			logger.Info("rpc request", "method", req.Method, "id", string(req.ID))
			resp := next(req)
			if resp != nil && resp.Error != nil {
				logger.Error("rpc error",
					"method", req.Method, "code", resp.Error.Code, "message", resp.Error.Message)
			}
			return resp
		}
	}
}

// RecoveryMiddleware catches panics raised while handling one envelope and
// converts them to an internal-error response carrying the request's id, so
// a single request's fault never terminates the session.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(req *Request) (resp *Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic in request handler", "method", req.Method, "panic", r)
					resp = &Response{
						JSONRPC: "2.0",
						ID:      req.ID,
						Error: &RPCError{
							Code:    CodeInternalError,
							Message: "Internal error",
						},
					}
				}
			}()
			return next(req)
		}
	}
}
