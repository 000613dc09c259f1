package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/hermes/pkg/domain/interfaces"
	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/model/integration"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/utils/errutil"
	"github.com/secmon-lab/hermes/pkg/utils/safe"
)

// fieldDesc describes one accepted request field for the GET
// self-description of a route.
type fieldDesc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// opSpec binds one boundary operation: its self-description and its
// invocation against an initialized adapter.
type opSpec struct {
	name   string
	fields []fieldDesc
	// invoke runs the operation. The adapter is already initialized
	// unless skipInit is set.
	invoke   func(ctx context.Context, itg interfaces.ChatIntegration, body json.RawMessage) (any, int)
	skipInit bool
}

var connectionIDField = fieldDesc{
	Name:        "connectionId",
	Type:        "string",
	Required:    true,
	Description: "Connector connection ID of the pre-authenticated session",
}

var sendMessageOp = opSpec{
	name: "send-message",
	fields: []fieldDesc{
		connectionIDField,
		{Name: "channel", Type: "string", Required: true, Description: "Target channel ID or name"},
		{Name: "text", Type: "string", Required: true, Description: "Message text, 1 to 4000 characters"},
		{Name: "threadTs", Type: "string", Required: false, Description: "Thread timestamp to reply into"},
		{Name: "markdown", Type: "boolean", Required: false},
	},
	invoke: func(ctx context.Context, itg interfaces.ChatIntegration, body json.RawMessage) (any, int) {
		var req chat.SendMessageRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return malformedBody(itg, err)
		}
		env := itg.SendMessage(ctx, &req)
		return env, envelopeStatus(env.Success, env.Error)
	},
}

var listUsersOp = opSpec{
	name: "users",
	fields: []fieldDesc{
		connectionIDField,
		{Name: "limit", Type: "number", Required: false, Description: "Page size, 1 to 1000 (default 100)"},
		{Name: "cursor", Type: "string", Required: false, Description: "Opaque pagination cursor"},
		{Name: "includeLocale", Type: "boolean", Required: false},
	},
	invoke: func(ctx context.Context, itg interfaces.ChatIntegration, body json.RawMessage) (any, int) {
		var req chat.GetUsersRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return malformedBody(itg, err)
		}
		env := itg.GetUsers(ctx, &req)
		return env, envelopeStatus(env.Success, env.Error)
	},
}

var listChannelsOp = opSpec{
	name: "channels",
	fields: []fieldDesc{
		connectionIDField,
		{Name: "limit", Type: "number", Required: false, Description: "Page size, 1 to 1000 (default 100)"},
		{Name: "cursor", Type: "string", Required: false, Description: "Opaque pagination cursor"},
		{Name: "types", Type: "array", Required: false, Description: "Channel type filter (default public+private)"},
		{Name: "excludeArchived", Type: "boolean", Required: false, Description: "Exclude archived channels (default true)"},
	},
	invoke: func(ctx context.Context, itg interfaces.ChatIntegration, body json.RawMessage) (any, int) {
		var req chat.GetChannelsRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return malformedBody(itg, err)
		}
		env := itg.GetChannels(ctx, &req)
		return env, envelopeStatus(env.Success, env.Error)
	},
}

var userInfoOp = opSpec{
	name: "user-info",
	fields: []fieldDesc{
		connectionIDField,
		{Name: "userId", Type: "string", Required: true, Description: "Provider-assigned user ID"},
	},
	invoke: func(ctx context.Context, itg interfaces.ChatIntegration, body json.RawMessage) (any, int) {
		var req chat.GetUserInfoRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return malformedBody(itg, err)
		}
		env := itg.GetUserInfo(ctx, &req)
		return env, envelopeStatus(env.Success, env.Error)
	},
}

var healthCheckOp = opSpec{
	name:     "health",
	fields:   []fieldDesc{connectionIDField},
	skipInit: true,
	invoke: func(ctx context.Context, itg interfaces.ChatIntegration, _ json.RawMessage) (any, int) {
		hc, err := itg.TestConnection(ctx)
		if err != nil {
			env := failEnvelope(itg, err)
			return env, envelopeStatus(false, env.Error)
		}
		env := integration.OK(itg.ID(), itg.Version(), hc)
		return env, http.StatusOK
	},
}

// registerOperation wires one operation route: POST invokes the
// adapter, GET returns the static self-description without any adapter
// work.
func registerOperation(r chi.Router, pattern string, s *Server, op opSpec) {
	r.Post(pattern, s.operationHandler(op))
	r.Get(pattern, describeHandler(op))
}

func describeHandler(op opSpec) http.HandlerFunc {
	type description struct {
		Operation string      `json:"operation"`
		Method    string      `json:"method"`
		Fields    []fieldDesc `json:"fields"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(description{
			Operation: op.name,
			Method:    http.MethodPost,
			Fields:    op.fields,
		})
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal operation description"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(r.Context(), w, data)
	}
}

func (s *Server) operationHandler(op opSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
			return
		}

		var base struct {
			ConnectionID string `json:"connectionId"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &base); err != nil {
				e := integration.NewError(types.ErrInvalidFormat, "request body is not valid JSON")
				writeJSON(ctx, w, http.StatusBadRequest,
					integration.Fail[any](types.IntegrationSlack, "", e))
				return
			}
		}

		// The connection identifier gates everything: without it no
		// adapter is constructed and no external call happens.
		if base.ConnectionID == "" {
			e := integration.NewError(types.ErrMissingRequiredField, "connectionId is required")
			writeJSON(ctx, w, http.StatusBadRequest,
				integration.Fail[any](types.IntegrationSlack, "", e))
			return
		}

		if registered, ok := s.registry.Get(types.IntegrationSlack); ok && !registered.Enabled() {
			e := integration.NewError(types.ErrIntegrationDisabled, "slack integration is disabled")
			writeJSON(ctx, w, types.ErrIntegrationDisabled.HTTPStatus(),
				integration.Fail[any](types.IntegrationSlack, registered.Version(), e))
			return
		}

		itg, err := s.slackFactory()
		if err != nil {
			err = errutil.Handle(ctx, err, "failed to construct slack adapter")
			env := integration.Fail[any](types.IntegrationSlack, "",
				integration.ErrorFrom(err, false))
			writeJSON(ctx, w, envelopeStatus(false, env.Error), env)
			return
		}

		cfg := &integration.Config{
			ConnectionID:   base.ConnectionID,
			DefaultChannel: s.defaultChannel,
		}

		if err := itg.Initialize(ctx, cfg); err != nil {
			// The health route reports probe failures through the health
			// check result instead of an error envelope.
			if !op.skipInit {
				env := failEnvelope(itg, err)
				writeJSON(ctx, w, envelopeStatus(false, env.Error), env)
				return
			}
			if types.CodeOf(err).Category() == types.CategoryConfiguration {
				env := failEnvelope(itg, err)
				writeJSON(ctx, w, envelopeStatus(false, env.Error), env)
				return
			}
		}

		result, status := op.invoke(ctx, itg, body)
		writeJSON(ctx, w, status, result)
	}
}

func failEnvelope(itg interfaces.ChatIntegration, err error) *integration.Envelope[any] {
	return integration.Fail[any](itg.ID(), itg.Version(), integration.ErrorFrom(err, false))
}

func malformedBody(itg interfaces.ChatIntegration, _ error) (any, int) {
	e := integration.NewError(types.ErrInvalidFormat, "request body is not valid JSON")
	env := integration.Fail[any](itg.ID(), itg.Version(), e)
	return env, types.ErrInvalidFormat.HTTPStatus()
}

func envelopeStatus(success bool, e *integration.Error) int {
	if success {
		return http.StatusOK
	}
	if e == nil {
		return http.StatusInternalServerError
	}
	return e.Code.HTTPStatus()
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
