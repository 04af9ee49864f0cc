package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	gqlmiddleware "github.com/zivohealth/reminders/internal/graphql/middleware"
	"github.com/zivohealth/reminders/internal/graphql/model"
	"github.com/zivohealth/reminders/internal/graphql/resolver"
	apperrors "github.com/zivohealth/reminders/pkg/errors"
	"github.com/zivohealth/reminders/pkg/jwt"
)

// GraphQLRequest represents an incoming GraphQL request.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLResponse represents a GraphQL response.
type GraphQLResponse struct {
	Data   interface{}    `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error.
type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Handler holds the GraphQL handler dependencies. It dispatches by
// operation name/body substring rather than a generated executor,
// covering only the reminder/device-token surface (spec §6.1, §9).
type Handler struct {
	Resolver   *resolver.Resolver
	JWTManager *jwt.Manager
}

func NewHandler(r *resolver.Resolver, jwtManager *jwt.Manager) *Handler {
	return &Handler{
		Resolver:   r,
		JWTManager: jwtManager,
	}
}

// GraphQL handles GraphQL HTTP POST requests.
func (h *Handler) GraphQL(c *gin.Context) {
	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GraphQLResponse{
			Errors: []GraphQLError{{Message: "Invalid request body"}},
		})
		return
	}

	ctx := h.contextWithAuth(c)
	result := h.execute(ctx, req)

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	c.JSON(http.StatusOK, result)
}

// GraphQLGet handles GraphQL HTTP GET requests (query passed as URL parameter).
func (h *Handler) GraphQLGet(c *gin.Context) {
	req := GraphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}

	if varsStr := c.Query("variables"); varsStr != "" {
		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(varsStr), &vars); err == nil {
			req.Variables = vars
		}
	}

	ctx := h.contextWithAuth(c)
	c.JSON(http.StatusOK, h.execute(ctx, req))
}

func (h *Handler) contextWithAuth(c *gin.Context) context.Context {
	ctx := c.Request.Context()

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ctx
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ctx
	}

	claims, err := h.JWTManager.ValidateToken(token)
	if err != nil {
		return ctx
	}

	ctx = gqlmiddleware.WithUserID(ctx, claims.UserID)
	if claims.DeviceID != nil {
		ctx = gqlmiddleware.WithDeviceID(ctx, *claims.DeviceID)
	}
	return ctx
}

func (h *Handler) execute(ctx context.Context, req GraphQLRequest) GraphQLResponse {
	query := strings.TrimSpace(req.Query)

	switch {
	case strings.HasPrefix(query, "mutation"):
		return h.executeMutation(ctx, req)
	case strings.HasPrefix(query, "subscription"):
		return GraphQLResponse{
			Errors: []GraphQLError{{Message: "subscriptions are only supported over WebSocket"}},
		}
	default:
		return h.executeQuery(ctx, req)
	}
}

func (h *Handler) executeQuery(ctx context.Context, req GraphQLRequest) GraphQLResponse {
	data := make(map[string]interface{})
	var errs []GraphQLError

	opName := strings.ToLower(req.OperationName)
	query := strings.ToLower(req.Query)

	if strings.Contains(query, "__schema") || strings.Contains(query, "__type(") || opName == "introspectionquery" {
		return GraphQLResponse{Data: getIntrospectionData()}
	}

	if opName == "reminder" || opName == "getreminder" {
		if idVar, ok := req.Variables["id"]; ok {
			if idStr, ok := idVar.(string); ok {
				id, err := uuid.Parse(idStr)
				if err == nil {
					result, err := h.Resolver.Reminder(ctx, id)
					if err != nil {
						errs = append(errs, errorToGraphQLError(err))
						data["reminder"] = nil
					} else {
						data["reminder"] = result
					}
				}
			}
		}
	}

	if opName == "reminders" || opName == "getreminders" {
		var filter *model.ReminderFilter
		var pagination *model.PaginationInput

		if filterVar, ok := req.Variables["filter"]; ok {
			filterBytes, _ := json.Marshal(filterVar)
			json.Unmarshal(filterBytes, &filter)
		}
		if paginationVar, ok := req.Variables["pagination"]; ok {
			paginationBytes, _ := json.Marshal(paginationVar)
			json.Unmarshal(paginationBytes, &pagination)
		}

		result, err := h.Resolver.Reminders(ctx, filter, pagination)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
			return GraphQLResponse{Data: nil, Errors: errs}
		}
		data["reminders"] = result
	}

	if opName == "devicetokens" || opName == "getdevicetokens" {
		result, err := h.Resolver.DeviceTokens(ctx)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
			return GraphQLResponse{Data: nil, Errors: errs}
		}
		data["deviceTokens"] = result
	}

	return GraphQLResponse{Data: data, Errors: errs}
}

func (h *Handler) executeMutation(ctx context.Context, req GraphQLRequest) GraphQLResponse {
	data := make(map[string]interface{})
	var errs []GraphQLError

	query := strings.ToLower(req.Query)

	if strings.Contains(query, "createreminder") {
		var input model.CreateReminderInput
		if inputVar, ok := req.Variables["input"]; ok {
			inputBytes, _ := json.Marshal(inputVar)
			json.Unmarshal(inputBytes, &input)
		}
		result, err := h.Resolver.CreateReminder(ctx, input)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
		} else {
			data["createReminder"] = result
		}
	}

	if strings.Contains(query, "updatereminder") {
		idStr, _ := req.Variables["id"].(string)
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			errs = append(errs, GraphQLError{Message: "invalid reminder id"})
		} else {
			var input model.UpdateReminderInput
			if inputVar, ok := req.Variables["input"]; ok {
				inputBytes, _ := json.Marshal(inputVar)
				json.Unmarshal(inputBytes, &input)
			}
			result, err := h.Resolver.UpdateReminder(ctx, id, input)
			if err != nil {
				errs = append(errs, errorToGraphQLError(err))
			} else {
				data["updateReminder"] = result
			}
		}
	}

	if strings.Contains(query, "deletereminder") {
		idStr, _ := req.Variables["id"].(string)
		id, _ := uuid.Parse(idStr)
		result, err := h.Resolver.DeleteReminder(ctx, id)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
			data["deleteReminder"] = nil
		} else {
			data["deleteReminder"] = result
		}
	}

	if strings.Contains(query, "acknowledgereminder") {
		idStr, _ := req.Variables["id"].(string)
		id, _ := uuid.Parse(idStr)
		result, err := h.Resolver.AcknowledgeReminder(ctx, id)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
		} else {
			data["acknowledgeReminder"] = result
		}
	}

	if strings.Contains(query, "registerdevicetoken") {
		var input model.RegisterDeviceTokenInput
		if inputVar, ok := req.Variables["input"]; ok {
			inputBytes, _ := json.Marshal(inputVar)
			json.Unmarshal(inputBytes, &input)
		}
		result, err := h.Resolver.RegisterDeviceToken(ctx, input)
		if err != nil {
			errs = append(errs, errorToGraphQLError(err))
		} else {
			data["registerDeviceToken"] = result
		}
	}

	if len(errs) > 0 && len(data) == 0 {
		return GraphQLResponse{Data: nil, Errors: errs}
	}
	return GraphQLResponse{Data: data, Errors: errs}
}

func errorToGraphQLError(err error) GraphQLError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return GraphQLError{
			Message: appErr.Message,
			Extensions: map[string]interface{}{
				"code": appErr.Code,
			},
		}
	}
	return GraphQLError{Message: err.Error()}
}

// Playground serves the GraphQL Playground UI.
func (h *Handler) Playground(c *gin.Context) {
	c.Header("Content-Type", "text/html")
	c.String(http.StatusOK, playgroundHTML)
}

var playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset=utf-8/>
  <meta name="viewport" content="user-scalable=no, initial-scale=1.0, minimum-scale=1.0, maximum-scale=1.0, minimal-ui">
  <title>Reminders GraphQL Playground</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css" />
  <link rel="shortcut icon" href="//cdn.jsdelivr.net/npm/graphql-playground-react/build/favicon.png" />
  <script src="//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root">
    <style>
      body { background-color: rgb(23, 42, 58); font-family: Open Sans, sans-serif; height: 90vh; }
      #root { height: 100%; width: 100%; display: flex; align-items: center; justify-content: center; }
      .loading { font-size: 32px; font-weight: 200; color: rgba(255, 255, 255, .6); margin-left: 28px; }
      img { width: 78px; height: 78px; }
      .title { font-weight: 400; }
    </style>
    <img src='//cdn.jsdelivr.net/npm/graphql-playground-react/build/logo.png' alt=''>
    <div class="loading"> Loading
      <span class="title">Reminders GraphQL</span>
    </div>
  </div>
  <script>window.addEventListener('load', function (event) {
      GraphQLPlayground.init(document.getElementById('root'), {
        endpoint: '/graphql',
        subscriptionEndpoint: '/graphql'
      })
    })</script>
</body>
</html>`

func getIntrospectionData() map[string]interface{} {
	return map[string]interface{}{
		"__schema": map[string]interface{}{
			"queryType":        map[string]interface{}{"name": "Query"},
			"mutationType":     map[string]interface{}{"name": "Mutation"},
			"subscriptionType": map[string]interface{}{"name": "Subscription"},
			"types":            []interface{}{},
			"directives":       []interface{}{},
		},
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler implements the graphql-transport-ws protocol for the
// reminderStatusChanged subscription (spec §9).
func (h *Handler) WebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var userID string
	var authenticated bool
	subscriptions := make(map[string]context.CancelFunc)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			conn.WriteJSON(map[string]string{"type": "ka"})
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			for _, cancel := range subscriptions {
				cancel()
			}
			break
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		msgType, _ := msg["type"].(string)

		switch msgType {
		case "connection_init":
			if payload, ok := msg["payload"].(map[string]interface{}); ok {
				var authToken string
				if auth, ok := payload["Authorization"].(string); ok {
					authToken = auth
				} else if auth, ok := payload["authorization"].(string); ok {
					authToken = auth
				}

				if authToken != "" {
					token := strings.TrimPrefix(authToken, "Bearer ")
					claims, err := h.JWTManager.ValidateToken(token)
					if err == nil {
						userID = claims.UserID
						authenticated = true
					}
				}
			}
			conn.WriteJSON(map[string]string{"type": "connection_ack"})

		case "subscribe":
			if !authenticated {
				conn.WriteJSON(map[string]interface{}{
					"type":    "error",
					"id":      msg["id"],
					"payload": []map[string]string{{"message": "Unauthorized"}},
				})
				continue
			}

			id, _ := msg["id"].(string)

			ctx, cancel := context.WithCancel(context.Background())
			ctx = gqlmiddleware.WithUserID(ctx, userID)
			subscriptions[id] = cancel

			eventChan, err := h.Resolver.ReminderStatusChanged(ctx)
			if err != nil {
				conn.WriteJSON(map[string]interface{}{
					"type":    "error",
					"id":      id,
					"payload": []map[string]string{{"message": err.Error()}},
				})
				cancel()
				delete(subscriptions, id)
				continue
			}

			go func(subID string) {
				defer func() {
					delete(subscriptions, subID)
				}()

				for {
					select {
					case <-ctx.Done():
						return
					case event, ok := <-eventChan:
						if !ok {
							conn.WriteJSON(map[string]interface{}{
								"type": "complete",
								"id":   subID,
							})
							return
						}
						conn.WriteJSON(map[string]interface{}{
							"type": "next",
							"id":   subID,
							"payload": map[string]interface{}{
								"data": map[string]interface{}{
									"reminderStatusChanged": event,
								},
							},
						})
					}
				}
			}(id)

		case "complete":
			id, _ := msg["id"].(string)
			if cancel, ok := subscriptions[id]; ok {
				cancel()
				delete(subscriptions, id)
			}

		case "ping":
			conn.WriteJSON(map[string]string{"type": "pong"})
		}
	}
}
